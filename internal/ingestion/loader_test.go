package ingestion

import (
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoader_FieldNameMapping(t *testing.T) {
	in := strings.Join([]string{
		"Full Name,Tm,Pos,FPTS,ADP,AAV",
		"Justin Jefferson,MIN,WR,285.4,4.2,52",
		"Bijan Robinson,ATL,RB,290.1,2.1,58",
	}, "\n")

	result, err := NewLoader(slog.Default()).Load("fantasypros", strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, result.Records, 2)

	rec := result.Records[0]
	assert.Equal(t, "fantasypros", rec.Source)
	assert.Equal(t, "Justin Jefferson", rec.Name)
	assert.Equal(t, "MIN", rec.Team)
	assert.Equal(t, "WR", rec.Position)
	require.NotNil(t, rec.ProjectedPoints)
	assert.Equal(t, 285.4, *rec.ProjectedPoints)
	require.NotNil(t, rec.ADP)
	assert.Equal(t, 4.2, *rec.ADP)
	require.NotNil(t, rec.AuctionValue)
	assert.Equal(t, 52.0, *rec.AuctionValue)
}

func TestLoader_NATokensNullOut(t *testing.T) {
	in := strings.Join([]string{
		"name,team,position,points,adp",
		"Justin Jefferson,MIN,WR,285.4,N/A",
		"Chris Olave,NO,WR,--,12.5",
	}, "\n")

	result, err := NewLoader(slog.Default()).Load("cbs", strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, result.Records, 2)

	assert.Nil(t, result.Records[0].ADP)
	assert.Nil(t, result.Records[1].ProjectedPoints)
}

func TestLoader_CoercionCounting(t *testing.T) {
	in := strings.Join([]string{
		"name,team,position,points,auction value",
		`Justin Jefferson,MIN,WR,"1,285.4",$52`,
	}, "\n")

	result, err := NewLoader(slog.Default()).Load("espn", strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, result.Records, 1)

	assert.Equal(t, 1285.4, *result.Records[0].ProjectedPoints)
	assert.Equal(t, 52.0, *result.Records[0].AuctionValue)
	assert.Equal(t, 2, result.Coerced)
}

func TestLoader_QuarantinesBadRows(t *testing.T) {
	in := strings.Join([]string{
		"name,team,position,points",
		"Justin Jefferson,MIN,WR,285.4",
		",MIN,WR,100",                   // missing name
		"Chris Olave,NO,WR,not-number",  // bad points
		"Justin Jefferson,MIN,WR,285.4", // duplicate
		"Bijan Robinson,ATL,RB,290.1",
		"Puka Nacua,LAR,WR,250.0",
		"CeeDee Lamb,DAL,WR,270.0",
		"Saquon Barkley,PHI,RB,280.0",
		"Jahmyr Gibbs,DET,RB,265.0",
		"Derrick Henry,BAL,RB,245.0",
		"Josh Jacobs,GB,RB,230.0",
		"Kyren Williams,LAR,RB,225.0",
		"James Cook,BUF,RB,220.0",
		"Davante Adams,LAR,WR,215.0",
		"Mike Evans,TB,WR,210.0",
		"Drake London,ATL,WR,240.0",
		"Nico Collins,HOU,WR,235.0",
		"Brian Thomas,JAX,WR,233.0",
		"Malik Nabers,NYG,WR,238.0",
		"Amon-Ra St. Brown,DET,WR,255.0",
		"Garrett Wilson,NYJ,WR,228.0",
		"Terry McLaurin,WAS,WR,218.0",
		"DK Metcalf,PIT,WR,205.0",
		"Tee Higgins,CIN,WR,212.0",
		"Marvin Harrison,ARI,WR,216.0",
		"DeVonta Smith,PHI,WR,208.0",
		"Zay Flowers,BAL,WR,206.0",
		"Jaylen Waddle,MIA,WR,202.0",
		"Courtland Sutton,DEN,WR,198.0",
		"Jordan Addison,MIN,WR,190.0",
		"Rashee Rice,KC,WR,224.0",
		"Chuba Hubbard,CAR,RB,200.0",
		"Tony Pollard,TEN,RB,195.0",
	}, "\n")

	result, err := NewLoader(slog.Default()).Load("cbs", strings.NewReader(in))
	require.NoError(t, err)

	require.Len(t, result.Quarantined, 3)
	reasons := make(map[string]int)
	for _, q := range result.Quarantined {
		reasons[q.Reason]++
	}
	assert.Equal(t, 1, reasons["missing name"])
	assert.Equal(t, 1, reasons["unparseable projected points"])
	assert.Equal(t, 1, reasons["duplicate row"])
}

func TestLoader_FailsOverQuarantineRatio(t *testing.T) {
	// 2 of 4 rows quarantine: 50% is far past the 10% ceiling.
	in := strings.Join([]string{
		"name,team,position,points",
		"Justin Jefferson,MIN,WR,285.4",
		",MIN,WR,100",
		"Chris Olave,NO,WR,not-number",
		"Bijan Robinson,ATL,RB,290.1",
	}, "\n")

	_, err := NewLoader(slog.Default()).Load("cbs", strings.NewReader(in))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quarantine ratio")
}

func TestLoader_ExtraColumnsBecomeStats(t *testing.T) {
	in := strings.Join([]string{
		"name,team,position,points,rec,rec_yds",
		"Justin Jefferson,MIN,WR,285.4,104,1620",
	}, "\n")

	result, err := NewLoader(slog.Default()).Load("fantasypros", strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, result.Records, 1)

	assert.Equal(t, 104.0, result.Records[0].Stats["rec"])
	assert.Equal(t, 1620.0, result.Records[0].Stats["rec_yds"])
}

func TestLoader_MissingNameColumnFails(t *testing.T) {
	_, err := NewLoader(slog.Default()).Load("cbs", strings.NewReader("team,position,points\nMIN,WR,285.4\n"))
	require.Error(t, err)
}
