package normalize

import (
	"sort"
	"strings"
)

// currentTeams is the set of valid current team codes.
var currentTeams = map[string]bool{
	"ARI": true, "ATL": true, "BAL": true, "BUF": true, "CAR": true,
	"CHI": true, "CIN": true, "CLE": true, "DAL": true, "DEN": true,
	"DET": true, "GB": true, "HOU": true, "IND": true, "JAX": true,
	"KC": true, "LAC": true, "LAR": true, "LV": true, "MIA": true,
	"MIN": true, "NE": true, "NO": true, "NYG": true, "NYJ": true,
	"PHI": true, "PIT": true, "SEA": true, "SF": true, "TB": true,
	"TEN": true, "WAS": true,
}

// teamCodeAliases maps historical, relocated, and typo codes to the current
// code. Ambiguous city codes default per the documented convention:
// LA -> LAR, NY -> NYG.
var teamCodeAliases = map[string]string{
	"ARZ": "ARI", // Arizona
	"BLT": "BAL", // Baltimore (typo)
	"CLV": "CLE", // Cleveland
	"HST": "HOU", // Houston (typo)
	"JAC": "JAX", // Jacksonville
	"LA":  "LAR", // Los Angeles, default to Rams
	"NY":  "NYG", // New York, default to Giants
	"OAK": "LV",  // Oakland, relocated
	"SD":  "LAC", // San Diego, relocated
	"STL": "LAR", // St. Louis, relocated
	"WSH": "WAS", // Washington alternative
}

// teamNames maps lowercased full names, city names, and mascots to codes.
var teamNames = map[string]string{
	"arizona cardinals": "ARI", "atlanta falcons": "ATL",
	"baltimore ravens": "BAL", "buffalo bills": "BUF",
	"carolina panthers": "CAR", "chicago bears": "CHI",
	"cincinnati bengals": "CIN", "cleveland browns": "CLE",
	"dallas cowboys": "DAL", "denver broncos": "DEN",
	"detroit lions": "DET", "green bay packers": "GB",
	"houston texans": "HOU", "indianapolis colts": "IND",
	"jacksonville jaguars": "JAX", "kansas city chiefs": "KC",
	"las vegas raiders": "LV", "los angeles chargers": "LAC",
	"los angeles rams": "LAR", "miami dolphins": "MIA",
	"minnesota vikings": "MIN", "new england patriots": "NE",
	"new orleans saints": "NO", "new york giants": "NYG",
	"new york jets": "NYJ", "philadelphia eagles": "PHI",
	"pittsburgh steelers": "PIT", "san francisco 49ers": "SF",
	"seattle seahawks": "SEA", "tampa bay buccaneers": "TB",
	"tennessee titans": "TEN", "washington commanders": "WAS",

	"cardinals": "ARI", "falcons": "ATL", "ravens": "BAL", "bills": "BUF",
	"panthers": "CAR", "bears": "CHI", "bengals": "CIN", "browns": "CLE",
	"cowboys": "DAL", "broncos": "DEN", "lions": "DET", "packers": "GB",
	"texans": "HOU", "colts": "IND", "jaguars": "JAX", "chiefs": "KC",
	"raiders": "LV", "chargers": "LAC", "rams": "LAR", "dolphins": "MIA",
	"vikings": "MIN", "patriots": "NE", "saints": "NO", "giants": "NYG",
	"jets": "NYJ", "eagles": "PHI", "steelers": "PIT", "49ers": "SF",
	"niners": "SF", "seahawks": "SEA", "buccaneers": "TB", "bucs": "TB",
	"titans": "TEN", "commanders": "WAS",

	"arizona": "ARI", "atlanta": "ATL", "baltimore": "BAL", "buffalo": "BUF",
	"carolina": "CAR", "chicago": "CHI", "cincinnati": "CIN",
	"cleveland": "CLE", "dallas": "DAL", "denver": "DEN", "detroit": "DET",
	"green bay": "GB", "houston": "HOU", "indianapolis": "IND",
	"jacksonville": "JAX", "kansas city": "KC", "las vegas": "LV",
	"oakland": "LV", "los angeles": "LAR", "la chargers": "LAC",
	"la rams": "LAR", "miami": "MIA", "minnesota": "MIN",
	"new england": "NE", "new orleans": "NO", "new york": "NYG",
	"ny giants": "NYG", "ny jets": "NYJ", "philadelphia": "PHI",
	"philly": "PHI", "pittsburgh": "PIT", "san francisco": "SF",
	"san fran": "SF", "seattle": "SEA", "tampa bay": "TB", "tampa": "TB",
	"tennessee": "TEN", "washington": "WAS", "dc": "WAS",
}

// teamCity and teamMascot are the display name halves per code, used to
// generate defense-unit aliases.
var teamCity = map[string]string{
	"ARI": "Arizona", "ATL": "Atlanta", "BAL": "Baltimore", "BUF": "Buffalo",
	"CAR": "Carolina", "CHI": "Chicago", "CIN": "Cincinnati",
	"CLE": "Cleveland", "DAL": "Dallas", "DEN": "Denver", "DET": "Detroit",
	"GB": "Green Bay", "HOU": "Houston", "IND": "Indianapolis",
	"JAX": "Jacksonville", "KC": "Kansas City", "LAC": "Los Angeles",
	"LAR": "Los Angeles", "LV": "Las Vegas", "MIA": "Miami",
	"MIN": "Minnesota", "NE": "New England", "NO": "New Orleans",
	"NYG": "New York", "NYJ": "New York", "PHI": "Philadelphia",
	"PIT": "Pittsburgh", "SEA": "Seattle", "SF": "San Francisco",
	"TB": "Tampa Bay", "TEN": "Tennessee", "WAS": "Washington",
}

var teamMascot = map[string]string{
	"ARI": "Cardinals", "ATL": "Falcons", "BAL": "Ravens", "BUF": "Bills",
	"CAR": "Panthers", "CHI": "Bears", "CIN": "Bengals", "CLE": "Browns",
	"DAL": "Cowboys", "DEN": "Broncos", "DET": "Lions", "GB": "Packers",
	"HOU": "Texans", "IND": "Colts", "JAX": "Jaguars", "KC": "Chiefs",
	"LAC": "Chargers", "LAR": "Rams", "LV": "Raiders", "MIA": "Dolphins",
	"MIN": "Vikings", "NE": "Patriots", "NO": "Saints", "NYG": "Giants",
	"NYJ": "Jets", "PHI": "Eagles", "PIT": "Steelers", "SEA": "Seahawks",
	"SF": "49ers", "TB": "Buccaneers", "TEN": "Titans", "WAS": "Commanders",
}

// NormalizeTeam maps any team spelling, abbreviation, or historical code to
// the single current 2-3 letter code. Blank or unknown input maps to the
// free-agent sentinel. Idempotent.
func NormalizeTeam(team string) string {
	t := strings.TrimSpace(team)
	if t == "" {
		return TeamFreeAgent
	}

	upper := strings.ToUpper(t)
	if currentTeams[upper] || upper == TeamFreeAgent {
		return upper
	}
	if code, ok := teamCodeAliases[upper]; ok {
		return code
	}
	if code, ok := teamNames[strings.ToLower(t)]; ok {
		return code
	}
	return TeamFreeAgent
}

// TeamDisplayName returns the city and mascot halves of a team's display
// name, or empty strings for an unknown code.
func TeamDisplayName(code string) (city, mascot string) {
	return teamCity[code], teamMascot[code]
}

// TeamCodes returns all current team codes in sorted order.
func TeamCodes() []string {
	codes := make([]string, 0, len(currentTeams))
	for c := range currentTeams {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	return codes
}

// TeamFreeAgent is the sentinel returned for blank or unknown teams.
const TeamFreeAgent = "FA"
