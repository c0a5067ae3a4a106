package domain

// RawRecord is the normalized shape of one source row after field-name
// reconciliation. It is ephemeral: loaders own RawRecords and hand them to
// the pipeline by value; nothing downstream retains them.
type RawRecord struct {
	Source   string // source name, e.g. "fantasypros"
	Name     string
	Team     string
	Position string

	// Optional numeric fields. Nil means the source did not carry the field.
	ProjectedPoints *float64
	ADP             *float64
	AuctionValue    *float64
	Age             *int

	// Stats holds any additional per-stat columns (yards, receptions, ...).
	Stats map[string]float64
}
