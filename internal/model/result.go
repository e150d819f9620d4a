package model

// MatchStatus is the outcome of the offset matcher for a row.
type MatchStatus string

// Offset match outcomes.
const (
	StatusMatched   MatchStatus = "Matched"
	StatusUnmatched MatchStatus = "Unmatched"
)

// OffsetMatch pairs a debit row with a credit row of equal magnitude in the
// same account. For an unmatched row the opposite side is -1 and DaysApart
// is nil.
type OffsetMatch struct {
	DaysApart *int
	AccountID string
	Amount    float64
	DebitRow  int
	CreditRow int
	Status    MatchStatus
}

// FlaggedEntry is a flagged record plus the categories it was flagged under.
// A record may carry multiple categories.
type FlaggedEntry struct {
	TransactionID string
	Categories    []string
	Row           int
}

// ResultBundle is the merged output of a run: category provenance from the
// rule evaluator plus the offset matcher's outcomes, in a shape the export
// collaborators consume directly.
type ResultBundle struct {
	// Categories maps a category label to the rows flagged under it, in
	// row order. CategoryOrder preserves the catalogue's declared order so
	// iteration is deterministic.
	Categories    map[string][]int
	CategoryOrder []string
	// Entries carries per-row provenance, ordered by row.
	Entries []FlaggedEntry
	// Flat is the deduplicated union of all flagged rows, ascending.
	Flat    []int
	Matches []OffsetMatch
}

// FlaggedCount returns the number of distinct flagged rows.
func (b *ResultBundle) FlaggedCount() int {
	return len(b.Flat)
}
