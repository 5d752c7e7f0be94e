package db

// TermQuery is an exact single-field lookup.
// Numeric queries match Number, all others match Text as one term.
type TermQuery struct {
	Field   string
	Text    string
	Number  float64
	Numeric bool
}

// TextQuery is an analyzed match over one or more fields.
// Fuzziness above zero allows that many edits per token.
type TextQuery struct {
	Fields    []string
	Text      string
	Fuzziness int
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   uint64
	Entries []SearchEntry
}

// SearchEntry is a single document hit. Fields is only set by Fetch.
type SearchEntry struct {
	ID     uint64
	Score  float64
	Fields map[string]any
}
