package domain

// SearchResult is one retrieved documentation snippet supplied by the caller.
// Snippets are produced upstream by the retrieval step and consumed read-only
// for the lifetime of a single request. Score drives ordering only; it is
// never re-validated here.
type SearchResult struct {
	Content  string
	Metadata Metadata
	Score    float64
}

// Metadata holds the optional source labels of a snippet. Empty fields are
// omitted from the formatted prompt block.
type Metadata struct {
	Title   string
	Section string
}
