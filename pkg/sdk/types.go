package gensum

// SearchResult is one documentation snippet sent as grounding context.
type SearchResult struct {
	Content  string    `json:"content"`
	Metadata *Metadata `json:"metadata,omitempty"`
	Score    float64   `json:"score"`
}

// Metadata holds the optional source labels of a snippet.
type Metadata struct {
	Title   string `json:"title,omitempty"`
	Section string `json:"section,omitempty"`
}

// HealthReport is the GET /health response.
type HealthReport struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
