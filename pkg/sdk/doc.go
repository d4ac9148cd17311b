// Package gensum provides a typed HTTP client for the gensum summary API.
//
// The client wraps the POST /api/generate-summary endpoint: it ships a user
// question together with pre-fetched documentation snippets and returns the
// model-generated answer.
//
//	client := gensum.New("http://localhost:8080", gensum.WithAPIKey("secret"))
//	answer, err := client.GenerateSummary(ctx, "how do I scale GKE?", results)
package gensum
