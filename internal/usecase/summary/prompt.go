package summary

import (
	"sort"
	"strings"

	"github.com/perjolt/gensum/internal/domain"
)

// promptTemplate is the fixed instruction block sent to the model.
// Downstream consumers depend on its exact wording; do not edit casually.
const promptTemplate = `You are a Google Cloud Platform technical expert. Based on the following context from GCP documentation, provide a comprehensive and accurate answer to the user's question.

Context from GCP Documentation:
{context}

User Question: {question}

Please provide:
1. A direct answer to the question
2. Key points from the documentation with specific details
3. Any important caveats or limitations to consider
4. Recommended best practices when relevant

Summary and Answer:`

// FormatContext renders search results into the context section of the prompt.
// Results are ordered ascending by score; equal scores keep their original
// relative order. The input slice is not mutated.
func FormatContext(results []domain.SearchResult) string {
	sorted := make([]domain.SearchResult, len(results))
	copy(sorted, results)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score < sorted[j].Score
	})

	blocks := make([]string, len(sorted))
	for i, r := range sorted {
		var b strings.Builder
		if r.Metadata.Title != "" {
			b.WriteString("Title: ")
			b.WriteString(r.Metadata.Title)
			b.WriteString("\n")
		}
		if r.Metadata.Section != "" {
			b.WriteString("Section: ")
			b.WriteString(r.Metadata.Section)
			b.WriteString("\n")
		}
		b.WriteString("Content: ")
		b.WriteString(r.Content)
		b.WriteString("\n---\n")
		blocks[i] = b.String()
	}

	return strings.Join(blocks, "\n")
}

// BuildPrompt substitutes the formatted context and the user question into
// the fixed template.
func BuildPrompt(question, context string) string {
	prompt := strings.Replace(promptTemplate, "{context}", context, 1)
	return strings.Replace(prompt, "{question}", question, 1)
}
