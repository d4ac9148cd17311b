package summary

import (
	"strings"
	"testing"

	"github.com/perjolt/gensum/internal/domain"
)

func TestFormatContext_OrdersByScoreAscending(t *testing.T) {
	results := []domain.SearchResult{
		{Content: "B", Score: 2},
		{Content: "A", Score: 1},
	}

	got := FormatContext(results)

	idxA := strings.Index(got, "Content: A")
	idxB := strings.Index(got, "Content: B")
	if idxA == -1 || idxB == -1 {
		t.Fatalf("both contents must appear, got:\n%s", got)
	}
	if idxA > idxB {
		t.Errorf("score 1 must come before score 2, got:\n%s", got)
	}
}

func TestFormatContext_StableForEqualScores(t *testing.T) {
	results := []domain.SearchResult{
		{Content: "first", Score: 1},
		{Content: "second", Score: 1},
		{Content: "third", Score: 1},
	}

	got := FormatContext(results)

	order := []string{"Content: first", "Content: second", "Content: third"}
	last := -1
	for _, needle := range order {
		idx := strings.Index(got, needle)
		if idx == -1 {
			t.Fatalf("missing %q in:\n%s", needle, got)
		}
		if idx < last {
			t.Errorf("equal scores must preserve original order, got:\n%s", got)
		}
		last = idx
	}
}

func TestFormatContext_DoesNotMutateInput(t *testing.T) {
	results := []domain.SearchResult{
		{Content: "B", Score: 2},
		{Content: "A", Score: 1},
	}

	FormatContext(results)

	if results[0].Content != "B" || results[1].Content != "A" {
		t.Errorf("caller slice reordered: %+v", results)
	}
}

func TestFormatContext_FullMetadataBlock(t *testing.T) {
	results := []domain.SearchResult{
		{
			Content:  "use regional buckets",
			Metadata: domain.Metadata{Title: "T", Section: "S"},
			Score:    0.5,
		},
	}

	got := FormatContext(results)

	want := "Title: T\nSection: S\nContent: use regional buckets\n---\n"
	if got != want {
		t.Errorf("block mismatch:\ngot:  %q\nwant: %q", got, want)
	}
}

func TestFormatContext_NoMetadataOmitsLabels(t *testing.T) {
	results := []domain.SearchResult{
		{Content: "plain snippet", Score: 1},
	}

	got := FormatContext(results)

	if !strings.HasPrefix(got, "Content: plain snippet") {
		t.Errorf("block must begin with Content when metadata is absent, got %q", got)
	}
	if strings.Contains(got, "Title:") || strings.Contains(got, "Section:") {
		t.Errorf("empty metadata must not render labels, got %q", got)
	}
}

func TestFormatContext_SectionOnly(t *testing.T) {
	results := []domain.SearchResult{
		{
			Content:  "snippet",
			Metadata: domain.Metadata{Section: "Networking"},
			Score:    1,
		},
	}

	got := FormatContext(results)

	want := "Section: Networking\nContent: snippet\n---\n"
	if got != want {
		t.Errorf("block mismatch:\ngot:  %q\nwant: %q", got, want)
	}
}

func TestFormatContext_Empty(t *testing.T) {
	if got := FormatContext(nil); got != "" {
		t.Errorf("empty input must produce empty context, got %q", got)
	}
}

func TestBuildPrompt_Substitution(t *testing.T) {
	got := BuildPrompt("how do I scale GKE?", "Content: snippet\n---\n")

	if !strings.Contains(got, "Context from GCP Documentation:\nContent: snippet\n---\n") {
		t.Errorf("context not substituted:\n%s", got)
	}
	if !strings.Contains(got, "User Question: how do I scale GKE?") {
		t.Errorf("question not substituted:\n%s", got)
	}
	if strings.Contains(got, "{context}") || strings.Contains(got, "{question}") {
		t.Errorf("placeholders left in prompt:\n%s", got)
	}
}

func TestBuildPrompt_TemplateFraming(t *testing.T) {
	got := BuildPrompt("q", "c")

	if !strings.HasPrefix(got, "You are a Google Cloud Platform technical expert.") {
		t.Errorf("prompt must open with the expert framing, got:\n%s", got)
	}
	if !strings.HasSuffix(got, "Summary and Answer:") {
		t.Errorf("prompt must end with the answer cue, got:\n%s", got)
	}
}
