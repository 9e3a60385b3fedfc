package assemble

import (
	"bytes"
	"context"
	"strings"

	"github.com/yuin/goldmark"
)

// Refiner improves assembled Markdown, typically via a language model.
// Refinement is always best effort: implementations may fail freely and
// the caller keeps the unrefined document.
type Refiner interface {
	Refine(ctx context.Context, markdown string) (string, error)
}

// RefinerFunc adapts a function to the Refiner interface.
type RefinerFunc func(ctx context.Context, markdown string) (string, error)

func (f RefinerFunc) Refine(ctx context.Context, markdown string) (string, error) {
	return f(ctx, markdown)
}

// validateRefined checks that a refinement is safe to keep. It returns
// an empty string when the refined document is acceptable, otherwise
// the reason for rejection.
func validateRefined(original, refined string) string {
	refined = strings.TrimSpace(refined)
	if refined == "" {
		return "empty output"
	}

	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(refined), &buf); err != nil {
		return "output is not parseable markdown"
	}

	// The page structure must survive refinement. Rewording is fine,
	// dropping sections is not.
	if countPageHeadings(refined) < countPageHeadings(original) {
		return "page sections lost"
	}
	return ""
}

func countPageHeadings(md string) int {
	count := 0
	for _, line := range strings.Split(md, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "## Page ") {
			count++
		}
	}
	return count
}
