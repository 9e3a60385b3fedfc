package escriba

import (
	"fmt"
	"strings"
)

// Warning records a non-fatal problem encountered during extraction.
// Page is 0 for document-level warnings.
type Warning struct {
	Page    int
	Message string
	Err     error
}

func (w Warning) String() string {
	var sb strings.Builder
	if w.Page > 0 {
		fmt.Fprintf(&sb, "page %d: ", w.Page)
	}
	sb.WriteString(w.Message)
	if w.Err != nil {
		fmt.Fprintf(&sb, ": %v", w.Err)
	}
	return sb.String()
}

// FormatWarnings renders warnings one per line for logging.
func FormatWarnings(warnings []Warning) string {
	if len(warnings) == 0 {
		return ""
	}
	lines := make([]string, len(warnings))
	for i, w := range warnings {
		lines[i] = w.String()
	}
	return strings.Join(lines, "\n")
}
