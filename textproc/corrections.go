package textproc

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
)

// Corrections is a dictionary of known OCR misreads and their fixes,
// applied as case-insensitive whole-word substitutions. The store is
// read-only after construction.
type Corrections struct {
	rules []rule
}

type rule struct {
	re          *regexp.Regexp
	replacement string
}

// EmptyCorrections returns a store with no rules. Apply is a no-op.
func EmptyCorrections() *Corrections {
	return &Corrections{}
}

// LoadCorrections reads a two-column CSV of wrong,right pairs. A
// missing file is not an error: extraction proceeds without
// corrections, so the returned store is simply empty.
func LoadCorrections(path string) (*Corrections, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return EmptyCorrections(), nil
		}
		return nil, fmt.Errorf("open corrections file: %w", err)
	}
	defer f.Close()

	return ParseCorrections(f)
}

// ParseCorrections builds a store from CSV data. Rows with fewer than
// two columns and rows whose first column is empty are skipped.
func ParseCorrections(r io.Reader) (*Corrections, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	c := &Corrections{}
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse corrections csv: %w", err)
		}
		if len(record) < 2 {
			continue
		}
		wrong := strings.TrimSpace(record[0])
		right := strings.TrimSpace(record[1])
		if wrong == "" {
			continue
		}
		re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(wrong) + `\b`)
		if err != nil {
			return nil, fmt.Errorf("compile correction %q: %w", wrong, err)
		}
		c.rules = append(c.rules, rule{re: re, replacement: right})
	}
	return c, nil
}

// Len reports the number of loaded rules.
func (c *Corrections) Len() int {
	return len(c.rules)
}

// Apply runs every rule over the text in load order.
func (c *Corrections) Apply(text string) string {
	for _, r := range c.rules {
		text = r.re.ReplaceAllString(text, r.replacement)
	}
	return text
}
