package textproc

import (
	"regexp"
	"strings"
)

// Keywords that open section headings in Spanish legal and
// administrative documents. A short line starting with one of these is
// promoted to a Markdown heading.
var headingKeywords = []string{
	"ARTÍCULO",
	"ARTICULO",
	"CAPÍTULO",
	"CAPITULO",
	"TÍTULO",
	"TITULO",
	"SECCIÓN",
	"SECCION",
	"CLÁUSULA",
	"CLAUSULA",
	"CONSIDERANDO",
	"RESUELVE",
	"RESULTANDO",
	"VISTO",
	"VISTOS",
	"DECRETA",
	"ANEXO",
	"DISPOSICIÓN",
	"DISPOSICION",
}

// A heading line is short. Long lines starting with a keyword are body
// text that happens to open with one.
const maxHeadingLen = 80

var reHeading = regexp.MustCompile(
	`^(` + strings.Join(headingKeywords, "|") + `)\b`)

// PromoteHeadings turns short lines that open with a legal section
// keyword into level-3 Markdown headings. Lines already marked as
// headings are left alone.
func PromoteHeadings(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") {
			continue
		}
		if len([]rune(trimmed)) > maxHeadingLen {
			continue
		}
		if reHeading.MatchString(strings.ToUpper(trimmed)) {
			lines[i] = "### " + trimmed
		}
	}
	return strings.Join(lines, "\n")
}
