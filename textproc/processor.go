// Package textproc cleans up extracted page text, whether it came from
// OCR or straight from the PDF text layer.
//
// Processing is a fixed pipeline of pure transforms: hyphenation joins,
// Unicode normalization, whitespace collapsing, noise-line filtering,
// dictionary corrections, list normalization, and heading promotion.
// The steps are order-sensitive — later steps assume earlier
// normalization already ran — but the pipeline as a whole is
// idempotent: running it twice over already-clean text is a no-op.
package textproc

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Minimum share of alphabetic characters for a line to be kept.
// Lines below this are treated as OCR noise.
const minLineAlphaRatio = 0.3

// Processor applies the post-processing pipeline. The zero value is not
// usable; construct with New or NewWithCorrections. A Processor is
// read-only after construction and safe to share across pages.
type Processor struct {
	corrections *Corrections

	reHyphenJoin  *regexp.Regexp
	reMultiSpace  *regexp.Regexp
	reNumbered    *regexp.Regexp
	reBulleted    *regexp.Regexp
	reOrphanBlank *regexp.Regexp

	charReplacer *strings.Replacer
}

// New creates a Processor with no corrections dictionary.
func New() *Processor {
	return NewWithCorrections(EmptyCorrections())
}

// NewWithCorrections creates a Processor using the given corrections
// store for whole-word substitutions.
func NewWithCorrections(c *Corrections) *Processor {
	return &Processor{
		corrections: c,

		// Rejoin words split by line-end hyphenation:
		// "infor-\nmación" -> "información".
		reHyphenJoin: regexp.MustCompile(`(\p{L})-[ \t]*\n[ \t]*(\p{L})`),

		// Collapse any run of spaces and tabs, including a lone tab,
		// to a single space.
		reMultiSpace: regexp.MustCompile(`[ \t]+`),

		// Numbered list markers: "1.", "1)", "(1)", "1-".
		reNumbered: regexp.MustCompile(`^\(?(\d+)[\.\)\-]\s*`),

		// Bulleted list markers.
		reBulleted: regexp.MustCompile(`^[-•–]\s*`),

		// Three or more consecutive newlines.
		reOrphanBlank: regexp.MustCompile(`\n{3,}`),

		// Common OCR ligature artifacts, fixed before normalization.
		charReplacer: strings.NewReplacer(
			"ﬁ", "fi",
			"ﬂ", "fl",
			"ﬀ", "ff",
			"ﬃ", "ffi",
			"ﬄ", "ffl",
			"\r", "",
		),
	}
}

// Process runs the full pipeline over one page of text.
func (p *Processor) Process(text string) string {
	if text == "" {
		return ""
	}
	text = p.JoinHyphenation(text)
	text = p.Normalize(text)
	text = p.CollapseWhitespace(text)
	text = p.FilterNoiseLines(text)
	text = p.corrections.Apply(text)
	text = p.NormalizeLists(text)
	text = PromoteHeadings(text)
	return strings.TrimSpace(text)
}

// JoinHyphenation rejoins words split across a line break by a hyphen.
func (p *Processor) JoinHyphenation(text string) string {
	return p.reHyphenJoin.ReplaceAllString(text, "$1$2")
}

// Normalize applies NFKC normalization and removes non-printable
// characters. Accented Spanish letters, inverted punctuation, and
// standard punctuation survive; control characters and stray symbols
// become spaces.
func (p *Processor) Normalize(text string) string {
	text = p.charReplacer.Replace(text)
	text = norm.NFKC.String(text)

	var sb strings.Builder
	sb.Grow(len(text))
	for _, r := range text {
		switch {
		case r == '\n' || r == '\t':
			sb.WriteRune(r)
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ':
			sb.WriteRune(r)
		case strings.ContainsRune(".,;:%-()/¿¡?!\"'«»#•–", r):
			sb.WriteRune(r)
		case unicode.IsPrint(r):
			sb.WriteRune(' ')
		default:
			sb.WriteRune(' ')
		}
	}
	return sb.String()
}

// CollapseWhitespace collapses repeated spaces and tabs within lines
// and squeezes runs of blank lines down to one.
func (p *Processor) CollapseWhitespace(text string) string {
	text = p.reMultiSpace.ReplaceAllString(text, " ")
	text = p.reOrphanBlank.ReplaceAllString(text, "\n\n")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return strings.Join(lines, "\n")
}

// FilterNoiseLines drops lines whose alphabetic-character ratio falls
// below 0.3. Such lines are almost always OCR misreads of graphics,
// rules, or bleed-through. Blank lines are kept so paragraph structure
// survives.
func (p *Processor) FilterNoiseLines(text string) string {
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			kept = append(kept, line)
			continue
		}
		if alphaRatio(trimmed) >= minLineAlphaRatio {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}

// NormalizeLists rewrites recognized list markers to canonical Markdown
// prefixes: numbered variants become "N. " and bullet variants "- ".
// Lines already carrying a canonical prefix pass through unchanged.
func (p *Processor) NormalizeLists(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if m := p.reNumbered.FindStringSubmatch(trimmed); m != nil {
			rest := trimmed[len(m[0]):]
			lines[i] = m[1] + ". " + rest
			continue
		}
		if p.reBulleted.MatchString(trimmed) {
			rest := p.reBulleted.ReplaceAllString(trimmed, "")
			lines[i] = "- " + rest
		}
	}
	return strings.Join(lines, "\n")
}

// alphaRatio returns the share of letters among a line's non-space
// characters.
func alphaRatio(s string) float64 {
	var letters, total int
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		total++
		if unicode.IsLetter(r) {
			letters++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(letters) / float64(total)
}
