// Package testpdf builds small, valid PDF files for tests. The files
// carry a real cross-reference table so they pass strict parsers.
package testpdf

import (
	"fmt"
	"strings"
)

// Build returns a PDF with one page per entry of pageTexts. Each page
// draws its text in Helvetica at a fixed position. Texts must be ASCII.
func Build(pageTexts ...string) []byte {
	if len(pageTexts) == 0 {
		pageTexts = []string{""}
	}
	n := len(pageTexts)

	// Object numbering: 1 catalog, 2 page tree, 3 font, then for page
	// i (0-based): 4+2i page dict, 5+2i content stream.
	var kids []string
	for i := 0; i < n; i++ {
		kids = append(kids, fmt.Sprintf("%d 0 R", 4+2*i))
	}

	var b pdfBuilder
	b.header()
	b.object(1, "<< /Type /Catalog /Pages 2 0 R >>")
	b.object(2, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>",
		strings.Join(kids, " "), n))
	b.object(3, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>")

	for i, text := range pageTexts {
		pageObj := 4 + 2*i
		contentObj := 5 + 2*i
		b.object(pageObj, fmt.Sprintf(
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] "+
				"/Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>",
			contentObj))

		stream := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", escape(text))
		b.streamObject(contentObj, stream)
	}

	b.finish(1)
	return b.buf()
}

type pdfBuilder struct {
	sb      strings.Builder
	offsets map[int]int
	maxObj  int
}

func (b *pdfBuilder) header() {
	b.offsets = map[int]int{}
	b.sb.WriteString("%PDF-1.4\n")
}

func (b *pdfBuilder) object(num int, body string) {
	b.mark(num)
	fmt.Fprintf(&b.sb, "%d 0 obj\n%s\nendobj\n", num, body)
}

func (b *pdfBuilder) streamObject(num int, stream string) {
	b.mark(num)
	fmt.Fprintf(&b.sb, "%d 0 obj\n<< /Length %d >>\nstream\n%s\nendstream\nendobj\n",
		num, len(stream), stream)
}

func (b *pdfBuilder) mark(num int) {
	b.offsets[num] = b.sb.Len()
	if num > b.maxObj {
		b.maxObj = num
	}
}

func (b *pdfBuilder) finish(rootObj int) {
	xrefOffset := b.sb.Len()
	fmt.Fprintf(&b.sb, "xref\n0 %d\n", b.maxObj+1)
	b.sb.WriteString("0000000000 65535 f \n")
	for num := 1; num <= b.maxObj; num++ {
		fmt.Fprintf(&b.sb, "%010d 00000 n \n", b.offsets[num])
	}
	fmt.Fprintf(&b.sb,
		"trailer\n<< /Size %d /Root %d 0 R >>\nstartxref\n%d\n%%%%EOF\n",
		b.maxObj+1, rootObj, xrefOffset)
}

func (b *pdfBuilder) buf() []byte {
	return []byte(b.sb.String())
}

func escape(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)
	return r.Replace(s)
}
