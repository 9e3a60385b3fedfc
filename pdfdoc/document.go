package pdfdoc

import (
	"fmt"
	"os"

	pdflib "github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// fileDocument backs Document with an open file parsed by both
// ledongthuc/pdf and pdfcpu.
type fileDocument struct {
	path   string
	file   *os.File
	reader *pdflib.Reader
	ctx    *model.Context
	meta   Metadata
}

// Open reads and validates a PDF file.
func Open(path string) (Document, error) {
	file, reader, err := pdflib.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", path, err)
	}

	ctx, err := readContext(path)
	if err != nil {
		file.Close()
		return nil, err
	}

	d := &fileDocument{
		path:   path,
		file:   file,
		reader: reader,
		ctx:    ctx,
	}
	d.meta = readMetadata(ctx)
	return d, nil
}

func readContext(path string) (*model.Context, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", path, err)
	}
	defer f.Close()

	ctx, err := api.ReadValidateAndOptimize(f, model.NewDefaultConfiguration())
	if err != nil {
		return nil, fmt.Errorf("parse pdf %s: %w", path, err)
	}
	return ctx, nil
}

func (d *fileDocument) Path() string {
	return d.path
}

func (d *fileDocument) PageCount() int {
	return d.ctx.PageCount
}

func (d *fileDocument) EmbeddedText(pageNr int) (string, error) {
	if err := d.checkPage(pageNr); err != nil {
		return "", err
	}
	page := d.reader.Page(pageNr)
	if page.V.IsNull() {
		return "", nil
	}
	text, err := page.GetPlainText(nil)
	if err != nil {
		return "", fmt.Errorf("extract text from page %d: %w", pageNr, err)
	}
	return text, nil
}

func (d *fileDocument) Fragments(pageNr int) ([]Fragment, error) {
	if err := d.checkPage(pageNr); err != nil {
		return nil, err
	}
	page := d.reader.Page(pageNr)
	if page.V.IsNull() {
		return nil, nil
	}

	content := page.Content()
	fragments := make([]Fragment, 0, len(content.Text))
	for _, t := range content.Text {
		if t.S == "" {
			continue
		}
		fragments = append(fragments, Fragment{
			Text:     t.S,
			X:        t.X,
			Y:        t.Y,
			Width:    t.W,
			Font:     t.Font,
			FontSize: t.FontSize,
		})
	}
	return fragments, nil
}

// ruleMaxThickness is the largest rectangle thickness, in points, still
// treated as a ruled line rather than a filled box.
const ruleMaxThickness = 3.0

func (d *fileDocument) Lines(pageNr int) ([]Line, error) {
	if err := d.checkPage(pageNr); err != nil {
		return nil, err
	}
	page := d.reader.Page(pageNr)
	if page.V.IsNull() {
		return nil, nil
	}

	content := page.Content()
	var lines []Line
	for _, r := range content.Rect {
		w := r.Max.X - r.Min.X
		h := r.Max.Y - r.Min.Y
		switch {
		case h <= ruleMaxThickness && w > h:
			midY := (r.Min.Y + r.Max.Y) / 2
			lines = append(lines, Line{X1: r.Min.X, Y1: midY, X2: r.Max.X, Y2: midY})
		case w <= ruleMaxThickness && h > w:
			midX := (r.Min.X + r.Max.X) / 2
			lines = append(lines, Line{X1: midX, Y1: r.Min.Y, X2: midX, Y2: r.Max.Y})
		}
	}
	return lines, nil
}

func (d *fileDocument) Rotation(pageNr int) int {
	_, _, attrs, err := d.ctx.PageDict(pageNr, false)
	if err != nil || attrs == nil {
		return 0
	}
	return attrs.Rotate
}

func (d *fileDocument) MediaBox(pageNr int) (float64, float64, error) {
	_, _, attrs, err := d.ctx.PageDict(pageNr, false)
	if err != nil {
		return 0, 0, fmt.Errorf("page %d attributes: %w", pageNr, err)
	}
	if attrs == nil || attrs.MediaBox == nil {
		return 0, 0, fmt.Errorf("page %d has no media box", pageNr)
	}
	return attrs.MediaBox.Width(), attrs.MediaBox.Height(), nil
}

func (d *fileDocument) Metadata() Metadata {
	return d.meta
}

func (d *fileDocument) Close() error {
	d.ctx = nil
	d.reader = nil
	if d.file != nil {
		err := d.file.Close()
		d.file = nil
		return err
	}
	return nil
}

func (d *fileDocument) checkPage(pageNr int) error {
	if pageNr < 1 || pageNr > d.ctx.PageCount {
		return fmt.Errorf("page %d out of range [1, %d]", pageNr, d.ctx.PageCount)
	}
	return nil
}

// readMetadata resolves the document info dictionary. Documents without
// one, or with entries that cannot be decoded, yield empty fields.
func readMetadata(ctx *model.Context) Metadata {
	meta := Metadata{PageCount: ctx.PageCount}
	if ctx.Info == nil {
		return meta
	}
	dict, err := ctx.DereferenceDict(*ctx.Info)
	if err != nil || dict == nil {
		return meta
	}

	meta.Title = infoString(dict, "Title")
	meta.Author = infoString(dict, "Author")
	meta.Subject = infoString(dict, "Subject")
	meta.Creator = infoString(dict, "Creator")
	meta.Producer = infoString(dict, "Producer")
	return meta
}

func infoString(dict types.Dict, key string) string {
	obj, found := dict.Find(key)
	if !found {
		return ""
	}
	switch v := obj.(type) {
	case types.StringLiteral:
		s, err := types.StringLiteralToString(v)
		if err != nil {
			return ""
		}
		return s
	case types.HexLiteral:
		s, err := types.HexLiteralToString(v)
		if err != nil {
			return ""
		}
		return s
	default:
		return ""
	}
}
