package escriba

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/osanmartin/escriba/assemble"
	"github.com/osanmartin/escriba/imaging"
	"github.com/osanmartin/escriba/model"
	"github.com/osanmartin/escriba/ocr"
	"github.com/osanmartin/escriba/parallel"
	"github.com/osanmartin/escriba/pdfdoc"
	"github.com/osanmartin/escriba/tables"
	"github.com/osanmartin/escriba/textproc"
)

// Extractor converts one PDF to Markdown. Configuration methods return
// new instances; terminal operations open the file, run the pipeline,
// and release all resources before returning.
type Extractor struct {
	path    string
	options Options
	engine  ocr.Engine
	refiner assemble.Refiner
	logger  *slog.Logger
	opener  pdfdoc.Opener
}

// Markdown runs the pipeline and returns the assembled document.
func (e *Extractor) Markdown(ctx context.Context) (string, []Warning, error) {
	result, warnings, err := e.extract(ctx)
	if err != nil {
		return "", warnings, err
	}
	md := assemble.New(e.refiner, e.log()).Document(ctx, result)
	return md, warnings, nil
}

// PageTexts runs the pipeline and returns the per-page texts in page
// order, without assembling them into a document.
func (e *Extractor) PageTexts(ctx context.Context) ([]string, []Warning, error) {
	result, warnings, err := e.extract(ctx)
	if err != nil {
		return nil, warnings, err
	}
	texts := make([]string, len(result.Pages))
	for i, p := range result.Pages {
		texts[i] = p.Text()
	}
	return texts, warnings, nil
}

// Tables runs the pipeline and returns the extracted table regions in
// page order.
func (e *Extractor) Tables(ctx context.Context) ([]model.TableRegion, []Warning, error) {
	result, warnings, err := e.extract(ctx)
	if err != nil {
		return nil, warnings, err
	}
	return result.Tables, warnings, nil
}

// Metadata opens the document and returns its metadata without running
// extraction.
func (e *Extractor) Metadata() (pdfdoc.Metadata, error) {
	doc, err := e.open()(e.path)
	if err != nil {
		return pdfdoc.Metadata{}, &InputError{Path: e.path, Err: err}
	}
	defer doc.Close()
	return doc.Metadata(), nil
}

func (e *Extractor) log() *slog.Logger {
	if e.logger != nil {
		return e.logger
	}
	return slog.Default()
}

func (e *Extractor) open() pdfdoc.Opener {
	if e.opener != nil {
		return e.opener
	}
	return pdfdoc.Open
}

// extract runs the full pipeline: open, per-page extraction with the
// sequential loop, parallel per-page retry if that loop dies, then
// result assembly.
func (e *Extractor) extract(ctx context.Context) (*model.ExtractionResult, []Warning, error) {
	open := e.open()
	doc, err := open(e.path)
	if err != nil {
		return nil, nil, &InputError{Path: e.path, Err: err}
	}
	defer doc.Close()
	if doc.PageCount() < 1 {
		return nil, nil, &InputError{Path: e.path, Err: fmt.Errorf("document has no pages")}
	}

	s, warnings := newSession(e)
	defer s.close()

	pages, regions, warns, err := s.primary(ctx, doc)
	warnings = append(warnings, warns...)
	if err != nil {
		var cat *CatastrophicError
		if !errors.As(err, &cat) {
			return nil, warnings, err
		}
		s.log.Error("sequential extraction failed, retrying page by page", "error", cat.Err)
		warnings = append(warnings, Warning{
			Message: "sequential extraction failed, document retried page by page",
			Err:     cat.Err,
		})

		recovered, ferr := parallel.New(open, e.options.workers, s.log).
			Run(ctx, e.path, doc.PageCount(), s.fallbackPage)
		if ferr != nil {
			return nil, warnings, &CatastrophicError{Err: ferr}
		}
		pages = pages[:0]
		regions = nil
		for i, pt := range recovered {
			p := model.NewPage(i + 1)
			if pt.Scanned {
				p.Scanned = true
				p.OCRText = pt.Text
			} else {
				p.RawText = pt.Text
			}
			pages = append(pages, p)
		}
	}

	result := model.NewExtractionResult(titleStem(e.path))
	for _, p := range pages {
		if err := result.AddPage(p); err != nil {
			return nil, warnings, fmt.Errorf("assemble result: %w", err)
		}
	}
	for _, t := range regions {
		if err := result.AddTable(t); err != nil {
			return nil, warnings, fmt.Errorf("assemble result: %w", err)
		}
	}
	result.Finalize()
	return result, warnings, nil
}

// titleStem derives the document title from the file name.
func titleStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// session holds the per-run pipeline state shared across pages.
type session struct {
	opts    Options
	log     *slog.Logger
	proc    *textproc.Processor
	ocrBase ocr.Config

	mu          sync.Mutex
	engine      ocr.Engine
	engineErr   error
	engineTried bool
	ownsEngine  bool

	digitalTables *tables.Extractor
	scannedTables *tables.Extractor
}

func newSession(e *Extractor) (*session, []Warning) {
	var warnings []Warning

	corrections := textproc.EmptyCorrections()
	if e.options.correctionsPath != "" {
		c, err := textproc.LoadCorrections(e.options.correctionsPath)
		if err != nil {
			warnings = append(warnings, Warning{Message: "corrections file unusable", Err: err})
		} else {
			corrections = c
		}
	}

	base := ocr.DefaultConfig()
	base.DPI = e.options.dpi
	base.Language = e.options.language

	s := &session{
		opts:    e.options,
		log:     e.log(),
		proc:    textproc.NewWithCorrections(corrections),
		ocrBase: base,
		engine:  e.engine,
	}
	return s, warnings
}

func (s *session) close() {
	if s.ownsEngine {
		if c, ok := s.engine.(io.Closer); ok {
			c.Close()
		}
	}
}

// ensureEngine returns the configured OCR engine, creating a Tesseract
// engine on first need. The creation result is cached, so a document
// without a usable engine fails each scanned page the same way.
func (s *session) ensureEngine() (ocr.Engine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ensureEngineLocked()
}

func (s *session) ensureEngineLocked() (ocr.Engine, error) {
	if s.engine != nil {
		return s.engine, nil
	}
	if s.engineTried {
		return nil, s.engineErr
	}
	s.engineTried = true
	t, err := ocr.NewTesseract()
	if err != nil {
		s.engineErr = err
		return nil, err
	}
	s.engine = t
	s.ownsEngine = true
	return t, nil
}

func (s *session) tablesFor(scanned bool) *tables.Extractor {
	if !scanned {
		if s.digitalTables == nil {
			s.digitalTables = tables.NewExtractor(tables.DefaultConfig(), nil, s.ocrBase, s.log)
		}
		return s.digitalTables
	}
	if s.scannedTables == nil {
		s.scannedTables = tables.NewExtractor(tables.DefaultConfig(), s.engine, s.ocrBase, s.log)
	}
	return s.scannedTables
}

// primary is the sequential page loop. A panic anywhere inside it is
// converted to a CatastrophicError so the caller can retry page by
// page; individual page errors degrade to placeholders here.
func (s *session) primary(ctx context.Context, doc pdfdoc.Document) (pages []model.Page, regions []model.TableRegion, warnings []Warning, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &CatastrophicError{Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	for pageNr := 1; pageNr <= doc.PageCount(); pageNr++ {
		if cerr := ctx.Err(); cerr != nil {
			return nil, nil, warnings, cerr
		}

		page, pageRegions, warns, perr := s.processPage(doc, pageNr)
		warnings = append(warnings, warns...)
		if perr != nil {
			s.log.Warn("page failed", "page", pageNr, "error", perr)
			warnings = append(warnings, Warning{
				Page:    pageNr,
				Message: "page replaced with error placeholder",
				Err:     perr,
			})
			page = model.NewPage(pageNr)
			page.RawText = parallel.Placeholder(pageNr)
			pageRegions = nil
		}
		pages = append(pages, page)
		regions = append(regions, pageRegions...)
	}
	return pages, regions, warnings, nil
}

// processPage extracts one page: classification, text or OCR, then the
// table cascade.
func (s *session) processPage(doc pdfdoc.Document, pageNr int) (model.Page, []model.TableRegion, []Warning, error) {
	page := model.NewPage(pageNr)
	var warnings []Warning

	raw, err := doc.EmbeddedText(pageNr)
	if err != nil {
		return page, nil, nil, &PageError{Page: pageNr, Op: "embedded text", Err: err}
	}
	page.Rotation = doc.Rotation(pageNr)

	width, height, merr := doc.MediaBox(pageNr)
	if merr != nil {
		width, height = 612, 792
	}
	tpage := &tables.Page{Index: pageNr, Width: width, Height: height}

	if NeedsOCR(raw) {
		page.Scanned = true
		img, err := doc.Render(pageNr, s.opts.dpi)
		if err != nil {
			return page, nil, warnings, &PageError{Page: pageNr, Op: "render", Err: err}
		}
		engine, err := s.ensureEngine()
		if err != nil {
			return page, nil, warnings, &PageError{Page: pageNr, Op: "ocr engine", Err: err}
		}

		prepared := imaging.Preprocess(img)
		text, err := ocr.Recognize(engine, prepared, ocr.ConfigFor(prepared, s.ocrBase))
		if err != nil {
			return page, nil, warnings, &PageError{Page: pageNr, Op: "ocr", Err: err}
		}
		page.OCRText = s.proc.Process(text)
		if raw != "" {
			page.RawText = s.proc.Process(raw)
		}
		tpage.Scanned = true
		tpage.Image = imaging.Grayscale(img)
	} else {
		page.RawText = s.proc.Process(raw)
		if fragments, ferr := doc.Fragments(pageNr); ferr == nil {
			tpage.Fragments = fragments
		} else {
			warnings = append(warnings, Warning{Page: pageNr, Message: "text fragments unavailable", Err: ferr})
		}
		if lines, lerr := doc.Lines(pageNr); lerr == nil {
			tpage.Lines = lines
		}
	}

	regions, attempts := s.tablesFor(tpage.Scanned).ExtractPage(tpage)
	for _, a := range attempts {
		if a.Status == tables.StatusFailed {
			warnings = append(warnings, Warning{
				Page:    pageNr,
				Message: fmt.Sprintf("table backend %s failed", a.Backend),
				Err:     a.Err,
			})
		}
	}
	return page, regions, warnings, nil
}

// fallbackPage is the parallel.PageFunc used when the sequential loop
// died. It recovers text only; tables are not retried. OCR is
// serialized because a Tesseract client is not safe for concurrent
// use.
func (s *session) fallbackPage(doc pdfdoc.Document, pageNr int) (parallel.PageText, error) {
	raw, err := doc.EmbeddedText(pageNr)
	if err != nil {
		return parallel.PageText{}, err
	}
	if !NeedsOCR(raw) {
		return parallel.PageText{Text: s.proc.Process(raw)}, nil
	}

	img, err := doc.Render(pageNr, s.opts.dpi)
	if err != nil {
		return parallel.PageText{}, err
	}
	prepared := imaging.Preprocess(img)

	s.mu.Lock()
	defer s.mu.Unlock()
	engine, err := s.ensureEngineLocked()
	if err != nil {
		return parallel.PageText{}, err
	}
	text, err := ocr.Recognize(engine, prepared, ocr.ConfigFor(prepared, s.ocrBase))
	if err != nil {
		return parallel.PageText{}, err
	}
	return parallel.PageText{Text: s.proc.Process(text), Scanned: true}, nil
}
