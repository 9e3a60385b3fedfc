package escriba

import (
	"log/slog"

	"github.com/osanmartin/escriba/assemble"
	"github.com/osanmartin/escriba/ocr"
	"github.com/osanmartin/escriba/pdfdoc"
)

// Options holds extraction configuration.
type Options struct {
	dpi             int
	language        string
	workers         int
	correctionsPath string
}

// defaultOptions derives defaults from the OCR environment config:
// OCR_DPI and OCR_LANG override the built-in 300 DPI / Spanish.
func defaultOptions() Options {
	base := ocr.DefaultConfig()
	return Options{
		dpi:      base.DPI,
		language: base.Language,
		workers:  0, // 0 means one worker per CPU
	}
}

func (o Options) clone() Options {
	return o
}

// clone creates a copy of the Extractor with copied options, keeping
// each configured instance immutable.
func (e *Extractor) clone() *Extractor {
	return &Extractor{
		path:    e.path,
		options: e.options.clone(),
		engine:  e.engine,
		refiner: e.refiner,
		logger:  e.logger,
		opener:  e.opener,
	}
}

// DPI sets the render resolution for scanned pages.
func (e *Extractor) DPI(dpi int) *Extractor {
	ne := e.clone()
	ne.options.dpi = dpi
	return ne
}

// Language sets the OCR language, as a Tesseract language code.
func (e *Extractor) Language(lang string) *Extractor {
	ne := e.clone()
	ne.options.language = lang
	return ne
}

// Workers sets the worker count for the parallel page fallback. Values
// below 1 use one worker per CPU.
func (e *Extractor) Workers(n int) *Extractor {
	ne := e.clone()
	ne.options.workers = n
	return ne
}

// WithCorrections sets the path of a CSV file of known OCR misreads
// and their fixes. A missing file is tolerated with a warning.
func (e *Extractor) WithCorrections(path string) *Extractor {
	ne := e.clone()
	ne.options.correctionsPath = path
	return ne
}

// WithEngine sets the OCR engine. Without one, a Tesseract engine is
// created on first use and closed when extraction finishes.
func (e *Extractor) WithEngine(engine ocr.Engine) *Extractor {
	ne := e.clone()
	ne.engine = engine
	return ne
}

// WithRefiner sets the Markdown refinement hook applied after
// assembly. Refinement is best effort; see assemble.Refiner.
func (e *Extractor) WithRefiner(r assemble.Refiner) *Extractor {
	ne := e.clone()
	ne.refiner = r
	return ne
}

// WithLogger sets the structured logger. slog.Default is used
// otherwise.
func (e *Extractor) WithLogger(log *slog.Logger) *Extractor {
	ne := e.clone()
	ne.logger = log
	return ne
}

// WithOpener replaces how documents are opened. Mostly useful for
// testing against synthetic documents.
func (e *Extractor) WithOpener(open pdfdoc.Opener) *Extractor {
	ne := e.clone()
	ne.opener = open
	return ne
}
