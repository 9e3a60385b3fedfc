package tables

import (
	"log/slog"

	"github.com/osanmartin/escriba/imaging"
	"github.com/osanmartin/escriba/model"
	"github.com/osanmartin/escriba/ocr"
)

// Extractor runs the backend cascade over pages. Table extraction is
// best effort: a failing backend is logged and the cascade moves on,
// and a page that yields nothing simply contributes no tables.
type Extractor struct {
	cfg      Config
	log      *slog.Logger
	registry *Registry
	digital  []string
	scanned  []string
}

// NewExtractor builds an extractor with the standard cascade. The OCR
// engine may be nil, in which case scanned pages yield no tables.
func NewExtractor(cfg Config, engine ocr.Engine, base ocr.Config, log *slog.Logger) *Extractor {
	if log == nil {
		log = slog.Default()
	}
	reg := NewRegistry()
	reg.Register(NewLattice(cfg))
	reg.Register(NewStream(cfg))
	reg.Register(NewGeneric(cfg))
	reg.Register(NewOCRRegion(cfg, engine, base))
	return &Extractor{
		cfg:      cfg,
		log:      log,
		registry: reg,
		digital:  []string{"lattice", "stream", "generic"},
		scanned:  []string{"ocr-region"},
	}
}

// Register replaces a backend in the cascade by name. The cascade order
// is fixed; registering under a new name has no effect on it.
func (e *Extractor) Register(b Backend) {
	e.registry.Register(b)
}

// HasTables is the cheap gate run before any backend. Scanned pages
// are probed for ruled-line structure in the bitmap; digital pages for
// ruled lines or column-aligned text rows.
func (e *Extractor) HasTables(page *Page) bool {
	if page.Scanned {
		return page.Image != nil && imaging.HasVisualTable(page.Image)
	}
	if len(page.Lines) > 0 {
		return true
	}
	aligned := 0
	for _, row := range rowsOf(page.Fragments, e.cfg.AlignmentTolerance) {
		if len(row) >= e.cfg.MinCols {
			aligned++
			if aligned >= e.cfg.MinRows {
				return true
			}
		} else {
			aligned = 0
		}
	}
	return false
}

// ExtractPage runs the cascade for one page. It returns the extracted
// tables and the per-backend attempt log. The first backend that finds
// tables wins; later backends are not consulted.
func (e *Extractor) ExtractPage(page *Page) ([]model.TableRegion, []Result) {
	if !e.HasTables(page) {
		return nil, nil
	}

	names := e.digital
	if page.Scanned {
		names = e.scanned
	}

	var results []Result
	for _, name := range names {
		b := e.registry.Get(name)
		if b == nil {
			continue
		}
		found, err := b.Extract(page)
		switch {
		case err != nil:
			e.log.Warn("table backend failed",
				"backend", b.Name(), "page", page.Index, "error", err)
			results = append(results, Result{Backend: b.Name(), Status: StatusFailed, Err: err})
		case len(found) > 0:
			e.log.Debug("table backend hit",
				"backend", b.Name(), "page", page.Index, "tables", len(found))
			for i := range found {
				found[i].Backend = b.Kind()
			}
			results = append(results, Result{Backend: b.Name(), Status: StatusHit, Tables: found})
			return found, results
		default:
			results = append(results, Result{Backend: b.Name(), Status: StatusEmpty})
		}
	}
	return nil, results
}
