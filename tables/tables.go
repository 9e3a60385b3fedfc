// Package tables detects and extracts tabular content from PDF pages.
//
// Extraction is a cascade of backends. Digital pages try the lattice
// backend (ruled-line grids) first, fall back to the stream backend
// (whitespace-aligned columns), and finally to the generic backend
// (loose positional clustering). Scanned pages use the OCR-region
// backend, which crops candidate regions from the page bitmap and
// recognizes them separately. Each backend attempt yields a tagged
// Result; a backend failure moves the cascade on to the next backend
// and never fails the page.
package tables

import (
	"image"

	"github.com/osanmartin/escriba/model"
	"github.com/osanmartin/escriba/pdfdoc"
)

// Status classifies the outcome of one backend attempt.
type Status int

const (
	// StatusHit means the backend found at least one table.
	StatusHit Status = iota

	// StatusEmpty means the backend ran cleanly and found nothing.
	StatusEmpty

	// StatusFailed means the backend errored; the cascade continues.
	StatusFailed
)

// String returns the status label.
func (s Status) String() string {
	switch s {
	case StatusHit:
		return "hit"
	case StatusEmpty:
		return "empty"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result records one backend attempt on one page.
type Result struct {
	Backend string
	Status  Status
	Tables  []model.TableRegion
	Err     error
}

// Page is the per-page input handed to backends. Digital pages carry
// fragments and ruled lines in point coordinates; scanned pages carry
// the rendered bitmap.
type Page struct {
	// Index is the 1-based page number.
	Index int

	// Width and Height are the page dimensions in points.
	Width, Height float64

	// Fragments are the positioned text runs of a digital page.
	Fragments []pdfdoc.Fragment

	// Lines are the ruled lines of a digital page.
	Lines []pdfdoc.Line

	// Image is the rendered bitmap of a scanned page, nil otherwise.
	Image *image.Gray

	// Scanned marks a page whose content only exists as a bitmap.
	Scanned bool
}

// Backend is one table extraction strategy.
type Backend interface {
	// Name returns the backend identifier.
	Name() string

	// Kind returns the tag the cascade records on extracted tables.
	Kind() model.SourceBackend

	// Extract finds tables on a page. An empty slice with a nil error
	// means the backend ran but found nothing. The Backend field of
	// returned regions is left unset; the cascade tags it from Kind.
	Extract(page *Page) ([]model.TableRegion, error)
}

// Config holds extraction thresholds shared by the backends.
type Config struct {
	// MinRows and MinCols gate what counts as a table.
	MinRows int
	MinCols int

	// AlignmentTolerance is the coordinate slack, in points, when
	// clustering fragment edges into rows and columns.
	AlignmentTolerance float64

	// MinColumnGap is the horizontal gap, in points, that separates
	// columns in the stream and generic backends.
	MinColumnGap float64
}

// DefaultConfig returns the default extraction thresholds.
func DefaultConfig() Config {
	return Config{
		MinRows:            2,
		MinCols:            2,
		AlignmentTolerance: 3.0,
		MinColumnGap:       12.0,
	}
}

// Registry holds named backends in registration order. Registering a
// backend under an existing name replaces it while keeping its cascade
// position, so a caller can swap out one strategy without rebuilding
// the cascade.
type Registry struct {
	order    []string
	backends map[string]Backend
}

// NewRegistry creates an empty backend registry.
func NewRegistry() *Registry {
	return &Registry{backends: make(map[string]Backend)}
}

// Register adds a backend, replacing any previous one with that name.
func (r *Registry) Register(b Backend) {
	name := b.Name()
	if _, ok := r.backends[name]; !ok {
		r.order = append(r.order, name)
	}
	r.backends[name] = b
}

// Get retrieves a backend by name, or nil.
func (r *Registry) Get(name string) Backend {
	return r.backends[name]
}

// Names returns the registered backend names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}
