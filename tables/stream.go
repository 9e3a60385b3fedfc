package tables

import (
	"github.com/osanmartin/escriba/model"
	"github.com/osanmartin/escriba/pdfdoc"
)

const streamConfidence = 0.7

// Stream extracts tables laid out with whitespace-aligned columns but
// no ruled lines. It runs when the lattice backend comes up empty.
type Stream struct {
	cfg Config
}

// NewStream creates a stream backend.
func NewStream(cfg Config) *Stream {
	return &Stream{cfg: cfg}
}

func (s *Stream) Name() string { return "stream" }

func (s *Stream) Kind() model.SourceBackend { return model.BackendStream }

// Extract looks for runs of consecutive text rows whose fragments start
// at shared column positions. Each qualifying run becomes one table.
func (s *Stream) Extract(page *Page) ([]model.TableRegion, error) {
	rows := rowsOf(page.Fragments, s.cfg.AlignmentTolerance)

	var tables []model.TableRegion
	var run [][]pdfdoc.Fragment
	flush := func() {
		if t, ok := s.tableFromRun(page, run); ok {
			tables = append(tables, t)
		}
		run = nil
	}

	for _, row := range rows {
		if len(row) >= s.cfg.MinCols {
			run = append(run, row)
			continue
		}
		flush()
	}
	flush()

	return tables, nil
}

// tableFromRun turns consecutive multi-fragment rows into a table if
// they share enough column structure.
func (s *Stream) tableFromRun(page *Page, run [][]pdfdoc.Fragment) (model.TableRegion, bool) {
	if len(run) < s.cfg.MinRows {
		return model.TableRegion{}, false
	}

	// Column anchors: left edges of all fragments in the run,
	// clustered. Anchors closer than the minimum column gap merge.
	var lefts []float64
	for _, row := range run {
		for _, f := range row {
			lefts = append(lefts, f.X)
		}
	}
	anchors := clusterValues(lefts, s.cfg.MinColumnGap/2)
	if len(anchors) < s.cfg.MinCols {
		return model.TableRegion{}, false
	}

	grid := make([][]string, len(run))
	aligned := 0
	var all []pdfdoc.Fragment
	for i, row := range run {
		cells := make([][]pdfdoc.Fragment, len(anchors))
		for _, f := range row {
			c := nearestAnchor(anchors, f.X, s.cfg.MinColumnGap)
			if c >= 0 {
				cells[c] = append(cells[c], f)
			}
			all = append(all, f)
		}
		grid[i] = make([]string, len(anchors))
		nonEmpty := 0
		for c, cell := range cells {
			grid[i][c] = joinCell(cell)
			if grid[i][c] != "" {
				nonEmpty++
			}
		}
		if nonEmpty >= s.cfg.MinCols {
			aligned++
		}
	}

	// Most rows must actually use the shared columns, otherwise the
	// run is prose that happens to wrap.
	if aligned*2 < len(run) {
		return model.TableRegion{}, false
	}

	minX, minY, maxX, maxY := fragmentBounds(all)
	return model.TableRegion{
		PageIndex:  page.Index,
		BBox:       pointBBox(page, minX, minY, maxX, maxY),
		Markdown:   model.GridToMarkdown(grid),
		Confidence: streamConfidence,
	}, true
}

// nearestAnchor returns the index of the anchor closest to x, or -1
// when none is within maxDist.
func nearestAnchor(anchors []float64, x, maxDist float64) int {
	best := -1
	bestDist := maxDist
	for i, a := range anchors {
		d := x - a
		if d < 0 {
			d = -d
		}
		if d <= bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}
