package tables

import (
	"github.com/osanmartin/escriba/model"
	"github.com/osanmartin/escriba/pdfdoc"
)

const genericConfidence = 0.5

// Generic is the last-resort backend for digital pages. It splits each
// text row on large horizontal gaps and accepts any block of rows that
// keeps producing multiple cells, without requiring the cells to align
// across rows.
type Generic struct {
	cfg Config
}

// NewGeneric creates a generic backend.
func NewGeneric(cfg Config) *Generic {
	return &Generic{cfg: cfg}
}

func (g *Generic) Name() string { return "generic" }

func (g *Generic) Kind() model.SourceBackend { return model.BackendGeneric }

func (g *Generic) Extract(page *Page) ([]model.TableRegion, error) {
	rows := rowsOf(page.Fragments, g.cfg.AlignmentTolerance)

	var tables []model.TableRegion
	var run [][]string
	var runFragments []pdfdoc.Fragment
	flush := func() {
		if t, ok := g.tableFromRun(page, run, runFragments); ok {
			tables = append(tables, t)
		}
		run = nil
		runFragments = nil
	}

	for _, row := range rows {
		cells := g.splitOnGaps(row)
		if len(cells) >= g.cfg.MinCols {
			run = append(run, cells)
			runFragments = append(runFragments, row...)
			continue
		}
		flush()
	}
	flush()

	return tables, nil
}

// splitOnGaps partitions a row into cells wherever the horizontal gap
// between adjacent fragments exceeds the minimum column gap.
func (g *Generic) splitOnGaps(row []pdfdoc.Fragment) []string {
	if len(row) == 0 {
		return nil
	}
	var cells []string
	current := []pdfdoc.Fragment{row[0]}
	for _, f := range row[1:] {
		prev := current[len(current)-1]
		if f.X-(prev.X+prev.Width) >= g.cfg.MinColumnGap {
			cells = append(cells, joinCell(current))
			current = []pdfdoc.Fragment{f}
		} else {
			current = append(current, f)
		}
	}
	cells = append(cells, joinCell(current))
	return cells
}

func (g *Generic) tableFromRun(page *Page, run [][]string, fragments []pdfdoc.Fragment) (model.TableRegion, bool) {
	if len(run) < g.cfg.MinRows {
		return model.TableRegion{}, false
	}

	width := 0
	for _, cells := range run {
		if len(cells) > width {
			width = len(cells)
		}
	}

	grid := make([][]string, len(run))
	for i, cells := range run {
		grid[i] = make([]string, width)
		copy(grid[i], cells)
	}

	minX, minY, maxX, maxY := fragmentBounds(fragments)
	return model.TableRegion{
		PageIndex:  page.Index,
		BBox:       pointBBox(page, minX, minY, maxX, maxY),
		Markdown:   model.GridToMarkdown(grid),
		Confidence: genericConfidence,
	}, true
}
