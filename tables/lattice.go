package tables

import (
	"math"
	"sort"

	"github.com/osanmartin/escriba/model"
	"github.com/osanmartin/escriba/pdfdoc"
)

const latticeConfidence = 0.9

// Lattice extracts tables whose cells are bounded by ruled lines. It is
// the most reliable backend and runs first on digital pages.
type Lattice struct {
	cfg Config
}

// NewLattice creates a lattice backend.
func NewLattice(cfg Config) *Lattice {
	return &Lattice{cfg: cfg}
}

func (l *Lattice) Name() string { return "lattice" }

func (l *Lattice) Kind() model.SourceBackend { return model.BackendLattice }

// Extract builds a grid from the page's ruled lines and places text
// fragments into its cells. Pages without enough lines to bound a
// MinRows by MinCols grid yield no tables.
func (l *Lattice) Extract(page *Page) ([]model.TableRegion, error) {
	if len(page.Lines) == 0 {
		return nil, nil
	}

	var hYs, vXs []float64
	for _, line := range page.Lines {
		if line.Horizontal() {
			hYs = append(hYs, (line.Y1+line.Y2)/2)
		} else {
			vXs = append(vXs, (line.X1+line.X2)/2)
		}
	}

	rowBounds := clusterValues(hYs, l.cfg.AlignmentTolerance)
	colBounds := clusterValues(vXs, l.cfg.AlignmentTolerance)
	if len(rowBounds) < l.cfg.MinRows+1 || len(colBounds) < l.cfg.MinCols+1 {
		return nil, nil
	}

	// Row boundaries top to bottom; column boundaries left to right.
	sort.Sort(sort.Reverse(sort.Float64Slice(rowBounds)))
	sort.Float64s(colBounds)

	nRows := len(rowBounds) - 1
	nCols := len(colBounds) - 1
	cells := make([][][]pdfdoc.Fragment, nRows)
	for r := range cells {
		cells[r] = make([][]pdfdoc.Fragment, nCols)
	}

	filled := 0
	for _, f := range page.Fragments {
		cx := f.X + f.Width/2
		cy := f.Y + f.FontSize/2
		r := findRow(rowBounds, cy)
		c := findCol(colBounds, cx)
		if r < 0 || c < 0 {
			continue
		}
		if len(cells[r][c]) == 0 {
			filled++
		}
		cells[r][c] = append(cells[r][c], f)
	}
	if filled == 0 {
		return nil, nil
	}

	grid := make([][]string, nRows)
	for r := range cells {
		grid[r] = make([]string, nCols)
		for c := range cells[r] {
			grid[r][c] = joinCell(cells[r][c])
		}
	}

	table := model.TableRegion{
		PageIndex: page.Index,
		BBox: pointBBox(page,
			colBounds[0], rowBounds[len(rowBounds)-1],
			colBounds[len(colBounds)-1], rowBounds[0]),
		Markdown:   model.GridToMarkdown(grid),
		Confidence: latticeConfidence,
	}
	return []model.TableRegion{table}, nil
}

// findRow locates the band containing y. Bounds run top to bottom, so
// band r spans (bounds[r+1], bounds[r]].
func findRow(bounds []float64, y float64) int {
	for r := 0; r < len(bounds)-1; r++ {
		if y <= bounds[r] && y > bounds[r+1] {
			return r
		}
	}
	return -1
}

// findCol locates the band containing x. Bounds run left to right.
func findCol(bounds []float64, x float64) int {
	for c := 0; c < len(bounds)-1; c++ {
		if x >= bounds[c] && x < bounds[c+1] {
			return c
		}
	}
	return -1
}

// pointBBox converts a point-space extent to a top-left-origin box.
func pointBBox(page *Page, minX, minY, maxX, maxY float64) model.BBox {
	return model.NewBBox(
		int(math.Round(minX)),
		int(math.Round(page.Height-maxY)),
		int(math.Round(maxX)),
		int(math.Round(page.Height-minY)),
	)
}
