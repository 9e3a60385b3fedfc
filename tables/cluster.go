package tables

import (
	"sort"
	"strings"

	"github.com/osanmartin/escriba/pdfdoc"
)

// clusterValues collapses values closer than tolerance into their
// cluster mean. The result is sorted ascending.
func clusterValues(values []float64, tolerance float64) []float64 {
	if len(values) == 0 {
		return nil
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	var clustered []float64
	sum := sorted[0]
	count := 1
	last := sorted[0]
	for _, v := range sorted[1:] {
		if v-last <= tolerance {
			sum += v
			count++
		} else {
			clustered = append(clustered, sum/float64(count))
			sum = v
			count = 1
		}
		last = v
	}
	clustered = append(clustered, sum/float64(count))
	return clustered
}

// rowsOf groups fragments into text rows by baseline position, top of
// page first. Fragments within a row are ordered left to right.
func rowsOf(fragments []pdfdoc.Fragment, tolerance float64) [][]pdfdoc.Fragment {
	if len(fragments) == 0 {
		return nil
	}
	sorted := make([]pdfdoc.Fragment, len(fragments))
	copy(sorted, fragments)

	// PDF coordinates grow upward, so the top row has the largest Y.
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Y != sorted[j].Y {
			return sorted[i].Y > sorted[j].Y
		}
		return sorted[i].X < sorted[j].X
	})

	var rows [][]pdfdoc.Fragment
	current := []pdfdoc.Fragment{sorted[0]}
	rowY := sorted[0].Y
	for _, f := range sorted[1:] {
		if rowY-f.Y <= tolerance {
			current = append(current, f)
		} else {
			rows = append(rows, sortRow(current))
			current = []pdfdoc.Fragment{f}
			rowY = f.Y
		}
	}
	rows = append(rows, sortRow(current))
	return rows
}

func sortRow(row []pdfdoc.Fragment) []pdfdoc.Fragment {
	sort.Slice(row, func(i, j int) bool { return row[i].X < row[j].X })
	return row
}

// joinCell concatenates fragment texts left to right.
func joinCell(fragments []pdfdoc.Fragment) string {
	parts := make([]string, 0, len(fragments))
	for _, f := range sortRow(fragments) {
		if t := strings.TrimSpace(f.Text); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}

// fragmentBounds returns the extent of a fragment set in points.
func fragmentBounds(fragments []pdfdoc.Fragment) (minX, minY, maxX, maxY float64) {
	for i, f := range fragments {
		right := f.X + f.Width
		top := f.Y + f.FontSize
		if i == 0 {
			minX, minY, maxX, maxY = f.X, f.Y, right, top
			continue
		}
		if f.X < minX {
			minX = f.X
		}
		if f.Y < minY {
			minY = f.Y
		}
		if right > maxX {
			maxX = right
		}
		if top > maxY {
			maxY = top
		}
	}
	return minX, minY, maxX, maxY
}
