package convert

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// Text-layout heuristics shared by the page-document converters. The
// tolerances are tie-break policy, not derived values: runs within 5 units of
// vertical position belong to one line/row, a vertical gap over 10 units
// starts a new one, column buckets attract runs within 10 horizontal units,
// and a cell farther than 50 units from every bucket is dropped.
const (
	lineTolerance     = 5.0
	lineBreakGap      = 10.0
	columnTolerance   = 10.0
	maxColumnDistance = 50.0
)

// Run is one positioned text run on a page. Y grows upward (PDF user space):
// larger Y means closer to the top of the page.
type Run struct {
	Text string
	X    float64
	Y    float64
}

// Line is a horizontal group of runs sharing a vertical position.
type Line struct {
	Y    float64
	Runs []Run
}

// Text joins the line's runs left to right with single spaces.
func (l Line) Text() string {
	runs := append([]Run(nil), l.Runs...)
	sort.SliceStable(runs, func(i, j int) bool { return runs[i].X < runs[j].X })
	parts := make([]string, 0, len(runs))
	for _, r := range runs {
		if r.Text != "" {
			parts = append(parts, r.Text)
		}
	}
	return strings.Join(parts, " ")
}

// GroupLines clusters runs into lines top to bottom. Runs within
// lineTolerance of the current line's anchor always join it; a gap beyond
// lineBreakGap opens a new line; gaps in between stick to the current line
// without moving its anchor.
func GroupLines(runs []Run) []Line {
	if len(runs) == 0 {
		return nil
	}
	sorted := append([]Run(nil), runs...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Y != sorted[j].Y {
			return sorted[i].Y > sorted[j].Y
		}
		return sorted[i].X < sorted[j].X
	})

	lines := []Line{{Y: sorted[0].Y, Runs: []Run{sorted[0]}}}
	for _, r := range sorted[1:] {
		cur := &lines[len(lines)-1]
		gap := cur.Y - r.Y
		if gap > lineBreakGap {
			lines = append(lines, Line{Y: r.Y, Runs: []Run{r}})
			continue
		}
		// Within the tolerance band the run joins the current line; the
		// anchor stays put so drift cannot accumulate down the page.
		cur.Runs = append(cur.Runs, r)
	}
	return lines
}

// ClusterColumns buckets the runs' horizontal positions into column centers.
// Each run snaps to the nearest existing bucket within columnTolerance or
// opens a new one. Centers are returned in ascending order.
func ClusterColumns(runs []Run) []float64 {
	var cols []float64
	for _, r := range runs {
		idx, dist := nearest(cols, r.X)
		if idx >= 0 && dist <= columnTolerance {
			continue
		}
		cols = append(cols, r.X)
	}
	sort.Float64s(cols)
	return cols
}

// AssignColumn returns the index of the column bucket nearest to x, or -1
// when x is farther than maxColumnDistance from every bucket (the cell is
// dropped).
func AssignColumn(cols []float64, x float64) int {
	idx, dist := nearest(cols, x)
	if idx < 0 || dist > maxColumnDistance {
		return -1
	}
	return idx
}

func nearest(centers []float64, x float64) (int, float64) {
	best := -1
	bestDist := math.MaxFloat64
	for i, c := range centers {
		if d := math.Abs(c - x); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best, bestDist
}

// CoerceCell turns a raw cell into a typed value: trimmed text that parses as
// a number after stripping thousands separators becomes a float64, everything
// else stays a string.
func CoerceCell(raw string) any {
	trimmed := strings.TrimSpace(raw)
	candidate := strings.ReplaceAll(trimmed, ",", "")
	if candidate != "" {
		if n, err := strconv.ParseFloat(candidate, 64); err == nil {
			return n
		}
	}
	return trimmed
}
