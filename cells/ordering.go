package cells

import (
	"math"
	"sort"

	"github.com/tsawler/tablesnap/model"
)

// OrderBoxes groups detected boxes into reading order and assigns grid
// coordinates. Boxes are sorted by vertical center, then walked top to
// bottom: a box joins the current row while its center stays within
// tolerance of the row's running mean center, and starts a new row
// otherwise. A box sitting exactly at the tolerance boundary joins the
// earlier row. Within each row, boxes read left to right.
//
// A tolerance of zero or less derives one from the boxes themselves,
// half the mean box height, which tracks the font size of the table.
func OrderBoxes(boxes []model.BBox, tolerance int) [][]model.TextBox {
	if len(boxes) == 0 {
		return nil
	}

	sorted := make([]model.BBox, len(boxes))
	copy(sorted, boxes)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].CenterY() != sorted[j].CenterY() {
			return sorted[i].CenterY() < sorted[j].CenterY()
		}
		return sorted[i].Left() < sorted[j].Left()
	})

	tol := float64(tolerance)
	if tolerance <= 0 {
		tol = meanHeight(sorted) / 2
	}

	var rows [][]model.BBox
	current := []model.BBox{sorted[0]}
	mean := float64(sorted[0].CenterY())
	for _, box := range sorted[1:] {
		cy := float64(box.CenterY())
		if math.Abs(cy-mean) <= tol {
			current = append(current, box)
			mean += (cy - mean) / float64(len(current))
			continue
		}
		rows = append(rows, current)
		current = []model.BBox{box}
		mean = cy
	}
	rows = append(rows, current)

	ordered := make([][]model.TextBox, len(rows))
	for r, row := range rows {
		sort.SliceStable(row, func(i, j int) bool {
			return row[i].Left() < row[j].Left()
		})
		ordered[r] = make([]model.TextBox, len(row))
		for c, box := range row {
			ordered[r][c] = model.TextBox{Box: box, Row: r, Col: c}
		}
	}
	return ordered
}

func meanHeight(boxes []model.BBox) float64 {
	total := 0
	for _, box := range boxes {
		total += box.Height
	}
	return float64(total) / float64(len(boxes))
}
