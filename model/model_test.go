package model

import (
	"math"
	"strings"
	"testing"
)

// ============================================================================
// Point Tests
// ============================================================================

func TestPointDistance(t *testing.T) {
	tests := []struct {
		name     string
		p1, p2   Point
		expected float64
	}{
		{"same point", Point{0, 0}, Point{0, 0}, 0},
		{"horizontal", Point{0, 0}, Point{3, 0}, 3},
		{"vertical", Point{0, 0}, Point{0, 4}, 4},
		{"diagonal 3-4-5", Point{0, 0}, Point{3, 4}, 5},
		{"negative coords", Point{-1, -1}, Point{2, 3}, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.p1.Distance(tt.p2)
			if math.Abs(result-tt.expected) > 0.0001 {
				t.Errorf("Distance() = %v, want %v", result, tt.expected)
			}
		})
	}
}

// ============================================================================
// BBox Tests
// ============================================================================

func TestNewBBox(t *testing.T) {
	bbox := NewBBox(10, 20, 100, 50)
	if bbox.X != 10 || bbox.Y != 20 || bbox.Width != 100 || bbox.Height != 50 {
		t.Errorf("NewBBox() = %+v, want {10, 20, 100, 50}", bbox)
	}
}

func TestNewBBoxFromPoints(t *testing.T) {
	tests := []struct {
		name   string
		p1, p2 Point
		want   BBox
	}{
		{"normal", Point{10, 20}, Point{50, 70}, BBox{10, 20, 40, 50}},
		{"reversed", Point{50, 70}, Point{10, 20}, BBox{10, 20, 40, 50}},
		{"same point", Point{10, 10}, Point{10, 10}, BBox{10, 10, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewBBoxFromPoints(tt.p1, tt.p2)
			if got != tt.want {
				t.Errorf("NewBBoxFromPoints() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestBBoxEdges(t *testing.T) {
	b := NewBBox(10, 20, 100, 50)
	if b.Left() != 10 {
		t.Errorf("Left() = %d, want 10", b.Left())
	}
	if b.Right() != 110 {
		t.Errorf("Right() = %d, want 110", b.Right())
	}
	if b.Top() != 20 {
		t.Errorf("Top() = %d, want 20", b.Top())
	}
	if b.Bottom() != 70 {
		t.Errorf("Bottom() = %d, want 70", b.Bottom())
	}
	if b.CenterX() != 60 || b.CenterY() != 45 {
		t.Errorf("Center = (%d,%d), want (60,45)", b.CenterX(), b.CenterY())
	}
}

func TestBBoxContains(t *testing.T) {
	b := NewBBox(10, 10, 20, 20)
	tests := []struct {
		name string
		p    Point
		want bool
	}{
		{"center", Point{20, 20}, true},
		{"top-left corner", Point{10, 10}, true},
		{"right edge exclusive", Point{30, 20}, false},
		{"bottom edge exclusive", Point{20, 30}, false},
		{"outside", Point{5, 5}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := b.Contains(tt.p); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestBBoxIntersection(t *testing.T) {
	tests := []struct {
		name string
		a, b BBox
		want BBox
	}{
		{"overlapping", BBox{0, 0, 20, 20}, BBox{10, 10, 20, 20}, BBox{10, 10, 10, 10}},
		{"contained", BBox{0, 0, 40, 40}, BBox{10, 10, 10, 10}, BBox{10, 10, 10, 10}},
		{"disjoint", BBox{0, 0, 10, 10}, BBox{20, 20, 10, 10}, BBox{}},
		{"touching edges", BBox{0, 0, 10, 10}, BBox{10, 0, 10, 10}, BBox{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Intersection(tt.b); got != tt.want {
				t.Errorf("Intersection() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestBBoxUnion(t *testing.T) {
	a := BBox{0, 0, 10, 10}
	b := BBox{20, 30, 10, 10}
	want := BBox{0, 0, 30, 40}
	if got := a.Union(b); got != want {
		t.Errorf("Union() = %+v, want %+v", got, want)
	}
}

func TestBBoxAreaAndExpand(t *testing.T) {
	b := NewBBox(10, 10, 20, 30)
	if b.Area() != 600 {
		t.Errorf("Area() = %d, want 600", b.Area())
	}

	e := b.Expand(5)
	want := BBox{5, 5, 30, 40}
	if e != want {
		t.Errorf("Expand(5) = %+v, want %+v", e, want)
	}
}

func TestBBoxOverlapRatio(t *testing.T) {
	a := BBox{0, 0, 10, 10}
	b := BBox{5, 0, 10, 10}
	if got := a.OverlapRatio(b); math.Abs(got-0.5) > 0.0001 {
		t.Errorf("OverlapRatio() = %v, want 0.5", got)
	}
	c := BBox{50, 50, 10, 10}
	if got := a.OverlapRatio(c); got != 0 {
		t.Errorf("OverlapRatio() disjoint = %v, want 0", got)
	}
}

func TestBBoxRectRoundTrip(t *testing.T) {
	b := NewBBox(3, 4, 10, 12)
	if got := FromRect(b.Rect()); got != b {
		t.Errorf("FromRect(Rect()) = %+v, want %+v", got, b)
	}
}

// ============================================================================
// Table Tests
// ============================================================================

func TestNewTable(t *testing.T) {
	table := NewTable(3, 4)
	if table.RowCount() != 3 {
		t.Errorf("RowCount() = %d, want 3", table.RowCount())
	}
	if table.ColCount() != 4 {
		t.Errorf("ColCount() = %d, want 4", table.ColCount())
	}

	// Grid coordinates must be contiguous from (0,0).
	for i := 0; i < 3; i++ {
		for j := 0; j < 4; j++ {
			cell := table.GetCell(i, j)
			if cell == nil {
				t.Fatalf("GetCell(%d,%d) = nil", i, j)
			}
			if cell.Row != i || cell.Col != j {
				t.Errorf("cell at (%d,%d) has coords (%d,%d)", i, j, cell.Row, cell.Col)
			}
		}
	}
}

func TestTableGetCellOutOfBounds(t *testing.T) {
	table := NewTable(2, 2)
	for _, pos := range [][2]int{{-1, 0}, {0, -1}, {2, 0}, {0, 2}} {
		if cell := table.GetCell(pos[0], pos[1]); cell != nil {
			t.Errorf("GetCell(%d,%d) = %+v, want nil", pos[0], pos[1], cell)
		}
	}
}

func TestTableSetCell(t *testing.T) {
	table := NewTable(2, 2)

	// Coordinates on the cell value are overwritten by position.
	if err := table.SetCell(1, 1, Cell{Row: 9, Col: 9, Text: "x"}); err != nil {
		t.Fatalf("SetCell() error = %v", err)
	}
	got := table.GetCell(1, 1)
	if got.Text != "x" || got.Row != 1 || got.Col != 1 {
		t.Errorf("GetCell(1,1) = %+v, want text x at (1,1)", got)
	}

	if err := table.SetCell(5, 0, Cell{}); err == nil {
		t.Error("SetCell(5,0) expected out of bounds error")
	}
	if err := table.SetCell(0, 5, Cell{}); err == nil {
		t.Error("SetCell(0,5) expected out of bounds error")
	}
}

// ============================================================================
// Serialization Tests
// ============================================================================

func TestToDelimited(t *testing.T) {
	table := NewTable(2, 3)
	texts := [][]string{
		{"a", "b", "c"},
		{"d", "e", "f"},
	}
	for i, row := range texts {
		for j, text := range row {
			table.Rows[i][j].Text = text
		}
	}

	got := table.ToDelimited("|")
	want := "a|b|c\nd|e|f\n"
	if got != want {
		t.Errorf("ToDelimited() = %q, want %q", got, want)
	}
}

func TestToDelimitedSanitizesText(t *testing.T) {
	table := NewTable(1, 2)
	table.Rows[0][0].Text = "one|two"
	table.Rows[0][1].Text = "three\nfour"

	got := table.ToDelimited("|")
	want := "one two|three four\n"
	if got != want {
		t.Errorf("ToDelimited() = %q, want %q", got, want)
	}
}

func TestParseDelimited(t *testing.T) {
	table, err := ParseDelimited("a|b|c\nd|e|f\n", "|")
	if err != nil {
		t.Fatalf("ParseDelimited() error = %v", err)
	}
	if table.RowCount() != 2 || table.ColCount() != 3 {
		t.Fatalf("parsed shape = %dx%d, want 2x3", table.RowCount(), table.ColCount())
	}
	if table.GetCell(1, 2).Text != "f" {
		t.Errorf("cell (1,2) = %q, want f", table.GetCell(1, 2).Text)
	}
}

func TestParseDelimitedRaggedRows(t *testing.T) {
	if _, err := ParseDelimited("a|b\nc\n", "|"); err == nil {
		t.Error("expected error for inconsistent column count")
	}
}

// Assembling and serializing a table, then parsing the flat format back,
// must reproduce the same grid shape and cell ordering.
func TestDelimitedRoundTrip(t *testing.T) {
	table := NewTable(3, 4)
	for i := 0; i < 3; i++ {
		for j := 0; j < 4; j++ {
			table.Rows[i][j].Text = strings.Repeat("x", i+1) + strings.Repeat("y", j)
		}
	}

	parsed, err := ParseDelimited(table.ToDelimited(""), "")
	if err != nil {
		t.Fatalf("round trip parse error = %v", err)
	}
	if parsed.RowCount() != table.RowCount() || parsed.ColCount() != table.ColCount() {
		t.Fatalf("round trip shape = %dx%d, want %dx%d",
			parsed.RowCount(), parsed.ColCount(), table.RowCount(), table.ColCount())
	}
	for i := range table.Rows {
		for j := range table.Rows[i] {
			got := parsed.GetCell(i, j)
			if got.Row != i || got.Col != j {
				t.Errorf("cell (%d,%d) has coords (%d,%d) after round trip", i, j, got.Row, got.Col)
			}
			if got.Text != table.Rows[i][j].Text {
				t.Errorf("cell (%d,%d) text = %q, want %q", i, j, got.Text, table.Rows[i][j].Text)
			}
		}
	}
}

func TestToMarkdown(t *testing.T) {
	table := NewTable(2, 2)
	table.Rows[0][0].Text = "Name"
	table.Rows[0][1].Text = "Value"
	table.Rows[1][0].Text = "a"
	table.Rows[1][1].Text = "1"

	md := table.ToMarkdown()
	lines := strings.Split(strings.TrimSpace(md), "\n")
	if len(lines) != 3 {
		t.Fatalf("ToMarkdown() produced %d lines, want 3:\n%s", len(lines), md)
	}
	if !strings.Contains(lines[0], "Name") || !strings.Contains(lines[0], "Value") {
		t.Errorf("header row = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "|---") {
		t.Errorf("separator row = %q", lines[1])
	}
}

func TestToHTML(t *testing.T) {
	table := NewTable(2, 2)
	table.Rows[0][0].Text = "Name"
	table.Rows[0][1].Text = "Value"
	table.Rows[1][0].Text = "a"
	table.Rows[1][1].Text = "1"

	got := table.ToHTML()
	want := "<table><tr><td>Name</td><td>Value</td></tr><tr><td>a</td><td>1</td></tr></table>"
	if got != want {
		t.Errorf("ToHTML() = %q, want %q", got, want)
	}

	if got := NewTable(0, 0).ToHTML(); got != "<table></table>" {
		t.Errorf("empty ToHTML() = %q, want bare table element", got)
	}
}

func TestToHTMLEscapesText(t *testing.T) {
	table := NewTable(1, 1)
	table.Rows[0][0].Text = `<b> & "q"`

	got := table.ToHTML()
	want := `<table><tr><td>&lt;b&gt; &amp; &#34;q&#34;</td></tr></table>`
	if got != want {
		t.Errorf("ToHTML() = %q, want %q", got, want)
	}
}

// ============================================================================
// Bullet Expansion Tests
// ============================================================================

func TestExpandBullets(t *testing.T) {
	table := NewTable(2, 3)
	table.Rows[0][0].Text = "Beignets"
	table.Rows[0][1].Text = "+ Blancs vifs . Blancs effervescents"
	table.Rows[0][2].Text = "- Alsace riesling + Champagne"
	table.Rows[1][0].Text = "Bricks"
	table.Rows[1][1].Text = "Rosés épicés"
	table.Rows[1][2].Text = "Languedoc"

	got := table.ExpandBullets(1, 2)
	if got.RowCount() != 3 {
		t.Fatalf("RowCount() = %d, want 3", got.RowCount())
	}

	want := [][]string{
		{"Beignets", "Blancs vifs", "Alsace riesling"},
		{"Beignets", "Blancs effervescents", "Champagne"},
		{"Bricks", "Rosés épicés", "Languedoc"},
	}
	for i, row := range want {
		for j, text := range row {
			if got.Rows[i][j].Text != text {
				t.Errorf("cell (%d,%d) = %q, want %q", i, j, got.Rows[i][j].Text, text)
			}
		}
	}

	// Coordinates must be reassigned contiguously.
	for i := range got.Rows {
		for j := range got.Rows[i] {
			if got.Rows[i][j].Row != i || got.Rows[i][j].Col != j {
				t.Errorf("cell (%d,%d) has coords (%d,%d)", i, j, got.Rows[i][j].Row, got.Rows[i][j].Col)
			}
		}
	}
}

func TestExpandBulletsUnevenCountsKeepsRow(t *testing.T) {
	table := NewTable(1, 3)
	table.Rows[0][0].Text = "Escargots"
	table.Rows[0][1].Text = "- Blancs secs"
	table.Rows[0][2].Text = "+ Chablis + Languedoc + Tavel"

	got := table.ExpandBullets(1, 2)
	if got.RowCount() != 1 {
		t.Fatalf("RowCount() = %d, want 1 (marker counts differ)", got.RowCount())
	}
	if got.Rows[0][1].Text != "- Blancs secs" {
		t.Errorf("cell (0,1) = %q, want untouched text", got.Rows[0][1].Text)
	}
}

func TestExpandBulletsNoColumns(t *testing.T) {
	table := NewTable(1, 2)
	table.Rows[0][0].Text = "+ a + b"
	if got := table.ExpandBullets(); got != table {
		t.Error("ExpandBullets() with no columns should return the table unchanged")
	}
}
