package model

import (
	"fmt"
	"image"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// DefaultDelimiter is the cell separator used by the flat-file table format.
const DefaultDelimiter = "|"

// TextBox is a detected text region together with the grid coordinates
// assigned during ordering. (Row, Col) pairs are unique within a table.
type TextBox struct {
	Box BBox
	Row int
	Col int
}

// Cell represents a single table cell: its grid position, the region it was
// sliced from, the sliced image (nil for synthesized padding cells), and the
// recognized text.
type Cell struct {
	Row   int
	Col   int
	Box   BBox
	Image image.Image
	Text  string
}

// Table represents a table with cells organized in rows and columns.
// Every row has the same column count and (row, col) pairs are unique and
// contiguous starting at (0,0).
type Table struct {
	Rows [][]Cell
	Box  BBox // region of the source image the cells span
}

// NewTable creates a new table with the given dimensions. Cells are
// initialized with their grid coordinates and empty text.
func NewTable(rows, cols int) *Table {
	table := &Table{
		Rows: make([][]Cell, rows),
	}
	for i := 0; i < rows; i++ {
		table.Rows[i] = make([]Cell, cols)
		for j := 0; j < cols; j++ {
			table.Rows[i][j] = Cell{Row: i, Col: j}
		}
	}
	return table
}

// RowCount returns the number of rows.
func (t *Table) RowCount() int {
	return len(t.Rows)
}

// ColCount returns the number of columns.
func (t *Table) ColCount() int {
	if len(t.Rows) == 0 {
		return 0
	}
	return len(t.Rows[0])
}

// GetCell returns the cell at the given row and column (0-indexed),
// or nil if the position is out of bounds.
func (t *Table) GetCell(row, col int) *Cell {
	if row < 0 || row >= len(t.Rows) {
		return nil
	}
	if col < 0 || col >= len(t.Rows[row]) {
		return nil
	}
	return &t.Rows[row][col]
}

// SetCell sets the cell at the given position. The cell's grid coordinates
// are overwritten to keep the (row, col) invariant.
func (t *Table) SetCell(row, col int, cell Cell) error {
	if row < 0 || row >= len(t.Rows) {
		return fmt.Errorf("model: row index %d out of bounds", row)
	}
	if col < 0 || col >= len(t.Rows[row]) {
		return fmt.Errorf("model: col index %d out of bounds", col)
	}
	cell.Row = row
	cell.Col = col
	t.Rows[row][col] = cell
	return nil
}

// Texts returns the cell text values as a row-major grid of strings.
func (t *Table) Texts() [][]string {
	out := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = make([]string, len(row))
		for j, cell := range row {
			out[i][j] = cell.Text
		}
	}
	return out
}

// ToDelimited serializes the table to the flat-file interchange format:
// row-major, one line per row, cells separated by delim, UTF-8. Cell text
// containing the delimiter or line breaks is flattened with spaces so the
// grid shape always survives a round trip through ParseDelimited.
// An empty delim uses DefaultDelimiter.
func (t *Table) ToDelimited(delim string) string {
	if delim == "" {
		delim = DefaultDelimiter
	}
	sanitize := strings.NewReplacer(delim, " ", "\r\n", " ", "\n", " ", "\r", " ")

	var sb strings.Builder
	for _, row := range t.Rows {
		for j, cell := range row {
			sb.WriteString(sanitize.Replace(cell.Text))
			if j < len(row)-1 {
				sb.WriteString(delim)
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// ParseDelimited parses the flat-file format produced by ToDelimited back
// into a Table. Only text and grid shape are recovered; boxes and images are
// not part of the interchange format. Returns an error if the rows do not
// share a single column count.
func ParseDelimited(text, delim string) (*Table, error) {
	if delim == "" {
		delim = DefaultDelimiter
	}

	lines := strings.Split(text, "\n")
	// A trailing newline produces one empty trailing element.
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) == 0 {
		return &Table{}, nil
	}

	cols := strings.Count(lines[0], delim) + 1
	table := NewTable(len(lines), cols)
	for i, line := range lines {
		fields := strings.Split(line, delim)
		if len(fields) != cols {
			return nil, fmt.Errorf("model: line %d has %d cells, want %d", i+1, len(fields), cols)
		}
		for j, f := range fields {
			table.Rows[i][j].Text = f
		}
	}
	return table, nil
}

// ToMarkdown converts the table to markdown format. The first row is
// rendered as the header row.
func (t *Table) ToMarkdown() string {
	if len(t.Rows) == 0 {
		return ""
	}

	var sb strings.Builder

	// Header row
	for j, cell := range t.Rows[0] {
		sb.WriteString("| ")
		sb.WriteString(strings.ReplaceAll(cell.Text, "\n", " "))
		sb.WriteString(" ")
		if j == len(t.Rows[0])-1 {
			sb.WriteString("|")
		}
	}
	sb.WriteString("\n")

	// Separator
	for j := range t.Rows[0] {
		sb.WriteString("|---")
		if j == len(t.Rows[0])-1 {
			sb.WriteString("|")
		}
	}
	sb.WriteString("\n")

	// Data rows
	for i := 1; i < len(t.Rows); i++ {
		for j, cell := range t.Rows[i] {
			sb.WriteString("| ")
			sb.WriteString(strings.ReplaceAll(cell.Text, "\n", " "))
			sb.WriteString(" ")
			if j == len(t.Rows[i])-1 {
				sb.WriteString("|")
			}
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// ToHTML renders the table as an HTML fragment, one tr per row with every
// cell in a td. Cell text is escaped, so recognized text cannot break the
// markup. Meant for dropping extraction results into review pages.
func (t *Table) ToHTML() string {
	root := &html.Node{Type: html.ElementNode, Data: "table"}
	for _, row := range t.Rows {
		tr := &html.Node{Type: html.ElementNode, Data: "tr"}
		for _, cell := range row {
			td := &html.Node{Type: html.ElementNode, Data: "td"}
			td.AppendChild(&html.Node{Type: html.TextNode, Data: cell.Text})
			tr.AppendChild(td)
		}
		root.AppendChild(tr)
	}

	var sb strings.Builder
	// Rendering a well-formed element tree into a Builder cannot fail.
	_ = html.Render(&sb, root)
	return sb.String()
}

// Recognition renders printed bullet glyphs as one of these two-character
// marker sequences.
var bulletMarker = regexp.MustCompile(`\. |\* |\+ |- `)

// ExpandBullets splits rows whose designated columns contain recognized
// bullet lists. When every designated column of a row holds the same
// positive number of bullet markers, the row is replaced by one row per
// bullet item; columns outside the designated set repeat their value on
// each produced row. Rows without matching markers are kept as-is.
//
// Returns a new table; the receiver is not modified. With no designated
// columns the table is returned unchanged.
func (t *Table) ExpandBullets(cols ...int) *Table {
	if len(cols) == 0 || len(t.Rows) == 0 {
		return t
	}

	designated := make(map[int]bool, len(cols))
	for _, c := range cols {
		designated[c] = true
	}

	out := &Table{Box: t.Box}
	for _, row := range t.Rows {
		items := bulletItems(row, designated)
		if items == nil {
			out.Rows = append(out.Rows, append([]Cell(nil), row...))
			continue
		}
		for n := 0; n < len(items[firstDesignated(row, designated)]); n++ {
			expanded := make([]Cell, len(row))
			for j, cell := range row {
				expanded[j] = cell
				if list, ok := items[j]; ok {
					expanded[j].Text = list[n]
				}
			}
			out.Rows = append(out.Rows, expanded)
		}
	}

	// Reassign contiguous grid coordinates.
	for i := range out.Rows {
		for j := range out.Rows[i] {
			out.Rows[i][j].Row = i
			out.Rows[i][j].Col = j
		}
	}
	return out
}

// bulletItems splits the designated cells of a row into their bullet items.
// It returns nil unless every designated column holds the same positive
// marker count, which is the signal that the row really is a parallel list.
func bulletItems(row []Cell, designated map[int]bool) map[int][]string {
	count := -1
	for j, cell := range row {
		if !designated[j] {
			continue
		}
		n := len(bulletMarker.FindAllString(cell.Text, -1))
		if count == -1 {
			count = n
		} else if n != count {
			return nil
		}
	}
	if count <= 0 {
		return nil
	}

	items := make(map[int][]string)
	for j, cell := range row {
		if !designated[j] {
			continue
		}
		// The text starts with a marker, so the first split element is empty.
		parts := bulletMarker.Split(cell.Text, -1)[1:]
		if len(parts) != count {
			return nil
		}
		list := make([]string, len(parts))
		for k, p := range parts {
			list[k] = strings.TrimSpace(p)
		}
		items[j] = list
	}
	return items
}

func firstDesignated(row []Cell, designated map[int]bool) int {
	for j := range row {
		if designated[j] {
			return j
		}
	}
	return 0
}
