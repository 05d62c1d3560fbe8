// Package cells turns a structure-free text image into an ordered grid of
// table cells.
//
// The text foreground is dilated until the glyphs of each cell merge into
// one blob, the blobs become bounding boxes, and the boxes are ordered
// into rows and columns by their positions: boxes whose vertical centers
// sit within a tolerance of each other share a row, and each row reads
// left to right. Every box is then sliced out of the source crop and
// handed to a pluggable Recognizer for text.
//
// Each detected box becomes exactly one cell. Rows slightly shorter than
// the widest row are padded with empty trailing cells; rows short by more
// than the configured tolerance fail with ErrIrregularGrid, since silently
// misaligned columns are worse than no output.
package cells
