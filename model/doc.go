// Package model provides the geometry and table values shared by the
// extraction pipeline.
//
// This package defines the user-facing data structures the pipeline
// produces. All stages ultimately assemble these types, making them the
// primary API for consuming extraction results.
//
// # Geometry
//
// Coordinates are integer pixel positions with the origin at the top-left
// corner and Y growing downward, matching the image coordinate system:
//
//   - [Point] - 2D pixel position with distance calculation
//   - [BBox] - axis-aligned bounding box with intersection, union, and
//     overlap calculations
//
// # Tables
//
// The [Table] type is the terminal artifact of the pipeline: rows of [Cell]
// values, every row with the same column count, (row, column) pairs unique
// and contiguous from (0,0). A [TextBox] is a detected text region together
// with the grid coordinates assigned during ordering.
//
// Export and interchange:
//
//   - ToDelimited / [ParseDelimited] - the row-major delimited flat-file
//     format consumed by review tooling (round-trip safe for grid shape)
//   - ToMarkdown - quick human inspection
//   - ToHTML - escaped fragment for dropping into review pages
//   - ExpandBullets - splits rows whose cells carry recognized bullet lists
package model
