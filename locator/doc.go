// Package locator finds the dominant table outline in a photograph and
// produces a perspective-corrected crop of it.
//
// A photograph of a printed page shows the table at an angle, surrounded
// by page margin and whatever else was on the desk. Locate binarizes the
// shot, thickens the foreground until the table border closes into one
// outline, picks the largest enclosed contour, and warps the quad spanned
// by its extreme corners onto an axis-aligned rectangle. The crop gets a
// white border so that downstream morphology never touches the image edge.
package locator
