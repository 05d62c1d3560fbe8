// Package structure strips a table's ruling lines and icons from a
// corrected crop, leaving only the printed text as foreground.
//
// The crop is binarized with dark print as foreground, then each
// configured pattern (vertical lines, horizontal lines, icon blocks) is
// isolated by an erosion that only its shape survives, regrown by
// dilation, and collected into a structure mask. The mask is thickened to
// swallow anti-aliased fringes and subtracted from the binary image.
// Small leftover components and single-pixel slivers are cleaned up
// afterwards.
//
// Colored icons often binarize into fragments too thin for the icon
// pattern to catch. Listing their colors in Config.IconColors turns the
// matching regions solid black before binarization so the pattern matches
// them whole.
package structure
