// Package raster implements the pixel-level operations the extraction
// pipeline is built from: grayscale reduction, binarization, morphology,
// contour tracing, color masking, and perspective resampling.
//
// All operations are pure transforms: they read their input through its
// declared bounds and return a freshly allocated image with a zero origin.
// Inputs are never mutated, so stage provenance stays traceable.
// Morphological operations preserve dimensions; windows are clamped at the
// borders rather than cropping the result.
//
// # Binarization
//
// [Threshold] converts grayscale to strict 0/255 binary under a
// [ThresholdSpec] policy:
//
//   - [GlobalThreshold] - fixed cutoff
//   - [OtsuThreshold] - histogram-derived cutoff, adapts to lighting
//   - [AdaptiveThreshold] - per-pixel neighborhood mean minus a constant
//
// # Morphology
//
// [Erode] and [Dilate] are min/max filters over a rectangular [Kernel]
// built with [NewKernel] (orientation + size) or [RectKernel]. [Open] and
// [Close] compose them.
//
// # Contours
//
// [FindContours] labels 8-connected foreground regions and traces each
// outer boundary, reporting the enclosed polygon area. A thin closed
// outline therefore reports the area it encircles, which is what table
// boundary selection needs.
//
// # Color masking
//
// [ColorMask] selects pixels by hue band (compact 0-180 hue scale,
// wraparound handled) and [Knockout] blacks the selected pixels out,
// turning colored glyphs into solid shapes the morphological passes can
// match whole.
//
// # Perspective
//
// [PerspectiveTransform] solves the homography for four point
// correspondences and [Warp] resamples an image through it with bilinear
// interpolation.
package raster
