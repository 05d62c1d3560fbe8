package raster

import (
	"image"
	"math"

	"github.com/tsawler/tablesnap/model"
)

// Contour describes one connected foreground region: the ordered points of
// its traced outer boundary, the axis-aligned bounding box, the area
// enclosed by the boundary polygon, and the number of foreground pixels in
// the region. Contours are never mutated after creation.
type Contour struct {
	Points []model.Point
	Box    model.BBox
	Area   float64
	Pixels int
}

// FindContours locates every 8-connected foreground region (intensity
// above zero) in a binary image and traces its outer boundary clockwise.
// Regions are returned in scan order of their first pixel. Area is the
// polygon area enclosed by the boundary, so a thin closed outline reports
// the area it encircles rather than the handful of pixels it covers; that
// is the measure table-boundary selection needs.
func FindContours(src *image.Gray) []Contour {
	labels, stats := labelComponents(src)
	if len(stats) == 0 {
		return nil
	}

	b := src.Bounds()
	dx := b.Dx()

	contours := make([]Contour, 0, len(stats))
	for id, st := range stats {
		want := int32(id + 1)
		fg := func(x, y int) bool {
			if x < 0 || y < 0 || x >= dx || y >= b.Dy() {
				return false
			}
			return labels[y*dx+x] == want
		}
		points := traceBoundary(fg, st.firstX, st.firstY, 4*(st.box().Width+st.box().Height+2))
		contours = append(contours, Contour{
			Points: points,
			Box:    st.box(),
			Area:   polygonArea(points),
			Pixels: st.count,
		})
	}
	return contours
}

// RemoveSmallComponents clears 8-connected foreground regions containing
// fewer than minPixels pixels. This is the noise-cleanup pass that drops
// residual line fragments after structure subtraction.
func RemoveSmallComponents(src *image.Gray, minPixels int) *image.Gray {
	out := cloneGray(src)
	if minPixels <= 1 {
		return out
	}

	labels, stats := labelComponents(src)
	b := out.Bounds()
	dx, dy := b.Dx(), b.Dy()
	for y := 0; y < dy; y++ {
		for x := 0; x < dx; x++ {
			id := labels[y*dx+x]
			if id > 0 && stats[id-1].count < minPixels {
				out.Pix[y*out.Stride+x] = 0
			}
		}
	}
	return out
}

type componentStat struct {
	minX, minY, maxX, maxY int
	count                  int
	firstX, firstY         int
}

func (s componentStat) box() model.BBox {
	return model.BBox{
		X:      s.minX,
		Y:      s.minY,
		Width:  s.maxX - s.minX + 1,
		Height: s.maxY - s.minY + 1,
	}
}

// labelComponents assigns a positive label to each 8-connected foreground
// region using an explicit flood-fill stack. Label i+1 corresponds to
// stats[i]. Coordinates are relative to the image frame.
func labelComponents(src *image.Gray) ([]int32, []componentStat) {
	b := src.Bounds()
	dx, dy := b.Dx(), b.Dy()
	labels := make([]int32, dx*dy)
	var stats []componentStat
	if dx == 0 || dy == 0 {
		return labels, stats
	}

	var stack []int
	for y := 0; y < dy; y++ {
		si := src.PixOffset(b.Min.X, b.Min.Y+y)
		for x := 0; x < dx; x++ {
			if src.Pix[si+x] == 0 || labels[y*dx+x] != 0 {
				continue
			}

			id := int32(len(stats) + 1)
			st := componentStat{minX: x, minY: y, maxX: x, maxY: y, firstX: x, firstY: y}
			stack = append(stack[:0], y*dx+x)
			labels[y*dx+x] = id

			for len(stack) > 0 {
				idx := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				cx, cy := idx%dx, idx/dx

				st.count++
				st.minX = min(st.minX, cx)
				st.maxX = max(st.maxX, cx)
				st.minY = min(st.minY, cy)
				st.maxY = max(st.maxY, cy)

				for ny := cy - 1; ny <= cy+1; ny++ {
					if ny < 0 || ny >= dy {
						continue
					}
					ri := src.PixOffset(b.Min.X, b.Min.Y+ny)
					for nx := cx - 1; nx <= cx+1; nx++ {
						if nx < 0 || nx >= dx || (nx == cx && ny == cy) {
							continue
						}
						nidx := ny*dx + nx
						if src.Pix[ri+nx] != 0 && labels[nidx] == 0 {
							labels[nidx] = id
							stack = append(stack, nidx)
						}
					}
				}
			}
			stats = append(stats, st)
		}
	}
	return labels, stats
}

// mooreDirs enumerates the 8-neighborhood clockwise on screen (Y grows
// downward): E, SE, S, SW, W, NW, N, NE.
var mooreDirs = [8]image.Point{
	{1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}, {0, -1}, {1, -1},
}

// traceBoundary walks the outer boundary of a region clockwise using
// Moore-neighbor tracing, starting from the region's first pixel in scan
// order (whose west and north-west neighbors are background by
// construction). The walk stops when the initial transition repeats or
// after maxSteps as a safety bound.
func traceBoundary(fg func(x, y int) bool, sx, sy int, maxSteps int) []model.Point {
	start := image.Pt(sx, sy)
	prev := image.Pt(sx-1, sy)
	cur := start
	pts := []model.Point{{X: sx, Y: sy}}

	var second image.Point
	for steps := 0; steps < maxSteps; steps++ {
		bi := backtrackIndex(cur, prev)
		moved := false
		var next image.Point
		for i := 1; i <= 8; i++ {
			d := (bi + i) % 8
			n := cur.Add(mooreDirs[d])
			if fg(n.X, n.Y) {
				prev = cur.Add(mooreDirs[(d+7)%8])
				next = n
				moved = true
				break
			}
		}
		if !moved {
			return pts // isolated pixel
		}

		if steps == 0 {
			second = next
		} else if cur == start && next == second {
			return pts // initial transition repeated: boundary closed
		}

		cur = next
		if cur != start {
			pts = append(pts, model.Point{X: cur.X, Y: cur.Y})
		}
	}
	return pts
}

// backtrackIndex returns the direction index from cur toward the previous
// background position.
func backtrackIndex(cur, prev image.Point) int {
	d := prev.Sub(cur)
	for i, v := range mooreDirs {
		if v == d {
			return i
		}
	}
	return 4 // west
}

// polygonArea computes the enclosed area of a closed point sequence via
// the shoelace formula.
func polygonArea(pts []model.Point) float64 {
	if len(pts) < 3 {
		return 0
	}
	sum := 0
	for i := range pts {
		j := (i + 1) % len(pts)
		sum += pts[i].X*pts[j].Y - pts[j].X*pts[i].Y
	}
	return math.Abs(float64(sum)) / 2
}
