package trace

import (
	"image"
	"image/color"

	"github.com/fogleman/gg"

	"github.com/tsawler/tablesnap/model"
)

// Default overlay styling for the pipeline's own trace output: green
// outlines for selected regions, red marks for detected points. Both read
// well against paper and print.
var (
	BoxColor  = color.NRGBA{G: 255, A: 255}
	MarkColor = color.NRGBA{R: 255, A: 255}
)

// DrawBoxes returns a copy of img with each box stroked in c. The source
// image is not modified.
func DrawBoxes(img image.Image, boxes []model.BBox, c color.Color, width float64) image.Image {
	dc := gg.NewContextForImage(img)
	dc.SetColor(c)
	dc.SetLineWidth(width)
	for _, b := range boxes {
		dc.DrawRectangle(float64(b.X), float64(b.Y), float64(b.Width), float64(b.Height))
		dc.Stroke()
	}
	return dc.Image()
}

// DrawPoints returns a copy of img with a filled disc of the given radius
// at each point. The source image is not modified.
func DrawPoints(img image.Image, pts []model.Point, c color.Color, radius float64) image.Image {
	dc := gg.NewContextForImage(img)
	dc.SetColor(c)
	for _, p := range pts {
		dc.DrawCircle(float64(p.X), float64(p.Y), radius)
		dc.Fill()
	}
	return dc.Image()
}
