package imgutil

import (
	"image"
	"image/color"
)

// Overlay is an image.Image wrapper that puts Over on top of Under without
// blending. Pixels of Over that are at least half opaque win.
// A nil Over leaves Under as it is.
type Overlay struct {
	Under image.Image
	Over  image.Image
}

// ColorModel implements image.Image.
func (o *Overlay) ColorModel() color.Model {
	return o.Under.ColorModel()
}

// Bounds implements image.Image.
func (o *Overlay) Bounds() image.Rectangle {
	return o.Under.Bounds()
}

// At implements image.Image.
func (o *Overlay) At(x, y int) color.Color {
	if o.Over != nil && image.Pt(x, y).In(o.Over.Bounds()) {
		c := o.Over.At(x, y)
		if _, _, _, a := c.RGBA(); a >= 0x8000 {
			return c
		}
	}
	return o.Under.At(x, y)
}
