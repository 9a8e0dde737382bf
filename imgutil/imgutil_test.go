package imgutil

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOverlay(t *testing.T) {
	under := image.NewRGBA(image.Rect(0, 0, 4, 4))
	draw.Draw(under, under.Bounds(), image.White, image.Point{}, draw.Src)
	under.Set(0, 0, color.Black)

	red := color.RGBA{0xff, 0, 0, 0xff}
	over := image.NewRGBA(image.Rect(0, 0, 2, 2))
	over.Set(1, 1, red)
	over.Set(0, 1, color.RGBA{0x40, 0, 0, 0x40})

	o := &Overlay{Under: under, Over: over}
	assert.Equal(t, under.Bounds(), o.Bounds())
	assert.Equal(t, color.RGBAModel, o.ColorModel())

	assert.Equal(t, color.Color(color.RGBA{0, 0, 0, 0xff}), o.At(0, 0))
	assert.Equal(t, color.Color(red), o.At(1, 1))
	assert.Equal(t, color.Color(color.RGBA{0xff, 0xff, 0xff, 0xff}), o.At(0, 1))
	assert.Equal(t, color.Color(color.RGBA{0xff, 0xff, 0xff, 0xff}), o.At(3, 3))

	plain := &Overlay{Under: under}
	assert.Equal(t, under.At(0, 0), plain.At(0, 0))
}
