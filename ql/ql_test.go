package ql

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// headerLength is the size of the command stream preceding raster data
// for continuous length tape.
const headerLength = 4 + 4 + 13 + 4 + 4 + 4 + 5 + 2

func whiteImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
	return img
}

func TestLookupModel(t *testing.T) {
	m, ok := LookupModel(" ql-810w ")
	require.True(t, ok)
	assert.Equal(t, "QL-810W", m.Name)
	assert.True(t, m.TwoColor)
	assert.Equal(t, 720, m.Pins())

	m, ok = LookupModel("QL-1100")
	require.True(t, ok)
	assert.False(t, m.TwoColor)
	assert.Equal(t, 162, m.LineBytes)

	_, ok = LookupModel("PT-P750W")
	assert.False(t, ok)
	assert.Contains(t, ModelNames(), "QL-820NWB")
}

func TestGetMediaInfo(t *testing.T) {
	mi := GetMediaInfo(62, 0)
	require.NotNil(t, mi)
	assert.Equal(t, 696, mi.PrintAreaPins)
	assert.Equal(t, 12, mi.SideMarginPins)

	assert.Nil(t, GetMediaInfo(63, 0))
}

func TestMakePrintDataMonochrome(t *testing.T) {
	model, _ := LookupModel("QL-810W")
	img := whiteImage(696, 326)
	img.Set(0, 0, color.Black)

	data := makePrintData(&model, Job{WidthMM: 62}, img)
	require.NotNil(t, data)

	lineLength := 3 + model.LineBytes
	assert.Len(t, data, headerLength+326*lineLength+1)
	assert.Equal(t, []byte{0x1b, 0x69, 0x61, 0x01}, data[:4])
	assert.Equal(t, byte(0x1a), data[len(data)-1])

	// Print information: continuous tape, 62 mm, 326 raster lines.
	info := data[8:21]
	assert.Equal(t, []byte{0x1b, 0x69, 0x7a}, info[:3])
	assert.Equal(t, byte(0x0a), info[4])
	assert.Equal(t, byte(62), info[5])
	assert.Equal(t, byte(326&0xff), info[7])
	assert.Equal(t, byte(326>>8), info[8])

	// The leftmost pixel ends up last, after the right margin.
	line := data[headerLength : headerLength+lineLength]
	assert.Equal(t, []byte{'g', 0x00, 90}, line[:3])
	pin := 12 + 695
	for i, b := range line[3:] {
		if i == pin/8 {
			assert.Equal(t, byte(1<<uint(7-pin%8)), b)
		} else {
			assert.Zero(t, b, "byte %d", i)
		}
	}
}

func TestMakePrintDataTwoColor(t *testing.T) {
	model, _ := LookupModel("QL-800")
	img := whiteImage(696, 10)
	img.Set(695, 0, color.RGBA{0xff, 0, 0, 0xff})
	img.Set(694, 0, color.Black)

	data := makePrintData(&model, Job{WidthMM: 62, TwoColor: true}, img)
	require.NotNil(t, data)

	cut := data[29:33]
	assert.Equal(t, []byte{0x1b, 0x69, 0x4b, 0x09}, cut)

	black := data[headerLength : headerLength+93]
	red := data[headerLength+93 : headerLength+186]
	assert.Equal(t, []byte{'w', 0x01, 90}, black[:3])
	assert.Equal(t, []byte{'w', 0x02, 90}, red[:3])

	// Pins 12 and 13 share the second byte.
	assert.Equal(t, byte(1<<uint(7-13%8)), black[3+1])
	assert.Equal(t, byte(1<<uint(7-12%8)), red[3+1])
}

func TestMakePrintDataDieCut(t *testing.T) {
	model, _ := LookupModel("QL-700")
	data := makePrintData(&model, Job{WidthMM: 62, LengthMM: 29},
		whiteImage(696, 100))
	require.NotNil(t, data)

	// Die-cut labels are always padded to the full print area length.
	assert.Len(t, data, headerLength+271*93+1)
	assert.Equal(t, byte(0x0b), data[12])
	assert.Equal(t, []byte{0x1b, 0x69, 0x64, 0x23, 0x00}, data[33:38])
}

func TestMakePrintDataWide(t *testing.T) {
	model, _ := LookupModel("QL-1100")
	data := makePrintData(&model, Job{WidthMM: 62}, whiteImage(696, 2))
	require.NotNil(t, data)
	assert.Equal(t, []byte{'g', 0x00, 162}, data[headerLength:headerLength+3])
}

func TestMakePrintDataUnknownMedia(t *testing.T) {
	model, _ := LookupModel("QL-800")
	assert.Nil(t, makePrintData(&model, Job{WidthMM: 61}, whiteImage(10, 10)))
}
