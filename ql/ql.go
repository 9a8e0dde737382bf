// Package ql is a network driver for Brother QL-series label printers.
package ql

// Resources:
//  http://etc.nkadesign.com/Printers/QL550LabelPrinterProtocol
//  https://download.brother.com/welcome/docp100278/cv_ql800_eng_raster_101.pdf
//  http://www.undocprint.org/formats/page_description_languages/brother_p-touch

import (
	"image"
	"sort"
	"strings"
)

// -----------------------------------------------------------------------------

// Model describes the raster capabilities of a printer model.
type Model struct {
	Name string
	// Number of bytes in a single raster line.
	LineBytes int
	// Extra pins to skip on the right side of the head, wide models only.
	AdditionalMargin int
	// Whether the model understands two-colour (red-black) raster data.
	TwoColor bool
}

// Pins returns the number of pins of the print head.
func (m *Model) Pins() int { return m.LineBytes * 8 }

const (
	standardLineBytes = 90
	wideLineBytes     = 162
)

var models = map[string]Model{}

func init() {
	for _, name := range []string{"QL-500", "QL-550", "QL-560", "QL-570",
		"QL-580N", "QL-650TD", "QL-700", "QL-710W", "QL-720NW"} {
		models[name] = Model{Name: name, LineBytes: standardLineBytes}
	}
	for _, name := range []string{"QL-800", "QL-810W", "QL-820NWB"} {
		models[name] = Model{
			Name: name, LineBytes: standardLineBytes, TwoColor: true}
	}
	for _, name := range []string{"QL-1050", "QL-1060N",
		"QL-1100", "QL-1110NWB", "QL-1115NWB"} {
		models[name] = Model{
			Name: name, LineBytes: wideLineBytes, AdditionalMargin: 44}
	}
}

// LookupModel finds a model by its name, ignoring case.
func LookupModel(name string) (Model, bool) {
	m, ok := models[strings.ToUpper(strings.TrimSpace(name))]
	return m, ok
}

// ModelNames returns the sorted list of supported model names.
func ModelNames() []string {
	var names []string
	for name := range models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// -----------------------------------------------------------------------------

type mediaSize struct {
	WidthMM  int
	LengthMM int
}

type MediaInfo struct {
	// Note that these are approximates, many pins within the margins will work.
	SideMarginPins int
	PrintAreaPins  int
	// If non-zero, length of the die-cut label print area in 300dpi pins.
	PrintAreaLength int
}

var media = map[mediaSize]MediaInfo{
	// Continuous length tape
	{12, 0}: {29, 106, 0},
	{29, 0}: {6, 306, 0},
	{38, 0}: {12, 413, 0},
	{50, 0}: {12, 554, 0},
	{54, 0}: {0, 590, 0},
	{62, 0}: {12, 696, 0},

	// Die-cut labels
	{17, 54}:  {0, 165, 566},
	{17, 87}:  {0, 165, 956},
	{23, 23}:  {42, 236, 202},
	{29, 42}:  {6, 306, 425},
	{29, 90}:  {6, 306, 991},
	{38, 90}:  {12, 413, 991},
	{39, 48}:  {6, 425, 495},
	{52, 29}:  {0, 578, 271},
	{54, 29}:  {59, 602, 271},
	{60, 86}:  {24, 672, 954},
	{62, 29}:  {12, 696, 271},
	{62, 100}: {12, 696, 1109},

	// Die-cut diameter labels
	{12, 12}: {113, 94, 94},
	{24, 24}: {42, 236, 236},
	{58, 58}: {51, 618, 618},
}

func GetMediaInfo(widthMM, lengthMM int) *MediaInfo {
	if mi, ok := media[mediaSize{widthMM, lengthMM}]; ok {
		return &mi
	}
	return nil
}

// -----------------------------------------------------------------------------

// pack packs a bool array into a byte array for the printer to print out.
func pack(data []bool, out *[]byte) {
	for i := 0; i < len(data)/8; i++ {
		var b byte
		for j := 0; j < 8; j++ {
			b <<= 1
			if data[i*8+j] {
				b |= 1
			}
		}
		*out = append(*out, b)
	}
}

func isBlack(r, g, b, a uint32) bool {
	return r < 0x4000 && g < 0x4000 && b < 0x4000 && a >= 0x8000
}

func isRed(r, g, b, a uint32) bool {
	return r >= 0xc000 && g < 0x4000 && b < 0x4000 && a >= 0x8000
}

// rasterizer turns images into raster lines for a particular model.
type rasterizer struct {
	lineBytes int
	margin    int
}

// clip limits the source bounds to what fits on the print head.
func (rz *rasterizer) clip(bounds image.Rectangle, length int) image.Rectangle {
	if bounds.Dy() > length {
		bounds.Max.Y = bounds.Min.Y + length
	}
	if pins := rz.lineBytes*8 - rz.margin; bounds.Dx() > pins {
		bounds.Max.X = bounds.Min.X + pins
	}
	return bounds
}

// bitmapRB converts an image to the printer's red-black raster format.
func (rz *rasterizer) bitmapRB(src image.Image, length int) []byte {
	data, bounds := []byte{}, rz.clip(src.Bounds(), length)
	pins := rz.lineBytes * 8
	redcells, blackcells := make([]bool, pins), make([]bool, pins)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		length--

		// The graphics needs to be inverted horizontally, iterating backwards.
		offset := rz.margin
		for x := bounds.Max.X - 1; x >= bounds.Min.X; x-- {
			r, g, b, a := src.At(x, y).RGBA()
			redcells[offset] = isRed(r, g, b, a)
			blackcells[offset] = isBlack(r, g, b, a)
			offset++
		}

		data = append(data, 'w', 0x01, byte(rz.lineBytes))
		pack(blackcells, &data)
		data = append(data, 'w', 0x02, byte(rz.lineBytes))
		pack(redcells, &data)
	}
	for ; length > 0; length-- {
		data = append(data, 'w', 0x01, byte(rz.lineBytes))
		data = append(data, make([]byte, rz.lineBytes)...)
		data = append(data, 'w', 0x02, byte(rz.lineBytes))
		data = append(data, make([]byte, rz.lineBytes)...)
	}
	return data
}

// bitmap converts an image to the printer's raster format.
func (rz *rasterizer) bitmap(src image.Image, rb bool, length int) []byte {
	// It's a necessary nuisance, so just copy and paste.
	if rb {
		return rz.bitmapRB(src, length)
	}

	data, bounds := []byte{}, rz.clip(src.Bounds(), length)
	pixels := make([]bool, rz.lineBytes*8)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		length--

		// The graphics needs to be inverted horizontally, iterating backwards.
		offset := rz.margin
		for x := bounds.Max.X - 1; x >= bounds.Min.X; x-- {
			pixels[offset] = isBlack(src.At(x, y).RGBA())
			offset++
		}

		data = append(data, 'g', 0x00, byte(rz.lineBytes))
		pack(pixels, &data)
	}
	for ; length > 0; length-- {
		data = append(data, 'g', 0x00, byte(rz.lineBytes))
		data = append(data, make([]byte, rz.lineBytes)...)
	}
	return data
}

// Job describes the media a picture is going to be printed on.
type Job struct {
	WidthMM  int
	LengthMM int // zero for continuous length tape
	TwoColor bool
}

// makePrintData builds the complete command stream for a single label.
// Returns nil if the media is unknown.
//
// XXX: There's no way of knowing for certain whether a red-black tape is
// loaded without a status reply, and the printer refuses to print on a mismatch.
func makePrintData(model *Model, job Job, image image.Image) (data []byte) {
	mediaInfo := GetMediaInfo(job.WidthMM, job.LengthMM)
	if mediaInfo == nil {
		return nil
	}

	// Raster mode.
	data = append(data, 0x1b, 0x69, 0x61, 0x01)

	// Automatic status mode (though it's the default).
	data = append(data, 0x1b, 0x69, 0x21, 0x00)

	// Print information command.
	dy := image.Bounds().Dy()
	if mediaInfo.PrintAreaLength != 0 {
		dy = mediaInfo.PrintAreaLength
	}

	mediaType := byte(0x0a)
	if job.LengthMM != 0 {
		mediaType = byte(0x0b)
	}

	data = append(data, 0x1b, 0x69, 0x7a, 0x02|0x04|0x40|0x80, mediaType,
		byte(job.WidthMM), byte(job.LengthMM),
		byte(dy), byte(dy>>8), byte(dy>>16), byte(dy>>24), 0, 0x00)

	// Auto cut, each 1 label.
	data = append(data, 0x1b, 0x69, 0x4d, 0x40)
	data = append(data, 0x1b, 0x69, 0x41, 0x01)

	// Cut at end, plus two-colour printing where requested.
	if job.TwoColor {
		data = append(data, 0x1b, 0x69, 0x4b, 0x08|0x01)
	} else {
		data = append(data, 0x1b, 0x69, 0x4b, 0x08)
	}

	if job.LengthMM != 0 {
		// 3mm margins along the direction of feed. 0x23 = 35 dots, the minimum.
		data = append(data, 0x1b, 0x69, 0x64, 0x23, 0x00)
	} else {
		// May not set anything other than zero.
		data = append(data, 0x1b, 0x69, 0x64, 0x00, 0x00)
	}

	// Compression mode: no compression.
	data = append(data, 0x4d, 0x00)

	// The graphics data itself.
	rz := rasterizer{
		lineBytes: model.LineBytes,
		margin:    mediaInfo.SideMarginPins + model.AdditionalMargin,
	}
	data = append(data, rz.bitmap(image, job.TwoColor, dy)...)

	// Print command with feeding.
	return append(data, 0x1a)
}
