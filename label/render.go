package label

import (
	"image"
	"image/color"
	"image/draw"
	"strings"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
	"github.com/fogleman/gg"
	"golang.org/x/image/font"
)

// Canvas dimensions in 300 dpi pins, corresponding to 62 mm x 29 mm.
const (
	Width  = 696
	Height = 326
)

// Layout, as the tops of text lines. Positions never depend on content.
const (
	marginLeft      = 20
	nameTop         = 15
	varietyTop      = 65
	sowTop          = 115
	notesTop        = 170
	notesLineHeight = 28
	dateTop         = Height - 45

	qrSize   = 140
	qrMargin = 15
)

var inkRed = color.RGBA{0xff, 0x00, 0x00, 0xff}

// Planes are the colour layers of a rendered label.
// Red is nil unless the request asked for red ink.
type Planes struct {
	Black *image.RGBA
	Red   *image.RGBA
}

type NamedPlane struct {
	Name  string
	Image *image.RGBA
}

// Named lists the planes that are present, black first.
func (p *Planes) Named() []NamedPlane {
	planes := []NamedPlane{{Name: "black", Image: p.Black}}
	if p.Red != nil {
		planes = append(planes, NamedPlane{Name: "red", Image: p.Red})
	}
	return planes
}

// Renderer draws labels. It is not safe for concurrent use.
type Renderer struct {
	faces *faces
}

// NewRenderer loads the fonts, failing with a *RenderError.
func NewRenderer(fs FontSet) (*Renderer, error) {
	fc, err := loadFaces(fs)
	if err != nil {
		return nil, err
	}
	return &Renderer{faces: fc}, nil
}

func drawLine(dc *gg.Context, face font.Face, ink color.Color,
	text string, top int) {
	dc.SetFontFace(face)
	dc.SetColor(ink)
	dc.DrawStringAnchored(text, marginLeft, float64(top), 0, 1)
}

func drawQR(dst draw.Image, content string) error {
	code, err := qr.Encode(content, qr.M, qr.Auto)
	if err != nil {
		return &RenderError{What: "QR code", Err: err}
	}
	if code, err = barcode.Scale(code, qrSize, qrSize); err != nil {
		return &RenderError{What: "QR code", Err: err}
	}

	target := image.Rect(Width-qrMargin-qrSize, Height-qrMargin-qrSize,
		Width-qrMargin, Height-qrMargin)
	draw.Draw(dst, target, code, code.Bounds().Min, draw.Src)
	return nil
}

// Render draws the request, which should have been validated.
// Text that doesn't fit simply runs off the label.
func (r *Renderer) Render(req *Request) (*Planes, error) {
	planes := &Planes{Black: image.NewRGBA(image.Rect(0, 0, Width, Height))}
	draw.Draw(planes.Black, planes.Black.Bounds(),
		image.White, image.Point{}, draw.Src)
	black := gg.NewContextForRGBA(planes.Black)

	varietyDC, varietyInk := black, color.Color(color.Black)
	if req.UseRed {
		planes.Red = image.NewRGBA(image.Rect(0, 0, Width, Height))
		varietyDC, varietyInk = gg.NewContextForRGBA(planes.Red), inkRed
	}

	drawLine(black, r.faces.name, color.Black, req.Name, nameTop)
	drawLine(varietyDC, r.faces.variety, varietyInk, req.Variety, varietyTop)

	if text := req.SowText(); text != "" {
		drawLine(black, r.faces.sow, color.Black, text, sowTop)
	}
	if req.Notes != "" {
		for i, line := range strings.Split(req.Notes, "\n") {
			if line = strings.TrimRight(line, "\r \t"); line != "" {
				drawLine(black, r.faces.notes, color.Black, line,
					notesTop+i*notesLineHeight)
			}
		}
	}
	if text := req.DateText(); text != "" {
		drawLine(black, r.faces.date, color.Black, text, dateTop)
	}

	if req.QR != "" {
		if err := drawQR(planes.Black, req.QR); err != nil {
			return nil, err
		}
	}
	return planes, nil
}
