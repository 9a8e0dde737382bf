package label

import (
	"fmt"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
)

// FontSet names TrueType font files to use instead of the built-in Go fonts.
// Empty paths select the built-in ones.
type FontSet struct {
	Bold    string `yaml:"bold"`
	Regular string `yaml:"regular"`
	Italic  string `yaml:"italic"`
}

// RenderError is returned when a label cannot be drawn.
type RenderError struct {
	What string
	Err  error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("rendering %s: %s", e.What, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

type faces struct {
	name, variety, sow, notes, date font.Face
}

func loadFace(path string, builtin []byte, points float64) (font.Face, error) {
	if path != "" {
		face, err := gg.LoadFontFace(path, points)
		if err != nil {
			return nil, &RenderError{What: "font " + path, Err: err}
		}
		return face, nil
	}

	f, err := truetype.Parse(builtin)
	if err != nil {
		return nil, &RenderError{What: "built-in font", Err: err}
	}
	return truetype.NewFace(f, &truetype.Options{Size: points}), nil
}

func loadFaces(fs FontSet) (*faces, error) {
	var (
		fc  faces
		err error
	)
	for _, spec := range []struct {
		face    *font.Face
		path    string
		builtin []byte
		points  float64
	}{
		{&fc.name, fs.Bold, gobold.TTF, 48},
		{&fc.variety, fs.Regular, goregular.TTF, 32},
		{&fc.sow, fs.Bold, gobold.TTF, 22},
		{&fc.notes, fs.Italic, goitalic.TTF, 24},
		{&fc.date, fs.Regular, goregular.TTF, 20},
	} {
		if *spec.face, err = loadFace(spec.path, spec.builtin, spec.points); err != nil {
			return nil, err
		}
	}
	return &fc, nil
}
