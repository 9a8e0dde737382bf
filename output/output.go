// Package output delivers rendered labels, either to files or to a printer.
package output

import (
	"context"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"janouch.name/seedlabel/label"
)

// Target identifies the printer and the tape loaded in it.
type Target struct {
	Address     string
	Model       string
	LabelSizeMM int
}

func (t Target) String() string {
	return fmt.Sprintf("%s at %s with %d mm tape", t.Model, t.Address, t.LabelSizeMM)
}

// Submitter hands rendered planes over to a printer.
type Submitter interface {
	Submit(ctx context.Context, planes *label.Planes, target Target) error
}

// PrinterError is returned when the printer couldn't be made to print.
type PrinterError struct {
	Target Target
	Err    error
}

func (e *PrinterError) Error() string {
	return fmt.Sprintf("printing on %s: %s", e.Target, e.Err)
}

func (e *PrinterError) Unwrap() error { return e.Err }

// FileWriteError is returned when a dry-run image cannot be saved.
type FileWriteError struct {
	Path string
	Err  error
}

func (e *FileWriteError) Error() string {
	return fmt.Sprintf("saving %s: %s", e.Path, e.Err)
}

func (e *FileWriteError) Unwrap() error { return e.Err }

// Result tells where a label went.
type Result struct {
	// Paths of the saved images, black plane first, dry runs only.
	Paths   []string
	Printed bool
}

// Dispatcher routes labels to exactly one destination per call.
type Dispatcher struct {
	DryRun    bool
	OutputDir string
	Target    Target
	Submitter Submitter
	Log       logrus.FieldLogger
}

func (d *Dispatcher) logger() logrus.FieldLogger {
	if d.Log == nil {
		return logrus.StandardLogger()
	}
	return d.Log
}

// Dispatch saves or prints the planes rendered from req.
func (d *Dispatcher) Dispatch(ctx context.Context,
	req *label.Request, planes *label.Planes) (*Result, error) {
	if d.DryRun {
		paths, err := d.save(BaseName(req), planes)
		if err != nil {
			return nil, err
		}
		return &Result{Paths: paths}, nil
	}

	d.logger().WithField("target", d.Target.String()).Info("printing label")
	if err := d.Submitter.Submit(ctx, planes, d.Target); err != nil {
		return nil, &PrinterError{Target: d.Target, Err: err}
	}
	return &Result{Printed: true}, nil
}

// save writes each plane into its own PNG file. On failure, files that
// have already been written are removed again.
func (d *Dispatcher) save(base string, planes *label.Planes) ([]string, error) {
	var paths []string
	for _, plane := range planes.Named() {
		name := base + ".png"
		if plane.Name != "black" {
			name = base + "_" + plane.Name + ".png"
		}

		path := filepath.Join(d.OutputDir, name)
		if err := writePNG(path, plane); err != nil {
			for _, written := range paths {
				os.Remove(written)
			}
			return nil, &FileWriteError{Path: path, Err: err}
		}

		d.logger().WithFields(logrus.Fields{
			"plane": plane.Name,
			"path":  path,
		}).Debug("saved plane")
		paths = append(paths, path)
	}
	return paths, nil
}

func writePNG(path string, plane label.NamedPlane) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, plane.Image); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return err
	}
	return nil
}

// BaseName derives a file name without extension from the name and variety,
// such as "seed_label_Tomato_Cherry_Red". Diacritics are stripped.
func BaseName(req *label.Request) string {
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	name, _, err := transform.String(fold,
		fmt.Sprintf("seed_label_%s_%s", req.Name, req.Variety))
	if err != nil {
		name = fmt.Sprintf("seed_label_%s_%s", req.Name, req.Variety)
	}
	return strings.NewReplacer(" ", "_", "/", "_", "\\", "_").Replace(name)
}
