package ql

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"net"
	"strings"
	"time"
)

// DefaultPort is the raw printing port of networked Brother printers.
const DefaultPort = "9100"

// DefaultStatusTimeout is how long Print waits for the printer to report.
const DefaultStatusTimeout = 5 * time.Second

var (
	ErrUnsupportedModel    = errors.New("unsupported printer model")
	ErrUnknownMedia        = errors.New("unknown media")
	ErrTwoColorUnsupported = errors.New("model cannot print in two colours")
	ErrTooWide             = errors.New("the image is too wide")
	ErrTooHigh             = errors.New("the image is too high")
)

var errNoStatus = errors.New("no status received")
var errInvalidRead = errors.New("invalid read")
var errTurnedOff = errors.New("printer turned off")
var errUnexpectedStatus = errors.New("unexpected status")

// StatusError is returned when the printer reports an error condition.
type StatusError struct {
	Status *Status
}

func (e *StatusError) Error() string {
	errs := e.Status.Errors()
	if len(errs) == 0 {
		return "printer reported an error"
	}
	return "printer reported: " + strings.Join(errs, ", ")
}

// -----------------------------------------------------------------------------

type Printer struct {
	Conn  net.Conn
	Model Model

	LastStatus *Status

	// StatusNotify is called whenever we receive a status packet.
	StatusNotify func(*Status)

	// StatusTimeout bounds the wait for status packets after sending a job.
	StatusTimeout time.Duration
}

// Dial connects to a printer of the given model at address, which is
// a host optionally followed by a port. The port defaults to DefaultPort.
func Dial(ctx context.Context, address, model string) (*Printer, error) {
	m, ok := LookupModel(model)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedModel, model)
	}
	if _, _, err := net.SplitHostPort(address); err != nil {
		address = net.JoinHostPort(address, DefaultPort)
	}

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", address)
	if err != nil {
		return nil, err
	}
	return &Printer{Conn: conn, Model: m, StatusTimeout: DefaultStatusTimeout}, nil
}

// Initialize initializes the printer for further operations.
func (p *Printer) Initialize() error {
	// Clear the print buffer.
	invalidate := make([]byte, 400)
	if _, err := p.Conn.Write(invalidate); err != nil {
		return err
	}

	// Initialize.
	_, err := p.Conn.Write([]byte("\x1b\x40"))
	return err
}

func (p *Printer) updateStatus(status Status) {
	p.LastStatus = &status
	if p.StatusNotify != nil {
		p.StatusNotify(p.LastStatus)
	}
}

// pollStatus waits until the deadline for the printer to send a status packet.
func (p *Printer) pollStatus(deadline time.Time) (*Status, error) {
	if err := p.Conn.SetReadDeadline(deadline); err != nil {
		return nil, err
	}

	var buf Status
	n, err := io.ReadFull(p.Conn, buf[:])
	var netErr net.Error
	switch {
	case n == 0 && (err == io.EOF ||
		errors.As(err, &netErr) && netErr.Timeout()):
		return nil, errNoStatus
	case err == io.ErrUnexpectedEOF:
		return nil, errInvalidRead
	case err != nil:
		return nil, err
	}
	p.updateStatus(buf)
	return p.LastStatus, nil
}

// UpdateStatus requests new status information from the printer. The printer
// must be in an appropriate mode, i.e. on-line and not currently printing.
func (p *Printer) UpdateStatus() error {
	p.LastStatus = nil
	if _, err := p.Conn.Write([]byte("\x1b\x69\x53")); err != nil {
		return err
	}
	_, err := p.pollStatus(time.Now().Add(p.StatusTimeout))
	return err
}

// Print sends a single label to the printer. Dark pixels are printed black,
// and with job.TwoColor set, saturated red pixels are printed red.
//
// Network interfaces don't always report back, so if no status arrives
// within StatusTimeout, the job is considered to have been delivered.
// LastStatus is nil in that case.
func (p *Printer) Print(image image.Image, job Job) error {
	if job.TwoColor && !p.Model.TwoColor {
		return fmt.Errorf("%w: %s", ErrTwoColorUnsupported, p.Model.Name)
	}

	mi := GetMediaInfo(job.WidthMM, job.LengthMM)
	if mi == nil {
		return fmt.Errorf("%w: %d mm x %d mm",
			ErrUnknownMedia, job.WidthMM, job.LengthMM)
	}

	bounds := image.Bounds()
	dx, dy := bounds.Dx(), bounds.Dy()
	if dx > mi.PrintAreaPins {
		return fmt.Errorf("%w: %d > %d pt", ErrTooWide, dx, mi.PrintAreaPins)
	}
	if dy > mi.PrintAreaLength && mi.PrintAreaLength != 0 {
		return fmt.Errorf("%w: %d > %d pt", ErrTooHigh, dy, mi.PrintAreaLength)
	}

	p.LastStatus = nil
	if _, err := p.Conn.Write(makePrintData(&p.Model, job, image)); err != nil {
		return err
	}

	// We may receive an error status instead of the transition
	// to the printing state. Or even after it.
	deadline := time.Now().Add(p.StatusTimeout)
	for {
		status, err := p.pollStatus(deadline)
		if err == errNoStatus {
			return nil
		}
		if err != nil {
			return err
		}

		switch status.Type() {
		case StatusTypePhaseChange, StatusTypeNotification,
			StatusTypeReplyToRequest:
			// Nothing to do.
		case StatusTypePrintingCompleted:
			return nil
		case StatusTypeErrorOccurred:
			return &StatusError{Status: status}
		case StatusTypeTurnedOff:
			return errTurnedOff
		default:
			return errUnexpectedStatus
		}
	}
}

// Close closes the underlying connection.
func (p *Printer) Close() error {
	return p.Conn.Close()
}
