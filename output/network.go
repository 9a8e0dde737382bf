package output

import (
	"context"
	"image"
	"time"

	"github.com/sirupsen/logrus"

	"janouch.name/seedlabel/imgutil"
	"janouch.name/seedlabel/label"
	"janouch.name/seedlabel/ql"
)

// NetworkSubmitter prints on Brother QL printers over TCP.
type NetworkSubmitter struct {
	DialTimeout   time.Duration
	StatusTimeout time.Duration
	Log           logrus.FieldLogger
}

func (s *NetworkSubmitter) logger() logrus.FieldLogger {
	if s.Log == nil {
		return logrus.StandardLogger()
	}
	return s.Log
}

// Submit implements Submitter. Red planes are overlaid onto the black one
// and sent as two-colour raster data.
func (s *NetworkSubmitter) Submit(ctx context.Context,
	planes *label.Planes, target Target) error {
	if s.DialTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.DialTimeout)
		defer cancel()
	}

	log := s.logger().WithField("address", target.Address)
	p, err := ql.Dial(ctx, target.Address, target.Model)
	if err != nil {
		return err
	}
	defer p.Close()

	if s.StatusTimeout > 0 {
		p.StatusTimeout = s.StatusTimeout
	}
	p.StatusNotify = func(status *ql.Status) {
		log.Debugf("received status\n%s", status)
	}

	if err := p.Initialize(); err != nil {
		return err
	}

	var img image.Image = planes.Black
	if planes.Red != nil {
		img = &imgutil.Overlay{Under: planes.Black, Over: planes.Red}
	}
	job := ql.Job{WidthMM: target.LabelSizeMM, TwoColor: planes.Red != nil}
	if err := p.Print(img, job); err != nil {
		return err
	}
	if p.LastStatus == nil {
		log.Warn("the printer hasn't confirmed the job")
	}
	return nil
}
