// Package tracker runs the frame loop: acquire a frame, apply at most one
// calibration event, segment and localize the object, send its height to the
// controller and show the result.
package tracker

import (
	"context"
	"image"
	"time"

	"maglev-tracker/internal/calib"
	"maglev-tracker/internal/link"
	"maglev-tracker/internal/locate"
	"maglev-tracker/internal/snapshot"
	"maglev-tracker/internal/vision"
	"maglev-tracker/pkg/colorutil"

	"github.com/hashicorp/go-hclog"
	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// retryDelay is how long the loop waits when it has never received a frame.
const retryDelay = 10 * time.Millisecond

// FrameSource produces camera frames.
type FrameSource interface {
	Read(dst *gocv.Mat) error
}

// Display shows one image per loop iteration.
type Display interface {
	Show(img image.Image)
}

// NopDisplay discards frames, for headless runs.
type NopDisplay struct{}

// Show implements Display.
func (NopDisplay) Show(image.Image) {}

// SaveFunc writes a frame with the tracked position marked.
type SaveFunc func(path string, img image.Image, ball *locate.Ball) error

// Options configures a Loop.
type Options struct {
	Source       FrameSource
	Display      Display
	Transmitter  link.Transmitter
	Segmenter    vision.Segmenter
	Detector     locate.Detector[gocv.Mat]
	Queue        *calib.Queue
	Machine      *calib.Machine
	Tolerance    *calib.Tolerance
	SnapshotPath string
	Save         SaveFunc
	Logger       hclog.Logger
}

// Loop owns the calibration machine and every per-frame buffer. Run and Step
// must be called from a single goroutine.
type Loop struct {
	opts    Options
	locator *locate.Localizer[gocv.Mat]
	logger  hclog.Logger

	frame     gocv.Mat
	mask      gocv.Mat
	view      gocv.Mat
	haveFrame bool

	stats Stats
}

// Stats counts what the loop has done.
type Stats struct {
	Frames     int // iterations with a frame to work on
	ReadErrors int // failed acquisitions
	Found      int // frames with a tracked position
	Sent       int // positions accepted by the transmitter
	SendErrors int // positions dropped by the transmitter
}

// New creates a loop. Unset optional fields get a NopDisplay, snapshot.Save,
// a null logger and empty calibration state.
func New(opts Options) *Loop {
	if opts.Display == nil {
		opts.Display = NopDisplay{}
	}
	if opts.Save == nil {
		opts.Save = snapshot.Save
	}
	if opts.Logger == nil {
		opts.Logger = hclog.NewNullLogger()
	}
	if opts.Machine == nil {
		opts.Machine = calib.NewMachine(0)
	}
	if opts.Queue == nil {
		opts.Queue = calib.NewQueue(calib.DefaultQueueSize)
	}
	if opts.Tolerance == nil {
		opts.Tolerance = calib.NewTolerance(calib.ToleranceValue{})
	}
	return &Loop{
		opts:    opts,
		locator: locate.New(opts.Detector),
		logger:  opts.Logger,
		frame:   gocv.NewMat(),
		mask:    gocv.NewMat(),
		view:    gocv.NewMat(),
	}
}

// Machine returns the calibration machine the loop applies events to.
func (l *Loop) Machine() *calib.Machine { return l.opts.Machine }

// Stats returns the loop counters.
func (l *Loop) Stats() Stats { return l.stats }

// Run steps until ctx is cancelled or a step fails.
func (l *Loop) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}
		if err := l.Step(); err != nil {
			return err
		}
	}
}

// Step runs one iteration. Segmentation and detector failures are returned;
// acquisition and transmission failures are logged and the loop carries on.
func (l *Loop) Step() error {
	if !l.acquire() {
		time.Sleep(retryDelay)
		return nil
	}
	l.stats.Frames++

	var outcome calib.Outcome
	if ev, ok := l.opts.Queue.TryNext(); ok {
		outcome = l.opts.Machine.Apply(ev, vision.MatSampler{Mat: l.frame})
		l.report(ev, outcome)
	}

	var ball *locate.Ball
	pick, tracking := l.opts.Machine.ObjectColor()
	if !tracking || l.opts.Machine.RawDisplay() {
		l.show(l.frame)
	} else {
		found, err := l.track(pick.Color)
		if err != nil {
			return err
		}
		ball = found
	}

	if outcome.Save {
		l.save(ball)
	}
	return nil
}

// acquire reads the next frame, keeping the previous one on failure.
func (l *Loop) acquire() bool {
	err := l.opts.Source.Read(&l.frame)
	if err == nil {
		err = vision.Normalize(&l.frame)
	}
	if err != nil {
		l.stats.ReadErrors++
		l.logger.Warn("frame read failed", "error", err, "reusing_previous", l.haveFrame)
		return l.haveFrame
	}
	l.haveFrame = true
	return true
}

func (l *Loop) track(ref colorutil.Color) (*locate.Ball, error) {
	tol := l.opts.Tolerance.Load()
	if err := l.opts.Segmenter.Segment(l.frame, ref, tol, &l.mask); err != nil {
		return nil, errors.Wrap(err, "segmentation failed")
	}

	ball, ok, err := l.locator.Locate(l.mask)
	if err != nil {
		return nil, err
	}

	vision.MaskToBGR(l.mask, &l.view)
	if !ok {
		l.show(l.view)
		return nil, nil
	}

	l.stats.Found++
	if ball.Regions > 1 {
		l.logger.Trace("multiple regions, using first", "regions", ball.Regions)
	}

	if err := l.opts.Transmitter.Send(float32(ball.Y)); err != nil {
		l.stats.SendErrors++
		l.logger.Debug("position dropped", "y", ball.Y, "error", err)
	} else {
		l.stats.Sent++
	}

	vision.DrawMarker(&l.view, ball)
	l.show(l.view)
	return &ball, nil
}

func (l *Loop) show(m gocv.Mat) {
	img, err := m.ToImage()
	if err != nil {
		l.logger.Warn("failed to convert frame for display", "error", err)
		return
	}
	l.opts.Display.Show(img)
}

func (l *Loop) save(ball *locate.Ball) {
	img, err := l.frame.ToImage()
	if err != nil {
		l.logger.Error("failed to convert frame for saving", "error", err)
		return
	}
	if err := l.opts.Save(l.opts.SnapshotPath, img, ball); err != nil {
		l.logger.Error("failed to save frame", "path", l.opts.SnapshotPath, "error", err)
		return
	}
	l.logger.Info("saved frame", "path", l.opts.SnapshotPath, "tracked", ball != nil)
}

func (l *Loop) report(ev calib.Event, out calib.Outcome) {
	m := l.opts.Machine
	switch {
	case out.ObjectPicked:
		p, _ := m.ObjectColor()
		l.logger.Info("object color picked", "color", p.Color, "at", p.At)
	case out.MagnetPicked:
		p, _ := m.MagnetReference()
		l.logger.Info("magnet reference picked", "color", p.Color, "at", p.At)
	case out.Missed:
		l.logger.Warn("click outside frame, still waiting for pick", "x", ev.X, "y", ev.Y, "state", m.State())
	case out.RawChanged:
		l.logger.Info("raw display", "on", m.RawDisplay())
	default:
		l.logger.Debug("calibration event", "event", ev, "state", m.State())
	}
}

// Close releases the loop's buffers.
func (l *Loop) Close() error {
	l.frame.Close()
	l.mask.Close()
	return l.view.Close()
}
