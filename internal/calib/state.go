package calib

import (
	"image"

	"maglev-tracker/pkg/colorutil"
)

// State is the pick mode of the calibration machine.
type State int

const (
	// Idle ignores pointer clicks.
	Idle State = iota
	// AwaitingObjectPick samples the next click as the tracked object color.
	AwaitingObjectPick
	// AwaitingMagnetPick samples the next click as the magnet reference.
	AwaitingMagnetPick
)

func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case AwaitingObjectPick:
		return "AwaitingObjectPick"
	case AwaitingMagnetPick:
		return "AwaitingMagnetPick"
	default:
		return "Unknown"
	}
}

// Pick is a sampled reference: the color under the click and where it was.
type Pick struct {
	Color colorutil.Color
	At    image.Point
}

// Sampler reads colors from the frame the click refers to.
type Sampler interface {
	// Bounds returns the frame rectangle.
	Bounds() image.Rectangle
	// ColorAt returns the pixel at (x, y) in RGB order.
	ColorAt(x, y int) colorutil.Color
}

// Outcome reports what applying an event changed.
type Outcome struct {
	ObjectPicked bool // ObjectColor was replaced
	MagnetPicked bool // MagnetReference was replaced
	Missed       bool // click fell outside the frame while awaiting a pick
	Save         bool // the loop should write the current frame
	RawChanged   bool // RawDisplay flipped
}

// Machine tracks operator intent. It is owned by the tracking loop and is not
// safe for concurrent use; UI code reaches it only through a Queue.
type Machine struct {
	state        State
	object       *Pick
	magnet       *Pick
	raw          bool
	sampleRadius int
}

// NewMachine creates an idle machine. A sampleRadius above zero averages a
// (2r+1)x(2r+1) patch around each click instead of reading a single pixel.
func NewMachine(sampleRadius int) *Machine {
	if sampleRadius < 0 {
		sampleRadius = 0
	}
	return &Machine{sampleRadius: sampleRadius}
}

// State returns the current pick mode.
func (m *Machine) State() State { return m.state }

// ObjectColor returns the tracked object reference, if one has been picked.
func (m *Machine) ObjectColor() (Pick, bool) {
	if m.object == nil {
		return Pick{}, false
	}
	return *m.object, true
}

// MagnetReference returns the magnet reference, if one has been picked.
func (m *Machine) MagnetReference() (Pick, bool) {
	if m.magnet == nil {
		return Pick{}, false
	}
	return *m.magnet, true
}

// RawDisplay reports whether the operator asked for the unprocessed frame.
func (m *Machine) RawDisplay() bool { return m.raw }

// SetObjectColor installs an object reference directly, e.g. from saved preferences.
func (m *Machine) SetObjectColor(p Pick) {
	m.object = &p
}

// Apply advances the machine by one event. frame is the frame current at the
// time the event is applied; it is only read for pointer clicks.
func (m *Machine) Apply(ev Event, frame Sampler) Outcome {
	var out Outcome

	switch ev.Kind {
	case EventRequestObjectPick:
		m.state = AwaitingObjectPick
	case EventRequestMagnetPick:
		m.state = AwaitingMagnetPick
	case EventPointerClick:
		if m.state == Idle {
			return out
		}
		pt := image.Pt(ev.X, ev.Y)
		if frame == nil || !pt.In(frame.Bounds()) {
			out.Missed = true
			return out
		}
		p := Pick{Color: SamplePatch(frame, pt, m.sampleRadius), At: pt}
		if m.state == AwaitingObjectPick {
			m.object = &p
			out.ObjectPicked = true
		} else {
			m.magnet = &p
			out.MagnetPicked = true
		}
		m.state = Idle
	case EventToggleRawDisplay:
		out.RawChanged = m.raw != ev.On
		m.raw = ev.On
	case EventSaveFrame:
		out.Save = true
	}

	return out
}
