// Package panels provides the side panels of the tracker window.
package panels

import (
	"fmt"

	"maglev-tracker/internal/calib"
	"maglev-tracker/pkg/colorutil"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// Poster accepts calibration events for the tracking loop.
type Poster interface {
	Post(ev calib.Event) error
}

// CalibrationPanel holds the pick buttons, the raw-display toggle and the
// tolerance sliders.
type CalibrationPanel struct {
	queue     Poster
	tolerance *calib.Tolerance
	onStatus  func(string)

	objectBtn *widget.Button
	magnetBtn *widget.Button
	saveBtn   *widget.Button
	rawCheck  *widget.Check

	sliders map[string]*widget.Slider
	labels  map[string]*widget.Label

	container fyne.CanvasObject
}

// NewCalibrationPanel creates the panel. hsv selects the hue, saturation and
// value sliders instead of the single RGB slider. onStatus may be nil.
func NewCalibrationPanel(queue Poster, tol *calib.Tolerance, hsv bool, onStatus func(string)) *CalibrationPanel {
	cp := &CalibrationPanel{
		queue:     queue,
		tolerance: tol,
		onStatus:  onStatus,
		sliders:   make(map[string]*widget.Slider),
		labels:    make(map[string]*widget.Label),
	}

	cp.objectBtn = widget.NewButton("Select Object", func() {
		cp.post(calib.RequestObjectPick(), "Click the object in the video")
	})
	cp.magnetBtn = widget.NewButton("Select Magnet", func() {
		cp.post(calib.RequestMagnetPick(), "Click the magnet in the video")
	})
	cp.saveBtn = widget.NewButton("Save Frame", func() {
		cp.post(calib.SaveFrame(), "Saving frame")
	})
	cp.rawCheck = widget.NewCheck("Raw video", func(on bool) {
		cp.post(calib.RawDisplay(on), "")
	})

	cur := tol.Load()
	var tolBox *fyne.Container
	if hsv {
		tolBox = container.NewVBox(
			cp.slider("Hue", colorutil.HueMax, int(cur.HSV.H), tol.SetHue),
			cp.slider("Saturation", 255, int(cur.HSV.S), tol.SetSaturation),
			cp.slider("Value", 255, int(cur.HSV.V), tol.SetValue),
		)
	} else {
		tolBox = container.NewVBox(
			cp.slider("RGB", 255, int(cur.Scalar), tol.SetScalar),
		)
	}

	cp.container = container.NewVBox(
		widget.NewCard("Calibration", "", container.NewVBox(
			cp.objectBtn,
			cp.magnetBtn,
			cp.rawCheck,
			cp.saveBtn,
		)),
		widget.NewCard("Tolerance", "", tolBox),
	)
	return cp
}

func (cp *CalibrationPanel) slider(name string, max, initial int, set func(int)) fyne.CanvasObject {
	label := widget.NewLabel(fmt.Sprintf("%s: %d", name, initial))
	s := widget.NewSlider(0, float64(max))
	s.Step = 1
	s.SetValue(float64(initial))
	s.OnChanged = func(val float64) {
		set(int(val))
		label.SetText(fmt.Sprintf("%s: %d", name, int(val)))
	}
	cp.sliders[name] = s
	cp.labels[name] = label
	return container.NewVBox(label, s)
}

func (cp *CalibrationPanel) post(ev calib.Event, status string) {
	if err := cp.queue.Post(ev); err != nil {
		cp.status(fmt.Sprintf("Busy, %s ignored", ev.Kind))
		return
	}
	if status != "" {
		cp.status(status)
	}
}

func (cp *CalibrationPanel) status(msg string) {
	if cp.onStatus != nil {
		cp.onStatus(msg)
	}
}

// Container returns the panel for embedding in layouts.
func (cp *CalibrationPanel) Container() fyne.CanvasObject {
	return cp.container
}
