package mainwindow

import (
	"image"
	"testing"

	"maglev-tracker/internal/calib"
	"maglev-tracker/pkg/colorutil"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/theme"
)

func TestMainWindow(t *testing.T) {
	a := test.NewApp()
	q := calib.NewQueue(4)
	quit := 0
	mw := New(a, q, calib.NewTolerance(calib.ToleranceValue{}), true, func() { quit++ })

	video := mw.Video()
	video.Resize(fyne.NewSize(100, 100))
	video.Show(image.NewRGBA(image.Rect(0, 0, 50, 50)))
	test.TapAt(video, fyne.NewPos(20, 40))

	ev, ok := q.TryNext()
	if !ok || ev != calib.Click(10, 20) {
		t.Fatalf("queued %v, %v; want click at (10,20)", ev, ok)
	}
	if got := mw.statusBar.Text; got != "Clicked (10, 20)" {
		t.Errorf("status = %q", got)
	}

	mw.Canvas().OnTypedKey()(&fyne.KeyEvent{Name: fyne.KeyEscape})
	if quit != 1 {
		t.Errorf("ESC called onQuit %d times, want 1", quit)
	}
}

func TestTrackerTheme(t *testing.T) {
	th := newTrackerTheme()
	if got := th.Color(theme.ColorNamePrimary, theme.VariantDark); got != colorutil.MarkerRed {
		t.Errorf("primary = %v, want marker red", got)
	}
	want := theme.DefaultTheme().Color(theme.ColorNameBackground, theme.VariantDark)
	if got := th.Color(theme.ColorNameBackground, theme.VariantDark); got != want {
		t.Errorf("background = %v, want default %v", got, want)
	}
}
