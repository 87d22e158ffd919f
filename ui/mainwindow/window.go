// Package mainwindow provides the tracker window: live video plus the
// calibration panel.
package mainwindow

import (
	"fmt"

	"maglev-tracker/internal/calib"
	"maglev-tracker/internal/version"
	"maglev-tracker/ui/canvas"
	"maglev-tracker/ui/panels"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app       fyne.App
	queue     *calib.Queue
	video     *canvas.VideoView
	panel     *panels.CalibrationPanel
	statusBar *widget.Label

	onQuit func()
}

// New creates the window. onQuit runs once when the window closes, whether
// by ESC, the Quit menu item or the window manager.
func New(fyneApp fyne.App, queue *calib.Queue, tol *calib.Tolerance, hsv bool, onQuit func()) *MainWindow {
	fyneApp.Settings().SetTheme(newTrackerTheme())
	win := fyneApp.NewWindow("Maglev Tracker")

	mw := &MainWindow{
		Window: win,
		app:    fyneApp,
		queue:  queue,
		onQuit: onQuit,
	}

	mw.setupUI(tol, hsv)
	mw.setupMenus()
	mw.setupEventHandlers()

	return mw
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI(tol *calib.Tolerance, hsv bool) {
	mw.statusBar = widget.NewLabel("Select Object, then click it in the video")
	mw.video = canvas.NewVideoView(mw.onVideoTapped)
	mw.panel = panels.NewCalibrationPanel(mw.queue, tol, hsv, mw.updateStatus)

	split := container.NewHSplit(
		mw.video,
		container.NewVScroll(mw.panel.Container()),
	)
	split.SetOffset(0.75) // Video takes 75% of width

	content := container.NewBorder(
		nil,                               // top
		container.NewPadded(mw.statusBar), // bottom
		nil,                               // left
		nil,                               // right
		split,                             // center
	)

	mw.SetContent(content)
	mw.Resize(fyne.NewSize(1024, 600))
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Save Frame", func() {
			if err := mw.queue.Post(calib.SaveFrame()); err != nil {
				mw.updateStatus("Busy, save ignored")
			}
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", mw.Close),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, helpMenu))
}

// setupEventHandlers wires ESC and window close to shutdown.
func (mw *MainWindow) setupEventHandlers() {
	mw.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		if ev.Name == fyne.KeyEscape {
			mw.Close()
		}
	})
	mw.SetOnClosed(func() {
		if mw.onQuit != nil {
			mw.onQuit()
		}
	})
}

// Video returns the live view. Its Show is safe to call from the tracking loop.
func (mw *MainWindow) Video() *canvas.VideoView {
	return mw.video
}

func (mw *MainWindow) onVideoTapped(x, y int) {
	if err := mw.queue.Post(calib.Click(x, y)); err != nil {
		mw.updateStatus("Busy, click ignored")
		return
	}
	mw.updateStatus(fmt.Sprintf("Clicked (%d, %d)", x, y))
}

// updateStatus updates the status bar text.
func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About Maglev Tracker",
		fmt.Sprintf("Maglev Tracker v%s\n\n"+
			"Tracks a coloured object and streams its height\n"+
			"to the levitation controller.\n\n"+
			"Built: %s\n"+
			"Commit: %s",
			version.Version, version.BuildTime, version.GitCommit),
		mw.Window)
}
