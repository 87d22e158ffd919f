package mainwindow

import (
	"image/color"

	"maglev-tracker/pkg/colorutil"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// TrackerTheme is the default theme with the tracked-position marker colour
// as its primary colour.
type TrackerTheme struct {
	fyne.Theme
}

var _ fyne.Theme = (*TrackerTheme)(nil)

func newTrackerTheme() *TrackerTheme {
	return &TrackerTheme{Theme: theme.DefaultTheme()}
}

func (t *TrackerTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	if name == theme.ColorNamePrimary {
		return colorutil.MarkerRed
	}
	return t.Theme.Color(name, variant)
}
