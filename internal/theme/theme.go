// Package theme applies the frontend's theme requests to the Fyne host.
package theme

import (
	"errors"
	"image/color"

	"fyne.io/fyne/v2"
	fynetheme "fyne.io/fyne/v2/theme"

	"localmind-desktop/internal/commands"
)

var ErrNoHost = errors.New("no host application attached")

// forced pins every colour lookup of the wrapped theme to one variant.
type forced struct {
	fyne.Theme
	variant fyne.ThemeVariant
}

// Forced wraps the default theme so it always renders in variant.
func Forced(variant fyne.ThemeVariant) fyne.Theme {
	return &forced{Theme: fynetheme.DefaultTheme(), variant: variant}
}

func (f *forced) Color(name fyne.ThemeColorName, _ fyne.ThemeVariant) color.Color {
	return f.Theme.Color(name, f.variant)
}

// For maps a requested theme onto a Fyne theme. Unspecified returns the
// default theme, which follows the OS preference.
func For(t commands.Theme) fyne.Theme {
	switch t {
	case commands.ThemeDark:
		return Forced(fynetheme.VariantDark)
	case commands.ThemeLight:
		return Forced(fynetheme.VariantLight)
	default:
		return fynetheme.DefaultTheme()
	}
}

// Window is the handle theme requests are applied through. Fyne themes are
// application wide, so the handle carries the app as well as the window.
type Window struct {
	app    fyne.App
	window fyne.Window
	do     func(func())
}

func NewWindow(app fyne.App, window fyne.Window) *Window {
	return &Window{app: app, window: window, do: fyne.Do}
}

func (w *Window) SetTheme(t commands.Theme) error {
	if w == nil || w.app == nil {
		return ErrNoHost
	}
	settings := w.app.Settings()
	if settings == nil {
		return ErrNoHost
	}
	th := For(t)
	w.do(func() {
		settings.SetTheme(th)
		if w.window != nil && w.window.Content() != nil {
			w.window.Content().Refresh()
		}
	})
	return nil
}
