package components

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// StatusBar shows the last command outcome and the active theme.
// Setters must be called on the UI thread.
type StatusBar struct {
	container   *fyne.Container
	statusLabel *widget.Label
	themeLabel  *widget.Label
}

func NewStatusBar() *StatusBar {
	sb := &StatusBar{
		statusLabel: widget.NewLabel("Ready"),
		themeLabel:  widget.NewLabel("Theme: system"),
	}
	sb.container = container.NewHBox(
		sb.statusLabel,
		widget.NewSeparator(),
		sb.themeLabel,
	)
	return sb
}

func (sb *StatusBar) SetStatus(status string) {
	sb.statusLabel.SetText(status)
}

func (sb *StatusBar) GetStatus() string {
	return sb.statusLabel.Text
}

func (sb *StatusBar) SetTheme(name string) {
	sb.themeLabel.SetText("Theme: " + name)
}

func (sb *StatusBar) GetTheme() string {
	return sb.themeLabel.Text
}

func (sb *StatusBar) GetContainer() *fyne.Container {
	return sb.container
}
