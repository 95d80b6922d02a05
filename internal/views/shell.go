// Package views holds the in-window frontend. It talks to the backend only
// through the invoke function, the same way a web frontend would.
package views

import (
	"context"
	"encoding/json"
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"github.com/tidwall/gjson"

	"localmind-desktop/internal/views/components"
)

// Invoker sends a named command with JSON arguments and returns the JSON
// response envelope ({"data": ...} or {"error": "..."}).
type Invoker func(ctx context.Context, command string, args []byte) ([]byte, error)

type ShellView struct {
	ctx    context.Context
	window fyne.Window
	invoke Invoker

	form      *components.GreetForm
	statusBar *components.StatusBar
	content   fyne.CanvasObject

	// background runs invocations off the UI thread; onUI brings results back.
	background func(func())
	onUI       func(func())
}

func NewShellView(ctx context.Context, window fyne.Window, invoke Invoker) *ShellView {
	v := &ShellView{
		ctx:        ctx,
		window:     window,
		invoke:     invoke,
		form:       components.NewGreetForm(),
		statusBar:  components.NewStatusBar(),
		background: func(fn func()) { go fn() },
		onUI:       fyne.Do,
	}

	v.form.SetGreetHandler(v.greet)
	v.form.SetThemeHandler(v.setTheme)
	v.content = container.NewBorder(nil, v.statusBar.GetContainer(), nil, nil, container.NewPadded(v.form.GetContainer()))
	return v
}

func (v *ShellView) Content() fyne.CanvasObject {
	return v.content
}

// ShowTheme reflects a theme-changed event. Call on the UI thread.
func (v *ShellView) ShowTheme(name string) {
	v.statusBar.SetTheme(name)
	v.form.SetThemeSelection(name)
}

func (v *ShellView) greet(name string) {
	v.call("greet", map[string]string{"name": name}, func(data gjson.Result) {
		v.form.Output.SetText(data.String())
		v.statusBar.SetStatus("Greeted")
	})
}

func (v *ShellView) setTheme(name string) {
	v.call("set_app_theme", map[string]string{"theme": name}, func(data gjson.Result) {
		if !data.Get("applied").Bool() {
			v.statusBar.SetStatus("Theme not applied: " + data.Get("error").String())
			return
		}
		v.statusBar.SetStatus("Theme set")
	})
}

func (v *ShellView) call(command string, args any, onData func(gjson.Result)) {
	raw, err := json.Marshal(args)
	if err != nil {
		v.statusBar.SetStatus(fmt.Sprintf("%s: %v", command, err))
		return
	}
	v.statusBar.SetStatus("Working...")

	v.background(func() {
		out, err := v.invoke(v.ctx, command, raw)
		v.onUI(func() {
			if err != nil {
				v.statusBar.SetStatus(fmt.Sprintf("%s: %v", command, err))
				return
			}
			if msg := gjson.GetBytes(out, "error"); msg.Exists() {
				v.statusBar.SetStatus(fmt.Sprintf("%s: %s", command, msg.String()))
				return
			}
			onData(gjson.GetBytes(out, "data"))
		})
	})
}
