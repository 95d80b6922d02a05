// Package dialog exposes native file and message dialogs to the frontend.
package dialog

import (
	"errors"

	"fyne.io/fyne/v2"
	fynedialog "fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"

	"localmind-desktop/internal/bridge"
	"localmind-desktop/internal/plugin"
)

const Name = "dialog"

var ErrNoWindow = errors.New("no parent window for dialog")

// Plugin shows dialogs on the main window.
type Plugin struct {
	window fyne.Window
}

func New() *Plugin { return &Plugin{} }

func (p *Plugin) Name() string { return Name }

func (p *Plugin) Init(h *plugin.Host) error {
	p.window = h.Window

	for cmd, fn := range map[string]bridge.Handler{
		"open":    p.open,
		"save":    p.save,
		"message": p.message,
		"confirm": p.confirm,
	} {
		if err := h.Register(Name, cmd, fn); err != nil {
			return err
		}
	}
	return nil
}

// open returns the chosen file or folder path, or nil when cancelled.
// Args: directory (bool), filters (array of extensions like ".md").
func (p *Plugin) open(inv *bridge.Invocation) (any, error) {
	if p.window == nil {
		return nil, ErrNoWindow
	}
	directory := inv.Bool("directory")
	filters := inv.Strings("filters")

	return plugin.Await(inv.Context, func(reply func(any, error)) {
		if directory {
			d := fynedialog.NewFolderOpen(func(uri fyne.ListableURI, err error) {
				if err != nil || uri == nil {
					reply(nil, err)
					return
				}
				reply(uri.Path(), nil)
			}, p.window)
			d.Show()
			return
		}

		d := fynedialog.NewFileOpen(func(r fyne.URIReadCloser, err error) {
			if err != nil || r == nil {
				reply(nil, err)
				return
			}
			path := r.URI().Path()
			r.Close()
			reply(path, nil)
		}, p.window)
		if len(filters) > 0 {
			d.SetFilter(storage.NewExtensionFileFilter(filters))
		}
		d.Show()
	})
}

// save returns the path the user picked to save to, or nil when cancelled.
// Args: defaultName.
func (p *Plugin) save(inv *bridge.Invocation) (any, error) {
	if p.window == nil {
		return nil, ErrNoWindow
	}
	defaultName := inv.String("defaultName")

	return plugin.Await(inv.Context, func(reply func(any, error)) {
		d := fynedialog.NewFileSave(func(w fyne.URIWriteCloser, err error) {
			if err != nil || w == nil {
				reply(nil, err)
				return
			}
			path := w.URI().Path()
			w.Close()
			reply(path, nil)
		}, p.window)
		if defaultName != "" {
			d.SetFileName(defaultName)
		}
		d.Show()
	})
}

// message shows an informational dialog and returns once it is dismissed.
func (p *Plugin) message(inv *bridge.Invocation) (any, error) {
	if p.window == nil {
		return nil, ErrNoWindow
	}
	text, err := inv.Require("message")
	if err != nil {
		return nil, err
	}
	title := inv.String("title")

	_, err = plugin.Await(inv.Context, func(reply func(struct{}, error)) {
		d := fynedialog.NewInformation(title, text, p.window)
		d.SetOnClosed(func() { reply(struct{}{}, nil) })
		d.Show()
	})
	return nil, err
}

// confirm asks a yes/no question and returns the answer.
func (p *Plugin) confirm(inv *bridge.Invocation) (any, error) {
	if p.window == nil {
		return nil, ErrNoWindow
	}
	text, err := inv.Require("message")
	if err != nil {
		return nil, err
	}
	title := inv.String("title")

	ok, err := plugin.Await(inv.Context, func(reply func(bool, error)) {
		fynedialog.NewConfirm(title, text, func(ok bool) { reply(ok, nil) }, p.window).Show()
	})
	if err != nil {
		return nil, err
	}
	return ok, nil
}
