// Package opener hands URLs and local paths to the platform's default
// application.
package opener

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/storage"

	"localmind-desktop/internal/bridge"
	"localmind-desktop/internal/plugin"
)

const Name = "opener"

var (
	ErrScheme = errors.New("scheme not allowed")
	ErrNoApp  = errors.New("no host application")
)

var allowedSchemes = map[string]bool{
	"http":   true,
	"https":  true,
	"mailto": true,
	"file":   true,
}

// Plugin hands URLs and paths to the desktop.
type Plugin struct {
	app fyne.App
}

func New() *Plugin { return &Plugin{} }

func (p *Plugin) Name() string { return Name }

func (p *Plugin) Init(h *plugin.Host) error {
	p.app = h.App
	if err := h.Register(Name, "open_url", p.openURL); err != nil {
		return err
	}
	return h.Register(Name, "open_path", p.openPath)
}

// Open launches target with the platform handler for its scheme.
func (p *Plugin) Open(target string) error {
	if p.app == nil {
		return ErrNoApp
	}
	u, err := url.Parse(target)
	if err != nil {
		return fmt.Errorf("parse %q: %w", target, err)
	}
	if !allowedSchemes[u.Scheme] {
		return fmt.Errorf("%q: %w", u.Scheme, ErrScheme)
	}
	if err := p.app.OpenURL(u); err != nil {
		return fmt.Errorf("open %s: %w", u.Redacted(), err)
	}
	return nil
}

func (p *Plugin) openURL(inv *bridge.Invocation) (any, error) {
	target, err := inv.Require("url")
	if err != nil {
		return nil, err
	}
	return nil, p.Open(target)
}

func (p *Plugin) openPath(inv *bridge.Invocation) (any, error) {
	path, err := inv.Require("path")
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	return nil, p.Open(storage.NewFileURI(abs).String())
}
