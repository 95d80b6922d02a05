// Package plugin registers capability plugins: host features the frontend is
// granted access to through namespaced bridge commands.
package plugin

import (
	"context"
	"errors"
	"fmt"

	"fyne.io/fyne/v2"

	"localmind-desktop/internal/bridge"
	"localmind-desktop/internal/logger"
)

var ErrDuplicate = errors.New("plugin already registered")

type Plugin interface {
	Name() string
	Init(host *Host) error
}

// Host is what a plugin is given at init time.
type Host struct {
	App    fyne.App
	Window fyne.Window
	Bridge *bridge.Bridge
	Logger logger.Logger
}

// CommandName is the bridge name of a plugin command.
func CommandName(plugin, command string) string {
	return "plugin:" + plugin + "|" + command
}

// Register adds a plugin command to the bridge under its namespaced name.
func (h *Host) Register(plugin, command string, fn bridge.Handler) error {
	return h.Bridge.Register(CommandName(plugin, command), fn)
}

// Await runs show on the UI thread and blocks until it calls reply or ctx
// ends. show must call reply at most once.
func Await[T any](ctx context.Context, show func(reply func(T, error))) (T, error) {
	type result struct {
		v   T
		err error
	}
	ch := make(chan result, 1)
	reply := func(v T, err error) {
		select {
		case ch <- result{v, err}:
		default:
		}
	}
	fyne.Do(func() { show(reply) })

	select {
	case r := <-ch:
		return r.v, r.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Registry keeps plugins in registration order and refuses a second plugin
// with a name already taken.
type Registry struct {
	plugins []Plugin
	names   map[string]struct{}
}

func NewRegistry() *Registry {
	return &Registry{names: make(map[string]struct{})}
}

func (r *Registry) Register(p Plugin) error {
	name := p.Name()
	if _, ok := r.names[name]; ok {
		return fmt.Errorf("%s: %w", name, ErrDuplicate)
	}
	r.names[name] = struct{}{}
	r.plugins = append(r.plugins, p)
	return nil
}

func (r *Registry) Names() []string {
	names := make([]string, len(r.plugins))
	for i, p := range r.plugins {
		names[i] = p.Name()
	}
	return names
}

// InitAll initializes plugins in registration order and stops at the first
// failure.
func (r *Registry) InitAll(host *Host) error {
	for _, p := range r.plugins {
		if err := p.Init(host); err != nil {
			return fmt.Errorf("init plugin %s: %w", p.Name(), err)
		}
		host.Logger.Debug("Plugin", "plugin initialized", map[string]interface{}{
			"plugin": p.Name(),
		})
	}
	return nil
}
