package app

import (
	"context"
	"sync/atomic"

	"fyne.io/fyne/v2"

	"localmind-desktop/internal/shutdown"
)

// Lifecycle ties the host run loop to the shutdown manager: a signal quits
// the run loop, and the end of the run loop releases the bridge.
type Lifecycle struct {
	ctx     *Context
	manager *shutdown.Manager
	running atomic.Bool
	do      func(func())
}

// NewLifecycle registers the bridge and the host quit with a fresh shutdown
// manager. The host is quit first.
func NewLifecycle(ctx *Context) *Lifecycle {
	l := &Lifecycle{
		ctx:     ctx,
		manager: shutdown.NewManager(ctx.Logger, ctx.Config.ShutdownTimeout),
		do:      fyne.Do,
	}
	l.manager.Register("bridge", ctx.Bridge)
	l.manager.Register("host", shutdown.Func(l.quitHost))
	return l
}

// Context is cancelled once shutdown begins.
func (l *Lifecycle) Context() context.Context {
	return l.manager.Context()
}

// Start marks the run loop as running and begins listening for signals.
func (l *Lifecycle) Start() {
	l.running.Store(true)
	l.manager.Listen()
}

// Stopped is called after the run loop returns.
func (l *Lifecycle) Stopped() {
	l.running.Store(false)
	l.manager.Shutdown()
}

func (l *Lifecycle) quitHost() {
	if !l.running.Load() {
		return
	}
	l.ctx.Logger.Info("Lifecycle", "quitting host run loop", nil)
	l.do(l.ctx.App.Quit)
}
