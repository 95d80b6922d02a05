// Package app assembles the desktop application: host window, capability
// plugins and the command surface exposed to the frontend.
package app

import (
	"context"
	"fmt"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"

	"localmind-desktop/internal/bridge"
	"localmind-desktop/internal/commands"
	"localmind-desktop/internal/config"
	"localmind-desktop/internal/logger"
	"localmind-desktop/internal/plugin"
	"localmind-desktop/internal/plugin/dialog"
	"localmind-desktop/internal/plugin/fs"
	"localmind-desktop/internal/plugin/opener"
	"localmind-desktop/internal/theme"
	"localmind-desktop/internal/views"
)

// Context is the application state handed to every command handler.
type Context struct {
	Config      config.Config
	Logger      logger.Logger
	App         fyne.App
	Window      fyne.Window
	Bridge      *bridge.Bridge
	Greeter     commands.Greeter
	ThemeWindow commands.Window
}

// Command is a named handler in the frontend's invoke surface.
type Command struct {
	Name    string
	Handler func(c *Context, inv *bridge.Invocation) (any, error)
}

// Builder assembles the plugins and commands of an Application.
type Builder struct {
	cfg      config.Config
	logger   logger.Logger
	host     fyne.App
	plugins  *plugin.Registry
	commands []Command
}

// NewBuilder returns an empty Builder. Default is the usual starting point.
func NewBuilder(cfg config.Config, log logger.Logger) *Builder {
	if log == nil {
		log = logger.Nop()
	}
	return &Builder{
		cfg:     cfg,
		logger:  log,
		plugins: plugin.NewRegistry(),
	}
}

// Default is the stock bootstrap: dialog, fs and opener plugins, then the
// greet and set_app_theme commands.
func Default(cfg config.Config, log logger.Logger) *Builder {
	return NewBuilder(cfg, log).
		Plugin(dialog.New()).
		Plugin(fs.New(cfg.FSScope...)).
		Plugin(opener.New()).
		InvokeHandler(Greet(), SetAppTheme())
}

// WithHost runs the application on an existing Fyne app instead of creating
// one.
func (b *Builder) WithHost(host fyne.App) *Builder {
	b.host = host
	return b
}

// Plugin registers a capability plugin. A plugin whose name is already taken
// is logged and skipped.
func (b *Builder) Plugin(p plugin.Plugin) *Builder {
	if err := b.plugins.Register(p); err != nil {
		b.logger.Warning("Builder", "duplicate plugin registration ignored", map[string]interface{}{
			"plugin": p.Name(),
			"error":  err.Error(),
		})
	}
	return b
}

// InvokeHandler sets the application command surface. Later calls add to it.
func (b *Builder) InvokeHandler(cmds ...Command) *Builder {
	b.commands = append(b.commands, cmds...)
	return b
}

// Build creates the host window, initializes every plugin, registers the
// commands and seals the bridge. It does not start the run loop.
func (b *Builder) Build() (*Application, error) {
	host := b.host
	if host == nil {
		fyneapp.SetMetadata(fyne.AppMetadata{
			ID:      b.cfg.AppID,
			Name:    b.cfg.Title,
			Version: config.AppVersion,
		})
		host = fyneapp.NewWithID(b.cfg.AppID)
	}

	window := host.NewWindow(b.cfg.Title)
	window.Resize(fyne.NewSize(b.cfg.Width, b.cfg.Height))
	window.CenterOnScreen()
	window.SetMaster()

	br := bridge.New(b.logger)
	ctx := &Context{
		Config:      b.cfg,
		Logger:      b.logger,
		App:         host,
		Window:      window,
		Bridge:      br,
		Greeter:     commands.NewGreeter(b.cfg.GreetBackend),
		ThemeWindow: theme.NewWindow(host, window),
	}

	if err := b.plugins.InitAll(&plugin.Host{App: host, Window: window, Bridge: br, Logger: b.logger}); err != nil {
		br.Shutdown()
		return nil, err
	}

	for _, cmd := range b.commands {
		handler := cmd.Handler
		if err := br.Register(cmd.Name, func(inv *bridge.Invocation) (any, error) {
			return handler(ctx, inv)
		}); err != nil {
			br.Shutdown()
			return nil, fmt.Errorf("register command: %w", err)
		}
	}
	br.Seal()

	application := &Application{
		ctx:     ctx,
		plugins: b.plugins.Names(),
	}
	application.lifecycle = NewLifecycle(ctx)
	application.view = views.NewShellView(application.lifecycle.Context(), window, br.InvokeJSON)
	window.SetContent(application.view.Content())
	application.setupMenus()
	application.listenEvents()

	b.logger.Info("Application", "initialization complete", map[string]interface{}{
		"plugins":  application.plugins,
		"commands": br.Commands(),
	})
	return application, nil
}

// Run builds the application and blocks in the host run loop.
func (b *Builder) Run() error {
	application, err := b.Build()
	if err != nil {
		return err
	}
	return application.Run()
}

type Application struct {
	ctx       *Context
	plugins   []string
	view      *views.ShellView
	lifecycle *Lifecycle
}

func (a *Application) Context() *Context { return a.ctx }

// Plugins lists the registered capability plugins in registration order.
func (a *Application) Plugins() []string { return a.plugins }

func (a *Application) Commands() []string { return a.ctx.Bridge.Commands() }

// Invoke calls a command the same way the frontend does.
func (a *Application) Invoke(ctx context.Context, command string, args []byte) ([]byte, error) {
	return a.ctx.Bridge.InvokeJSON(ctx, command, args)
}

// Run shows the main window and blocks until the host run loop exits. A
// failure of the host to start is returned as an error.
func (a *Application) Run() (err error) {
	log := a.ctx.Logger
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("host run loop: %v", r)
		}
		a.lifecycle.Stopped()
	}()

	a.lifecycle.Start()
	log.Info("Application", "showing main window", nil)
	a.ctx.Window.ShowAndRun()
	log.Info("Application", "run loop exited", nil)
	return nil
}

func (a *Application) listenEvents() {
	a.ctx.Bridge.Listen(EventThemeChanged, func(e bridge.Event) {
		name, _ := e.Payload.(string)
		fyne.Do(func() { a.view.ShowTheme(name) })
	})
}
