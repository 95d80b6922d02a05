package app

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"fyne.io/fyne/v2/test"

	"localmind-desktop/internal/bridge"
	"localmind-desktop/internal/commands"
	"localmind-desktop/internal/config"
	"localmind-desktop/internal/logger"
	"localmind-desktop/internal/plugin"
	"localmind-desktop/internal/plugin/opener"
)

func buildDefault(t *testing.T) *Application {
	t.Helper()
	a, err := Default(config.Default(), logger.Nop()).WithHost(test.NewTempApp(t)).Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	t.Cleanup(a.lifecycle.Stopped)
	return a
}

func invoke(t *testing.T, a *Application, command, args string) string {
	t.Helper()
	out, err := a.Invoke(context.Background(), command, []byte(args))
	if err != nil {
		t.Fatalf("invoke %s: %v", command, err)
	}
	return string(out)
}

func TestDefaultPluginSet(t *testing.T) {
	a := buildDefault(t)
	if got := strings.Join(a.Plugins(), ","); got != "dialog,fs,opener" {
		t.Fatalf("unexpected plugins %s", got)
	}
}

func TestDuplicateOpenerRegisteredOnce(t *testing.T) {
	a, err := Default(config.Default(), logger.Nop()).
		Plugin(opener.New()).
		WithHost(test.NewTempApp(t)).
		Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	t.Cleanup(a.lifecycle.Stopped)

	if got := strings.Join(a.Plugins(), ","); got != "dialog,fs,opener" {
		t.Fatalf("expected opener once, got %s", got)
	}
	n := 0
	for _, cmd := range a.Commands() {
		if cmd == plugin.CommandName(opener.Name, "open_url") {
			n++
		}
	}
	if n != 1 {
		t.Fatalf("expected one open_url command, got %d", n)
	}
}

func TestCommandSurface(t *testing.T) {
	a := buildDefault(t)
	var app []string
	for _, cmd := range a.Commands() {
		if !strings.HasPrefix(cmd, "plugin:") {
			app = append(app, cmd)
		}
	}
	if got := strings.Join(app, ","); got != "greet,set_app_theme" {
		t.Fatalf("unexpected application commands %s", got)
	}
}

func TestGreetCommand(t *testing.T) {
	a := buildDefault(t)

	if got := invoke(t, a, CommandGreet, `{"name":"Ada"}`); got != `{"data":"Hello, Ada! You've been greeted from Rust!"}` {
		t.Fatalf("unexpected response %s", got)
	}
	if got := invoke(t, a, CommandGreet, `{"name":""}`); got != `{"data":"Hello, ! You've been greeted from Rust!"}` {
		t.Fatalf("unexpected response %s", got)
	}
}

func TestSetAppThemeCommand(t *testing.T) {
	a := buildDefault(t)
	events := make(chan bridge.Event, 4)
	a.Context().Bridge.Listen(EventThemeChanged, func(e bridge.Event) { events <- e })

	cases := map[string]string{
		`{"theme":"dark"}`:  `{"data":{"theme":"dark","applied":true}}`,
		`{"theme":"light"}`: `{"data":{"theme":"light","applied":true}}`,
		`{"theme":"Dark"}`:  `{"data":{"theme":"system","applied":true}}`,
		`{"theme":""}`:      `{"data":{"theme":"system","applied":true}}`,
	}
	for args, want := range cases {
		if got := invoke(t, a, CommandSetAppTheme, args); got != want {
			t.Fatalf("set_app_theme %s = %s, want %s", args, got, want)
		}
		select {
		case <-events:
		case <-time.After(2 * time.Second):
			t.Fatalf("no theme-changed event for %s", args)
		}
	}
}

type brokenWindow struct{}

func (brokenWindow) SetTheme(commands.Theme) error {
	return errors.New("runtime theme switching unsupported")
}

func TestSetAppThemeNeverFails(t *testing.T) {
	a := buildDefault(t)
	a.Context().ThemeWindow = brokenWindow{}

	resp := a.Context().Bridge.Invoke(context.Background(), bridge.Request{
		Command: CommandSetAppTheme,
		Args:    []byte(`{"theme":"dark"}`),
	})
	if resp.Err != nil {
		t.Fatalf("expected no error, got %v", resp.Err)
	}
	res, ok := resp.Data.(commands.ThemeResult)
	if !ok {
		t.Fatalf("unexpected data type %T", resp.Data)
	}
	if res.Applied() || res.Theme != commands.ThemeDark {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestRejectedThemeEmitsNoEvent(t *testing.T) {
	a := buildDefault(t)
	a.Context().ThemeWindow = brokenWindow{}
	events := make(chan bridge.Event, 4)
	a.Context().Bridge.Listen(EventThemeChanged, func(e bridge.Event) { events <- e })

	invoke(t, a, CommandSetAppTheme, `{"theme":"dark"}`)
	// Events are delivered in order, so the marker arrives first only if the
	// rejected request emitted nothing.
	a.Context().Bridge.Emit(EventThemeChanged, "marker")

	select {
	case e := <-events:
		if e.Payload != "marker" {
			t.Fatalf("unexpected theme-changed event %+v", e)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("marker event not delivered")
	}
}

func TestBuildRejectsDuplicateCommand(t *testing.T) {
	_, err := NewBuilder(config.Default(), nil).
		InvokeHandler(Greet(), Greet()).
		WithHost(test.NewTempApp(t)).
		Build()
	if !errors.Is(err, bridge.ErrDuplicateCommand) {
		t.Fatalf("expected ErrDuplicateCommand, got %v", err)
	}
}

type failingPlugin struct{}

func (failingPlugin) Name() string            { return "broken" }
func (failingPlugin) Init(*plugin.Host) error { return errors.New("no portal") }

func TestBuildFailsOnPluginInit(t *testing.T) {
	_, err := NewBuilder(config.Default(), nil).
		Plugin(failingPlugin{}).
		WithHost(test.NewTempApp(t)).
		Build()
	if err == nil || !strings.Contains(err.Error(), "init plugin broken") {
		t.Fatalf("expected plugin init failure, got %v", err)
	}
}

func TestSurfaceSealedAfterBuild(t *testing.T) {
	a := buildDefault(t)
	err := a.Context().Bridge.Register("late", func(*bridge.Invocation) (any, error) { return nil, nil })
	if !errors.Is(err, bridge.ErrSealed) {
		t.Fatalf("expected ErrSealed, got %v", err)
	}
}
