package app

import (
	"localmind-desktop/internal/bridge"
	"localmind-desktop/internal/commands"
)

const (
	CommandGreet       = "greet"
	CommandSetAppTheme = "set_app_theme"

	EventThemeChanged = "theme-changed"
)

// Greet answers {"name": string} with the greeting text.
func Greet() Command {
	return Command{
		Name: CommandGreet,
		Handler: func(c *Context, inv *bridge.Invocation) (any, error) {
			return c.Greeter.Greet(inv.String("name")), nil
		},
	}
}

// SetAppTheme applies {"theme": string} to the main window. It never fails;
// a host refusal is reported in the result and logged.
func SetAppTheme() Command {
	return Command{
		Name: CommandSetAppTheme,
		Handler: func(c *Context, inv *bridge.Invocation) (any, error) {
			res := commands.SetAppTheme(c.ThemeWindow, inv.String("theme"))
			if res.Err != nil {
				c.Logger.Warning("Theme", "theme not applied", map[string]interface{}{
					"theme": res.Theme.String(),
					"error": res.Err.Error(),
				})
				return res, nil
			}
			c.Bridge.Emit(EventThemeChanged, res.Theme.String())
			return res, nil
		},
	}
}
