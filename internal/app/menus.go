package app

import (
	"encoding/json"

	"fyne.io/fyne/v2"

	"localmind-desktop/internal/bridge"
	"localmind-desktop/internal/plugin"
	"localmind-desktop/internal/plugin/opener"
)

const docsURL = "https://github.com/localmind/localmind#readme"

func (a *Application) setupMenus() {
	themeItem := func(label, name string) *fyne.MenuItem {
		return fyne.NewMenuItem(label, func() {
			a.invokeAsync(CommandSetAppTheme, map[string]string{"theme": name})
		})
	}

	viewMenu := fyne.NewMenu("View",
		themeItem("System Theme", "system"),
		themeItem("Light Theme", "light"),
		themeItem("Dark Theme", "dark"),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("Documentation", func() {
			a.invokeAsync(plugin.CommandName(opener.Name, "open_url"), map[string]string{"url": docsURL})
		}),
	)

	a.ctx.Window.SetMainMenu(fyne.NewMainMenu(viewMenu, helpMenu))
}

func (a *Application) invokeAsync(command string, args any) {
	raw, err := json.Marshal(args)
	if err != nil {
		a.ctx.Logger.Error("Menu", err, map[string]interface{}{"command": command})
		return
	}
	go func() {
		resp := a.ctx.Bridge.Invoke(a.lifecycle.Context(), bridge.Request{Command: command, Args: raw})
		if resp.Err != nil {
			a.ctx.Logger.Error("Menu", resp.Err, map[string]interface{}{"command": command})
		}
	}()
}
