package commands

import (
	"encoding/json"
	"errors"
)

// ErrNoWindow is reported when a theme request arrives without a window.
var ErrNoWindow = errors.New("no window to apply theme to")

// Theme is the requested window appearance.
type Theme int

const (
	// ThemeUnspecified lets the platform decide.
	ThemeUnspecified Theme = iota
	ThemeDark
	ThemeLight
)

// ParseTheme matches exactly "dark" and "light". Anything else, including
// other casings, selects the system default.
func ParseTheme(name string) Theme {
	switch name {
	case "dark":
		return ThemeDark
	case "light":
		return ThemeLight
	default:
		return ThemeUnspecified
	}
}

func (t Theme) String() string {
	switch t {
	case ThemeDark:
		return "dark"
	case ThemeLight:
		return "light"
	default:
		return "system"
	}
}

// MarshalText encodes the theme by its String name.
func (t Theme) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Window is the host surface whose appearance a theme request changes.
type Window interface {
	SetTheme(theme Theme) error
}

// ThemeResult records what a theme request selected and whether the host
// accepted it.
type ThemeResult struct {
	Theme Theme
	Err   error
}

// Applied reports whether the host accepted the theme.
func (r ThemeResult) Applied() bool { return r.Err == nil }

func (r ThemeResult) MarshalJSON() ([]byte, error) {
	out := struct {
		Theme   Theme  `json:"theme"`
		Applied bool   `json:"applied"`
		Error   string `json:"error,omitempty"`
	}{Theme: r.Theme, Applied: r.Applied()}
	if r.Err != nil {
		out.Error = r.Err.Error()
	}
	return json.Marshal(out)
}

// SetAppTheme asks the host to restyle win. A host failure is captured in the
// result and never returned or raised.
func SetAppTheme(win Window, name string) ThemeResult {
	theme := ParseTheme(name)
	if win == nil {
		return ThemeResult{Theme: theme, Err: ErrNoWindow}
	}
	return ThemeResult{Theme: theme, Err: win.SetTheme(theme)}
}
