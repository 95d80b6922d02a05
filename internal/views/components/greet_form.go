package components

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// GreetForm collects a name and a theme choice from the user.
type GreetForm struct {
	container   *fyne.Container
	NameEntry   *widget.Entry
	GreetButton *widget.Button
	ThemeGroup  *widget.RadioGroup
	Output      *widget.Label

	greetHandler func(name string)
	themeHandler func(theme string)
	syncing      bool
}

// ThemeOptions are the choices offered in the theme selector.
var ThemeOptions = []string{"system", "light", "dark"}

func NewGreetForm() *GreetForm {
	f := &GreetForm{}

	f.NameEntry = widget.NewEntry()
	f.NameEntry.SetPlaceHolder("Enter a name...")
	f.NameEntry.OnSubmitted = func(string) { f.submit() }

	f.GreetButton = widget.NewButton("Greet", f.submit)
	f.Output = widget.NewLabel("")
	f.Output.Wrapping = fyne.TextWrapWord

	f.ThemeGroup = widget.NewRadioGroup(ThemeOptions, func(selected string) {
		if f.themeHandler != nil && selected != "" && !f.syncing {
			f.themeHandler(selected)
		}
	})
	f.ThemeGroup.Horizontal = true

	f.container = container.NewVBox(
		container.NewBorder(nil, nil, nil, f.GreetButton, f.NameEntry),
		f.Output,
		widget.NewSeparator(),
		widget.NewLabel("Theme"),
		f.ThemeGroup,
	)
	return f
}

func (f *GreetForm) submit() {
	if f.greetHandler != nil {
		f.greetHandler(f.NameEntry.Text)
	}
}

func (f *GreetForm) SetGreetHandler(handler func(name string)) {
	f.greetHandler = handler
}

func (f *GreetForm) SetThemeHandler(handler func(theme string)) {
	f.themeHandler = handler
}

// SetThemeSelection moves the theme radio to name without calling the theme
// handler. Unknown names clear the selection.
func (f *GreetForm) SetThemeSelection(name string) {
	f.syncing = true
	defer func() { f.syncing = false }()
	f.ThemeGroup.SetSelected(name)
}

func (f *GreetForm) GetContainer() *fyne.Container {
	return f.container
}
