package preferences

import (
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

const (
	maxMinutes = 255
	maxSeconds = 59
)

// Window handles the preferences UI.
type Window struct {
	window    fyne.Window
	settings  Settings
	onSave    func(Settings)
	minutes   *widget.Entry
	seconds   *widget.Entry
	spoken    *widget.Check
	autostart *widget.Check
	soundsDir *widget.Entry
	separator *widget.Entry
}

// New creates a preferences window.
func New(app fyne.App, settings Settings, onSave func(Settings)) *Window {
	window := app.NewWindow("TeaTimer Settings")

	minutes := widget.NewEntry()
	seconds := widget.NewEntry()
	spoken := widget.NewCheck("Speak the last five seconds", nil)
	autostart := widget.NewCheck("Launch at login", nil)

	soundsDir := widget.NewEntry()
	soundsDir.SetPlaceHolder("default")
	separator := widget.NewEntry()
	separator.SetPlaceHolder("from locale")

	form := container.NewVBox(
		widget.NewLabelWithStyle("Timer", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(widget.NewLabel("Default duration"), minutes, widget.NewLabel("min"), seconds, widget.NewLabel("sec")),
		spoken,
		widget.NewLabelWithStyle("Application", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		autostart,
		container.NewBorder(nil, nil, widget.NewLabel("Sounds folder"), nil, soundsDir),
		container.NewBorder(nil, nil, widget.NewLabel("Time separator"), nil, separator),
	)

	saveButton := widget.NewButton("Save", nil)
	cancelButton := widget.NewButton("Cancel", nil)
	buttons := container.NewHBox(saveButton, layout.NewSpacer(), cancelButton)

	window.SetContent(container.NewBorder(nil, buttons, nil, nil, form))
	window.Resize(fyne.NewSize(420, 300))
	window.SetCloseIntercept(window.Hide)

	prefs := &Window{
		window:    window,
		onSave:    onSave,
		minutes:   minutes,
		seconds:   seconds,
		spoken:    spoken,
		autostart: autostart,
		soundsDir: soundsDir,
		separator: separator,
	}
	prefs.UpdateSettings(settings)

	saveButton.OnTapped = prefs.handleSave
	cancelButton.OnTapped = func() {
		prefs.UpdateSettings(prefs.settings)
		window.Hide()
	}

	return prefs
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// UpdateSettings replaces window values.
func (prefs *Window) UpdateSettings(settings Settings) {
	prefs.settings = settings
	prefs.minutes.SetText(strconv.Itoa(int(settings.DefaultMinutes)))
	prefs.seconds.SetText(strconv.Itoa(int(settings.DefaultSeconds)))
	prefs.spoken.SetChecked(settings.SpokenCountdown)
	prefs.autostart.SetChecked(settings.LaunchAtLogin)
	prefs.soundsDir.SetText(settings.SoundsDir)
	prefs.separator.SetText(settings.TimeSeparator)
}

func (prefs *Window) handleSave() {
	settings := prefs.settings

	if minutes, ok := parseUint8(prefs.minutes.Text, maxMinutes); ok {
		settings.DefaultMinutes = minutes
	}
	if seconds, ok := parseUint8(prefs.seconds.Text, maxSeconds); ok {
		settings.DefaultSeconds = seconds
	}
	settings.SpokenCountdown = prefs.spoken.Checked
	settings.LaunchAtLogin = prefs.autostart.Checked
	settings.SoundsDir = strings.TrimSpace(prefs.soundsDir.Text)
	settings.TimeSeparator = prefs.separator.Text

	prefs.settings = settings
	if prefs.onSave != nil {
		prefs.onSave(settings)
	}
	prefs.window.Hide()
}

func parseUint8(value string, limit int) (uint8, bool) {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || parsed < 0 || parsed > limit {
		return 0, false
	}
	return uint8(parsed), true
}
