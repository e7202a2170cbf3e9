package timerwindow

import (
	"context"
	"image/color"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/data/validation"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"teatimer/internal/ui/animation"
)

var remainingColor = color.NRGBA{R: 196, G: 120, B: 54, A: 255}

// byteField accepts an empty field or a whole number from 0 to 255.
const byteField = `^(|[01]?\d{1,2}|2[0-4]\d|25[0-5])$`

// Window is the main timer window: two duration fields, the remaining time
// and the single action button.
type Window struct {
	window    fyne.Window
	presenter *Presenter
	minutes   *widget.Entry
	seconds   *widget.Entry
	remaining *canvas.Text
	action    *widget.Button
	flasher   *animation.Engine
	flashing  bool
}

// New builds the timer window. Closing it only hides it; the app keeps
// running in the system tray.
func New(app fyne.App, presenter *Presenter) *Window {
	window := app.NewWindow("TeaTimer")
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}

	minutes := newDurationEntry("min")
	seconds := newDurationEntry("sec")

	remaining := canvas.NewText("00:00", remainingColor)
	remaining.Alignment = fyne.TextAlignCenter
	remaining.TextStyle = fyne.TextStyle{Bold: true, Monospace: true}
	remaining.TextSize = 42

	timerWindow := &Window{
		window:    window,
		presenter: presenter,
		minutes:   minutes,
		seconds:   seconds,
		remaining: remaining,
	}
	timerWindow.action = widget.NewButton("Start", timerWindow.PerformExposedCommand)
	timerWindow.action.Importance = widget.HighImportance
	timerWindow.flasher = animation.New(animation.DefaultConfig(), func(visible bool) {
		fyne.Do(func() {
			remaining.Hidden = !visible
			remaining.Refresh()
		})
	})

	inputs := container.NewHBox(
		layout.NewSpacer(),
		minutes, widget.NewLabel(":"), seconds,
		layout.NewSpacer(),
	)
	window.SetContent(container.NewVBox(
		inputs,
		remaining,
		timerWindow.action,
	))
	window.Resize(fyne.NewSize(280, 200))
	window.SetFixedSize(true)
	window.SetCloseIntercept(window.Hide)

	timerWindow.Refresh()
	return timerWindow
}

func newDurationEntry(placeholder string) *widget.Entry {
	entry := widget.NewEntry()
	entry.SetPlaceHolder(placeholder)
	entry.Validator = validation.NewRegexp(byteField, ErrInvalidInput.Error())
	return entry
}

// SetDefaults fills the duration fields.
func (timerWindow *Window) SetDefaults(minutes, seconds uint8) {
	timerWindow.minutes.SetText(strconv.Itoa(int(minutes)))
	timerWindow.seconds.SetText(strconv.Itoa(int(seconds)))
}

// PerformExposedCommand runs whatever the action button currently offers.
func (timerWindow *Window) PerformExposedCommand() {
	if err := timerWindow.presenter.PerformExposedCommand(timerWindow.minutes.Text, timerWindow.seconds.Text); err != nil {
		dialog.ShowError(err, timerWindow.window)
	}
	timerWindow.Refresh()
}

// Refresh redraws the window from the engine. Call it on the UI goroutine.
func (timerWindow *Window) Refresh() {
	view := timerWindow.presenter.View()

	timerWindow.remaining.Text = view.Remaining
	timerWindow.remaining.Refresh()
	timerWindow.action.SetText(view.Action)
	if view.InputsEnabled {
		timerWindow.minutes.Enable()
		timerWindow.seconds.Enable()
	} else {
		timerWindow.minutes.Disable()
		timerWindow.seconds.Disable()
	}

	if view.Flashing == timerWindow.flashing {
		return
	}
	timerWindow.flashing = view.Flashing
	if view.Flashing {
		timerWindow.flasher.Start(context.Background())
		timerWindow.window.RequestFocus()
	} else {
		timerWindow.flasher.Stop()
	}
}

// Show brings the window to the front.
func (timerWindow *Window) Show() {
	timerWindow.window.Show()
	timerWindow.window.RequestFocus()
}

// Close stops flashing. The Fyne window itself is torn down by the app.
func (timerWindow *Window) Close() {
	timerWindow.flasher.Stop()
}
