package tray

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
)

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnShowTimer   func()
	OnPerform     func()
	OnPreferences func()
	OnQuit        func()
}

// Status is what the tray shows about the timer.
type Status struct {
	State     string
	Remaining string
	Action    string
}

// Manager handles system tray state.
type Manager struct {
	app        desktop.App
	callbacks  Callbacks
	statusItem *fyne.MenuItem
	actionItem *fyne.MenuItem
	status     Status
}

// New creates a tray manager with the provided callbacks.
func New(app desktop.App, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:       app,
		callbacks: callbacks,
		status:    Status{State: "Inactive", Remaining: "00:00", Action: "Start"},
	}

	manager.statusItem = fyne.NewMenuItem("", nil)
	manager.statusItem.Disabled = true
	manager.actionItem = fyne.NewMenuItem("", func() {
		call(manager.callbacks.OnPerform)
	})

	manager.refreshLabels()
	manager.refreshMenu()
	return manager
}

// SetStatus updates the status line and the action item label.
func (manager *Manager) SetStatus(status Status) {
	if status == manager.status {
		return
	}
	manager.status = status
	manager.refreshLabels()
	manager.refreshMenu()
}

// Menu returns the tray menu as currently shown.
func (manager *Manager) Menu() *fyne.Menu {
	return fyne.NewMenu("TeaTimer",
		manager.statusItem,
		fyne.NewMenuItem("Show timer", func() {
			call(manager.callbacks.OnShowTimer)
		}),
		manager.actionItem,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Preferences", func() {
			call(manager.callbacks.OnPreferences)
		}),
		fyne.NewMenuItem("Quit", func() {
			call(manager.callbacks.OnQuit)
		}),
	)
}

func (manager *Manager) refreshLabels() {
	manager.statusItem.Label = statusLabel(manager.status)
	manager.actionItem.Label = manager.status.Action
}

func (manager *Manager) refreshMenu() {
	if manager.app != nil {
		manager.app.SetSystemTrayMenu(manager.Menu())
	}
}

func statusLabel(status Status) string {
	return fmt.Sprintf("Status: %s %s", status.State, status.Remaining)
}

func call(callback func()) {
	if callback != nil {
		callback()
	}
}
