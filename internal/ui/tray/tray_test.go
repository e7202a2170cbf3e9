package tray

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMenuLabelsFollowStatus(t *testing.T) {
	manager := New(nil, Callbacks{})

	menu := manager.Menu()
	require.Len(t, menu.Items, 6)
	assert.Equal(t, "Status: Inactive 00:00", menu.Items[0].Label)
	assert.Equal(t, "Start", menu.Items[2].Label)

	manager.SetStatus(Status{State: "Active", Remaining: "02:59", Action: "Stop"})

	menu = manager.Menu()
	assert.Equal(t, "Status: Active 02:59", menu.Items[0].Label)
	assert.Equal(t, "Stop", menu.Items[2].Label)
	assert.True(t, menu.Items[0].Disabled)
}

func TestMenuActionsInvokeCallbacks(t *testing.T) {
	var shown, performed, prefs, quit int
	manager := New(nil, Callbacks{
		OnShowTimer:   func() { shown++ },
		OnPerform:     func() { performed++ },
		OnPreferences: func() { prefs++ },
		OnQuit:        func() { quit++ },
	})

	menu := manager.Menu()
	menu.Items[1].Action()
	menu.Items[2].Action()
	menu.Items[4].Action()
	menu.Items[5].Action()

	assert.Equal(t, []int{1, 1, 1, 1}, []int{shown, performed, prefs, quit})
}

func TestMissingCallbacksAreIgnored(t *testing.T) {
	manager := New(nil, Callbacks{})

	assert.NotPanics(t, func() {
		for _, item := range manager.Menu().Items {
			if item.Action != nil {
				item.Action()
			}
		}
	})
}
