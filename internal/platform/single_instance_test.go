package platform

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestSecondInstanceRaisesFirst(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	appName := fmt.Sprintf("teatimer-test-%d", time.Now().UnixNano())
	guard, err := AcquireSingleInstance(appName)
	require.NoError(t, err)

	raised := make(chan struct{}, 1)
	guard.Serve(func() {
		raised <- struct{}{}
	})

	_, err = AcquireSingleInstance(appName)
	require.ErrorIs(t, err, ErrAlreadyRunning)

	select {
	case <-raised:
	case <-time.After(time.Second):
		t.Fatal("running instance was not raised")
	}

	require.NoError(t, guard.Release())

	again, err := AcquireSingleInstance(appName)
	require.NoError(t, err)
	assert.Equal(t, guard.Address(), again.Address())
	require.NoError(t, again.Release())
}

func TestPortFromNameIsStable(t *testing.T) {
	first := portFromName("TeaTimer")

	assert.Equal(t, first, portFromName("TeaTimer"))
	assert.GreaterOrEqual(t, first, 20000)
	assert.LessOrEqual(t, first, 39999)
}

func TestNilGuardRelease(t *testing.T) {
	var guard *InstanceGuard

	assert.NoError(t, guard.Release())
	assert.Empty(t, guard.Address())
}
