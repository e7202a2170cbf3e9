package platform

import (
	"errors"
	"fmt"
	"hash/fnv"
	"net"
	"sync"
	"time"
)

// ErrAlreadyRunning indicates another instance already holds the lock.
var ErrAlreadyRunning = errors.New("instance already running")

const raiseDialTimeout = 500 * time.Millisecond

// InstanceGuard holds the single-instance lock. Later launches connect to
// the guard to ask the running instance to show itself.
type InstanceGuard struct {
	listener net.Listener
	address  string
	wg       sync.WaitGroup
}

// AcquireSingleInstance binds a deterministic localhost port derived from
// appName. When the port is taken, the running instance is asked to raise
// its window and ErrAlreadyRunning is returned.
func AcquireSingleInstance(appName string) (*InstanceGuard, error) {
	address := fmt.Sprintf("127.0.0.1:%d", portFromName(appName))
	listener, err := net.Listen("tcp", address)
	if err != nil {
		if conn, dialErr := net.DialTimeout("tcp", address, raiseDialTimeout); dialErr == nil {
			_ = conn.Close()
		}
		return nil, ErrAlreadyRunning
	}
	return &InstanceGuard{listener: listener, address: address}, nil
}

// Serve calls onRaise for every later launch until the guard is released.
func (guard *InstanceGuard) Serve(onRaise func()) {
	guard.wg.Add(1)
	go func() {
		defer guard.wg.Done()
		for {
			conn, err := guard.listener.Accept()
			if err != nil {
				return
			}
			_ = conn.Close()
			if onRaise != nil {
				onRaise()
			}
		}
	}()
}

// Release frees the single instance lock.
func (guard *InstanceGuard) Release() error {
	if guard == nil || guard.listener == nil {
		return nil
	}
	err := guard.listener.Close()
	guard.wg.Wait()
	return err
}

// Address returns the bound address.
func (guard *InstanceGuard) Address() string {
	if guard == nil {
		return ""
	}
	return guard.address
}

func portFromName(appName string) int {
	const (
		minPort = 20000
		maxPort = 39999
	)
	hash := fnv.New32a()
	_, _ = hash.Write([]byte(appName))
	rangeSize := maxPort - minPort + 1
	return minPort + int(hash.Sum32()%uint32(rangeSize))
}
