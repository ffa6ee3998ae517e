// Package platform keeps one pomo process per database, so two timers never
// record into the same session history.
package platform

import (
	"errors"
	"fmt"
	"hash/fnv"
	"net"
	"time"
)

// ErrAlreadyRunning means another pomo process holds the lock for the same
// database.
var ErrAlreadyRunning = errors.New("pomo is already running")

const (
	firstPort = 42000
	portSpan  = 8000
)

// Lock is held for as long as its loopback listener stays open. The OS frees
// it when the process exits, even after a crash.
type Lock struct {
	ln   net.Listener
	addr string
}

// AcquireLock takes the lock for key, usually the database path.
func AcquireLock(key string) (*Lock, error) {
	addr := fmt.Sprintf("127.0.0.1:%d", lockPort(key))
	ln, err := net.Listen("tcp", addr)
	if err == nil {
		return &Lock{ln: ln, addr: addr}, nil
	}

	// A port taken by something that accepts connections is treated as a
	// running pomo; anything else is a real error.
	conn, dialErr := net.DialTimeout("tcp", addr, 200*time.Millisecond)
	if dialErr == nil {
		conn.Close()
		return nil, fmt.Errorf("%w (lock %s)", ErrAlreadyRunning, addr)
	}
	return nil, fmt.Errorf("acquire lock %s: %w", addr, err)
}

// Release frees the lock. Calling it more than once is harmless.
func (l *Lock) Release() error {
	if l == nil || l.ln == nil {
		return nil
	}
	err := l.ln.Close()
	l.ln = nil
	return err
}

// Addr is the loopback address backing the lock.
func (l *Lock) Addr() string {
	if l == nil {
		return ""
	}
	return l.addr
}

func lockPort(key string) int {
	h := fnv.New64a()
	h.Write([]byte(key))
	return firstPort + int(h.Sum64()%portSpan)
}
