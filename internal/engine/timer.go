package engine

import (
	"sync"
	"time"
)

// timerHandle is an opaque cancellable handle; cancellation is infallible
// and idempotent, as required of every timer the engine arms.
type timerHandle struct {
	mu     sync.Mutex
	timer  *time.Timer
	ticker *time.Ticker
	done   chan struct{}
}

// timerService provides single-shot and periodic timers on top of the
// standard library's time.Timer/time.Ticker, wrapped so callers never touch
// a raw channel and cancellation can never panic or double-close.
type timerService struct{}

func newTimerService() *timerService { return &timerService{} }

// schedule arms a single-shot timer; callback runs on its own goroutine when
// the delay elapses, unless cancelled first.
func (s *timerService) schedule(delay time.Duration, callback func()) *timerHandle {
	h := &timerHandle{done: make(chan struct{})}
	h.timer = time.AfterFunc(delay, func() {
		select {
		case <-h.done:
			return
		default:
			callback()
		}
	})
	return h
}

// scheduleInterval arms a periodic timer; callback runs once per tick until
// cancelled.
func (s *timerService) scheduleInterval(period time.Duration, callback func()) *timerHandle {
	h := &timerHandle{done: make(chan struct{}), ticker: time.NewTicker(period)}
	go func() {
		for {
			select {
			case <-h.done:
				return
			case <-h.ticker.C:
				callback()
			}
		}
	}()
	return h
}

// cancel stops the handle. It is infallible and idempotent: calling it more
// than once, or on a nil handle, is a no-op.
func (s *timerService) cancel(h *timerHandle) {
	if h == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	select {
	case <-h.done:
		return // already cancelled
	default:
		close(h.done)
	}
	if h.timer != nil {
		h.timer.Stop()
	}
	if h.ticker != nil {
		h.ticker.Stop()
	}
}
