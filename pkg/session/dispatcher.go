package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/holopanel/pkg/view"
)

// DefaultQueueSize is the number of tasks a dispatcher buffers before Post
// blocks.
const DefaultQueueSize = 256

// Dispatcher runs tasks one at a time on a dedicated goroutine. Every scene,
// router and display call of a session goes through its dispatcher, which is
// what makes the single-writer model hold.
type Dispatcher struct {
	tasks  chan func()
	done   chan struct{}
	logger *log.Logger

	mu     sync.RWMutex
	closed bool
}

// NewDispatcher starts a dispatcher with the given queue size.
func NewDispatcher(size int, logger *log.Logger) *Dispatcher {
	if size <= 0 {
		size = DefaultQueueSize
	}
	if logger == nil {
		logger = log.Default()
	}
	d := &Dispatcher{
		tasks:  make(chan func(), size),
		done:   make(chan struct{}),
		logger: logger,
	}
	go d.loop()
	return d
}

func (d *Dispatcher) loop() {
	defer close(d.done)
	for fn := range d.tasks {
		d.run(fn)
	}
}

func (d *Dispatcher) run(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("dispatcher task panicked", "panic", r)
		}
	}()
	fn()
}

// Post queues fn. It returns ErrClosed once Close has been called.
func (d *Dispatcher) Post(fn func()) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return ErrClosed
	}
	d.tasks <- fn
	return nil
}

// Do runs fn on the dispatcher and waits for its result. Waiting stops when
// ctx is done, but fn still runs once it reaches the front of the queue.
func (d *Dispatcher) Do(ctx context.Context, fn func() error) error {
	result := make(chan error, 1)
	err := d.Post(func() {
		defer func() {
			if r := recover(); r != nil {
				result <- fmt.Errorf("task panicked: %v", r)
			}
		}()
		result <- fn()
	})
	if err != nil {
		return err
	}
	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting tasks and waits for queued ones to finish.
// Close must not be called from a task.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.tasks)
	}
	d.mu.Unlock()
	<-d.done
}

// Scheduler returns a view.Scheduler whose callbacks run on this dispatcher.
func (d *Dispatcher) Scheduler() view.Scheduler { return dispatchScheduler{d} }

type dispatchScheduler struct{ d *Dispatcher }

func (s dispatchScheduler) AfterFunc(delay time.Duration, fn func()) view.Timer {
	t := &dispatchTimer{}
	t.timer = time.AfterFunc(delay, func() {
		// Stop runs on the dispatcher too, so the flag is read race free.
		_ = s.d.Post(func() {
			if !t.stopped {
				t.stopped = true
				fn()
			}
		})
	})
	return t
}

// dispatchTimer must only be stopped from the dispatcher.
type dispatchTimer struct {
	timer   *time.Timer
	stopped bool
}

func (t *dispatchTimer) Stop() bool {
	if t.stopped {
		return false
	}
	t.stopped = true
	t.timer.Stop()
	return true
}
