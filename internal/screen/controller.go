// Package screen implements the load/submit lifecycle shared by every view.
//
//	loading --(fetch ok)--> ready
//	loading --(fetch fail)--> error
//	error --(retry)--> loading
//	ready --(submit)--> submitting
//	submitting --(ok)--> ready (data updated)
//	submitting --(fail)--> ready (data unchanged, notice set)
package screen

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

type State int

const (
	Loading State = iota
	Ready
	Error
	Submitting
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Error:
		return "error"
	case Submitting:
		return "submitting"
	default:
		return "unknown"
	}
}

var (
	// ErrSubmitting is returned when a submission is already in flight
	ErrSubmitting = errors.New("a submission is already in progress")
	// ErrNotReady is returned when submitting before the screen has loaded
	ErrNotReady = errors.New("screen is not ready")
	// ErrUnmounted is returned when the screen has been torn down
	ErrUnmounted = errors.New("screen is no longer mounted")
	// ErrStale is returned when a result arrives after the screen moved on
	ErrStale = errors.New("result discarded, screen has moved on")
)

// Ticket identifies one asynchronous operation. Resolutions carrying a ticket
// from another controller, an older mount or an older request are ignored.
type Ticket struct {
	owner uint64
	mount uint64
	seq   uint64
}

var controllerIDs atomic.Uint64

// Controller tracks the state of one screen holding data of type T.
// It is safe for concurrent use.
type Controller[T any] struct {
	mu        sync.Mutex
	id        uint64
	state     State
	data      T
	hasData   bool
	err       error
	notice    error
	mount     uint64
	loadSeq   uint64
	submitSeq uint64
	unmounted bool
}

// New returns a controller waiting for its first load
func New[T any]() *Controller[T] {
	return &Controller[T]{id: controllerIDs.Add(1), state: Loading, mount: 1}
}

// NewReady returns a controller that starts ready with the given data, for
// screens such as forms that have nothing to fetch.
func NewReady[T any](data T) *Controller[T] {
	return &Controller[T]{id: controllerIDs.Add(1), state: Ready, data: data, hasData: true, mount: 1}
}

func (c *Controller[T]) beginLoad() (Ticket, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case c.unmounted:
		return Ticket{}, ErrUnmounted
	case c.state == Submitting:
		return Ticket{}, ErrSubmitting
	}
	c.loadSeq++
	c.state = Loading
	c.err = nil
	c.notice = nil
	return Ticket{owner: c.id, mount: c.mount, seq: c.loadSeq}, nil
}

// BeginLoad moves the screen to Loading and returns the ticket to resolve it
// with. It returns false and leaves the screen alone while a submission is in
// flight or after unmount.
func (c *Controller[T]) BeginLoad() (Ticket, bool) {
	t, err := c.beginLoad()
	return t, err == nil
}

// ResolveLoad applies the outcome of a fetch. It returns false and changes
// nothing when the ticket is stale or the screen was unmounted.
func (c *Controller[T]) ResolveLoad(t Ticket, data T, err error) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.unmounted || t.owner != c.id || t.mount != c.mount || t.seq != c.loadSeq || c.state != Loading {
		return false
	}
	if err != nil {
		c.state = Error
		c.err = err
		return true
	}
	c.state = Ready
	c.data = data
	c.hasData = true
	c.err = nil
	return true
}

func (c *Controller[T]) beginSubmit() (Ticket, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case c.unmounted:
		return Ticket{}, ErrUnmounted
	case c.state == Submitting:
		return Ticket{}, ErrSubmitting
	case c.state != Ready:
		return Ticket{}, ErrNotReady
	}
	c.submitSeq++
	c.state = Submitting
	c.notice = nil
	return Ticket{owner: c.id, mount: c.mount, seq: c.submitSeq}, nil
}

// BeginSubmit gates a submission. It returns false while another submission is
// in flight or the screen is not ready.
func (c *Controller[T]) BeginSubmit() (Ticket, bool) {
	t, err := c.beginSubmit()
	return t, err == nil
}

// SettleSubmit returns the screen to Ready. On success a non-nil data replaces
// the current data; on failure the data is kept and err becomes the notice.
func (c *Controller[T]) SettleSubmit(t Ticket, data *T, err error) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.unmounted || t.owner != c.id || t.mount != c.mount || t.seq != c.submitSeq || c.state != Submitting {
		return false
	}
	c.state = Ready
	if err != nil {
		c.notice = err
		return true
	}
	if data != nil {
		c.data = *data
		c.hasData = true
	}
	return true
}

// Unmount makes every outstanding ticket stale
func (c *Controller[T]) Unmount() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.unmounted = true
	c.mount++
}

// Mount starts a new mount. The screen goes back to Loading and keeps no data.
func (c *Controller[T]) Mount() {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	c.unmounted = false
	c.mount++
	c.state = Loading
	c.data = zero
	c.hasData = false
	c.err = nil
	c.notice = nil
}

// Reset puts a form-style screen back to Ready with the given data. It does
// nothing while a submission is in flight.
func (c *Controller[T]) Reset(data T) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == Submitting {
		return false
	}
	c.state = Ready
	c.data = data
	c.hasData = true
	c.notice = nil
	return true
}

func (c *Controller[T]) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Data returns the current data and whether any has been loaded
func (c *Controller[T]) Data() (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data, c.hasData
}

// Err returns the load error while in the Error state
func (c *Controller[T]) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Notice returns the error of the last failed submission, if any
func (c *Controller[T]) Notice() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.notice
}

func (c *Controller[T]) DismissNotice() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notice = nil
}

// Load runs a full fetch cycle synchronously. The fetch is not called while a
// submission is in flight.
func (c *Controller[T]) Load(ctx context.Context, fetch func(context.Context) (T, error)) error {
	t, err := c.beginLoad()
	if err != nil {
		return err
	}
	data, err := fetch(ctx)
	if !c.ResolveLoad(t, data, err) {
		return ErrStale
	}
	return err
}

// Submit runs a full submission cycle synchronously. The action is not called
// when the gate is closed.
func (c *Controller[T]) Submit(ctx context.Context, action func(context.Context) (*T, error)) error {
	t, err := c.beginSubmit()
	if err != nil {
		return err
	}
	data, err := action(ctx)
	if !c.SettleSubmit(t, data, err) {
		return ErrStale
	}
	return err
}
