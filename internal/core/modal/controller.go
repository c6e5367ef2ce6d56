package modal

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/colonyops/extguard/internal/core/logging"
)

// State is a read-only snapshot of the dialog slot.
type State struct {
	IsOpen  bool
	Config  Config
	Pending bool
}

// Subscriber is notified after every change to the dialog slot.
type Subscriber func(State)

// Controller owns the single dialog slot of an application session.
//
// Callers usually block on an Outcome from another goroutine while the
// rendering layer drives HandleConfirm and HandleCancel, so every method is
// safe for concurrent use. Subscribers run outside the lock.
type Controller struct {
	mu      sync.Mutex
	isOpen  bool
	config  Config
	pending *Outcome

	subMu  sync.Mutex
	subs   map[int]Subscriber
	nextID int

	log zerolog.Logger
}

// New creates a controller with a closed dialog and default configuration.
func New() *Controller {
	return &Controller{
		config: DefaultConfig(),
		subs:   make(map[int]Subscriber),
		log:    logging.Component("modal"),
	}
}

// Subscribe registers fn for change notifications and returns a function
// that removes it.
func (c *Controller) Subscribe(fn Subscriber) func() {
	c.subMu.Lock()
	id := c.nextID
	c.nextID++
	c.subs[id] = fn
	c.subMu.Unlock()

	return func() {
		c.subMu.Lock()
		delete(c.subs, id)
		c.subMu.Unlock()
	}
}

// State returns a snapshot of the slot.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

// IsOpen reports whether a dialog is presented.
func (c *Controller) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isOpen
}

// Config returns the current dialog configuration.
func (c *Controller) Config() Config {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.config
}

// Confirm presents a dialog built from DefaultConfig and opts and returns its
// outcome. A request still pending is settled with ErrSuperseded first.
func (c *Controller) Confirm(opts ...Option) *Outcome {
	cfg := Build(opts...)
	out := newOutcome()

	c.mu.Lock()
	prev := c.pending
	c.config = cfg
	c.isOpen = true
	c.pending = out
	st := c.stateLocked()
	c.mu.Unlock()

	if prev != nil {
		c.log.Debug().Str("title", cfg.Title).Msg("superseding pending dialog")
		prev.reject(ErrSuperseded)
	}

	c.notify(st)
	return out
}

// Success presents an acknowledgement-only dialog for a completed action.
func (c *Controller) Success(message string, opts ...Option) *Outcome {
	base := []Option{
		WithTitle(SuccessTitle),
		WithMessage(message),
		WithVariant(VariantSuccess),
		WithHideCancel(true),
	}
	return c.Confirm(append(base, opts...)...)
}

// Error presents an acknowledgement-only dialog for a failed action.
func (c *Controller) Error(message string, opts ...Option) *Outcome {
	base := []Option{
		WithTitle(ErrorTitle),
		WithMessage(message),
		WithVariant(VariantDanger),
		WithHideCancel(true),
	}
	return c.Confirm(append(base, opts...)...)
}

// DeleteConfirm asks the user to approve a deletion. An empty message falls
// back to DefaultDeleteMessage.
func (c *Controller) DeleteConfirm(message string) *Outcome {
	if message == "" {
		message = DefaultDeleteMessage
	}
	return c.Confirm(
		WithTitle(DeleteTitle),
		WithMessage(message),
		WithConfirmText(DeleteConfirmText),
		WithCancelText(DefaultCancelText),
		WithVariant(VariantDanger),
	)
}

// HandleConfirm settles the pending outcome as confirmed and closes the dialog.
func (c *Controller) HandleConfirm() {
	c.settle(func(o *Outcome) { o.resolve() })
}

// HandleCancel settles the pending outcome with ErrCancelled and closes the
// dialog.
func (c *Controller) HandleCancel() {
	c.settle(func(o *Outcome) { o.reject(ErrCancelled) })
}

func (c *Controller) settle(fn func(*Outcome)) {
	c.mu.Lock()
	out := c.pending
	c.pending = nil
	changed := c.closeLocked()
	st := c.stateLocked()
	c.mu.Unlock()

	if out != nil {
		fn(out)
		changed = true
	}
	if changed {
		c.notify(st)
	}
}

// Close hides the dialog without settling the pending outcome. A later
// HandleConfirm or HandleCancel still settles it, and the next request
// supersedes it.
func (c *Controller) Close() {
	c.mu.Lock()
	changed := c.closeLocked()
	st := c.stateLocked()
	c.mu.Unlock()

	if changed {
		c.notify(st)
	}
}

// SetLoading toggles the loading flag of the current dialog.
func (c *Controller) SetLoading(loading bool) {
	c.mu.Lock()
	if c.config.IsLoading == loading {
		c.mu.Unlock()
		return
	}
	c.config.IsLoading = loading
	st := c.stateLocked()
	c.mu.Unlock()

	c.notify(st)
}

func (c *Controller) closeLocked() bool {
	changed := c.isOpen || c.config.IsLoading
	c.isOpen = false
	c.config.IsLoading = false
	return changed
}

func (c *Controller) stateLocked() State {
	return State{
		IsOpen:  c.isOpen,
		Config:  c.config,
		Pending: c.pending != nil,
	}
}

func (c *Controller) notify(st State) {
	c.subMu.Lock()
	subs := make([]Subscriber, 0, len(c.subs))
	for _, fn := range c.subs {
		subs = append(subs, fn)
	}
	c.subMu.Unlock()

	for _, fn := range subs {
		fn(st)
	}
}
