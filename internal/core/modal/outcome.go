package modal

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrCancelled is the result of a dialog the user declined or dismissed.
	ErrCancelled = errors.New("modal: cancelled by user")

	// ErrSuperseded is the result of a dialog replaced by a newer request
	// before the user answered it. It matches ErrCancelled under errors.Is.
	ErrSuperseded = fmt.Errorf("%w: superseded by a newer dialog", ErrCancelled)
)

// Outcome is the awaitable half of a dialog request. It settles exactly once.
type Outcome struct {
	done      chan struct{}
	once      sync.Once
	confirmed bool
	err       error
}

func newOutcome() *Outcome {
	return &Outcome{done: make(chan struct{})}
}

func (o *Outcome) resolve() {
	o.once.Do(func() {
		o.confirmed = true
		close(o.done)
	})
}

func (o *Outcome) reject(err error) {
	o.once.Do(func() {
		o.err = err
		close(o.done)
	})
}

// Done is closed when the outcome settles.
func (o *Outcome) Done() <-chan struct{} {
	return o.done
}

// Settled reports whether the user (or a newer request) has answered.
func (o *Outcome) Settled() bool {
	select {
	case <-o.done:
		return true
	default:
		return false
	}
}

// Wait blocks until the dialog is answered or ctx is done. It returns
// (true, nil) when confirmed and (false, err) otherwise, where err is
// ErrCancelled, ErrSuperseded or the context error.
func (o *Outcome) Wait(ctx context.Context) (bool, error) {
	select {
	case <-o.done:
		return o.confirmed, o.err
	case <-ctx.Done():
		return false, ctx.Err()
	}
}
