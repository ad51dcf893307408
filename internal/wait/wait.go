// Package wait provides the condition poller: the single synchronization
// primitive between the engine and the remote single-page UI. After nearly
// every navigation or form action the page is in a transitional state for an
// unbounded but practically small time; a fixed-interval poll with a generous
// per-wait deadline is the simplest correct way to wait it out without
// cooperation from the remote system.
package wait

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/bgwire/bgwire/internal/browser"
)

// Defaults for general element-state waits. Fast-fail probes pass shorter
// values explicitly.
const (
	DefaultTimeout      = 20 * time.Second
	DefaultPollInterval = 500 * time.Millisecond
)

// Kind classifies what a condition is waiting for; it selects the timeout
// error reported to the operator.
type Kind int

const (
	Presence Kind = iota
	Visibility
	Binding
)

func (k Kind) String() string {
	switch k {
	case Presence:
		return "presence"
	case Visibility:
		return "visibility"
	case Binding:
		return "view binding"
	}
	return "condition"
}

// Condition is a predicate over the remote session state plus its polling
// parameters. Conditions are stateless; construct a fresh one per wait.
type Condition struct {
	Kind         Kind
	Desc         string
	Probe        func(ctx context.Context) (bool, error)
	Timeout      time.Duration
	PollInterval time.Duration
}

// TimeoutError reports a condition that was never satisfied within its
// deadline. It is never retried automatically; the caller decides.
type TimeoutError struct {
	Kind    Kind
	Desc    string
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timed out after %s waiting for %s of %s", e.Timeout, e.Kind, e.Desc)
}

var errNotMet = errors.New("condition not yet met")

// Await evaluates the condition's probe at the poll interval until it returns
// true or the deadline passes. A recoverable inspection error from the probe
// (the DOM mutating under the check) counts as "not yet"; a terminal session
// error under a presence check propagates immediately.
func Await(ctx context.Context, cond Condition) error {
	timeout := cond.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	interval := cond.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	probe := func() error {
		if waitCtx.Err() != nil {
			return backoff.Permanent(waitCtx.Err())
		}
		ok, err := cond.Probe(waitCtx)
		if err != nil {
			if cond.Kind == Presence && errors.Is(err, browser.ErrSession) && waitCtx.Err() == nil {
				return backoff.Permanent(err)
			}
			return errNotMet
		}
		if !ok {
			return errNotMet
		}
		return nil
	}

	bo := backoff.WithContext(backoff.NewConstantBackOff(interval), waitCtx)
	err := backoff.Retry(probe, bo)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, errNotMet), errors.Is(err, context.DeadlineExceeded):
		return &TimeoutError{Kind: cond.Kind, Desc: cond.Desc, Timeout: timeout}
	default:
		return err
	}
}

// ElementPresent waits for at least one element matching sel to exist.
func ElementPresent(sess *browser.Session, sel browser.Selector) Condition {
	return Condition{
		Kind: Presence,
		Desc: sel.String(),
		Probe: func(ctx context.Context) (bool, error) {
			return sess.Present(ctx, sel)
		},
	}
}

// ElementAbsent waits for no element to match sel.
func ElementAbsent(sess *browser.Session, sel browser.Selector) Condition {
	return Condition{
		Kind: Presence,
		Desc: "absence of " + sel.String(),
		Probe: func(ctx context.Context) (bool, error) {
			present, err := sess.Present(ctx, sel)
			return !present, err
		},
	}
}

// ElementVisible waits for any element matching sel to be visible.
func ElementVisible(sess *browser.Session, sel browser.Selector) Condition {
	return Condition{
		Kind: Visibility,
		Desc: sel.String(),
		Probe: func(ctx context.Context) (bool, error) {
			return sess.AnyVisible(ctx, sel)
		},
	}
}

// ElementInvisible waits for no element matching sel to be visible. A
// selector with no matches at all satisfies the condition.
func ElementInvisible(sess *browser.Session, sel browser.Selector) Condition {
	return Condition{
		Kind: Visibility,
		Desc: "invisibility of " + sel.String(),
		Probe: func(ctx context.Context) (bool, error) {
			visible, err := sess.AnyVisible(ctx, sel)
			return !visible, err
		},
	}
}
