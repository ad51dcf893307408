// Package retry implements the recovery supervisor: bounded re-attempt of a
// remote-UI action when it fails with a recognized transient signature (an
// overlay obscuring the click target, an element going stale because the page
// replaced the DOM). Anything not recognized as transient propagates
// unchanged; the supervisor must never mask a genuine failure as flakiness.
package retry

import (
	"context"
	"errors"
	"fmt"

	"github.com/cenkalti/backoff/v4"

	"github.com/bgwire/bgwire/internal/browser"
)

// DefaultMaxAttempts bounds consecutive transient failures of one action.
const DefaultMaxAttempts = 3

// Policy maps transient failure signatures to a recovery routine and a retry
// bound. Policies are stateless configuration.
type Policy struct {
	// MaxAttempts is the total number of action invocations allowed.
	// Zero means DefaultMaxAttempts.
	MaxAttempts int
	// Transient reports whether an error qualifies for automatic
	// recovery. Nil means Transient. The transient set is remote-UI
	// version specific, so it stays a function rather than a fixed enum.
	Transient func(error) bool
	// Recover removes the obstruction (e.g. dismisses an open dialog)
	// before the action is re-attempted. The routine is expected to
	// confirm the obstruction is gone before returning, typically via the
	// condition poller, so the retried action does not race it. Nil means
	// retry without recovery.
	Recover func(ctx context.Context) error
}

// Transient is the default signature set: obscured click targets and stale
// element handles.
func Transient(err error) bool {
	return errors.Is(err, browser.ErrObscured) || errors.Is(err, browser.ErrStaleElement)
}

// ExhaustedError reports an action that kept failing with transient errors
// for the full attempt budget.
type ExhaustedError struct {
	Attempts int
	Cause    error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("action failed after %d attempts: %v", e.Attempts, e.Cause)
}

func (e *ExhaustedError) Unwrap() error {
	return e.Cause
}

// Perform executes action, recovering and re-attempting on transient
// failures up to the policy's attempt budget.
func Perform(ctx context.Context, action func(ctx context.Context) error, policy Policy) error {
	maxAttempts := policy.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	transient := policy.Transient
	if transient == nil {
		transient = Transient
	}

	attempt := 0
	permanent := false
	operation := func() error {
		if err := ctx.Err(); err != nil {
			permanent = true
			return backoff.Permanent(err)
		}
		attempt++
		err := action(ctx)
		if err == nil {
			return nil
		}
		if !transient(err) {
			permanent = true
			return backoff.Permanent(err)
		}
		// No point clearing the obstruction when the budget is spent.
		if attempt < maxAttempts && policy.Recover != nil {
			if rerr := policy.Recover(ctx); rerr != nil {
				permanent = true
				return backoff.Permanent(fmt.Errorf("recovering from transient failure (%v): %w", err, rerr))
			}
		}
		return err
	}

	bo := backoff.WithMaxRetries(&backoff.ZeroBackOff{}, uint64(maxAttempts-1))
	err := backoff.Retry(operation, bo)
	if err == nil {
		return nil
	}
	if permanent {
		return err
	}
	return &ExhaustedError{Attempts: maxAttempts, Cause: err}
}
