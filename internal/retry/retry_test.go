package retry

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bgwire/bgwire/internal/browser"
)

func TestPerformRecoversFromTransientFailures(t *testing.T) {
	attempts := 0
	recoveries := 0
	err := Perform(context.Background(), func(ctx context.Context) error {
		attempts++
		if attempts <= 2 {
			return fmt.Errorf("clicking: %w", browser.ErrObscured)
		}
		return nil
	}, Policy{
		Recover: func(ctx context.Context) error {
			recoveries++
			return nil
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, 2, recoveries)
}

func TestPerformPropagatesNonTransientImmediately(t *testing.T) {
	cause := errors.New("wrong password")
	attempts := 0
	recoveries := 0
	err := Perform(context.Background(), func(ctx context.Context) error {
		attempts++
		return cause
	}, Policy{
		Recover: func(ctx context.Context) error {
			recoveries++
			return nil
		},
	})
	require.ErrorIs(t, err, cause)
	assert.Equal(t, 1, attempts)
	assert.Zero(t, recoveries, "recovery must not run for non-transient failures")
	var exhausted *ExhaustedError
	assert.False(t, errors.As(err, &exhausted))
}

func TestPerformExhaustsAttemptBudget(t *testing.T) {
	attempts := 0
	recoveries := 0
	err := Perform(context.Background(), func(ctx context.Context) error {
		attempts++
		return browser.ErrStaleElement
	}, Policy{
		Recover: func(ctx context.Context) error {
			recoveries++
			return nil
		},
	})
	var exhausted *ExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, DefaultMaxAttempts, exhausted.Attempts)
	require.ErrorIs(t, err, browser.ErrStaleElement)
	assert.Equal(t, DefaultMaxAttempts, attempts)
	// Recovery after the final attempt would be wasted work.
	assert.Equal(t, DefaultMaxAttempts-1, recoveries)
}

func TestPerformFailedRecoveryAborts(t *testing.T) {
	recoverErr := errors.New("dialog would not close")
	attempts := 0
	err := Perform(context.Background(), func(ctx context.Context) error {
		attempts++
		return browser.ErrObscured
	}, Policy{
		Recover: func(ctx context.Context) error { return recoverErr },
	})
	require.ErrorIs(t, err, recoverErr)
	assert.Equal(t, 1, attempts)
}

func TestPerformHonorsCustomTransientSet(t *testing.T) {
	special := errors.New("tab not ready")
	attempts := 0
	err := Perform(context.Background(), func(ctx context.Context) error {
		attempts++
		if attempts == 1 {
			return special
		}
		return nil
	}, Policy{
		Transient: func(err error) bool { return errors.Is(err, special) },
	})
	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
}

func TestPerformStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	attempts := 0
	err := Perform(ctx, func(ctx context.Context) error {
		attempts++
		return nil
	}, Policy{})
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, attempts)
}

func TestTransientSignatures(t *testing.T) {
	assert.True(t, Transient(fmt.Errorf("a: %w", browser.ErrObscured)))
	assert.True(t, Transient(browser.ErrStaleElement))
	assert.False(t, Transient(browser.ErrSession))
	assert.False(t, Transient(errors.New("anything else")))
}
