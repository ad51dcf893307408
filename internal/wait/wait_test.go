package wait

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bgwire/bgwire/internal/browser"
)

func TestAwaitSucceedsOnLaterPoll(t *testing.T) {
	polls := 0
	err := Await(context.Background(), Condition{
		Kind: Presence,
		Desc: "test element",
		Probe: func(ctx context.Context) (bool, error) {
			polls++
			return polls >= 3, nil
		},
		Timeout:      2 * time.Second,
		PollInterval: 10 * time.Millisecond,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, polls)
}

func TestAwaitTimesOut(t *testing.T) {
	err := Await(context.Background(), Condition{
		Kind:         Visibility,
		Desc:         "spinner",
		Probe:        func(ctx context.Context) (bool, error) { return false, nil },
		Timeout:      50 * time.Millisecond,
		PollInterval: 5 * time.Millisecond,
	})
	var timeout *TimeoutError
	require.ErrorAs(t, err, &timeout)
	assert.Equal(t, Visibility, timeout.Kind)
	assert.Equal(t, "spinner", timeout.Desc)
	assert.Contains(t, err.Error(), "visibility of spinner")
}

func TestAwaitTreatsInspectionErrorsAsNotYet(t *testing.T) {
	// The DOM mutating under the probe is routine; it must not abort the
	// wait when the condition comes true on a later poll.
	polls := 0
	err := Await(context.Background(), Condition{
		Kind: Visibility,
		Desc: "form",
		Probe: func(ctx context.Context) (bool, error) {
			polls++
			if polls < 3 {
				return false, fmt.Errorf("checking: %w", browser.ErrStaleElement)
			}
			return true, nil
		},
		Timeout:      2 * time.Second,
		PollInterval: 5 * time.Millisecond,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, polls)
}

func TestAwaitPropagatesSessionErrorOnPresenceCheck(t *testing.T) {
	// A dead session cannot recover within the deadline; waiting it out
	// would only delay the report.
	probeErr := fmt.Errorf("%w: connection refused", browser.ErrSession)
	start := time.Now()
	err := Await(context.Background(), Condition{
		Kind:         Presence,
		Desc:         "anything",
		Probe:        func(ctx context.Context) (bool, error) { return false, probeErr },
		Timeout:      5 * time.Second,
		PollInterval: 5 * time.Millisecond,
	})
	require.ErrorIs(t, err, browser.ErrSession)
	assert.Less(t, time.Since(start), time.Second)
}

func TestAwaitHonorsCallerCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Await(ctx, Condition{
		Kind:         Presence,
		Desc:         "anything",
		Probe:        func(ctx context.Context) (bool, error) { return false, nil },
		Timeout:      5 * time.Second,
		PollInterval: 5 * time.Millisecond,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled) || errors.As(err, new(*TimeoutError)))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "presence", Presence.String())
	assert.Equal(t, "visibility", Visibility.String())
	assert.Equal(t, "view binding", Binding.String())
	assert.Equal(t, "condition", Kind(99).String())
}
