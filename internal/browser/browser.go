// Package browser abstracts the remote banking UI behind a small driver
// capability: navigate, locate, click, fill, inspect. Two concrete drivers
// are provided, a lightweight headless one speaking the legacy JSON wire
// protocol and a Selenium one speaking the W3C protocol. Everything above
// this package is driver-agnostic.
package browser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Recoverable inspection and interaction failures. The recovery supervisor
// recognizes ErrObscured and ErrStaleElement as transient; the condition
// poller treats ErrNoSuchElement and ErrStaleElement as "not yet".
var (
	ErrNoSuchElement = errors.New("no such element")
	ErrStaleElement  = errors.New("stale element reference")
	ErrNotVisible    = errors.New("element not visible")
	ErrObscured      = errors.New("click target obscured")

	// ErrSession marks a terminal failure of the remote session itself.
	// Never retried, never downgraded.
	ErrSession = errors.New("remote session failure")
)

// Selector locates elements by structure. Using follows the WebDriver
// location strategy names.
type Selector struct {
	Using string
	Value string
}

// CSS builds a CSS selector.
func CSS(value string) Selector {
	return Selector{Using: "css selector", Value: value}
}

// XPath builds an XPath selector.
func XPath(value string) Selector {
	return Selector{Using: "xpath", Value: value}
}

func (s Selector) String() string {
	return fmt.Sprintf("%s %q", s.Using, s.Value)
}

// Driver is the remote-UI capability consumed by the engine.
type Driver interface {
	// Open navigates to the given URL, starting the remote session first
	// if necessary.
	Open(ctx context.Context, url string) error
	// Find returns all elements matching the selector. An empty slice and
	// a nil error means no match.
	Find(ctx context.Context, sel Selector) ([]Element, error)
	// Execute runs a script in the page and returns its JSON result. Used
	// for probes the wire protocol has no endpoint for, such as checking
	// a view-model binding.
	Execute(ctx context.Context, script string) (json.RawMessage, error)
	// Close tears the remote session down.
	Close(ctx context.Context) error
}

// Element is a handle on a located element. Handles go stale when the page
// replaces the underlying DOM node; interactions then fail with
// ErrStaleElement.
type Element interface {
	Click(ctx context.Context) error
	Clear(ctx context.Context) error
	SendKeys(ctx context.Context, text string) error
	Visible(ctx context.Context) (bool, error)
	Text(ctx context.Context) (string, error)
}
