package browser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Session wraps a Driver with the interaction helpers the engine needs.
// Exactly one session is live at a time and all interactions are sequential;
// the remote page has a single focus and is not safe for concurrent use.
type Session struct {
	drv Driver
}

func NewSession(drv Driver) *Session {
	return &Session{drv: drv}
}

func (s *Session) Open(ctx context.Context, url string) error {
	return s.drv.Open(ctx, url)
}

func (s *Session) Close(ctx context.Context) error {
	return s.drv.Close(ctx)
}

func (s *Session) Find(ctx context.Context, sel Selector) ([]Element, error) {
	return s.drv.Find(ctx, sel)
}

// ExecuteBool runs a script expected to return a boolean.
func (s *Session) ExecuteBool(ctx context.Context, script string) (bool, error) {
	value, err := s.drv.Execute(ctx, script)
	if err != nil {
		return false, err
	}
	var result bool
	if err := json.Unmarshal(value, &result); err != nil {
		return false, fmt.Errorf("%w: decoding script result: %v", ErrSession, err)
	}
	return result, nil
}

// FindOne returns the first matching element, or ErrNoSuchElement.
func (s *Session) FindOne(ctx context.Context, sel Selector) (Element, error) {
	elements, err := s.drv.Find(ctx, sel)
	if err != nil {
		return nil, err
	}
	if len(elements) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoSuchElement, sel)
	}
	return elements[0], nil
}

// Present reports whether at least one element matches the selector.
func (s *Session) Present(ctx context.Context, sel Selector) (bool, error) {
	elements, err := s.drv.Find(ctx, sel)
	if err != nil {
		return false, err
	}
	return len(elements) > 0, nil
}

// AnyVisible reports whether any matching element is visible. Duplicates of
// an element routinely exist (mobile layouts, sticky footers); an element
// going stale mid-check counts as not visible.
func (s *Session) AnyVisible(ctx context.Context, sel Selector) (bool, error) {
	elements, err := s.drv.Find(ctx, sel)
	if err != nil {
		return false, err
	}
	for _, element := range elements {
		visible, err := element.Visible(ctx)
		if errors.Is(err, ErrStaleElement) || errors.Is(err, ErrNoSuchElement) {
			continue
		}
		if err != nil {
			return false, err
		}
		if visible {
			return true, nil
		}
	}
	return false, nil
}

// Fill clears the field matching sel and types value into it.
func (s *Session) Fill(ctx context.Context, sel Selector, value string) error {
	element, err := s.FindOne(ctx, sel)
	if err != nil {
		return err
	}
	if err := element.Clear(ctx); err != nil {
		return err
	}
	return element.SendKeys(ctx, value)
}

// Click clicks the first element matching sel.
func (s *Session) Click(ctx context.Context, sel Selector) error {
	element, err := s.FindOne(ctx, sel)
	if err != nil {
		return err
	}
	return element.Click(ctx)
}

// ClickVisible clicks the first visible element matching sel. Stale
// duplicates are skipped.
func (s *Session) ClickVisible(ctx context.Context, sel Selector) error {
	elements, err := s.drv.Find(ctx, sel)
	if err != nil {
		return err
	}
	for _, element := range elements {
		visible, err := element.Visible(ctx)
		if errors.Is(err, ErrStaleElement) || errors.Is(err, ErrNoSuchElement) {
			continue
		}
		if err != nil {
			return err
		}
		if visible {
			return element.Click(ctx)
		}
	}
	return fmt.Errorf("%w: no visible element for %s", ErrNotVisible, sel)
}

// Text returns the text content of the first element matching sel.
func (s *Session) Text(ctx context.Context, sel Selector) (string, error) {
	element, err := s.FindOne(ctx, sel)
	if err != nil {
		return "", err
	}
	return element.Text(ctx)
}

// SelectOption selects the option with the given value attribute inside the
// select box matching sel. Some of the bank's select boxes carry empty value
// attributes; those are handled by SelectOptionByText.
func (s *Session) SelectOption(ctx context.Context, sel Selector, value string) error {
	if sel.Using != "xpath" {
		return fmt.Errorf("%w: select option requires an xpath selector, got %s", ErrSession, sel)
	}
	option := XPath(sel.Value + `/option[@value="` + value + `"]`)
	return s.Click(ctx, option)
}

// SelectOptionByText selects the option with the given display text,
// bypassing the value attribute entirely. The bank's markup violates the
// HTML5 rule that an absent value falls back to the option text, so matching
// by text and forcing a click is the only reliable route.
func (s *Session) SelectOptionByText(ctx context.Context, sel Selector, text string) error {
	if sel.Using != "xpath" {
		return fmt.Errorf("%w: select option requires an xpath selector, got %s", ErrSession, sel)
	}
	option := XPath(sel.Value + `/option[normalize-space(text()) = "` + text + `"]`)
	return s.Click(ctx, option)
}
