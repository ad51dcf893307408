package browser

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// w3cElementKey identifies element references in W3C protocol responses.
const w3cElementKey = "element-6066-11e4-a52e-4f735466cecf"

// legacyElementKey identifies element references in JSON wire responses.
const legacyElementKey = "ELEMENT"

// dialect captures the protocol differences between the two supported remote
// endpoints.
type dialect struct {
	name       string
	w3c        bool
	// executePath is the script execution endpoint; the protocols moved it.
	executePath string
	newSession  func() any
	// displayed probes element visibility; the legacy protocol has a
	// dedicated endpoint, W3C needs script execution.
	displayed func(ctx context.Context, r *remote, elementID string) (bool, error)
}

// remote is the shared WebDriver wire client both drivers are built on.
type remote struct {
	endpoint  string
	hc        *http.Client
	sessionID string
	d         dialect
}

func newRemote(endpoint string, d dialect) *remote {
	return &remote{
		endpoint: strings.TrimRight(endpoint, "/"),
		hc:       &http.Client{Timeout: 60 * time.Second},
		d:        d,
	}
}

// wireResponse is the common response envelope. Status is only meaningful in
// the legacy protocol (0 means success).
type wireResponse struct {
	Status    *int            `json:"status"`
	SessionID string          `json:"sessionId"`
	Value     json.RawMessage `json:"value"`
}

func (r *remote) Open(ctx context.Context, url string) error {
	if err := r.ensureSession(ctx); err != nil {
		return err
	}
	_, err := r.command(ctx, http.MethodPost, "/url", map[string]string{"url": url})
	if err != nil {
		return fmt.Errorf("navigating to %s: %w", url, err)
	}
	return nil
}

func (r *remote) Find(ctx context.Context, sel Selector) ([]Element, error) {
	if err := r.ensureSession(ctx); err != nil {
		return nil, err
	}
	value, err := r.command(ctx, http.MethodPost, "/elements", map[string]string{
		"using": sel.Using,
		"value": sel.Value,
	})
	if err != nil {
		return nil, fmt.Errorf("locating %s: %w", sel, err)
	}
	var refs []map[string]string
	if err := json.Unmarshal(value, &refs); err != nil {
		return nil, fmt.Errorf("%w: decoding element references: %v", ErrSession, err)
	}
	elements := make([]Element, 0, len(refs))
	for _, ref := range refs {
		id := ref[w3cElementKey]
		if id == "" {
			id = ref[legacyElementKey]
		}
		if id == "" {
			return nil, fmt.Errorf("%w: element reference without an id", ErrSession)
		}
		elements = append(elements, &webElement{r: r, id: id})
	}
	return elements, nil
}

func (r *remote) Execute(ctx context.Context, script string) (json.RawMessage, error) {
	if err := r.ensureSession(ctx); err != nil {
		return nil, err
	}
	payload := map[string]any{
		"script": script,
		"args":   []any{},
	}
	value, err := r.command(ctx, http.MethodPost, r.d.executePath, payload)
	if err != nil {
		return nil, fmt.Errorf("executing script: %w", err)
	}
	return value, nil
}

func (r *remote) Close(ctx context.Context) error {
	if r.sessionID == "" {
		return nil
	}
	_, err := r.do(ctx, http.MethodDelete, "/session/"+r.sessionID, nil)
	r.sessionID = ""
	return err
}

func (r *remote) ensureSession(ctx context.Context) error {
	if r.sessionID != "" {
		return nil
	}
	body, err := r.do(ctx, http.MethodPost, "/session", r.d.newSession())
	if err != nil {
		return fmt.Errorf("starting %s session: %w", r.d.name, err)
	}
	sessionID := body.SessionID
	if sessionID == "" {
		// W3C moves the session id inside the value object.
		var value struct {
			SessionID string `json:"sessionId"`
		}
		if err := json.Unmarshal(body.Value, &value); err == nil {
			sessionID = value.SessionID
		}
	}
	if sessionID == "" {
		return fmt.Errorf("%w: %s endpoint returned no session id", ErrSession, r.d.name)
	}
	r.sessionID = sessionID
	return nil
}

// command issues a session-scoped request and returns the value payload.
func (r *remote) command(ctx context.Context, method, path string, payload any) (json.RawMessage, error) {
	body, err := r.do(ctx, method, "/session/"+r.sessionID+path, payload)
	if err != nil {
		return nil, err
	}
	return body.Value, nil
}

func (r *remote) do(ctx context.Context, method, path string, payload any) (*wireResponse, error) {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("%w: encoding request: %v", ErrSession, err)
		}
		reqBody = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, r.endpoint+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSession, err)
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")

	resp, err := r.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSession, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrSession, err)
	}

	var body wireResponse
	if len(data) > 0 {
		if err := json.Unmarshal(data, &body); err != nil {
			return nil, fmt.Errorf("%w: decoding response: %v", ErrSession, err)
		}
	}

	if r.d.w3c {
		if resp.StatusCode >= 400 {
			return nil, decodeW3CError(body.Value)
		}
		return &body, nil
	}
	if body.Status != nil && *body.Status != 0 {
		return nil, decodeLegacyError(*body.Status, body.Value)
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%w: HTTP %d", ErrSession, resp.StatusCode)
	}
	return &body, nil
}

// Legacy JSON wire status codes.
const (
	legacyNoSuchElement     = 7
	legacyStaleElement      = 10
	legacyElementNotVisible = 11
	legacyUnknownError      = 13
)

func decodeLegacyError(status int, value json.RawMessage) error {
	message := wireErrorMessage(value)
	switch status {
	case legacyNoSuchElement:
		return fmt.Errorf("%w: %s", ErrNoSuchElement, message)
	case legacyStaleElement:
		return fmt.Errorf("%w: %s", ErrStaleElement, message)
	case legacyElementNotVisible:
		return fmt.Errorf("%w: %s", ErrNotVisible, message)
	case legacyUnknownError:
		// The remote raises "unknown error" when the click lands on an
		// overlay instead of the target.
		if strings.Contains(message, "click") {
			return fmt.Errorf("%w: %s", ErrObscured, message)
		}
	}
	return fmt.Errorf("%w: status %d: %s", ErrSession, status, message)
}

func decodeW3CError(value json.RawMessage) error {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	_ = json.Unmarshal(value, &payload)
	switch payload.Error {
	case "no such element":
		return fmt.Errorf("%w: %s", ErrNoSuchElement, payload.Message)
	case "stale element reference":
		return fmt.Errorf("%w: %s", ErrStaleElement, payload.Message)
	case "element not interactable":
		return fmt.Errorf("%w: %s", ErrNotVisible, payload.Message)
	case "element click intercepted":
		return fmt.Errorf("%w: %s", ErrObscured, payload.Message)
	}
	return fmt.Errorf("%w: %s: %s", ErrSession, payload.Error, payload.Message)
}

func wireErrorMessage(value json.RawMessage) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(value, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	return string(value)
}

// webElement is an element handle bound to its originating remote.
type webElement struct {
	r  *remote
	id string
}

func (e *webElement) Click(ctx context.Context) error {
	_, err := e.r.command(ctx, http.MethodPost, "/element/"+e.id+"/click", struct{}{})
	return err
}

func (e *webElement) Clear(ctx context.Context) error {
	_, err := e.r.command(ctx, http.MethodPost, "/element/"+e.id+"/clear", struct{}{})
	return err
}

func (e *webElement) SendKeys(ctx context.Context, text string) error {
	// The legacy protocol wants a rune array, W3C wants a string; sending
	// both keeps the payload valid for either endpoint.
	payload := map[string]any{
		"text":  text,
		"value": strings.Split(text, ""),
	}
	_, err := e.r.command(ctx, http.MethodPost, "/element/"+e.id+"/value", payload)
	return err
}

func (e *webElement) Visible(ctx context.Context) (bool, error) {
	return e.r.d.displayed(ctx, e.r, e.id)
}

func (e *webElement) Text(ctx context.Context) (string, error) {
	value, err := e.r.command(ctx, http.MethodGet, "/element/"+e.id+"/text", nil)
	if err != nil {
		return "", err
	}
	var text string
	if err := json.Unmarshal(value, &text); err != nil {
		return "", fmt.Errorf("%w: decoding element text: %v", ErrSession, err)
	}
	return text, nil
}
