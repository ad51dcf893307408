package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Selenium drives a full browser through a Selenium (W3C protocol) endpoint.
// Slower than the headless driver but renders the site exactly as a user
// would see it, which helps when diagnosing a flow change.
type Selenium struct {
	*remote
}

// NewSelenium returns a driver for a Selenium endpoint, e.g.
// "http://127.0.0.1:4444/wd/hub", driving the named browser.
func NewSelenium(endpoint, browserName string) *Selenium {
	if browserName == "" {
		browserName = "firefox"
	}
	return &Selenium{remote: newRemote(endpoint, dialect{
		name:        "selenium",
		w3c:         true,
		executePath: "/execute/sync",
		newSession: func() any {
			return map[string]any{
				"capabilities": map[string]any{
					"alwaysMatch": map[string]any{
						"browserName": browserName,
					},
				},
			}
		},
		displayed: scriptDisplayed,
	})}
}

// scriptDisplayed probes visibility through script execution; the W3C
// protocol dropped the dedicated displayed endpoint.
func scriptDisplayed(ctx context.Context, r *remote, elementID string) (bool, error) {
	script := "return !!(arguments[0].offsetWidth || arguments[0].offsetHeight || arguments[0].getClientRects().length);"
	payload := map[string]any{
		"script": script,
		"args": []any{
			map[string]string{w3cElementKey: elementID},
		},
	}
	value, err := r.command(ctx, http.MethodPost, "/execute/sync", payload)
	if err != nil {
		return false, err
	}
	var visible bool
	if err := json.Unmarshal(value, &visible); err != nil {
		return false, fmt.Errorf("%w: decoding visibility result: %v", ErrSession, err)
	}
	return visible, nil
}
