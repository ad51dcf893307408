package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// PhantomJS drives a headless ghostdriver endpoint over the legacy JSON wire
// protocol. It is the fast default for unattended runs.
type PhantomJS struct {
	*remote
}

// NewPhantomJS returns a driver for the ghostdriver endpoint, e.g.
// "http://127.0.0.1:8910".
func NewPhantomJS(endpoint string) *PhantomJS {
	return &PhantomJS{remote: newRemote(endpoint, dialect{
		name:        "phantomjs",
		executePath: "/execute",
		newSession: func() any {
			return map[string]any{
				"desiredCapabilities": map[string]any{
					"browserName":       "phantomjs",
					"javascriptEnabled": true,
				},
			}
		},
		displayed: legacyDisplayed,
	})}
}

// legacyDisplayed uses the JSON wire /displayed endpoint.
func legacyDisplayed(ctx context.Context, r *remote, elementID string) (bool, error) {
	value, err := r.command(ctx, http.MethodGet, "/element/"+elementID+"/displayed", nil)
	if err != nil {
		return false, err
	}
	var visible bool
	if err := json.Unmarshal(value, &visible); err != nil {
		return false, fmt.Errorf("%w: decoding displayed state: %v", ErrSession, err)
	}
	return visible, nil
}
