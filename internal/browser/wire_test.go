package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// wireStub is a scriptable WebDriver endpoint. Handlers are keyed by
// "METHOD path"; every request is recorded for inspection.
type wireStub struct {
	mu       sync.Mutex
	handlers map[string]http.HandlerFunc
	requests []stubRequest
	server   *httptest.Server
}

type stubRequest struct {
	Method string
	Path   string
	Body   string
}

func newWireStub(t *testing.T) *wireStub {
	t.Helper()
	stub := &wireStub{handlers: make(map[string]http.HandlerFunc)}
	stub.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		stub.mu.Lock()
		stub.requests = append(stub.requests, stubRequest{Method: r.Method, Path: r.URL.Path, Body: string(body)})
		handler := stub.handlers[r.Method+" "+r.URL.Path]
		stub.mu.Unlock()
		if handler == nil {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
			return
		}
		handler(w, r)
	}))
	t.Cleanup(stub.server.Close)
	return stub
}

func (s *wireStub) on(method, path string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[method+" "+path] = func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}
}

func (s *wireStub) lastBody(t *testing.T, method, path string) string {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.requests) - 1; i >= 0; i-- {
		if s.requests[i].Method == method && s.requests[i].Path == path {
			return s.requests[i].Body
		}
	}
	t.Fatalf("no request recorded for %s %s", method, path)
	return ""
}

func (s *wireStub) saw(method, path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, req := range s.requests {
		if req.Method == method && req.Path == path {
			return true
		}
	}
	return false
}

func newStubPhantomJS(t *testing.T) (*PhantomJS, *wireStub) {
	t.Helper()
	stub := newWireStub(t)
	stub.on("POST", "/session", 200, `{"sessionId":"ph-1","status":0,"value":{}}`)
	return NewPhantomJS(stub.server.URL), stub
}

func newStubSelenium(t *testing.T) (*Selenium, *wireStub) {
	t.Helper()
	stub := newWireStub(t)
	stub.on("POST", "/session", 200, `{"value":{"sessionId":"se-1","capabilities":{}}}`)
	return NewSelenium(stub.server.URL, "firefox"), stub
}

func TestPhantomJSSessionAndNavigation(t *testing.T) {
	drv, stub := newStubPhantomJS(t)
	stub.on("POST", "/session/ph-1/url", 200, `{"status":0,"value":null}`)

	require.NoError(t, drv.Open(context.Background(), "https://bank.example"))

	body := stub.lastBody(t, "POST", "/session")
	assert.Contains(t, body, `"desiredCapabilities"`)
	assert.Contains(t, body, `"browserName":"phantomjs"`)
	assert.Contains(t, stub.lastBody(t, "POST", "/session/ph-1/url"), "https://bank.example")
}

func TestPhantomJSFindReturnsLegacyElements(t *testing.T) {
	drv, stub := newStubPhantomJS(t)
	stub.on("POST", "/session/ph-1/elements", 200,
		`{"status":0,"value":[{"ELEMENT":"el-1"},{"ELEMENT":"el-2"}]}`)
	stub.on("POST", "/session/ph-1/element/el-1/click", 200, `{"status":0,"value":null}`)

	elements, err := drv.Find(context.Background(), CSS(".btn-login"))
	require.NoError(t, err)
	require.Len(t, elements, 2)

	require.NoError(t, elements[0].Click(context.Background()))
	assert.Contains(t, stub.lastBody(t, "POST", "/session/ph-1/elements"), `"using":"css selector"`)
}

func TestPhantomJSLegacyErrorMapping(t *testing.T) {
	cases := []struct {
		name     string
		response string
		want     error
	}{
		{"no such element", `{"status":7,"value":{"message":"not found"}}`, ErrNoSuchElement},
		{"stale element", `{"status":10,"value":{"message":"stale"}}`, ErrStaleElement},
		{"not visible", `{"status":11,"value":{"message":"hidden"}}`, ErrNotVisible},
		{"obscured click", `{"status":13,"value":{"message":"Other element would receive the click"}}`, ErrObscured},
		{"plain unknown", `{"status":13,"value":{"message":"something broke"}}`, ErrSession},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			drv, stub := newStubPhantomJS(t)
			stub.on("POST", "/session/ph-1/elements", 200,
				`{"status":0,"value":[{"ELEMENT":"el-1"}]}`)
			stub.on("POST", "/session/ph-1/element/el-1/click", 200, tc.response)

			elements, err := drv.Find(context.Background(), CSS("button"))
			require.NoError(t, err)
			require.Len(t, elements, 1)
			assert.ErrorIs(t, elements[0].Click(context.Background()), tc.want)
		})
	}
}

func TestPhantomJSDisplayedEndpoint(t *testing.T) {
	drv, stub := newStubPhantomJS(t)
	stub.on("POST", "/session/ph-1/elements", 200,
		`{"status":0,"value":[{"ELEMENT":"el-1"}]}`)
	stub.on("GET", "/session/ph-1/element/el-1/displayed", 200, `{"status":0,"value":true}`)

	elements, err := drv.Find(context.Background(), CSS(".overlay-loading"))
	require.NoError(t, err)
	visible, err := elements[0].Visible(context.Background())
	require.NoError(t, err)
	assert.True(t, visible)
}

func TestPhantomJSExecutePath(t *testing.T) {
	drv, stub := newStubPhantomJS(t)
	stub.on("POST", "/session/ph-1/execute", 200, `{"status":0,"value":true}`)

	value, err := drv.Execute(context.Background(), "return true;")
	require.NoError(t, err)
	assert.Equal(t, "true", string(value))
}

func TestSeleniumSessionAndFind(t *testing.T) {
	drv, stub := newStubSelenium(t)
	stub.on("POST", "/session/se-1/elements", 200,
		`{"value":[{"element-6066-11e4-a52e-4f735466cecf":"el-9"}]}`)

	elements, err := drv.Find(context.Background(), XPath("//button"))
	require.NoError(t, err)
	require.Len(t, elements, 1)

	body := stub.lastBody(t, "POST", "/session")
	assert.Contains(t, body, `"alwaysMatch"`)
	assert.Contains(t, body, `"browserName":"firefox"`)
}

func TestSeleniumW3CErrorMapping(t *testing.T) {
	cases := []struct {
		name     string
		response string
		want     error
	}{
		{"no such element", `{"value":{"error":"no such element","message":"gone"}}`, ErrNoSuchElement},
		{"stale element", `{"value":{"error":"stale element reference","message":"stale"}}`, ErrStaleElement},
		{"not interactable", `{"value":{"error":"element not interactable","message":"hidden"}}`, ErrNotVisible},
		{"click intercepted", `{"value":{"error":"element click intercepted","message":"overlay"}}`, ErrObscured},
		{"anything else", `{"value":{"error":"unknown error","message":"boom"}}`, ErrSession},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			drv, stub := newStubSelenium(t)
			stub.on("POST", "/session/se-1/elements", 200,
				`{"value":[{"element-6066-11e4-a52e-4f735466cecf":"el-9"}]}`)
			stub.on("POST", "/session/se-1/element/el-9/click", 400, tc.response)

			elements, err := drv.Find(context.Background(), CSS("button"))
			require.NoError(t, err)
			assert.ErrorIs(t, elements[0].Click(context.Background()), tc.want)
		})
	}
}

func TestSeleniumVisibilityUsesScript(t *testing.T) {
	drv, stub := newStubSelenium(t)
	stub.on("POST", "/session/se-1/elements", 200,
		`{"value":[{"element-6066-11e4-a52e-4f735466cecf":"el-9"}]}`)
	stub.on("POST", "/session/se-1/execute/sync", 200, `{"value":true}`)

	elements, err := drv.Find(context.Background(), CSS(".pmt-form"))
	require.NoError(t, err)
	visible, err := elements[0].Visible(context.Background())
	require.NoError(t, err)
	assert.True(t, visible)

	body := stub.lastBody(t, "POST", "/session/se-1/execute/sync")
	assert.Contains(t, body, "offsetWidth")
	assert.Contains(t, body, `"element-6066-11e4-a52e-4f735466cecf":"el-9"`)
}

func TestSendKeysCarriesBothPayloadForms(t *testing.T) {
	drv, stub := newStubPhantomJS(t)
	stub.on("POST", "/session/ph-1/elements", 200,
		`{"status":0,"value":[{"ELEMENT":"el-1"}]}`)
	stub.on("POST", "/session/ph-1/element/el-1/value", 200, `{"status":0,"value":null}`)

	elements, err := drv.Find(context.Background(), CSS("input"))
	require.NoError(t, err)
	require.NoError(t, elements[0].SendKeys(context.Background(), "ab"))

	var payload struct {
		Text  string   `json:"text"`
		Value []string `json:"value"`
	}
	require.NoError(t, json.Unmarshal([]byte(stub.lastBody(t, "POST", "/session/ph-1/element/el-1/value")), &payload))
	assert.Equal(t, "ab", payload.Text)
	assert.Equal(t, []string{"a", "b"}, payload.Value)
}

func TestCloseEndsSessionOnce(t *testing.T) {
	drv, stub := newStubPhantomJS(t)
	stub.on("POST", "/session/ph-1/url", 200, `{"status":0,"value":null}`)
	stub.on("DELETE", "/session/ph-1", 200, `{"status":0,"value":null}`)

	require.NoError(t, drv.Open(context.Background(), "https://bank.example"))
	require.NoError(t, drv.Close(context.Background()))
	require.NoError(t, drv.Close(context.Background()))

	count := 0
	for _, req := range stub.requests {
		if req.Method == "DELETE" && req.Path == "/session/ph-1" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestCloseWithoutSessionIsNoop(t *testing.T) {
	drv, stub := newStubPhantomJS(t)
	require.NoError(t, drv.Close(context.Background()))
	assert.False(t, stub.saw("DELETE", "/session/ph-1"))
}
