// Package functest drives a web MVC application end-to-end inside the test
// process: dispatch a URL, then assert on the controller/action the
// application resolved, the response status, headers, redirects and body.
// No network server is involved; the application is called directly.
package functest

import (
	"context"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/ashep/go-mvc/dispatcher"
	"github.com/ashep/go-mvc/escaper"
	"github.com/ashep/go-mvc/registry"
	"github.com/ashep/go-mvc/reqctx"
	"github.com/ashep/go-mvc/response"
	"github.com/ashep/go-mvc/testlogger"
)

// Default dispatcher state every test starts from, so controller/action
// assertions can never observe a stale route from a previous test.
const (
	DefaultController = "test"
	DefaultAction     = "empty"
)

// TestingT is the subset of *testing.T the harness needs.
type TestingT interface {
	require.TestingT
	Cleanup(func())
}

// Application is the system under test: a single synchronous request-handling
// entry point. It may internally forward to another controller/action.
type Application interface {
	Handle(ctx context.Context, url string, req *reqctx.Context) (*response.Response, error)
}

// AppFactory builds the application under test, bound to the per-test
// registry. The logger output is captured and available via Logs.
type AppFactory func(reg *registry.Registry, l zerolog.Logger) (Application, error)

type Harness struct {
	t    TestingT
	reg  *registry.Registry
	app  Application
	req  *reqctx.Context
	logs *testlogger.Writer
}

// New sets up a harness for one test: a fresh registry holding a dispatcher
// preset to the default controller/action and an escaper, the application
// built against it, and a fresh ambient request context. Teardown is
// registered via t.Cleanup and runs on every exit path: the registry is
// reset, the application reference is dropped and the request context is
// replaced, so nothing leaks into the next test.
func New(t TestingT, f AppFactory) *Harness {
	reg := registry.New()

	reg.SetShared(registry.KeyDispatcher, func() any {
		d := dispatcher.New()
		d.SetControllerName(DefaultController)
		d.SetActionName(DefaultAction)

		return d
	})

	reg.SetShared(registry.KeyEscaper, func() any {
		return escaper.New()
	})

	l, lw := testlogger.New()

	app, err := f(reg, l)
	require.NoError(t, err, "app init failed")

	h := &Harness{
		t:    t,
		reg:  reg,
		app:  app,
		req:  reqctx.New(),
		logs: lw,
	}

	t.Cleanup(h.tearDown)

	return h
}

func (h *Harness) tearDown() {
	h.reg.Reset()
	h.app = nil
	h.req = reqctx.New()
}

// Registry exposes the per-test registry.
func (h *Harness) Registry() *registry.Registry {
	return h.reg
}

// Request is the ambient request context the next Dispatch will use. Seed
// session values, query parameters or cookies on it before dispatching.
func (h *Harness) Request() *reqctx.Context {
	return h.req
}

// Logs returns everything the application logged so far.
func (h *Harness) Logs() string {
	return h.logs.Content()
}

// Dispatch hands the URL to the application and stores the resulting
// response in the registry, replacing any previous one. Assertions always
// reflect the latest call.
func (h *Harness) Dispatch(url string) {
	require.NotNil(h.t, h.app, "dispatch called before setup or after teardown")

	resp, err := h.app.Handle(context.Background(), url, h.req)
	require.NoErrorf(h.t, err, "handle %q failed", url)
	require.NotNilf(h.t, resp, "handle %q returned no response", url)

	h.reg.SetResponse(resp)
}

// AssertController checks the controller name the dispatcher resolved.
func (h *Harness) AssertController(expected string) {
	require.Equal(h.t, expected, h.dispatcher().ControllerName(), "controller name mismatch")
}

// AssertAction checks the action name the dispatcher resolved.
func (h *Harness) AssertAction(expected string) {
	require.Equal(h.t, expected, h.dispatcher().ActionName(), "action name mismatch")
}

// AssertHeader checks each given header for exact equality. Pairs are
// checked independently; the first mismatch fails the test naming the field.
func (h *Harness) AssertHeader(expected map[string]string) {
	resp := h.response()

	for k, want := range expected {
		require.Equalf(h.t, want, resp.Header(k), "header %q mismatch", k)
	}
}

// AssertResponseCode checks the combined "Status" header, e.g.
// "404 Not Found". The match is a case-insensitive substring test, not an
// equality test, to tolerate the reason phrase after the numeric code.
func (h *Harness) AssertResponseCode(expected int) {
	status := h.response().Header(response.HeaderStatus)
	want := strconv.Itoa(expected)

	ok := status != "" && strings.Contains(strings.ToLower(status), strings.ToLower(want))
	require.Truef(h.t, ok, "response code mismatch: expected %q within %q", want, status)
}

// AssertDispatchIsForwarded checks that the application internally rerouted
// the request to another controller/action.
func (h *Harness) AssertDispatchIsForwarded() {
	require.True(h.t, h.dispatcher().WasForwarded(), "the dispatch was not forwarded")
}

// AssertRedirectTo checks the Location header for an exact match.
func (h *Harness) AssertRedirectTo(location string) {
	loc := h.response().Header("Location")

	require.NotEmpty(h.t, loc, "no redirect occurred")
	require.Equal(h.t, location, loc, "redirect location mismatch")
}

// Content returns the body of the latest response.
func (h *Harness) Content() string {
	return h.response().Content()
}

// AssertContentContains checks that the latest response body contains the
// given substring.
func (h *Harness) AssertContentContains(substring string) {
	require.Contains(h.t, h.Content(), substring, "response content mismatch")
}

func (h *Harness) dispatcher() *dispatcher.Dispatcher {
	d := h.reg.Dispatcher()
	require.NotNil(h.t, d, "no dispatcher registered")

	return d
}

func (h *Harness) response() *response.Response {
	resp := h.reg.Response()
	require.NotNil(h.t, resp, "no response stored: dispatch a url first")

	return resp
}
