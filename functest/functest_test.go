package functest_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashep/go-mvc/functest"
	"github.com/ashep/go-mvc/registry"
	"github.com/ashep/go-mvc/webapp"
)

func newTestApp(reg *registry.Registry, l zerolog.Logger) (functest.Application, error) {
	app := webapp.New(webapp.DefaultConfig(), reg, l)

	app.Route("/", "index", "index")
	app.Route("/about", "pages", "about")
	app.Route("/old", "legacy", "entry")
	app.Route("/logout", "auth", "logout")
	app.Route("/status", "api", "status")
	app.Route("/whoami", "account", "whoami")
	app.Route("/greet", "greeting", "hello")

	app.HandleFunc("index", "index", func(c *webapp.Ctx) error {
		c.WriteString("welcome home")
		return nil
	})
	app.HandleFunc("pages", "about", func(c *webapp.Ctx) error {
		c.WriteString("about us")
		return nil
	})
	app.HandleFunc("legacy", "entry", func(c *webapp.Ctx) error {
		c.Forward("pages", "about")
		return nil
	})
	app.HandleFunc("auth", "logout", func(c *webapp.Ctx) error {
		c.Redirect("/login")
		return nil
	})
	app.HandleFunc("api", "status", func(c *webapp.Ctx) error {
		return c.JSON(map[string]string{"status": "ok"})
	})
	app.HandleFunc("greeting", "hello", func(c *webapp.Ctx) error {
		c.WriteString("Hello, " + c.Param("name") + "!")
		return nil
	})
	app.HandleFunc("account", "whoami", func(c *webapp.Ctx) error {
		c.WriteString("user: " + c.Request.Session["user"])
		return nil
	})

	return app, nil
}

func TestHarness(main *testing.T) {
	main.Run("DefaultsBeforeDispatch", func(t *testing.T) {
		h := functest.New(t, newTestApp)

		h.AssertController("test")
		h.AssertAction("empty")
		assert.Empty(t, h.Registry().Dispatcher().Params())
	})

	main.Run("DispatchResolvesRoute", func(t *testing.T) {
		h := functest.New(t, newTestApp)
		h.Dispatch("/about")

		h.AssertController("pages")
		h.AssertAction("about")
		h.AssertResponseCode(200)
		h.AssertContentContains("about us")
		assert.Equal(t, "about us", h.Content())
	})

	main.Run("DispatchTwiceReflectsLatest", func(t *testing.T) {
		h := functest.New(t, newTestApp)

		h.Dispatch("/")
		h.AssertController("index")

		h.Dispatch("/about")
		h.AssertController("pages")
		h.AssertAction("about")
		assert.Equal(t, "about us", h.Content())
	})

	main.Run("DispatchTwiceServesLatestQueryValue", func(t *testing.T) {
		h := functest.New(t, newTestApp)

		h.Dispatch("/greet?name=World")
		h.AssertContentContains("Hello, World!")

		h.Dispatch("/greet?name=Mars")
		h.AssertContentContains("Hello, Mars!")
	})

	main.Run("NotFound", func(t *testing.T) {
		h := functest.New(t, newTestApp)
		h.Dispatch("/nope")

		h.AssertResponseCode(404)
		h.AssertHeader(map[string]string{"Status": "404 Not Found"})
		h.AssertController("error")
		h.AssertAction("notFound")
	})

	main.Run("ResponseCodeSubstringContract", func(t *testing.T) {
		h := functest.New(t, newTestApp)
		h.Dispatch("/")

		h.AssertResponseCode(200)
		// Known caveat of the substring contract: "0" is a substring of
		// "200 OK", so this passes too.
		h.AssertResponseCode(0)
	})

	main.Run("Headers", func(t *testing.T) {
		h := functest.New(t, newTestApp)
		h.Dispatch("/status")

		h.AssertHeader(map[string]string{"Content-Type": "application/json"})
		h.AssertContentContains(`"status":"ok"`)
	})

	main.Run("Forwarded", func(t *testing.T) {
		h := functest.New(t, newTestApp)
		h.Dispatch("/old")

		h.AssertDispatchIsForwarded()
		h.AssertController("pages")
		h.AssertAction("about")
		assert.Equal(t, "about us", h.Content())
	})

	main.Run("RedirectTo", func(t *testing.T) {
		h := functest.New(t, newTestApp)
		h.Dispatch("/logout")

		h.AssertRedirectTo("/login")
		h.AssertResponseCode(302)
	})

	main.Run("SeededSession", func(t *testing.T) {
		h := functest.New(t, newTestApp)
		h.Request().Session["user"] = "alice"

		h.Dispatch("/whoami")

		h.AssertContentContains("user: alice")
	})

	main.Run("Logs", func(t *testing.T) {
		h := functest.New(t, newTestApp)
		h.Dispatch("/")

		assert.Contains(t, h.Logs(), "request dispatched")
	})
}

func TestHarnessFailures(main *testing.T) {
	main.Run("ControllerMismatch", func(t *testing.T) {
		ft := &failT{}
		h := functest.New(ft, newTestApp)
		h.Dispatch("/about")

		require.True(t, expectFailure(func() { h.AssertController("index") }))
		assert.Contains(t, ft.lastMessage(), "controller name mismatch")
		assert.Contains(t, ft.lastMessage(), "index")
		assert.Contains(t, ft.lastMessage(), "pages")
	})

	main.Run("ActionMismatch", func(t *testing.T) {
		ft := &failT{}
		h := functest.New(ft, newTestApp)
		h.Dispatch("/about")

		require.True(t, expectFailure(func() { h.AssertAction("index") }))
		assert.Contains(t, ft.lastMessage(), "action name mismatch")
	})

	main.Run("HeaderMismatchNamesField", func(t *testing.T) {
		ft := &failT{}
		h := functest.New(ft, newTestApp)
		h.Dispatch("/status")

		require.True(t, expectFailure(func() {
			h.AssertHeader(map[string]string{"Content-Type": "text/html"})
		}))
		assert.Contains(t, ft.lastMessage(), `header "Content-Type" mismatch`)
		assert.Contains(t, ft.lastMessage(), "text/html")
		assert.Contains(t, ft.lastMessage(), "application/json")
	})

	main.Run("ResponseCodeMismatch", func(t *testing.T) {
		ft := &failT{}
		h := functest.New(ft, newTestApp)
		h.Dispatch("/")

		require.True(t, expectFailure(func() { h.AssertResponseCode(404) }))
		assert.Contains(t, ft.lastMessage(), `"404"`)
		assert.Contains(t, ft.lastMessage(), `"200 OK"`)
	})

	main.Run("NotForwarded", func(t *testing.T) {
		ft := &failT{}
		h := functest.New(ft, newTestApp)
		h.Dispatch("/")

		require.True(t, expectFailure(func() { h.AssertDispatchIsForwarded() }))
		assert.Contains(t, ft.lastMessage(), "the dispatch was not forwarded")
	})

	main.Run("NoRedirectOccurred", func(t *testing.T) {
		ft := &failT{}
		h := functest.New(ft, newTestApp)
		h.Dispatch("/")

		require.True(t, expectFailure(func() { h.AssertRedirectTo("/login") }))
		assert.Contains(t, ft.lastMessage(), "no redirect occurred")
	})

	main.Run("RedirectLocationMismatch", func(t *testing.T) {
		ft := &failT{}
		h := functest.New(ft, newTestApp)
		h.Dispatch("/logout")

		require.True(t, expectFailure(func() { h.AssertRedirectTo("/home") }))
		assert.Contains(t, ft.lastMessage(), "redirect location mismatch")
		assert.Contains(t, ft.lastMessage(), "/home")
		assert.Contains(t, ft.lastMessage(), "/login")
	})

	main.Run("ContentMismatch", func(t *testing.T) {
		ft := &failT{}
		h := functest.New(ft, newTestApp)
		h.Dispatch("/")

		require.True(t, expectFailure(func() { h.AssertContentContains("nope") }))
		assert.Contains(t, ft.lastMessage(), "response content mismatch")
	})

	main.Run("AssertBeforeDispatch", func(t *testing.T) {
		ft := &failT{}
		h := functest.New(ft, newTestApp)

		require.True(t, expectFailure(func() { h.AssertResponseCode(200) }))
		assert.Contains(t, ft.lastMessage(), "no response stored")
	})

	main.Run("TeardownClearsEverything", func(t *testing.T) {
		ft := &failT{}
		h := functest.New(ft, newTestApp)
		h.Dispatch("/about")

		ft.runCleanups()

		assert.Nil(t, h.Registry().Response())
		assert.Nil(t, h.Registry().Dispatcher())

		require.True(t, expectFailure(func() { h.Dispatch("/") }))
		assert.Contains(t, ft.lastMessage(), "dispatch called before setup or after teardown")
	})
}

// failT records harness failures instead of aborting the surrounding test.
// FailNow panics to stop the harness mid-assertion, the way runtime.Goexit
// stops a real test; expectFailure recovers from it.
type failT struct {
	messages []string
	cleanups []func()
}

type failNow struct{}

func (t *failT) Errorf(format string, args ...interface{}) {
	t.messages = append(t.messages, fmt.Sprintf(format, args...))
}

func (t *failT) FailNow() {
	panic(failNow{})
}

func (t *failT) Cleanup(f func()) {
	t.cleanups = append(t.cleanups, f)
}

func (t *failT) runCleanups() {
	for i := len(t.cleanups) - 1; i >= 0; i-- {
		t.cleanups[i]()
	}
}

func (t *failT) lastMessage() string {
	if len(t.messages) == 0 {
		return ""
	}

	return strings.Join(t.messages, "\n")
}

func expectFailure(fn func()) (failed bool) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(failNow); !ok {
				panic(r)
			}
			failed = true
		}
	}()

	fn()

	return false
}
