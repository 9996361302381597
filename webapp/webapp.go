// Package webapp is a small in-process MVC application: URLs resolve to
// controller/action pairs through a route table, handlers run in a dispatch
// loop that supports internal forwarding, and the outcome is a response
// object rather than anything written to a network connection.
package webapp

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/ashep/go-mvc/dispatcher"
	"github.com/ashep/go-mvc/escaper"
	"github.com/ashep/go-mvc/metrics"
	"github.com/ashep/go-mvc/registry"
	"github.com/ashep/go-mvc/reqctx"
	"github.com/ashep/go-mvc/response"
	"github.com/ashep/go-mvc/sessionstore"
)

// HandlerFunc is a controller action. A returned error answers 500 without
// exposing details to the response body.
type HandlerFunc func(c *Ctx) error

type route struct {
	controller string
	action     string
}

type Option func(*App)

// WithSessionStore enables session persistence keyed by the session cookie.
func WithSessionStore(s sessionstore.Store) Option {
	return func(a *App) {
		a.sessions = s
	}
}

type App struct {
	cfg      Config
	reg      *registry.Registry
	routes   map[string]route
	handlers map[string]HandlerFunc
	sessions sessionstore.Store
	l        zerolog.Logger
}

func New(cfg Config, reg *registry.Registry, l zerolog.Logger, opts ...Option) *App {
	if !reg.Has(registry.KeyDispatcher) {
		reg.SetShared(registry.KeyDispatcher, func() any { return dispatcher.New() })
	}

	if !reg.Has(registry.KeyEscaper) {
		reg.SetShared(registry.KeyEscaper, func() any { return escaper.New() })
	}

	a := &App{
		cfg:      cfg,
		reg:      reg,
		routes:   make(map[string]route),
		handlers: make(map[string]HandlerFunc),
		l:        l.With().Str("app", cfg.Name).Logger(),
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Route maps a URL path to a controller/action pair.
func (a *App) Route(path, controller, action string) {
	a.routes[path] = route{controller: controller, action: action}
}

// HandleFunc registers the handler for a controller action.
func (a *App) HandleFunc(controller, action string, h HandlerFunc) {
	a.handlers[handlerKey(controller, action)] = h
}

// Handle processes one request URL against the given ambient request context
// and returns the resulting response. It is a blocking in-process call. The
// root path falls back to the configured default controller/action when no
// route is registered for it; any other unrouted path answers 404.
func (a *App) Handle(ctx context.Context, rawURL string, req *reqctx.Context) (*response.Response, error) {
	if req == nil {
		req = reqctx.New()
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}

	// Values from the current URL replace earlier ones for the same key, so
	// a reused request context never serves stale parameters.
	for k, vs := range u.Query() {
		req.Query.Del(k)
		for _, v := range vs {
			req.Query.Add(k, v)
		}
	}

	d := a.reg.Dispatcher()
	resp := response.New()

	path := u.Path
	if path == "" {
		path = "/"
	}

	rt, ok := a.routes[path]
	if !ok && path == "/" {
		rt = route{controller: a.cfg.DefaultController, action: a.cfg.DefaultAction}
	} else if !ok {
		rt = route{controller: a.cfg.NotFoundController, action: a.cfg.NotFoundAction}
		resp.SetStatus(http.StatusNotFound, "")
	}

	params := dispatcher.Params{}
	for k := range req.Query {
		params[k] = req.Query.Get(k)
	}

	d.Prepare(rt.controller, rt.action, params)

	sessID, err := a.loadSession(ctx, req, resp)
	if err != nil {
		return nil, err
	}

	done := metrics.MeasureDispatch(rt.controller, rt.action)

	c := &Ctx{
		ctx:        ctx,
		Request:    req,
		Response:   resp,
		Dispatcher: d,
		Escaper:    a.reg.Escaper(),
		Logger:     a.l,
	}

	if err := a.dispatch(c); err != nil {
		return nil, err
	}

	if err := a.saveSession(ctx, sessID, req); err != nil {
		return nil, err
	}

	done(resp.StatusCode())

	a.l.Debug().
		Str("path", path).
		Str("controller", d.ControllerName()).
		Str("action", d.ActionName()).
		Int("code", resp.StatusCode()).
		Msg("request dispatched")

	return resp, nil
}

func (a *App) dispatch(c *Ctx) error {
	d := c.Dispatcher

	for i := 0; ; i++ {
		if i > a.cfg.ForwardLimit {
			return fmt.Errorf("forward limit exceeded after %d dispatches", i)
		}

		h, ok := a.handlers[handlerKey(d.ControllerName(), d.ActionName())]
		if !ok {
			if d.ControllerName() == a.cfg.NotFoundController && d.ActionName() == a.cfg.NotFoundAction {
				c.Response.SetStatus(http.StatusNotFound, "")
				c.Response.WriteString("Not Found")
				return nil
			}

			a.l.Warn().
				Str("controller", d.ControllerName()).
				Str("action", d.ActionName()).
				Msg("no handler for action")

			c.Response.SetStatus(http.StatusNotFound, "")
			d.Forward(a.cfg.NotFoundController, a.cfg.NotFoundAction)

			continue
		}

		c.forwarded = false

		if err := h(c); err != nil {
			a.l.Error().Err(err).
				Str("controller", d.ControllerName()).
				Str("action", d.ActionName()).
				Msg("action failed")

			c.Response.SetStatus(http.StatusInternalServerError, "")

			return nil
		}

		if !c.forwarded {
			return nil
		}
	}
}

func (a *App) loadSession(ctx context.Context, req *reqctx.Context, resp *response.Response) (string, error) {
	if a.sessions == nil {
		return "", nil
	}

	id := req.Cookies[a.cfg.SessionCookie]
	if id == "" {
		id = sessionstore.NewID()
		req.Cookies[a.cfg.SessionCookie] = id
		resp.SetHeader("Set-Cookie", a.cfg.SessionCookie+"="+id+"; Path=/; HttpOnly")

		return id, nil
	}

	data, err := a.sessions.Load(ctx, id)
	if err != nil {
		return "", fmt.Errorf("load session: %w", err)
	}

	req.Session = data

	return id, nil
}

func (a *App) saveSession(ctx context.Context, id string, req *reqctx.Context) error {
	if a.sessions == nil || id == "" {
		return nil
	}

	if err := a.sessions.Save(ctx, id, req.Session); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	return nil
}

func handlerKey(controller, action string) string {
	return controller + "." + action
}
