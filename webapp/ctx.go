package webapp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ashep/go-mvc/dispatcher"
	"github.com/ashep/go-mvc/escaper"
	"github.com/ashep/go-mvc/reqctx"
	"github.com/ashep/go-mvc/response"
)

// Ctx is what an action handler works with: the ambient request, the
// response being built, and the dispatcher state of the current dispatch.
type Ctx struct {
	ctx        context.Context
	Request    *reqctx.Context
	Response   *response.Response
	Dispatcher *dispatcher.Dispatcher
	Escaper    *escaper.Escaper
	Logger     zerolog.Logger

	forwarded bool
}

func (c *Ctx) Context() context.Context {
	return c.ctx
}

// Param returns the route parameter by name, empty when absent.
func (c *Ctx) Param(name string) string {
	return c.Dispatcher.Params()[name]
}

// Forward reroutes the current dispatch to another controller/action. The
// handler should return right after calling it.
func (c *Ctx) Forward(controller, action string) {
	c.Dispatcher.Forward(controller, action)
	c.forwarded = true
}

func (c *Ctx) Redirect(location string) {
	c.Response.Redirect(location)
}

func (c *Ctx) WriteString(s string) {
	c.Response.WriteString(s)
}

// JSON writes v as an application/json response body.
func (c *Ctx) JSON(v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal response: %w", err)
	}

	c.Response.SetHeader("Content-Type", "application/json")
	c.Response.WriteString(string(b))

	return nil
}

// Render substitutes {{name}} placeholders in tpl with HTML-escaped values
// and writes the result as a text/html response body.
func (c *Ctx) Render(tpl string, data map[string]string) {
	out := tpl
	for k, v := range data {
		out = strings.ReplaceAll(out, "{{"+k+"}}", c.Escaper.HTML(v))
	}

	c.Response.SetHeader("Content-Type", "text/html")
	c.Response.WriteString(out)
}
