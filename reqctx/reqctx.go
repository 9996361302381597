// Package reqctx models the ambient state of one simulated inbound request:
// session, query, form, cookies and uploaded files. Tests get a fresh
// context per test instead of clearing process-wide state.
package reqctx

import (
	"net/url"
)

type Context struct {
	Session map[string]string
	Query   url.Values
	Form    url.Values
	Cookies map[string]string
	Files   map[string][]byte
}

func New() *Context {
	return &Context{
		Session: make(map[string]string),
		Query:   url.Values{},
		Form:    url.Values{},
		Cookies: make(map[string]string),
		Files:   make(map[string][]byte),
	}
}
