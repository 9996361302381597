// Package registry holds the shared collaborators of one test run: the
// dispatcher, the escaper and the latest response. Instances are constructed
// lazily from registered factories and live until Reset, which is expected
// to run at every test boundary.
package registry

import (
	"github.com/ashep/go-mvc/dispatcher"
	"github.com/ashep/go-mvc/escaper"
	"github.com/ashep/go-mvc/response"
)

const (
	KeyDispatcher = "dispatcher"
	KeyEscaper    = "escaper"
	KeyResponse   = "response"
)

type Registry struct {
	factories map[string]func() any
	shared    map[string]any
}

func New() *Registry {
	return &Registry{
		factories: make(map[string]func() any),
		shared:    make(map[string]any),
	}
}

// SetShared registers a factory for key. The instance is constructed on
// first access and reused afterwards. Registering over an existing key drops
// the previously constructed instance.
func (r *Registry) SetShared(key string, f func() any) {
	r.factories[key] = f
	delete(r.shared, key)
}

func (r *Registry) getShared(key string) any {
	if v, ok := r.shared[key]; ok {
		return v
	}

	f, ok := r.factories[key]
	if !ok {
		return nil
	}

	v := f()
	r.shared[key] = v

	return v
}

// Has reports whether key has a registered factory or instance.
func (r *Registry) Has(key string) bool {
	if _, ok := r.shared[key]; ok {
		return true
	}

	_, ok := r.factories[key]

	return ok
}

// Dispatcher returns the shared dispatcher, or nil when none is registered.
func (r *Registry) Dispatcher() *dispatcher.Dispatcher {
	d, _ := r.getShared(KeyDispatcher).(*dispatcher.Dispatcher)
	return d
}

// Escaper returns the shared escaper, or nil when none is registered.
func (r *Registry) Escaper() *escaper.Escaper {
	e, _ := r.getShared(KeyEscaper).(*escaper.Escaper)
	return e
}

// Response returns the stored response, or nil when nothing was dispatched.
func (r *Registry) Response() *response.Response {
	res, _ := r.getShared(KeyResponse).(*response.Response)
	return res
}

// SetResponse stores the response of the latest handle call, replacing any
// previous one.
func (r *Registry) SetResponse(res *response.Response) {
	delete(r.factories, KeyResponse)
	r.shared[KeyResponse] = res
}

// Reset drops all factories and constructed instances.
func (r *Registry) Reset() {
	r.factories = make(map[string]func() any)
	r.shared = make(map[string]any)
}
