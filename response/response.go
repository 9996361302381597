package response

import (
	"net/http"
	"strconv"
	"strings"
)

// HeaderStatus is the combined status line header, e.g. "404 Not Found".
const HeaderStatus = "Status"

// Response is the outcome of a single application handle call: a status
// line, a header map and a body. Header keys are stored as provided, without
// canonicalization.
type Response struct {
	statusCode int
	headers    map[string]string
	body       strings.Builder
}

func New() *Response {
	r := &Response{
		headers: make(map[string]string),
	}
	r.SetStatus(http.StatusOK, "")

	return r
}

// SetStatus sets the status code and the combined "Status" header. An empty
// reason is filled in from the standard status text.
func (r *Response) SetStatus(code int, reason string) {
	if reason == "" {
		reason = http.StatusText(code)
	}

	r.statusCode = code
	r.headers[HeaderStatus] = strings.TrimSpace(strconv.Itoa(code) + " " + reason)
}

func (r *Response) StatusCode() int {
	return r.statusCode
}

func (r *Response) SetHeader(key, value string) {
	r.headers[key] = value
}

// Header returns the value for key, or an empty string when the header is
// not set.
func (r *Response) Header(key string) string {
	return r.headers[key]
}

func (r *Response) Headers() map[string]string {
	res := make(map[string]string, len(r.headers))
	for k, v := range r.headers {
		res[k] = v
	}

	return res
}

// Redirect answers 302 Found with the given Location.
func (r *Response) Redirect(location string) {
	r.SetStatus(http.StatusFound, "")
	r.SetHeader("Location", location)
}

func (r *Response) WriteString(s string) {
	r.body.WriteString(s)
}

func (r *Response) Content() string {
	return r.body.String()
}
