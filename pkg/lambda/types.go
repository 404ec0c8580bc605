package lambda

import (
	"context"
	"strings"
)

// Request represents a generic HTTP request for serverless functions
type Request struct {
	Method      string            `json:"method"`
	Path        string            `json:"path"`
	Headers     map[string]string `json:"headers"`
	QueryParams map[string]string `json:"query_params"`
	Body        []byte            `json:"body"`
	PathParams  map[string]string `json:"path_params"`
}

// Header returns the value of the named header, ignoring case
func (r *Request) Header(name string) string {
	if v, ok := r.Headers[name]; ok {
		return v
	}
	for k, v := range r.Headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}

// Response represents a generic HTTP response for serverless functions
type Response struct {
	StatusCode int               `json:"status_code"`
	Headers    map[string]string `json:"headers"`
	Body       []byte            `json:"body"`
}

// NewResponse creates a response with the given status, headers and body
func NewResponse(statusCode int, headers map[string]string, body []byte) *Response {
	h := make(map[string]string, len(headers))
	for k, v := range headers {
		h[k] = v
	}
	return &Response{
		StatusCode: statusCode,
		Headers:    h,
		Body:       body,
	}
}

// JSON creates a JSON response
func JSON(statusCode int, body []byte) *Response {
	return &Response{
		StatusCode: statusCode,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       body,
	}
}

// HandlerFunc is a framework-agnostic handler interface
type HandlerFunc func(ctx context.Context, req *Request) (*Response, error)
