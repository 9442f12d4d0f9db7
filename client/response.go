package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
)

// Response is the result of Fetch. The body is read once on first access and
// buffered, so JSON may be called more than once.
type Response struct {
	*http.Response

	once    sync.Once
	body    []byte
	readErr error
}

func newResponse(resp *http.Response) *Response {
	return &Response{Response: resp}
}

// OK reports a 2xx status.
func (r *Response) OK() bool {
	return r != nil && r.Response != nil && r.StatusCode >= 200 && r.StatusCode < 300
}

// Status returns the HTTP status code (0 for a nil response).
func (r *Response) Status() int {
	if r == nil || r.Response == nil {
		return 0
	}
	return r.StatusCode
}

// Bytes returns the buffered body.
func (r *Response) Bytes() ([]byte, error) {
	if r == nil || r.Response == nil {
		return nil, errors.New("nil response")
	}
	r.once.Do(func() {
		if r.Body == nil {
			return
		}
		defer r.Body.Close()
		r.body, r.readErr = io.ReadAll(r.Body)
	})
	return r.body, r.readErr
}

// JSON decodes the body into v.
func (r *Response) JSON(v any) error {
	data, err := r.Bytes()
	if err != nil {
		return err
	}
	return json.NewDecoder(bytes.NewReader(data)).Decode(v)
}

// Close releases the body without reading it.
func (r *Response) Close() error {
	if r == nil || r.Response == nil || r.Body == nil {
		return nil
	}
	return r.Body.Close()
}

// HTTPError is a non-2xx response with the best message the server gave.
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return e.Message
}

type errorBody struct {
	Error  any `json:"error"`
	Detail any `json:"detail"`
}

// ErrorMessage returns the server's "error" or "detail" message, or fallback
// when the body has neither or cannot be read.
func ErrorMessage(r *Response, fallback string) string {
	var body errorBody
	if r == nil || r.JSON(&body) != nil {
		return fallback
	}
	if msg := messageText(body.Error); msg != "" {
		return msg
	}
	if msg := messageText(body.Detail); msg != "" {
		return msg
	}
	return fallback
}

// ReadOKJSON decodes a successful response into v. A non-2xx response becomes
// an *HTTPError carrying the server message (or "HTTP <status>"); a 2xx with
// an empty, null or malformed body becomes an error with fallback.
func ReadOKJSON(r *Response, fallback string, v any) error {
	if !r.OK() {
		status := r.Status()
		defaultMsg := "HTTP error"
		if status != 0 {
			defaultMsg = fmt.Sprintf("HTTP %d", status)
		}
		return &HTTPError{Status: status, Message: ErrorMessage(r, defaultMsg)}
	}

	data, err := r.Bytes()
	if err != nil || len(bytes.TrimSpace(data)) == 0 || bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return errors.New(fallback)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return errors.New(fallback)
	}
	return nil
}

func messageText(v any) string {
	switch value := v.(type) {
	case string:
		return strings.TrimSpace(value)
	case []any:
		for _, item := range value {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
	}
	return ""
}
