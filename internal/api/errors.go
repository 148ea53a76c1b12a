package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"
)

// Kind classifies an API failure for the screen that receives it
type Kind int

const (
	KindOther Kind = iota
	KindTransport
	KindUnauthorized
	KindValidation
	KindNotFound
	KindServer
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindUnauthorized:
		return "unauthorized"
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindServer:
		return "server"
	default:
		return "other"
	}
}

// FieldError is one entry of a FastAPI-style validation detail list
type FieldError struct {
	Loc  []any  `json:"loc"`
	Msg  string `json:"msg"`
	Type string `json:"type"`
}

// Field returns the dotted location of the error without the request-part prefix
func (f FieldError) Field() string {
	var parts []string
	for i, l := range f.Loc {
		s := fmt.Sprint(l)
		if i == 0 && (s == "body" || s == "query" || s == "path") {
			continue
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, ".")
}

func (f FieldError) String() string {
	if field := f.Field(); field != "" {
		return field + ": " + f.Msg
	}
	return f.Msg
}

// Error is the normalized failure of a backend call
type Error struct {
	Status      int
	Method      string
	Path        string
	Detail      string
	FieldErrors []FieldError
	Err         error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Status == 0 {
		if e.Err != nil {
			return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
		}
		return fmt.Sprintf("%s %s: request failed", e.Method, e.Path)
	}
	if len(e.FieldErrors) > 0 {
		msgs := make([]string, len(e.FieldErrors))
		for i, f := range e.FieldErrors {
			msgs[i] = f.String()
		}
		return fmt.Sprintf("api error (%d): %s", e.Status, strings.Join(msgs, "; "))
	}
	if e.Detail != "" {
		return fmt.Sprintf("api error (%d): %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("api error (%d)", e.Status)
}

func (e *Error) Unwrap() error { return e.Err }

// Kind classifies the error according to its HTTP status
func (e *Error) Kind() Kind {
	if e == nil {
		return KindOther
	}
	switch {
	case e.Status == 0:
		return KindTransport
	case e.Status == http.StatusUnauthorized:
		return KindUnauthorized
	case e.Status == http.StatusBadRequest || e.Status == http.StatusUnprocessableEntity:
		return KindValidation
	case e.Status == http.StatusNotFound:
		return KindNotFound
	case e.Status >= 500:
		return KindServer
	default:
		return KindOther
	}
}

// Messages returns the user-facing detail lines of the error
func (e *Error) Messages() []string {
	if len(e.FieldErrors) > 0 {
		msgs := make([]string, len(e.FieldErrors))
		for i, f := range e.FieldErrors {
			msgs[i] = f.String()
		}
		return msgs
	}
	if e.Detail != "" {
		return []string{e.Detail}
	}
	return nil
}

// KindOf classifies any error returned by the client
func KindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind()
	}
	return KindOther
}

// IsUnauthorized reports whether err is a 401 from the backend
func IsUnauthorized(err error) bool { return KindOf(err) == KindUnauthorized }

// IsNotFound reports whether err is a 404 from the backend
func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }

// newStatusError builds an Error from a non-2xx response body
func newStatusError(method, path string, status int, body []byte) *Error {
	e := &Error{Status: status, Method: method, Path: path}

	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		e.Detail = truncate(strings.TrimSpace(string(body)), 200)
		return e
	}

	var msg string
	if err := json.Unmarshal(envelope.Detail, &msg); err == nil {
		e.Detail = msg
		return e
	}

	var fields []FieldError
	if err := json.Unmarshal(envelope.Detail, &fields); err == nil {
		e.FieldErrors = fields
		return e
	}

	e.Detail = truncate(string(envelope.Detail), 200)
	return e
}

// truncate shortens s to at most n bytes without splitting a rune
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
