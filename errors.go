package main

import (
	"errors"
	"net/http"
	"sort"
	"strings"

	"github.com/go-chi/render"
	"go.uber.org/zap"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
)

// ValidationErrors maps a field name to its messages.
type ValidationErrors map[string][]string

func (v ValidationErrors) Add(field, msg string) {
	v[field] = append(v[field], msg)
}

func (v ValidationErrors) Empty() bool {
	return len(v) == 0
}

// Err returns v as an error, or nil when there is nothing to report.
func (v ValidationErrors) Err() error {
	if v.Empty() {
		return nil
	}
	return v
}

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	var parts []string
	for _, f := range fields {
		for _, m := range v[f] {
			parts = append(parts, f+" "+m)
		}
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// ErrResponse is the JSON body of every error response.
type ErrResponse struct {
	Err            error `json:"-"`
	HTTPStatusCode int   `json:"-"`

	StatusText string              `json:"status"`
	Errors     map[string][]string `json:"errors,omitempty"`
}

func (e *ErrResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.HTTPStatusCode)
	return nil
}

func ErrInvalidRequest(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusBadRequest,
		StatusText:     "Invalid request.",
		Errors:         map[string][]string{"base": {err.Error()}},
	}
}

func ErrValidation(v ValidationErrors) render.Renderer {
	return &ErrResponse{
		Err:            v,
		HTTPStatusCode: http.StatusUnprocessableEntity,
		StatusText:     "Validation failed.",
		Errors:         v,
	}
}

func ErrInternal(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusInternalServerError,
		StatusText:     "Internal server error.",
	}
}

var (
	ErrNotFoundResponse  = &ErrResponse{HTTPStatusCode: http.StatusNotFound, StatusText: "Resource not found."}
	ErrForbiddenResponse = &ErrResponse{HTTPStatusCode: http.StatusForbidden, StatusText: "Forbidden."}
	ErrBadLoginResponse  = &ErrResponse{
		HTTPStatusCode: http.StatusUnauthorized,
		StatusText:     "Unauthorized.",
		Errors:         map[string][]string{"base": {"invalid email or password"}},
	}
)

// renderError converts err into the matching response. Unknown errors are
// logged and hidden behind a 500.
func renderError(w http.ResponseWriter, r *http.Request, err error) {
	var resp render.Renderer
	var verr ValidationErrors

	switch {
	case errors.As(err, &verr):
		resp = ErrValidation(verr)
	case errors.Is(err, ErrNotFound):
		resp = ErrNotFoundResponse
	case errors.Is(err, ErrForbidden):
		resp = ErrForbiddenResponse
	case errors.Is(err, ErrUnauthorized):
		resp = ErrBadLoginResponse
	default:
		loggerFrom(r.Context()).Error("request failed", zap.Error(err))
		resp = ErrInternal(err)
	}

	if err := render.Render(w, r, resp); err != nil {
		loggerFrom(r.Context()).Error("rendering error response", zap.Error(err))
	}
}
