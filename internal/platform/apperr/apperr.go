// Package apperr defines the error kinds shared by the domain services and
// maps them onto HTTP responses.
package apperr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// ---------------------------------------------------------------------------
// Sentinel errors
// ---------------------------------------------------------------------------

var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("insufficient role")
	ErrValidation      = errors.New("validation failed")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
)

// ValidationError reports the offending input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Invalid builds a ValidationError for field.
func Invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// Error carries the caller-facing message for one of the sentinel kinds.
// Wrapping it with more context for logs does not change what the client
// sees.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

// NotFound reports a missing entity, e.g. "patient not found".
func NotFound(entity string) error {
	return &Error{Kind: ErrNotFound, Message: entity + " not found"}
}

func Conflict(reason string) error {
	return &Error{Kind: ErrConflict, Message: reason}
}

func Unauthenticated(reason string) error {
	return &Error{Kind: ErrUnauthenticated, Message: reason}
}

func Forbidden(reason string) error {
	return &Error{Kind: ErrForbidden, Message: reason}
}

// ErrorResponse is the JSON body written for every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

var sentinels = []error{ErrUnauthenticated, ErrForbidden, ErrValidation, ErrNotFound, ErrConflict}

// publicMessage is the text a client may see for err: the message of the
// outermost *Error or, for a bare wrapped sentinel, the sentinel's own text.
func publicMessage(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Message
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return ""
}

// Status returns the HTTP status code for err. Unknown errors are internal.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	return http.StatusInternalServerError
}

// HTTPErrorHandler replaces echo's default handler. Internal errors are
// logged with their cause and answered with a generic message.
func HTTPErrorHandler(logger zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := Status(err)
		body := ErrorResponse{Error: publicMessage(err)}

		var ve *ValidationError
		var he *echo.HTTPError
		switch {
		case errors.As(err, &ve):
			body.Field = ve.Field
			body.Error = ve.Message
		case errors.As(err, &he):
			body.Error = fmt.Sprintf("%v", he.Message)
		case status == http.StatusInternalServerError:
			rid, _ := c.Get("request_id").(string)
			logger.Error().Err(err).
				Str("request_id", rid).
				Str("method", c.Request().Method).
				Str("path", c.Request().URL.Path).
				Msg("internal error")
			body.Error = "internal server error"
		}

		var werr error
		if c.Request().Method == http.MethodHead {
			werr = c.NoContent(status)
		} else {
			werr = c.JSON(status, body)
		}
		if werr != nil {
			logger.Error().Err(werr).Msg("write error response")
		}
	}
}

// Bind decodes the request body into v. Malformed input becomes a
// ValidationError; other echo errors raised while reading the body, such as
// 413 from the body limit, keep their status.
func Bind(c echo.Context, v interface{}) error {
	err := c.Bind(v)
	if err == nil {
		return nil
	}
	for e := err; e != nil; e = errors.Unwrap(e) {
		if he, ok := e.(*echo.HTTPError); ok && he.Code != http.StatusBadRequest {
			return he
		}
	}
	return Invalid("", "invalid request body")
}
