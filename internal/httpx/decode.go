package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
)

// MaxRequestBodySize bounds JSON request bodies. A shorten request carries at
// most a 2 KiB URL and a short alias, so 16 KiB leaves ample room.
const MaxRequestBodySize = 16 << 10

// DecodeError is a request body the server refused to decode. Message is safe
// to return to the client.
type DecodeError struct {
	Status  int
	Message string
}

func (e *DecodeError) Error() string { return e.Message }

func badBody(status int, format string, args ...any) error {
	return &DecodeError{Status: status, Message: fmt.Sprintf(format, args...)}
}

// DecodeStatus returns the status a failed DecodeJSON should answer with.
func DecodeStatus(err error) int {
	var de *DecodeError
	if errors.As(err, &de) {
		return de.Status
	}
	return http.StatusBadRequest
}

// DecodeJSON decodes a single JSON object from the request body into a T.
// Unknown fields, trailing data, non-JSON media types and bodies over
// MaxRequestBodySize are rejected with a *DecodeError.
func DecodeJSON[T any](r *http.Request) (T, error) {
	var v T

	r.Body = http.MaxBytesReader(nil, r.Body, MaxRequestBodySize)
	defer func() {
		_ = r.Body.Close()
	}()

	if ct := r.Header.Get("Content-Type"); ct != "" {
		mediaType, _, err := mime.ParseMediaType(ct)
		if err != nil || mediaType != "application/json" {
			return v, badBody(http.StatusUnsupportedMediaType, "content type must be application/json")
		}
	}

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(&v); err != nil {
		var zero T
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		var maxBytesErr *http.MaxBytesError

		switch {
		case errors.As(err, &syntaxErr):
			return zero, badBody(http.StatusBadRequest, "malformed JSON at position %d", syntaxErr.Offset)
		case errors.As(err, &typeErr):
			return zero, badBody(http.StatusBadRequest, "invalid value for field %q", typeErr.Field)
		case errors.As(err, &maxBytesErr):
			return zero, badBody(http.StatusRequestEntityTooLarge, "request body too large (max %d bytes)", MaxRequestBodySize)
		case errors.Is(err, io.EOF):
			return zero, badBody(http.StatusBadRequest, "request body is empty")
		case errors.Is(err, io.ErrUnexpectedEOF):
			return zero, badBody(http.StatusBadRequest, "malformed JSON: unexpected end of body")
		default:
			// DisallowUnknownFields reports as a plain error: json: unknown field "x".
			return zero, badBody(http.StatusBadRequest, "failed to decode JSON: %v", err)
		}
	}

	if decoder.More() {
		var zero T
		return zero, badBody(http.StatusBadRequest, "request body contains multiple JSON objects")
	}

	return v, nil
}
