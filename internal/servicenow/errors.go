package servicenow

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/conn-castle/snset/internal/messages"
)

// ErrInvalidInstance is returned for instances outside the configured allow-list.
var ErrInvalidInstance = errors.New(messages.ServiceNowInvalidInstance)

// StatusError reports a non-2xx response from the Table API.
type StatusError struct {
	StatusCode int
	Status     string
	URL        string
	// Message is the error.message field of the response body, when present.
	Message string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf(messages.ServiceNowUnexpectedStatusFmt, e.URL, e.Status)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// IsBadRequest reports whether err is an HTTP 400 from the Table API.
func IsBadRequest(err error) bool {
	return StatusCode(err) == http.StatusBadRequest
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}

type errorBody struct {
	Error struct {
		Message string `json:"message"`
		Detail  string `json:"detail"`
	} `json:"error"`
}

// errorMessage extracts the Table API error message from a response body.
func errorMessage(body []byte) string {
	var payload errorBody
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	parts := make([]string, 0, 2)
	for _, s := range []string{payload.Error.Message, payload.Error.Detail} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " - ")
}
