package authsdk

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// APIError is an error response from the service. The message is the
// human-readable error string the API returned.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gatehouse: %s (status %d)", e.Message, e.StatusCode)
}

// IsConflict reports whether the error was a 409, a duplicate signup or an
// already pending 2FA challenge.
func (e *APIError) IsConflict() bool { return e.StatusCode == http.StatusConflict }

// IsUnauthorized reports whether the error was a 401.
func (e *APIError) IsUnauthorized() bool { return e.StatusCode == http.StatusUnauthorized }

func apiError(resp *http.Response) error {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.Error == "" {
		body.Error = http.StatusText(resp.StatusCode)
	}
	return &APIError{StatusCode: resp.StatusCode, Message: body.Error}
}
