package churchtools

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// APIError is a non-2xx response from the ChurchTools API.
type APIError struct {
	Status     int
	Message    string
	Translated string
}

// apiErrorBody matches the error payload ChurchTools sends alongside
// non-2xx statuses.
type apiErrorBody struct {
	Message           string `json:"message"`
	TranslatedMessage string `json:"translatedMessage"`
}

func newAPIError(status int, body []byte) *APIError {
	var parsed apiErrorBody
	_ = json.Unmarshal(body, &parsed)
	return &APIError{
		Status:     status,
		Message:    parsed.Message,
		Translated: parsed.TranslatedMessage,
	}
}

func (e *APIError) Error() string {
	return fmt.Sprintf("churchtools: HTTP %d: %s", e.Status, e.BestMessage())
}

// BestMessage prefers the translated message, then the raw message, then a
// generic German fallback.
func (e *APIError) BestMessage() string {
	if e.Translated != "" {
		return e.Translated
	}
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("Anfrage fehlgeschlagen (HTTP %d)", e.Status)
}

// IsConflict reports whether err is a 409-class API response, e.g. adding a
// person who is already a group member.
func IsConflict(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusConflict
}
