package groups

import (
	"errors"
	"fmt"

	"github.com/tobiaswagner/gruppentool/internal/churchtools"
)

// ValidationError is a pre-flight rule violation. Its message is shown to
// the user verbatim; no remote call has been issued yet.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// RemoteCallError is a failed group-create call. It aborts the workflow; the
// user sees the API's translated message when one exists.
type RemoteCallError struct {
	Err error
}

func (e *RemoteCallError) Error() string { return "Fehler: " + e.UserMessage() }

func (e *RemoteCallError) Unwrap() error { return e.Err }

// UserMessage extracts the most helpful message: the API's translated
// message, then its raw message, then a generic fallback.
func (e *RemoteCallError) UserMessage() string {
	var apiErr *churchtools.APIError
	if errors.As(e.Err, &apiErr) {
		return apiErr.BestMessage()
	}
	return fmt.Sprintf("Gruppe konnte nicht angelegt werden: %v", e.Err)
}
