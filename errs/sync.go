package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Synchronization pipeline sentinels
var (
	ErrSourceAPI       = errors.New("source API request failed")
	ErrDataUnavailable = errors.New("data unavailable")
	ErrInvalidBackup   = errors.New("invalid backup")
	ErrAuth            = errors.New("authentication failed")
)

// SourceAPIError carries the HTTP status and response body of a non-2xx
// reply from Notion, GitHub or Google. Callers must not retry automatically.
type SourceAPIError struct {
	Service string
	Status  int
	Body    string
}

func NewSourceAPIError(service string, status int, body string) *SourceAPIError {
	return &SourceAPIError{Service: service, Status: status, Body: body}
}

func (e *SourceAPIError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("%s API error (status %d): %s", e.Service, e.Status, e.Body)
	}
	return fmt.Sprintf("%s API error (status %d)", e.Service, e.Status)
}

func (e *SourceAPIError) Unwrap() error { return ErrSourceAPI }

func IsSourceAPI(err error) bool {
	return errors.Is(err, ErrSourceAPI)
}

// NewDataUnavailableError is returned when every read fallback for a
// resource has been exhausted.
func NewDataUnavailableError(resource string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusServiceUnavailable,
		err:        ErrDataUnavailable,
		Details:    fmt.Sprintf("No source could provide %s", resource),
	}
}

func IsDataUnavailable(err error) bool {
	return errors.Is(err, ErrDataUnavailable)
}

func NewInvalidBackupError(reason string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrInvalidBackup,
		Details:    reason,
		Field:      "backup",
	}
}

func IsInvalidBackup(err error) bool {
	return errors.Is(err, ErrInvalidBackup)
}

func NewAuthError(operation string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusUnauthorized,
		err:        ErrAuth,
		Details:    fmt.Sprintf("Credential %s failed", operation),
		Cause:      cause,
	}
}

func IsAuth(err error) bool {
	return errors.Is(err, ErrAuth)
}
