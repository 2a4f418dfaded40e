package baas

import (
	"errors"
	"fmt"
)

var (
	// ErrNotConfigured is returned when the BaaS URL or service key is missing.
	ErrNotConfigured = errors.New("baas client is not configured")
	// ErrUserNotFound is returned for unknown user ids.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserIDEmpty is returned when an operation gets an empty user id.
	ErrUserIDEmpty = errors.New("user id cannot be empty")
	// ErrInvalidBanDuration is returned for durations time.ParseDuration rejects.
	ErrInvalidBanDuration = errors.New("invalid ban duration")
)

// APIError is a non 2xx answer of the auth admin API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("baas api status %d", e.Status)
	}

	return fmt.Sprintf("baas api status %d: %s", e.Status, e.Message)
}
