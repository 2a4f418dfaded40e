package login

import "errors"

var (
	// ErrInternalServerError hides the cause of unexpected failures from clients.
	ErrInternalServerError = errors.New("internal server error")
	// ErrSessionNotStored is logged when the session backend rejects a write.
	ErrSessionNotStored = errors.New("session could not be stored")
)
