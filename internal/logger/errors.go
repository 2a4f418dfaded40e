package logger

import (
	"errors"
	"fmt"
	"os"
)

var (
	// ErrAppNameIsEmpty is returned when Log.AppName is missing.
	ErrAppNameIsEmpty = errors.New("config Log.AppName can not be empty")
	// ErrServiceNameIsEmpty is returned when Log.ServiceName is missing.
	ErrServiceNameIsEmpty = errors.New("config Log.ServiceName can not be empty")
	// ErrDataDogAPIKeyIsEmpty is returned when DataDog shipping is enabled without an API key.
	ErrDataDogAPIKeyIsEmpty = errors.New("config Log.DataDog.APIKey can not be empty when enabled")
)

// ErrorHandler reports events zerolog failed to write. It is installed as
// zerolog.ErrorHandler by Init.
func ErrorHandler(err error) {
	_, _ = fmt.Fprintf(os.Stderr, "habit-admin: could not write log event: %v\n", err)
}
