package autochallenge

import "errors"

var (
	// ErrConfigStore wraps failures reading the config entries.
	ErrConfigStore = errors.New("config store unavailable")
	// ErrGeneration wraps generator failures.
	ErrGeneration = errors.New("challenge generation failed")
	// ErrPersistence wraps failures storing the challenge.
	ErrPersistence = errors.New("challenge could not be stored")
)
