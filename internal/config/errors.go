package config

import (
	"errors"
)

var (
	// ErrEmptyURL error if config webserver.URL is empty.
	ErrEmptyURL = errors.New("config webserver.url can not be empty")

	// ErrWebServerPortCanNotBeZero error if config webserver listening port is 0.
	ErrWebServerPortCanNotBeZero = errors.New("config webserver.port listening port can not be 0")

	// ErrUnknownGormEngine error if db.gormengine is not supported.
	ErrUnknownGormEngine = errors.New("config db.gormengine must be postgres, mysql or sqlite")

	// ErrUnknownGenerator error if generator.provider is not supported.
	ErrUnknownGenerator = errors.New("config generator.provider must be template or gemini")

	// ErrInvalidLocation error if schedule.location is not a valid IANA zone.
	ErrInvalidLocation = errors.New("config schedule.location is not a valid time zone")
)
