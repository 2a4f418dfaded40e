// Package config handles input from etc/*.toml files
package config

import (
	"bytes"
	"encoding/json"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	// EnvConfigJSON overrides the whole config with a JSON document.
	EnvConfigJSON = "HABIT_ADMIN_CONFIG_JSON"

	defaultShutDownTime  = 5
	defaultSessionExpiry = 12 * time.Hour
	defaultBaaSTimeout   = 15 * time.Second
	defaultLocation      = "UTC"
	defaultSubjectPrefix = "habitadmin"

	// GeneratorTemplate picks from the built-in template pool.
	GeneratorTemplate = "template"
	// GeneratorGemini asks Gemini for a new challenge.
	GeneratorGemini = "gemini"
)

// envBindings maps config keys to plain env variables, mostly secrets
// that should not live in main.toml.
var envBindings = map[string]string{ //nolint:gochecknoglobals
	"cron.secret":         "CRON_SECRET",
	"baas.url":            "BAAS_URL",
	"baas.servicerolekey": "BAAS_SERVICE_ROLE_KEY",
	"baas.jwtsecret":      "BAAS_JWT_SECRET",
	"generator.apikey":    "GEMINI_API_KEY",
	"events.natsurl":      "NATS_URL",
	"db.password":         "DB_PASSWORD",
}

// ReadConfig from config file.
func ReadConfig(path string) (Config, error) {
	var (
		c             Config
		JSONConfigEnv string
		err           error
	)

	// Read main configuration
	if path == "" {
		path = "./etc/"
	}

	v := viper.New()
	v.SetConfigFile(path + "main.toml")
	v.SetConfigType("toml")

	if err = v.ReadInConfig(); err != nil {
		return Config{}, errors.Wrap(err, "failed to read main config file")
	}

	for key, env := range envBindings {
		if err = v.BindEnv(key, env); err != nil {
			return Config{}, errors.Wrapf(err, "failed to bind env %s", env)
		}
	}

	if err = v.Unmarshal(&c); err != nil {
		return Config{}, errors.Wrap(err, "failed to decode main config file")
	}

	// override it from env
	JSONConfigEnv = os.Getenv(EnvConfigJSON)

	if JSONConfigEnv != "" {
		c, err = decodeAndMergeConfig(c, JSONConfigEnv)
		if err != nil {
			return c, err
		}
	}

	return c, validate(&c)
}

func decodeAndMergeConfig(c Config, configAsJSON string) (Config, error) {
	err := json.Unmarshal([]byte(configAsJSON), &c)
	if err != nil {
		return Config{}, errors.Wrap(err, "failed to read json config override")
	}

	return c, nil
}

// DumpConfig config as TOML String.
func DumpConfig(c *Config) (string, error) {
	var buffer bytes.Buffer
	t := toml.NewEncoder(&buffer)

	if err := t.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// DumpConfigJSON config as JSON String.
func DumpConfigJSON(c *Config) (string, error) {
	var buffer bytes.Buffer
	j := json.NewEncoder(&buffer)
	j.SetIndent("", "  ")

	if err := j.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// Location returns the zone used to compute challenge dates.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Schedule.Location)
	if err != nil {
		return time.UTC
	}

	return loc
}

// validate checks the settings the daemon can not start without and
// fills in defaults.
func validate(c *Config) error {
	invalidErrMessage := "invalid config"

	if c.Webserver.Port == 0 {
		return errors.Wrap(ErrWebServerPortCanNotBeZero, invalidErrMessage)
	}

	if c.Webserver.URL == "" {
		return errors.Wrap(ErrEmptyURL, invalidErrMessage)
	}

	switch c.DB.GormEngine {
	case "":
		c.DB.GormEngine = EnginePostgres
	case EnginePostgres, EngineMySQL, EngineSQLite:
	default:
		return errors.Wrap(ErrUnknownGormEngine, invalidErrMessage)
	}

	switch c.Generator.Provider {
	case "":
		c.Generator.Provider = GeneratorTemplate
	case GeneratorTemplate, GeneratorGemini:
	default:
		return errors.Wrap(ErrUnknownGenerator, invalidErrMessage)
	}

	if c.Schedule.Location == "" {
		c.Schedule.Location = defaultLocation
	}

	if _, err := time.LoadLocation(c.Schedule.Location); err != nil {
		return errors.Wrap(ErrInvalidLocation, invalidErrMessage)
	}

	if c.Webserver.ShutDownTime == 0 {
		c.Webserver.ShutDownTime = defaultShutDownTime
	}

	if c.Webserver.Session.ExpiryTime == 0 {
		c.Webserver.Session.ExpiryTime = defaultSessionExpiry
	}

	if c.BaaS.Timeout == 0 {
		c.BaaS.Timeout = defaultBaaSTimeout
	}

	if c.Events.SubjectPrefix == "" {
		c.Events.SubjectPrefix = defaultSubjectPrefix
	}

	return nil
}
