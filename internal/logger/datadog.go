package logger

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/DataDog/datadog-api-client-go/v2/api/datadog"
	"github.com/DataDog/datadog-api-client-go/v2/api/datadogV2"
	"github.com/rs/zerolog"
)

const (
	defaultDataDogTimeout = 5 * time.Second
	dataDogSource         = "go"
)

// logSubmitter is the part of the DataDog logs API the writer needs.
type logSubmitter interface {
	SubmitLog(
		ctx context.Context,
		body []datadogV2.HTTPLogItem,
		o ...datadogV2.SubmitLogOptionalParameters,
	) (interface{}, *http.Response, error)
}

// DataDogWriter ships every log line at or above MinLevel to DataDog.
// Lines below MinLevel are dropped silently.
type DataDogWriter struct {
	api      logSubmitter
	cfg      DataDog
	minLevel zerolog.Level
	hostname string
	ctx      context.Context //nolint:containedctx // holds the api keys, not a request scope
}

// NewDataDogWriter creates a writer for the DataDog logs intake.
func NewDataDogWriter(cfg DataDog) (*DataDogWriter, error) {
	if cfg.APIKey == "" {
		return nil, ErrDataDogAPIKeyIsEmpty
	}

	return newDataDogWriter(cfg, datadogV2.NewLogsApi(datadog.NewAPIClient(datadog.NewConfiguration())))
}

func newDataDogWriter(cfg DataDog, api logSubmitter) (*DataDogWriter, error) {
	minLevel := zerolog.WarnLevel

	if cfg.MinLevel != "" {
		l, err := zerolog.ParseLevel(cfg.MinLevel)
		if err != nil {
			return nil, err //nolint:wrapcheck
		}

		minLevel = l
	}

	if cfg.Timeout == 0 {
		cfg.Timeout = defaultDataDogTimeout
	}

	hostname, _ := os.Hostname() //nolint:errcheck // empty hostname is fine

	ctx := context.WithValue(
		context.Background(),
		datadog.ContextAPIKeys,
		map[string]datadog.APIKey{
			"apiKeyAuth": {Key: cfg.APIKey},
		},
	)

	if cfg.Site != "" {
		ctx = context.WithValue(ctx, datadog.ContextServerVariables, map[string]string{"site": cfg.Site})
	}

	return &DataDogWriter{
		api:      api,
		cfg:      cfg,
		minLevel: minLevel,
		hostname: hostname,
		ctx:      ctx,
	}, nil
}

// Write implements io.Writer. Lines without a level are always shipped.
func (w *DataDogWriter) Write(p []byte) (int, error) {
	return w.WriteLevel(zerolog.NoLevel, p)
}

// WriteLevel implements zerolog.LevelWriter.
func (w *DataDogWriter) WriteLevel(l zerolog.Level, p []byte) (int, error) {
	if l != zerolog.NoLevel && l < w.minLevel {
		return len(p), nil
	}

	ctx, cancel := context.WithTimeout(w.ctx, w.cfg.Timeout)
	defer cancel()

	item := datadogV2.HTTPLogItem{
		Ddsource: datadog.PtrString(dataDogSource),
		Hostname: datadog.PtrString(w.hostname),
		Message:  string(p),
		Service:  datadog.PtrString(w.cfg.ServiceName),
	}

	if w.cfg.Tags != "" {
		item.Ddtags = datadog.PtrString(w.cfg.Tags)
	}

	if _, _, err := w.api.SubmitLog(ctx, []datadogV2.HTTPLogItem{item}); err != nil {
		return 0, err //nolint:wrapcheck
	}

	return len(p), nil
}
