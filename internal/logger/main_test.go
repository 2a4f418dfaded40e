package logger_test

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/habitrack/habit-admin/internal/logger"
)

func baseConfig() logger.Log {
	return logger.Log{LogLevel: "info", ServiceName: "habit-admin", AppName: "habit-admin"}
}

func TestInitConsole(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*logger.Log)
		wantOut  bool
		wantJSON bool
	}{
		{
			name:   "nothing enabled",
			mutate: func(c *logger.Log) { c.LogLevel = "" },
		},
		{
			name:     "console json",
			mutate:   func(c *logger.Log) { c.Console.Enabled = true },
			wantOut:  true,
			wantJSON: true,
		},
		{
			name: "console pretty",
			mutate: func(c *logger.Log) {
				c.Console = logger.Console{Enabled: true, UseConsoleWriter: true}
			},
			wantOut: true,
		},
		{
			name: "trace with caller",
			mutate: func(c *logger.Log) {
				c.LogLevel = "trace"
				c.ReportCaller = true
				c.Console.Enabled = true
			},
			wantOut:  true,
			wantJSON: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := baseConfig()
			cfg.LogEnv = "test"
			tt.mutate(&cfg)

			out := capture(t, cfg)

			if !tt.wantOut {
				assert.Empty(t, out)
				return
			}

			require.NotEmpty(t, out)

			if !tt.wantJSON {
				return
			}

			sc := bufio.NewScanner(strings.NewReader(out))
			for sc.Scan() {
				var line map[string]any
				require.NoError(t, json.Unmarshal(sc.Bytes(), &line), sc.Text())
				assert.Equal(t, "habit-admin", line["service"])
				assert.Equal(t, "test", line["env"])
			}
		})
	}
}

func TestInitFilesSplitByLevel(t *testing.T) {
	dir := t.TempDir()

	cfg := baseConfig()
	cfg.File = logger.LogFile{
		Enabled:  true,
		Path:     dir,
		InfoLog:  "info.log",
		WarnLog:  "warn.log",
		ErrorLog: "error.log",
		TraceLog: "trace.log",
	}

	require.NoError(t, logger.Init(cfg))
	t.Cleanup(func() { log.Logger = zerolog.Nop() })

	log.Info().Msg("challenge created")
	log.Warn().Msg("timestamp not recorded")
	log.Error().Msg("generator failed")

	read := func(name string) string {
		b, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err)

		return string(b)
	}

	assert.Contains(t, read("info.log"), "challenge created")
	assert.Contains(t, read("warn.log"), "timestamp not recorded")
	assert.Contains(t, read("error.log"), "generator failed")
	assert.NotContains(t, read("info.log"), "generator failed")
}

func TestLevelWriterRouting(t *testing.T) {
	var errW, warnW, infoW, traceW bytes.Buffer
	lw := &logger.LevelWriter{Error: &errW, Warn: &warnW, Info: &infoW, Trace: &traceW}

	tests := []struct {
		level zerolog.Level
		want  *bytes.Buffer
	}{
		{zerolog.TraceLevel, &traceW},
		{zerolog.DebugLevel, &infoW},
		{zerolog.InfoLevel, &infoW},
		{zerolog.WarnLevel, &warnW},
		{zerolog.ErrorLevel, &errW},
		{zerolog.FatalLevel, &errW},
		{zerolog.NoLevel, &infoW},
	}

	for _, tt := range tests {
		assert.Same(t, tt.want, lw.For(tt.level), tt.level.String())
	}

	n, err := lw.WriteLevel(zerolog.Disabled, []byte("x"))
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestInitErrors(t *testing.T) {
	tests := []struct {
		name string
		cfg  logger.Log
		want error
	}{
		{name: "missing service", cfg: logger.Log{LogLevel: "info", AppName: "x"}, want: logger.ErrServiceNameIsEmpty},
		{name: "missing app", cfg: logger.Log{LogLevel: "info", ServiceName: "x"}, want: logger.ErrAppNameIsEmpty},
		{
			name: "datadog without key",
			cfg:  logger.Log{LogLevel: "info", ServiceName: "x", AppName: "x", DataDog: logger.DataDog{Enabled: true}},
			want: logger.ErrDataDogAPIKeyIsEmpty,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, errors.Is(logger.Init(tt.cfg), tt.want))
		})
	}

	assert.Error(t, logger.Init(logger.Log{LogLevel: "loud", ServiceName: "x", AppName: "x"}))
}

// capture runs Init with cfg and logs a few events, returning what reached
// stdout and stderr.
func capture(t *testing.T, cfg logger.Log) string {
	t.Helper()

	stdout, stderr := os.Stdout, os.Stderr

	r, w, err := os.Pipe()
	require.NoError(t, err)

	os.Stdout, os.Stderr = w, w

	initErr := logger.Init(cfg)

	log.Info().Msg("challenge created")
	log.Error().Err(errors.New("generator down")).Msg("challenge generation failed") //nolint:err113
	log.Trace().Msg("config entries read")

	done := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		done <- buf.String()
	}()

	_ = w.Close()
	os.Stdout, os.Stderr = stdout, stderr
	log.Logger = zerolog.Nop()

	out := <-done

	require.NoError(t, initErr)

	return out
}
