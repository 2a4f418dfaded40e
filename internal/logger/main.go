// Package logger sets up the global zerolog logger.
package logger

import (
	"io"
	"os"
	"path"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LevelWriter routes each event to a writer chosen by level: trace, warn,
// error and above, everything else to Info.
type LevelWriter struct {
	Error io.Writer
	Warn  io.Writer
	Info  io.Writer
	Trace io.Writer
}

// For returns the writer for l.
func (lw *LevelWriter) For(l zerolog.Level) io.Writer {
	switch {
	case l == zerolog.TraceLevel:
		return lw.Trace
	case l == zerolog.WarnLevel:
		return lw.Warn
	case l > zerolog.WarnLevel && l != zerolog.NoLevel:
		return lw.Error
	default:
		return lw.Info
	}
}

// Write implements io.Writer, events without a level go to Info.
func (lw *LevelWriter) Write(p []byte) (int, error) {
	return lw.Info.Write(p) //nolint:wrapcheck
}

// WriteLevel implements zerolog.LevelWriter.
func (lw *LevelWriter) WriteLevel(l zerolog.Level, p []byte) (int, error) {
	if l == zerolog.Disabled {
		return 0, nil
	}

	return lw.For(l).Write(p) //nolint:wrapcheck
}

// Init replaces the global logger. Outputs are console, rolling files and
// DataDog, each only when enabled. With none enabled nothing is written.
func Init(cfg Log) error {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return errors.Wrapf(err, "loglevel %s is not supported", cfg.LogLevel)
	}

	if cfg.ServiceName == "" {
		return ErrServiceNameIsEmpty
	}

	if cfg.AppName == "" {
		return ErrAppNameIsEmpty
	}

	writers, err := outputs(cfg)
	if err != nil {
		return err
	}

	zerolog.SetGlobalLevel(level)
	zerolog.ErrorHandler = ErrorHandler //nolint:reassign

	withStack := level == zerolog.TraceLevel
	if withStack {
		zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack //nolint:reassign
	}

	ctx := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Hook(NewPrometheusHook(cfg.ServiceName)).
		With().
		Timestamp().
		Str("service", cfg.ServiceName)

	if cfg.LogEnv != "" {
		ctx = ctx.Str("env", cfg.LogEnv)
	}

	if cfg.ReportCaller {
		ctx = ctx.Caller()

		if withStack {
			ctx = ctx.Stack()
		}
	}

	log.Logger = ctx.Logger()

	return nil
}

func outputs(cfg Log) ([]io.Writer, error) {
	var writers []io.Writer

	if cfg.Console.Enabled {
		writers = append(writers, NewConsoleWriter(cfg))
	}

	if cfg.File.Enabled {
		if w := newRollingFiles(cfg.File); w != nil {
			writers = append(writers, w)
		}
	}

	if cfg.DataDog.Enabled {
		if cfg.DataDog.ServiceName == "" {
			cfg.DataDog.ServiceName = cfg.ServiceName
		}

		dw, err := NewDataDogWriter(cfg.DataDog)
		if err != nil {
			return nil, errors.Wrap(err, "can't init datadog log shipping")
		}

		writers = append(writers, dw)
	}

	return writers, nil
}

// newRollingFiles writes one lumberjack file per level group, nil when the
// directory cannot be created.
func newRollingFiles(f LogFile) io.Writer {
	if err := os.MkdirAll(f.Path, 0o750); err != nil { //nolint:mnd
		log.Error().Err(err).Str("path", f.Path).Msg("can't create log directory")

		return nil
	}

	rolling := func(name string, maxSize, maxAge, maxBackups int) io.Writer {
		return &lumberjack.Logger{
			Filename:   path.Join(f.Path, name),
			MaxSize:    maxSize,
			MaxAge:     maxAge,
			MaxBackups: maxBackups,
		}
	}

	return &LevelWriter{
		Error: rolling(f.ErrorLog, f.ErrorMaxSize, f.ErrorMaxAge, f.ErrorMaxBackups),
		Warn:  rolling(f.WarnLog, f.WarnMaxSize, f.WarnMaxAge, f.WarnMaxBackups),
		Info:  rolling(f.InfoLog, f.InfoMaxSize, f.InfoMaxAge, f.InfoMaxBackups),
		Trace: rolling(f.TraceLog, f.TraceMaxSize, f.TraceMaxAge, f.TraceMaxBackups),
	}
}

// NewConsoleWriter sends info and debug to stdout and the rest to stderr,
// human readable when Console.UseConsoleWriter is set.
func NewConsoleWriter(cfg Log) io.Writer {
	out := func(f *os.File) io.Writer {
		if cfg.Console.UseConsoleWriter {
			return zerolog.ConsoleWriter{Out: f, TimeFormat: zerolog.TimeFieldFormat}
		}

		return f
	}

	return &LevelWriter{
		Error: out(os.Stderr),
		Warn:  out(os.Stderr),
		Info:  out(os.Stdout),
		Trace: out(os.Stderr),
	}
}
