package log

import (
	"os"
	"path/filepath"
	"time"

	zaplogfmt "github.com/jsternberg/zap-logfmt"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var _ Logger = &ZapLogger{}

// ZapLogger implements Logger on top of Uber's zap.
type ZapLogger struct {
	lg            *zap.SugaredLogger
	keysAndValues []any
}

// Config selects the output shape of a ZapLogger. All fields are readable
// from the environment so binaries can tune logging without flags.
type Config struct {
	Format string `env:"LOG_FORMAT" env-default:"console"` // console, logfmt or json
	Level  Level  `env:"LOG_LEVEL" env-default:"info"`     // debug, info, warn, error, fatal
	Output string `env:"LOG_OUTPUT" env-default:"stderr"`  // stderr, stdout or a file path
}

// NewZapLogger builds a ZapLogger from conf. Timestamps are RFC3339 in UTC.
// Extra write syncers receive every entry in addition to the configured
// output, which is how tests capture log lines.
func NewZapLogger(conf Config, extraWriters ...zapcore.WriteSyncer) Logger {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = func(ts time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(ts.UTC().Format(time.RFC3339))
	}

	var encoder zapcore.Encoder
	switch conf.Format {
	case "logfmt":
		encoder = zaplogfmt.NewEncoder(encCfg)
	case "json":
		encoder = zapcore.NewJSONEncoder(encCfg)
	default:
		encoder = zapcore.NewConsoleEncoder(encCfg)
	}

	ws := openOutput(conf.Output)
	wss := zapcore.NewMultiWriteSyncer(append(extraWriters, ws)...)

	core := zapcore.NewCore(encoder, wss, levelToZap(conf.Level))
	// AddCallerSkip(2) accounts for the ZapLogger wrapper methods,
	// so the reported call site is the application code.
	zl := zap.New(core, zap.AddCaller(), zap.AddCallerSkip(2)).Sugar()

	return &ZapLogger{lg: zl}
}

// openOutput resolves the configured destination. File destinations are
// created (with parent directories) and appended to; any failure falls back
// to stderr so a bad path never silences the process.
func openOutput(output string) zapcore.WriteSyncer {
	switch output {
	case "", "stderr":
		return zapcore.Lock(os.Stderr)
	case "stdout":
		return zapcore.Lock(os.Stdout)
	}

	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return zapcore.Lock(os.Stderr)
	}
	file, err := os.OpenFile(output, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return zapcore.Lock(os.Stderr)
	}
	return zapcore.AddSync(file)
}

func (l *ZapLogger) Debug(msg string, keysAndValues ...any) {
	l.log(LevelDebug, msg, keysAndValues...)
}

func (l *ZapLogger) Info(msg string, keysAndValues ...any) {
	l.log(LevelInfo, msg, keysAndValues...)
}

func (l *ZapLogger) Warn(msg string, keysAndValues ...any) {
	l.log(LevelWarn, msg, keysAndValues...)
}

func (l *ZapLogger) Error(msg string, keysAndValues ...any) {
	l.log(LevelError, msg, keysAndValues...)
}

func (l *ZapLogger) Fatal(msg string, keysAndValues ...any) {
	l.log(LevelFatal, msg, keysAndValues...)
}

func (l *ZapLogger) log(level Level, msg string, keysAndValues ...any) {
	l.lg.Logw(levelToZap(level), msg, keysAndValues...)
}

// WithKV returns a ZapLogger carrying the pair in every future entry.
func (l *ZapLogger) WithKV(key string, value any) Logger {
	return &ZapLogger{
		lg:            l.lg.With(key, value),
		keysAndValues: append(l.keysAndValues, key, value),
	}
}

// GetAllKV returns the pairs accumulated through WithKV.
func (l *ZapLogger) GetAllKV() []any {
	return l.keysAndValues
}

// WithName returns a ZapLogger named beneath the receiver, dot-separated.
func (l *ZapLogger) WithName(name string) Logger {
	return &ZapLogger{
		lg:            l.lg.Named(name),
		keysAndValues: l.keysAndValues,
	}
}

// Name returns the dotted name of the logger.
func (l *ZapLogger) Name() string {
	return l.lg.Desugar().Name()
}

// AddCallerSkip returns a ZapLogger skipping additional stack frames when
// resolving the call site.
func (l *ZapLogger) AddCallerSkip(skip int) Logger {
	return &ZapLogger{
		lg:            l.lg.WithOptions(zap.AddCallerSkip(skip)),
		keysAndValues: l.keysAndValues,
	}
}

func levelToZap(level Level) zapcore.Level {
	switch level {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelWarn:
		return zapcore.WarnLevel
	case LevelError:
		return zapcore.ErrorLevel
	case LevelFatal:
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}
