package logging

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options selects the encoding and destination of log output.
type Options struct {
	// Format is "console" (default) or "json".
	Format string
	// Verbose enables debug-level entries.
	Verbose bool
	// Output defaults to stdout.
	Output zapcore.WriteSyncer
}

// New creates a logger. The console format prints operator-facing lines such as
// "[WARNING] File not found {"path": "..."}"; the json format is the structured
// production encoding.
func New(opts Options) (*zap.Logger, error) {
	out := opts.Output
	if out == nil {
		out = zapcore.Lock(os.Stdout)
	}

	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if opts.Verbose {
		level.SetLevel(zapcore.DebugLevel)
	}

	switch opts.Format {
	case "", "console":
		core := zapcore.NewCore(zapcore.NewConsoleEncoder(consoleEncoderConfig()), out, level)
		return zap.New(core), nil
	case "json":
		core := zapcore.NewCore(zapcore.NewJSONEncoder(jsonEncoderConfig()), out, level)
		return zap.New(core, zap.AddStacktrace(zapcore.ErrorLevel)), nil
	default:
		return nil, fmt.Errorf("build logger: unknown format %q", opts.Format)
	}
}

func consoleEncoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		LevelKey:         "level",
		MessageKey:       "msg",
		EncodeLevel:      BracketLevelEncoder,
		EncodeDuration:   zapcore.StringDurationEncoder,
		LineEnding:       zapcore.DefaultLineEnding,
		ConsoleSeparator: " ",
	}
}

func jsonEncoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "timestamp"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.StacktraceKey = "stacktrace"
	return cfg
}

// BracketLevelEncoder renders levels as [INFO], [WARNING], [ERROR].
func BracketLevelEncoder(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	name := l.CapitalString()
	if l == zapcore.WarnLevel {
		name = "WARNING"
	}
	enc.AppendString("[" + name + "]")
}
