package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds logging configuration.
type Config struct {
	Level      string // debug, info, warn, error
	Format     string // json, console
	OutputPath string // stdout, stderr, or file path
}

// Logger wraps zap logger with additional functionality.
type Logger struct {
	*zap.Logger
}

// NewLogger creates a new structured logger.
func NewLogger(cfg Config) (*Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	var encoder zapcore.Encoder
	switch cfg.Format {
	case "console":
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	default: // json
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	}

	var writer zapcore.WriteSyncer
	switch cfg.OutputPath {
	case "", "stdout":
		writer = zapcore.AddSync(os.Stdout)
	case "stderr":
		writer = zapcore.AddSync(os.Stderr)
	default:
		file, err := os.OpenFile(cfg.OutputPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, err
		}
		writer = zapcore.AddSync(file)
	}

	core := zapcore.NewCore(encoder, writer, level)

	logger := zap.New(core,
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
		zap.AddCallerSkip(1),
	)

	return &Logger{Logger: logger}, nil
}

// Nop returns a logger that discards everything, used as the layout engine's
// default when layout.Options.Logger is nil.
func Nop() *Logger {
	return &Logger{Logger: zap.NewNop()}
}

// With creates a child logger with additional fields.
func (l *Logger) With(fields ...zap.Field) *Logger {
	return &Logger{Logger: l.Logger.With(fields...)}
}

// WithError adds error context to logger.
func (l *Logger) WithError(err error) *Logger {
	return l.With(zap.Error(err))
}

// WithOperation adds operation context to logger.
func (l *Logger) WithOperation(operation string) *Logger {
	return l.With(zap.String("operation", operation))
}

// WithGraph adds graph identity context to logger.
func (l *Logger) WithGraph(graphID, graphName string) *Logger {
	return l.With(
		zap.String("graph_id", graphID),
		zap.String("graph_name", graphName),
	)
}

// LogLayout logs a completed layout pass.
func (l *Logger) LogLayout(algorithm string, nodeCount, linkCount int, duration float64, fields ...zap.Field) {
	baseFields := []zap.Field{
		zap.String("algorithm", algorithm),
		zap.Int("node_count", nodeCount),
		zap.Int("link_count", linkCount),
		zap.Float64("duration_seconds", duration),
	}
	allFields := append(baseFields, fields...)
	l.Info("layout completed", allFields...)
}

// LogSolverFallback logs a solver failure that triggered a grid fallback.
func (l *Logger) LogSolverFallback(reason string, err error) {
	l.Warn("solver failed, falling back to grid layout",
		zap.String("reason", reason),
		zap.Error(err),
	)
}
