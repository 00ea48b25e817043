package logger

import (
	"context"
	"io"
	"os"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
)

type ZeroLogger struct {
	logger zerolog.Logger
}

func NewZeroLog(env string) *ZeroLogger {
	return NewWithWriter(env, os.Stdout)
}

func NewWithWriter(env string, w io.Writer) *ZeroLogger {
	level := zerolog.DebugLevel
	if env == "production" {
		level = zerolog.InfoLevel
	}

	logger := zerolog.New(w).Level(level).With().Timestamp().Logger()
	return &ZeroLogger{logger: logger}
}

// Nop returns a logger that discards everything, for tests.
func Nop() *ZeroLogger {
	return &ZeroLogger{logger: zerolog.Nop()}
}

// helper to convert our abstraction []Field -> zerolog fields
func convert(fields []Field) []any {
	items := make([]any, 0, len(fields)*2)
	for _, f := range fields {
		if err, ok := f.Value.(error); ok && err != nil {
			items = append(items, f.Key, err.Error())
			continue
		}
		items = append(items, f.Key, f.Value)
	}
	return items
}

func (l *ZeroLogger) event(ctx context.Context, e *zerolog.Event, msg string, fields []Field) {
	if ctx != nil {
		if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
			e = e.Str("trace_id", sc.TraceID().String()).Str("span_id", sc.SpanID().String())
		}
	}
	e.Fields(convert(fields)).Msg(msg)
}

func (l *ZeroLogger) Debug(ctx context.Context, msg string, fields ...Field) {
	l.event(ctx, l.logger.Debug(), msg, fields)
}

func (l *ZeroLogger) Info(ctx context.Context, msg string, fields ...Field) {
	l.event(ctx, l.logger.Info(), msg, fields)
}

func (l *ZeroLogger) Warn(ctx context.Context, msg string, fields ...Field) {
	l.event(ctx, l.logger.Warn(), msg, fields)
}

func (l *ZeroLogger) Error(ctx context.Context, msg string, fields ...Field) {
	l.event(ctx, l.logger.Error(), msg, fields)
}
