package logger

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const serviceName = "pnlanalyzer"

var (
	mu             sync.RWMutex
	globalLogger   = zap.NewNop()
	tracingEnabled bool
	tracer         trace.Tracer
	tracerProvider *sdktrace.TracerProvider
)

type LogConfig struct {
	Level          string // debug, info, warn, error
	Format         string // json or console
	TracingEnabled bool
}

// Init builds the global zap logger and, when enabled, the stdout span exporter
func Init(config LogConfig) error {
	logger, err := build(config)
	if err != nil {
		return err
	}

	mu.Lock()
	globalLogger = logger
	tracingEnabled = config.TracingEnabled
	mu.Unlock()

	if config.TracingEnabled {
		if err := initTracer(); err != nil {
			logger.Warn("failed to initialize tracer, tracing disabled", zap.Error(err))
			mu.Lock()
			tracingEnabled = false
			mu.Unlock()
		}
	}

	return nil
}

// Use swaps the global logger, tests pass zaptest or observer loggers
func Use(logger *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	globalLogger = logger
}

func build(config LogConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(strings.ToLower(config.Level))
	if err != nil {
		return nil, fmt.Errorf("error parsing log level %q: %w", config.Level, err)
	}

	var zc zap.Config
	switch strings.ToLower(config.Format) {
	case "", "json":
		zc = zap.NewProductionConfig()
	case "console", "text":
		zc = zap.NewDevelopmentConfig()
	default:
		return nil, fmt.Errorf("unknown log format %q", config.Format)
	}

	zc.Level = zap.NewAtomicLevelAt(level)
	zc.EncoderConfig.TimeKey = "time"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("error building logger: %w", err)
	}

	return logger.With(zap.String("service", serviceName)), nil
}

func initTracer() error {
	exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		return err
	}

	res, err := resource.New(
		context.Background(),
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion("1.0.0"),
		),
	)
	if err != nil {
		return err
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(provider)

	mu.Lock()
	tracerProvider = provider
	tracer = otel.Tracer(serviceName)
	mu.Unlock()

	return nil
}

// Shutdown flushes pending spans and buffered log lines
func Shutdown(ctx context.Context) error {
	mu.RLock()
	provider, logger := tracerProvider, globalLogger
	mu.RUnlock()

	// stdout sync fails on some terminals, nothing to do about it
	_ = logger.Sync()

	if provider != nil {
		return provider.Shutdown(ctx)
	}
	return nil
}

func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return globalLogger
}

func StartSpan(ctx context.Context, spanName string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	mu.RLock()
	enabled, t := tracingEnabled, tracer
	mu.RUnlock()

	if !enabled || t == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return t.Start(ctx, spanName, opts...)
}

// traceFields returns the trace and span ids of the span in ctx, if any
func traceFields(ctx context.Context) []zap.Field {
	span := trace.SpanFromContext(ctx)
	if !span.SpanContext().IsValid() {
		return nil
	}

	return []zap.Field{
		zap.String("trace_id", span.SpanContext().TraceID().String()),
		zap.String("span_id", span.SpanContext().SpanID().String()),
	}
}

func Debug(ctx context.Context, msg string, fields ...zap.Field) {
	L().Debug(msg, append(traceFields(ctx), fields...)...)
}

func Info(ctx context.Context, msg string, fields ...zap.Field) {
	L().Info(msg, append(traceFields(ctx), fields...)...)
}

func Warn(ctx context.Context, msg string, fields ...zap.Field) {
	L().Warn(msg, append(traceFields(ctx), fields...)...)
}

// Error logs err and marks the span in ctx as failed
func Error(ctx context.Context, msg string, err error, fields ...zap.Field) {
	span := trace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	L().Error(msg, append(traceFields(ctx), append([]zap.Field{zap.Error(err)}, fields...)...)...)
}

// OperationTimer ties a span to a timed step and logs its duration when it ends
type OperationTimer struct {
	ctx       context.Context
	span      trace.Span
	operation string
	start     time.Time
}

func StartOperation(ctx context.Context, operation string, attrs ...attribute.KeyValue) *OperationTimer {
	ctx, span := StartSpan(ctx, operation)
	span.SetAttributes(attrs...)

	return &OperationTimer{
		ctx:       ctx,
		span:      span,
		operation: operation,
		start:     time.Now(),
	}
}

func (ot *OperationTimer) Context() context.Context {
	return ot.ctx
}

// End finishes the span and returns the elapsed time
func (ot *OperationTimer) End(err error) time.Duration {
	elapsed := time.Since(ot.start)
	ot.span.SetAttributes(attribute.Int64("duration_ms", elapsed.Milliseconds()))

	if err != nil {
		ot.span.RecordError(err)
		ot.span.SetStatus(codes.Error, err.Error())
	} else {
		ot.span.SetStatus(codes.Ok, "completed")
	}
	ot.span.End()

	Debug(ot.ctx, "operation finished", zap.String("operation", ot.operation), zap.Duration("elapsed", elapsed), zap.Error(err))
	return elapsed
}
