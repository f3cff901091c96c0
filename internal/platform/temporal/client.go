package temporal

import (
	"errors"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/trace"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
)

// ErrDisabled is returned by Dial when Temporal has been switched off.
var ErrDisabled = errors.New("temporal disabled via TEMPORAL_DISABLED env")

// Config selects the Temporal frontend.
type Config struct {
	Address   string
	Namespace string
	Disabled  bool
}

// Dial connects a client with the OpenTelemetry tracing interceptor and a slog-backed logger.
func Dial(cfg Config, tracer trace.Tracer, logger *slog.Logger) (client.Client, error) {
	if cfg.Disabled {
		return nil, ErrDisabled
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(temporalotel.TracerOptions{Tracer: tracer})
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  orDefault(cfg.Address, client.DefaultHostPort),
		Namespace: orDefault(cfg.Namespace, client.DefaultNamespace),
		Logger:    workerlog.NewStructuredLogger(logger),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
