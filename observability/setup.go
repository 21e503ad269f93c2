package observability

import (
	"context"
	stderrors "errors"

	"github.com/kbukum/streamkit/config"
)

// ShutdownFunc flushes and stops the providers installed by Setup.
type ShutdownFunc func(ctx context.Context) error

// Setup installs the tracer and meter providers described by cfg.Telemetry.
// When telemetry is disabled it installs nothing and returns a no-op
// shutdown, leaving the global no-op providers in place.
func Setup(ctx context.Context, cfg config.ServiceConfig) (ShutdownFunc, error) {
	t := cfg.Telemetry
	if !t.Enabled {
		return func(context.Context) error { return nil }, nil
	}

	tp, err := InitTracer(ctx, TracerConfig{
		ServiceName:    cfg.Name,
		ServiceVersion: cfg.Version,
		Environment:    cfg.Environment,
		Endpoint:       t.Endpoint,
		Insecure:       t.Insecure,
		SampleRate:     t.SampleRate,
	})
	if err != nil {
		return nil, err
	}

	mp, err := InitMeter(ctx, MeterConfig{
		ServiceName:    cfg.Name,
		ServiceVersion: cfg.Version,
		Environment:    cfg.Environment,
		Endpoint:       t.Endpoint,
		Insecure:       t.Insecure,
		Interval:       t.Interval,
	})
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, err
	}

	return func(ctx context.Context) error {
		return stderrors.Join(mp.Shutdown(ctx), tp.Shutdown(ctx))
	}, nil
}
