// Package observability exports stream terminal calls to OpenTelemetry.
//
// Setup wires the OTLP HTTP trace and metric exporters from a service
// config; StreamObserver turns every stream terminal call into a span and a
// set of metric points:
//
//	shutdown, err := observability.Setup(ctx, cfg.ServiceConfig)
//	defer shutdown(ctx)
//
//	obs, err := observability.NewStreamObserver(otel.GetTracerProvider(), otel.GetMeterProvider())
//	lines := stream.Generate(scan).With(stream.WithObserver(obs))
package observability
