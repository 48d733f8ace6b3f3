// Package observability wires OpenTelemetry tracing and metrics into
// todokit.
//
// Every service call runs inside an Operation: a span that is started before
// the request is built and ended on every exit path, carrying the resulting
// status and error.
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("todoist-smoke"))
//	defer tp.Shutdown(ctx)
//
//	ctx, op := observability.StartOperation(ctx, "ProjectService", "create project", metrics)
//	defer func() { op.End(status, err) }()
//
// Transport metrics (attempts, retries, durations) are recorded through
// Metrics when one is configured; a nil *Metrics is a no-op.
package observability
