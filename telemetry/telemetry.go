package telemetry

import (
	"context"
)

// Telemetry bundles the logger, metrics and tracer a netforge process runs
// with. Components receive the pieces they need rather than the bundle.
type Telemetry struct {
	Logger  *Logger
	Metrics *Metrics
	Tracer  *Tracer
	Config  Config
}

// New builds the full telemetry stack from cfg.
func New(cfg Config) (*Telemetry, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, err := NewLogger(cfg.Logging)
	if err != nil {
		return nil, err
	}

	metrics, err := NewMetrics(cfg.Metrics)
	if err != nil {
		return nil, err
	}

	tracer, err := NewTracer(cfg.Tracing, cfg.ServiceName, cfg.ServiceVersion)
	if err != nil {
		return nil, err
	}

	return &Telemetry{
		Logger:  logger,
		Metrics: metrics,
		Tracer:  tracer,
		Config:  cfg,
	}, nil
}

// WithContext embeds the logger in ctx so nested calls can log without
// plumbing the instance through every signature.
func (t *Telemetry) WithContext(ctx context.Context) context.Context {
	return t.Logger.WithContext(ctx)
}

// Serve starts the metrics listener when enabled.
func (t *Telemetry) Serve() {
	t.Metrics.StartServer(t.Logger)
}

// Shutdown flushes pending spans. The metrics listener keeps serving until
// the process exits.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	return t.Tracer.Shutdown(ctx)
}
