package core

import (
	"context"
	"time"
)

// Service wraps store operations with logging, metrics, tracing, and audit
// recording. All instrumentation is optional; unset collaborators default to
// no-ops.
type Service struct {
	store   *Store
	logger  Logger
	metrics MetricsRecorder
	tracer  Tracer
	audit   AuditRecorder
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithLogger installs a structured logger.
func WithLogger(l Logger) ServiceOption {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics installs a metrics recorder.
func WithMetrics(m MetricsRecorder) ServiceOption {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithTracer installs a tracer.
func WithTracer(t Tracer) ServiceOption {
	return func(s *Service) {
		if t != nil {
			s.tracer = t
		}
	}
}

// WithAudit installs an audit recorder.
func WithAudit(a AuditRecorder) ServiceOption {
	return func(s *Service) {
		if a != nil {
			s.audit = a
		}
	}
}

// NewService constructs a service backed by the supplied store.
func NewService(store *Store, opts ...ServiceOption) *Service {
	s := &Service{
		store:   store,
		logger:  noopLogger{},
		metrics: noopMetrics{},
		tracer:  noopTracer{},
		audit:   noopAudit{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Store returns the underlying store.
func (s *Service) Store() *Store {
	return s.store
}

// Create runs the create pipeline with instrumentation.
func (s *Service) Create(ctx context.Context, resource string, attrs Record, opts Options) (Record, error) {
	var created Record
	err := s.instrument(ctx, "create", resource, func(ctx context.Context) (string, error) {
		var err error
		created, err = s.store.Create(ctx, resource, attrs, opts)
		if err != nil {
			return "", err
		}
		def, defErr := s.store.definition(resource)
		if defErr != nil {
			return "", nil
		}
		id, _ := created.ID(def.PrimaryKey())
		return id, nil
	})
	return created, err
}

// Update runs the update pipeline with instrumentation.
func (s *Service) Update(ctx context.Context, resource, id string, attrs Record, opts Options) (Record, error) {
	var updated Record
	err := s.instrument(ctx, "update", resource, func(ctx context.Context) (string, error) {
		var err error
		updated, err = s.store.Update(ctx, resource, id, attrs, opts)
		return id, err
	})
	return updated, err
}

// Eject removes an identity with instrumentation.
func (s *Service) Eject(ctx context.Context, resource, id string) (Record, error) {
	var ejected Record
	err := s.instrument(ctx, "eject", resource, func(context.Context) (string, error) {
		var err error
		ejected, err = s.store.Eject(resource, id)
		return id, err
	})
	return ejected, err
}

// Get returns the live record stored under id.
func (s *Service) Get(resource, id string) (Record, bool) {
	return s.store.Get(resource, id)
}

func (s *Service) instrument(ctx context.Context, op, resource string, fn func(context.Context) (string, error)) error {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, op)
	id, err := fn(ctx)
	span.End(err)
	s.metrics.Observe(ctx, op, err == nil, time.Since(start))

	entry := AuditEntry{Operation: op, Status: AuditStatusSuccess, Resource: resource, ID: id, At: time.Now().UTC()}
	if err != nil {
		entry.Status = AuditStatusError
		entry.Error = err.Error()
	}
	s.audit.Record(ctx, entry)

	if err != nil {
		s.logger.Error(op+" failed", "resource", resource, "error", err)
	} else {
		s.logger.Debug(op+" completed", "resource", resource, "id", id)
	}
	return err
}
