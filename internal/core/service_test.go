package core

import (
	"context"
	"sync"
	"testing"
	"time"
)

type captureLogger struct {
	mu    sync.Mutex
	lines []capturedLine
}

type capturedLine struct {
	level   string
	msg     string
	keyvals []any
}

func (l *captureLogger) log(level, msg string, keyvals ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, capturedLine{level: level, msg: msg, keyvals: keyvals})
}

func (l *captureLogger) Debug(msg string, keyvals ...any) { l.log("debug", msg, keyvals...) }
func (l *captureLogger) Info(msg string, keyvals ...any)  { l.log("info", msg, keyvals...) }
func (l *captureLogger) Warn(msg string, keyvals ...any)  { l.log("warn", msg, keyvals...) }
func (l *captureLogger) Error(msg string, keyvals ...any) { l.log("error", msg, keyvals...) }

func (l *captureLogger) byLevel(level string) []capturedLine {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []capturedLine
	for _, line := range l.lines {
		if line.level == level {
			out = append(out, line)
		}
	}
	return out
}

type captureMetrics struct {
	mu           sync.Mutex
	observations []metricObservation
}

type metricObservation struct {
	operation string
	success   bool
	duration  time.Duration
}

func (m *captureMetrics) Observe(_ context.Context, operation string, success bool, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observations = append(m.observations, metricObservation{operation, success, duration})
}

type captureTracer struct {
	mu    sync.Mutex
	spans []capturedSpan
}

type capturedSpan struct {
	operation string
	err       error
}

func (t *captureTracer) Start(ctx context.Context, operation string) (context.Context, TraceSpan) {
	return ctx, &captureSpan{tracer: t, operation: operation}
}

type captureSpan struct {
	tracer    *captureTracer
	operation string
}

func (s *captureSpan) End(err error) {
	s.tracer.mu.Lock()
	defer s.tracer.mu.Unlock()
	s.tracer.spans = append(s.tracer.spans, capturedSpan{operation: s.operation, err: err})
}

type captureAudit struct {
	mu      sync.Mutex
	entries []AuditEntry
}

func (a *captureAudit) Record(_ context.Context, entry AuditEntry) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, entry)
}

func newInstrumentedService() (*Service, *captureLogger, *captureMetrics, *captureTracer, *captureAudit) {
	store := newDocumentStore(&stubAdapter{}, ResourceDefinition{})
	logger := &captureLogger{}
	metrics := &captureMetrics{}
	tracer := &captureTracer{}
	audit := &captureAudit{}
	svc := NewService(store,
		WithLogger(logger),
		WithMetrics(metrics),
		WithTracer(tracer),
		WithAudit(audit),
	)
	return svc, logger, metrics, tracer, audit
}

func TestServiceCreateInstrumentsSuccess(t *testing.T) {
	svc, logger, metrics, tracer, audit := newInstrumentedService()

	created, err := svc.Create(context.Background(), "document", Record{"author": "John Anderson"}, Options{})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	id, _ := created.ID("id")
	if _, ok := svc.Get("document", id); !ok {
		t.Fatalf("created record not reachable through the service")
	}

	if len(metrics.observations) != 1 {
		t.Fatalf("observations = %v", metrics.observations)
	}
	obs := metrics.observations[0]
	if obs.operation != "create" || !obs.success {
		t.Fatalf("observation = %+v", obs)
	}

	if len(tracer.spans) != 1 || tracer.spans[0].operation != "create" || tracer.spans[0].err != nil {
		t.Fatalf("spans = %+v", tracer.spans)
	}

	if len(audit.entries) != 1 {
		t.Fatalf("audit = %v", audit.entries)
	}
	entry := audit.entries[0]
	if entry.Operation != "create" || entry.Status != AuditStatusSuccess || entry.Resource != "document" || entry.ID != id {
		t.Fatalf("audit entry = %+v", entry)
	}
	if entry.At.IsZero() {
		t.Fatalf("audit entry missing timestamp")
	}

	if len(logger.byLevel("error")) != 0 {
		t.Fatalf("error logged for successful create: %v", logger.byLevel("error"))
	}
	if len(logger.byLevel("debug")) != 1 {
		t.Fatalf("debug lines = %v", logger.byLevel("debug"))
	}
}

func TestServiceCreateInstrumentsFailure(t *testing.T) {
	svc, logger, metrics, tracer, audit := newInstrumentedService()

	_, err := svc.Create(context.Background(), "widget", Record{}, Options{})
	if err == nil {
		t.Fatalf("expected unknown resource error")
	}

	if len(metrics.observations) != 1 || metrics.observations[0].success {
		t.Fatalf("observations = %+v", metrics.observations)
	}
	if len(tracer.spans) != 1 || tracer.spans[0].err == nil {
		t.Fatalf("spans = %+v", tracer.spans)
	}
	if len(audit.entries) != 1 || audit.entries[0].Status != AuditStatusError || audit.entries[0].Error == "" {
		t.Fatalf("audit = %+v", audit.entries)
	}
	if len(logger.byLevel("error")) != 1 {
		t.Fatalf("error lines = %v", logger.byLevel("error"))
	}
}

func TestServiceUpdateAndEject(t *testing.T) {
	svc, _, metrics, _, audit := newInstrumentedService()

	created, err := svc.Create(context.Background(), "document", Record{"title": "a"}, Options{})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	id, _ := created.ID("id")

	if _, err := svc.Update(context.Background(), "document", id, Record{"title": "b"}, Options{}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if _, err := svc.Eject(context.Background(), "document", id); err != nil {
		t.Fatalf("eject: %v", err)
	}
	if _, ok := svc.Get("document", id); ok {
		t.Fatalf("record still indexed after eject")
	}

	ops := make([]string, 0, len(metrics.observations))
	for _, obs := range metrics.observations {
		ops = append(ops, obs.operation)
	}
	want := []string{"create", "update", "eject"}
	for i, op := range want {
		if ops[i] != op {
			t.Fatalf("operations = %v, want %v", ops, want)
		}
	}
	if audit.entries[2].ID != id {
		t.Fatalf("eject audit entry = %+v", audit.entries[2])
	}
}

func TestServiceDefaultsToNoops(t *testing.T) {
	store := newDocumentStore(&stubAdapter{}, ResourceDefinition{})
	svc := NewService(store, WithLogger(nil), WithMetrics(nil), WithTracer(nil), WithAudit(nil))
	if _, err := svc.Create(context.Background(), "document", Record{"title": "a"}, Options{}); err != nil {
		t.Fatalf("create with noop instrumentation: %v", err)
	}
	if svc.Store() != store {
		t.Fatalf("Store() must return the wrapped store")
	}
}
