package tracing

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/relayworks/agentrelay/logging"
)

// Trace is the run-scoped event sink. It stamps events with the run identity,
// fans them out to all attached recorders and shields the step engine from
// recorder misbehavior: a panicking or slow recorder can garble its own output
// but never fails or blocks the run.
//
// A Trace is either created per run by the runner or passed down to nested
// agent-tool runs so parent and child share one trail. Close is idempotent;
// events arriving after Close are dropped.
type Trace struct {
	id          string
	runID       string
	parentRunID string
	recorders   []Recorder
	logger      logging.Logger

	mu     sync.Mutex
	closed bool
}

// New creates a trace scope for the given run. A nil or empty recorder list
// yields a scope that only tracks closure.
func New(runID string, recorders []Recorder, logger logging.Logger) *Trace {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return &Trace{
		id:        uuid.NewString(),
		runID:     runID,
		recorders: recorders,
		logger:    logger,
	}
}

// Disabled returns a trace scope that records nothing. Used when tracing is
// turned off so the engine can emit unconditionally.
func Disabled() *Trace {
	return &Trace{id: uuid.NewString(), logger: logging.NoOpLogger{}}
}

// ID returns the trace's unique identifier.
func (t *Trace) ID() string { return t.id }

// RunID returns the run this scope is bound to.
func (t *Trace) RunID() string { return t.runID }

// ParentRunID returns the spawning run's ID for nested scopes, or "".
func (t *Trace) ParentRunID() string { return t.parentRunID }

// Child derives a scope for a nested run sharing this trace's recorders.
// Events recorded through the child carry the parent run's ID for linkage.
func (t *Trace) Child(nestedRunID string) *Trace {
	return &Trace{
		id:          t.id,
		runID:       nestedRunID,
		parentRunID: t.runID,
		recorders:   t.recorders,
		logger:      t.logger,
	}
}

// Record stamps run identity and timestamp onto ev and delivers it to every
// recorder. Recorder panics are recovered and logged.
func (t *Trace) Record(ev Event) {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.mu.Unlock()

	if ev.RunID == "" {
		ev.RunID = t.runID
	}
	if ev.ParentRunID == "" {
		ev.ParentRunID = t.parentRunID
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now().UTC()
	}

	for _, rec := range t.recorders {
		t.deliver(rec, ev)
	}
}

func (t *Trace) deliver(rec Recorder, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			t.logger.Warn("trace.recorder.panic", "run_id", ev.RunID, "kind", string(ev.Kind), "recover", r)
		}
	}()
	rec.Record(ev)
}

// Close seals the scope. Subsequent Record calls are dropped. Safe to call
// multiple times and from deferred paths.
func (t *Trace) Close() {
	t.mu.Lock()
	t.closed = true
	t.mu.Unlock()
}

// Closed reports whether the scope has been sealed.
func (t *Trace) Closed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closed
}
