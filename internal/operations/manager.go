package operations

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"catalogcli/internal/infrastructure"
)

// Notifier receives operation snapshots after every state transition
type Notifier func(snapshot Snapshot)

// Manager executes operations and tracks them by ID for status queries
type Manager struct {
	mu         sync.RWMutex
	operations map[string]*OperationState

	logger   *slog.Logger
	metrics  *infrastructure.Metrics
	notifier Notifier
	timeout  time.Duration
}

// NewManager creates an operation manager. timeout bounds background
// runs; metrics may be nil in tests.
func NewManager(logger *slog.Logger, metrics *infrastructure.Metrics, timeout time.Duration) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = 2 * time.Hour
	}
	return &Manager{
		operations: make(map[string]*OperationState),
		logger:     logger,
		metrics:    metrics,
		timeout:    timeout,
	}
}

// SetNotifier installs the snapshot broadcast callback
func (m *Manager) SetNotifier(fn Notifier) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifier = fn
}

// Get returns a tracked operation by ID
func (m *Manager) Get(id string) (*OperationState, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	state, ok := m.operations[id]
	return state, ok
}

// Run executes the steps strictly in sequence and blocks until the
// operation completes or the first batch-level error.
func (m *Manager) Run(ctx context.Context, steps []Step) (*OperationState, error) {
	state := m.register(steps)
	err := m.execute(ctx, state, steps)
	return state, err
}

// Start executes the steps in the background and returns the pending
// operation immediately. The run is bounded by the manager timeout, not
// the caller's request context.
func (m *Manager) Start(steps []Step) *OperationState {
	state := m.register(steps)

	go func() {
		// Background runs get their own trace ID since there is no
		// request context to inherit one from.
		ctx := infrastructure.WithTraceID(context.Background(), state.ID)
		ctx, cancel := context.WithTimeout(ctx, m.timeout)
		defer cancel()
		m.execute(ctx, state, steps)
	}()

	return state
}

// register creates and tracks a new pending operation
func (m *Manager) register(steps []Step) *OperationState {
	state := NewOperationState(uuid.New().String(), steps)

	m.mu.Lock()
	m.operations[state.ID] = state
	m.mu.Unlock()

	return state
}

// execute runs the sequential step loop
func (m *Manager) execute(ctx context.Context, state *OperationState, steps []Step) error {
	state.Start()
	m.broadcast(state)

	m.logger.InfoContext(ctx, "operation started",
		"operation_id", state.ID,
		"steps", len(steps),
	)

	for _, step := range steps {
		stepState := state.Step(step.ID())
		stepState.Start()
		m.broadcast(state)

		m.logger.InfoContext(ctx, "step started",
			"operation_id", state.ID,
			"step", step.ID(),
		)

		if err := step.Execute(ctx, state); err != nil {
			stepState.Fail(err)
			state.Fail(err)
			m.broadcast(state)
			m.recordOutcome("failed")

			m.logger.ErrorContext(ctx, "step failed",
				"operation_id", state.ID,
				"step", step.ID(),
				"error", err,
			)
			return err
		}

		stepState.Complete("")
		m.broadcast(state)

		m.logger.InfoContext(ctx, "step completed",
			"operation_id", state.ID,
			"step", step.ID(),
		)
	}

	state.Complete()
	m.broadcast(state)
	m.recordOutcome("completed")

	m.logger.InfoContext(ctx, "operation completed",
		"operation_id", state.ID,
		"duration", state.Duration().String(),
	)
	return nil
}

func (m *Manager) broadcast(state *OperationState) {
	m.mu.RLock()
	notifier := m.notifier
	m.mu.RUnlock()

	if notifier != nil {
		notifier(state.Snapshot())
	}
}

func (m *Manager) recordOutcome(outcome string) {
	if m.metrics != nil {
		m.metrics.WorkflowRuns.WithLabelValues(outcome).Inc()
	}
}
