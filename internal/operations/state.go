package operations

import (
	"sync"
	"time"

	"catalogcli/internal/catalog"
	"catalogcli/internal/enhance"
	"catalogcli/internal/exporter"
	"catalogcli/internal/pages"
)

// OperationStatus is the overall operation status
type OperationStatus string

const (
	OperationStatusPending   OperationStatus = "pending"
	OperationStatusRunning   OperationStatus = "running"
	OperationStatusCompleted OperationStatus = "completed"
	OperationStatusFailed    OperationStatus = "failed"
)

// OperationState carries everything one pipeline run accumulates: the
// step states plus the data flowing between steps. It is returned from
// the orchestrator rather than held as ambient global state.
type OperationState struct {
	mu sync.RWMutex

	ID        string
	Status    OperationStatus
	StartTime time.Time
	EndTime   *time.Time
	Err       error

	steps     map[string]*StepState
	stepOrder []string

	// Pipeline payload, populated as steps run
	Catalog    *catalog.Catalog
	Results    []enhance.Result
	BrandPages []pages.BrandPage
	Exports    []*exporter.ExportFile
}

// NewOperationState creates a pending operation with step slots in order
func NewOperationState(id string, steps []Step) *OperationState {
	state := &OperationState{
		ID:        id,
		Status:    OperationStatusPending,
		StartTime: time.Now(),
		steps:     make(map[string]*StepState, len(steps)),
	}
	for _, step := range steps {
		state.steps[step.ID()] = NewStepState(step.ID(), step.Name())
		state.stepOrder = append(state.stepOrder, step.ID())
	}
	return state
}

// Start marks the operation running
func (o *OperationState) Start() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.Status = OperationStatusRunning
	o.StartTime = time.Now()
}

// Complete marks the operation completed
func (o *OperationState) Complete() {
	o.mu.Lock()
	defer o.mu.Unlock()
	now := time.Now()
	o.EndTime = &now
	o.Status = OperationStatusCompleted
}

// Fail marks the operation failed
func (o *OperationState) Fail(err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	now := time.Now()
	o.EndTime = &now
	o.Status = OperationStatusFailed
	o.Err = err
}

// Step returns the state of one step
func (o *OperationState) Step(id string) *StepState {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.steps[id]
}

// Duration returns how long the operation has been running
func (o *OperationState) Duration() time.Duration {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.EndTime != nil {
		return o.EndTime.Sub(o.StartTime)
	}
	return time.Since(o.StartTime)
}

// Snapshot is an immutable view of an operation for status responses
// and websocket broadcasts.
type Snapshot struct {
	ID        string          `json:"id"`
	Status    OperationStatus `json:"status"`
	StartTime time.Time       `json:"start_time"`
	EndTime   *time.Time      `json:"end_time,omitempty"`
	Error     string          `json:"error,omitempty"`
	Steps     []StepSnapshot  `json:"steps"`
}

// Snapshot copies the operation state with steps in execution order
func (o *OperationState) Snapshot() Snapshot {
	o.mu.RLock()
	defer o.mu.RUnlock()

	snap := Snapshot{
		ID:        o.ID,
		Status:    o.Status,
		StartTime: o.StartTime,
	}
	if o.EndTime != nil {
		t := *o.EndTime
		snap.EndTime = &t
	}
	if o.Err != nil {
		snap.Error = o.Err.Error()
	}
	for _, id := range o.stepOrder {
		snap.Steps = append(snap.Steps, o.steps[id].Snapshot())
	}
	return snap
}
