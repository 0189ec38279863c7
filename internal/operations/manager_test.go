package operations

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingStep tracks execution order and can be scripted to fail
type recordingStep struct {
	id    string
	err   error
	log   *[]string
	sleep time.Duration
}

func (s *recordingStep) ID() string   { return s.id }
func (s *recordingStep) Name() string { return s.id }

func (s *recordingStep) Execute(ctx context.Context, state *OperationState) error {
	if s.sleep > 0 {
		time.Sleep(s.sleep)
	}
	*s.log = append(*s.log, s.id)
	return s.err
}

func TestRun_SequentialOrder(t *testing.T) {
	var log []string
	steps := []Step{
		&recordingStep{id: "one", log: &log},
		&recordingStep{id: "two", log: &log},
		&recordingStep{id: "three", log: &log},
	}

	m := NewManager(nil, nil, time.Minute)
	state, err := m.Run(context.Background(), steps)
	require.NoError(t, err)

	assert.Equal(t, []string{"one", "two", "three"}, log)
	assert.Equal(t, OperationStatusCompleted, state.Status)

	snap := state.Snapshot()
	require.Len(t, snap.Steps, 3)
	for _, step := range snap.Steps {
		assert.Equal(t, StepStatusCompleted, step.Status)
		assert.Equal(t, float64(100), step.Progress)
	}
}

func TestRun_FailureStopsSequence(t *testing.T) {
	var log []string
	boom := NewBatchError("two", errors.New("boom"))
	steps := []Step{
		&recordingStep{id: "one", log: &log},
		&recordingStep{id: "two", log: &log, err: boom},
		&recordingStep{id: "three", log: &log},
	}

	m := NewManager(nil, nil, time.Minute)
	state, err := m.Run(context.Background(), steps)
	require.Error(t, err)

	// The third step never ran.
	assert.Equal(t, []string{"one", "two"}, log)
	assert.Equal(t, OperationStatusFailed, state.Status)

	snap := state.Snapshot()
	assert.Equal(t, StepStatusCompleted, snap.Steps[0].Status)
	assert.Equal(t, StepStatusFailed, snap.Steps[1].Status)
	assert.Equal(t, StepStatusPending, snap.Steps[2].Status)
	assert.Contains(t, snap.Error, "boom")
}

func TestRun_NotifierReceivesSnapshots(t *testing.T) {
	var log []string
	var snapshots []Snapshot

	m := NewManager(nil, nil, time.Minute)
	m.SetNotifier(func(snap Snapshot) {
		snapshots = append(snapshots, snap)
	})

	_, err := m.Run(context.Background(), []Step{&recordingStep{id: "one", log: &log}})
	require.NoError(t, err)

	// start, step start, step complete, operation complete
	require.GreaterOrEqual(t, len(snapshots), 4)
	assert.Equal(t, OperationStatusRunning, snapshots[0].Status)
	assert.Equal(t, OperationStatusCompleted, snapshots[len(snapshots)-1].Status)
}

func TestGet_TracksOperations(t *testing.T) {
	var log []string
	m := NewManager(nil, nil, time.Minute)

	state, err := m.Run(context.Background(), []Step{&recordingStep{id: "one", log: &log}})
	require.NoError(t, err)

	got, ok := m.Get(state.ID)
	require.True(t, ok)
	assert.Equal(t, state.ID, got.ID)

	_, ok = m.Get("missing")
	assert.False(t, ok)
}

func TestStart_RunsInBackground(t *testing.T) {
	var log []string
	m := NewManager(nil, nil, time.Minute)

	state := m.Start([]Step{&recordingStep{id: "one", log: &log, sleep: 10 * time.Millisecond}})
	require.NotEmpty(t, state.ID)

	require.Eventually(t, func() bool {
		got, ok := m.Get(state.ID)
		return ok && got.Snapshot().Status == OperationStatusCompleted
	}, time.Second, 5*time.Millisecond)
}

func TestOperationError(t *testing.T) {
	err := NewInputError("parse", errors.New("no such file"))
	assert.True(t, IsInputError(err))
	assert.Contains(t, err.Error(), "parse")

	batch := NewBatchError("export", errors.New("disk full"))
	assert.False(t, IsInputError(batch))
}
