package operations

import (
	"sync"
	"time"

	"divcli/internal/config"
	"divcli/internal/provider"
	"divcli/internal/regress"
	"divcli/internal/series"
	"divcli/internal/stats"
)

// Status is the lifecycle status of a run or a stage
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// StageState tracks one stage's execution within a run
type StageState struct {
	mu        sync.RWMutex
	ID        string
	Name      string
	Status    Status
	StartTime *time.Time
	EndTime   *time.Time
	Err       error
}

// NewStageState creates a pending stage state
func NewStageState(id, name string) *StageState {
	return &StageState{ID: id, Name: name, Status: StatusPending}
}

// Start marks the stage as running
func (s *StageState) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	s.StartTime = &now
	s.Status = StatusRunning
}

// Complete marks the stage as completed
func (s *StageState) Complete() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	s.EndTime = &now
	s.Status = StatusCompleted
}

// Fail marks the stage as failed with the given error
func (s *StageState) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	s.EndTime = &now
	s.Status = StatusFailed
	s.Err = err
}

// GetStatus returns the current status
func (s *StageState) GetStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Status
}

// Duration returns how long the stage ran, zero until it finishes
func (s *StageState) Duration() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.StartTime == nil || s.EndTime == nil {
		return 0
	}
	return s.EndTime.Sub(*s.StartTime)
}

// State is the shared state of one pipeline run. Stages read the artifacts
// of earlier stages and attach their own; the manager owns status
// transitions.
type State struct {
	mu sync.RWMutex

	ID        string
	Status    Status
	StartTime time.Time
	EndTime   *time.Time
	Err       error

	Stages map[string]*StageState

	// Run inputs
	Window   config.Window
	Maturity int

	// Stage artifacts, in pipeline order
	Dataset           *provider.Dataset
	CumulativeReturns []series.Series
	Panel             []regress.Row
	Regression        *regress.Result
	DividendForecasts []series.Series
	GDPForecasts      []series.Series
	Summaries         []stats.Summary
}

// NewState creates a pending run state for the given window
func NewState(id string, window config.Window, maturity int) *State {
	return &State{
		ID:        id,
		Status:    StatusPending,
		StartTime: time.Now(),
		Stages:    make(map[string]*StageState),
		Window:    window,
		Maturity:  maturity,
	}
}

// Start marks the run as running
func (s *State) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Status = StatusRunning
	s.StartTime = time.Now()
}

// Complete marks the run as completed
func (s *State) Complete() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	s.EndTime = &now
	s.Status = StatusCompleted
}

// Fail marks the run as failed
func (s *State) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	s.EndTime = &now
	s.Status = StatusFailed
	s.Err = err
}

// GetStatus returns the run status
func (s *State) GetStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Status
}

// StageStateFor returns (creating if needed) the state of one stage
func (s *State) StageStateFor(id, name string) *StageState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.Stages[id]; ok {
		return st
	}
	st := NewStageState(id, name)
	s.Stages[id] = st
	return st
}
