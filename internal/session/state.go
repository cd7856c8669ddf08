package session

import (
	"fmt"
	"sync"
)

// Chart is a rendered chart that holds resources until disposed.
type Chart interface {
	Dispose() error
}

// State is the edit session shared by the form and the history view: the
// exercise currently targeted by the form and the chart currently on display.
type State struct {
	mu        sync.Mutex
	target    int
	hasTarget bool
	chart     Chart
}

func New() *State {
	return &State{}
}

func (s *State) Target() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.target, s.hasTarget
}

func (s *State) SetTarget(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.target = id
	s.hasTarget = true
}

func (s *State) ClearTarget() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.target = 0
	s.hasTarget = false
}

func (s *State) IsTarget(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasTarget && s.target == id
}

func (s *State) Chart() Chart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chart
}

// ReplaceChart disposes the active chart, if any, before taking c.
// c is stored even when the old chart fails to dispose.
func (s *State) ReplaceChart(c Chart) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.disposeLocked()
	s.chart = c
	return err
}

func (s *State) ReleaseChart() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.disposeLocked()
}

func (s *State) disposeLocked() error {
	if s.chart == nil {
		return nil
	}
	old := s.chart
	s.chart = nil
	if err := old.Dispose(); err != nil {
		return fmt.Errorf("dispose chart: %w", err)
	}
	return nil
}
