package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/SanjayR-26/speech-ai-sub001/internal/models"
)

// Memory is an in-memory Store. Snapshots are treated as immutable
// after Save; replacement swaps the map entry under the lock, so a
// concurrent Get sees either the old snapshot or the new one, never a
// partially updated record.
type Memory struct {
	mu        sync.RWMutex
	snapshots map[string]*models.AnalysisSnapshot
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{snapshots: make(map[string]*models.AnalysisSnapshot)}
}

// Save stores the snapshot, replacing any previous version.
func (m *Memory) Save(_ context.Context, snapshot *models.AnalysisSnapshot) error {
	if snapshot == nil || snapshot.CallID == "" {
		return fmt.Errorf("snapshot must have a call id")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots[snapshot.CallID] = snapshot
	return nil
}

// Get returns the current snapshot for the call.
func (m *Memory) Get(_ context.Context, callID string) (*models.AnalysisSnapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap, ok := m.snapshots[callID]
	if !ok {
		return nil, fmt.Errorf("call %s: %w", callID, ErrNotFound)
	}
	return snap, nil
}

// Len returns the number of stored calls.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.snapshots)
}
