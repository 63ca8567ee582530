// Package store persists analysis snapshots. The interface is the
// contract with the persistence collaborator; the shipped
// implementation is in-memory.
package store

import (
	"context"
	"errors"

	"github.com/SanjayR-26/speech-ai-sub001/internal/models"
)

// ErrNotFound is returned when no snapshot exists for a call.
var ErrNotFound = errors.New("snapshot not found")

// Store saves and loads per-call snapshots. Save replaces the entire
// snapshot for the call: readers must never observe a mix of old and
// new segments or metrics.
type Store interface {
	// Save stores the snapshot, replacing any previous version for the
	// same call atomically.
	Save(ctx context.Context, snapshot *models.AnalysisSnapshot) error

	// Get returns the current snapshot for the call, or ErrNotFound.
	Get(ctx context.Context, callID string) (*models.AnalysisSnapshot, error)
}
