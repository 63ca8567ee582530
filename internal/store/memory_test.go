package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/SanjayR-26/speech-ai-sub001/internal/models"
)

func TestMemory_SaveAndGet(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	snap := &models.AnalysisSnapshot{CallID: "call-1", Version: 1}
	if err := m.Save(ctx, snap); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	got, err := m.Get(ctx, "call-1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.CallID != "call-1" || got.Version != 1 {
		t.Errorf("unexpected snapshot: %+v", got)
	}
	if m.Len() != 1 {
		t.Errorf("expected 1 stored call, got %d", m.Len())
	}
}

func TestMemory_GetMissing(t *testing.T) {
	m := NewMemory()

	_, err := m.Get(context.Background(), "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMemory_SaveValidation(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	if err := m.Save(ctx, nil); err == nil {
		t.Error("expected error for nil snapshot")
	}
	if err := m.Save(ctx, &models.AnalysisSnapshot{}); err == nil {
		t.Error("expected error for missing call id")
	}
}

func TestMemory_SaveReplacesWholesale(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	_ = m.Save(ctx, &models.AnalysisSnapshot{CallID: "call-1", Version: 1})
	_ = m.Save(ctx, &models.AnalysisSnapshot{CallID: "call-1", Version: 2})

	got, err := m.Get(ctx, "call-1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Version != 2 {
		t.Errorf("expected latest version 2, got %d", got.Version)
	}
	if m.Len() != 1 {
		t.Errorf("replacement must not grow the store, got %d entries", m.Len())
	}
}

func TestMemory_ConcurrentAccess(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	numGoroutines := 50
	versionsPerCall := 10

	var wg sync.WaitGroup
	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			callID := fmt.Sprintf("call-%d", n)
			for v := 1; v <= versionsPerCall; v++ {
				_ = m.Save(ctx, &models.AnalysisSnapshot{CallID: callID, Version: v})
				snap, err := m.Get(ctx, callID)
				if err != nil {
					t.Errorf("get %s: %v", callID, err)
					return
				}
				// A reader sees a complete snapshot, never a torn one.
				if snap.CallID != callID {
					t.Errorf("got snapshot for %s under key %s", snap.CallID, callID)
					return
				}
			}
		}(i)
	}
	wg.Wait()

	if m.Len() != numGoroutines {
		t.Errorf("expected %d calls, got %d", numGoroutines, m.Len())
	}
}
