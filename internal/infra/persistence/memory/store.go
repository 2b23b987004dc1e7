// Package memory implements the order/run store as mutex-guarded
// in-process state with snapshot export and import, so durable backends
// can layer persistence on top of the same semantics.
package memory

import (
	"context"
	"sort"
	"sync"

	"ordercore/internal/orders"
)

// Compile-time contract assertion.
var _ orders.Store = (*Store)(nil)

// Snapshot is the full serializable state of the store.
type Snapshot struct {
	Orders []map[string]string    `json:"orders"`
	Runs   []orders.CorrectionRun `json:"runs"`
}

// Store keeps order fact maps and correction runs in memory.
type Store struct {
	mu     sync.RWMutex
	orders []map[string]string
	runs   map[string]orders.CorrectionRun
}

// NewStore constructs an empty in-memory store.
func NewStore() *Store {
	return &Store{runs: map[string]orders.CorrectionRun{}}
}

// ReplaceOrders swaps the stored fact maps for a fresh sync.
func (s *Store) ReplaceOrders(_ context.Context, raw []map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders = cloneOrders(raw)
	return nil
}

// ListOrders returns a copy of the stored fact maps.
func (s *Store) ListOrders(_ context.Context) ([]map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneOrders(s.orders), nil
}

// SaveRun stores one correction run keyed by ID.
func (s *Store) SaveRun(_ context.Context, run orders.CorrectionRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[run.ID] = run
	return nil
}

// GetRun fetches a run by ID.
func (s *Store) GetRun(_ context.Context, id string) (orders.CorrectionRun, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	run, ok := s.runs[id]
	return run, ok, nil
}

// ListRuns returns all runs ordered by creation time, then ID.
func (s *Store) ListRuns(_ context.Context) ([]orders.CorrectionRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedRuns(func(orders.CorrectionRun) bool { return true }), nil
}

// ListRunsForOrder returns the runs recorded against one order id.
func (s *Store) ListRunsForOrder(_ context.Context, orderID string) ([]orders.CorrectionRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedRuns(func(r orders.CorrectionRun) bool { return r.OrderID == orderID }), nil
}

// Close is a no-op for the in-memory store.
func (s *Store) Close() error { return nil }

// ExportState snapshots the full store state.
func (s *Store) ExportState() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Orders: cloneOrders(s.orders),
		Runs:   s.sortedRuns(func(orders.CorrectionRun) bool { return true }),
	}
}

// ImportState replaces the store state with the snapshot contents.
func (s *Store) ImportState(snapshot Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders = cloneOrders(snapshot.Orders)
	s.runs = make(map[string]orders.CorrectionRun, len(snapshot.Runs))
	for _, run := range snapshot.Runs {
		s.runs[run.ID] = run
	}
}

func (s *Store) sortedRuns(keep func(orders.CorrectionRun) bool) []orders.CorrectionRun {
	out := make([]orders.CorrectionRun, 0, len(s.runs))
	for _, run := range s.runs {
		if keep(run) {
			out = append(out, run)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func cloneOrders(raw []map[string]string) []map[string]string {
	out := make([]map[string]string, len(raw))
	for i, m := range raw {
		copied := make(map[string]string, len(m))
		for k, v := range m {
			copied[k] = v
		}
		out[i] = copied
	}
	return out
}
