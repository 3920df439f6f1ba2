// Package snapshot bundles everything derived from one dataset load and
// memoizes bundles by dataset fingerprint, so repeated reads of unchanged
// data never recompute.
package snapshot

import (
	"sync"
	"time"

	"github.com/maishenyun/stockboard/internal/alerts"
	"github.com/maishenyun/stockboard/internal/analytics"
	"github.com/maishenyun/stockboard/internal/cost"
	"github.com/maishenyun/stockboard/internal/domain"
)

// Snapshot is the immutable derived state for one dataset fingerprint.
// Callers must not mutate a snapshot after Put; readers share it.
type Snapshot struct {
	Fingerprint  string                   `json:"fingerprint"`
	GeneratedAt  time.Time                `json:"generated_at"`
	StockSource  domain.StockSource       `json:"stock_source"`
	States       []domain.InventoryState  `json:"states"`
	Usage        []domain.UsageSeries     `json:"usage"`
	ABC          []analytics.ABCItem      `json:"abc"`
	Seasonal     []analytics.SeasonalRow  `json:"seasonal"`
	Turnover     []analytics.TurnoverItem `json:"turnover"`
	StockoutRisk []analytics.StockoutRisk `json:"stockout_risk"`
	CostRows     []cost.EOQItem           `json:"cost_rows"`
	SpendTrend   cost.SpendTrend          `json:"spend_trend"`
	Alerts       []alerts.Alert           `json:"alerts"`
	Warnings     []domain.RowError        `json:"warnings"`
}

const defaultKeep = 4

// Store memoizes snapshots by fingerprint. It keeps the most recent few so a
// refresh that flips back to a previous dataset still hits the memo.
type Store struct {
	mu    sync.RWMutex
	keep  int
	snaps map[string]*Snapshot
}

// NewStore builds a store keeping the latest keep snapshots. A keep of zero
// or less means the default of four.
func NewStore(keep int) *Store {
	if keep <= 0 {
		keep = defaultKeep
	}
	return &Store{keep: keep, snaps: make(map[string]*Snapshot)}
}

// Get returns the memoized snapshot for a fingerprint.
func (s *Store) Get(fingerprint string) (*Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.snaps[fingerprint]
	return snap, ok
}

// Put memoizes a snapshot under its fingerprint, evicting the oldest
// snapshot by GeneratedAt once the store is over capacity.
func (s *Store) Put(snap *Snapshot) {
	if snap == nil || snap.Fingerprint == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.snaps[snap.Fingerprint] = snap
	for len(s.snaps) > s.keep {
		var oldest string
		var oldestAt time.Time
		for fp, sn := range s.snaps {
			if oldest == "" || sn.GeneratedAt.Before(oldestAt) {
				oldest = fp
				oldestAt = sn.GeneratedAt
			}
		}
		delete(s.snaps, oldest)
	}
}

// Invalidate drops one fingerprint from the memo.
func (s *Store) Invalidate(fingerprint string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snaps, fingerprint)
}

// Reset drops every memoized snapshot.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snaps = make(map[string]*Snapshot)
}

// Len reports how many snapshots are memoized.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.snaps)
}
