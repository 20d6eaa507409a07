// Package jsonfile provides file-backed implementations of the pending
// store and audit log ports. The in-memory map is authoritative; every
// mutation is mirrored to disk so a restart recovers all persisted writes.
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"replydesk/internal/domain"
	"replydesk/internal/domain/pending"
	"replydesk/internal/domain/risk"
)

// PendingStore implements pendingstore.Store backed by a JSON file.
//
// All mutations hold the mutex across both the map update and the disk
// mirror, so the pair is updated atomically with respect to other calls. A
// failed mirror write is logged and retried implicitly on the next
// mutation, which rewrites the full state.
type PendingStore struct {
	mu    sync.RWMutex
	path  string
	items map[string]pending.Item
	now   func() time.Time // for testing
}

// NewPendingStore creates the store and loads prior state from path. A
// load failure (missing or corrupt file) is non-fatal: the store starts
// empty and logs a warning, trading data loss for availability.
func NewPendingStore(path string) *PendingStore {
	s := &PendingStore{
		path:  path,
		items: make(map[string]pending.Item),
		now:   time.Now,
	}
	s.load()
	return s
}

// Add creates a new pending item and persists it.
func (s *PendingStore) Add(_ context.Context, sender, msg string, category risk.Category, reason string) (pending.Item, error) {
	item := pending.Item{
		ID:           uuid.NewString(),
		Sender:       sender,
		Message:      msg,
		RiskCategory: category,
		Reason:       reason,
		CreatedAt:    s.now().UTC(),
		Status:       pending.StatusPending,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.items[item.ID] = item
	s.persistLocked()

	slog.Info("pending item added", "id", item.ID, "category", category)
	return item, nil
}

// List returns items newest-first, optionally filtered by status.
func (s *PendingStore) List(_ context.Context, status *pending.Status) ([]pending.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]pending.Item, 0, len(s.items))
	for _, item := range s.items {
		if status != nil && item.Status != *status {
			continue
		}
		items = append(items, item)
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

// Get returns a single item by id.
func (s *PendingStore) Get(_ context.Context, id string) (pending.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[id]
	if !ok {
		return pending.Item{}, fmt.Errorf("pending item %s: %w", id, domain.ErrNotFound)
	}
	return item, nil
}

// Respond marks the item answered and persists. The one-way transition
// check is the caller's responsibility; the store mutates unconditionally.
func (s *PendingStore) Respond(_ context.Context, id, response string) (pending.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	if !ok {
		return pending.Item{}, fmt.Errorf("pending item %s: %w", id, domain.ErrNotFound)
	}

	answeredAt := s.now().UTC()
	item.Status = pending.StatusAnswered
	item.AdminResponse = response
	item.AnsweredAt = &answeredAt
	s.items[id] = item
	s.persistLocked()

	slog.Info("pending item answered", "id", id)
	return item, nil
}

// load reads prior state from disk into the map.
func (s *PendingStore) load() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("pending store load failed, starting empty", "path", s.path, "error", err)
		}
		return
	}

	var items []pending.Item
	if err := json.Unmarshal(data, &items); err != nil {
		slog.Warn("pending store corrupt, starting empty", "path", s.path, "error", err)
		return
	}

	for _, item := range items {
		s.items[item.ID] = item
	}
	slog.Info("pending store loaded", "path", s.path, "items", len(s.items))
}

// persistLocked mirrors the full map to disk via temp-file + rename so a
// crash mid-write never leaves a truncated file. Must be called with the
// write lock held.
func (s *PendingStore) persistLocked() {
	items := make([]pending.Item, 0, len(s.items))
	for _, item := range s.items {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})

	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		slog.Warn("pending store marshal failed", "error", err)
		return
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		slog.Warn("pending store mkdir failed", "error", err)
		return
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		slog.Warn("pending store write failed", "error", err)
		return
	}
	if err := os.Rename(tmp, s.path); err != nil {
		slog.Warn("pending store rename failed", "error", err)
	}
}
