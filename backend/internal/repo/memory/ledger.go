package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/TLN1/linkr-back/backend/internal/domain/apperrors"
	"github.com/TLN1/linkr-back/backend/internal/domain/enums"
	"github.com/TLN1/linkr-back/backend/internal/domain/model"
)

type ledgerEntry struct {
	mu  sync.Mutex
	rec model.SwipeRecord
	set bool
}

// Ledger is an in-process swipe store. Each key owns its entry lock, so writers on
// different keys never wait for one another; the index lock is held only to look up
// or create an entry.
type Ledger struct {
	mu      sync.RWMutex
	entries map[model.SwipeKey]*ledgerEntry
	now     func() time.Time
}

func NewLedger() *Ledger {
	return &Ledger{
		entries: make(map[model.SwipeKey]*ledgerEntry),
		now:     time.Now,
	}
}

func (l *Ledger) Upsert(ctx context.Context, rec model.SwipeRecord) (model.UpsertOutcome, error) {
	if err := ctx.Err(); err != nil {
		return model.UpsertOutcome{}, apperrors.NewStoreUnavailableError("upsert swipe", err)
	}
	if rec.ActorID <= 0 || rec.TargetID <= 0 || !rec.Direction.Valid() {
		return model.UpsertOutcome{}, fmt.Errorf("invalid swipe payload")
	}
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = l.now().UTC()
	}

	entry := l.entry(rec.Key())
	entry.mu.Lock()
	defer entry.mu.Unlock()

	// Checked again under the entry lock: a cancelled write must not land.
	if err := ctx.Err(); err != nil {
		return model.UpsertOutcome{}, apperrors.NewStoreUnavailableError("upsert swipe", err)
	}

	out := model.UpsertOutcome{Record: rec}
	if entry.set {
		prev := entry.rec.Direction
		out.Previous = &prev
	}
	entry.rec = rec
	entry.set = true

	return out, nil
}

func (l *Ledger) Get(ctx context.Context, key model.SwipeKey) (model.SwipeRecord, bool, error) {
	if err := ctx.Err(); err != nil {
		return model.SwipeRecord{}, false, apperrors.NewStoreUnavailableError("get swipe", err)
	}

	l.mu.RLock()
	entry, ok := l.entries[key]
	l.mu.RUnlock()
	if !ok {
		return model.SwipeRecord{}, false, nil
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	if !entry.set {
		return model.SwipeRecord{}, false, nil
	}
	return entry.rec, true, nil
}

func (l *Ledger) ListByActor(ctx context.Context, actorID int64, kind enums.TargetKind, direction enums.SwipeDirection) ([]model.SwipeRecord, error) {
	return l.list(ctx, "list swipes by actor", func(rec model.SwipeRecord) bool {
		return rec.ActorID == actorID && rec.TargetKind == kind && rec.Direction == direction
	})
}

func (l *Ledger) ListByTarget(ctx context.Context, targetID int64, kind enums.TargetKind, direction enums.SwipeDirection) ([]model.SwipeRecord, error) {
	return l.list(ctx, "list swipes by target", func(rec model.SwipeRecord) bool {
		return rec.TargetID == targetID && rec.TargetKind == kind && rec.Direction == direction
	})
}

// Len returns the number of stored records.
func (l *Ledger) Len() int {
	items, _ := l.list(context.Background(), "count swipes", func(model.SwipeRecord) bool { return true })
	return len(items)
}

func (l *Ledger) entry(key model.SwipeKey) *ledgerEntry {
	l.mu.RLock()
	entry, ok := l.entries[key]
	l.mu.RUnlock()
	if ok {
		return entry
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if entry, ok = l.entries[key]; ok {
		return entry
	}
	entry = &ledgerEntry{}
	l.entries[key] = entry
	return entry
}

func (l *Ledger) list(ctx context.Context, op string, keep func(model.SwipeRecord) bool) ([]model.SwipeRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.NewStoreUnavailableError(op, err)
	}

	l.mu.RLock()
	entries := make([]*ledgerEntry, 0, len(l.entries))
	for _, entry := range l.entries {
		entries = append(entries, entry)
	}
	l.mu.RUnlock()

	items := make([]model.SwipeRecord, 0, 16)
	for _, entry := range entries {
		entry.mu.Lock()
		rec, set := entry.rec, entry.set
		entry.mu.Unlock()
		if set && keep(rec) {
			items = append(items, rec)
		}
	}

	sort.Slice(items, func(i, j int) bool {
		if !items[i].UpdatedAt.Equal(items[j].UpdatedAt) {
			return items[i].UpdatedAt.After(items[j].UpdatedAt)
		}
		if items[i].ActorID != items[j].ActorID {
			return items[i].ActorID > items[j].ActorID
		}
		return items[i].TargetID > items[j].TargetID
	})

	return items, nil
}
