package persist

import (
	"context"
	"log/slog"
	"sync"

	"github.com/kienmai98/Life/internal/log"
	"github.com/kienmai98/Life/internal/storage"
)

// Mirror is the dedicated persistence worker. State containers hand it
// full snapshots after every mutation; it coalesces them per key
// (latest wins) and writes them to the store from its own goroutine.
// Rapid mutation bursts collapse into one write, and a slow or failing
// store never blocks the caller.
type Mirror struct {
	store storage.Store

	mu      sync.Mutex
	pending map[string]any
	kick    chan struct{}
}

func NewMirror(store storage.Store) *Mirror {
	return &Mirror{
		store:   store,
		pending: make(map[string]any),
		kick:    make(chan struct{}, 1),
	}
}

// Save queues a snapshot for key. It never blocks and never fails from
// the caller's point of view; a snapshot queued before the previous one
// was written simply replaces it.
func (m *Mirror) Save(key string, state any) {
	m.mu.Lock()
	m.pending[key] = state
	m.mu.Unlock()

	select {
	case m.kick <- struct{}{}:
	default:
	}
}

// Run drains queued snapshots until ctx is cancelled, then performs a
// final flush so a clean shutdown loses nothing.
func (m *Mirror) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			m.Flush(context.Background())
			return ctx.Err()
		case <-m.kick:
			m.Flush(ctx)
		}
	}
}

// Flush writes every pending snapshot. Failures are logged and the
// snapshot is dropped; the next mutation will queue a fresh one.
func (m *Mirror) Flush(ctx context.Context) {
	m.mu.Lock()
	batch := m.pending
	m.pending = make(map[string]any)
	m.mu.Unlock()

	for key, state := range batch {
		doc, err := Encode(state)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to encode snapshot",
				log.FieldComponent, log.ComponentPersist,
				log.FieldKey, key,
				log.FieldError, err)
			continue
		}
		if err := m.store.Set(ctx, key, doc); err != nil {
			slog.ErrorContext(ctx, "Failed to write snapshot",
				log.FieldComponent, log.ComponentPersist,
				log.FieldKey, key,
				log.FieldError, err)
			continue
		}
		slog.DebugContext(ctx, "Snapshot written",
			log.FieldComponent, log.ComponentPersist,
			log.FieldKey, key)
	}
}

// LoadLedger restores the ledger snapshot. A missing key or an
// unreadable payload yields an empty state; the recent mutations it
// held are gone, which is the documented failure mode.
func LoadLedger(ctx context.Context, store storage.Store) LedgerState {
	var state LedgerState
	loadSnapshot(ctx, store, LedgerKey, &state)
	return state
}

// LoadSession restores the persisted session slice.
func LoadSession(ctx context.Context, store storage.Store) SessionState {
	var state SessionState
	loadSnapshot(ctx, store, SessionKey, &state)
	return state
}

func loadSnapshot(ctx context.Context, store storage.Store, key string, state any) {
	doc, ok, err := store.Get(ctx, key)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to read snapshot",
			log.FieldComponent, log.ComponentPersist,
			log.FieldKey, key,
			log.FieldError, err)
		return
	}
	if !ok {
		return
	}
	if err := Decode(doc, state); err != nil {
		slog.ErrorContext(ctx, "Discarding unreadable snapshot",
			log.FieldComponent, log.ComponentPersist,
			log.FieldKey, key,
			log.FieldError, err)
	}
}
