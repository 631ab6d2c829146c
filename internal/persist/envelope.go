// Package persist mirrors the in-memory state containers into the local
// key-value store. Writes are asynchronous and best-effort: a failed
// write is logged and dropped, it never rolls back or blocks a mutation.
package persist

import (
	"encoding/json"
	"fmt"

	"github.com/kienmai98/Life/internal/core"
)

// Store keys, one per logical state container.
const (
	LedgerKey  = "transaction-storage"
	SessionKey = "auth-storage"
)

// SchemaVersion is bumped when a snapshot shape changes incompatibly.
const SchemaVersion = 1

// Envelope is the persisted document layout:
// {"state": {...}, "version": n}
type Envelope struct {
	State   json.RawMessage `json:"state"`
	Version int             `json:"version"`
}

// LedgerState is the persisted shape of the transaction ledger.
type LedgerState struct {
	Transactions []core.Transaction `json:"transactions"`
	Categories   []string           `json:"categories"`
}

// SessionState is the persisted slice of session state. The loading
// flag is transient and intentionally not part of it.
type SessionState struct {
	User               *core.User `json:"user"`
	IsBiometricEnabled bool       `json:"isBiometricEnabled"`
}

// Encode wraps a snapshot in a versioned envelope.
func Encode(state any) (string, error) {
	raw, err := json.Marshal(state)
	if err != nil {
		return "", fmt.Errorf("marshal state: %w", err)
	}
	doc, err := json.Marshal(Envelope{State: raw, Version: SchemaVersion})
	if err != nil {
		return "", fmt.Errorf("marshal envelope: %w", err)
	}
	return string(doc), nil
}

// Decode unwraps a persisted envelope into state. Snapshots written by
// a newer schema are refused rather than misread.
func Decode(doc string, state any) error {
	var env Envelope
	if err := json.Unmarshal([]byte(doc), &env); err != nil {
		return fmt.Errorf("unmarshal envelope: %w", err)
	}
	if env.Version > SchemaVersion {
		return fmt.Errorf("snapshot version %d is newer than supported %d", env.Version, SchemaVersion)
	}
	if err := json.Unmarshal(env.State, state); err != nil {
		return fmt.Errorf("unmarshal state: %w", err)
	}
	return nil
}
