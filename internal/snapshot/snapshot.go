// Package snapshot serializes the whole ledger store to a single JSON
// blob and back. The blob layout matches the original persistence
// file: the four per-user mappings plus a serialization timestamp.
package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"finguide/internal/core"
	"finguide/internal/store"
)

// ErrMalformedSnapshot reports a blob that cannot be decoded. Decoding
// never touches live state: callers replace the store only after a
// successful Decode.
var ErrMalformedSnapshot = errors.New("malformed snapshot")

// envelope is the on-disk layout. Integer user ids become JSON object
// keys, which encoding/json round-trips for integer-keyed maps.
type envelope struct {
	Users        map[int64]core.Profile       `json:"users"`
	Transactions map[int64][]core.Transaction `json:"transactions"`
	Goals        map[int64][]core.Goal        `json:"goals"`
	Investments  map[int64][]core.Investment  `json:"investments"`
	Timestamp    time.Time                    `json:"timestamp"`
}

// Encode serializes the exported store state. The timestamp records
// when the snapshot was taken.
func Encode(st store.State, now time.Time) ([]byte, error) {
	env := envelope{
		Users:        st.Users,
		Transactions: st.Transactions,
		Goals:        st.Goals,
		Investments:  st.Investments,
		Timestamp:    now,
	}
	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

// Decode parses a snapshot blob into a store state. Any parse failure
// is reported as ErrMalformedSnapshot; the partial result is
// discarded.
func Decode(data []byte) (store.State, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return store.State{}, fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
	}
	return store.State{
		Users:        env.Users,
		Transactions: env.Transactions,
		Goals:        env.Goals,
		Investments:  env.Investments,
	}, nil
}

// SaveFile writes the snapshot atomically: the blob lands in a temp
// file which is then renamed over the target.
func SaveFile(path string, st store.State, now time.Time) error {
	data, err := Encode(st, now)
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create snapshot directory: %w", err)
		}
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}

// LoadFile reads and decodes a snapshot. A missing file returns
// os.ErrNotExist unchanged so startup can treat it as "no snapshot
// yet" rather than an error.
func LoadFile(path string) (store.State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return store.State{}, err
	}
	return Decode(data)
}
