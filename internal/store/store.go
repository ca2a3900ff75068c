// internal/store/store.go
//
// Persistence interface for game records.
// Records are opaque JSON values under string keys ("game_<id>"). Every
// stored value carries a version so writers can do compare-and-swap:
//
//   - Set(..., expect=0) inserts only if the key is absent.
//   - Set(..., expect=n) overwrites only if the stored version is still n.
//
// Implementations: memory (this package, ephemeral) and SQLite (sqlite.go).

package store

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/robalobadob/kategorie/internal/game"
)

var (
	// ErrNotFound is returned by Get for an absent key.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned by Set when the expected version does not match.
	ErrConflict = errors.New("version conflict")
)

// Store defines the key/value persistence the session controller consumes.
type Store interface {
	// Get returns the record stored at key and its current version.
	Get(ctx context.Context, key string) (*game.Record, int64, error)

	// Set writes rec at key if the stored version equals expect
	// (0 = key must not exist).
	Set(ctx context.Context, key string, rec *game.Record, expect int64) error
}

// GameKey maps a game id to its storage key.
func GameKey(id string) string { return "game_" + id }

func encode(rec *game.Record) ([]byte, error) { return json.Marshal(rec) }

func decode(b []byte) (*game.Record, error) {
	var rec game.Record
	if err := json.Unmarshal(b, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}
