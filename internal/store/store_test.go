package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/robalobadob/kategorie/internal/game"
)

func newSQLite(t *testing.T) Store {
	t.Helper()
	db, err := OpenDB(filepath.Join(t.TempDir(), "data", "test.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	// Running twice must be a no-op.
	if err := Migrate(db); err != nil {
		t.Fatalf("second migrate: %v", err)
	}
	return NewSQLite(db)
}

func sampleRecord(id string) *game.Record {
	return &game.Record{
		ID: id,
		Player1: game.PlayerData{
			Name:        "Alice",
			Answers:     game.PlayerAnswers{BoyName: "Ben", GirlName: "Bella", Animal: "Bear", Place: "Boston", Thing: "Book", Movie: "Batman"},
			SubmittedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		},
		GameConfig: game.DefaultConfig(),
		CreatedAt:  time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestStores(t *testing.T) {
	impls := map[string]func(t *testing.T) Store{
		"memory": func(*testing.T) Store { return NewMemoryStore() },
		"sqlite": newSQLite,
	}
	for name, mk := range impls {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			st := mk(t)
			key := GameKey("abc")

			if _, _, err := st.Get(ctx, key); !errors.Is(err, ErrNotFound) {
				t.Fatalf("get missing: err = %v, want ErrNotFound", err)
			}

			rec := sampleRecord("abc")
			if err := st.Set(ctx, key, rec, 0); err != nil {
				t.Fatalf("insert: %v", err)
			}
			if err := st.Set(ctx, key, rec, 0); !errors.Is(err, ErrConflict) {
				t.Fatalf("second insert: err = %v, want ErrConflict", err)
			}

			got, v, err := st.Get(ctx, key)
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			if v != 1 {
				t.Errorf("version = %d, want 1", v)
			}
			if got.ID != "abc" || got.Player1.Name != "Alice" || got.Player1.Answers != rec.Player1.Answers {
				t.Errorf("round trip mismatch: %+v", got)
			}
			if !got.CreatedAt.Equal(rec.CreatedAt) {
				t.Errorf("createdAt = %v, want %v", got.CreatedAt, rec.CreatedAt)
			}

			got.Player2 = &game.PlayerData{Name: "Bob"}
			if err := st.Set(ctx, key, got, v); err != nil {
				t.Fatalf("update: %v", err)
			}
			// Stale writer loses.
			stale := sampleRecord("abc")
			stale.Player2 = &game.PlayerData{Name: "Mallory"}
			if err := st.Set(ctx, key, stale, v); !errors.Is(err, ErrConflict) {
				t.Fatalf("stale update: err = %v, want ErrConflict", err)
			}
			if err := st.Set(ctx, GameKey("nope"), stale, 3); !errors.Is(err, ErrConflict) {
				t.Fatalf("update missing key: err = %v, want ErrConflict", err)
			}

			final, v2, err := st.Get(ctx, key)
			if err != nil {
				t.Fatalf("get final: %v", err)
			}
			if v2 != 2 || final.Player2 == nil || final.Player2.Name != "Bob" {
				t.Errorf("final = %+v (v%d), want Bob at v2", final.Player2, v2)
			}
		})
	}
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	rec := sampleRecord("x")
	if err := st.Set(ctx, GameKey("x"), rec, 0); err != nil {
		t.Fatal(err)
	}
	rec.Player1.Name = "changed"
	got, _, _ := st.Get(ctx, GameKey("x"))
	got.Player1.Answers.Animal = "changed"
	again, _, _ := st.Get(ctx, GameKey("x"))
	if again.Player1.Name != "Alice" || again.Player1.Answers.Animal != "Bear" {
		t.Errorf("stored record was mutated through a caller's pointer: %+v", again.Player1)
	}
}
