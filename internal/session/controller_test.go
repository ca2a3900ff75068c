package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/robalobadob/kategorie/internal/daily"
	"github.com/robalobadob/kategorie/internal/game"
	"github.com/robalobadob/kategorie/internal/store"
)

var fixedNow = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

func newController(st store.Store, cfg game.Config) *Controller {
	return New(st, cfg, WithClock(func() time.Time { return fixedNow }))
}

func player(name string, a game.PlayerAnswers) game.PlayerData {
	return game.PlayerData{Name: name, Answers: a}
}

var (
	aliceAnswers = game.PlayerAnswers{BoyName: "Ben", GirlName: "Bella", Animal: "Bear", Place: "Boston", Thing: "Book", Movie: "Batman"}
	bobAnswers   = game.PlayerAnswers{BoyName: "ben", GirlName: "Beth", Animal: "Bat", Place: "Berlin", Thing: "book", Movie: "Bourne"}
)

func TestCreateStoresPlayerOne(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	c := newController(st, game.DefaultConfig())

	rec, err := c.Create(ctx, "g1", player("Alice", aliceAnswers))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if rec.Player2 != nil || rec.Results != nil || rec.CompletedAt != nil {
		t.Errorf("new record should only have player1: %+v", rec)
	}
	if !rec.CreatedAt.Equal(fixedNow) || !rec.Player1.SubmittedAt.Equal(fixedNow) {
		t.Errorf("timestamps not stamped: %+v", rec)
	}

	stored, v, err := st.Get(ctx, "game_g1")
	if err != nil || v != 1 {
		t.Fatalf("stored under game_g1: v=%d err=%v", v, err)
	}
	if stored.GameConfig.RequiredLetter != "b" || len(stored.GameConfig.Categories) != game.CategoryCount {
		t.Errorf("config = %+v", stored.GameConfig)
	}
}

func TestCreateGeneratesID(t *testing.T) {
	c := newController(store.NewMemoryStore(), game.DefaultConfig())
	rec, err := c.Create(context.Background(), "", player("Alice", aliceAnswers))
	if err != nil {
		t.Fatal(err)
	}
	if len(rec.ID) != 32 {
		t.Errorf("generated id %q", rec.ID)
	}
}

func TestCreateRejections(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	c := newController(st, game.DefaultConfig())

	cases := []struct {
		name string
		id   string
		p    game.PlayerData
		code game.ValidationCode
		err  error
	}{
		{name: "empty name", id: "a", p: player(" ", aliceAnswers), code: game.EmptyName},
		{name: "short name", id: "a", p: player("A", aliceAnswers), code: game.NameTooShort},
		{name: "name checked before answers", id: "a", p: player("A", game.PlayerAnswers{}), code: game.NameTooShort},
		{name: "empty answer", id: "a", p: player("Alice", aliceAnswers.With(3, "")), code: game.EmptyEntry},
		{name: "wrong letter", id: "a", p: player("Alice", aliceAnswers.With(5, "Alien")), code: game.WrongLetter},
		{name: "bad id", id: "../etc", p: player("Alice", aliceAnswers), err: ErrInvalidID},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := c.Create(ctx, tc.id, tc.p)
			if tc.err != nil {
				if !errors.Is(err, tc.err) {
					t.Fatalf("err = %v, want %v", err, tc.err)
				}
				return
			}
			var ve *game.ValidationError
			if !errors.As(err, &ve) || ve.Code != tc.code {
				t.Fatalf("err = %v, want code %s", err, tc.code)
			}
			if _, _, err := st.Get(ctx, "game_a"); !errors.Is(err, store.ErrNotFound) {
				t.Errorf("rejected game was stored")
			}
		})
	}
}

func TestCreateDuplicateID(t *testing.T) {
	ctx := context.Background()
	c := newController(store.NewMemoryStore(), game.DefaultConfig())
	if _, err := c.Create(ctx, "dup", player("Alice", aliceAnswers)); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Create(ctx, "dup", player("Carol", aliceAnswers)); !errors.Is(err, ErrGameExists) {
		t.Fatalf("err = %v, want ErrGameExists", err)
	}
	rec, _ := c.Get(ctx, "dup")
	if rec.Player1.Name != "Alice" {
		t.Errorf("original creator overwritten: %q", rec.Player1.Name)
	}
}

func TestJoinScoresAndCompletes(t *testing.T) {
	ctx := context.Background()
	c := newController(store.NewMemoryStore(), game.DefaultConfig())
	if _, err := c.Create(ctx, "g1", player("Alice", aliceAnswers)); err != nil {
		t.Fatal(err)
	}

	rec, err := c.Join(ctx, "g1", player("Bob", bobAnswers))
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	if rec.Player2 == nil || rec.Player2.Name != "Bob" {
		t.Fatalf("player2 = %+v", rec.Player2)
	}
	if rec.CompletedAt == nil || !rec.CompletedAt.Equal(fixedNow) {
		t.Errorf("completedAt = %v", rec.CompletedAt)
	}
	want := game.CalculateScore(aliceAnswers, bobAnswers)
	if rec.Results == nil || rec.Results.Player1Score != want.Player1Score || rec.Results.Player2Score != want.Player2Score {
		t.Fatalf("results = %+v, want %+v", rec.Results, want)
	}

	stored, err := c.Get(ctx, "g1")
	if err != nil || stored.Results == nil || stored.Player2 == nil {
		t.Fatalf("stored = %+v err=%v", stored, err)
	}
}

func TestJoinWithoutScoring(t *testing.T) {
	ctx := context.Background()
	c := newController(store.NewMemoryStore(), game.NewConfig("b", false, 0))
	if _, err := c.Create(ctx, "g1", player("Alice", aliceAnswers)); err != nil {
		t.Fatal(err)
	}
	rec, err := c.Join(ctx, "g1", player("Bob", bobAnswers))
	if err != nil {
		t.Fatal(err)
	}
	if rec.Results != nil {
		t.Errorf("results attached with scoring disabled: %+v", rec.Results)
	}
	if rec.Player2 == nil || rec.CompletedAt == nil {
		t.Errorf("join not recorded: %+v", rec)
	}
}

func TestJoinNotFound(t *testing.T) {
	c := newController(store.NewMemoryStore(), game.DefaultConfig())
	if _, err := c.Join(context.Background(), "missing", player("Bob", bobAnswers)); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestJoinAlreadyCompletedLeavesRecord(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	c := newController(st, game.DefaultConfig())
	if _, err := c.Create(ctx, "g1", player("Alice", aliceAnswers)); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Join(ctx, "g1", player("Bob", bobAnswers)); err != nil {
		t.Fatal(err)
	}
	before, v1, _ := st.Get(ctx, "game_g1")

	_, err := c.Join(ctx, "g1", player("Carol", aliceAnswers))
	if !errors.Is(err, ErrAlreadyCompleted) {
		t.Fatalf("err = %v, want ErrAlreadyCompleted", err)
	}
	after, v2, _ := st.Get(ctx, "game_g1")
	if v1 != v2 || after.Player2.Name != before.Player2.Name {
		t.Errorf("record mutated: v%d -> v%d, player2 %q", v1, v2, after.Player2.Name)
	}
}

func TestJoinValidatesAfterLookup(t *testing.T) {
	ctx := context.Background()
	c := newController(store.NewMemoryStore(), game.DefaultConfig())

	// Unknown game wins over bad input.
	if _, err := c.Join(ctx, "nope", player("", game.PlayerAnswers{})); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}

	if _, err := c.Create(ctx, "g1", player("Alice", aliceAnswers)); err != nil {
		t.Fatal(err)
	}
	_, err := c.Join(ctx, "g1", player("Bob", bobAnswers.With(1, "Carla")))
	var ve *game.ValidationError
	if !errors.As(err, &ve) || ve.Field != "girlName" {
		t.Fatalf("err = %v, want girlName validation error", err)
	}
	rec, _ := c.Get(ctx, "g1")
	if rec.Completed() {
		t.Errorf("invalid join completed the game")
	}
}

func TestJoinUsesRecordLetter(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	dGame := game.PlayerAnswers{BoyName: "Dan", GirlName: "Dana", Animal: "Dog", Place: "Dublin", Thing: "Desk", Movie: "Dune"}
	if _, err := newController(st, game.NewConfig("d", true, 0)).Create(ctx, "g1", player("Alice", dGame)); err != nil {
		t.Fatal(err)
	}
	// A controller configured for "b" still judges this game by "d".
	c := newController(st, game.DefaultConfig())
	if _, err := c.Join(ctx, "g1", player("Bob", dGame)); err != nil {
		t.Fatalf("join: %v", err)
	}
}

func TestDailyLetter(t *testing.T) {
	ctx := context.Background()
	now := fixedNow
	c := New(store.NewMemoryStore(), game.DefaultConfig(),
		WithDailyLetter("salt"),
		WithClock(func() time.Time { return now }))

	want := daily.Letter(fixedNow, "salt")
	cfg := c.Config()
	if cfg.RequiredLetter != want || !cfg.ScoringEnabled {
		t.Fatalf("config = %+v, want letter %q", cfg, want)
	}

	same := func(s string) game.PlayerAnswers {
		return game.PlayerAnswers{BoyName: s + "a", GirlName: s + "b", Animal: s + "c", Place: s + "d", Thing: s + "e", Movie: s + "f"}
	}
	rec, err := c.Create(ctx, "g1", player("Alice", same(want)))
	if err != nil {
		t.Fatalf("create with letter of the day: %v", err)
	}
	if rec.GameConfig.RequiredLetter != want {
		t.Errorf("stored letter = %q", rec.GameConfig.RequiredLetter)
	}

	// The next day may draw a different letter; the stored game keeps its own.
	now = fixedNow.AddDate(0, 0, 1)
	if _, err := c.Join(ctx, "g1", player("Bob", same(want))); err != nil {
		t.Fatalf("join next day: %v", err)
	}
}

// staleStore hands out an outdated version on Get, simulating a join that
// loaded the record just before another join wrote it.
type staleStore struct {
	store.Store
}

func (s staleStore) Get(ctx context.Context, key string) (*game.Record, int64, error) {
	rec, v, err := s.Store.Get(ctx, key)
	if err != nil {
		return nil, 0, err
	}
	rec.Player2 = nil
	rec.Results = nil
	return rec, v - 1, nil
}

func TestConcurrentJoinLoses(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	c := newController(mem, game.DefaultConfig())
	if _, err := c.Create(ctx, "g1", player("Alice", aliceAnswers)); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Join(ctx, "g1", player("Bob", bobAnswers)); err != nil {
		t.Fatal(err)
	}

	racer := newController(staleStore{mem}, game.DefaultConfig())
	if _, err := racer.Join(ctx, "g1", player("Carol", aliceAnswers)); !errors.Is(err, ErrAlreadyCompleted) {
		t.Fatalf("err = %v, want ErrAlreadyCompleted", err)
	}
	rec, _ := c.Get(ctx, "g1")
	if rec.Player2.Name != "Bob" {
		t.Errorf("winner overwritten by %q", rec.Player2.Name)
	}
}
