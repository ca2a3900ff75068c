// internal/session/controller.go
//
// Create / join orchestration for Kategorie games.
// Responsibilities:
//   - Validate the submitting player (name, then answers).
//   - Build and persist the record on create (player1 only).
//   - On join: load, reject completed games, validate, score, persist.
//
// Notes:
//   - Answers are validated against the letter stored on the record, so a
//     server letter change never breaks games already in flight.
//   - Join writes with the version read at load time; if another join landed
//     first the write is rejected and reported as ErrAlreadyCompleted.

package session

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/robalobadob/kategorie/internal/daily"
	"github.com/robalobadob/kategorie/internal/game"
	"github.com/robalobadob/kategorie/internal/store"
)

var (
	ErrNotFound         = errors.New("game not found")
	ErrAlreadyCompleted = errors.New("game already completed")
	ErrGameExists       = errors.New("game already exists")
	ErrInvalidID        = errors.New("invalid game id")
)

var idPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// Controller runs the create and join flows against a Store.
type Controller struct {
	store store.Store
	cfg   game.Config
	salt  string // non-empty: letter of the day
	log   zerolog.Logger
	now   func() time.Time
}

// Option customizes a Controller.
type Option func(*Controller)

// WithLogger sets the logger used for lifecycle events.
func WithLogger(l zerolog.Logger) Option { return func(c *Controller) { c.log = l } }

// WithClock overrides time.Now (tests).
func WithClock(now func() time.Time) Option { return func(c *Controller) { c.now = now } }

// WithDailyLetter replaces the configured letter with a per-day letter
// derived from salt.
func WithDailyLetter(salt string) Option { return func(c *Controller) { c.salt = salt } }

// New builds a Controller. cfg is copied onto every game created.
func New(st store.Store, cfg game.Config, opts ...Option) *Controller {
	c := &Controller{store: st, cfg: cfg, log: zerolog.Nop(), now: time.Now}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Config returns the configuration a game created now would get.
func (c *Controller) Config() game.Config { return c.rules(c.now()) }

func (c *Controller) rules(at time.Time) game.Config {
	cfg := c.cfg
	if c.salt != "" {
		return game.NewConfig(daily.Letter(at, c.salt), cfg.ScoringEnabled, cfg.TimeLimit)
	}
	cfg.Categories = append([]string(nil), c.cfg.Categories...)
	return cfg
}

// NewID returns a 32-char hex id.
func NewID() string { return strings.ReplaceAll(uuid.NewString(), "-", "") }

// Create validates player1 and stores a new game under id.
// An empty id gets a generated one.
func (c *Controller) Create(ctx context.Context, id string, p1 game.PlayerData) (*game.Record, error) {
	if id == "" {
		id = NewID()
	}
	if !idPattern.MatchString(id) {
		return nil, ErrInvalidID
	}
	now := c.now().UTC()
	cfg := c.rules(now)
	if err := validatePlayer(p1, cfg.RequiredLetter); err != nil {
		return nil, err
	}

	if p1.SubmittedAt.IsZero() {
		p1.SubmittedAt = now
	}
	rec := &game.Record{
		ID:         id,
		Player1:    p1,
		GameConfig: cfg,
		CreatedAt:  now,
	}

	err := c.store.Set(ctx, store.GameKey(id), rec, 0)
	if errors.Is(err, store.ErrConflict) {
		return nil, ErrGameExists
	}
	if err != nil {
		return nil, fmt.Errorf("store game %s: %w", id, err)
	}
	c.log.Info().Str("game_id", id).Str("player", p1.Name).Msg("game created")
	return rec, nil
}

// Get loads a game by id.
func (c *Controller) Get(ctx context.Context, id string) (*game.Record, error) {
	rec, _, err := c.load(ctx, id)
	return rec, err
}

// Join attaches player2, scores the game if enabled, and stores the result.
func (c *Controller) Join(ctx context.Context, id string, p2 game.PlayerData) (*game.Record, error) {
	rec, version, err := c.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec.Completed() {
		return nil, ErrAlreadyCompleted
	}
	if err := validatePlayer(p2, rec.GameConfig.RequiredLetter); err != nil {
		return nil, err
	}

	now := c.now().UTC()
	if p2.SubmittedAt.IsZero() {
		p2.SubmittedAt = now
	}
	rec.Player2 = &p2
	if rec.GameConfig.ScoringEnabled {
		res := game.CalculateScore(rec.Player1.Answers, p2.Answers)
		rec.Results = &res
	}
	rec.CompletedAt = &now

	err = c.store.Set(ctx, store.GameKey(id), rec, version)
	if errors.Is(err, store.ErrConflict) {
		c.log.Warn().Str("game_id", id).Str("player", p2.Name).Msg("concurrent join rejected")
		return nil, ErrAlreadyCompleted
	}
	if err != nil {
		return nil, fmt.Errorf("store game %s: %w", id, err)
	}

	ev := c.log.Info().Str("game_id", id).Str("player", p2.Name)
	if rec.Results != nil {
		ev = ev.Int("player1_score", rec.Results.Player1Score).Int("player2_score", rec.Results.Player2Score)
	}
	ev.Msg("game completed")
	return rec, nil
}

func (c *Controller) load(ctx context.Context, id string) (*game.Record, int64, error) {
	if !idPattern.MatchString(id) {
		return nil, 0, ErrNotFound
	}
	rec, version, err := c.store.Get(ctx, store.GameKey(id))
	if errors.Is(err, store.ErrNotFound) {
		return nil, 0, ErrNotFound
	}
	if err != nil {
		return nil, 0, fmt.Errorf("load game %s: %w", id, err)
	}
	return rec, version, nil
}

// validatePlayer checks the name first, then the answers.
func validatePlayer(p game.PlayerData, letter string) error {
	if err := game.ValidateName(p.Name); err != nil {
		return err
	}
	return game.ValidateAllAnswers(p.Answers, letter)
}
