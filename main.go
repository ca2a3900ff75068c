package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/kategorie/internal/game"
	"github.com/robalobadob/kategorie/internal/httpserver"
	"github.com/robalobadob/kategorie/internal/invite"
	"github.com/robalobadob/kategorie/internal/session"
	"github.com/robalobadob/kategorie/internal/store"
)

const releaseVersion = "0.1.0"

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := &Config{}
	if err := newCmd(cfg).ExecuteContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("kategorie exited")
	}
}

func openStore(cfg *Config) (store.Store, func(), error) {
	if cfg.store == "memory" {
		return store.NewMemoryStore(), func() {}, nil
	}
	db, err := store.OpenDB(cfg.dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", cfg.dbPath, err)
	}
	if err := store.Migrate(db); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("migrate: %w", err)
	}
	return store.NewSQLite(db), func() { _ = db.Close() }, nil
}

func serve(ctx context.Context, cfg *Config) error {
	st, closeStore, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	opts := []session.Option{session.WithLogger(log.Logger)}
	letter := cfg.letter
	if letter == dailyLetter {
		letter = game.DefaultLetter
		opts = append(opts, session.WithDailyLetter(cfg.dailySalt))
	}
	games := session.New(st, game.NewConfig(letter, cfg.scoring, cfg.timeLimit), opts...)
	rules := games.Config()
	srv := httpserver.New(httpserver.Options{
		Games:      games,
		Invites:    invite.NewSigner(cfg.inviteSecret, cfg.inviteTTL),
		BaseURL:    cfg.baseURL,
		CORSOrigin: cfg.corsOrigin,
		Logger:     log.Logger,
	})

	addr := net.JoinHostPort(cfg.bind, strconv.Itoa(cfg.port))
	hs := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", addr).
			Str("store", cfg.store).
			Str("letter", cfg.letter).
			Str("today", rules.RequiredLetter).
			Bool("scoring", rules.ScoringEnabled).
			Msg("starting kategorie")
		errc <- hs.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return hs.Shutdown(shutdownCtx)
}
