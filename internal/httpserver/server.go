// internal/httpserver/server.go
//
// HTTP server wiring for the Kategorie backend.
// Responsibilities:
//   - Router + middleware (request IDs, access log, panic recovery, timeouts,
//     JSON content type, CORS, body limit).
//   - Public endpoints: "/", "/health".
//   - Game endpoints under /api: create-game, get-game/{id}, join-game.
//   - Share endpoints under /api: invite/{token}, share/{id}, share/{id}/qr.png.
//
// Notes:
//   - Error bodies are always {"error": "..."}; validation errors add
//     "code" and "field".
//   - Game rules live in internal/game; orchestration in internal/session.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/kategorie/internal/game"
	"github.com/robalobadob/kategorie/internal/invite"
	"github.com/robalobadob/kategorie/internal/session"
)

// Options configures a Server.
type Options struct {
	Games      *session.Controller
	Invites    *invite.Signer
	BaseURL    string // web client base used in share links
	CORSOrigin string
	Logger     zerolog.Logger
}

// Server bundles the router and its dependencies.
type Server struct {
	r       *chi.Mux
	games   *session.Controller
	invites *invite.Signer
	baseURL string
	log     zerolog.Logger
}

// New constructs a Server, installs middleware, and registers routes.
func New(o Options) *Server {
	s := &Server{
		r:       chi.NewRouter(),
		games:   o.Games,
		invites: o.Invites,
		baseURL: o.BaseURL,
		log:     o.Logger,
	}
	if s.baseURL == "" {
		s.baseURL = "http://localhost:5173"
	}
	origin := o.CORSOrigin
	if origin == "" {
		origin = s.baseURL
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID) // add X-Request-ID
	s.r.Use(chimw.RealIP)    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(requestLogger(s.log)...)
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
	s.r.Use(jsonContentType)
	s.r.Use(cors(origin))
	s.r.Use(limitBody)

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"service": "kategorie",
			"endpoints": []string{
				"/health",
				"POST /api/create-game",
				"GET /api/get-game/{id}",
				"POST /api/join-game",
				"GET /api/config",
				"GET /api/invite/{token}",
				"GET /api/share/{id}",
				"GET /api/share/{id}/qr.png",
			},
		})
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})

	s.r.Route("/api", func(r chi.Router) {
		s.mountGame(r)
		s.mountShare(r)
	})

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// Handler exposes the router for http.Server and tests.
func (s *Server) Handler() http.Handler { return s.r }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ------------------------------ responses ----------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeGameError maps controller errors to status codes. Anything that is
// not a known game error is logged and reported with fallback.
func writeGameError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	var ve *game.ValidationError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, ve)
	case errors.Is(err, session.ErrNotFound):
		writeError(w, http.StatusNotFound, "Game not found")
	case errors.Is(err, session.ErrAlreadyCompleted):
		writeError(w, http.StatusBadRequest, "Game already completed")
	case errors.Is(err, session.ErrGameExists):
		writeError(w, http.StatusBadRequest, "Game already exists")
	case errors.Is(err, session.ErrInvalidID):
		writeError(w, http.StatusBadRequest, "Invalid game ID")
	default:
		hlog.FromRequest(r).Error().Err(err).Msg(fallback)
		writeError(w, http.StatusInternalServerError, fallback)
	}
}
