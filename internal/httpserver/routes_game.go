// internal/httpserver/routes_game.go
//
// Game endpoints:
//   - POST /api/create-game   → validate player1, store the game, return links
//   - GET  /api/get-game/{id} → full game record
//   - POST /api/join-game     → validate player2, score, return the record
//   - GET  /api/config        → rules new games are created with

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/kategorie/internal/game"
	"github.com/robalobadob/kategorie/internal/invite"
)

var errNoInvites = errors.New("invites disabled")

func (s *Server) mountGame(r chi.Router) {
	r.Post("/create-game", s.handleCreateGame)
	r.Get("/get-game/{id}", s.handleGetGame)
	r.Post("/join-game", s.handleJoinGame)
	r.Get("/config", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, s.games.Config())
	})
}

// playerReq is a submitted player. Answers is a pointer so a missing
// "answers" object can be told apart from six empty answers.
type playerReq struct {
	Name        string              `json:"name"`
	Answers     *game.PlayerAnswers `json:"answers"`
	SubmittedAt time.Time           `json:"submittedAt"`
	TimeSpent   int                 `json:"timeSpent"`
}

func (p *playerReq) complete() bool { return p != nil && p.Name != "" && p.Answers != nil }

func (p *playerReq) data() game.PlayerData {
	return game.PlayerData{
		Name:        p.Name,
		Answers:     *p.Answers,
		SubmittedAt: p.SubmittedAt,
		TimeSpent:   p.TimeSpent,
	}
}

// createReq/Res payloads for POST /api/create-game.
type createReq struct {
	ID      string     `json:"id"` // optional; generated when empty
	Player1 *playerReq `json:"player1"`
}
type createRes struct {
	Success  bool   `json:"success"`
	GameID   string `json:"gameId"`
	URL      string `json:"url"`
	ShareURL string `json:"shareUrl"`
	Invite   string `json:"invite,omitempty"`
}

func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var req createReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if !req.Player1.complete() {
		writeError(w, http.StatusBadRequest, "Player name and answers are required")
		return
	}

	rec, err := s.games.Create(r.Context(), req.ID, req.Player1.data())
	if err != nil {
		writeGameError(w, r, err, "Failed to store game")
		return
	}

	res := createRes{
		Success:  true,
		GameID:   rec.ID,
		URL:      invite.GameURL(s.baseURL, rec.ID),
		ShareURL: invite.GameURL(s.baseURL, rec.ID),
	}
	if tok, err := s.issueInvite(r, rec); err == nil {
		res.Invite = tok
		res.ShareURL = invite.ShareURL(s.baseURL, rec.ID, tok)
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	rec, err := s.games.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeGameError(w, r, err, "Failed to get game")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// joinReq payload for POST /api/join-game.
type joinReq struct {
	GameID  string     `json:"gameId"`
	Player2 *playerReq `json:"player2"`
}

func (s *Server) handleJoinGame(w http.ResponseWriter, r *http.Request) {
	var req joinReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if req.GameID == "" || !req.Player2.complete() {
		writeError(w, http.StatusBadRequest, "Game ID, player name, and answers are required")
		return
	}

	rec, err := s.games.Join(r.Context(), req.GameID, req.Player2.data())
	if err != nil {
		writeGameError(w, r, err, "Failed to join game")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// issueInvite signs an invite for rec; failures are logged and the caller
// falls back to the plain game URL.
func (s *Server) issueInvite(r *http.Request, rec *game.Record) (string, error) {
	if s.invites == nil {
		return "", errNoInvites
	}
	tok, _, err := s.invites.Issue(rec.ID, rec.Player1.Name)
	if err != nil {
		hlog.FromRequest(r).Warn().Err(err).Str("game_id", rec.ID).Msg("sign invite")
	}
	return tok, err
}
