// internal/httpserver/routes_share.go
//
// Share endpoints, used by the creator to hand the game to a friend and by
// the friend's page before they answer:
//   - GET /api/invite/{token}     → who is challenging you, and with which rules
//   - GET /api/share/{id}         → plain and invite links for a game
//   - GET /api/share/{id}/qr.png  → QR code of the invite link
//
// The invite preview never includes player1's answers.

package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"
	"github.com/skip2/go-qrcode"

	"github.com/robalobadob/kategorie/internal/invite"
)

const qrSize = 256

func (s *Server) mountShare(r chi.Router) {
	r.Get("/invite/{token}", s.handleInvite)
	r.Route("/share/{id}", func(r chi.Router) {
		r.Get("/", s.handleShare)
		r.Get("/qr.png", s.handleShareQR)
	})
}

// inviteRes is returned by /api/invite/{token}.
type inviteRes struct {
	GameID         string   `json:"gameId"`
	Host           string   `json:"host"`
	RequiredLetter string   `json:"requiredLetter"`
	Categories     []string `json:"categories"`
	TimeLimit      int      `json:"timeLimit,omitempty"`
	Completed      bool     `json:"completed"`
}

func (s *Server) handleInvite(w http.ResponseWriter, r *http.Request) {
	if s.invites == nil {
		writeError(w, http.StatusNotFound, "Invites are disabled")
		return
	}
	inv, err := s.invites.Parse(chi.URLParam(r, "token"))
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid invite")
		return
	}
	rec, err := s.games.Get(r.Context(), inv.GameID)
	if err != nil {
		writeGameError(w, r, err, "Failed to get game")
		return
	}
	writeJSON(w, http.StatusOK, inviteRes{
		GameID:         rec.ID,
		Host:           rec.Player1.Name,
		RequiredLetter: rec.GameConfig.RequiredLetter,
		Categories:     rec.GameConfig.Categories,
		TimeLimit:      rec.GameConfig.TimeLimit,
		Completed:      rec.Completed(),
	})
}

// shareRes is returned by /api/share/{id}.
type shareRes struct {
	GameID   string `json:"gameId"`
	URL      string `json:"url"`
	ShareURL string `json:"shareUrl"`
	Invite   string `json:"invite,omitempty"`
}

func (s *Server) handleShare(w http.ResponseWriter, r *http.Request) {
	rec, err := s.games.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeGameError(w, r, err, "Failed to get game")
		return
	}
	res := shareRes{
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

// handleShareQR renders the invite link (or the plain link when invites are
// unavailable) as a PNG QR code.
func (s *Server) handleShareQR(w http.ResponseWriter, r *http.Request) {
	rec, err := s.games.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeGameError(w, r, err, "Failed to get game")
		return
	}
	link := invite.GameURL(s.baseURL, rec.ID)
	if tok, err := s.issueInvite(r, rec); err == nil {
		link = invite.ShareURL(s.baseURL, rec.ID, tok)
	}

	png, err := qrcode.Encode(link, qrcode.Medium, qrSize)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Str("game_id", rec.ID).Msg("qr generation failed")
		writeError(w, http.StatusInternalServerError, "QR generation failed")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}
