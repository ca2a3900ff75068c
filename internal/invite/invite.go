// internal/invite/invite.go
//
// Signed invite tokens and share links.
// A game's share link is "{baseURL}/{gameId}"; the invite variant carries an
// HS256 JWT naming the game and its host so the joiner's page can show who
// challenged them without loading player1's answers. Tokens expire after a
// configurable TTL; the game itself does not. The signing key is derived
// from the configured secret with HKDF so the raw secret never signs tokens.

package invite

import (
	"crypto/sha256"
	"errors"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/hkdf"
)

const keyInfo = "kategorie invite v1"

// ErrInvalid covers malformed, tampered and expired tokens.
var ErrInvalid = errors.New("invalid invite")

// Invite is the verified content of a token.
type Invite struct {
	GameID    string    `json:"gameId"`
	Host      string    `json:"host"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Signer issues and verifies invite tokens.
type Signer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSigner returns a Signer; ttl <= 0 falls back to 7 days.
func NewSigner(secret string, ttl time.Duration) *Signer {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &Signer{secret: deriveKey(secret), ttl: ttl, now: time.Now}
}

func deriveKey(secret string) []byte {
	key := make([]byte, 32)
	r := hkdf.New(sha256.New, []byte(secret), nil, []byte(keyInfo))
	if _, err := io.ReadFull(r, key); err != nil {
		panic("invite: hkdf: " + err.Error())
	}
	return key
}

// Issue signs a token for gameID hosted by host.
func (s *Signer) Issue(gameID, host string) (string, time.Time, error) {
	now := s.now()
	exp := now.Add(s.ttl)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"gid":  gameID,
		"host": host,
		"exp":  exp.Unix(),
		"iat":  now.Unix(),
	})
	ss, err := t.SignedString(s.secret)
	return ss, exp, err
}

// Parse verifies token and returns its claims.
func (s *Signer) Parse(token string) (Invite, error) {
	claims := jwt.MapClaims{}
	t, err := jwt.ParseWithClaims(token, claims,
		func(t *jwt.Token) (interface{}, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !t.Valid {
		return Invite{}, ErrInvalid
	}
	gid, _ := claims["gid"].(string)
	host, _ := claims["host"].(string)
	if gid == "" {
		return Invite{}, ErrInvalid
	}
	inv := Invite{GameID: gid, Host: host}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		inv.ExpiresAt = exp.Time
	}
	return inv, nil
}

// GameURL is the plain link a joiner opens.
func GameURL(baseURL, gameID string) string {
	return strings.TrimSuffix(baseURL, "/") + "/" + url.PathEscape(gameID)
}

// ShareURL is GameURL with the invite token attached.
func ShareURL(baseURL, gameID, token string) string {
	u := GameURL(baseURL, gameID)
	if token == "" {
		return u
	}
	return u + "?" + url.Values{"invite": {token}}.Encode()
}
