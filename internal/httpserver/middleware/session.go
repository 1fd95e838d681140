package middleware

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"
)

const (
	defaultSessionCookie = "keycraft_session"
	defaultSessionMaxAge = 30 * 24 * time.Hour
)

// SessionData is the signed cookie payload. Storefront state lives on the
// server keyed by ID; the cookie only carries identity and the CSRF token.
type SessionData struct {
	ID        string    `json:"id"`
	CSRFToken string    `json:"csrf"`
	CreatedAt time.Time `json:"createdAt"`
}

// SessionConfig configures the session cookie.
type SessionConfig struct {
	CookieName string
	SigningKey []byte
	Secure     bool
	MaxAge     time.Duration
}

// Sessions issues and verifies HMAC-signed session cookies.
type Sessions struct {
	name   string
	key    []byte
	secure bool
	maxAge time.Duration
	now    func() time.Time
}

// NewSessions validates cfg and returns the session middleware factory.
func NewSessions(cfg SessionConfig) (*Sessions, error) {
	if len(cfg.SigningKey) == 0 {
		return nil, errors.New("session signing key is required")
	}
	s := &Sessions{
		name:   strings.TrimSpace(cfg.CookieName),
		key:    append([]byte(nil), cfg.SigningKey...),
		secure: cfg.Secure,
		maxAge: cfg.MaxAge,
		now:    time.Now,
	}
	if s.name == "" {
		s.name = defaultSessionCookie
	}
	if s.maxAge <= 0 {
		s.maxAge = defaultSessionMaxAge
	}
	return s, nil
}

// CookieName is the name of the session cookie.
func (s *Sessions) CookieName() string { return s.name }

// Middleware loads or initialises a session and stores it in request context.
// New sessions set their cookie before the handler runs.
func (s *Sessions) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sd, ok := s.read(r)
		if !ok {
			sd = &SessionData{
				ID:        randID(),
				CSRFToken: newCSRFToken(),
				CreatedAt: s.now().UTC(),
			}
			http.SetCookie(w, s.Cookie(sd))
		}
		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), sd)))
	})
}

// Cookie encodes and signs sd.
func (s *Sessions) Cookie(sd *SessionData) *http.Cookie {
	b, _ := json.Marshal(sd)
	return &http.Cookie{
		Name:     s.name,
		Value:    base64.RawURLEncoding.EncodeToString(b) + "." + base64.RawURLEncoding.EncodeToString(s.sign(b)),
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.maxAge / time.Second),
	}
}

func (s *Sessions) read(r *http.Request) (*SessionData, bool) {
	c, err := r.Cookie(s.name)
	if err != nil || c.Value == "" {
		return nil, false
	}
	payloadPart, sigPart, found := strings.Cut(c.Value, ".")
	if !found {
		return nil, false
	}
	payload, err := base64.RawURLEncoding.DecodeString(payloadPart)
	if err != nil {
		return nil, false
	}
	sig, err := base64.RawURLEncoding.DecodeString(sigPart)
	if err != nil {
		return nil, false
	}
	if !hmac.Equal(sig, s.sign(payload)) {
		return nil, false
	}
	var sd SessionData
	if err := json.Unmarshal(payload, &sd); err != nil || sd.ID == "" || sd.CSRFToken == "" {
		return nil, false
	}
	return &sd, true
}

func (s *Sessions) sign(b []byte) []byte {
	mac := hmac.New(sha256.New, s.key)
	mac.Write(b)
	return mac.Sum(nil)
}

func randID() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}

func newCSRFToken() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
