// Package session stores the typed client session in a signed cookie. The
// cookie carries a session id; a session is authenticated only while its id
// is live in the Manager.
package session

import (
	"crypto/rand"
	"net/http"
	"sync"
	"time"

	"github.com/Laisky/errors/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/BorisDmv/my-blog/internal/models"
)

const CookieName = "blog_session"

type claims struct {
	Authenticated bool `json:"authenticated"`
	jwt.RegisteredClaims
}

// Manager reads and writes sessions. The zero value is not usable.
type Manager struct {
	secret []byte
	maxAge time.Duration
	secure bool
	now    func() time.Time

	mu sync.Mutex
	// live maps authenticated session ids to their expiry. A zero expiry
	// lasts until End.
	live map[uuid.UUID]time.Time
}

type Options struct {
	// Secret signs the session token. Must not be empty.
	Secret []byte
	// MaxAge bounds the cookie and token lifetime. Zero keeps the cookie
	// for the browser session.
	MaxAge time.Duration
	Secure bool
}

func NewManager(opts Options) (*Manager, error) {
	if len(opts.Secret) == 0 {
		return nil, errors.New("session secret is empty")
	}
	return &Manager{
		secret: opts.Secret,
		maxAge: opts.MaxAge,
		secure: opts.Secure,
		now:    time.Now,
		live:   make(map[uuid.UUID]time.Time),
	}, nil
}

// RandomSecret returns a fresh signing secret.
func RandomSecret() ([]byte, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return nil, errors.Wrap(err, "read random secret")
	}
	return b, nil
}

// parse returns the claims of the session cookie on r and its session id.
func (m *Manager) parse(r *http.Request) (claims, uuid.UUID, bool) {
	var c claims
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return c, uuid.Nil, false
	}

	token, err := jwt.ParseWithClaims(cookie.Value, &c, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil || !token.Valid {
		return c, uuid.Nil, false
	}

	id, err := uuid.Parse(c.ID)
	if err != nil {
		return c, uuid.Nil, false
	}
	return c, id, true
}

// Get returns the session attached to r. Any cookie that is missing,
// malformed, expired, ended or not signed by m reads as an unauthenticated
// session.
func (m *Manager) Get(r *http.Request) models.Session {
	c, id, ok := m.parse(r)
	if !ok || !c.Authenticated {
		return models.Session{}
	}
	return models.Session{Authenticated: m.isLive(id)}
}

func (m *Manager) isLive(id uuid.UUID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	expires, ok := m.live[id]
	if !ok {
		return false
	}
	if !expires.IsZero() && !m.now().Before(expires) {
		delete(m.live, id)
		return false
	}
	return true
}

// Save starts a new session holding s and writes it to the response as the
// session cookie.
func (m *Manager) Save(w http.ResponseWriter, s models.Session) error {
	now := m.now()
	id := uuid.New()
	c := claims{
		Authenticated: s.Authenticated,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:       id.String(),
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	var expires time.Time
	if m.maxAge > 0 {
		expires = now.Add(m.maxAge)
		c.ExpiresAt = jwt.NewNumericDate(expires)
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(m.secret)
	if err != nil {
		return errors.Wrap(err, "sign session")
	}

	if s.Authenticated {
		m.mu.Lock()
		m.pruneLocked(now)
		m.live[id] = expires
		m.mu.Unlock()
	}

	cookie := &http.Cookie{
		Name:     CookieName,
		Value:    signed,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
	if m.maxAge > 0 {
		cookie.MaxAge = int(m.maxAge / time.Second)
		cookie.Expires = expires
	}
	http.SetCookie(w, cookie)
	return nil
}

// End invalidates the session carried by r, so its cookie no longer
// authenticates anywhere, and clears the cookie on the client.
func (m *Manager) End(w http.ResponseWriter, r *http.Request) {
	if _, id, ok := m.parse(r); ok {
		m.mu.Lock()
		delete(m.live, id)
		m.mu.Unlock()
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (m *Manager) pruneLocked(now time.Time) {
	for id, expires := range m.live {
		if !expires.IsZero() && !now.Before(expires) {
			delete(m.live, id)
		}
	}
}
