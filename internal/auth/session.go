package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Settings are the ephemeral per-session account parameters. They live only
// in the session store and are never persisted: a new session starts from
// the defaults again.
type Settings struct {
	RealCapital  float64 `json:"real_capital"`
	BrokerCredit float64 `json:"broker_credit"`
	RiskPercent  float64 `json:"risk_percent"`
}

// DefaultSettings are the values a fresh session starts from.
func DefaultSettings() Settings {
	return Settings{RiskPercent: 2.0}
}

// TotalCapital is the full margin-usable equity.
func (s Settings) TotalCapital() float64 {
	return s.RealCapital + s.BrokerCredit
}

// RiskAmount is the currency amount put at risk on a single trade.
func (s Settings) RiskAmount() float64 {
	return s.TotalCapital() * s.RiskPercent / 100
}

// Session is the server-side state behind one signed token.
type Session struct {
	Email     string    `json:"email"`
	FullName  string    `json:"full_name,omitempty"`
	Settings  Settings  `json:"settings"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Manager issues, validates and destroys sessions. Tokens have the form
// "<uuid>.<hex hmac-sha256(uuid)>" so a spoofed or tampered token is
// rejected before the map is even consulted.
type Manager struct {
	secret []byte
	ttl    time.Duration

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager creates a session manager signing tokens with secret.
func NewManager(secret string, ttl time.Duration) *Manager {
	return &Manager{
		secret:   []byte(secret),
		ttl:      ttl,
		sessions: make(map[string]*Session),
	}
}

// sign creates a HMAC-SHA256 signature for the session id.
func (m *Manager) sign(id string) string {
	h := hmac.New(sha256.New, m.secret)
	h.Write([]byte(id))
	return hex.EncodeToString(h.Sum(nil))
}

// Create opens a new session for the given account and returns its token.
func (m *Manager) Create(email, fullName string) (string, *Session) {
	id := uuid.NewString()
	token := id + "." + m.sign(id)

	session := &Session{
		Email:     email,
		FullName:  fullName,
		Settings:  DefaultSettings(),
		ExpiresAt: time.Now().Add(m.ttl),
	}

	m.mu.Lock()
	m.sessions[id] = session
	m.mu.Unlock()

	snapshot := *session
	return token, &snapshot
}

// Get validates the token signature and expiry and returns a snapshot of
// the session. Expired sessions are removed on access. Handing out a copy
// keeps callers race-free against concurrent UpdateSettings on the same
// session; mutations go through the manager, never through the snapshot.
func (m *Manager) Get(token string) (*Session, bool) {
	id, ok := m.verify(token)
	if !ok {
		return nil, false
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[id]
	if !ok {
		return nil, false
	}
	if time.Now().After(session.ExpiresAt) {
		delete(m.sessions, id)
		return nil, false
	}
	snapshot := *session
	return &snapshot, true
}

// Destroy ends the session behind the token, if any.
func (m *Manager) Destroy(token string) {
	id, ok := m.verify(token)
	if !ok {
		return
	}
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// UpdateSettings replaces the ephemeral account settings of a live session
// and returns a snapshot of the updated session. The write happens under
// the manager lock, against the stored session rather than a snapshot.
func (m *Manager) UpdateSettings(token string, settings Settings) (*Session, bool) {
	id, ok := m.verify(token)
	if !ok {
		return nil, false
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[id]
	if !ok {
		return nil, false
	}
	if time.Now().After(session.ExpiresAt) {
		delete(m.sessions, id)
		return nil, false
	}
	session.Settings = settings
	snapshot := *session
	return &snapshot, true
}

// verify checks the token shape and signature and returns the session id.
func (m *Manager) verify(token string) (string, bool) {
	id, sig, found := strings.Cut(token, ".")
	if !found || id == "" {
		return "", false
	}
	if !hmac.Equal([]byte(sig), []byte(m.sign(id))) {
		return "", false
	}
	return id, true
}
