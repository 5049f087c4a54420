package auth

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestManager_CreateAndGet(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	token, created := m.Create("trader@example.com", "Jo Trader")
	assert.NotEmpty(t, token)
	assert.Equal(t, "trader@example.com", created.Email)
	assert.InDelta(t, 2.0, created.Settings.RiskPercent, 1e-9)

	session, ok := m.Get(token)
	assert.True(t, ok)
	assert.Equal(t, "trader@example.com", session.Email)
	assert.Equal(t, "Jo Trader", session.FullName)
}

func TestManager_RejectsTamperedToken(t *testing.T) {
	m := NewManager("test-secret", time.Hour)
	token, _ := m.Create("trader@example.com", "")

	// Swap the session id but keep the valid signature.
	_, sig, _ := strings.Cut(token, ".")
	forged := "someone-else." + sig

	_, ok := m.Get(forged)
	assert.False(t, ok)

	// A bare unsigned value is rejected too.
	_, ok = m.Get("someone-else")
	assert.False(t, ok)

	_, ok = m.Get("")
	assert.False(t, ok)
}

func TestManager_RejectsForeignSecret(t *testing.T) {
	issuer := NewManager("secret-a", time.Hour)
	verifier := NewManager("secret-b", time.Hour)

	token, _ := issuer.Create("trader@example.com", "")
	_, ok := verifier.Get(token)
	assert.False(t, ok)
}

func TestManager_Expiry(t *testing.T) {
	m := NewManager("test-secret", -time.Minute) // already expired on creation
	token, _ := m.Create("trader@example.com", "")

	_, ok := m.Get(token)
	assert.False(t, ok)
}

func TestManager_Destroy(t *testing.T) {
	m := NewManager("test-secret", time.Hour)
	token, _ := m.Create("trader@example.com", "")

	m.Destroy(token)
	_, ok := m.Get(token)
	assert.False(t, ok)
}

func TestManager_UpdateSettings(t *testing.T) {
	m := NewManager("test-secret", time.Hour)
	token, _ := m.Create("trader@example.com", "")

	updated, ok := m.UpdateSettings(token, Settings{RealCapital: 733.18, BrokerCredit: 500, RiskPercent: 2})
	assert.True(t, ok)
	assert.InDelta(t, 1233.18, updated.Settings.TotalCapital(), 1e-9)

	session, ok := m.Get(token)
	assert.True(t, ok)
	assert.InDelta(t, 1233.18, session.Settings.TotalCapital(), 1e-9)
	assert.InDelta(t, 24.6636, session.Settings.RiskAmount(), 1e-4)

	_, ok = m.UpdateSettings("bogus-token", Settings{})
	assert.False(t, ok)
}

func TestManager_GetReturnsSnapshot(t *testing.T) {
	m := NewManager("test-secret", time.Hour)
	token, _ := m.Create("trader@example.com", "")

	first, ok := m.Get(token)
	assert.True(t, ok)
	first.Settings.RealCapital = 99999 // must not leak into the stored session

	second, ok := m.Get(token)
	assert.True(t, ok)
	assert.Zero(t, second.Settings.RealCapital)
}

// Readers holding a session from Get must never race against a concurrent
// settings update on the same session. Run with -race.
func TestManager_ConcurrentSettingsAccess(t *testing.T) {
	m := NewManager("test-secret", time.Hour)
	token, _ := m.Create("trader@example.com", "")

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			m.UpdateSettings(token, Settings{RealCapital: float64(i), RiskPercent: 2})
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			if session, ok := m.Get(token); ok {
				_ = session.Settings.RiskAmount()
				_ = session.Settings.RealCapital
			}
		}
	}()
	wg.Wait()

	session, ok := m.Get(token)
	assert.True(t, ok)
	assert.InDelta(t, 999.0, session.Settings.RealCapital, 1e-9)
}
