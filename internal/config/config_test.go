package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validConfig() Config {
	return Config{
		Database: Database{Driver: "sqlite", DSN: "tradeflow.db"},
		Session:  Session{Secret: "s3cret", TTLMinutes: 60},
	}
}

func TestValidate(t *testing.T) {
	t.Run("SQLiteDefaults", func(t *testing.T) {
		cfg := validConfig()
		assert.NoError(t, cfg.Validate())
	})

	t.Run("MissingDSN", func(t *testing.T) {
		cfg := validConfig()
		cfg.Database.DSN = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("UnknownDriver", func(t *testing.T) {
		cfg := validConfig()
		cfg.Database.Driver = "oracle"
		assert.Error(t, cfg.Validate())
	})

	t.Run("SupabaseMissingSecrets", func(t *testing.T) {
		cfg := validConfig()
		cfg.Database.Driver = "supabase"
		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "SUPABASE_URL")
	})

	t.Run("SupabasePlaceholderSecrets", func(t *testing.T) {
		cfg := validConfig()
		cfg.Database.Driver = "supabase"
		cfg.Supabase.URL = "https://YOUR-PROJECT-ID.supabase.co"
		cfg.Supabase.Key = "real-looking-key"
		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "placeholder")
	})

	t.Run("SupabaseConfigured", func(t *testing.T) {
		cfg := validConfig()
		cfg.Database.Driver = "supabase"
		cfg.Supabase.URL = "https://abcdefgh.supabase.co"
		cfg.Supabase.Key = "anon-key"
		assert.NoError(t, cfg.Validate())
	})

	t.Run("SessionSecretRequired", func(t *testing.T) {
		cfg := validConfig()
		cfg.Session.Secret = ""
		assert.Error(t, cfg.Validate())

		cfg.Session.Secret = "CHANGE-ME"
		assert.Error(t, cfg.Validate())
	})

	t.Run("SessionTTLMustBePositive", func(t *testing.T) {
		cfg := validConfig()
		cfg.Session.TTLMinutes = 0
		assert.Error(t, cfg.Validate())
	})
}
