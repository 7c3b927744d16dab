package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	unset(t, "PORT", "LOG_LEVEL", "DB_PATH", "JWT_EXPIRES_DAYS", "COOKIE_NAME", "NODE_ENV")
	c := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.Equal(t, "5175", c.Port)
	require.Equal(t, zerolog.InfoLevel, c.LogLevel)
	require.Equal(t, "./data/wordbattle.db", c.DBPath)
	require.Equal(t, 14*24*time.Hour, c.TokenTTL)
	require.Equal(t, "wordbattle_token", c.CookieName)
	require.False(t, c.Production)
}

func TestLoadEnvFile(t *testing.T) {
	t.Setenv("PORT", "9000")
	unset(t, "JWT_EXPIRES_DAYS", "LOG_LEVEL", "NODE_ENV")

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path,
		[]byte("PORT=7000\nJWT_EXPIRES_DAYS=2\nLOG_LEVEL=debug\nNODE_ENV=production\n"), 0o600))

	c := Load(path)
	require.Equal(t, "9000", c.Port)
	require.Equal(t, 48*time.Hour, c.TokenTTL)
	require.Equal(t, zerolog.DebugLevel, c.LogLevel)
	require.True(t, c.Production)
}

// unset clears keys for the test; godotenv never overrides a variable that
// exists, even an empty one. t.Setenv restores them afterwards.
func unset(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}
