package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Laisky/errors/v2"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv(EnvAdminUsername, "admin")
	t.Setenv(EnvAdminPassword, "secret")
	t.Setenv("PORT", "8081")
	t.Setenv("SESSION_MAX_AGE", "3600")
	t.Setenv("GENERATE_TIMEOUT", "15s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "admin", cfg.AdminUsername)
	assert.Equal(t, "secret", cfg.AdminPassword)
	assert.Equal(t, "8081", cfg.Port)
	assert.Equal(t, "./post", cfg.PostDir)
	assert.Equal(t, time.Hour, cfg.SessionMaxAge)
	assert.Equal(t, 15*time.Second, cfg.GenerateTimeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CorsAllowedOrigins)
}

func TestLoad_FromEnvFile(t *testing.T) {
	// godotenv never overrides variables that are already set, even if empty.
	for _, key := range []string{EnvAdminUsername, EnvAdminPassword} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("ADMIN_USERNAME=fromfile\nADMIN_PASSWORD=pw\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "fromfile", cfg.AdminUsername)
	assert.Equal(t, path, cfg.EnvFile)
}

func TestLoad_EnvFileFromEnvironment(t *testing.T) {
	for _, key := range []string{EnvAdminUsername, EnvAdminPassword} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
	path := filepath.Join(t.TempDir(), "custom.env")
	require.NoError(t, os.WriteFile(path, []byte("ADMIN_USERNAME=custom\nADMIN_PASSWORD=pw\n"), 0o600))
	t.Setenv(EnvEnvFile, path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "custom", cfg.AdminUsername)
	assert.Equal(t, path, cfg.EnvFile)
}

func TestEnvFile(t *testing.T) {
	t.Setenv(EnvEnvFile, "")
	assert.Equal(t, DefaultEnvFile, EnvFile(""))

	t.Setenv(EnvEnvFile, "/etc/blog.env")
	assert.Equal(t, "/etc/blog.env", EnvFile(""))
	assert.Equal(t, "flag.env", EnvFile("flag.env"))
}

func TestLoad_MissingCredentials(t *testing.T) {
	t.Setenv(EnvAdminUsername, "")
	t.Setenv(EnvAdminPassword, "")

	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingCredentials))
	assert.Contains(t, err.Error(), EnvAdminUsername)
}

func TestLoad_BadDuration(t *testing.T) {
	t.Setenv(EnvAdminUsername, "admin")
	t.Setenv(EnvAdminPassword, "secret")
	t.Setenv("GENERATE_TIMEOUT", "soon")

	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}

func TestSplitCSV(t *testing.T) {
	assert.Equal(t, []string{"*"}, splitCSV(""))
	assert.Equal(t, []string{"*"}, splitCSV(" , "))
	assert.Equal(t, []string{"a", "b"}, splitCSV("a,b"))
}

func TestCredentials_Verify(t *testing.T) {
	c := NewCredentials("admin", "secret", "")

	assert.True(t, c.Verify("admin", "secret"))
	assert.False(t, c.Verify("admin", "wrong"))
	assert.False(t, c.Verify("root", "secret"))
	assert.False(t, c.Verify("", ""))
}

func TestCredentials_ResetRewritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("ADMIN_USERNAME=old\nADMIN_PASSWORD=old\nGROQ_API_KEY=key\n"), 0o600))

	c := NewCredentials("old", "old", path)
	require.NoError(t, c.Reset("new", "pass"))

	assert.True(t, c.Verify("new", "pass"))
	assert.False(t, c.Verify("old", "old"))
	assert.Equal(t, "new", c.Username())

	env, err := godotenv.Read(path)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		EnvAdminUsername: "new",
		EnvAdminPassword: "pass",
		"GROQ_API_KEY":   "key",
	}, env)
}

func TestCredentials_ResetCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	c := NewCredentials("old", "old", path)

	require.NoError(t, c.Reset("new", "pass"))

	env, err := godotenv.Read(path)
	require.NoError(t, err)
	assert.Equal(t, "new", env[EnvAdminUsername])
}

func TestCredentials_ResetRejectsEmpty(t *testing.T) {
	c := NewCredentials("admin", "secret", "")

	err := c.Reset("", "x")
	assert.True(t, errors.Is(err, ErrEmptyCredentials))
	assert.True(t, c.Verify("admin", "secret"))
}
