package model

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, DefaultBaseURL, cfg.Provider.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Provider.Timeout())
	assert.Equal(t, 8.0, cfg.Provider.RatePerSec)
	assert.Equal(t, 15*time.Second, cfg.Inbox.PollInterval())
	assert.Equal(t, ":memory:", cfg.Store.DSN)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "default", cfg.Display.Theme)
}

func TestLoadConfig_FileValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
provider:
  base_url: http://localhost:9000/
  timeout_sec: 5
inbox:
  poll_interval_sec: 0
log:
  level: debug
  file: /tmp/tempmail.log
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9000", cfg.Provider.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Provider.Timeout())
	assert.Equal(t, 8.0, cfg.Provider.RatePerSec)
	assert.Zero(t, cfg.Inbox.PollInterval())
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "/tmp/tempmail.log", cfg.Log.File)
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("TEMPMAIL_PROVIDER_BASE_URL", "http://env.example")
	t.Setenv("TEMPMAIL_INBOX_POLL_INTERVAL_SEC", "60")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "http://env.example", cfg.Provider.BaseURL)
	assert.Equal(t, time.Minute, cfg.Inbox.PollInterval())
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("provider: [unclosed"), 0o600))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultAppConfig()
	cfg.Provider.BaseURL = "http://saved.example"
	cfg.Inbox.PollIntervalSec = 42
	require.NoError(t, SaveConfig(path, cfg))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "http://saved.example", loaded.Provider.BaseURL)
	assert.Equal(t, 42, loaded.Inbox.PollIntervalSec)
}

func TestMessageDetail_BodyPrefersHTML(t *testing.T) {
	d := MessageDetail{HTML: "<p>hi</p>", Text: "hi"}
	assert.Equal(t, "<p>hi</p>", d.Body())

	d.HTML = ""
	assert.Equal(t, "hi", d.Body())
}

func TestAddress_String(t *testing.T) {
	assert.Equal(t, "a@b.c", Address{Address: "a@b.c"}.String())
	assert.Equal(t, "Ann <a@b.c>", Address{Address: "a@b.c", Name: "Ann"}.String())
}
