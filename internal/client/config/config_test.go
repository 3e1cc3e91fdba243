package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://127.0.0.1:8080/whatsapp", c.WebhookURL)
	assert.Equal(t, "whatsapp:+10000000000", c.Sender)
	assert.Equal(t, 90*time.Second, c.Timeout)
}

func TestLoadConfig_JsonThenFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	t.Setenv("MEALBOT_CONFIG", "")

	path := filepath.Join(t.TempDir(), "cli.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"webhook_url":"http://bot:9000/whatsapp","sender":"whatsapp:+1","timeout":"5s"}`), 0o600))

	os.Args = []string{"cli", "-c", path, "-f", "whatsapp:+2"}
	got := LoadConfig()

	want := &Config{
		WebhookURL: "http://bot:9000/whatsapp",
		Sender:     "whatsapp:+2",
		Timeout:    5 * time.Second,
	}
	assert.Empty(t, cmp.Diff(want, got))
}

func TestParseJson_Errors(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	t.Setenv("MEALBOT_CONFIG", "")

	os.Args = []string{"cli", "-c", filepath.Join(t.TempDir(), "missing.json")}
	require.Panics(t, func() { parseJson(&Config{}) })

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0o600))
	os.Args = []string{"cli", "-config", bad}
	require.Panics(t, func() { parseJson(&Config{}) })
}

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	os.Args = []string{"cli", "-u", "http://x/whatsapp", "-t", "7", "-a", "ignored"}
	c := &Config{}
	require.NotPanics(t, func() { parseFlags(c) })
	assert.Empty(t, cmp.Diff(&Config{WebhookURL: "http://x/whatsapp", Timeout: 7 * time.Second}, c))

	os.Args = []string{"cli", "-t", "later"}
	require.Panics(t, func() { parseFlags(&Config{}) })
}
