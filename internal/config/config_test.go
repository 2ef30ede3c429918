package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	t.Parallel()

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)

	assert.Equal(t, DefaultHTTPAddr, cfg.Server.Addr)
	assert.Equal(t, DefaultStagingDir, cfg.Staging.Dir)
	assert.Equal(t, DefaultAgentCommand, cfg.Agent.Command)
	assert.Equal(t, []string{"-p"}, cfg.Agent.Args)
	assert.Equal(t, DefaultAgentTimeoutSec, cfg.Agent.TimeoutSeconds)
	assert.Equal(t, DefaultDownloadTimeout, cfg.Telegram.DownloadTimeoutSeconds)
	assert.Equal(t, DefaultKeyboardColumns, cfg.Actions.KeyboardColumns)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadOverridesFromFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[log]
level = "debug"
format = "json"

[telegram]
bot_token = "123:abc"
allowed_chat_ids = [42, 99]

[staging]
dir = "/var/lib/snapstage/images"

[agent]
command = "claude"
args = ["-p", "--output-format", "text"]
timeout_seconds = 300
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "123:abc", cfg.Telegram.BotToken)
	assert.Equal(t, []int64{42, 99}, cfg.Telegram.AllowedChatIDs)
	assert.Equal(t, "/var/lib/snapstage/images", cfg.Staging.Dir)
	assert.Equal(t, 300, cfg.Agent.TimeoutSeconds)
	// Defaults survive for sections the file does not set.
	assert.Equal(t, DefaultHTTPAddr, cfg.Server.Addr)

	require.NoError(t, cfg.Validate())
}

func TestValidateRequiresBotToken(t *testing.T) {
	t.Parallel()

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)

	assert.Error(t, cfg.Validate())

	cfg.Telegram.BotToken = "123:abc"
	assert.NoError(t, cfg.Validate())
}

func TestLoadRejectsBadTOML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[telegram\nbroken"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}
