package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
)

const (
	DefaultConfigPath      = "config.toml"
	DefaultHTTPAddr        = ":8080"
	DefaultStagingDir      = "temp/images"
	DefaultAgentCommand    = "claude"
	DefaultAgentTimeoutSec = 120
	DefaultDownloadTimeout = 60
	DefaultKeyboardColumns = 2
)

type Config struct {
	Log      LogConfig      `toml:"log"`
	Server   ServerConfig   `toml:"server"`
	Auth     AuthConfig     `toml:"auth"`
	Telegram TelegramConfig `toml:"telegram"`
	Staging  StagingConfig  `toml:"staging"`
	Agent    AgentConfig    `toml:"agent"`
	Actions  ActionsConfig  `toml:"actions"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

type ServerConfig struct {
	Addr string `toml:"addr"`
}

type AuthConfig struct {
	// JWTSecret protects the HTTP API. Empty disables auth, for local use.
	JWTSecret string `toml:"jwt_secret"`
}

type TelegramConfig struct {
	BotToken string `toml:"bot_token" validate:"required"`
	// AllowedChatIDs restricts which chats the bot answers. Empty allows all.
	AllowedChatIDs []int64 `toml:"allowed_chat_ids"`
	// DownloadTimeoutSeconds bounds a single attachment download.
	DownloadTimeoutSeconds int `toml:"download_timeout_seconds" validate:"gt=0"`
}

type StagingConfig struct {
	// Dir is the managed root the stager writes to and deletes from.
	Dir string `toml:"dir" validate:"required"`
}

type AgentConfig struct {
	// Command is the agent CLI binary, e.g. "claude".
	Command string `toml:"command" validate:"required"`
	// Args precede the prompt, e.g. ["-p"].
	Args []string `toml:"args"`
	// WorkDir is the working directory the agent runs in.
	WorkDir string `toml:"work_dir"`
	// TimeoutSeconds bounds one agent invocation.
	TimeoutSeconds int `toml:"timeout_seconds" validate:"gt=0"`
}

type ActionsConfig struct {
	// CatalogPath optionally overrides the built-in quick action catalog
	// with a YAML file.
	CatalogPath string `toml:"catalog_path"`
	// KeyboardColumns is the inline keyboard width for quick actions.
	KeyboardColumns int `toml:"keyboard_columns" validate:"gt=0"`
}

// Load reads the TOML config at path, applying defaults first. A missing
// file is not an error: the defaults are returned as-is.
func Load(path string) (Config, error) {
	cfg := Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Server: ServerConfig{
			Addr: DefaultHTTPAddr,
		},
		Telegram: TelegramConfig{
			DownloadTimeoutSeconds: DefaultDownloadTimeout,
		},
		Staging: StagingConfig{
			Dir: DefaultStagingDir,
		},
		Agent: AgentConfig{
			Command:        DefaultAgentCommand,
			Args:           []string{"-p"},
			TimeoutSeconds: DefaultAgentTimeoutSec,
		},
		Actions: ActionsConfig{
			KeyboardColumns: DefaultKeyboardColumns,
		},
	}

	if path == "" {
		path = DefaultConfigPath
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// Validate checks the loaded config for the fields serve needs.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
