// Package config loads and persists the diascribe configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	ConfigFileName = "config.yml"
	AppDirName     = "diascribe"
)

// EnvAuthToken is the environment variable holding the diarization
// credential. It is read once at startup.
const EnvAuthToken = "HUGGINGFACE_AUTH_TOKEN"

// EnvOpenAIKey holds the API key for the hosted transcription provider.
const EnvOpenAIKey = "OPENAI_API_KEY"

// Config holds user preferences. Flags override these per run.
type Config struct {
	// WorkDir holds run artifacts (extracted audio, diarization cache,
	// clips). One run at a time may use it.
	WorkDir string `yaml:"work_dir,omitempty"`

	// OutputDir receives the subtitle file.
	OutputDir string `yaml:"output_dir,omitempty"`

	// Model is the default whisper tier (e.g. "base", "large-v2").
	Model string `yaml:"model,omitempty"`

	// Provider selects the transcription backend: "whisper" or "openai".
	Provider string `yaml:"provider,omitempty"`

	// Collar is the default merge tolerance in seconds.
	Collar float64 `yaml:"collar,omitempty"`

	// Workers bounds concurrent transcription invocations.
	Workers int `yaml:"workers,omitempty"`

	// Language hints the spoken language ("auto" to detect).
	Language string `yaml:"language,omitempty"`

	// ModelsDir holds downloaded ggml model files.
	ModelsDir string `yaml:"models_dir,omitempty"`

	// DiarizationEndpoint overrides the hosted diarization endpoint.
	DiarizationEndpoint string `yaml:"diarization_endpoint,omitempty"`
}

// ConfigDir returns the standard config directory.
// Windows: %APPDATA%\diascribe\
// macOS/Linux: ~/.config/diascribe/
func ConfigDir() (string, error) {
	if runtime.GOOS == "windows" {
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, AppDirName), nil
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppDirName), nil
}

// ConfigPath returns the path to the config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName), nil
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg := &Config{
		WorkDir:   filepath.Join(os.TempDir(), AppDirName),
		OutputDir: ".",
		Model:     "base",
		Provider:  "whisper",
		Collar:    0.5,
		Workers:   1,
		Language:  "auto",
	}
	if dir, err := ConfigDir(); err == nil {
		cfg.ModelsDir = filepath.Join(dir, "models")
	}
	return cfg
}

// Load reads the config file, applying defaults for unset fields.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.WorkDir = ExpandPath(cfg.WorkDir)
	cfg.OutputDir = ExpandPath(cfg.OutputDir)
	cfg.ModelsDir = ExpandPath(cfg.ModelsDir)
	return cfg, nil
}

// LoadOrDefault loads the config file, falling back to defaults when it does
// not exist or cannot be read.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Save writes the config file, creating the config directory if needed.
func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") || strings.HasPrefix(path, `~\`) {
		return filepath.Join(home, path[2:])
	}
	return path
}

// AuthToken returns the diarization credential from the environment.
func AuthToken() string {
	return os.Getenv(EnvAuthToken)
}

// OpenAIKey returns the hosted transcription key from the environment.
func OpenAIKey() string {
	return os.Getenv(EnvOpenAIKey)
}
