package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Database DatabaseConfig `toml:"database"`
	API      APIConfig      `toml:"api"`
	Player   PlayerConfig   `toml:"player"`
	Audio    AudioConfig    `toml:"audio"`
	Log      LogConfig      `toml:"log"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// APIConfig contains settings for the music streaming API.
type APIConfig struct {
	BaseURL     string        `toml:"base_url"`
	AccessToken string        `toml:"access_token"`
	RateLimit   float64       `toml:"rate_limit"` // play notifications per second
	Timeout     time.Duration `toml:"timeout"`
}

// PlayerConfig contains playback controller tuning.
type PlayerConfig struct {
	StatePrefix      string        `toml:"state_prefix"`
	DefaultVolume    float64       `toml:"default_volume"`
	RestartThreshold float64       `toml:"restart_threshold"` // seconds
	PersistInterval  int           `toml:"persist_interval"`  // whole seconds between position writes
	ResumeDelay      time.Duration `toml:"resume_delay"`
}

// AudioConfig selects and tunes the audio resource.
type AudioConfig struct {
	Backend    string        `toml:"backend"` // speaker or simulated
	SampleRate int           `toml:"sample_rate"`
	Tick       time.Duration `toml:"tick"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep the values of [DefaultConfig].
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// Validate reports configuration values the player cannot run with.
func (c *Config) Validate() error {
	if c.Player.DefaultVolume < 0 || c.Player.DefaultVolume > 1 {
		return fmt.Errorf("%w: player.default_volume must be within [0, 1], got %v", ErrInvalidConfig, c.Player.DefaultVolume)
	}
	if c.Player.PersistInterval <= 0 {
		return fmt.Errorf("%w: player.persist_interval must be positive", ErrInvalidConfig)
	}
	switch c.Audio.Backend {
	case "speaker", "simulated":
	default:
		return fmt.Errorf("%w: unknown audio.backend %q", ErrInvalidConfig, c.Audio.Backend)
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// LogLevel returns the configured [log.Level], defaulting to info.
func (c *Config) LogLevel() log.Level {
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
