package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config defines server and CLI configuration.
type Config struct {
	Server       ServerConfig       `yaml:"server"`
	Transport    TransportConfig    `yaml:"transport"`
	DB           DBConfig           `yaml:"db"`
	Log          LogConfig          `yaml:"log"`
	Auth         AuthConfig         `yaml:"auth"`
	Distribution DistributionConfig `yaml:"distribution"`
	Lock         LockConfig         `yaml:"lock"`
	Redis        RedisConfig        `yaml:"redis"`
	Notify       NotifyConfig       `yaml:"notify"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type TransportConfig struct {
	// Mode is "stdio" or "http".
	Mode string `yaml:"mode"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	Path  string `yaml:"path"`
}

type AuthConfig struct {
	Enabled bool `yaml:"enabled"`
}

type DistributionConfig struct {
	// MaxTeamSize caps students per team; 0 means no cap.
	MaxTeamSize     int           `yaml:"max_team_size"`
	ProjectDuration time.Duration `yaml:"project_duration"`
	// Schedule is a cron expression (seconds field optional) for automatic
	// runs. Empty disables the scheduler.
	Schedule       string `yaml:"schedule"`
	NotifyAfterRun bool   `yaml:"notify_after_run"`
}

type LockConfig struct {
	// Backend is "local" or "redis".
	Backend string `yaml:"backend"`
	// TTL is how long a Redis lock outlives a crashed holder. A live holder
	// renews it every TTL/3.
	TTL time.Duration `yaml:"ttl"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type NotifyConfig struct {
	// Sender is "log" or "redis".
	Sender string `yaml:"sender"`
	// Stream is the Redis stream the chat front-end consumes.
	Stream string  `yaml:"stream"`
	Rate   float64 `yaml:"rate"`
	Burst  int     `yaml:"burst"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Transport: TransportConfig{
			Mode: "stdio",
		},
		DB: DBConfig{
			Path: "teams.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Distribution: DistributionConfig{
			ProjectDuration: 7 * 24 * time.Hour,
		},
		Lock: LockConfig{
			Backend: "local",
			TTL:     5 * time.Minute,
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
		Notify: NotifyConfig{
			Sender: "log",
			Stream: "teams:outbox",
			Rate:   20,
			Burst:  5,
		},
	}
}

// Load reads configuration from defaults, an optional YAML file, an optional
// .env file and the environment, in that order of precedence (last wins).
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()
	if path := os.Getenv("TEAMS_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks enumerated and numeric settings.
func (c Config) Validate() error {
	switch c.Transport.Mode {
	case "stdio", "http":
	default:
		return fmt.Errorf("invalid transport mode %q", c.Transport.Mode)
	}
	switch c.Lock.Backend {
	case "local", "redis":
	default:
		return fmt.Errorf("invalid lock backend %q", c.Lock.Backend)
	}
	switch c.Notify.Sender {
	case "log", "redis":
	default:
		return fmt.Errorf("invalid notify sender %q", c.Notify.Sender)
	}
	if c.Distribution.MaxTeamSize < 0 {
		return fmt.Errorf("invalid max_team_size %d", c.Distribution.MaxTeamSize)
	}
	if c.Distribution.ProjectDuration <= 0 {
		return fmt.Errorf("invalid project_duration %s", c.Distribution.ProjectDuration)
	}
	if c.Notify.Rate <= 0 || c.Notify.Burst <= 0 {
		return fmt.Errorf("invalid notify rate %v/burst %d", c.Notify.Rate, c.Notify.Burst)
	}
	return nil
}

// UsesRedis reports whether any component needs a Redis client.
func (c Config) UsesRedis() bool {
	return c.Lock.Backend == "redis" || c.Notify.Sender == "redis"
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	envString("TEAMS_SERVER_HOST", &cfg.Server.Host)
	envString("TEAMS_TRANSPORT_MODE", &cfg.Transport.Mode)
	envString("TEAMS_DB_PATH", &cfg.DB.Path)
	envString("TEAMS_LOG_LEVEL", &cfg.Log.Level)
	envString("TEAMS_LOG_PATH", &cfg.Log.Path)
	envString("TEAMS_DISTRIBUTION_SCHEDULE", &cfg.Distribution.Schedule)
	envString("TEAMS_LOCK_BACKEND", &cfg.Lock.Backend)
	envString("TEAMS_REDIS_ADDR", &cfg.Redis.Addr)
	envString("TEAMS_REDIS_PASSWORD", &cfg.Redis.Password)
	envString("TEAMS_NOTIFY_SENDER", &cfg.Notify.Sender)
	envString("TEAMS_NOTIFY_STREAM", &cfg.Notify.Stream)

	return errors.Join(
		envInt("TEAMS_SERVER_PORT", &cfg.Server.Port),
		envInt("TEAMS_DISTRIBUTION_MAX_TEAM_SIZE", &cfg.Distribution.MaxTeamSize),
		envInt("TEAMS_REDIS_DB", &cfg.Redis.DB),
		envInt("TEAMS_NOTIFY_BURST", &cfg.Notify.Burst),
		envBool("TEAMS_AUTH_ENABLED", &cfg.Auth.Enabled),
		envBool("TEAMS_DISTRIBUTION_NOTIFY_AFTER_RUN", &cfg.Distribution.NotifyAfterRun),
		envDuration("TEAMS_DISTRIBUTION_PROJECT_DURATION", &cfg.Distribution.ProjectDuration),
		envDuration("TEAMS_LOCK_TTL", &cfg.Lock.TTL),
		envFloat("TEAMS_NOTIFY_RATE", &cfg.Notify.Rate),
	)
}

func envString(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envInt(key string, dst *int) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = n
	return nil
}

func envBool(key string, dst *bool) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = b
	return nil
}

func envDuration(key string, dst *time.Duration) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = d
	return nil
}

func envFloat(key string, dst *float64) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = f
	return nil
}
