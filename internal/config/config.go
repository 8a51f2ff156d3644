package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const DefaultConfigFile = "zone-config.yaml"

type Config struct {
	DailyDir      string        `yaml:"daily"`
	NamedDir      string        `yaml:"named"`
	PublicDir     string        `yaml:"public"`
	DataDir       string        `yaml:"data"`
	ListenAddr    string        `yaml:"listen"`
	AuthUser      string        `yaml:"-"`
	AuthPass      string        `yaml:"-"`
	AuthFile      string        `yaml:"auth_file"`
	Metrics       bool          `yaml:"metrics"`
	Watch         bool          `yaml:"watch"`
	WatchDebounce time.Duration `yaml:"watch_debounce"`
	DailySchedule string        `yaml:"daily_schedule"`
	DBLockTimeout time.Duration `yaml:"db_lock_timeout"`
}

func defaults() Config {
	return Config{
		PublicDir:     "public",
		DataDir:       ".zone",
		ListenAddr:    "127.0.0.1:8712",
		Watch:         true,
		WatchDebounce: 250 * time.Millisecond,
		DailySchedule: "0 0 * * *",
		DBLockTimeout: 5 * time.Second,
	}
}

// Load reads .env files, then the YAML file at path, then environment
// overrides. An empty path means ZONE_CONFIG or zone-config.yaml, and a
// missing default file is not an error.
func Load(path string) (Config, error) {
	loadEnvFiles()

	cfg := defaults()
	explicit := path != ""
	if !explicit {
		path = os.Getenv("ZONE_CONFIG")
		explicit = path != ""
	}
	if path == "" {
		path = DefaultConfigFile
	}
	if err := cfg.loadFile(path); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return Config{}, err
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.DailyDir = envOr("ZONE_DAILY_DIR", c.DailyDir)
	c.NamedDir = envOr("ZONE_NAMED_DIR", c.NamedDir)
	c.PublicDir = envOr("ZONE_PUBLIC_DIR", c.PublicDir)
	c.DataDir = envOr("ZONE_DATA_DIR", c.DataDir)
	c.ListenAddr = envOr("ZONE_LISTEN_ADDR", c.ListenAddr)
	c.AuthUser = envOr("ZONE_AUTH_USER", c.AuthUser)
	c.AuthPass = envOr("ZONE_AUTH_PASS", c.AuthPass)
	c.AuthFile = envOr("ZONE_AUTH_FILE", c.AuthFile)
	c.Metrics = parseBoolOr("ZONE_METRICS", c.Metrics)
	c.Watch = parseBoolOr("ZONE_WATCH", c.Watch)
	c.WatchDebounce = parseDurationOr("ZONE_WATCH_DEBOUNCE", c.WatchDebounce)
	c.DailySchedule = envOr("ZONE_DAILY_SCHEDULE", c.DailySchedule)
	c.DBLockTimeout = parseDurationOr("ZONE_DB_LOCK_TIMEOUT", c.DBLockTimeout)
}

func (c Config) Validate() error {
	var missing []string
	if strings.TrimSpace(c.DailyDir) == "" {
		missing = append(missing, "daily (ZONE_DAILY_DIR)")
	}
	if strings.TrimSpace(c.NamedDir) == "" {
		missing = append(missing, "named (ZONE_NAMED_DIR)")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required config: %s", strings.Join(missing, ", "))
	}
	if (c.AuthUser == "") != (c.AuthPass == "") {
		return errors.New("ZONE_AUTH_USER and ZONE_AUTH_PASS must be set together")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func parseBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
