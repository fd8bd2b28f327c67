package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	DefaultBind     = "0.0.0.0"
	DefaultPort     = 8088
	DefaultShards   = 32
	DefaultLogLevel = "info"
)

// Config holds the server's runtime settings.
type Config struct {
	Bind        string
	Port        int
	ReusePort   bool          // set SO_REUSEPORT on the listener where supported
	Shards      int           // store shard count
	IdleTimeout time.Duration // 0 disables the per-read deadline
	LogLevel    string
	LogFile     string // empty logs to stderr
}

// server.toml key mapping.
type fileConfig struct {
	Bind        string `toml:"bind"`
	Port        int    `toml:"port"`
	ReusePort   bool   `toml:"reuse_port"`
	Shards      int    `toml:"shards"`
	IdleTimeout string `toml:"idle_timeout"`
	LogLevel    string `toml:"log_level"`
	LogFile     string `toml:"log_file"`
}

func Default() Config {
	return Config{
		Bind:     DefaultBind,
		Port:     DefaultPort,
		Shards:   DefaultShards,
		LogLevel: DefaultLogLevel,
	}
}

// Load reads a TOML file over the defaults. Only keys present in the file
// override a default.
func Load(path string) (Config, error) {
	cfg := Default()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("load config: unknown key %q", undecoded[0].String())
	}

	if meta.IsDefined("bind") {
		cfg.Bind = strings.TrimSpace(raw.Bind)
	}
	if meta.IsDefined("port") {
		cfg.Port = raw.Port
	}
	if meta.IsDefined("reuse_port") {
		cfg.ReusePort = raw.ReusePort
	}
	if meta.IsDefined("shards") {
		cfg.Shards = raw.Shards
	}
	if meta.IsDefined("idle_timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.IdleTimeout))
		if err != nil {
			return Config{}, fmt.Errorf("load config: idle_timeout: %w", err)
		}
		cfg.IdleTimeout = d
	}
	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.ToLower(strings.TrimSpace(raw.LogLevel))
	}
	if meta.IsDefined("log_file") {
		cfg.LogFile = strings.TrimSpace(raw.LogFile)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error
	if c.Bind != "" && net.ParseIP(c.Bind) == nil && c.Bind != "localhost" {
		errs = append(errs, fmt.Errorf("bind %q is not an IP address", c.Bind))
	}
	if c.Port < 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	if c.Shards < 1 {
		errs = append(errs, fmt.Errorf("shards must be positive, got %d", c.Shards))
	}
	if c.IdleTimeout < 0 {
		errs = append(errs, fmt.Errorf("idle_timeout must not be negative, got %s", c.IdleTimeout))
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log_level %q must be one of debug, info, warn, error", c.LogLevel))
	}
	return errors.Join(errs...)
}

// Addr is the listen address.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Bind, strconv.Itoa(c.Port))
}
