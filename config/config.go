// Package config provides Viper-based configuration loading for the bot.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DiscordConfig holds the chat-platform settings.
type DiscordConfig struct {
	// Token is the bot token used to open the gateway session.
	Token string `mapstructure:"token"`
	// GuildID is the guild the panel belongs to.
	GuildID string `mapstructure:"guild_id"`
	// ChannelID is the channel the persistent panel is posted in.
	ChannelID string `mapstructure:"channel_id"`
	// CommandPrefix is the prefix of the legacy text command form.
	CommandPrefix string `mapstructure:"command_prefix"`
}

// ServerEntry describes one configured Hell Let Loose server.
type ServerEntry struct {
	// ID is the unique identifier used in button payloads and logs.
	ID string `mapstructure:"id"`
	// Name is the display name. It may be replaced at startup by the
	// name the server reports over RCON.
	Name         string `mapstructure:"name"`
	RconHost     string `mapstructure:"rcon_host"`
	RconPort     int    `mapstructure:"rcon_port"`
	RconPassword string `mapstructure:"rcon_password"`
	// CrconURL and CrconToken are optional; when set, the CRCON HTTP
	// API is used for map changes and objective locking.
	CrconURL   string `mapstructure:"crcon_url"`
	CrconToken string `mapstructure:"crcon_token"`
}

// HasCrcon reports whether the entry carries CRCON HTTP credentials.
func (s ServerEntry) HasCrcon() bool {
	return s.CrconURL != "" && s.CrconToken != ""
}

// RconAddr returns the "host:port" RCON address.
func (s ServerEntry) RconAddr() string {
	return fmt.Sprintf("%s:%d", s.RconHost, s.RconPort)
}

// SessionConfig holds selection-session lifetime settings.
type SessionConfig struct {
	// IdleTimeout is the inactivity window after which a session expires.
	IdleTimeout time.Duration `mapstructure:"idle_timeout"`
	// SweepInterval is how often expired sessions are swept.
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

// RefreshConfig holds status-refresher settings.
type RefreshConfig struct {
	// Interval is the period between refresh cycles.
	Interval time.Duration `mapstructure:"interval"`
}

// RemoteConfig holds outbound RCON/CRCON call settings.
type RemoteConfig struct {
	// DialTimeout bounds the TCP connect to an RCON endpoint.
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
	// CallTimeout bounds a single remote operation end to end.
	CallTimeout time.Duration `mapstructure:"call_timeout"`
	// RconCallsPerSecond caps outbound RCON dials across all sessions.
	RconCallsPerSecond float64 `mapstructure:"rcon_calls_per_second"`
	// RconBurst is the limiter burst size.
	RconBurst int `mapstructure:"rcon_burst"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// Config is the top-level application configuration.
type Config struct {
	Discord DiscordConfig `mapstructure:"discord"`
	Servers []ServerEntry `mapstructure:"servers"`
	Session SessionConfig `mapstructure:"session"`
	Refresh RefreshConfig `mapstructure:"refresh"`
	Remote  RemoteConfig  `mapstructure:"remote"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// Validate checks all configuration invariants, aggregating violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateDiscord(c.Discord); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateServers(c.Servers); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateSession(c.Session); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateRefresh(c.Refresh); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateRemote(c.Remote); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateDiscord(d DiscordConfig) error {
	var errs []string
	if d.Token == "" {
		errs = append(errs, "discord.token must not be empty")
	}
	if d.ChannelID == "" {
		errs = append(errs, "discord.channel_id must not be empty")
	}
	if d.CommandPrefix == "" {
		errs = append(errs, "discord.command_prefix must not be empty")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateServers(servers []ServerEntry) error {
	if len(servers) == 0 {
		return errors.New("at least one server must be configured")
	}
	var errs []string
	seen := make(map[string]bool, len(servers))
	for i, s := range servers {
		if s.ID == "" {
			errs = append(errs, fmt.Sprintf("servers[%d].id must not be empty", i))
		} else if seen[s.ID] {
			errs = append(errs, fmt.Sprintf("servers[%d].id %q is not unique", i, s.ID))
		}
		seen[s.ID] = true
		if s.RconHost == "" {
			errs = append(errs, fmt.Sprintf("servers[%d].rcon_host must not be empty", i))
		}
		if s.RconPort < 1 || s.RconPort > 65535 {
			errs = append(errs, fmt.Sprintf("servers[%d].rcon_port must be 1-65535, got %d", i, s.RconPort))
		}
		if s.RconPassword == "" {
			errs = append(errs, fmt.Sprintf("servers[%d].rcon_password must not be empty", i))
		}
		if (s.CrconURL == "") != (s.CrconToken == "") {
			errs = append(errs, fmt.Sprintf("servers[%d] must set crcon_url and crcon_token together", i))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateSession(s SessionConfig) error {
	var errs []string
	if s.IdleTimeout <= 0 {
		errs = append(errs, "session.idle_timeout must be positive")
	}
	if s.SweepInterval <= 0 {
		errs = append(errs, "session.sweep_interval must be positive")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateRefresh(r RefreshConfig) error {
	if r.Interval <= 0 {
		return errors.New("refresh.interval must be positive")
	}
	return nil
}

func validateRemote(r RemoteConfig) error {
	var errs []string
	if r.DialTimeout <= 0 {
		errs = append(errs, "remote.dial_timeout must be positive")
	}
	if r.CallTimeout <= 0 {
		errs = append(errs, "remote.call_timeout must be positive")
	}
	if r.RconCallsPerSecond <= 0 {
		errs = append(errs, "remote.rcon_calls_per_second must be positive")
	}
	if r.RconBurst < 1 {
		errs = append(errs, "remote.rcon_burst must be >= 1")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

// Load reads configuration from the given file, applies HLL_-prefixed
// environment overrides and defaults, and validates the result.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	v.SetEnvPrefix("HLL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("discord.command_prefix", "!hll")

	v.SetDefault("session.idle_timeout", "5m")
	v.SetDefault("session.sweep_interval", "30s")

	v.SetDefault("refresh.interval", "60s")

	v.SetDefault("remote.dial_timeout", "5s")
	v.SetDefault("remote.call_timeout", "10s")
	v.SetDefault("remote.rcon_calls_per_second", 2.0)
	v.SetDefault("remote.rcon_burst", 4)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}
