package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		Discord: DiscordConfig{
			Token:         "bot-token",
			GuildID:       "100200300",
			ChannelID:     "400500600",
			CommandPrefix: "!hll",
		},
		Servers: []ServerEntry{
			{
				ID:           "main",
				Name:         "HLL Server 1",
				RconHost:     "203.0.113.10",
				RconPort:     7779,
				RconPassword: "secret",
				CrconURL:     "https://crcon.example.com/api",
				CrconToken:   "api-token",
			},
		},
		Session: SessionConfig{
			IdleTimeout:   5 * time.Minute,
			SweepInterval: 30 * time.Second,
		},
		Refresh: RefreshConfig{Interval: time.Minute},
		Remote: RemoteConfig{
			DialTimeout:        5 * time.Second,
			CallTimeout:        10 * time.Second,
			RconCallsPerSecond: 2,
			RconBurst:          4,
		},
		Logging: LoggingConfig{Level: "info", Format: "json"},
	}
}

func TestValidConfig(t *testing.T) {
	cfg := validConfig()
	assert.NoError(t, cfg.Validate())
}

func TestRconAddr(t *testing.T) {
	cfg := validConfig()
	assert.Equal(t, "203.0.113.10:7779", cfg.Servers[0].RconAddr())
}

func TestHasCrcon(t *testing.T) {
	cfg := validConfig()
	assert.True(t, cfg.Servers[0].HasCrcon())

	cfg.Servers[0].CrconURL = ""
	cfg.Servers[0].CrconToken = ""
	assert.False(t, cfg.Servers[0].HasCrcon())
}

func TestValidateRejectsMissingToken(t *testing.T) {
	cfg := validConfig()
	cfg.Discord.Token = ""
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "discord.token")
}

func TestValidateRejectsNoServers(t *testing.T) {
	cfg := validConfig()
	cfg.Servers = nil
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one server")
}

func TestValidateRejectsDuplicateServerIDs(t *testing.T) {
	cfg := validConfig()
	cfg.Servers = append(cfg.Servers, cfg.Servers[0])
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not unique")
}

func TestValidateRejectsHalfConfiguredCrcon(t *testing.T) {
	cfg := validConfig()
	cfg.Servers[0].CrconToken = ""
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "crcon_url and crcon_token together")
}

func TestValidateRejectsBadPort(t *testing.T) {
	cfg := validConfig()
	cfg.Servers[0].RconPort = 0
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rcon_port")
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bot.yaml")
	err := os.WriteFile(path, []byte(`
discord:
  token: bot-token
  guild_id: "100200300"
  channel_id: "400500600"
servers:
  - id: main
    name: HLL Server 1
    rcon_host: 203.0.113.10
    rcon_port: 7779
    rcon_password: secret
session:
  idle_timeout: 2m
logging:
  level: debug
  format: console
`), 0o644)
	require.NoError(t, err)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "bot-token", cfg.Discord.Token)
	assert.Equal(t, "!hll", cfg.Discord.CommandPrefix, "default applies")
	require.Len(t, cfg.Servers, 1)
	assert.Equal(t, "main", cfg.Servers[0].ID)
	assert.False(t, cfg.Servers[0].HasCrcon())
	assert.Equal(t, 2*time.Minute, cfg.Session.IdleTimeout)
	assert.Equal(t, 30*time.Second, cfg.Session.SweepInterval, "default applies")
	assert.Equal(t, time.Minute, cfg.Refresh.Interval, "default applies")
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bot.yaml")
	err := os.WriteFile(path, []byte(`
discord:
  token: bot-token
  channel_id: "400500600"
servers: []
`), 0o644)
	require.NoError(t, err)

	_, err = Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one server")
}
