// AFK Warden - Always-on game bot connection supervisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/afkwarden

package config

import (
	"fmt"
	"net"
	"strconv"

	"github.com/tomtom215/afkwarden/internal/validation"
)

// DefaultGameVersion is used when config.json omits "version".
const DefaultGameVersion = "1.16.5"

// DefaultBotConfigPath is where afkbot looks for its config by default.
const DefaultBotConfigPath = "config.json"

// BotConfig is config.json. It is read again at every connection attempt so
// edits take effect on the next reconnect.
//
// The legacy keys "ip" and "name" are accepted as aliases of "host" and
// "username".
type BotConfig struct {
	IP       string `koanf:"ip"`
	Host     string `koanf:"host" validate:"required"`
	Port     int    `koanf:"port" validate:"min=1,max=65535"`
	Name     string `koanf:"name"`
	Username string `koanf:"username" validate:"required"`
	Version  string `koanf:"version" validate:"required"`
	LoginMsg string `koanf:"loginmsg"`
}

var botEnvMappings = map[string]string{
	"BOT_HOST":     "host",
	"BOT_PORT":     "port",
	"BOT_USERNAME": "username",
	"BOT_VERSION":  "version",
	"BOT_LOGINMSG": "loginmsg",
}

// LoadBotConfig reads the bot config at path. A missing file yields an error
// wrapping ErrNotFound.
func LoadBotConfig(path string) (*BotConfig, error) {
	cfg := &BotConfig{Version: DefaultGameVersion}
	if err := load(cfg, path, botEnvMappings, nil); err != nil {
		return nil, err
	}
	cfg.normalize()
	if err := validation.ValidateStruct(cfg); err != nil {
		return nil, fmt.Errorf("invalid bot config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *BotConfig) normalize() {
	if c.Host == "" {
		c.Host = c.IP
	}
	if c.Username == "" {
		c.Username = c.Name
	}
	if c.Version == "" {
		c.Version = DefaultGameVersion
	}
}

// Address returns host:port.
func (c *BotConfig) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
