// AFK Warden - Always-on game bot connection supervisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/afkwarden

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// ErrNotFound is returned when a required configuration file does not exist.
var ErrNotFound = errors.New("config file not found")

// load runs the layered koanf pipeline shared by every config type:
//  1. Defaults: the struct passed in out
//  2. Config File: path, parsed as JSON or YAML by extension (skipped if "")
//  3. Environment Variables: keys mapped by envMap, everything else ignored
//
// String values at the paths in splitFields are split into slices before the
// result is unmarshaled back into out.
func load(out interface{}, path string, envMap map[string]string, splitFields map[string]func(string) []string) error {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(out, "koanf"), nil); err != nil {
		return fmt.Errorf("failed to load defaults: %w", err)
	}

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("%w: %s", ErrNotFound, path)
			}
			return fmt.Errorf("failed to stat config file %s: %w", path, err)
		}
		if err := k.Load(file.Provider(path), parserFor(path)); err != nil {
			return fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if len(envMap) > 0 {
		transform := func(key string) string {
			return envMap[strings.ToUpper(key)]
		}
		if err := k.Load(env.Provider("", ".", transform), nil); err != nil {
			return fmt.Errorf("failed to load environment variables: %w", err)
		}
	}

	if err := processSliceFields(k, splitFields); err != nil {
		return fmt.Errorf("failed to process slice fields: %w", err)
	}

	if err := k.Unmarshal("", out); err != nil {
		return fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	return nil
}

// processSliceFields converts string values (typically from env vars) at the
// given paths into slices. Values that are already slices are left alone.
func processSliceFields(k *koanf.Koanf, fields map[string]func(string) []string) error {
	for path, split := range fields {
		raw, ok := k.Get(path).(string)
		if !ok || raw == "" {
			continue
		}
		if err := k.Set(path, split(raw)); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// parserFor picks the koanf parser for a file. JSON is the format of the bot
// and notification files; YAML is accepted for afklogger.yaml.
func parserFor(path string) koanf.Parser {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Parser()
	default:
		return json.Parser()
	}
}

// findConfigFile returns the override from envVar if that file exists, else
// the first existing path in candidates, else "".
func findConfigFile(envVar string, candidates []string) string {
	if p := os.Getenv(envVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// WatchConfigFile calls callback whenever path changes on disk. afkbot uses
// it only to log that a new bot config will be picked up on the next
// connection attempt.
func WatchConfigFile(path string, callback func()) error {
	return file.Provider(path).Watch(func(_ interface{}, err error) {
		if err != nil {
			return
		}
		callback()
	})
}
