// AFK Warden - Always-on game bot connection supervisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/afkwarden

package main

import (
	"errors"
	"syscall"
	"testing"

	"github.com/spf13/pflag"
)

func TestParseFlags_Defaults(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("LOG_FORMAT", "")

	opts, err := parseFlags(nil)
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	want := options{
		configPath:       "config.json",
		notificationPath: "notification_config.json",
		logEndpoint:      "http://localhost:6969/log",
		bridgeURL:        "ws://127.0.0.1:8765/bot",
		logLevel:         "info",
		logFormat:        "console",
	}
	if opts != want {
		t.Errorf("opts = %+v, want %+v", opts, want)
	}
}

func TestParseFlags_Overrides(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")

	opts, err := parseFlags([]string{
		"--config", "/etc/afkwarden/config.json",
		"--notification-config=/etc/afkwarden/notification_config.json",
		"--log-endpoint", "http://10.0.0.5:6969/log",
		"--bridge-url", "wss://bridge.example.net/bot",
		"--metrics-addr", ":9464",
	})
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	if opts.configPath != "/etc/afkwarden/config.json" ||
		opts.notificationPath != "/etc/afkwarden/notification_config.json" ||
		opts.logEndpoint != "http://10.0.0.5:6969/log" ||
		opts.bridgeURL != "wss://bridge.example.net/bot" ||
		opts.metricsAddr != ":9464" {
		t.Errorf("opts = %+v", opts)
	}
	if opts.logLevel != "debug" {
		t.Errorf("logLevel = %q, want debug from LOG_LEVEL", opts.logLevel)
	}
}

func TestParseFlags_Errors(t *testing.T) {
	if _, err := parseFlags([]string{"--bogus"}); err == nil {
		t.Error("unknown flag accepted")
	}
	if _, err := parseFlags([]string{"--help"}); !errors.Is(err, pflag.ErrHelp) {
		t.Errorf("--help error = %v, want pflag.ErrHelp", err)
	}
}

func TestSignalName(t *testing.T) {
	tests := map[syscall.Signal]string{
		syscall.SIGINT:  "SIGINT",
		syscall.SIGTERM: "SIGTERM",
	}
	for sig, want := range tests {
		if got := signalName(sig); got != want {
			t.Errorf("signalName(%v) = %q, want %q", sig, got, want)
		}
	}
}
