// AFK Warden - Always-on game bot connection supervisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/afkwarden

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/tomtom215/afkwarden/internal/config"
	"github.com/tomtom215/afkwarden/internal/connection"
	"github.com/tomtom215/afkwarden/internal/game"
	"github.com/tomtom215/afkwarden/internal/logclient"
	"github.com/tomtom215/afkwarden/internal/logging"
	"github.com/tomtom215/afkwarden/internal/notify"
	"github.com/tomtom215/afkwarden/internal/supervisor"
	"github.com/tomtom215/afkwarden/internal/supervisor/services"
)

// shutdownGrace bounds how long the connection supervisor gets to log
// SHUTDOWN and close the client after a signal.
const shutdownGrace = 5 * time.Second

type options struct {
	configPath       string
	notificationPath string
	logEndpoint      string
	bridgeURL        string
	metricsAddr      string
	logLevel         string
	logFormat        string
}

func parseFlags(args []string) (options, error) {
	var opts options
	fs := pflag.NewFlagSet("afkbot", pflag.ContinueOnError)
	fs.StringVar(&opts.configPath, "config", config.DefaultBotConfigPath, "bot config file, re-read on every connection attempt")
	fs.StringVar(&opts.notificationPath, "notification-config", notify.DefaultConfigPath, "webhook config file, re-read on every notification")
	fs.StringVar(&opts.logEndpoint, "log-endpoint", logclient.DefaultEndpoint, "afklogger POST /log URL")
	fs.StringVar(&opts.bridgeURL, "bridge-url", game.DefaultBridgeURL, "game protocol bridge websocket URL")
	fs.StringVar(&opts.metricsAddr, "metrics-addr", "", "serve /healthz and /metrics on this address (disabled when empty)")
	fs.StringVar(&opts.logLevel, "log-level", envOr("LOG_LEVEL", "info"), "diagnostic log level")
	fs.StringVar(&opts.logFormat, "log-format", envOr("LOG_FORMAT", "console"), "diagnostic log format: console or json")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	return opts, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(1)
	}

	logging.Init(logging.Config{
		Level:   opts.logLevel,
		Format:  opts.logFormat,
		Output:  os.Stderr,
		Process: "afkbot",
	})

	dialer, err := game.NewBridgeDialer(opts.bridgeURL)
	if err != nil {
		logging.Fatal().Err(err).Str("url", opts.bridgeURL).Msg("Invalid bridge URL")
	}

	logs := logclient.New(logclient.Config{Endpoint: opts.logEndpoint})
	dispatcher := notify.New(notify.Config{
		ConfigPath: opts.notificationPath,
		Log:        logs,
	})
	sup := connection.New(connection.Config{
		ConfigPath: opts.configPath,
		Dialer:     dialer,
		Log:        logs,
		Notifier:   dispatcher,
	})

	if err := config.WatchConfigFile(opts.configPath, func() {
		logging.Info().Str("path", opts.configPath).Msg("Bot config changed, applies on the next connection attempt")
	}); err != nil {
		logging.Debug().Err(err).Str("path", opts.configPath).Msg("Bot config not watched")
	}

	tree := supervisor.NewTree("afkbot", logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   5 * time.Second,
		ShutdownTimeout:  5 * time.Second,
	})
	tree.AddDataService(logs)
	tree.AddDataService(dispatcher)
	tree.AddProcessService(sup)

	if opts.metricsAddr != "" {
		server := &http.Server{
			Handler:           connection.NewHandler(sup),
			ReadHeaderTimeout: 5 * time.Second,
		}
		tree.AddAPIService(services.NewHTTPServerService("bot-metrics", opts.metricsAddr, server, 5*time.Second))
	}

	logging.Info().
		Str("config", opts.configPath).
		Str("bridge", opts.bridgeURL).
		Str("log_endpoint", opts.logEndpoint).
		Msg("Starting afkbot")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	errCh := tree.ServeBackground(ctx)

	var treeErr error
	select {
	case sig := <-sigCh:
		sup.Shutdown(signalName(sig))
		select {
		case <-sup.Done():
		case <-time.After(shutdownGrace):
			logging.Warn().Msg("Connection supervisor did not stop in time")
		}
		// Canceling the tree flushes the log client queue.
		cancel()
		treeErr = <-errCh
	case treeErr = <-errCh:
		cancel()
	}
	if treeErr != nil && !errors.Is(treeErr, context.Canceled) {
		logging.Error().Err(treeErr).Msg("Supervisor tree error")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}
	logs.Close()
}

func signalName(sig os.Signal) string {
	switch sig {
	case syscall.SIGINT:
		return "SIGINT"
	case syscall.SIGTERM:
		return "SIGTERM"
	default:
		return sig.String()
	}
}
