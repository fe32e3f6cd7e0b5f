// AFK Warden - Always-on game bot connection supervisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/afkwarden

package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/tomtom215/afkwarden/internal/clock"
	"github.com/tomtom215/afkwarden/internal/config"
	"github.com/tomtom215/afkwarden/internal/logging"
	"github.com/tomtom215/afkwarden/internal/logrouter"
	"github.com/tomtom215/afkwarden/internal/logsink"
	"github.com/tomtom215/afkwarden/internal/models"
	"github.com/tomtom215/afkwarden/internal/supervisor"
	"github.com/tomtom215/afkwarden/internal/supervisor/services"
	"github.com/tomtom215/afkwarden/internal/watchdog"
)

func main() {
	cfg, err := config.LoadLoggerConfig()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:   cfg.Logging.Level,
		Format:  cfg.Logging.Format,
		Caller:  cfg.Logging.Caller,
		Output:  os.Stderr,
		Process: "afklogger",
	})

	loc, err := cfg.Logs.Location()
	if err != nil {
		logging.Fatal().Err(err).Str("timezone", cfg.Logs.Timezone).Msg("Unknown log timezone")
	}

	lock, err := logsink.LockDir(cfg.Logs.Dir)
	if err != nil {
		logging.Fatal().Err(err).Str("dir", cfg.Logs.Dir).Msg("Failed to lock log directory")
	}
	defer func() { _ = lock.Unlock() }()

	logging.Info().
		Str("dir", cfg.Logs.Dir).
		Str("timezone", loc.String()).
		Str("addr", cfg.Server.Addr()).
		Msg("Starting afklogger")

	clk := clock.Real()
	slogLogger := logging.NewSlogLogger()

	// Publish blocks until the sink has written and acked the line, so a
	// line reported as routed to the sink is on disk.
	pubSub := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer:            256,
		BlockPublishUntilSubscriberAck: true,
	}, watermill.NewSlogLogger(slogLogger))

	router := logrouter.New(pubSub, logsink.NewFallbackWriter(cfg.Logs.Dir, loc, clk), os.Stdout)

	sink, err := logsink.New(pubSub, logsink.NewHourlyWriter(cfg.Logs.Dir, loc, clk), router, watermill.NewSlogLogger(slogLogger))
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create log sink")
	}

	tree := supervisor.NewTree("afklogger", slogLogger, supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   5 * time.Second,
		ShutdownTimeout:  cfg.Watchdog.StopTimeout + 5*time.Second,
	})

	tree.AddDataService(sink)
	tree.AddMaintenanceService(logrouter.NewRetentionService(cfg.Logs.Dir, cfg.Logs.Retention, clk))

	server := &http.Server{
		Handler: logrouter.NewHandler(router, logrouter.HandlerConfig{
			RateLimitReqs:   cfg.Server.RateLimitReqs,
			RateLimitWindow: cfg.Server.RateLimitWindow,
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}
	// The bot is launched only once /log is bound, so its first lines land
	// in the hourly file.
	listening := make(chan struct{})
	var listenOnce sync.Once
	tree.AddAPIService(
		services.NewHTTPServerService("log-ingest", cfg.Server.Addr(), server, cfg.Server.ShutdownTimeout).
			OnListen(func(addr net.Addr) {
				router.Log(models.LogEvent{Message: fmt.Sprintf("Logger started on port %d", listenPort(addr)), Type: models.LogInit})
				listenOnce.Do(func() { close(listening) })
			}),
	)

	if cfg.Watchdog.Enabled {
		wd, err := watchdog.New(watchdog.Config{
			Command:      cfg.Watchdog.Command,
			RestartDelay: cfg.Watchdog.RestartDelay,
			StopTimeout:  cfg.Watchdog.StopTimeout,
			Ready:        listening,
			Log:          router,
			Clock:        clk,
		})
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to create bot watchdog")
		}
		tree.AddProcessService(wd)
		logging.Info().Strs("command", cfg.Watchdog.Command).Msg("Bot watchdog enabled")
	} else {
		logging.Info().Msg("Bot watchdog disabled (WATCHDOG_ENABLED=false)")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	errCh := tree.ServeBackground(ctx)

	var treeErr error
	select {
	case sig := <-sigCh:
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		// The bot's last lines still need the sink and the ingest server.
		if err := tree.StopProcessLayer(cfg.Watchdog.StopTimeout + 2*time.Second); err != nil {
			logging.Warn().Err(err).Msg("Bot watchdog did not stop in time")
		}
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

	if err := pubSub.Close(); err != nil {
		logging.Warn().Err(err).Msg("Failed to close log channel")
	}
	logging.Info().Msg("afklogger stopped")
}

func listenPort(addr net.Addr) int {
	if tcp, ok := addr.(*net.TCPAddr); ok {
		return tcp.Port
	}
	return 0
}
