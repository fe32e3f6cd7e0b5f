// AFK Warden - Always-on game bot connection supervisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/afkwarden

package logging

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type contextKey string

const episodeIDKey contextKey = "episode_id"

// NewEpisodeID returns a short identifier for a disconnect episode. The first
// 8 characters of a UUID are enough to tell episodes apart in one log file.
func NewEpisodeID() string {
	return uuid.New().String()[:8]
}

// ContextWithEpisodeID returns a context carrying the given episode ID.
func ContextWithEpisodeID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, episodeIDKey, id)
}

// EpisodeIDFromContext returns the episode ID stored in ctx, or "".
func EpisodeIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(episodeIDKey).(string); ok {
		return id
	}
	return ""
}

// Ctx returns the global logger with the episode ID from ctx attached, if any.
//
//	logging.Ctx(ctx).Info().Msg("Reconnect timer armed")
func Ctx(ctx context.Context) *zerolog.Logger {
	l := Logger()
	if id := EpisodeIDFromContext(ctx); id != "" {
		l = l.With().Str("episode_id", id).Logger()
	}
	return &l
}
