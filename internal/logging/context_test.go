// AFK Warden - Always-on game bot connection supervisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/afkwarden

package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestNewEpisodeID(t *testing.T) {
	t.Parallel()

	a, b := NewEpisodeID(), NewEpisodeID()
	if len(a) != 8 {
		t.Errorf("expected 8 character episode id, got %q", a)
	}
	if a == b {
		t.Errorf("expected distinct ids, got %q twice", a)
	}
}

func TestEpisodeIDRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	if got := EpisodeIDFromContext(ctx); got != "" {
		t.Errorf("expected empty id from bare context, got %q", got)
	}

	ctx = ContextWithEpisodeID(ctx, "abcd1234")
	if got := EpisodeIDFromContext(ctx); got != "abcd1234" {
		t.Errorf("expected abcd1234, got %q", got)
	}
}

func TestCtxAddsEpisodeField(t *testing.T) {
	var buf bytes.Buffer
	original := Logger()
	defer SetLogger(original)
	SetLogger(NewTestLogger(&buf))

	ctx := ContextWithEpisodeID(context.Background(), "ep-1")
	Ctx(ctx).Info().Msg("reconnect armed")

	if !strings.Contains(buf.String(), `"episode_id":"ep-1"`) {
		t.Errorf("expected episode_id field: %s", buf.String())
	}
}
