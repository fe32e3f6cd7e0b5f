// AFK Warden - Always-on game bot connection supervisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/afkwarden

package notify

import (
	"strconv"
	"time"

	"github.com/tomtom215/afkwarden/internal/models"
)

// Embed colours by severity.
const (
	ColorEscalated = 16711680 // Red
	ColorError     = 15158332 // Discord red
	ColorNormal    = 3066993  // Green
)

const unknownBotName = "Unknown"

// buildPayload renders a notification as a single Discord embed.
func buildPayload(ev models.NotificationEvent) discordWebhookPayload {
	escalated := ev.Severity == models.SeverityEscalated

	title := ev.Title
	description := ev.Body
	alertType := "NORMAL"
	if escalated {
		title = "🚨 " + title
		description = "🚨 ESCALATED ALERT 🚨\n" + description
		alertType = "ESCALATED"
	}

	botName := ev.BotName
	if botName == "" {
		botName = unknownBotName
	}

	at := ev.At
	if at.IsZero() {
		at = time.Now()
	}

	return discordWebhookPayload{
		Embeds: []discordEmbed{{
			Title:       title,
			Description: description,
			Color:       severityColor(ev.Severity),
			Timestamp:   at.UTC().Format(time.RFC3339),
			Fields: []discordEmbedField{
				{Name: "Bot Name", Value: botName, Inline: true},
				{Name: "Reconnect Attempts", Value: strconv.Itoa(ev.Attempts), Inline: true},
				{Name: "Alert Type", Value: alertType, Inline: true},
			},
		}},
	}
}

// severityColor returns the Discord embed color for a severity level.
func severityColor(severity models.Severity) int {
	switch severity {
	case models.SeverityEscalated:
		return ColorEscalated
	case models.SeverityError:
		return ColorError
	default:
		return ColorNormal
	}
}

// Discord webhook structures
type discordWebhookPayload struct {
	Content string         `json:"content,omitempty"`
	Embeds  []discordEmbed `json:"embeds,omitempty"`
}

type discordEmbed struct {
	Title       string              `json:"title,omitempty"`
	Description string              `json:"description,omitempty"`
	Color       int                 `json:"color"`
	Timestamp   string              `json:"timestamp,omitempty"`
	Fields      []discordEmbedField `json:"fields,omitempty"`
}

type discordEmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}
