// AFK Warden - Always-on game bot connection supervisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/afkwarden

package config

import (
	"fmt"

	"github.com/tomtom215/afkwarden/internal/models"
	"github.com/tomtom215/afkwarden/internal/validation"
)

// NotificationConfig is notification_config.json. It is read on every send.
type NotificationConfig struct {
	Enabled             bool   `koanf:"notifications_enabled"`
	WebhookURL          string `koanf:"webhook_url" validate:"omitempty,url"`
	EscalatedWebhookURL string `koanf:"escalated_webhook_url" validate:"omitempty,url"`
}

var notificationEnvMappings = map[string]string{
	"NOTIFICATIONS_ENABLED": "notifications_enabled",
	"WEBHOOK_URL":           "webhook_url",
	"ESCALATED_WEBHOOK_URL": "escalated_webhook_url",
}

// LoadNotificationConfig reads the notification config at path. A missing
// file yields an error wrapping ErrNotFound.
func LoadNotificationConfig(path string) (*NotificationConfig, error) {
	cfg := &NotificationConfig{}
	if err := load(cfg, path, notificationEnvMappings, nil); err != nil {
		return nil, err
	}
	if err := validation.ValidateStruct(cfg); err != nil {
		return nil, fmt.Errorf("invalid notification config %s: %w", path, err)
	}
	return cfg, nil
}

// URLFor returns the webhook for a severity. Escalated alerts go to the
// escalated webhook only; there is no fallback to the default one.
func (c *NotificationConfig) URLFor(sev models.Severity) string {
	if sev == models.SeverityEscalated {
		return c.EscalatedWebhookURL
	}
	return c.WebhookURL
}
