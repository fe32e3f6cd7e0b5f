// AFK Warden - Always-on game bot connection supervisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/afkwarden

// Package validation wraps go-playground/validator v10 with a singleton
// instance, the custom "logtype" rule and readable error messages.
//
// It validates the three koanf-loaded configuration structs and the body of
// POST /log requests.
package validation
