// AFK Warden - Always-on game bot connection supervisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/afkwarden

package connection

import "strings"

// Keywords that mark a kick or error as a ban. Matching is a case-insensitive
// substring test, so "ban" also matches words like "abandoned".
var (
	kickBanKeywords  = []string{"banned", "permanent", "ban"}
	errorBanKeywords = []string{"banned", "blacklist"}
)

func containsAny(text string, keywords []string) bool {
	lower := strings.ToLower(text)
	for _, k := range keywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

// isBanKick reports whether a raw kick reason indicates a ban.
func isBanKick(reason string) bool {
	return containsAny(reason, kickBanKeywords)
}

// isBanError reports whether an error message indicates a ban.
func isBanError(message string) bool {
	return containsAny(message, errorBanKeywords)
}
