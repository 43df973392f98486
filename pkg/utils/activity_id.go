package utils

import (
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// GenerateActivityID creates a human-readable activity ID.
// Format: {activity-slug}-{worker-slug}-{8charHexUUID}
//
// Example:
//   - Input: activity="Tend Greenhouse", worker="Ada Lovelace"
//   - Output: "tend-greenhouse-ada-lovelace-a3f8e2b1"
func GenerateActivityID(activity, workerName string) string {
	parts := []string{slug(activity)}
	if w := slug(workerName); w != "" {
		parts = append(parts, w)
	}
	parts = append(parts, generateShortUUID())
	return strings.Join(parts, "-")
}

// slug lowercases and joins the alphanumeric runs of s with hyphens
//   - "Tend Greenhouse" -> "tend-greenhouse"
//   - "  R2-D2 " -> "r2-d2"
func slug(s string) string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return strings.Join(fields, "-")
}

// generateShortUUID creates an 8-character hex string from a UUID.
func generateShortUUID() string {
	id := uuid.New()
	return strings.ReplaceAll(id.String(), "-", "")[:8]
}
