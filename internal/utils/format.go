package utils

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
)

const truncateSuffix = "..."

// FormatDuration formats a duration in a human-readable format
// Examples: "45ms", "1.5s", "2m 30s", "1h 15m"
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	minutes := int(d.Minutes())
	seconds := int(d.Seconds()) % 60
	if minutes < 60 {
		if seconds > 0 {
			return fmt.Sprintf("%dm %ds", minutes, seconds)
		}
		return fmt.Sprintf("%dm", minutes)
	}
	hours := minutes / 60
	minutes = minutes % 60
	if minutes > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dh", hours)
}

// FormatNumber formats a number with comma separators
// Examples: 123 -> "123", 1234 -> "1,234", 1234567 -> "1,234,567"
func FormatNumber(n int) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}

	str := fmt.Sprintf("%d", n)
	var result []rune
	for i, c := range str {
		if i > 0 && (len(str)-i)%3 == 0 {
			result = append(result, ',')
		}
		result = append(result, c)
	}
	return string(result)
}

// TruncateField shortens field to at most limit characters so it fits its column.
// Truncated values end with "..." when the limit leaves room for it. Every
// truncation is logged with sourceID, the staged row the value came from.
func TruncateField(field string, limit int, sourceID string) string {
	if limit < 0 {
		limit = 0
	}
	length := utf8.RuneCountInString(field)
	if length <= limit {
		return field
	}

	logrus.WithFields(logrus.Fields{
		"source_id": sourceID,
		"length":    length,
		"limit":     limit,
	}).Info("Truncating field")

	runes := []rune(field)
	if limit > len(truncateSuffix) {
		return string(runes[:limit-len(truncateSuffix)]) + truncateSuffix
	}
	return string(runes[:limit])
}

// TruncateFieldBytes is TruncateField for columns whose ceiling is in bytes.
// The result holds at most limit bytes and is cut on a rune boundary.
func TruncateFieldBytes(field string, limit int, sourceID string) string {
	if limit < 0 {
		limit = 0
	}
	if len(field) <= limit {
		return field
	}

	logrus.WithFields(logrus.Fields{
		"source_id": sourceID,
		"bytes":     len(field),
		"limit":     limit,
	}).Info("Truncating field")

	suffix := ""
	if limit > len(truncateSuffix) {
		suffix = truncateSuffix
	}
	cut := limit - len(suffix)
	for cut > 0 && !utf8.RuneStart(field[cut]) {
		cut--
	}
	return field[:cut] + suffix
}
