package logger

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// MaxRuleLength bounds rule strings in logs; canonical rules are short
	// but decode accepts hand-authored input of any size
	MaxRuleLength = 256
	// MaxErrorMessageLength bounds error messages in logs
	MaxErrorMessageLength = 1000
	// MaxActionLength bounds change-log action verbs in logs
	MaxActionLength = 128
)

// SanitizeString validates UTF-8, strips control characters, and truncates
// to maxLength. Rule strings and change-log actions are caller-supplied
// text and must not be able to inject log lines.
func SanitizeString(s string, maxLength int) string {
	if s == "" {
		return ""
	}

	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "")
	}

	var builder strings.Builder
	builder.Grow(len(s))
	for _, r := range s {
		if unicode.IsPrint(r) || r == ' ' || r == '\t' {
			builder.WriteRune(r)
		}
	}
	s = builder.String()

	if maxLength > 0 && len(s) > maxLength {
		s = s[:maxLength] + "..."
	}
	return s
}

// SanitizeRule sanitizes a recurrence rule string for safe logging
func SanitizeRule(rule string) string {
	return SanitizeString(rule, MaxRuleLength)
}

// SanitizeError sanitizes an error message for safe logging
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return SanitizeString(err.Error(), MaxErrorMessageLength)
}
