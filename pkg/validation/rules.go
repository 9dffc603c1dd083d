// Package validation provides the single-field string rules used by the
// logbook form. A Rule inspects one value and returns a user-facing message,
// or "" when the value passes. Rules never look at other fields.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/goliatone/go-logbook/pkg/flight"
)

// Rule validates a single string value.
type Rule func(value string) string

// Chain runs rules in order and returns the first failure.
func Chain(rules ...Rule) Rule {
	return func(value string) string {
		for _, rule := range rules {
			if rule == nil {
				continue
			}
			if msg := rule(value); msg != "" {
				return msg
			}
		}
		return ""
	}
}

// Optional skips the wrapped rules when the value is blank.
func Optional(rules ...Rule) Rule {
	chained := Chain(rules...)
	return func(value string) string {
		if strings.TrimSpace(value) == "" {
			return ""
		}
		return chained(value)
	}
}

// Required fails on blank values.
func Required(msg string) Rule {
	if msg == "" {
		msg = "required"
	}
	return func(value string) string {
		if strings.TrimSpace(value) == "" {
			return msg
		}
		return ""
	}
}

// MinLength fails when the trimmed value has fewer than n characters.
// Blank values pass so Required decides about them.
func MinLength(n int, msg string) Rule {
	if msg == "" {
		msg = fmt.Sprintf("must be at least %d characters", n)
	}
	return func(value string) string {
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			return ""
		}
		if utf8.RuneCountInString(trimmed) < n {
			return msg
		}
		return ""
	}
}

// MaxLength fails when the value has more than n characters.
func MaxLength(n int, msg string) Rule {
	if msg == "" {
		msg = fmt.Sprintf("must be at most %d characters", n)
	}
	return func(value string) string {
		if utf8.RuneCountInString(strings.TrimSpace(value)) > n {
			return msg
		}
		return ""
	}
}

// Pattern fails when a non-blank value does not match expr.
func Pattern(expr, msg string) Rule {
	re := regexp.MustCompile(expr)
	if msg == "" {
		msg = "invalid format"
	}
	return func(value string) string {
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			return ""
		}
		if !re.MatchString(trimmed) {
			return msg
		}
		return ""
	}
}

// Date fails when a non-blank value is not a YYYY-MM-DD calendar date.
func Date(msg string) Rule {
	if msg == "" {
		msg = "must be a date (YYYY-MM-DD)"
	}
	return func(value string) string {
		if strings.TrimSpace(value) == "" {
			return ""
		}
		if _, err := flight.ParseDate(value); err != nil {
			return msg
		}
		return ""
	}
}

// Clock fails when a non-blank value is neither HH:MM nor
// YYYY-MM-DDTHH:MM.
func Clock(msg string) Rule {
	if msg == "" {
		msg = "must be a time (HH:MM)"
	}
	return func(value string) string {
		if strings.TrimSpace(value) == "" {
			return ""
		}
		if _, err := flight.ParseClock(value); err != nil {
			return msg
		}
		return ""
	}
}

// Hours fails when a non-blank value is not a positive duration of at most
// max, written as decimal hours with one decimal or as H:MM.
func Hours(max time.Duration, msg string) Rule {
	if msg == "" {
		msg = fmt.Sprintf("must be hours between 0 and %s (e.g. 1.5 or 1:30)", flight.FormatHours(max))
	}
	decimal := regexp.MustCompile(`^\d+(\.\d)?$`)
	return func(value string) string {
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			return ""
		}
		if !strings.Contains(trimmed, ":") && !decimal.MatchString(trimmed) {
			return msg
		}
		d, err := flight.ParseHours(trimmed)
		if err != nil || d <= 0 || d > max {
			return msg
		}
		return ""
	}
}
