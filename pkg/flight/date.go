package flight

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

const (
	// DateLayout is the ISO calendar date used by date inputs.
	DateLayout = "2006-01-02"
	// ClockLayout is the 24h wall clock used by time inputs.
	ClockLayout = "15:04"
	// DateTimeLayout is the layout produced by datetime-local inputs.
	DateTimeLayout = "2006-01-02T15:04"
)

var (
	// ErrInvalidClock is returned when a time value is neither HH:MM nor
	// YYYY-MM-DDTHH:MM.
	ErrInvalidClock = errors.New("flight: invalid time")
	// ErrInvalidHours is returned for malformed total time values.
	ErrInvalidHours = errors.New("flight: invalid hours")
	// ErrNonPositiveDuration is returned when arrival does not follow
	// departure.
	ErrNonPositiveDuration = errors.New("flight: arrival must be after departure")
)

// ParseDate parses an ISO calendar date (YYYY-MM-DD) in UTC.
func ParseDate(value string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, fmt.Errorf("flight: parse date %q: %w", value, err)
	}
	return t, nil
}

// FormatDate renders t as YYYY-MM-DD in UTC.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// Clock is a parsed time input. Dated reports whether the source carried a
// calendar date (datetime-local) or only a wall clock.
type Clock struct {
	Time  time.Time
	Dated bool
}

// ParseClock accepts HH:MM or YYYY-MM-DDTHH:MM.
func ParseClock(value string) (Clock, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return Clock{}, ErrInvalidClock
	}
	if strings.Contains(trimmed, "T") {
		t, err := time.Parse(DateTimeLayout, trimmed)
		if err != nil {
			return Clock{}, fmt.Errorf("%w: %q", ErrInvalidClock, value)
		}
		return Clock{Time: t, Dated: true}, nil
	}
	t, err := time.Parse(ClockLayout, trimmed)
	if err != nil || len(trimmed) != len(ClockLayout) {
		return Clock{}, fmt.Errorf("%w: %q", ErrInvalidClock, value)
	}
	return Clock{Time: t}, nil
}

// minutesOfDay drops the calendar part of a clock.
func (c Clock) minutesOfDay() int {
	return c.Time.Hour()*60 + c.Time.Minute()
}

// Duration returns the block time between departure and arrival. Two dated
// values are subtracted directly and must be ordered; otherwise wall clocks
// are compared and an earlier arrival wraps past midnight.
func Duration(departure, arrival string) (time.Duration, error) {
	dep, err := ParseClock(departure)
	if err != nil {
		return 0, err
	}
	arr, err := ParseClock(arrival)
	if err != nil {
		return 0, err
	}

	if dep.Dated && arr.Dated {
		d := arr.Time.Sub(dep.Time)
		if d <= 0 {
			return 0, ErrNonPositiveDuration
		}
		return d, nil
	}

	minutes := arr.minutesOfDay() - dep.minutesOfDay()
	if minutes < 0 {
		minutes += 24 * 60
	}
	if minutes == 0 {
		return 0, ErrNonPositiveDuration
	}
	return time.Duration(minutes) * time.Minute, nil
}

// DeriveTotalTime formats the block time between departure and arrival as
// decimal hours with one decimal, the convention used in paper logbooks.
func DeriveTotalTime(departure, arrival string) (string, error) {
	d, err := Duration(departure, arrival)
	if err != nil {
		return "", err
	}
	return FormatHours(d), nil
}

// FormatHours renders d as decimal hours rounded to one decimal.
func FormatHours(d time.Duration) string {
	return strconv.FormatFloat(math.Round(d.Hours()*10)/10, 'f', 1, 64)
}

// ParseHours accepts decimal hours ("1.5") or hours and minutes ("1:30").
func ParseHours(value string) (time.Duration, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0, ErrInvalidHours
	}

	if h, m, ok := strings.Cut(trimmed, ":"); ok {
		hours, err := strconv.Atoi(h)
		if err != nil || hours < 0 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidHours, value)
		}
		if len(m) != 2 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidHours, value)
		}
		minutes, err := strconv.Atoi(m)
		if err != nil || minutes < 0 || minutes > 59 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidHours, value)
		}
		return time.Duration(hours)*time.Hour + time.Duration(minutes)*time.Minute, nil
	}

	hours, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsNaN(hours) || math.IsInf(hours, 0) || hours < 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidHours, value)
	}
	return time.Duration(hours * float64(time.Hour)), nil
}
