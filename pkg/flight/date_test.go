package flight

import (
	"errors"
	"testing"
	"time"
)

func TestParseAndFormatDate(t *testing.T) {
	d, err := ParseDate("2024-02-29")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := FormatDate(d); got != "2024-02-29" {
		t.Fatalf("format: got %q", got)
	}
	if _, err := ParseDate("2023-02-29"); err == nil {
		t.Fatalf("expected invalid leap day to fail")
	}
}

func TestParseClock(t *testing.T) {
	cases := []struct {
		in    string
		ok    bool
		dated bool
	}{
		{"09:30", true, false},
		{"23:59", true, false},
		{"2024-05-01T09:30", true, true},
		{"9:30", false, false},
		{"24:00", false, false},
		{"", false, false},
		{"noon", false, false},
	}
	for _, tc := range cases {
		c, err := ParseClock(tc.in)
		if tc.ok && err != nil {
			t.Fatalf("%q: unexpected error %v", tc.in, err)
		}
		if !tc.ok {
			if !errors.Is(err, ErrInvalidClock) {
				t.Fatalf("%q: expected ErrInvalidClock, got %v", tc.in, err)
			}
			continue
		}
		if c.Dated != tc.dated {
			t.Fatalf("%q: dated = %v, want %v", tc.in, c.Dated, tc.dated)
		}
	}
}

func TestDeriveTotalTime(t *testing.T) {
	cases := []struct {
		dep, arr string
		want     string
		err      error
	}{
		{"09:15", "10:45", "1.5", nil},
		{"23:30", "01:00", "1.5", nil},
		{"10:00", "10:20", "0.3", nil},
		{"2024-05-01T22:00", "2024-05-02T02:30", "4.5", nil},
		{"2024-05-01T10:00", "2024-05-01T09:00", "", ErrNonPositiveDuration},
		{"10:00", "10:00", "", ErrNonPositiveDuration},
		{"bad", "10:00", "", ErrInvalidClock},
	}
	for _, tc := range cases {
		got, err := DeriveTotalTime(tc.dep, tc.arr)
		if tc.err != nil {
			if !errors.Is(err, tc.err) {
				t.Fatalf("%s-%s: expected %v, got %v", tc.dep, tc.arr, tc.err, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%s-%s: unexpected error %v", tc.dep, tc.arr, err)
		}
		if got != tc.want {
			t.Fatalf("%s-%s: got %q, want %q", tc.dep, tc.arr, got, tc.want)
		}
	}
}

func TestParseHours(t *testing.T) {
	cases := []struct {
		in   string
		want time.Duration
		ok   bool
	}{
		{"1.5", 90 * time.Minute, true},
		{"2", 2 * time.Hour, true},
		{"1:30", 90 * time.Minute, true},
		{"0:05", 5 * time.Minute, true},
		{"1:5", 0, false},
		{"1:75", 0, false},
		{"-1", 0, false},
		{"abc", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseHours(tc.in)
		if !tc.ok {
			if !errors.Is(err, ErrInvalidHours) {
				t.Fatalf("%q: expected ErrInvalidHours, got %v", tc.in, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%q: unexpected error %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("%q: got %v, want %v", tc.in, got, tc.want)
		}
	}
}
