package validation

import (
	"testing"
	"time"
)

func TestRequired(t *testing.T) {
	rule := Required("")
	if got := rule("  "); got != "required" {
		t.Fatalf("expected required message, got %q", got)
	}
	if got := rule("x"); got != "" {
		t.Fatalf("expected pass, got %q", got)
	}
}

func TestLengthRules(t *testing.T) {
	min := MinLength(3, "")
	if got := min("ab"); got != "must be at least 3 characters" {
		t.Fatalf("min length: got %q", got)
	}
	if got := min(""); got != "" {
		t.Fatalf("blank should defer to Required, got %q", got)
	}
	if got := min("äöü"); got != "" {
		t.Fatalf("runes should be counted, got %q", got)
	}

	max := MaxLength(4, "too long")
	if got := max("abcde"); got != "too long" {
		t.Fatalf("max length: got %q", got)
	}
}

func TestChainStopsAtFirstFailure(t *testing.T) {
	rule := Chain(Required(""), MinLength(3, ""), Pattern(`^[a-z]+$`, "letters only"))
	cases := map[string]string{
		"":     "required",
		"ab":   "must be at least 3 characters",
		"ab1c": "letters only",
		"abc":  "",
	}
	for in, want := range cases {
		if got := rule(in); got != want {
			t.Fatalf("%q: got %q, want %q", in, got, want)
		}
	}
}

func TestOptional(t *testing.T) {
	rule := Optional(MaxLength(2, ""))
	if got := rule(""); got != "" {
		t.Fatalf("blank optional: got %q", got)
	}
	if got := rule("abc"); got == "" {
		t.Fatalf("expected failure for long value")
	}
}

func TestDateAndClock(t *testing.T) {
	if got := Date("")("2024-13-01"); got == "" {
		t.Fatalf("expected invalid month to fail")
	}
	if got := Date("")("2024-12-01"); got != "" {
		t.Fatalf("expected valid date, got %q", got)
	}
	if got := Clock("")("7:00"); got == "" {
		t.Fatalf("expected single digit hour to fail")
	}
	if got := Clock("")("2024-12-01T07:00"); got != "" {
		t.Fatalf("expected datetime-local to pass, got %q", got)
	}
}

func TestHours(t *testing.T) {
	rule := Hours(24*time.Hour, "bad hours")
	cases := map[string]bool{
		"1.5":  true,
		"12":   true,
		"1:30": true,
		"24":   true,
		"24.1": false,
		"0":    false,
		"1.25": false,
		"x":    false,
		"-1":   false,
	}
	for in, ok := range cases {
		got := rule(in)
		if ok && got != "" {
			t.Fatalf("%q: expected pass, got %q", in, got)
		}
		if !ok && got != "bad hours" {
			t.Fatalf("%q: expected failure, got %q", in, got)
		}
	}
}
