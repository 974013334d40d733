package booking

import (
	"errors"
	"testing"
	"time"
)

func TestParseIntervalKeepsOffsetVerbatim(t *testing.T) {
	iv, err := ParseInterval("2026-03-10T14:00:00-05:00", "2026-03-10T17:00:00-05:00", nil)
	if err != nil {
		t.Fatalf("ParseInterval: %v", err)
	}
	if iv.StartRaw != "2026-03-10T14:00:00-05:00" {
		t.Errorf("StartRaw = %q, want the input string unchanged", iv.StartRaw)
	}
	if got := iv.Start.UTC().Format(time.RFC3339); got != "2026-03-10T19:00:00Z" {
		t.Errorf("Start instant = %s, want 2026-03-10T19:00:00Z", got)
	}
	if iv.End.Sub(iv.Start) != 3*time.Hour {
		t.Errorf("duration = %s, want 3h", iv.End.Sub(iv.Start))
	}
}

func TestParseIntervalRejectsNaiveTimestamps(t *testing.T) {
	if _, err := ParseInterval("2026-03-10T14:00:00", "2026-03-10T17:00:00", nil); err != ErrAmbiguousTimezone {
		t.Fatalf("err = %v, want ErrAmbiguousTimezone", err)
	}
}

func TestParseIntervalFallbackResolvesNaiveTimestamps(t *testing.T) {
	loc := time.FixedZone("", -5*3600)
	iv, err := ParseInterval("2026-03-10T14:00:00", "2026-03-11", loc)
	if err != nil {
		t.Fatalf("ParseInterval: %v", err)
	}
	if iv.StartRaw != "2026-03-10T14:00:00-05:00" {
		t.Errorf("StartRaw = %q, want normalized RFC3339 in the fallback offset", iv.StartRaw)
	}
	if iv.EndRaw != "2026-03-11T00:00:00-05:00" {
		t.Errorf("EndRaw = %q, want midnight in the fallback offset", iv.EndRaw)
	}
}

func TestParseIntervalRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "  ", "yesterday", "2026-13-40T99:00:00Z"} {
		if _, err := ParseInterval(in, "2026-03-10T17:00:00Z", nil); err == nil {
			t.Errorf("ParseInterval(%q) accepted, want error", in)
		}
	}
}

// mustTime parses an RFC3339 timestamp or fails the test.
func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	v, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return v
}

// An existing reservation [08:00, 10:00) with a one-hour cleanup
// buffer blocks everything starting before 11:00 and everything
// ending after 07:00; the space frees up exactly at 11:00 going
// forward and exactly at 07:00 going backward.
func TestOverlapsBufferBoundary(t *testing.T) {
	rStart := mustTime(t, "2026-03-10T08:00:00Z")
	rEnd := mustTime(t, "2026-03-10T10:00:00Z")

	cases := []struct {
		name   string
		qStart string
		qEnd   string
		want   bool
	}{
		{"starts exactly at buffer end", "2026-03-10T11:00:00Z", "2026-03-10T13:00:00Z", false},
		{"starts one second inside buffer", "2026-03-10T10:59:59Z", "2026-03-10T13:00:00Z", true},
		{"starts inside reservation", "2026-03-10T09:00:00Z", "2026-03-10T12:00:00Z", true},
		{"ends exactly at reservation start", "2026-03-10T06:00:00Z", "2026-03-10T08:00:00Z", true},
		{"ends exactly one buffer before start", "2026-03-10T05:00:00Z", "2026-03-10T07:00:00Z", false},
		{"ends one second inside leading buffer", "2026-03-10T05:00:00Z", "2026-03-10T07:00:01Z", true},
		{"entirely before", "2026-03-10T04:00:00Z", "2026-03-10T06:00:00Z", false},
		{"entirely after buffer", "2026-03-10T12:00:00Z", "2026-03-10T14:00:00Z", false},
		{"covers everything", "2026-03-10T07:00:00Z", "2026-03-10T12:00:00Z", true},
	}
	for _, tc := range cases {
		qStart := mustTime(t, tc.qStart)
		qEnd := mustTime(t, tc.qEnd)
		if got := Overlaps(qStart, qEnd, rStart, rEnd, time.Hour); got != tc.want {
			t.Errorf("%s: Overlaps = %v, want %v", tc.name, got, tc.want)
		}
		gotMs := OverlapsMillis(qStart.UnixMilli(), qEnd.UnixMilli(), rStart.UnixMilli(), rEnd.UnixMilli(), time.Hour.Milliseconds())
		if gotMs != tc.want {
			t.Errorf("%s: OverlapsMillis = %v, want %v", tc.name, gotMs, tc.want)
		}
	}
}

// The rule is order-independent: a booking placed *before* an
// existing reservation needs its own cleanup gap too.  With
// [06:30, 08:00) already booked, [05:00, 06:30) would leave zero
// turnaround before the existing event and must conflict, while
// [04:30, 05:30) clears the gap and is free.
func TestOverlapsBufferProtectsBothSides(t *testing.T) {
	rStart := mustTime(t, "2026-03-10T06:30:00Z")
	rEnd := mustTime(t, "2026-03-10T08:00:00Z")

	qStart := mustTime(t, "2026-03-10T05:00:00Z")
	qEnd := mustTime(t, "2026-03-10T06:30:00Z")
	if !Overlaps(qStart, qEnd, rStart, rEnd, time.Hour) {
		t.Fatal("earlier booking ending at the reservation's start must conflict")
	}

	qStart = mustTime(t, "2026-03-10T04:30:00Z")
	qEnd = mustTime(t, "2026-03-10T05:30:00Z")
	if Overlaps(qStart, qEnd, rStart, rEnd, time.Hour) {
		t.Fatal("earlier booking clearing the buffer gap should not conflict")
	}
}

// A malformed timestamp that does carry offset syntax is invalid, not
// ambiguous: the validation error must name the format even when no
// fallback offset is configured.
func TestParseIntervalMalformedWithOffset(t *testing.T) {
	for _, in := range []string{"2026-13-40T99:00:00Z", "2026-03-10T14:00:00+25:00"} {
		_, err := ParseInterval(in, "2026-03-10T17:00:00Z", nil)
		if err == ErrAmbiguousTimezone {
			t.Errorf("ParseInterval(%q) = ErrAmbiguousTimezone, want a validation error", in)
		}
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Errorf("ParseInterval(%q) = %v, want *ValidationError", in, err)
		}
	}
}
