package booking

import (
    "strings"
    "time"
)

// Layouts accepted for timestamps that arrive without an offset.  They
// are only consulted when a fallback location is configured; the
// primary contract is RFC3339 with an explicit offset.
const (
    naiveDateTimeLayout = "2006-01-02T15:04:05"
    naiveDateLayout     = "2006-01-02"
)

// Interval is a half-open time range [Start, End).  StartRaw and
// EndRaw keep the strings the client sent (or their normalized form
// when a naive timestamp was resolved against the fallback offset) so
// the persisted value round-trips without any timezone coercion.  All
// comparisons use the parsed instants, never the strings.
type Interval struct {
    Start    time.Time
    End      time.Time
    StartRaw string
    EndRaw   string
}

// ParseInterval parses the two timestamps of a requested booking
// interval.  Timestamps must be RFC3339 with an explicit UTC offset.
// When fallback is non-nil, offset-less timestamps ("2006-01-02" or
// "2006-01-02T15:04:05") are interpreted in that location instead of
// being refused; with a nil fallback they fail with
// ErrAmbiguousTimezone.  The interval itself is not ordered here;
// callers validate End > Start.
func ParseInterval(start, end string, fallback *time.Location) (Interval, error) {
    s, sRaw, err := parseInstant(start, fallback)
    if err != nil {
        return Interval{}, err
    }
    e, eRaw, err := parseInstant(end, fallback)
    if err != nil {
        return Interval{}, err
    }
    return Interval{Start: s, End: e, StartRaw: sRaw, EndRaw: eRaw}, nil
}

func parseInstant(value string, fallback *time.Location) (time.Time, string, error) {
    v := strings.TrimSpace(value)
    if v == "" {
        return time.Time{}, "", &ValidationError{Field: "date", Reason: "must not be empty"}
    }
    if t, err := time.Parse(time.RFC3339, v); err == nil {
        return t, v, nil
    }
    if hasOffsetSyntax(v) {
        // The client did send an offset; the timestamp is simply
        // broken, not ambiguous.
        return time.Time{}, "", &ValidationError{Field: "date", Reason: "must be RFC3339 with UTC offset"}
    }
    if fallback == nil {
        return time.Time{}, "", ErrAmbiguousTimezone
    }
    if t, err := time.ParseInLocation(naiveDateTimeLayout, v, fallback); err == nil {
        return t, t.Format(time.RFC3339), nil
    }
    if t, err := time.ParseInLocation(naiveDateLayout, v, fallback); err == nil {
        return t, t.Format(time.RFC3339), nil
    }
    return time.Time{}, "", &ValidationError{Field: "date", Reason: "must be RFC3339 with UTC offset"}
}

// hasOffsetSyntax reports whether the timestamp carries offset markers
// ("Z", "+hh:mm" or "-hh:mm" after the time separator).  Date-only
// strings use '-' too, so only a '-' past the 'T' counts.
func hasOffsetSyntax(v string) bool {
    if strings.ContainsAny(v, "Zz+") {
        return true
    }
    if i := strings.IndexByte(v, 'T'); i >= 0 {
        return strings.ContainsRune(v[i:], '-')
    }
    return false
}

// Overlaps reports whether the query interval [qStart, qEnd) collides
// with an existing reservation [rStart, rEnd) once the cleanup buffer
// is applied.  The rule is order-independent: the query must clear the
// existing reservation's turnaround time (qStart >= rEnd+buffer) AND
// leave room for its own turnaround before the reservation starts
// (qEnd+buffer <= rStart).  Without the second half a booking slipped
// in *before* an existing reservation would leave no cleanup gap
// between its end and that reservation's start.  A query starting
// exactly at rEnd+buffer, or ending exactly at rStart-buffer, is
// allowed.
func Overlaps(qStart, qEnd, rStart, rEnd time.Time, buffer time.Duration) bool {
    return qStart.Before(rEnd.Add(buffer)) && qEnd.Add(buffer).After(rStart)
}

// OverlapsMillis is Overlaps expressed on epoch milliseconds; both the
// detector and the availability reporter compare stored instants in
// this form.
func OverlapsMillis(qStart, qEnd, rStart, rEnd, bufferMs int64) bool {
    return qStart < rEnd+bufferMs && qEnd+bufferMs > rStart
}
