package booking

import (
    "strconv"
    "time"
)

const millisPerHour = int64(time.Hour / time.Millisecond)

// CostBreakdown explains how a reservation's price was derived.  It is
// returned to the client alongside the created reservation and embedded
// in notification events.
type CostBreakdown struct {
    DurationHours     float64 `json:"duration_hours"`
    PricePerHourCents int64   `json:"price_per_hour_cents"`
    TotalCents        int64   `json:"total_cents"`
    Formatted         string  `json:"formatted"`
}

// Cost returns the total price in minor currency units for occupying a
// space at the given hourly rate over [start, end).  The product
// durationHours × price is rounded to the nearest minor unit.  The
// computation is exact integer arithmetic over epoch-millisecond
// durations; equal inputs always produce equal output.
func Cost(pricePerHourCents int64, start, end time.Time) int64 {
    durMs := end.Sub(start).Milliseconds()
    if durMs <= 0 || pricePerHourCents <= 0 {
        return 0
    }
    return (durMs*pricePerHourCents + millisPerHour/2) / millisPerHour
}

// Breakdown builds the full CostBreakdown for an interval.  Duration
// is reported in hours rounded to two decimals, matching what the
// notification emails display.
func Breakdown(pricePerHourCents int64, iv Interval) CostBreakdown {
    durMs := iv.End.Sub(iv.Start).Milliseconds()
    hours := float64(durMs) / float64(millisPerHour)
    total := Cost(pricePerHourCents, iv.Start, iv.End)
    return CostBreakdown{
        DurationHours:     roundTo2(hours),
        PricePerHourCents: pricePerHourCents,
        TotalCents:        total,
        Formatted:         FormatCents(total),
    }
}

func roundTo2(f float64) float64 {
    if f < 0 {
        return 0
    }
    return float64(int64(f*100+0.5)) / 100
}

// FormatCents renders an amount in minor units with thousands
// separators, e.g. 150000 -> "$150,000".
func FormatCents(cents int64) string {
    s := strconv.FormatInt(cents, 10)
    n := len(s)
    if n <= 3 {
        return "$" + s
    }
    var b []byte
    for i, c := range []byte(s) {
        if i > 0 && (n-i)%3 == 0 {
            b = append(b, ',')
        }
        b = append(b, c)
    }
    return "$" + string(b)
}
