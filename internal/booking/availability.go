package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/evently/venue-booking/internal/model"
)

// The reporting grid covers fixed business hours: slots start on the
// hour from DayStartHour up to and including DayEndHour, one slot per
// hour, every day of the month.
const (
	DayStartHour = 6
	DayEndHour   = 23
	SlotsPerDay  = DayEndHour - DayStartHour + 1 // 18

	// DefaultSlotHours is the assumed duration of one bookable slot
	// when judging whether a slot's window collides with a
	// reservation.
	DefaultSlotHours = 2
)

// SlotConflict identifies the reservation that blocks a slot and why.
type SlotConflict struct {
	ReservationID uint64 `json:"reservation_id"`
	Status        string `json:"status"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	Reason        string `json:"reason"`
}

// Slot is one hour-start cell of the availability grid.
type Slot struct {
	Time      string        `json:"time"`
	Available bool          `json:"available"`
	Conflict  *SlotConflict `json:"conflict,omitempty"`
}

// Day lists the blocked slots of one calendar day.  Fully free days
// are omitted from the report.
type Day struct {
	Date  string `json:"date"`
	Slots []Slot `json:"slots"`
}

// Summary aggregates the whole month.
type Summary struct {
	TotalSlots       int `json:"total_slots"`
	AvailableSlots   int `json:"available_slots"`
	OccupiedSlots    int `json:"occupied_slots"`
	AvailabilityRate int `json:"availability_rate"`
}

// MonthReport is the availability grid of one space for one month.
type MonthReport struct {
	SpaceID  uint64  `json:"space_id"`
	Year     int     `json:"year"`
	Month    int     `json:"month"`
	Timezone string  `json:"timezone"`
	Days     []Day   `json:"days"`
	Summary  Summary `json:"summary"`
}

// Reporter builds monthly availability grids.  Location fixes the
// offset the grid's slot times are rendered and evaluated in;
// SlotHours and Buffer default to DefaultSlotHours and
// DefaultCleanupBuffer when zero.
type Reporter struct {
	Spaces       SpaceDirectory
	Reservations ReservationSource
	Buffer       time.Duration
	SlotHours    int
	Location     *time.Location
}

// NewReporter builds a Reporter rendering grids in loc (UTC when nil).
func NewReporter(spaces SpaceDirectory, reservations ReservationSource, buffer time.Duration, loc *time.Location) *Reporter {
	if buffer <= 0 {
		buffer = DefaultCleanupBuffer
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Reporter{
		Spaces:       spaces,
		Reservations: reservations,
		Buffer:       buffer,
		SlotHours:    DefaultSlotHours,
		Location:     loc,
	}
}

// MonthAvailability computes the grid for the given space and month.
// The space must exist and be approved.  Year must fall in 2020-2030
// and month in 1-12.
func (r *Reporter) MonthAvailability(ctx context.Context, spaceID uint64, year, month int) (*MonthReport, error) {
	if year < 2020 || year > 2030 {
		return nil, &ValidationError{Field: "year", Reason: "must be between 2020 and 2030"}
	}
	if month < 1 || month > 12 {
		return nil, &ValidationError{Field: "month", Reason: "must be between 1 and 12"}
	}
	space, err := r.Spaces.GetSpace(ctx, spaceID)
	if err != nil {
		return nil, err
	}
	if space.Status != model.SpaceStatusApproved {
		return nil, ErrSpaceUnavailable
	}

	loc := r.Location
	if loc == nil {
		loc = time.UTC
	}
	monthStart := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
	monthEnd := monthStart.AddDate(0, 1, 0)
	daysInMonth := int(monthEnd.Sub(monthStart).Hours() / 24)

	slotHours := r.SlotHours
	if slotHours <= 0 {
		slotHours = DefaultSlotHours
	}

	// One coarse fetch for the whole month.  The buffer widens the
	// lower bound so a reservation ending just before the month can
	// still block its first slots; the upper bound reaches past
	// midnight to where the last day's 23:00 slot window plus its own
	// buffer ends, so a reservation starting early next month still
	// blocks it.
	lastSlotEnd := monthStart.AddDate(0, 0, daysInMonth-1).
		Add(time.Duration(DayEndHour+slotHours) * time.Hour)
	fromMs := monthStart.UnixMilli() - r.Buffer.Milliseconds()
	toMs := lastSlotEnd.UnixMilli() + r.Buffer.Milliseconds()
	reservations, err := r.Reservations.ListActiveInRange(ctx, space.ID, fromMs, toMs)
	if err != nil {
		return nil, err
	}

	report := &MonthReport{
		SpaceID:  space.ID,
		Year:     year,
		Month:    month,
		Timezone: monthStart.Format("-07:00"),
	}
	bufMs := r.Buffer.Milliseconds()

	occupied := 0
	for d := 0; d < daysInMonth; d++ {
		dayStart := monthStart.AddDate(0, 0, d)
		var blocked []Slot
		for h := DayStartHour; h <= DayEndHour; h++ {
			slotStart := dayStart.Add(time.Duration(h) * time.Hour)
			slotEnd := slotStart.Add(time.Duration(slotHours) * time.Hour)
			conflict := findSlotConflict(reservations, slotStart.UnixMilli(), slotEnd.UnixMilli(), bufMs)
			if conflict == nil {
				continue
			}
			blocked = append(blocked, Slot{
				Time:      fmt.Sprintf("%02d:00", h),
				Available: false,
				Conflict:  conflict,
			})
		}
		if len(blocked) == 0 {
			continue
		}
		occupied += len(blocked)
		report.Days = append(report.Days, Day{
			Date:  dayStart.Format("2006-01-02"),
			Slots: blocked,
		})
	}

	total := daysInMonth * SlotsPerDay
	available := total - occupied
	report.Summary = Summary{
		TotalSlots:       total,
		AvailableSlots:   available,
		OccupiedSlots:    occupied,
		AvailabilityRate: int(float64(available)/float64(total)*100 + 0.5),
	}
	return report, nil
}

// findSlotConflict returns the first reservation blocking the slot
// window, distinguishing a direct overlap from one caused solely by
// the cleanup buffer.
func findSlotConflict(reservations []model.Reservation, slotStart, slotEnd, bufMs int64) *SlotConflict {
	for i := range reservations {
		r := &reservations[i]
		if !OverlapsMillis(slotStart, slotEnd, r.StartTS, r.EndTS, bufMs) {
			continue
		}
		reason := "event in progress"
		if !OverlapsMillis(slotStart, slotEnd, r.StartTS, r.EndTS, 0) {
			reason = "cleanup buffer"
		}
		return &SlotConflict{
			ReservationID: r.ID,
			Status:        r.Status,
			StartDate:     r.StartDate,
			EndDate:       r.EndDate,
			Reason:        reason,
		}
	}
	return nil
}
