package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/evently/venue-booking/internal/model"
)

func newTestReporter(t *testing.T) (*Reporter, *fakeStore) {
	t.Helper()
	spaces := &fakeSpaces{spaces: map[uint64]*model.Space{
		1: {ID: 1, OwnerID: 10, Name: "Loft One", Status: model.SpaceStatusApproved, PricePerHourCents: 50_000, MaxCapacity: 40},
		2: {ID: 2, OwnerID: 10, Name: "Hall Two", Status: model.SpaceStatusPending, PricePerHourCents: 80_000, MaxCapacity: 200},
	}}
	store := newFakeStore()
	return NewReporter(spaces, store, time.Hour, time.UTC), store
}

func seedReservation(t *testing.T, store *fakeStore, spaceID uint64, start, end, status string) {
	t.Helper()
	s := mustTime(t, start)
	e := mustTime(t, end)
	res := &model.Reservation{
		SpaceID:           spaceID,
		UserID:            20,
		StartDate:         start,
		EndDate:           end,
		StartTS:           s.UnixMilli(),
		EndTS:             e.UnixMilli(),
		EstimatedCapacity: 5,
		Status:            model.ReservationStatusPending,
	}
	pay := &model.Payment{AmountCents: 1, Status: model.PaymentStatusPending, Method: "card"}
	if err := store.CreateWithPayment(context.Background(), res, pay, time.Hour); err != nil {
		t.Fatalf("seed reservation: %v", err)
	}
	if status != model.ReservationStatusPending {
		if _, _, err := store.Decide(context.Background(), res.ID, status, nil); err != nil {
			t.Fatalf("seed decide: %v", err)
		}
	}
}

func TestMonthAvailabilityEmptyMonth(t *testing.T) {
	rep, _ := newTestReporter(t)
	report, err := rep.MonthAvailability(context.Background(), 1, 2026, 4)
	if err != nil {
		t.Fatalf("MonthAvailability: %v", err)
	}
	if len(report.Days) != 0 {
		t.Errorf("Days has %d entries, want none for an empty month", len(report.Days))
	}
	if report.Summary.TotalSlots != 30*SlotsPerDay {
		t.Errorf("TotalSlots = %d, want %d", report.Summary.TotalSlots, 30*SlotsPerDay)
	}
	if report.Summary.OccupiedSlots != 0 || report.Summary.AvailableSlots != report.Summary.TotalSlots {
		t.Errorf("summary = %+v, want everything available", report.Summary)
	}
	if report.Summary.AvailabilityRate != 100 {
		t.Errorf("AvailabilityRate = %d, want 100", report.Summary.AvailabilityRate)
	}
}

func TestMonthAvailabilityBlockedSlots(t *testing.T) {
	rep, store := newTestReporter(t)
	// Confirmed event 10:00-14:00 on March 10; with the one-hour
	// cleanup buffer and two-hour slot windows, slots 08:00 through
	// 14:00 are blocked (08:00's own cleanup would run into the
	// event, 14:00 sits in the event's cleanup) and 15:00 is the
	// first free one.
	seedReservation(t, store, 1, "2026-03-10T10:00:00Z", "2026-03-10T14:00:00Z", model.ReservationStatusConfirmed)

	report, err := rep.MonthAvailability(context.Background(), 1, 2026, 3)
	if err != nil {
		t.Fatalf("MonthAvailability: %v", err)
	}
	if len(report.Days) != 1 {
		t.Fatalf("Days has %d entries, want exactly the occupied day", len(report.Days))
	}
	day := report.Days[0]
	if day.Date != "2026-03-10" {
		t.Fatalf("Date = %q, want 2026-03-10", day.Date)
	}
	wantBlocked := []string{"08:00", "09:00", "10:00", "11:00", "12:00", "13:00", "14:00"}
	if len(day.Slots) != len(wantBlocked) {
		t.Fatalf("blocked slots = %d, want %d: %+v", len(day.Slots), len(wantBlocked), day.Slots)
	}
	for i, slot := range day.Slots {
		if slot.Time != wantBlocked[i] {
			t.Errorf("slot[%d].Time = %q, want %q", i, slot.Time, wantBlocked[i])
		}
		if slot.Available {
			t.Errorf("slot %s marked available", slot.Time)
		}
		if slot.Conflict == nil {
			t.Fatalf("slot %s has no conflict detail", slot.Time)
		}
		wantReason := "event in progress"
		if slot.Time == "08:00" || slot.Time == "14:00" {
			wantReason = "cleanup buffer"
		}
		if slot.Conflict.Reason != wantReason {
			t.Errorf("slot %s reason = %q, want %q", slot.Time, slot.Conflict.Reason, wantReason)
		}
		if slot.Conflict.Status != model.ReservationStatusConfirmed {
			t.Errorf("slot %s conflict status = %q, want confirmed", slot.Time, slot.Conflict.Status)
		}
	}
	if report.Summary.OccupiedSlots != len(wantBlocked) {
		t.Errorf("OccupiedSlots = %d, want %d", report.Summary.OccupiedSlots, len(wantBlocked))
	}
}

// The summary always balances: available + occupied = total, and the
// rate is the rounded available share, regardless of how the month is
// populated.
func TestMonthAvailabilitySummaryConsistent(t *testing.T) {
	rep, store := newTestReporter(t)
	seeds := []struct{ start, end, status string }{
		{"2026-03-03T08:00:00Z", "2026-03-03T12:00:00Z", model.ReservationStatusConfirmed},
		{"2026-03-03T18:00:00Z", "2026-03-03T20:00:00Z", model.ReservationStatusPending},
		{"2026-03-15T06:00:00Z", "2026-03-16T06:00:00Z", model.ReservationStatusConfirmed},
		{"2026-03-20T22:00:00Z", "2026-03-20T23:30:00Z", model.ReservationStatusPending},
		{"2026-03-25T09:00:00Z", "2026-03-25T10:00:00Z", model.ReservationStatusRejected},
	}
	for _, s := range seeds {
		seedReservation(t, store, 1, s.start, s.end, s.status)
	}

	report, err := rep.MonthAvailability(context.Background(), 1, 2026, 3)
	if err != nil {
		t.Fatalf("MonthAvailability: %v", err)
	}
	sum := report.Summary
	if sum.TotalSlots != 31*SlotsPerDay {
		t.Errorf("TotalSlots = %d, want %d", sum.TotalSlots, 31*SlotsPerDay)
	}
	if sum.AvailableSlots+sum.OccupiedSlots != sum.TotalSlots {
		t.Errorf("available %d + occupied %d != total %d", sum.AvailableSlots, sum.OccupiedSlots, sum.TotalSlots)
	}
	counted := 0
	for _, day := range report.Days {
		if len(day.Slots) == 0 {
			t.Errorf("day %s listed with no blocked slots", day.Date)
		}
		counted += len(day.Slots)
	}
	if counted != sum.OccupiedSlots {
		t.Errorf("listed blocked slots %d != OccupiedSlots %d", counted, sum.OccupiedSlots)
	}
	wantRate := int(float64(sum.AvailableSlots)/float64(sum.TotalSlots)*100 + 0.5)
	if sum.AvailabilityRate != wantRate {
		t.Errorf("AvailabilityRate = %d, want %d", sum.AvailabilityRate, wantRate)
	}
	// The rejected reservation must not block anything.
	for _, day := range report.Days {
		if day.Date == "2026-03-25" {
			t.Error("rejected reservation produced blocked slots")
		}
	}
}

func TestMonthAvailabilityValidation(t *testing.T) {
	rep, _ := newTestReporter(t)
	cases := []struct {
		name    string
		spaceID uint64
		year    int
		month   int
		want    error
	}{
		{"year below range", 1, 2019, 5, nil},
		{"year above range", 1, 2031, 5, nil},
		{"month zero", 1, 2026, 0, nil},
		{"month thirteen", 1, 2026, 13, nil},
		{"unknown space", 99, 2026, 5, ErrSpaceNotFound},
		{"unapproved space", 2, 2026, 5, ErrSpaceUnavailable},
	}
	for _, tc := range cases {
		_, err := rep.MonthAvailability(context.Background(), tc.spaceID, tc.year, tc.month)
		if err == nil {
			t.Errorf("%s: succeeded, want error", tc.name)
			continue
		}
		if tc.want != nil && !errors.Is(err, tc.want) {
			t.Errorf("%s: err = %v, want %v", tc.name, err, tc.want)
		}
		if tc.want == nil {
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Errorf("%s: err = %v, want *ValidationError", tc.name, err)
			}
		}
	}
}

func TestMonthAvailabilityCrossMonthBuffer(t *testing.T) {
	rep, store := newTestReporter(t)
	// Reservation ending 23:30 on Feb 28 blocks March 1's early grid
	// only through its buffer window... which ends 00:30, before the
	// 06:00 grid opens, so March must be completely free.
	seedReservation(t, store, 1, "2026-02-28T20:00:00Z", "2026-02-28T23:30:00Z", model.ReservationStatusConfirmed)

	report, err := rep.MonthAvailability(context.Background(), 1, 2026, 3)
	if err != nil {
		t.Fatalf("MonthAvailability: %v", err)
	}
	if len(report.Days) != 0 {
		t.Errorf("Days = %+v, want empty", report.Days)
	}
}

// The last day's late slot windows run past midnight, so a reservation
// starting exactly at next month's 00:00 still blocks them: 23:00's
// window [23:00, 01:00) hits the event directly and 22:00's own
// cleanup runs into it.
func TestMonthAvailabilityReachesIntoNextMonth(t *testing.T) {
	rep, store := newTestReporter(t)
	seedReservation(t, store, 1, "2026-04-01T00:00:00Z", "2026-04-01T04:00:00Z", model.ReservationStatusConfirmed)

	report, err := rep.MonthAvailability(context.Background(), 1, 2026, 3)
	if err != nil {
		t.Fatalf("MonthAvailability: %v", err)
	}
	if len(report.Days) != 1 || report.Days[0].Date != "2026-03-31" {
		t.Fatalf("Days = %+v, want only 2026-03-31", report.Days)
	}
	slots := report.Days[0].Slots
	if len(slots) != 2 || slots[0].Time != "22:00" || slots[1].Time != "23:00" {
		t.Fatalf("blocked slots = %+v, want 22:00 and 23:00", slots)
	}
	if slots[0].Conflict.Reason != "cleanup buffer" {
		t.Errorf("22:00 reason = %q, want cleanup buffer", slots[0].Conflict.Reason)
	}
	if slots[1].Conflict.Reason != "event in progress" {
		t.Errorf("23:00 reason = %q, want event in progress", slots[1].Conflict.Reason)
	}
}
