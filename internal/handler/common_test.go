package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/evently/venue-booking/internal/booking"
	"github.com/evently/venue-booking/internal/middleware"
	"github.com/evently/venue-booking/internal/repository"
)

func newJSONContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return echo.New().NewContext(req, rec), rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not a JSON object: %v", err)
	}
	return body["error"]
}

func TestWriteDomainErrorStatusMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"validation", &booking.ValidationError{Field: "end_date", Reason: "must be after start_date"}, http.StatusBadRequest},
		{"state conflict", &booking.StateError{Current: "confirmed"}, http.StatusConflict},
		{"space missing", booking.ErrSpaceNotFound, http.StatusNotFound},
		{"reservation missing", booking.ErrReservationNotFound, http.StatusNotFound},
		{"domain forbidden", booking.ErrForbidden, http.StatusForbidden},
		{"repo forbidden", repository.ErrForbidden, http.StatusForbidden},
		{"slot taken", booking.ErrSlotUnavailable, http.StatusConflict},
		{"repo conflict", repository.ErrConflict, http.StatusConflict},
		{"space unapproved", booking.ErrSpaceUnavailable, http.StatusBadRequest},
		{"self booking", booking.ErrSelfBookingForbidden, http.StatusBadRequest},
		{"over capacity", booking.ErrCapacityExceeded, http.StatusBadRequest},
		{"naive timestamp", booking.ErrAmbiguousTimezone, http.StatusBadRequest},
		{"wrapped sentinel", errors.New("wrapped: " + booking.ErrSlotUnavailable.Error()), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := newJSONContext(t, http.MethodPost, "/v1/reservations", "{}")
			if err := writeDomainError(c, tc.err); err != nil {
				t.Fatalf("writeDomainError returned error: %v", err)
			}
			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tc.wantStatus)
			}
			if decodeError(t, rec) == "" {
				t.Fatal("response carries no error message")
			}
		})
	}
}

func TestWriteDomainErrorHidesInternals(t *testing.T) {
	c, rec := newJSONContext(t, http.MethodPost, "/v1/reservations", "{}")
	if err := writeDomainError(c, errors.New("dial tcp 10.0.0.3:3306: connection refused")); err != nil {
		t.Fatalf("writeDomainError returned error: %v", err)
	}
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if msg := decodeError(t, rec); msg != "internal error" {
		t.Fatalf("internal detail leaked: %q", msg)
	}
}

func TestReservationDispatchRejectsUnknownAction(t *testing.T) {
	h := &ReservationHandler{}
	c, rec := newJSONContext(t, http.MethodPost, "/v1/reservations", `{"action":"cancel"}`)
	if err := h.Dispatch(c); err != nil {
		t.Fatalf("Dispatch returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if msg := decodeError(t, rec); msg != "unknown action" {
		t.Fatalf("error = %q, want %q", msg, "unknown action")
	}
}

func TestOwnerDispatchRejectsUnknownAction(t *testing.T) {
	h := &OwnerReservationHandler{}
	c, rec := newJSONContext(t, http.MethodPost, "/v1/owner/reservations", `{"action":"approve"}`)
	if err := h.Dispatch(c); err != nil {
		t.Fatalf("Dispatch returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestOwnerListRejectsUnknownStatusFilter(t *testing.T) {
	h := &OwnerReservationHandler{}
	c, rec := newJSONContext(t, http.MethodPost, "/v1/owner/reservations", `{"action":"list","status":"archived"}`)
	c.Set(middleware.CtxUserID, uint64(7))
	c.Set(middleware.CtxRole, "owner")
	if err := h.Dispatch(c); err != nil {
		t.Fatalf("Dispatch returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

// A fully valid create body on an identity-less context must stop at
// the 401 before any domain call runs.  The zero-value Lifecycle would
// panic on its first store access, so a clean error return proves the
// create path was never entered.
func TestDispatchRequiresIdentity(t *testing.T) {
	h := &ReservationHandler{Lifecycle: &booking.Lifecycle{}}
	body := `{"action":"create","space_id":1,"start_date":"2030-03-10T10:00:00Z","end_date":"2030-03-10T12:00:00Z","estimated_capacity":10}`
	c, rec := newJSONContext(t, http.MethodPost, "/v1/reservations", body)

	err := h.Dispatch(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("Dispatch err = %v, want 401 *echo.HTTPError", err)
	}
	if rec.Body.Len() != 0 {
		t.Fatalf("handler wrote a body before the error was handled: %q", rec.Body.String())
	}
}

// The owner decision path carries the same guard.
func TestOwnerDispatchRequiresIdentity(t *testing.T) {
	h := &OwnerReservationHandler{Lifecycle: &booking.Lifecycle{}}
	c, _ := newJSONContext(t, http.MethodPost, "/v1/owner/reservations", `{"action":"accept","reservation_id":3}`)

	err := h.Dispatch(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("Dispatch err = %v, want 401 *echo.HTTPError", err)
	}
}
