package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-queue/internal/clock"
	"github.com/BruksfildServices01/barber-queue/internal/config"
	"github.com/BruksfildServices01/barber-queue/internal/infra/memory"
	"github.com/BruksfildServices01/barber-queue/internal/notify"
)

type api struct {
	t      *testing.T
	router *gin.Engine
	events *notify.Recorder
}

func newAPI(t *testing.T) *api {
	t.Helper()
	gin.SetMode(gin.TestMode)

	clk := clock.NewManual(time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC))
	rec := notify.NewRecorder()

	r := gin.New()
	RegisterRoutes(r, Deps{
		Store:    memory.New(memory.WithNow(clk.Now)),
		Notifier: rec,
		Config: &config.Config{
			JWTSecret:                "test-secret",
			TokenTTL:                 time.Hour,
			DefaultAvgServiceMinutes: 30,
			RatingRetryAttempts:      3,
		},
		Clock:    clk,
		Location: time.UTC,
	})

	return &api{t: t, router: r, events: rec}
}

func (a *api) do(method, path, token string, body any) *httptest.ResponseRecorder {
	a.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			a.t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return out
}

type session struct {
	ID    uint   `json:"id"`
	Token string `json:"token"`
}

func (a *api) register(role, email string) session {
	a.t.Helper()
	w := a.do(http.MethodPost, "/api/auth/register", "", gin.H{
		"role":     role,
		"name":     "Test " + role,
		"email":    email,
		"password": "secret123",
	})
	if w.Code != http.StatusCreated {
		a.t.Fatalf("register %s: expected 201, got %d (%s)", email, w.Code, w.Body.String())
	}
	return decode[session](a.t, w)
}

// shop registers a barber with one 60 minute service and a customer.
func (a *api) shop() (barber, customer session, serviceID uint) {
	a.t.Helper()

	barber = a.register("barber", "leo@example.com")
	customer = a.register("customer", "ana@example.com")

	w := a.do(http.MethodPost, "/api/me/services", barber.Token, gin.H{
		"name":         "Haircut",
		"duration_min": 60,
		"price":        50,
	})
	if w.Code != http.StatusCreated {
		a.t.Fatalf("create service: expected 201, got %d (%s)", w.Code, w.Body.String())
	}
	svc := decode[struct {
		ID uint `json:"id"`
	}](a.t, w)

	return barber, customer, svc.ID
}

func TestAuthFlow(t *testing.T) {
	a := newAPI(t)

	a.register("customer", "ana@example.com")

	w := a.do(http.MethodPost, "/api/auth/register", "", gin.H{
		"role": "customer", "name": "Ana", "email": "ana@example.com", "password": "secret123",
	})
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 on duplicate e-mail, got %d", w.Code)
	}

	w = a.do(http.MethodPost, "/api/auth/login", "", gin.H{
		"role": "customer", "email": "ana@example.com", "password": "wrong-one",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 on bad password, got %d", w.Code)
	}

	w = a.do(http.MethodPost, "/api/auth/login", "", gin.H{
		"role": "customer", "email": "ana@example.com", "password": "secret123",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", w.Code, w.Body.String())
	}
	if s := decode[session](t, w); s.Token == "" {
		t.Fatalf("expected a token")
	}
}

func TestAuthorization(t *testing.T) {
	a := newAPI(t)
	_, customer, _ := a.shop()

	if w := a.do(http.MethodPost, "/api/me/queue/advance", "", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}
	if w := a.do(http.MethodPost, "/api/me/queue/advance", "garbage", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with bad token, got %d", w.Code)
	}
	if w := a.do(http.MethodPost, "/api/me/queue/advance", customer.Token, nil); w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for customer on barber route, got %d", w.Code)
	}
}

func TestScheduledBookingOverHTTP(t *testing.T) {
	a := newAPI(t)
	barber, customer, serviceID := a.shop()

	body := gin.H{
		"barber_id":      barber.ID,
		"service_ids":    []uint{serviceID},
		"scheduled_time": "2026-03-03T14:00:00Z",
	}

	w := a.do(http.MethodPost, "/api/bookings", customer.Token, body)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", w.Code, w.Body.String())
	}
	created := decode[struct {
		ID     uint   `json:"id"`
		Status string `json:"status"`
	}](t, w)
	if created.Status != "confirmed" {
		t.Fatalf("expected confirmed, got %s", created.Status)
	}

	body["scheduled_time"] = "2026-03-03T14:30:00Z"
	w = a.do(http.MethodPost, "/api/bookings", customer.Token, body)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 on overlap, got %d (%s)", w.Code, w.Body.String())
	}
	if e := decode[struct {
		Code string `json:"error_code"`
	}](t, w); e.Code != "slot_conflict" {
		t.Fatalf("expected slot_conflict, got %s", e.Code)
	}

	w = a.do(http.MethodGet, "/api/me/agenda?date=2026-03-03", barber.Token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if agenda := decode[struct {
		Total int `json:"total"`
	}](t, w); agenda.Total != 1 {
		t.Fatalf("expected 1 booking on the agenda, got %d", agenda.Total)
	}

	path := fmt.Sprintf("/api/me/bookings/%d/status", created.ID)
	if w := a.do(http.MethodPatch, path, barber.Token, gin.H{"status": "completed"}); w.Code != http.StatusConflict {
		t.Fatalf("expected 409 on confirmed -> completed, got %d", w.Code)
	}
	if w := a.do(http.MethodPatch, path, barber.Token, gin.H{"status": "in_progress"}); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", w.Code, w.Body.String())
	}
	if w := a.do(http.MethodPatch, path, barber.Token, gin.H{"status": "completed"}); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", w.Code, w.Body.String())
	}

	reviewPath := fmt.Sprintf("/api/bookings/%d/review", created.ID)
	if w := a.do(http.MethodPost, reviewPath, customer.Token, gin.H{"rating": 5, "review": "great"}); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", w.Code, w.Body.String())
	}
	if w := a.do(http.MethodPost, reviewPath, customer.Token, gin.H{"rating": 4}); w.Code != http.StatusConflict {
		t.Fatalf("expected 409 on second review, got %d", w.Code)
	}
}

func TestWalkInQueueOverHTTP(t *testing.T) {
	a := newAPI(t)
	barber, customer, serviceID := a.shop()

	w := a.do(http.MethodPost, "/api/bookings/walk-in", customer.Token, gin.H{
		"barber_id":   barber.ID,
		"service_ids": []uint{serviceID},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", w.Code, w.Body.String())
	}
	joined := decode[struct {
		Booking struct {
			ID uint `json:"id"`
		} `json:"booking"`
		Position int `json:"position"`
	}](t, w)
	if joined.Position != 1 {
		t.Fatalf("expected position 1, got %d", joined.Position)
	}

	w = a.do(http.MethodGet, fmt.Sprintf("/api/barbers/%d/queue", barber.ID), "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if snap := decode[struct {
		Entries []json.RawMessage `json:"entries"`
	}](t, w); len(snap.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(snap.Entries))
	}

	w = a.do(http.MethodGet, fmt.Sprintf("/api/bookings/%d/position", joined.Booking.ID), customer.Token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", w.Code, w.Body.String())
	}

	w = a.do(http.MethodPost, "/api/me/queue/advance", barber.Token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", w.Code, w.Body.String())
	}
	if res := decode[struct {
		Next uint `json:"next_booking_id"`
	}](t, w); res.Next != joined.Booking.ID {
		t.Fatalf("expected booking %d called, got %d", joined.Booking.ID, res.Next)
	}

	w = a.do(http.MethodPatch, fmt.Sprintf("/api/me/queue/entries/%d", joined.Booking.ID), barber.Token, gin.H{"status": "completed"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", w.Code, w.Body.String())
	}

	if w := a.do(http.MethodPost, "/api/me/queue/advance", barber.Token, nil); w.Code != http.StatusConflict {
		t.Fatalf("expected 409 on empty queue, got %d", w.Code)
	}

	if w := a.do(http.MethodGet, "/api/barbers/999/queue", "", nil); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown barber, got %d", w.Code)
	}
}

func TestCancelOverHTTP(t *testing.T) {
	a := newAPI(t)
	barber, customer, serviceID := a.shop()
	other := a.register("customer", "bia@example.com")

	w := a.do(http.MethodPost, "/api/bookings", customer.Token, gin.H{
		"barber_id":      barber.ID,
		"service_ids":    []uint{serviceID},
		"scheduled_time": "2026-03-03T09:00:00Z",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", w.Code, w.Body.String())
	}
	b := decode[struct {
		ID uint `json:"id"`
	}](t, w)

	path := fmt.Sprintf("/api/bookings/%d/cancel", b.ID)
	if w := a.do(http.MethodPost, path, other.Token, nil); w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for a stranger, got %d", w.Code)
	}
	if w := a.do(http.MethodPost, path, barber.Token, nil); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", w.Code, w.Body.String())
	}
	if got := a.events.On(notify.CustomerChannel(customer.ID), notify.BookingCancelled); len(got) != 1 {
		t.Fatalf("expected 1 cancellation event for the customer, got %d", len(got))
	}

	if w := a.do(http.MethodPost, "/api/bookings/abc/cancel", barber.Token, nil); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 on bad id, got %d", w.Code)
	}
}

func TestBarberRemovesWalkIn(t *testing.T) {
	a := newAPI(t)
	barber, customer, serviceID := a.shop()

	w := a.do(http.MethodPost, "/api/bookings/walk-in", customer.Token, gin.H{
		"barber_id":   barber.ID,
		"service_ids": []uint{serviceID},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", w.Code, w.Body.String())
	}
	joined := decode[struct {
		Booking struct {
			ID uint `json:"id"`
		} `json:"booking"`
	}](t, w)
	id := joined.Booking.ID

	if w := a.do(http.MethodDelete, fmt.Sprintf("/api/me/queue/entries/%d", id), barber.Token, nil); w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d (%s)", w.Code, w.Body.String())
	}

	// The booking is closed, not left pending without a place in line.
	w = a.do(http.MethodPatch, fmt.Sprintf("/api/me/bookings/%d/status", id), barber.Token, gin.H{"status": "no_show"})
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 on a removed walk-in, got %d (%s)", w.Code, w.Body.String())
	}
	if e := decode[struct {
		Code string `json:"error_code"`
	}](t, w); e.Code != "invalid_transition" {
		t.Fatalf("expected invalid_transition, got %s", e.Code)
	}

	if got := a.events.On(notify.CustomerChannel(customer.ID), notify.BookingCancelled); len(got) != 1 {
		t.Fatalf("expected 1 cancellation event for the customer, got %d", len(got))
	}
}

func TestDeactivatedServiceCannotBeBooked(t *testing.T) {
	a := newAPI(t)
	barber, customer, serviceID := a.shop()

	w := a.do(http.MethodPatch, fmt.Sprintf("/api/me/services/%d", serviceID), barber.Token, gin.H{"active": false})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", w.Code, w.Body.String())
	}

	w = a.do(http.MethodGet, fmt.Sprintf("/api/barbers/%d/services", barber.ID), "", nil)
	if list := decode[struct {
		Total int `json:"total"`
	}](t, w); list.Total != 0 {
		t.Fatalf("expected no public services, got %d", list.Total)
	}

	w = a.do(http.MethodPost, "/api/bookings", customer.Token, gin.H{
		"barber_id":      barber.ID,
		"service_ids":    []uint{serviceID},
		"scheduled_time": "2026-03-03T14:00:00Z",
	})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d (%s)", w.Code, w.Body.String())
	}
	if e := decode[struct {
		Code string `json:"error_code"`
	}](t, w); e.Code != "invalid_service" {
		t.Fatalf("expected invalid_service, got %s", e.Code)
	}
}
