package routes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/kataras/iris/v12"
)

// buildPreviewTestApp wires only the stateless preview route, which needs
// neither a database nor authentication.
func buildPreviewTestApp() *iris.Application {
	app := iris.New()
	app.Validator = validator.New()

	availabilityParty := app.Party("/api/availability")
	{
		availabilityParty.Post("/preview", PreviewAvailability)
	}
	if err := app.Build(); err != nil {
		panic(err)
	}
	return app
}

func postPreview(t *testing.T, app *iris.Application, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/availability/preview", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	return resp
}

func TestPreviewOpenCalendar(t *testing.T) {
	app := buildPreviewTestApp()

	resp := postPreview(t, app, `{
		"pricePerDay": 50,
		"startDate": "2024-07-04",
		"endDate": "2024-07-06"
	}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var result struct {
		Available  bool    `json:"available"`
		DayCount   int     `json:"dayCount"`
		TotalPrice float64 `json:"totalPrice"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &result); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if !result.Available {
		t.Error("expected open calendar to be available")
	}
	if result.DayCount != 2 {
		t.Errorf("expected 2 days, got %d", result.DayCount)
	}
	if result.TotalPrice != 100 {
		t.Errorf("expected total 100, got %v", result.TotalPrice)
	}
}

func TestPreviewConfirmedBookingConflict(t *testing.T) {
	app := buildPreviewTestApp()

	resp := postPreview(t, app, `{
		"pricePerDay": 50,
		"bookings": [
			{"id": 1, "start_date": "2024-07-10", "end_date": "2024-07-15", "status": "confirmed"}
		],
		"startDate": "2024-07-12",
		"endDate": "2024-07-14"
	}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var result struct {
		Available bool `json:"available"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &result); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if result.Available {
		t.Error("expected conflict with confirmed booking")
	}
}

func TestPreviewCancelledBookingDoesNotBlock(t *testing.T) {
	app := buildPreviewTestApp()

	resp := postPreview(t, app, `{
		"pricePerDay": 50,
		"bookings": [
			{"id": 1, "start_date": "2024-07-10", "end_date": "2024-07-15", "status": "cancelled"}
		],
		"startDate": "2024-07-12",
		"endDate": "2024-07-14"
	}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var result struct {
		Available bool `json:"available"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &result); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if !result.Available {
		t.Error("cancelled bookings must not block the interval")
	}
}

func TestPreviewWeekendsOnlyRule(t *testing.T) {
	app := buildPreviewTestApp()

	// 2024-06-03 is a Monday.
	resp := postPreview(t, app, `{
		"availabilityRule": "weekends_only",
		"pricePerDay": 50,
		"startDate": "2024-06-03",
		"endDate": "2024-06-04"
	}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var result struct {
		Available bool `json:"available"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &result); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if result.Available {
		t.Error("a weekday must not be bookable under weekends_only")
	}
}

func TestPreviewInvertedIntervalRejected(t *testing.T) {
	app := buildPreviewTestApp()

	resp := postPreview(t, app, `{
		"pricePerDay": 50,
		"startDate": "2024-07-06",
		"endDate": "2024-07-04"
	}`)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for inverted interval, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestPreviewOutOfWindowConflict(t *testing.T) {
	app := buildPreviewTestApp()

	resp := postPreview(t, app, `{
		"availableFrom": "2024-07-01",
		"availableTo": "2024-07-31",
		"pricePerDay": 50,
		"startDate": "2024-08-10",
		"endDate": "2024-08-12"
	}`)
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 for out-of-window interval, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestPreviewMalformedPolicyRejected(t *testing.T) {
	app := buildPreviewTestApp()

	resp := postPreview(t, app, `{
		"availabilityRule": "full_moons_only",
		"pricePerDay": 50,
		"startDate": "2024-07-04",
		"endDate": "2024-07-06"
	}`)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown rule, got %d: %s", resp.Code, resp.Body.String())
	}
}
