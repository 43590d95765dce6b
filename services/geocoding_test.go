package services

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGeocodingSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("q") != "123 Main St Springfield" {
			t.Errorf("unexpected query %q", r.URL.Query().Get("q"))
		}
		if r.Header.Get("User-Agent") == "" {
			t.Error("expected identifying User-Agent header")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"display_name":"123 Main St, Springfield","lat":"39.78","lon":"-89.65","address":{"road":"Main St","city":"Springfield","state":"Illinois","postcode":"62701"}}]`))
	}))
	defer server.Close()

	gs := NewGeocodingService()
	gs.BaseURL = server.URL

	results, err := gs.Search("123 Main St Springfield")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Address.City != "Springfield" {
		t.Errorf("expected city Springfield, got %q", results[0].Address.City)
	}
	if results[0].Lat != "39.78" {
		t.Errorf("expected lat 39.78, got %q", results[0].Lat)
	}
}

func TestGeocodingReverse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/reverse" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("lat") != "39.78" || r.URL.Query().Get("lon") != "-89.65" {
			t.Errorf("unexpected coordinates %s,%s", r.URL.Query().Get("lat"), r.URL.Query().Get("lon"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"display_name":"123 Main St, Springfield","lat":"39.78","lon":"-89.65","address":{"road":"Main St","city":"Springfield"}}`))
	}))
	defer server.Close()

	gs := NewGeocodingService()
	gs.BaseURL = server.URL

	result, err := gs.Reverse("39.78", "-89.65")
	if err != nil {
		t.Fatalf("reverse failed: %v", err)
	}
	if result.Address.Road != "Main St" {
		t.Errorf("expected road Main St, got %q", result.Address.Road)
	}
}

func TestGeocodingErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	gs := NewGeocodingService()
	gs.BaseURL = server.URL

	if _, err := gs.Search("anything"); err == nil {
		t.Fatal("expected error on non-200 response")
	}
}
