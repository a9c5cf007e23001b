package stac

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"

	"github.com/bryanfinkel/satellite-backend-go/internal/models"
)

func TestSearch(t *testing.T) {
	var gotReq searchRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" || r.Method != http.MethodPost {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}

		json.NewEncoder(w).Encode(searchResponse{
			Features: []Item{{
				ID:         "S2A_TEST",
				Collection: DefaultCollection,
				Assets: map[string]Asset{
					"red": {Href: "https://example.com/B04.tif"},
					"nir": {Href: "https://example.com/B08.tif"},
				},
			}},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	bbox := models.BoundingBox{-122.5, 37.7, -122.4, 37.8}

	items, err := client.Search(context.Background(), bbox, "2024-06-01", "2024-06-30", 3)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if len(items) != 1 || items[0].ID != "S2A_TEST" {
		t.Fatalf("items = %+v", items)
	}

	if gotReq.Datetime != "2024-06-01/2024-06-30" {
		t.Errorf("Datetime = %q", gotReq.Datetime)
	}
	if gotReq.BBox != [4]float64(bbox) {
		t.Errorf("BBox = %v, want %v", gotReq.BBox, bbox)
	}
	if len(gotReq.Collections) != 1 || gotReq.Collections[0] != DefaultCollection {
		t.Errorf("Collections = %v", gotReq.Collections)
	}
}

func TestSearchErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(server.URL)

	_, err := client.Search(context.Background(), models.BoundingBox{0, 0, 1, 1}, "2024-01-01", "2024-01-31", 3)
	var searchErr *SearchError
	if !errors.As(err, &searchErr) {
		t.Fatalf("error = %v, want *SearchError", err)
	}
	if searchErr.Status != http.StatusBadGateway {
		t.Errorf("Status = %d, want 502", searchErr.Status)
	}
}

func TestSearchUnreachable(t *testing.T) {
	client := NewClient("http://127.0.0.1:1")

	_, err := client.Search(context.Background(), models.BoundingBox{0, 0, 1, 1}, "2024-01-01", "2024-01-31", 3)
	var searchErr *SearchError
	if !errors.As(err, &searchErr) {
		t.Fatalf("error = %v, want *SearchError", err)
	}
}

func TestBandURLs(t *testing.T) {
	item := Item{
		ID: "scene",
		Assets: map[string]Asset{
			"red": {Href: "r"},
			"nir": {Href: "n"},
		},
	}

	red, nir, err := BandURLs(item)
	if err != nil {
		t.Fatalf("BandURLs failed: %v", err)
	}
	if red != "r" || nir != "n" {
		t.Errorf("BandURLs = (%q, %q)", red, nir)
	}
}

func TestBandURLsMissingAsset(t *testing.T) {
	tests := []struct {
		name   string
		assets map[string]Asset
	}{
		{"no red", map[string]Asset{"nir": {Href: "n"}}},
		{"no nir", map[string]Asset{"red": {Href: "r"}}},
		{"empty", map[string]Asset{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := BandURLs(Item{ID: "x", Assets: tt.assets}); err == nil {
				t.Error("expected error for missing band asset")
			}
		})
	}
}
