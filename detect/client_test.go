package detect

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/patil-piyush/OceanGuard/models"
)

func TestClassifyParsesVerdict(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req classifyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		if req.ImageURL != "http://images.local/spill.jpg" {
			t.Errorf("unexpected image url: %s", req.ImageURL)
		}
		json.NewEncoder(w).Encode(classifyResponse{
			Category:      "oil_spill",
			OilConfidence: 0.93,
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret")
	res, err := c.Classify(context.Background(), "http://images.local/spill.jpg")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if res.Category != models.CategoryOilSpill {
		t.Fatalf("category = %s, want oil_spill", res.Category)
	}
	if res.MLOutput.OilConfidence != 0.93 {
		t.Fatalf("confidence = %f, want 0.93", res.MLOutput.OilConfidence)
	}
}

func TestClassifyRejectsUnknownCategory(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(classifyResponse{Category: "sea_monster"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	if _, err := c.Classify(context.Background(), "http://x/y.jpg"); err == nil {
		t.Fatal("expected error for unknown category")
	}
}

func TestClassifySurfacesServiceErrors(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model crashed", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	if _, err := c.Classify(context.Background(), "http://x/y.jpg"); err == nil {
		t.Fatal("expected error for 500 response")
	}
}

func TestClassifyUnconfiguredEndpoint(t *testing.T) {
	t.Parallel()

	c := NewClient("", "")
	if _, err := c.Classify(context.Background(), "http://x/y.jpg"); err == nil {
		t.Fatal("expected error when endpoint missing")
	}
}
