package weather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSampleParsesBothSources(t *testing.T) {
	t.Parallel()

	forecast := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("hourly"); got != "winddirection_10m,windspeed_10m" {
			t.Errorf("unexpected hourly param: %s", got)
		}
		w.Write([]byte(`{"hourly":{"time":["2026-08-30T00:00"],"windspeed_10m":[5.5],"winddirection_10m":[120]}}`))
	}))
	defer forecast.Close()

	marine := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"hourly":{"current_speed":[0.8],"current_direction":[45]}}`))
	}))
	defer marine.Close()

	c := NewClient(forecast.URL, marine.URL)
	snap := c.Sample(context.Background(), 10, 80)

	if snap.WindSpeed == nil || *snap.WindSpeed != 5.5 {
		t.Fatalf("wind speed = %v, want 5.5", snap.WindSpeed)
	}
	if snap.WindDirection == nil || *snap.WindDirection != 120 {
		t.Fatalf("wind direction = %v, want 120", snap.WindDirection)
	}
	if snap.CurrentSpeed == nil || *snap.CurrentSpeed != 0.8 {
		t.Fatalf("current speed = %v, want 0.8", snap.CurrentSpeed)
	}
	if snap.CurrentDirection == nil || *snap.CurrentDirection != 45 {
		t.Fatalf("current direction = %v, want 45", snap.CurrentDirection)
	}
}

func TestSampleDegradesPerSource(t *testing.T) {
	t.Parallel()

	forecast := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"hourly":{"windspeed_10m":[3.2],"winddirection_10m":[200]}}`))
	}))
	defer forecast.Close()

	marine := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer marine.Close()

	c := NewClient(forecast.URL, marine.URL)
	snap := c.Sample(context.Background(), 10, 80)

	if snap.WindSpeed == nil {
		t.Fatal("wind data lost when marine API failed")
	}
	if snap.CurrentSpeed != nil || snap.CurrentDirection != nil {
		t.Fatalf("current fields should be nil on failure: %v %v", snap.CurrentSpeed, snap.CurrentDirection)
	}
}

func TestSampleAllSourcesDownStillReturnsSnapshot(t *testing.T) {
	t.Parallel()

	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	defer down.Close()

	c := NewClient(down.URL, down.URL)
	snap := c.Sample(context.Background(), 10, 80)

	if snap.WindSpeed != nil || snap.CurrentSpeed != nil {
		t.Fatal("expected fully nil snapshot")
	}
	if snap.Timestamp.IsZero() {
		t.Fatal("snapshot timestamp missing")
	}
}
