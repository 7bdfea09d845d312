package geo

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/patil-piyush/OceanGuard/models"
)

func authority(id byte, lat, lng float64, available bool) models.Authority {
	var oid primitive.ObjectID
	oid[11] = id
	return models.Authority{ID: oid, Lat: lat, Lng: lng, IsAvailable: available}
}

func TestHaversineKnownDistance(t *testing.T) {
	t.Parallel()

	// One degree of latitude on the 6371 km sphere is ~111.19 km.
	d := HaversineKm(0, 0, 1, 0)
	if d < 111.1 || d > 111.3 {
		t.Fatalf("unexpected distance for 1 deg latitude: %f km", d)
	}

	if d := HaversineKm(10, 80, 10, 80); d != 0 {
		t.Fatalf("distance to self should be 0, got %f", d)
	}
}

func TestNearbyFiltersAndOrders(t *testing.T) {
	t.Parallel()

	// Origin at (10, 80). Offsets in degrees latitude: 0.01 deg ~ 1.11 km.
	authorities := []models.Authority{
		authority(1, 10.05, 80, true),  // ~5.6 km
		authority(2, 10.01, 80, true),  // ~1.1 km
		authority(3, 10.02, 80, false), // unavailable, closer than 1
		authority(4, 11.0, 80, true),   // ~111 km, out of radius
	}

	got := Nearby(10, 80, 10, authorities)
	if len(got) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(got))
	}
	if got[0].Authority.ID[11] != 2 || got[1].Authority.ID[11] != 1 {
		t.Fatalf("candidates not ordered by distance: %v", got)
	}
	if got[0].DistanceKm >= got[1].DistanceKm {
		t.Fatalf("distances not ascending: %f then %f", got[0].DistanceKm, got[1].DistanceKm)
	}
}

func TestNearbyUnavailableNeverReturned(t *testing.T) {
	t.Parallel()

	got := Nearby(10, 80, 1000, []models.Authority{
		authority(1, 10, 80, false),
	})
	if len(got) != 0 {
		t.Fatalf("unavailable authority returned: %v", got)
	}
}

func TestNearbyEmptyWhenNoneInRadius(t *testing.T) {
	t.Parallel()

	got := Nearby(0, 0, 5, []models.Authority{
		authority(1, 50, 50, true),
	})
	if got == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(got) != 0 {
		t.Fatalf("expected no candidates, got %d", len(got))
	}
}

func TestNearbyTieBreaksOnID(t *testing.T) {
	t.Parallel()

	// Same coordinates, same distance; order must follow id.
	authorities := []models.Authority{
		authority(9, 10.01, 80, true),
		authority(3, 10.01, 80, true),
	}
	got := Nearby(10, 80, 10, authorities)
	if len(got) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(got))
	}
	if got[0].Authority.ID[11] != 3 {
		t.Fatalf("tie not broken by id: first is %d", got[0].Authority.ID[11])
	}
}
