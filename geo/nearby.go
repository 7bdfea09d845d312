package geo

import (
	"math"
	"sort"

	"github.com/patil-piyush/OceanGuard/models"
)

const earthRadiusKm = 6371.0

// Candidate is one authority inside the search radius, annotated with its
// great-circle distance from the origin.
type Candidate struct {
	Authority  models.Authority
	DistanceKm float64
}

// HaversineKm returns the great-circle distance between two points in km.
func HaversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := radians(lat2 - lat1)
	dLng := radians(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(lat1))*math.Cos(radians(lat2))*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

// Nearby filters a snapshot of authorities down to the available ones within
// radiusKm of the origin, ordered by ascending distance. Ties break on
// authority id so the order is deterministic. An empty result is a valid
// outcome, not an error.
func Nearby(lat, lng, radiusKm float64, authorities []models.Authority) []Candidate {
	candidates := make([]Candidate, 0, len(authorities))
	for _, a := range authorities {
		if !a.IsAvailable {
			continue
		}
		d := HaversineKm(lat, lng, a.Lat, a.Lng)
		if d <= radiusKm {
			candidates = append(candidates, Candidate{Authority: a, DistanceKm: d})
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].DistanceKm != candidates[j].DistanceKm {
			return candidates[i].DistanceKm < candidates[j].DistanceKm
		}
		return candidates[i].Authority.ID.Hex() < candidates[j].Authority.ID.Hex()
	})
	return candidates
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }
