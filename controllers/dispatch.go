package controllers

import (
	"context"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/patil-piyush/OceanGuard/models"
)

// HandleNearbyAuthorities exposes the geospatial lookup:
// GET /api/authorities/nearby?lat=..&lng=..&radius_km=..
func (rc *ReportController) HandleNearbyAuthorities(c *fiber.Ctx) error {
	lat, err := strconv.ParseFloat(c.Query("lat"), 64)
	if err != nil {
		return badReq(c, "invalid lat")
	}
	lng, err := strconv.ParseFloat(c.Query("lng"), 64)
	if err != nil {
		return badReq(c, "invalid lng")
	}
	radiusKm := 0.0
	if v := c.Query("radius_km"); v != "" {
		if radiusKm, err = strconv.ParseFloat(v, 64); err != nil {
			return badReq(c, "invalid radius_km")
		}
	}

	ctx, cancel := context.WithTimeout(c.Context(), 8*time.Second)
	defer cancel()

	candidates, err := rc.Engine.FindNearbyAuthorities(ctx, lat, lng, radiusKm)
	if err != nil {
		return engineErr(c, err)
	}

	out := make([]models.NearbyAuthority, 0, len(candidates))
	for _, cand := range candidates {
		out = append(out, models.NearbyAuthority{
			ID:         cand.Authority.ID.Hex(),
			Name:       cand.Authority.Name,
			Station:    cand.Authority.Station,
			Lat:        cand.Authority.Lat,
			Lng:        cand.Authority.Lng,
			DistanceKm: cand.DistanceKm,
		})
	}
	return c.JSON(models.NearbyAuthoritiesResponse{OK: true, Authorities: out})
}

// HandleTrajectoryPreview runs the drift model against live weather without
// creating a report.
func (rc *ReportController) HandleTrajectoryPreview(c *fiber.Ctx) error {
	var req models.TrajectoryRequest
	if err := c.BodyParser(&req); err != nil {
		return badReq(c, "invalid JSON")
	}

	ctx, cancel := context.WithTimeout(c.Context(), 30*time.Second)
	defer cancel()

	path, err := rc.Engine.PredictTrajectory(ctx, req.Lat, req.Lng, models.Category(req.Category), req.Steps, req.IntervalMinutes)
	if err != nil {
		return engineErr(c, err)
	}
	return c.JSON(models.TrajectoryResponse{OK: true, PredictedPath: path})
}
