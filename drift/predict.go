// Package drift forecasts where spilled oil or floating debris is headed,
// combining ocean current at full weight with a category-dependent fraction
// of the wind.
package drift

import (
	"math"
	"time"

	"github.com/patil-piyush/OceanGuard/models"
)

// Wind-coupling factors: fraction of the wind speed imparted to the drifting
// material. Oil slicks couple harder to surface wind than solid debris.
const (
	WindFactorDebris = 0.03
	WindFactorOil    = 0.06
)

// metersPerDegLat is the flat-earth conversion used for small displacements.
const metersPerDegLat = 111000.0

// Predict returns exactly steps forecast points starting one interval from
// now. Missing wind or current samples contribute zero drift rather than
// failing; with no weather at all every point sits on the origin.
//
// Longitude displacement is converted using cos(origin latitude) for every
// step, not the advected latitude. That approximation is part of the model's
// contract; keep it when touching this code.
func Predict(lat, lng float64, weather models.WeatherSnapshot, category models.Category, steps, intervalMinutes int) []models.TrajectoryPoint {
	windE, windN := vectorFromSpeedDir(weather.WindSpeed, weather.WindDirection)
	currE, currN := vectorFromSpeedDir(weather.CurrentSpeed, weather.CurrentDirection)

	windFactor := WindFactorOil
	if category == models.CategoryDebris {
		windFactor = WindFactorDebris
	}

	// Net velocity in m/s, east and north components.
	vE := currE + windE*windFactor
	vN := currN + windN*windFactor

	now := time.Now().UTC()
	points := make([]models.TrajectoryPoint, 0, steps)
	for i := 1; i <= steps; i++ {
		seconds := float64(intervalMinutes * 60 * i)
		eastM := vE * seconds
		northM := vN * seconds

		points = append(points, models.TrajectoryPoint{
			Lat: lat + northM/metersPerDegLat,
			Lng: lng + eastM/(metersPerDegLat*math.Cos(radians(lat))),
			ETA: now.Add(time.Duration(intervalMinutes*i) * time.Minute),
		})
	}
	return points
}

// vectorFromSpeedDir converts a (speed m/s, meteorological direction-from in
// degrees) sample into east/north velocity components. Nil speed or direction
// means that source is unknown and contributes nothing.
func vectorFromSpeedDir(speed, directionDeg *float64) (east, north float64) {
	if speed == nil || directionDeg == nil {
		return 0, 0
	}
	// direction-from -> direction-to
	heading := math.Mod(*directionDeg+180, 360)
	rad := radians(heading)
	return *speed * math.Sin(rad), *speed * math.Cos(rad)
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }
