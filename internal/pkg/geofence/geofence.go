package geofence

import (
	"errors"
	"math"
)

const earthRadiusMeters = 6371000

var ErrInvalidCoordinate = errors.New("latitude or longitude is out of range")

// Checker validates coordinates against a configured center and radius.
// It is pure: no state beyond the configuration it was constructed with.
type Checker struct {
	centerLat    float64
	centerLon    float64
	radiusMeters float64
}

func NewChecker(centerLat, centerLon, radiusMeters float64) *Checker {
	return &Checker{
		centerLat:    centerLat,
		centerLon:    centerLon,
		radiusMeters: radiusMeters,
	}
}

func (c *Checker) RadiusMeters() float64 {
	return c.radiusMeters
}

// Check returns whether the coordinate lies within the fence and the computed
// great-circle distance to the center.
func (c *Checker) Check(lat, lon float64) (inside bool, distanceMeters float64, err error) {
	if err := validateCoordinate(lat, lon); err != nil {
		return false, 0, err
	}
	distance := DistanceMeters(lat, lon, c.centerLat, c.centerLon)
	return distance <= c.radiusMeters, distance, nil
}

// DistanceMeters computes the haversine great-circle distance between two
// coordinates in meters.
func DistanceMeters(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * (math.Pi / 180.0)
	dLon := (lon2 - lon1) * (math.Pi / 180.0)

	lat1Rad := lat1 * (math.Pi / 180.0)
	lat2Rad := lat2 * (math.Pi / 180.0)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(lat1Rad)*math.Cos(lat2Rad)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c
}

func validateCoordinate(lat, lon float64) error {
	if math.IsNaN(lat) || math.IsNaN(lon) {
		return ErrInvalidCoordinate
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return ErrInvalidCoordinate
	}
	return nil
}
