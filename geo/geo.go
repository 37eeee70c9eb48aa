// Package geo provides great-circle distance, bearing and a flat
// local projection for laying out carpark coordinates in meters.
package geo

import (
	"math"

	"github.com/pthm-cable/parkview/compass"
)

// EarthRadiusM is the mean earth radius used for all distance math.
const EarthRadiusM = 6371000.0

// HaversineM returns the great-circle distance in meters between two
// WGS84 coordinates.
func HaversineM(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusM * c
}

// InitialBearingDeg returns the initial great-circle bearing in
// degrees [0, 360) from the first coordinate toward the second.
func InitialBearingDeg(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dLambda := (lon2 - lon1) * math.Pi / 180

	y := math.Sin(dLambda) * math.Cos(phi2)
	x := math.Cos(phi1)*math.Sin(phi2) - math.Sin(phi1)*math.Cos(phi2)*math.Cos(dLambda)
	return compass.Normalize(math.Atan2(y, x) * 180 / math.Pi)
}

// Bounds is an axis-aligned lat/lon bounding box.
type Bounds struct {
	MinLat, MinLon float64
	MaxLat, MaxLon float64
}

// NewBounds returns an empty bounds that extends to the first
// coordinate added.
func NewBounds() Bounds {
	return Bounds{
		MinLat: math.Inf(1),
		MinLon: math.Inf(1),
		MaxLat: math.Inf(-1),
		MaxLon: math.Inf(-1),
	}
}

// Extend grows the bounds to include the coordinate.
func (b *Bounds) Extend(lat, lon float64) {
	b.MinLat = math.Min(b.MinLat, lat)
	b.MinLon = math.Min(b.MinLon, lon)
	b.MaxLat = math.Max(b.MaxLat, lat)
	b.MaxLon = math.Max(b.MaxLon, lon)
}

// Valid reports whether at least one coordinate has been added.
func (b Bounds) Valid() bool {
	return b.MinLat <= b.MaxLat && b.MinLon <= b.MaxLon
}

// Center returns the midpoint of the bounds.
func (b Bounds) Center() (lat, lon float64) {
	return (b.MinLat + b.MaxLat) / 2, (b.MinLon + b.MaxLon) / 2
}

// Projector maps lat/lon coordinates onto a flat local plane in
// meters, x increasing east and y increasing south. Over a single
// city the equirectangular approximation stays well under marker
// size, so no proper map projection is needed.
type Projector struct {
	bounds       Bounds
	padM         float64
	metersPerLat float64
	metersPerLon float64

	// World extent in meters including padding on all sides.
	WidthM  float64
	HeightM float64
}

// NewProjector builds a projector covering the bounds with padM
// meters of margin on every side.
func NewProjector(b Bounds, padM float64) *Projector {
	midLat := (b.MinLat + b.MaxLat) / 2
	perLat := EarthRadiusM * math.Pi / 180
	perLon := perLat * math.Cos(midLat*math.Pi/180)

	p := &Projector{
		bounds:       b,
		padM:         padM,
		metersPerLat: perLat,
		metersPerLon: perLon,
	}
	p.WidthM = (b.MaxLon-b.MinLon)*perLon + 2*padM
	p.HeightM = (b.MaxLat-b.MinLat)*perLat + 2*padM
	return p
}

// Project returns the plane position in meters for a coordinate.
// North maps toward smaller y so the plane reads like a map.
func (p *Projector) Project(lat, lon float64) (x, y float64) {
	x = p.padM + (lon-p.bounds.MinLon)*p.metersPerLon
	y = p.padM + (p.bounds.MaxLat-lat)*p.metersPerLat
	return x, y
}

// Unproject inverts Project.
func (p *Projector) Unproject(x, y float64) (lat, lon float64) {
	lon = p.bounds.MinLon + (x-p.padM)/p.metersPerLon
	lat = p.bounds.MaxLat - (y-p.padM)/p.metersPerLat
	return lat, lon
}
