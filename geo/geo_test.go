package geo

import (
	"math"
	"testing"
)

func TestHaversineZeroDistance(t *testing.T) {
	d := HaversineM(22.2819, 114.1582, 22.2819, 114.1582)
	if d != 0 {
		t.Errorf("expected zero distance, got %f", d)
	}
}

func TestHaversineOneDegreeAtEquator(t *testing.T) {
	// One degree of longitude on the equator is R * pi/180.
	want := EarthRadiusM * math.Pi / 180
	d := HaversineM(0, 0, 0, 1)
	if math.Abs(d-want) > 0.1 {
		t.Errorf("expected %f m, got %f m", want, d)
	}

	// One degree of latitude is the same arc anywhere.
	d = HaversineM(22, 114, 23, 114)
	if math.Abs(d-want) > 0.1 {
		t.Errorf("expected %f m, got %f m", want, d)
	}
}

func TestHaversineSymmetric(t *testing.T) {
	a := HaversineM(22.2819, 114.1582, 22.3964, 114.1095)
	b := HaversineM(22.3964, 114.1095, 22.2819, 114.1582)
	if math.Abs(a-b) > 1e-9 {
		t.Errorf("expected symmetric distance, got %f vs %f", a, b)
	}
	// Central to Tsuen Wan is on the order of 13 km.
	if a < 10000 || a > 16000 {
		t.Errorf("distance %f m outside plausible range", a)
	}
}

func TestInitialBearingCardinal(t *testing.T) {
	testCases := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		want                   float64
	}{
		{"north", 0, 0, 1, 0, 0},
		{"east", 0, 0, 0, 1, 90},
		{"south", 1, 0, 0, 0, 180},
		{"west", 0, 1, 0, 0, 270},
	}

	for _, tc := range testCases {
		got := InitialBearingDeg(tc.lat1, tc.lon1, tc.lat2, tc.lon2)
		if math.Abs(got-tc.want) > 0.001 {
			t.Errorf("%s: expected bearing %f, got %f", tc.name, tc.want, got)
		}
	}
}

func TestBoundsExtend(t *testing.T) {
	b := NewBounds()
	if b.Valid() {
		t.Error("empty bounds should not be valid")
	}

	b.Extend(22.28, 114.15)
	if !b.Valid() {
		t.Error("bounds with one point should be valid")
	}

	b.Extend(22.50, 113.90)
	b.Extend(22.15, 114.30)

	if b.MinLat != 22.15 || b.MaxLat != 22.50 {
		t.Errorf("unexpected lat range [%f, %f]", b.MinLat, b.MaxLat)
	}
	if b.MinLon != 113.90 || b.MaxLon != 114.30 {
		t.Errorf("unexpected lon range [%f, %f]", b.MinLon, b.MaxLon)
	}

	lat, lon := b.Center()
	if math.Abs(lat-22.325) > 1e-9 || math.Abs(lon-114.1) > 1e-9 {
		t.Errorf("unexpected center (%f, %f)", lat, lon)
	}
}

func TestProjectorRoundtrip(t *testing.T) {
	b := NewBounds()
	b.Extend(22.15, 113.90)
	b.Extend(22.50, 114.30)
	p := NewProjector(b, 200)

	coords := []struct{ lat, lon float64 }{
		{22.15, 113.90},
		{22.50, 114.30},
		{22.2819, 114.1582},
	}
	for _, c := range coords {
		x, y := p.Project(c.lat, c.lon)
		lat, lon := p.Unproject(x, y)
		if math.Abs(lat-c.lat) > 1e-9 || math.Abs(lon-c.lon) > 1e-9 {
			t.Errorf("roundtrip (%f, %f) -> (%f, %f)", c.lat, c.lon, lat, lon)
		}
	}
}

func TestProjectorOrientation(t *testing.T) {
	b := NewBounds()
	b.Extend(22.15, 113.90)
	b.Extend(22.50, 114.30)
	p := NewProjector(b, 0)

	// Northwest corner sits at the plane origin.
	x, y := p.Project(22.50, 113.90)
	if math.Abs(x) > 1e-6 || math.Abs(y) > 1e-6 {
		t.Errorf("expected origin for NW corner, got (%f, %f)", x, y)
	}

	// Moving east increases x, moving south increases y.
	x2, y2 := p.Project(22.30, 114.10)
	if x2 <= x || y2 <= y {
		t.Errorf("expected southeast movement to increase both axes, got (%f, %f)", x2, y2)
	}
}

func TestProjectorDistancesMatchHaversine(t *testing.T) {
	b := NewBounds()
	b.Extend(22.15, 113.90)
	b.Extend(22.50, 114.30)
	p := NewProjector(b, 100)

	// Over city distances the flat plane should agree with the
	// great circle to well under a percent.
	lat1, lon1 := 22.2819, 114.1582
	lat2, lon2 := 22.3193, 114.1694

	x1, y1 := p.Project(lat1, lon1)
	x2, y2 := p.Project(lat2, lon2)
	flat := math.Hypot(x2-x1, y2-y1)
	great := HaversineM(lat1, lon1, lat2, lon2)

	if math.Abs(flat-great)/great > 0.01 {
		t.Errorf("flat distance %f m deviates from haversine %f m", flat, great)
	}
}

func TestProjectorPadding(t *testing.T) {
	b := NewBounds()
	b.Extend(22.15, 113.90)
	b.Extend(22.50, 114.30)

	p0 := NewProjector(b, 0)
	p1 := NewProjector(b, 500)

	if math.Abs(p1.WidthM-p0.WidthM-1000) > 1e-6 {
		t.Errorf("expected padded width %f, got %f", p0.WidthM+1000, p1.WidthM)
	}
	if math.Abs(p1.HeightM-p0.HeightM-1000) > 1e-6 {
		t.Errorf("expected padded height %f, got %f", p0.HeightM+1000, p1.HeightM)
	}

	// Padding shifts projected points but not their spacing.
	x0, y0 := p0.Project(22.30, 114.10)
	x1, y1 := p1.Project(22.30, 114.10)
	if math.Abs(x1-x0-500) > 1e-6 || math.Abs(y1-y0-500) > 1e-6 {
		t.Errorf("expected 500 m shift, got (%f, %f)", x1-x0, y1-y0)
	}
}
