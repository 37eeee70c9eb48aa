package carpark

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

const sampleCSV = `park_id,name,address,district,latitude,longitude
tdc1,Star Ferry Car Park,9 Edinburgh Place Central,Central & Western,22.2819,114.1612
tdc2,City Hall Car Park,1 Edinburgh Place Central,Central & Western,22.2822,114.1620
shatin1,New Town Plaza Car Park,18 Sha Tin Centre Street,Sha Tin,22.3818,114.1884
`

func writeSampleCSV(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "carparks.csv")
	if err := os.WriteFile(path, []byte(sampleCSV), 0644); err != nil {
		t.Fatalf("writing sample csv: %v", err)
	}
	return path
}

func TestLoadCSV(t *testing.T) {
	parks, err := LoadCSV(writeSampleCSV(t))
	if err != nil {
		t.Fatalf("LoadCSV failed: %v", err)
	}

	if len(parks) != 3 {
		t.Fatalf("expected 3 carparks, got %d", len(parks))
	}

	first := parks[0]
	if first.ParkID != "tdc1" {
		t.Errorf("ParkID mismatch: got %s, want tdc1", first.ParkID)
	}
	if first.Name != "Star Ferry Car Park" {
		t.Errorf("Name mismatch: got %s", first.Name)
	}
	if first.District != "Central & Western" {
		t.Errorf("District mismatch: got %s", first.District)
	}
	if math.Abs(first.Latitude-22.2819) > 1e-9 || math.Abs(first.Longitude-114.1612) > 1e-9 {
		t.Errorf("coordinate mismatch: got (%f, %f)", first.Latitude, first.Longitude)
	}
}

func TestLoadCSVMissingFile(t *testing.T) {
	_, err := LoadCSV(filepath.Join(t.TempDir(), "nope.csv"))
	if err == nil {
		t.Error("expected error for missing file")
	}
}

func TestDatasetDistricts(t *testing.T) {
	parks, err := LoadCSV(writeSampleCSV(t))
	if err != nil {
		t.Fatalf("LoadCSV failed: %v", err)
	}
	d := NewDataset(parks)

	districts := d.Districts()
	if len(districts) != 2 {
		t.Fatalf("expected 2 districts, got %d", len(districts))
	}
	// Sorted output
	if districts[0] != "Central & Western" || districts[1] != "Sha Tin" {
		t.Errorf("unexpected district order: %v", districts)
	}

	central := d.ByDistrict("Central & Western")
	if len(central) != 2 {
		t.Errorf("expected 2 carparks in Central & Western, got %d", len(central))
	}
	if got := d.ByDistrict("Kowloon City"); len(got) != 0 {
		t.Errorf("expected no carparks for unknown district, got %d", len(got))
	}
}

func TestDatasetNearest(t *testing.T) {
	parks, err := LoadCSV(writeSampleCSV(t))
	if err != nil {
		t.Fatalf("LoadCSV failed: %v", err)
	}
	d := NewDataset(parks)

	// A point just east of City Hall should pick City Hall over Star Ferry.
	nearest, dist, ok := d.Nearest(22.2822, 114.1622)
	if !ok {
		t.Fatal("expected a nearest carpark")
	}
	if nearest.ParkID != "tdc2" {
		t.Errorf("expected tdc2, got %s", nearest.ParkID)
	}
	if dist <= 0 || dist > 100 {
		t.Errorf("distance %f m outside plausible range", dist)
	}

	empty := NewDataset(nil)
	if _, _, ok := empty.Nearest(22.0, 114.0); ok {
		t.Error("empty dataset should report no nearest carpark")
	}
}

func TestDatasetBounds(t *testing.T) {
	parks, err := LoadCSV(writeSampleCSV(t))
	if err != nil {
		t.Fatalf("LoadCSV failed: %v", err)
	}
	b := NewDataset(parks).Bounds()

	if !b.Valid() {
		t.Fatal("expected valid bounds")
	}
	if b.MinLat != 22.2819 || b.MaxLat != 22.3818 {
		t.Errorf("lat range mismatch: [%f, %f]", b.MinLat, b.MaxLat)
	}
	if b.MinLon != 114.1612 || b.MaxLon != 114.1884 {
		t.Errorf("lon range mismatch: [%f, %f]", b.MinLon, b.MaxLon)
	}
}
