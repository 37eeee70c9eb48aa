// Package carpark loads the static carpark datasets and the live
// meter occupancy feed that drive the map.
package carpark

import (
	"fmt"
	"os"
	"sort"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/parkview/geo"
)

// Carpark is one off-street carpark row from the carparks CSV
// export.
type Carpark struct {
	ParkID    string  `csv:"park_id"`
	Name      string  `csv:"name"`
	Address   string  `csv:"address"`
	District  string  `csv:"district"`
	Latitude  float64 `csv:"latitude"`
	Longitude float64 `csv:"longitude"`
}

// LoadCSV reads a carparks CSV file.
func LoadCSV(path string) ([]Carpark, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening carparks csv: %w", err)
	}
	defer f.Close()

	var parks []Carpark
	if err := gocsv.UnmarshalFile(f, &parks); err != nil {
		return nil, fmt.Errorf("parsing carparks csv: %w", err)
	}
	return parks, nil
}

// Dataset wraps a loaded carpark list with lookup helpers.
type Dataset struct {
	Carparks []Carpark
}

// NewDataset builds a dataset from loaded carparks.
func NewDataset(parks []Carpark) *Dataset {
	return &Dataset{Carparks: parks}
}

// Districts returns the distinct district names, sorted.
func (d *Dataset) Districts() []string {
	seen := make(map[string]bool)
	for _, p := range d.Carparks {
		if p.District != "" {
			seen[p.District] = true
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ByDistrict returns the carparks in the named district, in input
// order.
func (d *Dataset) ByDistrict(district string) []Carpark {
	var out []Carpark
	for _, p := range d.Carparks {
		if p.District == district {
			out = append(out, p)
		}
	}
	return out
}

// Nearest returns the carpark closest to the coordinate and its
// distance in meters. ok is false for an empty dataset.
func (d *Dataset) Nearest(lat, lon float64) (nearest Carpark, distM float64, ok bool) {
	for i, p := range d.Carparks {
		dist := geo.HaversineM(lat, lon, p.Latitude, p.Longitude)
		if i == 0 || dist < distM {
			nearest = p
			distM = dist
			ok = true
		}
	}
	return nearest, distM, ok
}

// Bounds returns the lat/lon bounding box of all carparks.
func (d *Dataset) Bounds() geo.Bounds {
	b := geo.NewBounds()
	for _, p := range d.Carparks {
		b.Extend(p.Latitude, p.Longitude)
	}
	return b
}
