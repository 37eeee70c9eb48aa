package carpark

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/gocarina/gocsv"
)

// Meter status codes from the live feed. Spaces whose meter is not
// usable carry no occupancy signal and are excluded from coverage.
const (
	MeterActive    = "N"
	MeterNotUsable = "NU"
)

// Occupancy status codes from the live feed.
const (
	StatusVacant   = "V"
	StatusOccupied = "O"
)

// Space is one metered on-street parking space from the government
// geojson export.
type Space struct {
	ID          string
	District    string
	SubDistrict string
	Street      string
	Section     string
	Latitude    float64
	Longitude   float64
}

type spacesFile struct {
	Features []struct {
		Properties struct {
			ParkingSpaceID  string `json:"ParkingSpaceId"`
			District        string `json:"District"`
			SubDistrict     string `json:"SubDistrict"`
			Street          string `json:"Street"`
			SectionOfStreet string `json:"SectionOfStreet"`
		} `json:"properties"`
		Geometry struct {
			Type        string    `json:"type"`
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

// LoadSpaces reads the metered parking geojson. Features without
// point coordinates are skipped.
func LoadSpaces(path string) ([]Space, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening metered parking geojson: %w", err)
	}

	var file spacesFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing metered parking geojson: %w", err)
	}

	spaces := make([]Space, 0, len(file.Features))
	for _, feat := range file.Features {
		if len(feat.Geometry.Coordinates) < 2 {
			continue
		}
		spaces = append(spaces, Space{
			ID:          feat.Properties.ParkingSpaceID,
			District:    feat.Properties.District,
			SubDistrict: feat.Properties.SubDistrict,
			Street:      feat.Properties.Street,
			Section:     feat.Properties.SectionOfStreet,
			// Geojson coordinates are [lon, lat].
			Latitude:  feat.Geometry.Coordinates[1],
			Longitude: feat.Geometry.Coordinates[0],
		})
	}
	return spaces, nil
}

// GroupID derives the stable identifier for a metered group from its
// location fields.
func GroupID(district, subDistrict, street, section string) string {
	id := district + "_" + subDistrict + "_" + street + "_" + section
	id = strings.ReplaceAll(id, " ", "_")
	id = strings.ReplaceAll(id, ",", "")
	return strings.ToUpper(id)
}

// Group is a cluster of metered spaces sharing a street section. On
// the map a group renders as a single carpark-like marker.
type Group struct {
	ID          string
	Name        string
	District    string
	SubDistrict string
	Street      string
	Section     string
	Spaces      []Space

	// Centroid of the member spaces.
	Latitude  float64
	Longitude float64
}

// GroupSpaces clusters spaces by district, sub-district, street and
// street section. Groups come back sorted by ID so downstream output
// is stable.
func GroupSpaces(spaces []Space) []Group {
	byID := make(map[string]*Group)
	for _, sp := range spaces {
		id := GroupID(sp.District, sp.SubDistrict, sp.Street, sp.Section)
		g, found := byID[id]
		if !found {
			g = &Group{
				ID:          id,
				Name:        sp.Section,
				District:    sp.District,
				SubDistrict: sp.SubDistrict,
				Street:      sp.Street,
				Section:     sp.Section,
			}
			byID[id] = g
		}
		g.Spaces = append(g.Spaces, sp)
	}

	groups := make([]Group, 0, len(byID))
	for _, g := range byID {
		var sumLat, sumLon float64
		for _, sp := range g.Spaces {
			sumLat += sp.Latitude
			sumLon += sp.Longitude
		}
		g.Latitude = sumLat / float64(len(g.Spaces))
		g.Longitude = sumLon / float64(len(g.Spaces))
		groups = append(groups, *g)
	}

	sort.Slice(groups, func(i, j int) bool { return groups[i].ID < groups[j].ID })
	return groups
}

// OccupancyRecord is one row of the live meter feed CSV.
type OccupancyRecord struct {
	SpaceID         string `csv:"ParkingSpaceId"`
	MeterStatus     string `csv:"ParkingMeterStatus"`
	OccupancyStatus string `csv:"OccupancyStatus"`
}

// OccupancySet indexes a live feed snapshot by space ID. Only spaces
// with an active meter are tracked.
type OccupancySet struct {
	vacant map[string]bool
}

// LoadOccupancy reads a live feed CSV snapshot.
func LoadOccupancy(path string) (*OccupancySet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening occupancy csv: %w", err)
	}
	defer f.Close()

	var records []OccupancyRecord
	if err := gocsv.UnmarshalFile(f, &records); err != nil {
		return nil, fmt.Errorf("parsing occupancy csv: %w", err)
	}
	return NewOccupancySet(records), nil
}

// NewOccupancySet builds a set from parsed feed records.
func NewOccupancySet(records []OccupancyRecord) *OccupancySet {
	set := &OccupancySet{vacant: make(map[string]bool)}
	for _, rec := range records {
		if strings.TrimSpace(rec.MeterStatus) != MeterActive {
			continue
		}
		id := strings.TrimSpace(rec.SpaceID)
		set.vacant[id] = strings.TrimSpace(rec.OccupancyStatus) == StatusVacant
	}
	return set
}

// Tracked reports whether the space has an active meter in the feed.
func (s *OccupancySet) Tracked(spaceID string) bool {
	if s == nil {
		return false
	}
	_, found := s.vacant[spaceID]
	return found
}

// Vacant reports whether the space is tracked and currently vacant.
func (s *OccupancySet) Vacant(spaceID string) bool {
	if s == nil {
		return false
	}
	return s.vacant[spaceID]
}

// TrackedCount returns the number of tracked spaces in the feed.
func (s *OccupancySet) TrackedCount() int {
	if s == nil {
		return 0
	}
	return len(s.vacant)
}

// GroupStatus is the live rollup for one metered group.
type GroupStatus struct {
	Tracked int
	Vacant  int
}

// Status counts the group's tracked and vacant spaces against a feed
// snapshot. A nil set yields an empty status.
func (g Group) Status(occ *OccupancySet) GroupStatus {
	var st GroupStatus
	for _, sp := range g.Spaces {
		if !occ.Tracked(sp.ID) {
			continue
		}
		st.Tracked++
		if occ.Vacant(sp.ID) {
			st.Vacant++
		}
	}
	return st
}

// CoveragePct returns tracked spaces as a percentage of the group's
// total.
func (g Group) CoveragePct(occ *OccupancySet) float64 {
	if len(g.Spaces) == 0 {
		return 0
	}
	st := g.Status(occ)
	return float64(st.Tracked) / float64(len(g.Spaces)) * 100
}
