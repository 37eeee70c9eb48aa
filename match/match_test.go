package match

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/pthm-cable/parkview/carpark"
)

func TestNormalizeAddress(t *testing.T) {
	testCases := []struct {
		in   string
		want string
	}{
		{"123 Nathan Road, Tsim Sha Tsui", "123 nathan rd tsim sha tsui"},
		{"Star House Car Park, Salisbury Road", "star house carpark salisbury rd"},
		{"Sha Tin Centre Street", "sha tin center st"},
		{"  Queens  Road   Central. ", "queens rd central"},
		{"Hennessy Avenue Building", "hennessy ave bldg"},
		{"", ""},
	}

	for _, tc := range testCases {
		got := NormalizeAddress(tc.in)
		if got != tc.want {
			t.Errorf("NormalizeAddress(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSimilarity(t *testing.T) {
	if got := Similarity("nathan road", "nathan road"); got != 1 {
		t.Errorf("identical strings should score 1, got %f", got)
	}
	if got := Similarity("", ""); got != 1 {
		t.Errorf("two empty strings should score 1, got %f", got)
	}
	if got := Similarity("abc", "xyz"); got != 0 {
		t.Errorf("disjoint strings should score 0, got %f", got)
	}
	if got := Similarity("a", "b"); got != 0 {
		t.Errorf("single runes cannot share bigrams, got %f", got)
	}

	// "night" and "nacht" share only the "ht" bigram: 2*1/(4+4)
	if got := Similarity("night", "nacht"); math.Abs(got-0.25) > 1e-9 {
		t.Errorf("expected 0.25, got %f", got)
	}

	// Symmetry
	a, b := "gloucester road", "gloucester rd east"
	if Similarity(a, b) != Similarity(b, a) {
		t.Error("similarity should be symmetric")
	}
}

func TestAddressSimilarity(t *testing.T) {
	// Different spellings of the same address normalize to a perfect
	// score.
	got := AddressSimilarity("123 Nathan Road", "123 Nathan Rd.")
	if got != 1 {
		t.Errorf("expected 1 after normalization, got %f", got)
	}

	if got := AddressSimilarity("", "anything"); got != 0 {
		t.Errorf("empty address should score 0, got %f", got)
	}
}

var testParks = []carpark.Carpark{
	{ParkID: "tdc1", Name: "Star Ferry Car Park", Address: "9 Edinburgh Place Central", District: "Central & Western", Latitude: 22.3005, Longitude: 114.17},
	{ParkID: "tdc2", Name: "City Hall Car Park", Address: "1 Edinburgh Place Central", District: "Central & Western", Latitude: 22.3001, Longitude: 114.17},
	{ParkID: "far1", Name: "Remote Car Park", Address: "99 Somewhere Else", District: "Islands", Latitude: 22.5, Longitude: 114.0},
}

func TestByCoordinate(t *testing.T) {
	stations := []Station{
		{Name: "Near Station", Latitude: 22.30, Longitude: 114.17},
		{Name: "Far Station", Latitude: 22.40, Longitude: 114.25},
	}

	matches := ByCoordinate(stations, testParks, 100)
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}

	m := matches[0]
	if m.StationName != "Near Station" {
		t.Errorf("unexpected station: %s", m.StationName)
	}
	// Both tdc1 and tdc2 are in range; dataset order decides.
	if m.ParkID != "tdc1" {
		t.Errorf("expected first in-range carpark tdc1, got %s", m.ParkID)
	}
	if m.Method != MethodCoordinate {
		t.Errorf("unexpected method: %s", m.Method)
	}
	if m.DistanceM <= 0 || m.DistanceM > 100 {
		t.Errorf("distance %f m outside threshold", m.DistanceM)
	}
}

func TestByCoordinateThreshold(t *testing.T) {
	stations := []Station{{Name: "Near Station", Latitude: 22.30, Longitude: 114.17}}

	// The closest carpark sits about 11 m away; a 5 m threshold
	// excludes everything.
	if matches := ByCoordinate(stations, testParks, 5); len(matches) != 0 {
		t.Errorf("expected no matches at 5 m, got %d", len(matches))
	}
}

func TestByAddress(t *testing.T) {
	stations := []Station{
		{Name: "Star Ferry", Address: "9 Edinburgh Place, Central"},
		{Name: "Nonsense", Address: "zzz qqq vvv"},
	}

	matches := ByAddress(stations, testParks, 0.7)
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}

	m := matches[0]
	// City Hall also clears the threshold on address alone, but the
	// combined score must pick the better name match.
	if m.ParkID != "tdc1" {
		t.Errorf("expected best match tdc1, got %s", m.ParkID)
	}
	if m.AddrScore != 1 {
		t.Errorf("expected perfect address score, got %f", m.AddrScore)
	}
	if m.Score < 0.7 {
		t.Errorf("combined score %f below threshold", m.Score)
	}
	if m.NameScore <= 0 || m.NameScore >= 1 {
		t.Errorf("name score %f outside expected range", m.NameScore)
	}
}

func TestAggregate(t *testing.T) {
	coord := []Match{
		{StationName: "A", ParkID: "p1", Method: MethodCoordinate, DistanceM: 50},
		{StationName: "B", ParkID: "p2", Method: MethodCoordinate, DistanceM: 80},
	}
	addr := []Match{
		{StationName: "A", ParkID: "p9", Method: MethodAddress, Score: 0.8},
		{StationName: "C", ParkID: "p3", Method: MethodAddress, Score: 0.75},
	}

	agg := Aggregate(coord, addr)
	if len(agg) != 3 {
		t.Fatalf("expected 3 unique matches, got %d", len(agg))
	}

	// A agrees on two methods and sorts first.
	a := agg[0]
	if a.StationName != "A" {
		t.Fatalf("expected station A first, got %s", a.StationName)
	}
	if len(a.Methods) != 2 || a.Methods[0] != MethodAddress || a.Methods[1] != MethodCoordinate {
		t.Errorf("unexpected methods for A: %v", a.Methods)
	}
	// The coordinate assignment keeps the carpark when methods
	// disagree.
	if a.ParkID != "p1" {
		t.Errorf("expected coordinate carpark p1, got %s", a.ParkID)
	}
	if a.DistanceM != 50 || a.Score != 0.8 {
		t.Errorf("expected both method details carried, got %+v", a)
	}

	// Single-method matches follow in name order.
	if agg[1].StationName != "B" || agg[2].StationName != "C" {
		t.Errorf("unexpected order: %s, %s", agg[1].StationName, agg[2].StationName)
	}
}

func TestComputeStats(t *testing.T) {
	stations := make([]Station, 4)
	coord := []Match{
		{StationName: "A", DistanceM: 50},
		{StationName: "B", DistanceM: 80},
	}
	addr := []Match{
		{StationName: "A", Score: 0.8},
		{StationName: "C", Score: 0.75},
	}
	agg := Aggregate(coord, addr)

	s := ComputeStats(stations, testParks, coord, addr, agg)
	if s.Stations != 4 || s.Carparks != 3 {
		t.Errorf("input counts mismatch: %+v", s)
	}
	if s.CoordMatches != 2 || s.AddrMatches != 2 || s.UniqueMatches != 3 {
		t.Errorf("match counts mismatch: %+v", s)
	}
	if s.OverlapPct != 75 {
		t.Errorf("expected 75%% overlap, got %f", s.OverlapPct)
	}
	if math.Abs(s.MeanDistanceM-65) > 1e-9 {
		t.Errorf("expected mean distance 65, got %f", s.MeanDistanceM)
	}
	// Sample standard deviation of {50, 80} is sqrt(450).
	if math.Abs(s.StdDevDistanceM-math.Sqrt(450)) > 1e-9 {
		t.Errorf("expected stddev %f, got %f", math.Sqrt(450), s.StdDevDistanceM)
	}
	if s.MedianDistanceM != 50 {
		t.Errorf("expected median distance 50, got %f", s.MedianDistanceM)
	}
	if s.P90DistanceM != 80 {
		t.Errorf("expected p90 distance 80, got %f", s.P90DistanceM)
	}
	if math.Abs(s.MeanScore-0.775) > 1e-9 {
		t.Errorf("expected mean score 0.775, got %f", s.MeanScore)
	}
	if s.MethodCounts["address+coordinate"] != 1 || s.MethodCounts["coordinate"] != 1 || s.MethodCounts["address"] != 1 {
		t.Errorf("method counts mismatch: %v", s.MethodCounts)
	}
}

func TestComputeStatsEmpty(t *testing.T) {
	s := ComputeStats(nil, nil, nil, nil, nil)
	if s.OverlapPct != 0 || s.MeanDistanceM != 0 || s.MeanScore != 0 {
		t.Errorf("expected zero stats, got %+v", s)
	}
	if s.StdDevDistanceM != 0 || s.MedianDistanceM != 0 || s.P90DistanceM != 0 {
		t.Errorf("expected zero distance distribution, got %+v", s)
	}
}

func TestComputeStatsSingleMatch(t *testing.T) {
	coord := []Match{{StationName: "A", DistanceM: 42}}
	s := ComputeStats(make([]Station, 1), testParks, coord, nil, Aggregate(coord, nil))
	if s.MeanDistanceM != 42 || s.MedianDistanceM != 42 || s.P90DistanceM != 42 {
		t.Errorf("expected all distances 42, got %+v", s)
	}
	// A single sample has no spread.
	if s.StdDevDistanceM != 0 {
		t.Errorf("expected zero stddev, got %f", s.StdDevDistanceM)
	}
}

func TestLoadStations(t *testing.T) {
	csv := `Station Name,Address,Latitude,Longitude
Star Ferry,"9 Edinburgh Place, Central",22.3005,114.17
City Hall,1 Edinburgh Place Central,22.3001,114.17
`
	path := filepath.Join(t.TempDir(), "stations.csv")
	if err := os.WriteFile(path, []byte(csv), 0644); err != nil {
		t.Fatalf("writing stations csv: %v", err)
	}

	stations, err := LoadStations(path)
	if err != nil {
		t.Fatalf("LoadStations failed: %v", err)
	}
	if len(stations) != 2 {
		t.Fatalf("expected 2 stations, got %d", len(stations))
	}
	if stations[0].Name != "Star Ferry" {
		t.Errorf("Name mismatch: got %s", stations[0].Name)
	}
	if stations[0].Address != "9 Edinburgh Place, Central" {
		t.Errorf("Address mismatch: got %s", stations[0].Address)
	}
	if stations[0].Latitude != 22.3005 {
		t.Errorf("Latitude mismatch: got %f", stations[0].Latitude)
	}
}
