// Package match links an external carpark list to the vacancy
// dataset by coordinates and by normalized address similarity.
package match

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/parkview/carpark"
	"github.com/pthm-cable/parkview/geo"
)

// Matching method names recorded on results.
const (
	MethodCoordinate = "coordinate"
	MethodAddress    = "address"
)

// Combined score weights for address matching.
const (
	addrWeight = 0.7
	nameWeight = 0.3
)

// Station is one row of an external carpark list to be matched
// against the vacancy dataset.
type Station struct {
	Name      string  `csv:"Station Name"`
	Address   string  `csv:"Address"`
	Latitude  float64 `csv:"Latitude"`
	Longitude float64 `csv:"Longitude"`
}

// LoadStations reads an external carpark list CSV.
func LoadStations(path string) ([]Station, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening stations csv: %w", err)
	}
	defer f.Close()

	var stations []Station
	if err := gocsv.UnmarshalFile(f, &stations); err != nil {
		return nil, fmt.Errorf("parsing stations csv: %w", err)
	}
	return stations, nil
}

// Match is a single station-to-carpark link found by one method.
type Match struct {
	StationName string  `csv:"station_name"`
	ParkID      string  `csv:"park_id"`
	ParkName    string  `csv:"park_name"`
	Method      string  `csv:"method"`
	DistanceM   float64 `csv:"distance_m"`
	Score       float64 `csv:"score"`
	AddrScore   float64 `csv:"addr_score"`
	NameScore   float64 `csv:"name_score"`
}

// ByCoordinate links each station to the first carpark within
// maxDistM meters, in dataset order.
func ByCoordinate(stations []Station, parks []carpark.Carpark, maxDistM float64) []Match {
	var matches []Match
	for _, st := range stations {
		for _, p := range parks {
			dist := geo.HaversineM(st.Latitude, st.Longitude, p.Latitude, p.Longitude)
			if dist <= maxDistM {
				matches = append(matches, Match{
					StationName: st.Name,
					ParkID:      p.ParkID,
					ParkName:    p.Name,
					Method:      MethodCoordinate,
					DistanceM:   dist,
				})
				break
			}
		}
	}
	return matches
}

// ByAddress links each station to its best-scoring carpark when the
// combined address and name similarity reaches threshold.
func ByAddress(stations []Station, parks []carpark.Carpark, threshold float64) []Match {
	var matches []Match
	for _, st := range stations {
		var best Match
		bestScore := 0.0

		for _, p := range parks {
			addrSim := AddressSimilarity(st.Address, p.Address)
			nameSim := Similarity(strings.ToLower(st.Name), strings.ToLower(p.Name))
			combined := addrSim*addrWeight + nameSim*nameWeight

			if combined > bestScore {
				bestScore = combined
				best = Match{
					StationName: st.Name,
					ParkID:      p.ParkID,
					ParkName:    p.Name,
					Method:      MethodAddress,
					Score:       combined,
					AddrScore:   addrSim,
					NameScore:   nameSim,
				}
			}
		}

		if bestScore >= threshold {
			matches = append(matches, best)
		}
	}
	return matches
}

// NormalizeAddress lowercases an address and collapses the common
// spelling variations so two sources write the same street the same
// way. Replacements are plain substring rewrites, applied in order.
func NormalizeAddress(addr string) string {
	if addr == "" {
		return ""
	}
	addr = strings.ToLower(strings.TrimSpace(addr))

	replacements := []struct{ old, new string }{
		{"road", "rd"},
		{"street", "st"},
		{"avenue", "ave"},
		{"building", "bldg"},
		{"centre", "center"},
		{"car park", "carpark"},
		{",", ""},
		{".", ""},
	}
	for _, r := range replacements {
		addr = strings.ReplaceAll(addr, r.old, r.new)
	}
	return strings.Join(strings.Fields(addr), " ")
}

// AddressSimilarity scores two addresses after normalization.
func AddressSimilarity(a, b string) float64 {
	return Similarity(NormalizeAddress(a), NormalizeAddress(b))
}

// Similarity is the Sorensen-Dice coefficient over rune bigrams,
// in [0, 1]. Identical strings score 1 even when too short to carry
// a bigram.
func Similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	ba := bigrams(a)
	bb := bigrams(b)
	if len(ba) == 0 || len(bb) == 0 {
		return 0
	}

	var common, totalA, totalB int
	for gram, na := range ba {
		totalA += na
		if nb, found := bb[gram]; found {
			common += min(na, nb)
		}
	}
	for _, nb := range bb {
		totalB += nb
	}
	return 2 * float64(common) / float64(totalA+totalB)
}

func bigrams(s string) map[string]int {
	runes := []rune(s)
	if len(runes) < 2 {
		return nil
	}
	grams := make(map[string]int, len(runes)-1)
	for i := 0; i < len(runes)-1; i++ {
		grams[string(runes[i:i+2])]++
	}
	return grams
}

// AggregateMatch is a station matched by at least one method. The
// coordinate assignment wins when methods disagree on the carpark.
type AggregateMatch struct {
	StationName string
	ParkID      string
	ParkName    string
	Methods     []string
	DistanceM   float64
	Score       float64
}

// Aggregate merges per-method results into unique station matches,
// sorted by method agreement then station name.
func Aggregate(coord, addr []Match) []AggregateMatch {
	byStation := make(map[string]*AggregateMatch)

	for _, m := range coord {
		byStation[m.StationName] = &AggregateMatch{
			StationName: m.StationName,
			ParkID:      m.ParkID,
			ParkName:    m.ParkName,
			Methods:     []string{MethodCoordinate},
			DistanceM:   m.DistanceM,
		}
	}

	for _, m := range addr {
		if agg, found := byStation[m.StationName]; found {
			agg.Methods = append(agg.Methods, MethodAddress)
			agg.Score = m.Score
			continue
		}
		byStation[m.StationName] = &AggregateMatch{
			StationName: m.StationName,
			ParkID:      m.ParkID,
			ParkName:    m.ParkName,
			Methods:     []string{MethodAddress},
			Score:       m.Score,
		}
	}

	out := make([]AggregateMatch, 0, len(byStation))
	for _, agg := range byStation {
		sort.Strings(agg.Methods)
		out = append(out, *agg)
	}
	sort.Slice(out, func(i, j int) bool {
		if len(out[i].Methods) != len(out[j].Methods) {
			return len(out[i].Methods) > len(out[j].Methods)
		}
		return out[i].StationName < out[j].StationName
	})
	return out
}

// Stats summarizes a matching run.
type Stats struct {
	Stations      int     `json:"stations"`
	Carparks      int     `json:"carparks"`
	CoordMatches  int     `json:"coordinate_matches"`
	AddrMatches   int     `json:"address_matches"`
	UniqueMatches int     `json:"unique_matches"`
	OverlapPct    float64 `json:"overlap_pct"`

	// Distance distribution of the coordinate matches.
	MeanDistanceM   float64 `json:"mean_distance_m"`
	StdDevDistanceM float64 `json:"std_dev_distance_m"`
	MedianDistanceM float64 `json:"median_distance_m"`
	P90DistanceM    float64 `json:"p90_distance_m"`

	MeanScore float64 `json:"mean_score"`

	// MethodCounts keys are sorted method names joined with "+",
	// e.g. "address+coordinate" for stations both methods found.
	MethodCounts map[string]int `json:"method_counts"`
}

// ComputeStats aggregates counts and distributions over a matching
// run.
func ComputeStats(stations []Station, parks []carpark.Carpark, coord, addr []Match, agg []AggregateMatch) Stats {
	s := Stats{
		Stations:      len(stations),
		Carparks:      len(parks),
		CoordMatches:  len(coord),
		AddrMatches:   len(addr),
		UniqueMatches: len(agg),
	}
	if len(stations) > 0 {
		s.OverlapPct = float64(len(agg)) / float64(len(stations)) * 100
	}

	if len(coord) > 0 {
		dists := make([]float64, len(coord))
		for i, m := range coord {
			dists[i] = m.DistanceM
		}
		sort.Float64s(dists)
		s.MeanDistanceM = stat.Mean(dists, nil)
		s.MedianDistanceM = stat.Quantile(0.5, stat.Empirical, dists, nil)
		s.P90DistanceM = stat.Quantile(0.9, stat.Empirical, dists, nil)
		if len(dists) > 1 {
			s.StdDevDistanceM = stat.StdDev(dists, nil)
		}
	}
	if len(addr) > 0 {
		scores := make([]float64, len(addr))
		for i, m := range addr {
			scores[i] = m.Score
		}
		s.MeanScore = stat.Mean(scores, nil)
	}

	if len(agg) > 0 {
		s.MethodCounts = make(map[string]int)
		for _, a := range agg {
			s.MethodCounts[strings.Join(a.Methods, "+")]++
		}
	}
	return s
}
