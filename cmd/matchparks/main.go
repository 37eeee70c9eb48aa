// Package main matches a metered station list against the carparks
// dataset by coordinate proximity and address similarity, and writes
// the per-method, merged, and unmatched results.
package main

import (
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/parkview/carpark"
	"github.com/pthm-cable/parkview/config"
	"github.com/pthm-cable/parkview/match"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Config YAML file (empty = use defaults)")
	carparksPath := flag.String("carparks", "", "Carparks CSV (empty = config value)")
	stationsPath := flag.String("stations", "", "Stations CSV to match")
	outputDir := flag.String("output", "", "Output directory for results")
	maxDistance := flag.Float64("max-distance", 0, "Coordinate match radius in meters (0 = config value)")
	threshold := flag.Float64("threshold", 0, "Address similarity threshold (0 = config value)")
	flag.Parse()

	if *stationsPath == "" {
		log.Fatal("--stations is required")
	}
	if *outputDir == "" {
		log.Fatal("--output is required")
	}

	// Create output directory
	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	// Load config for defaults
	if err := config.Init(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg := config.Cfg()

	parksFile := *carparksPath
	if parksFile == "" {
		parksFile = cfg.Data.Carparks
	}
	maxDist := *maxDistance
	if maxDist == 0 {
		maxDist = cfg.Match.MaxDistanceM
	}
	simThreshold := *threshold
	if simThreshold == 0 {
		simThreshold = cfg.Match.SimilarityThreshold
	}

	// Load datasets
	parks, err := carpark.LoadCSV(parksFile)
	if err != nil {
		log.Fatalf("failed to load carparks: %v", err)
	}
	stations, err := match.LoadStations(*stationsPath)
	if err != nil {
		log.Fatalf("failed to load stations: %v", err)
	}

	fmt.Printf("Matching %d stations against %d carparks (radius=%.0fm, threshold=%.2f)\n",
		len(stations), len(parks), maxDist, simThreshold)

	// Run both methods and merge
	coord := match.ByCoordinate(stations, parks, maxDist)
	addr := match.ByAddress(stations, parks, simThreshold)
	agg := match.Aggregate(coord, addr)
	stats := match.ComputeStats(stations, parks, coord, addr, agg)

	fmt.Printf("Coordinate matches: %d, address matches: %d\n", len(coord), len(addr))
	fmt.Printf("Unique matched stations: %d of %d (%.1f%%)\n", len(agg), len(stations), stats.OverlapPct)
	if stats.CoordMatches > 0 {
		fmt.Printf("Distance: mean=%.1fm stddev=%.1fm median=%.1fm p90=%.1fm\n",
			stats.MeanDistanceM, stats.StdDevDistanceM, stats.MedianDistanceM, stats.P90DistanceM)
	}

	// Print method combinations in a stable order
	combos := make([]string, 0, len(stats.MethodCounts))
	for combo := range stats.MethodCounts {
		combos = append(combos, combo)
	}
	sort.Strings(combos)
	for _, combo := range combos {
		fmt.Printf("  %s: %d\n", combo, stats.MethodCounts[combo])
	}

	// Per-method match CSVs
	if err := writeCSV(filepath.Join(*outputDir, "coordinate_matches.csv"), coord); err != nil {
		log.Fatalf("failed to write coordinate matches: %v", err)
	}
	if err := writeCSV(filepath.Join(*outputDir, "address_matches.csv"), addr); err != nil {
		log.Fatalf("failed to write address matches: %v", err)
	}

	// Merged matches
	if err := writeAggregated(filepath.Join(*outputDir, "matches.csv"), agg); err != nil {
		log.Fatalf("failed to write merged matches: %v", err)
	}

	// Stations neither method could place
	matched := make(map[string]bool, len(agg))
	for _, m := range agg {
		matched[m.StationName] = true
	}
	unmatched := make([]match.Station, 0)
	for _, st := range stations {
		if !matched[st.Name] {
			unmatched = append(unmatched, st)
		}
	}
	if err := writeCSV(filepath.Join(*outputDir, "unmatched_stations.csv"), unmatched); err != nil {
		log.Fatalf("failed to write unmatched stations: %v", err)
	}

	// Save stats
	statsPath := filepath.Join(*outputDir, "stats.json")
	data, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		log.Fatalf("failed to marshal stats: %v", err)
	}
	if err := os.WriteFile(statsPath, data, 0644); err != nil {
		log.Fatalf("failed to write stats: %v", err)
	}

	fmt.Printf("\nResults written to %s (%d unmatched stations)\n", *outputDir, len(unmatched))
}

// writeCSV writes records with gocsv struct-tag headers.
func writeCSV(path string, records any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gocsv.Marshal(records, f)
}

// writeAggregated writes the merged matches with the method set joined
// into a single column.
func writeAggregated(path string, agg []match.AggregateMatch) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	w.Write([]string{"station_name", "park_id", "park_name", "methods", "distance_m", "score"})
	for _, m := range agg {
		w.Write([]string{
			m.StationName,
			m.ParkID,
			m.ParkName,
			strings.Join(m.Methods, "+"),
			fmt.Sprintf("%.1f", m.DistanceM),
			fmt.Sprintf("%.3f", m.Score),
		})
	}
	w.Flush()
	return w.Error()
}
