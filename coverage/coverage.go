// Package coverage reports how well the live meter feed covers the
// metered parking groups.
package coverage

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"sort"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/parkview/carpark"
)

// Coverage bands in percent of spaces tracked.
const (
	BandFullPct = 90
	BandHighPct = 50
)

// Row is the per-group coverage record written to coverage.csv.
type Row struct {
	CarparkID     string  `csv:"carpark_id"`
	Name          string  `csv:"name"`
	District      string  `csv:"district"`
	TotalSpaces   int     `csv:"total_spaces"`
	TrackedSpaces int     `csv:"tracked_spaces"`
	CoveragePct   float64 `csv:"coverage_pct"`
}

// SizeStats summarizes the group size distribution across all groups,
// before any filtering.
type SizeStats struct {
	Min    float64 `json:"min"`
	P25    float64 `json:"p25"`
	Median float64 `json:"median"`
	P75    float64 `json:"p75"`
	Max    float64 `json:"max"`
}

// Report is a coverage analysis of the metered groups against one
// occupancy feed snapshot.
type Report struct {
	MinSpaces int

	// Groups at or above MinSpaces with at least one tracked space,
	// sorted by tracked spaces descending.
	Rows []Row

	TotalGroups     int
	GroupsMinSpaces int
	GroupsWithData  int

	// Band counts over GroupsWithData. Exact full coverage is a
	// subset of the full band.
	FullCoverage      int
	HighCoverage      int
	PartialCoverage   int
	ExactFullCoverage int

	// Space totals over GroupsWithData.
	TotalSpaces   int
	TrackedSpaces int
	OverallPct    float64

	SizeStats SizeStats
}

// Build runs the coverage analysis. Groups smaller than minSpaces are
// counted but produce no rows.
func Build(groups []carpark.Group, occ *carpark.OccupancySet, minSpaces int) *Report {
	r := &Report{
		MinSpaces:   minSpaces,
		TotalGroups: len(groups),
	}

	sizes := make([]float64, 0, len(groups))
	for _, g := range groups {
		sizes = append(sizes, float64(len(g.Spaces)))

		if len(g.Spaces) < minSpaces {
			continue
		}
		r.GroupsMinSpaces++

		st := g.Status(occ)
		if st.Tracked == 0 {
			continue
		}
		r.GroupsWithData++

		pct := float64(st.Tracked) / float64(len(g.Spaces)) * 100
		r.Rows = append(r.Rows, Row{
			CarparkID:     g.ID,
			Name:          g.Name,
			District:      g.District,
			TotalSpaces:   len(g.Spaces),
			TrackedSpaces: st.Tracked,
			CoveragePct:   pct,
		})

		switch {
		case pct >= BandFullPct:
			r.FullCoverage++
		case pct >= BandHighPct:
			r.HighCoverage++
		default:
			r.PartialCoverage++
		}
		if pct == 100 {
			r.ExactFullCoverage++
		}

		r.TotalSpaces += len(g.Spaces)
		r.TrackedSpaces += st.Tracked
	}

	sort.Slice(r.Rows, func(i, j int) bool {
		if r.Rows[i].TrackedSpaces != r.Rows[j].TrackedSpaces {
			return r.Rows[i].TrackedSpaces > r.Rows[j].TrackedSpaces
		}
		return r.Rows[i].CarparkID < r.Rows[j].CarparkID
	})

	if r.TotalSpaces > 0 {
		r.OverallPct = float64(r.TrackedSpaces) / float64(r.TotalSpaces) * 100
	}
	r.SizeStats = computeSizeStats(sizes)
	return r
}

func computeSizeStats(sizes []float64) SizeStats {
	if len(sizes) == 0 {
		return SizeStats{}
	}
	sorted := make([]float64, len(sizes))
	copy(sorted, sizes)
	sort.Float64s(sorted)

	return SizeStats{
		Min:    sorted[0],
		P25:    stat.Quantile(0.25, stat.Empirical, sorted, nil),
		Median: stat.Quantile(0.50, stat.Empirical, sorted, nil),
		P75:    stat.Quantile(0.75, stat.Empirical, sorted, nil),
		Max:    sorted[len(sorted)-1],
	}
}

// Top returns up to n rows with the most tracked spaces.
func (r *Report) Top(n int) []Row {
	if n > len(r.Rows) {
		n = len(r.Rows)
	}
	return r.Rows[:n]
}

// WriteCSV writes the per-group rows with a header.
func (r *Report) WriteCSV(w io.Writer) error {
	if err := gocsv.Marshal(r.Rows, w); err != nil {
		return fmt.Errorf("writing coverage rows: %w", err)
	}
	return nil
}

// Summary is the aggregate result saved as JSON for later runs to
// compare against.
type Summary struct {
	TotalGroups       int       `json:"total_carpark_groups"`
	GroupsMinSpaces   int       `json:"carparks_min_spaces"`
	GroupsWithData    int       `json:"carparks_with_realtime"`
	FullCoverage      int       `json:"carparks_90plus_coverage"`
	ExactFullCoverage int       `json:"carparks_100_coverage"`
	TotalSpaces       int       `json:"total_spaces_in_tracked_carparks"`
	TrackedSpaces     int       `json:"total_tracked_spaces"`
	OverallPct        float64   `json:"overall_coverage_pct"`
	SizeStats         SizeStats `json:"group_size_stats"`
}

// Summary returns the aggregate counts with the overall percentage
// rounded to two decimals.
func (r *Report) Summary() Summary {
	return Summary{
		TotalGroups:       r.TotalGroups,
		GroupsMinSpaces:   r.GroupsMinSpaces,
		GroupsWithData:    r.GroupsWithData,
		FullCoverage:      r.FullCoverage,
		ExactFullCoverage: r.ExactFullCoverage,
		TotalSpaces:       r.TotalSpaces,
		TrackedSpaces:     r.TrackedSpaces,
		OverallPct:        math.Round(r.OverallPct*100) / 100,
		SizeStats:         r.SizeStats,
	}
}

// WriteSummaryJSON saves the summary to path.
func (r *Report) WriteSummaryJSON(path string) error {
	data, err := json.MarshalIndent(r.Summary(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling coverage summary: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing coverage summary: %w", err)
	}
	return nil
}

// LogValue implements slog.LogValuer for structured logging.
func (r *Report) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("total_groups", r.TotalGroups),
		slog.Int("groups_min_spaces", r.GroupsMinSpaces),
		slog.Int("groups_with_data", r.GroupsWithData),
		slog.Int("full_coverage", r.FullCoverage),
		slog.Int("high_coverage", r.HighCoverage),
		slog.Int("partial_coverage", r.PartialCoverage),
		slog.Int("exact_full_coverage", r.ExactFullCoverage),
		slog.Int("total_spaces", r.TotalSpaces),
		slog.Int("tracked_spaces", r.TrackedSpaces),
		slog.Float64("overall_pct", r.OverallPct),
	)
}
