package coverage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/parkview/carpark"
)

// makeGroup builds a group with total spaces of which the first
// tracked have an active meter in the returned feed records.
func makeGroup(id string, total, tracked int) (carpark.Group, []carpark.OccupancyRecord) {
	g := carpark.Group{ID: id, Name: id, District: "Test District"}
	var records []carpark.OccupancyRecord
	for i := 0; i < total; i++ {
		spaceID := fmt.Sprintf("%s-%d", id, i)
		g.Spaces = append(g.Spaces, carpark.Space{ID: spaceID})
		if i < tracked {
			records = append(records, carpark.OccupancyRecord{
				SpaceID:         spaceID,
				MeterStatus:     "N",
				OccupancyStatus: "V",
			})
		}
	}
	return g, records
}

func buildFixture() ([]carpark.Group, *carpark.OccupancySet) {
	var groups []carpark.Group
	var records []carpark.OccupancyRecord

	add := func(id string, total, tracked int) {
		g, recs := makeGroup(id, total, tracked)
		groups = append(groups, g)
		records = append(records, recs...)
	}

	add("FULL", 20, 20)    // 100%
	add("NEAR_FULL", 20, 19) // 95%
	add("HIGH", 20, 12)    // 60%
	add("PARTIAL", 20, 4)  // 20%
	add("UNTRACKED", 20, 0)
	add("SMALL", 4, 4) // below the size floor

	return groups, carpark.NewOccupancySet(records)
}

func TestBuildBands(t *testing.T) {
	groups, occ := buildFixture()
	r := Build(groups, occ, 10)

	if r.TotalGroups != 6 {
		t.Errorf("expected 6 total groups, got %d", r.TotalGroups)
	}
	if r.GroupsMinSpaces != 5 {
		t.Errorf("expected 5 groups above the size floor, got %d", r.GroupsMinSpaces)
	}
	if r.GroupsWithData != 4 {
		t.Errorf("expected 4 groups with data, got %d", r.GroupsWithData)
	}

	if r.FullCoverage != 2 {
		t.Errorf("expected 2 groups in the full band, got %d", r.FullCoverage)
	}
	if r.HighCoverage != 1 {
		t.Errorf("expected 1 group in the high band, got %d", r.HighCoverage)
	}
	if r.PartialCoverage != 1 {
		t.Errorf("expected 1 group in the partial band, got %d", r.PartialCoverage)
	}
	if r.ExactFullCoverage != 1 {
		t.Errorf("expected 1 group at exactly 100%%, got %d", r.ExactFullCoverage)
	}

	if r.TotalSpaces != 80 {
		t.Errorf("expected 80 spaces in tracked groups, got %d", r.TotalSpaces)
	}
	if r.TrackedSpaces != 55 {
		t.Errorf("expected 55 tracked spaces, got %d", r.TrackedSpaces)
	}
	wantPct := 55.0 / 80.0 * 100
	if math.Abs(r.OverallPct-wantPct) > 1e-9 {
		t.Errorf("expected overall pct %f, got %f", wantPct, r.OverallPct)
	}
}

func TestBuildRowOrder(t *testing.T) {
	groups, occ := buildFixture()
	r := Build(groups, occ, 10)

	if len(r.Rows) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(r.Rows))
	}

	// Sorted by tracked spaces descending
	wantOrder := []string{"FULL", "NEAR_FULL", "HIGH", "PARTIAL"}
	for i, want := range wantOrder {
		if r.Rows[i].CarparkID != want {
			t.Errorf("row %d: expected %s, got %s", i, want, r.Rows[i].CarparkID)
		}
	}

	top := r.Top(2)
	if len(top) != 2 || top[0].CarparkID != "FULL" {
		t.Errorf("unexpected top rows: %+v", top)
	}
	if got := r.Top(100); len(got) != 4 {
		t.Errorf("oversized Top should return all rows, got %d", len(got))
	}
}

func TestBuildEmpty(t *testing.T) {
	r := Build(nil, nil, 10)

	if r.TotalGroups != 0 || r.GroupsWithData != 0 {
		t.Errorf("expected empty report, got %+v", r)
	}
	if r.OverallPct != 0 {
		t.Errorf("expected zero overall pct, got %f", r.OverallPct)
	}
	if r.SizeStats != (SizeStats{}) {
		t.Errorf("expected zero size stats, got %+v", r.SizeStats)
	}
}

func TestSizeStats(t *testing.T) {
	var groups []carpark.Group
	for i, size := range []int{15, 3, 40, 12, 20} {
		g, _ := makeGroup(fmt.Sprintf("G%d", i), size, 0)
		groups = append(groups, g)
	}

	r := Build(groups, nil, 10)

	if r.SizeStats.Min != 3 || r.SizeStats.Max != 40 {
		t.Errorf("size range mismatch: got [%f, %f]", r.SizeStats.Min, r.SizeStats.Max)
	}
	if r.SizeStats.P25 != 12 {
		t.Errorf("expected p25 of 12, got %f", r.SizeStats.P25)
	}
	if r.SizeStats.Median != 15 {
		t.Errorf("expected median of 15, got %f", r.SizeStats.Median)
	}
	if r.SizeStats.P75 != 20 {
		t.Errorf("expected p75 of 20, got %f", r.SizeStats.P75)
	}
}

func TestWriteCSV(t *testing.T) {
	groups, occ := buildFixture()
	r := Build(groups, occ, 10)

	var buf bytes.Buffer
	if err := r.WriteCSV(&buf); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected header plus 4 rows, got %d lines", len(lines))
	}
	if lines[0] != "carpark_id,name,district,total_spaces,tracked_spaces,coverage_pct" {
		t.Errorf("unexpected header: %s", lines[0])
	}
	if !strings.HasPrefix(lines[1], "FULL,FULL,Test District,20,20,100") {
		t.Errorf("unexpected first row: %s", lines[1])
	}
}

func TestWriteSummaryJSON(t *testing.T) {
	groups, occ := buildFixture()
	r := Build(groups, occ, 10)

	path := filepath.Join(t.TempDir(), "coverage-summary.json")
	if err := r.WriteSummaryJSON(path); err != nil {
		t.Fatalf("WriteSummaryJSON failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading summary: %v", err)
	}

	var s Summary
	if err := json.Unmarshal(data, &s); err != nil {
		t.Fatalf("parsing summary: %v", err)
	}

	if s.TotalGroups != 6 || s.GroupsWithData != 4 {
		t.Errorf("summary counts mismatch: %+v", s)
	}
	if s.OverallPct != 68.75 {
		t.Errorf("expected overall pct 68.75, got %f", s.OverallPct)
	}
}
