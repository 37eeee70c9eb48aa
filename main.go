package main

import (
	"flag"
	"log/slog"
	"os"
	"path/filepath"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/parkview/carpark"
	"github.com/pthm-cable/parkview/config"
	"github.com/pthm-cable/parkview/coverage"
	"github.com/pthm-cable/parkview/telemetry"
	"github.com/pthm-cable/parkview/viewer"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	carparksPath := flag.String("carparks", "", "Carparks CSV (overrides config)")
	spacesPath := flag.String("spaces", "", "Metered spaces GeoJSON (overrides config)")
	occupancyPath := flag.String("occupancy", "", "Live occupancy CSV (overrides config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	headless := flag.Bool("headless", false, "Run the coverage report without graphics and exit")
	logStats := flag.Bool("log-stats", false, "Output frame stats via slog")
	writeConfig := flag.String("write-config", "", "Write the effective config to a file and exit")

	flag.Parse()

	// Set up slog (JSON output for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	// CLI data paths override the config
	if *carparksPath != "" {
		cfg.Data.Carparks = *carparksPath
	}
	if *spacesPath != "" {
		cfg.Data.Spaces = *spacesPath
	}
	if *occupancyPath != "" {
		cfg.Data.Occupancy = *occupancyPath
	}

	if *writeConfig != "" {
		if err := cfg.WriteYAML(*writeConfig); err != nil {
			slog.Error("failed to write config", "error", err)
			os.Exit(1)
		}
		slog.Info("config written", "path", *writeConfig)
		return
	}

	om, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		slog.Error("failed to create output directory", "error", err)
		os.Exit(1)
	}
	defer om.Close()

	if err := om.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config snapshot", "error", err)
	}

	parks, groups, occ := loadDatasets(cfg)

	if *headless {
		runHeadless(cfg, groups, occ, om)
		return
	}

	// Graphical mode
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Parkview")
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))
	rl.SetExitKey(0) // Esc clears the selection instead of quitting

	v := viewer.New(viewer.Options{
		Carparks:  parks,
		Groups:    groups,
		Occupancy: occ,
		Source:    filepath.Base(cfg.Data.Carparks),
		Output:    om,
		LogStats:  *logStats,
	})
	defer v.Unload()

	for !rl.WindowShouldClose() {
		v.Update()
		v.Draw()
	}
}

// loadDatasets reads the configured data files. Carparks are required;
// metered spaces and the live feed are optional.
func loadDatasets(cfg *config.Config) ([]carpark.Carpark, []carpark.Group, *carpark.OccupancySet) {
	parks, err := carpark.LoadCSV(cfg.Data.Carparks)
	if err != nil {
		slog.Error("failed to load carparks", "path", cfg.Data.Carparks, "error", err)
		os.Exit(1)
	}

	var groups []carpark.Group
	if cfg.Data.Spaces != "" {
		spaces, err := carpark.LoadSpaces(cfg.Data.Spaces)
		if err != nil {
			slog.Error("failed to load metered spaces", "path", cfg.Data.Spaces, "error", err)
			os.Exit(1)
		}
		groups = carpark.GroupSpaces(spaces)
	}

	var occ *carpark.OccupancySet
	if cfg.Data.Occupancy != "" {
		occ, err = carpark.LoadOccupancy(cfg.Data.Occupancy)
		if err != nil {
			slog.Error("failed to load occupancy feed", "path", cfg.Data.Occupancy, "error", err)
			os.Exit(1)
		}
	}

	slog.Info("datasets loaded",
		"carparks", len(parks),
		"groups", len(groups),
		"tracked_spaces", occ.TrackedCount(),
	)
	return parks, groups, occ
}

// runHeadless builds the live-data coverage report and exits.
func runHeadless(cfg *config.Config, groups []carpark.Group, occ *carpark.OccupancySet, om *telemetry.OutputManager) {
	if len(groups) == 0 {
		slog.Error("coverage report needs metered spaces data")
		os.Exit(1)
	}

	report := coverage.Build(groups, occ, cfg.Coverage.MinSpaces)
	slog.Info("coverage report", "report", report)

	for _, row := range report.Top(10) {
		slog.Info("top coverage group",
			"id", row.CarparkID,
			"name", row.Name,
			"district", row.District,
			"spaces", row.TotalSpaces,
			"tracked", row.TrackedSpaces,
			"coverage_pct", row.CoveragePct,
		)
	}

	if err := om.WriteCoverage(report); err != nil {
		slog.Error("failed to write coverage report", "error", err)
		os.Exit(1)
	}
	if om.Dir() != "" {
		slog.Info("coverage written", "dir", om.Dir())
	}
}
