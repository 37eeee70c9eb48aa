// Package config provides configuration loading and access for the
// viewer.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all viewer configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Map       MapConfig       `yaml:"map"`
	Camera    CameraConfig    `yaml:"camera"`
	Animation AnimationConfig `yaml:"animation"`
	Data      DataConfig      `yaml:"data"`
	Coverage  CoverageConfig  `yaml:"coverage"`
	Match     MatchConfig     `yaml:"match"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// MapConfig holds map layout parameters.
type MapConfig struct {
	PaddingM            float64 `yaml:"padding_m"`              // Margin around the dataset bounds in meters
	MarkerRadiusPx      float64 `yaml:"marker_radius_px"`       // Carpark marker base radius
	GroupMarkerRadiusPx float64 `yaml:"group_marker_radius_px"` // Metered group marker base radius
}

// CameraConfig holds camera input parameters.
type CameraConfig struct {
	PanSpeed       float64 `yaml:"pan_speed"`        // Keyboard pan speed in px/sec
	ZoomStep       float64 `yaml:"zoom_step"`        // Zoom multiplier per wheel notch
	BearingStepDeg float64 `yaml:"bearing_step_deg"` // Heading change per rotate key press
}

// AnimationConfig holds heading animation parameters.
type AnimationConfig struct {
	DurationMs  int     `yaml:"duration_ms"`   // Rotation tween length
	MinDeltaDeg float64 `yaml:"min_delta_deg"` // Snap threshold; smaller turns skip the tween
}

// DataConfig holds dataset file paths.
type DataConfig struct {
	Carparks  string `yaml:"carparks"`  // Carparks CSV export
	Spaces    string `yaml:"spaces"`    // Metered parking geojson
	Occupancy string `yaml:"occupancy"` // Live feed CSV snapshot (empty = no live data)
}

// CoverageConfig holds coverage analysis parameters.
type CoverageConfig struct {
	MinSpaces int `yaml:"min_spaces"` // Smallest group size worth reporting
}

// MatchConfig holds carpark matching parameters.
type MatchConfig struct {
	MaxDistanceM        float64 `yaml:"max_distance_m"`       // Coordinate match radius
	SimilarityThreshold float64 `yaml:"similarity_threshold"` // Combined score floor for address matches
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	FramesWindow int `yaml:"frames_window"` // Frames per stats window
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	ScreenW32    float32       // Screen.Width as float32
	ScreenH32    float32       // Screen.Height as float32
	AnimDuration time.Duration // Animation.DurationMs as a duration
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	// Compute derived values
	cfg.computeDerived()

	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)
	c.Derived.AnimDuration = time.Duration(c.Animation.DurationMs) * time.Millisecond
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
