package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// OverlayID uniquely identifies an overlay.
type OverlayID string

// Standard overlay IDs.
const (
	OverlayDistrictColors OverlayID = "district_colors"
	OverlayLiveStatus     OverlayID = "live_status"
	OverlayCoverageRings  OverlayID = "coverage_rings"
	OverlayLabels         OverlayID = "labels"
	OverlayPerf           OverlayID = "perf"
)

// OverlayDescriptor defines an overlay that can be toggled.
type OverlayDescriptor struct {
	ID          OverlayID   // Unique identifier
	Name        string      // Display name
	Description string      // What this overlay shows
	Key         int32       // Keyboard key to toggle (0 = no key)
	KeyLabel    string      // Key label for display (e.g., "G", "V")
	Category    string      // Grouping (e.g., "markers", "map", "debug")
	Exclusive   []OverlayID // Other overlays to disable when this is enabled
	Default     bool        // Initial state
}

// OverlayRegistry manages overlay state and metadata.
type OverlayRegistry struct {
	descriptors []OverlayDescriptor
	byID        map[OverlayID]OverlayDescriptor
	enabled     map[OverlayID]bool
	order       []OverlayID // Maintains insertion order for display
}

// NewOverlayRegistry creates a registry with the viewer's overlays.
func NewOverlayRegistry() *OverlayRegistry {
	reg := &OverlayRegistry{
		byID:    make(map[OverlayID]OverlayDescriptor),
		enabled: make(map[OverlayID]bool),
	}
	reg.registerDefaults()
	return reg
}

// registerDefaults adds the standard overlays.
func (r *OverlayRegistry) registerDefaults() {
	// Marker overlays
	r.Register(OverlayDescriptor{
		ID:          OverlayDistrictColors,
		Name:        "District Colors",
		Description: "Color markers by district",
		Key:         rl.KeyG,
		KeyLabel:    "G",
		Category:    "markers",
		Exclusive:   []OverlayID{OverlayLiveStatus},
		Default:     true,
	})

	r.Register(OverlayDescriptor{
		ID:          OverlayLiveStatus,
		Name:        "Vacancy Colors",
		Description: "Color metered groups by live vacancy",
		Key:         rl.KeyV,
		KeyLabel:    "V",
		Category:    "markers",
		Exclusive:   []OverlayID{OverlayDistrictColors},
	})

	r.Register(OverlayDescriptor{
		ID:          OverlayCoverageRings,
		Name:        "Coverage Rings",
		Description: "Ring metered groups with live-data coverage",
		Key:         rl.KeyR,
		KeyLabel:    "R",
		Category:    "markers",
	})

	// Map overlays
	r.Register(OverlayDescriptor{
		ID:          OverlayLabels,
		Name:        "Labels",
		Description: "Show carpark names at close zoom",
		Key:         rl.KeyL,
		KeyLabel:    "L",
		Category:    "map",
		Default:     true,
	})

	// Debug overlays
	r.Register(OverlayDescriptor{
		ID:          OverlayPerf,
		Name:        "Frame Stats",
		Description: "Show frame timing panel",
		Key:         rl.KeyP,
		KeyLabel:    "P",
		Category:    "debug",
	})
}

// Register adds an overlay to the registry.
func (r *OverlayRegistry) Register(desc OverlayDescriptor) {
	r.descriptors = append(r.descriptors, desc)
	r.byID[desc.ID] = desc
	r.order = append(r.order, desc.ID)
	r.enabled[desc.ID] = desc.Default
}

// Toggle switches an overlay on/off and handles exclusivity.
func (r *OverlayRegistry) Toggle(id OverlayID) bool {
	desc, ok := r.byID[id]
	if !ok {
		return false
	}

	newState := !r.enabled[id]
	r.enabled[id] = newState

	// If enabling, disable exclusive overlays
	if newState {
		for _, excl := range desc.Exclusive {
			r.enabled[excl] = false
		}
	}

	return newState
}

// SetEnabled explicitly sets an overlay's state.
func (r *OverlayRegistry) SetEnabled(id OverlayID, enabled bool) {
	desc, ok := r.byID[id]
	if !ok {
		return
	}

	r.enabled[id] = enabled

	// If enabling, disable exclusive overlays
	if enabled {
		for _, excl := range desc.Exclusive {
			r.enabled[excl] = false
		}
	}
}

// IsEnabled returns whether an overlay is active.
func (r *OverlayRegistry) IsEnabled(id OverlayID) bool {
	return r.enabled[id]
}

// All returns all registered overlays in registration order.
func (r *OverlayRegistry) All() []OverlayDescriptor {
	return r.descriptors
}

// ByCategory returns overlays filtered by category.
func (r *OverlayRegistry) ByCategory(category string) []OverlayDescriptor {
	var result []OverlayDescriptor
	for _, desc := range r.descriptors {
		if desc.Category == category {
			result = append(result, desc)
		}
	}
	return result
}

// Categories returns all unique categories in order.
func (r *OverlayRegistry) Categories() []string {
	seen := make(map[string]bool)
	var cats []string
	for _, desc := range r.descriptors {
		if !seen[desc.Category] {
			seen[desc.Category] = true
			cats = append(cats, desc.Category)
		}
	}
	return cats
}

// EnabledOverlays returns a list of currently enabled overlay IDs.
func (r *OverlayRegistry) EnabledOverlays() []OverlayID {
	var result []OverlayID
	for _, id := range r.order {
		if r.enabled[id] {
			result = append(result, id)
		}
	}
	return result
}
