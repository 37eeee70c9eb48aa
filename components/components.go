// Package components defines ECS components for the map viewer.
package components

// Position is a marker's world position in meters.
type Position struct {
	X, Y float32
}

// SpotKind distinguishes what a marker stands for.
type SpotKind uint8

const (
	// KindCarpark is an off-street carpark from the vacancy dataset.
	KindCarpark SpotKind = iota
	// KindMeteredGroup is a cluster of on-street metered spaces.
	KindMeteredGroup
)

// Spot carries the dataset identity behind a marker.
type Spot struct {
	Kind     SpotKind
	ID       string
	Name     string
	District string
	Address  string

	// Member space count for metered groups, zero for carparks.
	Spaces int

	Latitude  float64
	Longitude float64
}

// Marker holds per-marker render state.
type Marker struct {
	// Base draw radius in pixels at 1x zoom.
	Radius   float32
	Selected bool
}

// LiveStatus is the occupancy rollup for a metered group marker.
type LiveStatus struct {
	Tracked int
	Vacant  int
}

// Pulse drives the highlight ring animation on the selected marker.
type Pulse struct {
	// Seconds since the pulse started.
	Phase float32
}
