package viewer

import "github.com/pthm-cable/parkview/camera"

// mapSurface adapts the map camera to the compass animator. The
// camera pointer is swapped on dataset reloads, so the animator always
// drives the live view.
type mapSurface struct {
	cam *camera.Camera
}

// Heading returns the camera heading in degrees. Not ok while no
// camera is attached.
func (s *mapSurface) Heading() (float64, bool) {
	if s.cam == nil {
		return 0, false
	}
	return float64(s.cam.Heading), true
}

// SetHeading rotates the view. The camera normalizes the value.
func (s *mapSurface) SetHeading(deg float64) {
	if s.cam == nil {
		return
	}
	s.cam.SetHeading(float32(deg))
}
