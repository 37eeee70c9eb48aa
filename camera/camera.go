// Package camera provides the 2D map viewport: pan, zoom and compass
// rotation over the projected world plane.
package camera

import (
	"math"

	"github.com/pthm-cable/parkview/compass"
)

// Camera controls the viewport into the map world. The world is a flat
// plane in meters; the camera center is clamped to the world bounds.
type Camera struct {
	// Position is the camera center in world coordinates
	X, Y float32

	// Zoom level in screen pixels per world meter
	Zoom float32

	// Heading is the compass bearing pointing up on screen, in
	// degrees [0, 360). Use SetHeading to normalize arbitrary values.
	Heading float32

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float32

	// World dimensions (projected extent of the dataset)
	WorldW, WorldH float32

	// Zoom constraints
	MinZoom, MaxZoom float32
}

// New creates a camera centered on the world, zoomed to fit the whole
// world in the viewport, facing north.
func New(viewportW, viewportH, worldW, worldH float32) *Camera {
	fit := fitZoom(viewportW, viewportH, worldW, worldH)

	return &Camera{
		X:         worldW / 2,
		Y:         worldH / 2,
		Zoom:      fit,
		ViewportW: viewportW,
		ViewportH: viewportH,
		WorldW:    worldW,
		WorldH:    worldH,
		MinZoom:   fit * 0.5,
		MaxZoom:   8.0,
	}
}

// fitZoom returns the zoom at which the whole world fits the viewport.
func fitZoom(viewportW, viewportH, worldW, worldH float32) float32 {
	zx := viewportW / worldW
	zy := viewportH / worldH
	if zy < zx {
		return zy
	}
	return zx
}

// WorldToScreen converts world coordinates to screen coordinates,
// applying the camera rotation about the viewport center.
func (c *Camera) WorldToScreen(wx, wy float32) (sx, sy float32) {
	dx := wx - c.X
	dy := wy - c.Y

	// Rotate so the world direction matching Heading points up.
	sin, cos := sincosDeg(c.Heading)
	rx := dx*cos + dy*sin
	ry := -dx*sin + dy*cos

	sx = c.ViewportW/2 + rx*c.Zoom
	sy = c.ViewportH/2 + ry*c.Zoom
	return sx, sy
}

// ScreenToWorld converts screen coordinates to world coordinates.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wy float32) {
	rx := (sx - c.ViewportW/2) / c.Zoom
	ry := (sy - c.ViewportH/2) / c.Zoom

	sin, cos := sincosDeg(c.Heading)
	wx = c.X + rx*cos - ry*sin
	wy = c.Y + rx*sin + ry*cos
	return wx, wy
}

// IsVisible returns true if a circle at (wx, wy) with given radius
// could be visible on screen (conservative check for culling).
func (c *Camera) IsVisible(wx, wy, radius float32) bool {
	sx, sy := c.WorldToScreen(wx, wy)
	margin := radius * c.Zoom
	return sx >= -margin && sx <= c.ViewportW+margin &&
		sy >= -margin && sy <= c.ViewportH+margin
}

// Resize updates viewport dimensions and recalculates zoom constraints.
func (c *Camera) Resize(viewportW, viewportH float32) {
	if viewportW == c.ViewportW && viewportH == c.ViewportH {
		return
	}
	c.ViewportW = viewportW
	c.ViewportH = viewportH
	c.MinZoom = fitZoom(viewportW, viewportH, c.WorldW, c.WorldH) * 0.5
	if c.Zoom < c.MinZoom {
		c.Zoom = c.MinZoom
	}
}

// Pan moves the camera by the given delta in screen pixels. The delta
// follows the rotated view, so dragging tracks the screen axes at any
// heading. The center stays within the world bounds.
func (c *Camera) Pan(dx, dy float32) {
	sin, cos := sincosDeg(c.Heading)
	c.X += (dx*cos - dy*sin) / c.Zoom
	c.Y += (dx*sin + dy*cos) / c.Zoom
	c.clampCenter()
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float32) {
	c.SetZoom(c.Zoom * factor)
}

// ZoomAt zooms by factor while keeping the world point under the given
// screen position fixed.
func (c *Camera) ZoomAt(factor, sx, sy float32) {
	wx, wy := c.ScreenToWorld(sx, sy)
	c.SetZoom(c.Zoom * factor)
	nx, ny := c.ScreenToWorld(sx, sy)
	c.X += wx - nx
	c.Y += wy - ny
	c.clampCenter()
}

// SetHeading sets the compass heading, normalized to [0, 360).
// Rotation does not move the camera center.
func (c *Camera) SetHeading(deg float32) {
	c.Heading = float32(compass.Normalize(float64(deg)))
}

// Reset returns the camera to the default position and zoom. The
// heading is left alone; rotation is driven by the animator.
func (c *Camera) Reset() {
	c.X = c.WorldW / 2
	c.Y = c.WorldH / 2
	c.Zoom = fitZoom(c.ViewportW, c.ViewportH, c.WorldW, c.WorldH)
}

// clampCenter keeps the camera center inside the world bounds.
func (c *Camera) clampCenter() {
	c.X = clamp(c.X, 0, c.WorldW)
	c.Y = clamp(c.Y, 0, c.WorldH)
}

// sincosDeg returns sin and cos of an angle given in degrees.
func sincosDeg(deg float32) (sin, cos float32) {
	s, co := math.Sincos(float64(deg) * math.Pi / 180)
	return float32(s), float32(co)
}

// clamp restricts a value to a range.
func clamp(x, min, max float32) float32 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
