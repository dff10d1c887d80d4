package ui

import (
	"math"

	"github.com/PlanLab/plancad/pkg/geom"
)

// Camera represents a viewport onto a floor plan. Plan coordinates are
// millimeters with Y increasing upward; screen coordinates are pixels with Y
// increasing downward, so the Y axis is always inverted.
type Camera struct {
	// Center position in world coordinates (mm)
	CenterX float64
	CenterY float64

	// Zoom level (pixels per mm). Higher values = more zoomed in.
	Zoom float64

	// Screen dimensions (pixels)
	ScreenWidth  int
	ScreenHeight int
}

// NewCamera creates a camera with default settings.
func NewCamera(screenWidth, screenHeight int) *Camera {
	return &Camera{
		Zoom:         0.1, // 0.1 px per mm shows a 10m span on a 1000px window
		ScreenWidth:  screenWidth,
		ScreenHeight: screenHeight,
	}
}

// WorldToScreen converts world coordinates (mm) to screen coordinates (pixels).
func (c *Camera) WorldToScreen(pos geom.Point) (float64, float64) {
	x := (pos.X - c.CenterX) * c.Zoom
	y := (pos.Y - c.CenterY) * c.Zoom

	x += float64(c.ScreenWidth) / 2.0
	y += float64(c.ScreenHeight) / 2.0

	// Flip Y: world up is screen up
	y = float64(c.ScreenHeight) - y

	return x, y
}

// ScreenToWorld converts screen coordinates (pixels) to world coordinates (mm).
func (c *Camera) ScreenToWorld(screenX, screenY float64) geom.Point {
	y := float64(c.ScreenHeight) - screenY

	x := screenX - float64(c.ScreenWidth)/2.0
	y = y - float64(c.ScreenHeight)/2.0

	x /= c.Zoom
	y /= c.Zoom

	return geom.Point{X: x + c.CenterX, Y: y + c.CenterY}
}

// Pan moves the camera by screen pixel offsets.
func (c *Camera) Pan(deltaX, deltaY float64) {
	c.CenterX -= deltaX / c.Zoom
	c.CenterY += deltaY / c.Zoom
}

// ZoomAt zooms in/out at a specific screen position.
// factor > 1 zooms in, factor < 1 zooms out.
func (c *Camera) ZoomAt(screenX, screenY, factor float64) {
	worldPos := c.ScreenToWorld(screenX, screenY)

	c.Zoom *= factor

	if c.Zoom < 0.005 {
		c.Zoom = 0.005
	}
	if c.Zoom > 10.0 {
		c.Zoom = 10.0
	}

	newWorldPos := c.ScreenToWorld(screenX, screenY)

	// Keep the point under the cursor stationary
	c.CenterX += worldPos.X - newWorldPos.X
	c.CenterY += worldPos.Y - newWorldPos.Y
}

// Fit adjusts the camera so the given world bounds fill the view with a
// small margin.
func (c *Camera) Fit(bb geom.BoundingBox) {
	if bb.IsEmpty() {
		return
	}
	width := bb.Width()
	height := bb.Height()
	if width <= 0 && height <= 0 {
		center := bb.Center()
		c.CenterX = center.X
		c.CenterY = center.Y
		return
	}

	zoomX := math.Inf(1)
	zoomY := math.Inf(1)
	if width > 0 {
		zoomX = float64(c.ScreenWidth) / width
	}
	if height > 0 {
		zoomY = float64(c.ScreenHeight) / height
	}
	c.Zoom = math.Min(zoomX, zoomY) * 0.9 // 10% margin
	if c.Zoom > 10.0 {
		c.Zoom = 10.0
	}

	center := bb.Center()
	c.CenterX = center.X
	c.CenterY = center.Y
}

// UpdateScreenSize updates the camera's screen dimensions.
func (c *Camera) UpdateScreenSize(width, height int) {
	c.ScreenWidth = width
	c.ScreenHeight = height
}

// VisibleBounds returns the world-space rectangle currently on screen.
func (c *Camera) VisibleBounds() geom.BoundingBox {
	bb := geom.NewBoundingBox()
	bb.Expand(c.ScreenToWorld(0, 0))
	bb.Expand(c.ScreenToWorld(float64(c.ScreenWidth), float64(c.ScreenHeight)))
	return bb
}
