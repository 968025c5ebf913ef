package input

import (
	"math"

	"github.com/matzehuels/holopanel/pkg/geom"
)

// Cursor turns look angles into a panel coordinate. Turning right moves the
// cursor right and looking down moves it down, Sensitivity pixels per degree,
// relative to the pose captured by the last Calibrate.
type Cursor struct {
	Sensitivity float64

	yaw, pitch float64
	pos        geom.Coordinates
}

// Calibrate makes the given pose the panel center.
func (c *Cursor) Calibrate(yaw, pitch float64) {
	c.yaw, c.pitch = yaw, pitch
	c.pos = geom.Coordinates{}
}

// Look moves the cursor to the given pose and returns its position.
func (c *Cursor) Look(yaw, pitch float64) geom.Coordinates {
	c.pos = geom.Coordinates{
		X: wrapDegrees(yaw-c.yaw) * c.Sensitivity,
		Y: (c.pitch - pitch) * c.Sensitivity,
	}
	return c.pos
}

// Position returns the last synthesized position.
func (c *Cursor) Position() geom.Coordinates { return c.pos }

// wrapDegrees maps an angle difference into [-180, 180).
func wrapDegrees(d float64) float64 {
	d = math.Mod(d+180, 360)
	if d < 0 {
		d += 360
	}
	return d - 180
}
