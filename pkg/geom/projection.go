package geom

import "math"

// Projection maps panel pixels onto a vertical plane in the world.
//
// The plane passes through Origin and faces the viewer whose yaw (degrees,
// 0 = looking toward +Z) is Yaw. Panel +X runs to the viewer's right, panel
// +Y runs up. PixelScale is the number of blocks per pixel.
type Projection struct {
	Origin     Vec3
	Yaw        float64
	PixelScale float64
}

// Right returns the world direction of panel +X.
func (p Projection) Right() Vec3 {
	rad := p.Yaw * math.Pi / 180
	// Viewer facing (-sin, 0, cos); right-hand side is (-cos, 0, -sin).
	return Vec3{-math.Cos(rad), 0, -math.Sin(rad)}
}

// Normal returns the plane normal pointing back toward the viewer.
func (p Projection) Normal() Vec3 {
	rad := p.Yaw * math.Pi / 180
	return Vec3{math.Sin(rad), 0, -math.Cos(rad)}
}

// ToWorld converts a panel point into world space.
func (p Projection) ToWorld(c Coordinates) Vec3 {
	return p.Origin.
		Add(p.Right().Scale(c.X * p.PixelScale)).
		Add(Vec3{0, c.Y * p.PixelScale, 0})
}

// ToPanel converts a world point into panel space, discarding depth.
func (p Projection) ToPanel(v Vec3) Coordinates {
	if p.PixelScale == 0 {
		return Coordinates{}
	}
	d := v.Sub(p.Origin)
	return Coordinates{
		X: d.Dot(p.Right()) / p.PixelScale,
		Y: d.Y / p.PixelScale,
	}
}
