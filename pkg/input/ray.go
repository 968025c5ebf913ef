package input

import (
	"math"

	"github.com/matzehuels/holopanel/pkg/geom"
)

// LookDirection returns the unit view vector for a yaw and pitch in degrees.
// Yaw 0 looks toward +Z, positive pitch looks down.
func LookDirection(yaw, pitch float64) geom.Vec3 {
	y, p := yaw*math.Pi/180, pitch*math.Pi/180
	return geom.Vec3{
		X: -math.Sin(y) * math.Cos(p),
		Y: -math.Sin(p),
		Z: math.Cos(y) * math.Cos(p),
	}
}

// Intersect returns where the ray from eye along dir hits the panel plane.
// It reports false when the ray is parallel to the plane or points away.
func Intersect(eye, dir geom.Vec3, proj geom.Projection) (geom.Vec3, bool) {
	n := proj.Normal()
	denom := dir.Dot(n)
	if math.Abs(denom) < 1e-9 {
		return geom.Vec3{}, false
	}
	t := proj.Origin.Sub(eye).Dot(n) / denom
	if t < 0 {
		return geom.Vec3{}, false
	}
	return eye.Add(dir.Scale(t)), true
}
