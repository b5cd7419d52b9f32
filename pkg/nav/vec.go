package nav

import "math"

// Vec3 is a position or direction in 3-D world space.
// Angles elsewhere in this package are degrees; Vec3 components are world units.
type Vec3 struct {
	X float64 `json:"x" yaml:"x" bson:"x"`
	Y float64 `json:"y" yaml:"y" bson:"y"`
	Z float64 `json:"z" yaml:"z" bson:"z"`
}

// Add returns the component-wise sum v + o.
func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

// Sub returns the component-wise difference v - o.
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

// Dot returns the dot product of v and o.
func (v Vec3) Dot(o Vec3) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

// Len returns the Euclidean length of v.
func (v Vec3) Len() float64 { return math.Sqrt(v.Dot(v)) }

// Dist returns the Euclidean distance between a and b.
// This is the edge weight used by [Graph.ShortestPath].
func Dist(a, b Vec3) float64 { return a.Sub(b).Len() }

// NormalizeAngle wraps a into the [0,360) range.
// Negative inputs wrap upward: NormalizeAngle(-90) == 270.
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	return a
}

// clockwiseDelta returns the clockwise angular distance from angle `from`
// to angle `to`, in [0,360). A result of 90 means `to` lies 90° clockwise
// of `from`; 270 means it lies 90° counter-clockwise.
func clockwiseDelta(from, to float64) float64 {
	return NormalizeAngle(to - from)
}

// angleDiff returns the signed smallest difference between two angles,
// normalized into the [-180,180) comparison window.
func angleDiff(a, b float64) float64 {
	d := NormalizeAngle(a - b)
	if d >= 180 {
		d -= 360
	}
	return d
}
