package mobject

import "math"

// PathFunc returns the position between a and b at alpha along some path.
type PathFunc func(a, b Point, alpha float64) Point

// StraightPath moves points along the segment from a to b.
func StraightPath(a, b Point, alpha float64) Point {
	return Point{lerp(a.X, b.X, alpha), lerp(a.Y, b.Y, alpha)}
}

// ArcPath returns a PathFunc moving points along a circular arc subtending
// angle radians. Positive angles turn counterclockwise.
func ArcPath(angle float64) PathFunc {
	if math.Abs(angle) < 1e-6 {
		return StraightPath
	}
	return func(a, b Point, alpha float64) Point {
		v := b.Sub(a)
		center := a.Add(v.Mul(0.5))
		if math.Abs(math.Abs(angle)-math.Pi) > 1e-9 {
			// Perpendicular offset from the chord midpoint to the arc centre.
			center = center.Add(Point{-v.Y / 2, v.X / 2}.Mul(1 / math.Tan(angle/2)))
		}
		sin, cos := math.Sincos(alpha * angle)
		d := a.Sub(center)
		return center.Add(Point{d.X*cos - d.Y*sin, d.X*sin + d.Y*cos})
	}
}
