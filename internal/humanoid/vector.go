// internal/humanoid/vector.go
package humanoid

import "math"

// Point is a position (or offset) in screen pixel space. Sub-pixel values
// are kept until the moment a sample is emitted to the device.
type Point struct {
	X float64
	Y float64
}

// Pt is a shorthand constructor for integer screen coordinates.
func Pt(x, y int) Point {
	return Point{X: float64(x), Y: float64(y)}
}

// Add returns p + other.
func (p Point) Add(other Point) Point {
	return Point{X: p.X + other.X, Y: p.Y + other.Y}
}

// Sub returns p - other.
func (p Point) Sub(other Point) Point {
	return Point{X: p.X - other.X, Y: p.Y - other.Y}
}

// Mul scales both components.
func (p Point) Mul(scalar float64) Point {
	return Point{X: p.X * scalar, Y: p.Y * scalar}
}

// Lerp interpolates linearly from p toward other; t=0 is p, t=1 is other.
func (p Point) Lerp(other Point, t float64) Point {
	return p.Add(other.Sub(p).Mul(t))
}

// Dist is the Euclidean distance between two points.
func (p Point) Dist(other Point) float64 {
	return math.Hypot(p.X-other.X, p.Y-other.Y)
}

// Round snaps the point to the nearest integer pixel.
func (p Point) Round() (int, int) {
	return int(math.Round(p.X)), int(math.Round(p.Y))
}
