package math2d

import (
	"fmt"
	"math"
)

// epsilon is the magnitude below which a vector is treated as having no
// direction at all.
const epsilon = 1e-9

type Vector2 struct {
	X float64 `json:"x" mapstructure:"x"`
	Y float64 `json:"y" mapstructure:"y"`
}

var (
	ZeroVector2 = Vector2{}
)

// MakeVector2 returns a new Vector2.
func MakeVector2(x float64, y float64) Vector2 {
	return Vector2{x, y}
}

// Polar returns the vector of the given length pointing at angle (radians,
// counter-clockwise from the positive X axis).
func Polar(length float64, angle float64) Vector2 {
	return Vector2{length * math.Cos(angle), length * math.Sin(angle)}
}

func (v Vector2) String() string {
	return fmt.Sprintf("&Vec2{x=%0.2f y=%0.2f}", v.X, v.Y)
}

// Zero returns true if the vector is at 0,0.
func (v Vector2) Zero() bool {
	return (v.X == 0) && (v.Y == 0)
}

func (v Vector2) Add(vv Vector2) Vector2 {
	return Vector2{
		(v.X + vv.X),
		(v.Y + vv.Y),
	}
}

func (v Vector2) Subtract(vv Vector2) Vector2 {
	return Vector2{
		(v.X - vv.X),
		(v.Y - vv.Y),
	}
}

func (v Vector2) MultiplyByScalar(s float64) Vector2 {
	return Vector2{
		(v.X * s),
		(v.Y * s),
	}
}

// Magnitude returns the length of the vector.
func (v Vector2) Magnitude() float64 {
	return math.Hypot(v.X, v.Y)
}

// Distance calculates and returns the distance between this vector and another,
// as a float64.
func (v Vector2) Distance(vv Vector2) float64 {
	return math.Hypot(v.X-vv.X, v.Y-vv.Y)
}

// Unit returns a vector of length one in the same direction as this one. A
// (nearly) zero vector has no direction, so the zero vector is returned.
func (v Vector2) Unit() Vector2 {
	m := v.Magnitude()
	if m < epsilon {
		return ZeroVector2
	}

	return v.MultiplyByScalar(1 / m)
}

// Angle returns the direction of the vector in radians, in [-Pi, Pi]. The zero
// vector has an angle of zero.
func (v Vector2) Angle() float64 {
	return math.Atan2(v.Y, v.X)
}

// AngleToPoint returns the angle of the line from p to v. Note that this points
// back at v, so the direction from v towards p is (-cos, -sin) of the result.
func (v Vector2) AngleToPoint(p Vector2) float64 {
	return math.Atan2(v.Y-p.Y, v.X-p.X)
}

// Rotate returns the vector rotated counter-clockwise by the given angle in
// radians.
func (v Vector2) Rotate(angle float64) Vector2 {
	c := math.Cos(angle)
	s := math.Sin(angle)
	return Vector2{
		(v.X * c) - (v.Y * s),
		(v.X * s) + (v.Y * c),
	}
}

// Finite returns false if either component is NaN or infinite.
func (v Vector2) Finite() bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}
