// Package gait produces the procedural stepping motion which is layered onto a
// limb's target. A phase accumulator is advanced at a rate which depends on the
// movement speed, and the phase is mapped onto a cycloid-ish step curve.
package gait

import (
	"math"

	"github.com/VuurMos/inverse-kinematics/math2d"
	"github.com/VuurMos/inverse-kinematics/utils"
)

const (
	// The phase (in degrees) after which the cycle starts over.
	cycleLength = 360.0

	// DefaultExponent is the power applied to the scaled speed. Anything below
	// one makes the step size saturate as the speed increases.
	DefaultExponent = 0.4

	// DefaultVelocityScale maps velocity (units/second) onto the pace curve.
	DefaultVelocityScale = 0.05
)

type Params struct {
	Enabled bool `mapstructure:"enabled"`

	// Speed is the number of degrees of phase advanced per tick at a pace of one.
	Speed float64 `mapstructure:"speed"`

	// StepSize is the horizontal stride and vertical lift of a step at a pace of
	// one.
	StepSize math2d.Vector2 `mapstructure:"step"`

	VelocityScale float64 `mapstructure:"velocity_scale"`
	Exponent      float64 `mapstructure:"exponent"`
}

// DefaultParams returns a gait which takes a full step roughly every half
// second when walking at 200 units/second at 60 ticks/second.
func DefaultParams() Params {
	return Params{
		Enabled:       true,
		Speed:         4,
		StepSize:      math2d.Vector2{X: 20, Y: 10},
		VelocityScale: DefaultVelocityScale,
		Exponent:      DefaultExponent,
	}
}

// Pace returns the (unitless) step rate for the given velocity. It's zero when
// standing still.
func (p Params) Pace(velocity math2d.Vector2) float64 {
	if velocity.Zero() {
		return 0
	}

	return math.Pow(velocity.Magnitude()*p.VelocityScale, p.Exponent)
}

// Oscillator holds the phase of the step cycle. It's owned by a single limb.
type Oscillator struct {
	phase float64
}

func NewOscillator() *Oscillator {
	return &Oscillator{}
}

// Phase returns the current phase of the cycle, in degrees.
func (o *Oscillator) Phase() float64 {
	return o.phase
}

// Reset puts the oscillator back at the start of the cycle.
func (o *Oscillator) Reset() {
	o.phase = 0
}

// Advance moves the phase forwards by the given number of ticks (which needn't
// be whole) at the pace implied by the velocity, and returns the offset which
// should be added to the target.
//
// Once the phase passes the end of the cycle it's reset to zero rather than
// wrapped, so a fast gait will skip the remainder. The offset is always zero at
// the start of the cycle. If the pace overflows, the phase is left alone and
// the offset is zero.
func (o *Oscillator) Advance(velocity math2d.Vector2, ticks float64, p Params) math2d.Vector2 {
	pace := p.Pace(velocity)

	// Overflowed, e.g. a huge velocity or exponent. Stand still rather than
	// poison the phase.
	if math.IsNaN(pace) || math.IsInf(pace, 0) {
		return math2d.ZeroVector2
	}

	o.phase += p.Speed * pace * ticks
	if o.phase > cycleLength {
		o.phase = 0
	}

	f := FrameAt(o.phase)

	// Only the component of the step along the direction of travel moves the
	// foot horizontally. Standing still has no direction, so no stride.
	dir := 0.0
	if u := velocity.Unit(); !u.Zero() {
		dir = math.Cos(u.Angle())
	}

	off := math2d.Vector2{
		X: p.StepSize.X * pace * f.X * dir,
		Y: p.StepSize.Y * pace * f.Y,
	}

	if !off.Finite() {
		return math2d.ZeroVector2
	}

	return off
}

// Frame is the unscaled position on the step curve.
type Frame struct {
	X float64
	Y float64
}

// FrameAt returns the point on the step curve at the given phase (degrees). The
// X component swings forwards and back, while Y lifts (negative) and returns to
// zero at the start of each cycle.
func FrameAt(phase float64) Frame {
	r := utils.Rad(phase)
	return Frame{
		X: math.Sin(r),
		Y: math.Cos(r) - 1,
	}
}
