// Package ik computes the pose of a two-segment limb (a leg or an arm) every
// tick: the target is perturbed by a procedural gait, clamped to what the limb
// can reach, solved analytically, and optionally foreshortened to fake depth.
package ik

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/VuurMos/inverse-kinematics/depth"
	"github.com/VuurMos/inverse-kinematics/gait"
	"github.com/VuurMos/inverse-kinematics/math2d"
	"github.com/VuurMos/inverse-kinematics/reach"
	"github.com/sirupsen/logrus"
)

// FixedTick is the duration of one tick, for hosts which don't report the
// elapsed time. The gait advances by one step per FixedTick.
const FixedTick = time.Second / 60

var (
	ErrInvalidLength = errors.New("segment lengths must be positive")
	ErrInvalidReach  = errors.New("min reach must be in [0, max reach)")
	ErrInvalidFlip   = errors.New("flip must be +1 or -1")
	ErrInvalidGait   = errors.New("invalid gait parameters")
)

var log = logrus.WithFields(logrus.Fields{
	"pkg": "ik",
})

// Config is the static description of a limb. It's copied into the limb at
// construction; build a new limb to change it.
type Config struct {

	// Length of the segment nearest the end (e.g. the calf).
	NearLength float64

	// Length of the segment nearest the anchor (e.g. the thigh).
	FarLength float64

	// The end is never pulled closer to the anchor than this.
	MinReach float64

	// Flip selects which of the two possible joint positions is used, i.e.
	// which way the knee bends. Must be +1 or -1.
	Flip int

	// Depth enables the fake foreshortening of the joint.
	Depth bool

	Gait gait.Params
}

// DefaultConfig returns a leg with a 120 thigh and 100 calf, which steps when
// moving. It can fold until the end is 20 from the anchor, which is as close
// as the segments allow.
func DefaultConfig() Config {
	return Config{
		NearLength: 100,
		FarLength:  120,
		MinReach:   20,
		Flip:       1,
		Gait:       gait.DefaultParams(),
	}
}

// MaxReach is the distance from the anchor to the end when the limb is fully
// extended.
func (c Config) MaxReach() float64 {
	return c.NearLength + c.FarLength
}

func (c Config) params() reach.Params {
	return reach.Params{
		Near:     c.NearLength,
		Far:      c.FarLength,
		MinReach: c.MinReach,
		Flip:     float64(c.Flip),
	}
}

// Validate returns an error if the config can't describe a limb.
func (c Config) Validate() error {
	if !(c.NearLength > 0) || !(c.FarLength > 0) || math.IsInf(c.MaxReach(), 0) {
		return fmt.Errorf("%w: near=%v, far=%v", ErrInvalidLength, c.NearLength, c.FarLength)
	}

	if !(c.MinReach >= 0) || c.MinReach >= c.MaxReach() {
		return fmt.Errorf("%w: min=%v, max=%v", ErrInvalidReach, c.MinReach, c.MaxReach())
	}

	if c.Flip != 1 && c.Flip != -1 {
		return fmt.Errorf("%w: %d", ErrInvalidFlip, c.Flip)
	}

	if c.Gait.Enabled {
		g := c.Gait
		if math.IsNaN(g.Speed) || g.Speed < 0 || g.VelocityScale < 0 || !(g.Exponent > 0) {
			return fmt.Errorf("%w: speed=%v, scale=%v, exponent=%v", ErrInvalidGait, g.Speed, g.VelocityScale, g.Exponent)
		}

		if !g.StepSize.Finite() {
			return fmt.Errorf("%w: step=%v", ErrInvalidGait, g.StepSize)
		}
	}

	return nil
}

// Input is everything the host supplies each tick, in the limb's frame.
type Input struct {
	Anchor math2d.Vector2
	Target math2d.Vector2

	// Velocity of the body the limb is attached to, in units/second. Drives the
	// gait.
	Velocity math2d.Vector2

	// View is the point from which the limb is seen. Only used when depth is
	// enabled.
	View math2d.Vector2

	// Time since the last tick. Zero means one FixedTick.
	Elapsed time.Duration
}

// Pose is the result of a single tick.
type Pose struct {

	// EffectiveTarget is the target after the gait offset was added, but before
	// it was clamped to the reach of the limb.
	EffectiveTarget math2d.Vector2 `json:"target"`

	Joint math2d.Vector2 `json:"joint"`
	End   math2d.Vector2 `json:"end"`
}

func (p Pose) String() string {
	return fmt.Sprintf("Pose{target=%s joint=%s end=%s}", p.EffectiveTarget, p.Joint, p.End)
}

// State is the mutable part of a limb.
type State struct {
	Phase     float64
	LastJoint math2d.Vector2
	LastEnd   math2d.Vector2
}

// Limb is a single two-segment limb. It isn't safe for concurrent use, but
// separate limbs share nothing and can be ticked in parallel.
type Limb struct {
	config Config
	osc    *gait.Oscillator
	state  State
}

func New(c Config) (*Limb, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	// The end can't come closer than the difference between the segment lengths,
	// whatever the min reach says.
	if floor := c.params().MinReachFloor(); floor > c.MinReach {
		log.Warnf("min reach %0.2f is below the segment length difference; the end won't come closer than %0.2f", c.MinReach, floor)
	}

	return &Limb{
		config: c,
		osc:    gait.NewOscillator(),
	}, nil
}

// MustNew is like New, but panics if the config is invalid.
func MustNew(c Config) *Limb {
	l, err := New(c)
	if err != nil {
		panic(err)
	}

	return l
}

func (l *Limb) Config() Config {
	return l.config
}

// State returns a copy of the limb's current state.
func (l *Limb) State() State {
	return l.state
}

// Reset moves the gait back to the start of its cycle.
func (l *Limb) Reset() {
	l.osc.Reset()
	l.state.Phase = 0
}

// Tick advances the gait and solves the limb for the given input.
func (l *Limb) Tick(in Input) Pose {
	in = sanitize(in)
	target := in.Target

	// The gait clock only runs while the gait is enabled. Disabling it freezes
	// the phase where it is.
	if l.config.Gait.Enabled {
		target = target.Add(l.osc.Advance(in.Velocity, ticks(in.Elapsed), l.config.Gait))
		l.state.Phase = l.osc.Phase()
	}

	s := reach.Solve(in.Anchor, target, l.config.params())
	joint := s.Joint

	if l.config.Depth {
		joint = depth.Project(s.Joint, in.Anchor, s.End, s.OriginAngle, in.View, l.config.FarLength)
	}

	l.state.LastJoint = joint
	l.state.LastEnd = s.End

	return Pose{
		EffectiveTarget: target,
		Joint:           joint,
		End:             s.End,
	}
}

// sanitize replaces non-finite inputs, which would otherwise poison the gait
// phase for the rest of the limb's life.
func sanitize(in Input) Input {
	if !in.Anchor.Finite() {
		log.Debugf("non-finite anchor %s, using origin", in.Anchor)
		in.Anchor = math2d.ZeroVector2
	}

	if !in.Target.Finite() {
		log.Debugf("non-finite target %s, using anchor", in.Target)
		in.Target = in.Anchor
	}

	// A finite velocity can still have an infinite magnitude.
	if !in.Velocity.Finite() || math.IsInf(in.Velocity.Magnitude(), 0) {
		log.Debugf("non-finite velocity %s, standing still", in.Velocity)
		in.Velocity = math2d.ZeroVector2
	}

	if !in.View.Finite() {
		in.View = in.Anchor
	}

	return in
}

// ticks converts an elapsed duration into a (fractional) number of fixed ticks.
func ticks(elapsed time.Duration) float64 {
	if elapsed <= 0 {
		return 1
	}

	return float64(elapsed) / float64(FixedTick)
}
