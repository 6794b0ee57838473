package limbs

import (
	"fmt"
	"time"

	ik "github.com/VuurMos/inverse-kinematics"
	"github.com/VuurMos/inverse-kinematics/math2d"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithFields(logrus.Fields{
	"pkg": "limbs",
})

// Goal is what a single limb should be doing, in the WORLD coordinate space.
type Goal struct {
	Target math2d.Vector2

	// View is where the limb is seen from. It's only used by limbs with depth
	// enabled.
	View math2d.Vector2
}

// InputSource provides the goal for each limb every tick. If it has nothing for
// a limb, the limb reaches for its home position.
type InputSource interface {
	Goal(name string) (Goal, bool)
}

// Resetter is implemented by input sources which can ask for the gait of a limb
// to be restarted.
type Resetter interface {
	TakeResets() []string
}

// Sink receives a frame after every tick. Implementations must not block.
type Sink interface {
	Publish(Frame)
}

// Mount attaches a limb to the rig. The limb's anchor is at the origin of the
// mount, and its coordinate space is rotated by the mount heading.
type Mount struct {
	Name   string
	Pose   math2d.Pose
	Config ik.Config

	// Home is the target (in the limb space) used when the input source has no
	// goal for the limb.
	Home math2d.Vector2
}

// LimbPose is the pose of a single limb, in the WORLD coordinate space.
type LimbPose struct {
	Name   string         `json:"name"`
	Anchor math2d.Vector2 `json:"anchor"`
	Target math2d.Vector2 `json:"target"`
	Joint  math2d.Vector2 `json:"joint"`
	End    math2d.Vector2 `json:"end"`
	Phase  float64        `json:"phase"`
}

// Frame is the pose of every limb after a tick.
type Frame struct {
	Tick  int        `json:"tick"`
	Time  time.Time  `json:"time"`
	Limbs []LimbPose `json:"limbs"`
}

type mounted struct {
	Mount
	limb *ik.Limb
}

// Limbs is a rig component which ticks a set of limbs.
type Limbs struct {
	rig    *ik.Rig
	source InputSource
	sink   Sink

	limbs []*mounted

	// Time of the previous tick, or zero before the first one.
	last time.Time

	tick  int
	frame Frame
}

// New builds a limb for each mount. The source and sink may be nil.
func New(rig *ik.Rig, source InputSource, sink Sink, mounts ...Mount) (*Limbs, error) {
	l := &Limbs{
		rig:    rig,
		source: source,
		sink:   sink,
	}

	seen := map[string]bool{}
	for _, m := range mounts {
		if seen[m.Name] {
			return nil, fmt.Errorf("duplicate limb name: %q", m.Name)
		}
		seen[m.Name] = true

		limb, err := ik.New(m.Config)
		if err != nil {
			return nil, fmt.Errorf("limb %q: %w", m.Name, err)
		}

		l.limbs = append(l.limbs, &mounted{Mount: m, limb: limb})
	}

	return l, nil
}

func (l *Limbs) Boot() error {
	if len(l.limbs) == 0 {
		return fmt.Errorf("no limbs configured")
	}

	for _, m := range l.limbs {
		c := m.limb.Config()
		log.Infof("limb %s at %s: far=%0.1f near=%0.1f reach=[%0.1f, %0.1f] flip=%+d depth=%v gait=%v",
			m.Name, m.Pose, c.FarLength, c.NearLength, c.MinReach, c.MaxReach(), c.Flip, c.Depth, c.Gait.Enabled)
	}

	return nil
}

// Names returns the names of the limbs, in the order they were mounted.
func (l *Limbs) Names() []string {
	names := make([]string, len(l.limbs))
	for i, m := range l.limbs {
		names[i] = m.Name
	}

	return names
}

// Frame returns the most recent frame.
func (l *Limbs) Frame() Frame {
	return l.frame
}

// Reset restarts the gait of the named limb.
func (l *Limbs) Reset(name string) error {
	for _, m := range l.limbs {
		if m.Name == name {
			m.limb.Reset()
			log.Infof("reset limb %s", name)
			return nil
		}
	}

	return fmt.Errorf("no such limb: %q", name)
}

func (l *Limbs) Tick(now time.Time) error {
	l.tick += 1

	var elapsed time.Duration
	if !l.last.IsZero() {
		elapsed = now.Sub(l.last)
	}
	l.last = now

	if r, ok := l.source.(Resetter); ok {
		for _, name := range r.TakeResets() {
			if err := l.Reset(name); err != nil {
				log.Warnf("ignoring reset: %s", err)
			}
		}
	}

	frame := Frame{
		Tick:  l.tick,
		Time:  now,
		Limbs: make([]LimbPose, 0, len(l.limbs)),
	}

	for _, m := range l.limbs {
		in := l.input(m, elapsed)
		pose := m.limb.Tick(in)

		lp := LimbPose{
			Name:   m.Name,
			Anchor: l.world(m, in.Anchor),
			Target: l.world(m, pose.EffectiveTarget),
			Joint:  l.world(m, pose.Joint),
			End:    l.world(m, pose.End),
			Phase:  m.limb.State().Phase,
		}

		log.Debugf("%s target=%s joint=%s end=%s phase=%0.1f", m.Name, lp.Target, lp.Joint, lp.End, lp.Phase)
		frame.Limbs = append(frame.Limbs, lp)
	}

	l.frame = frame
	if l.sink != nil {
		l.sink.Publish(frame)
	}

	return nil
}

// input converts the world space goal (and the rig velocity) into the limb
// space. The anchor is always at the limb origin.
func (l *Limbs) input(m *mounted, elapsed time.Duration) ik.Input {
	in := ik.Input{
		Target:   m.Home,
		Velocity: m.Pose.LocalDirection(l.rig.Pose.LocalDirection(l.rig.Velocity)),
		Elapsed:  elapsed,
	}

	if l.source == nil {
		return in
	}

	if g, ok := l.source.Goal(m.Name); ok {
		in.Target = l.local(m, g.Target)
		in.View = l.local(m, g.View)
	}

	return in
}

// local transforms a world vector into the space of the given limb.
func (l *Limbs) local(m *mounted, v math2d.Vector2) math2d.Vector2 {
	return m.Pose.ToLocal(l.rig.Local(v))
}

// world transforms a vector in the space of the given limb into the world.
func (l *Limbs) world(m *mounted, v math2d.Vector2) math2d.Vector2 {
	return l.rig.World(m.Pose.ToWorld(v))
}
