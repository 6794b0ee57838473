package math2d

import (
	"fmt"

	"github.com/VuurMos/inverse-kinematics/utils"
)

// Pose is a 2d coordinate frame: an origin, plus a heading (in degrees,
// counter-clockwise) of its X axis relative to the parent frame.
type Pose struct {
	Position Vector2 `json:"position" mapstructure:"position"`
	Heading  float64 `json:"heading" mapstructure:"heading"`
}

func (p Pose) String() string {
	return fmt.Sprintf("Pose{x=%+07.2f y=%+07.2f, r=%+07.2f}", p.Position.X, p.Position.Y, p.Heading)
}

// Add returns the pose pp (which is relative to p) in the parent space of p.
func (p Pose) Add(pp Pose) Pose {
	return Pose{
		Position: p.ToWorld(pp.Position),
		Heading:  p.Heading + pp.Heading,
	}
}

// ToWorld transforms a vector in this pose's space into the parent space.
func (p Pose) ToWorld(v Vector2) Vector2 {
	return v.Rotate(utils.Rad(p.Heading)).Add(p.Position)
}

// ToLocal transforms a vector in the parent space into this pose's space. It's
// the inverse of ToWorld.
func (p Pose) ToLocal(v Vector2) Vector2 {
	return v.Subtract(p.Position).Rotate(-utils.Rad(p.Heading))
}

// Direction rotates (but doesn't translate) a vector into the parent space.
// Velocities and other free vectors must use this rather than ToWorld.
func (p Pose) Direction(v Vector2) Vector2 {
	return v.Rotate(utils.Rad(p.Heading))
}

// LocalDirection is the inverse of Direction.
func (p Pose) LocalDirection(v Vector2) Vector2 {
	return v.Rotate(-utils.Rad(p.Heading))
}
