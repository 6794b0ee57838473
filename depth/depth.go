// Package depth fakes a third dimension on a flat two-segment limb, by sliding
// the joint towards or away from the anchor-end chord according to the angle
// from which the limb is viewed. Viewed side-on the joint is left where the
// solver put it (or mirrored, when viewed from the other side); viewed head-on
// it collapses onto the chord, as a real knee bending towards the camera would.
//
// The result is for display only, and breaks the length of the near segment.
// It must never be fed back into the solver.
package depth

import (
	"math"

	"github.com/VuurMos/inverse-kinematics/math2d"
)

// Modifier returns the signed horizontal bias of the view from the anchor: -1
// when the viewer is directly to the right, +1 directly to the left, and zero
// when straight above or below. A view coincident with the anchor counts as
// from the right.
func Modifier(anchor, view math2d.Vector2) float64 {
	facing := view.Subtract(anchor).Angle()
	return anchor.X - (anchor.X + math.Cos(facing))
}

// Intersect returns the point on the anchor-end chord nearest the joint, given
// the far segment length and the origin angle between it and the chord.
func Intersect(anchor, end math2d.Vector2, originAngle float64, far float64) math2d.Vector2 {
	return anchor.Add(end.Subtract(anchor).Unit().MultiplyByScalar(far * math.Cos(originAngle)))
}

// Project returns the display position of the joint, as seen from view.
func Project(joint, anchor, end math2d.Vector2, originAngle float64, view math2d.Vector2, far float64) math2d.Vector2 {
	mod := Modifier(anchor, view)
	is := Intersect(anchor, end, originAngle, far)

	arm := joint.Subtract(is)
	return is.Add(math2d.Polar(arm.Magnitude()*-mod, arm.Angle()))
}
