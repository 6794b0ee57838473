// Package stream publishes limb frames to websocket clients, and accepts input
// commands from them. Rendering happens entirely on the client.
package stream

import (
	"encoding/json"
	"fmt"

	"github.com/VuurMos/inverse-kinematics/components/limbs"
	"github.com/VuurMos/inverse-kinematics/math2d"
)

// Command types sent by clients.
const (
	// CommandInput sets the target (and optionally the view point) of a limb,
	// or of every limb if none is named.
	CommandInput = "input"

	// CommandMove sets the velocity of the rig body.
	CommandMove = "move"

	// CommandReset restarts the gait of a limb.
	CommandReset = "reset"
)

// Command is a message from a client. All positions are in world space.
type Command struct {
	Type     string          `json:"type"`
	Limb     string          `json:"limb,omitempty"`
	Target   *math2d.Vector2 `json:"target,omitempty"`
	View     *math2d.Vector2 `json:"view,omitempty"`
	Velocity *math2d.Vector2 `json:"velocity,omitempty"`
}

// CommandHandler applies commands. It's called from client goroutines, so must
// be safe for concurrent use.
type CommandHandler interface {
	HandleCommand(Command) error
}

// DecodeCommand parses and checks a single command.
func DecodeCommand(data []byte) (Command, error) {
	var c Command
	if err := json.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("decoding command: %w", err)
	}

	switch c.Type {
	case CommandInput:
		if c.Target == nil && c.View == nil {
			return c, fmt.Errorf("input command has neither target nor view")
		}

	case CommandMove:
		if c.Velocity == nil {
			return c, fmt.Errorf("move command has no velocity")
		}

	case CommandReset:
		if c.Limb == "" {
			return c, fmt.Errorf("reset command has no limb")
		}

	default:
		return c, fmt.Errorf("unknown command type: %q", c.Type)
	}

	return c, nil
}

// envelope wraps outbound messages so clients can tell them apart.
type envelope struct {
	Type string `json:"type"`
	*limbs.Frame
}

func encodeFrame(f limbs.Frame) ([]byte, error) {
	return json.Marshal(envelope{Type: "frame", Frame: &f})
}
