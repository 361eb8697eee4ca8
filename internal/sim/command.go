package sim

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

type CommandName string

const (
	CmdCommand CommandName = "command"
	CmdTakeoff CommandName = "takeoff"
	CmdLand    CommandName = "land"
	CmdForward CommandName = "forward"
	CmdBack    CommandName = "back"
	CmdLeft    CommandName = "left"
	CmdRight   CommandName = "right"
	CmdUp      CommandName = "up"
	CmdDown    CommandName = "down"
	CmdCW      CommandName = "cw"
	CmdCCW     CommandName = "ccw"
	CmdFlip    CommandName = "flip"
)

type FlipDirection string

const (
	FlipForward FlipDirection = "f"
	FlipBack    FlipDirection = "b"
	FlipLeft    FlipDirection = "l"
	FlipRight   FlipDirection = "r"
)

// commandKind classifies what argument a command takes.
type commandKind int

const (
	kindBare commandKind = iota // no argument
	kindDist                    // distance in cm
	kindDeg                     // rotation in degrees
	kindFlip                    // flip direction letter
)

var commandKinds = map[CommandName]commandKind{
	CmdCommand: kindBare,
	CmdTakeoff: kindBare,
	CmdLand:    kindBare,
	CmdForward: kindDist,
	CmdBack:    kindDist,
	CmdLeft:    kindDist,
	CmdRight:   kindDist,
	CmdUp:      kindDist,
	CmdDown:    kindDist,
	CmdCW:      kindDeg,
	CmdCCW:     kindDeg,
	CmdFlip:    kindFlip,
}

// Command is a single validated flight instruction. Exactly one of
// Dist, Deg or Flip is meaningful, depending on Name.
type Command struct {
	Name CommandName
	Dist int
	Deg  int
	Flip FlipDirection
}

func (c Command) String() string {
	switch commandKinds[c.Name] {
	case kindDist:
		return fmt.Sprintf("%s %d", c.Name, c.Dist)
	case kindDeg:
		return fmt.Sprintf("%s %d", c.Name, c.Deg)
	case kindFlip:
		return fmt.Sprintf("%s %s", c.Name, c.Flip)
	default:
		return string(c.Name)
	}
}

// commandJSON is the wire form used in saved command logs:
// {"command": "forward", "arguments": [100]}.
type commandJSON struct {
	Command   string `json:"command"`
	Arguments []any  `json:"arguments"`
}

func (c Command) MarshalJSON() ([]byte, error) {
	w := commandJSON{Command: string(c.Name), Arguments: []any{}}
	switch commandKinds[c.Name] {
	case kindDist:
		w.Arguments = append(w.Arguments, c.Dist)
	case kindDeg:
		w.Arguments = append(w.Arguments, c.Deg)
	case kindFlip:
		w.Arguments = append(w.Arguments, string(c.Flip))
	}
	return json.Marshal(w)
}

func (c *Command) UnmarshalJSON(data []byte) error {
	var w commandJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	parts := make([]string, 0, len(w.Arguments)+1)
	parts = append(parts, w.Command)
	for _, a := range w.Arguments {
		switch v := a.(type) {
		case float64:
			parts = append(parts, strconv.Itoa(int(v)))
		case string:
			parts = append(parts, v)
		default:
			return fmt.Errorf("command %q: unsupported argument %v", w.Command, a)
		}
	}
	cmd, err := Parse(strings.Join(parts, " "))
	if err != nil {
		return err
	}
	*c = cmd
	return nil
}

// Parse turns one line of input into a Command. It checks the grammar
// only; range checks happen when the command is applied.
func Parse(line string) (Command, error) {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(line)))
	if len(fields) == 0 {
		return Command{}, fmt.Errorf("empty input: %w", ErrInvalidCommand)
	}

	name := CommandName(fields[0])
	kind, ok := commandKinds[name]
	if !ok {
		return Command{}, fmt.Errorf("%q: %w", fields[0], ErrInvalidCommand)
	}

	cmd := Command{Name: name}
	switch kind {
	case kindBare:
		if len(fields) > 1 {
			return Command{}, fmt.Errorf("%s takes no argument: %w", name, ErrInvalidParameter)
		}
	case kindDist, kindDeg:
		if len(fields) != 2 {
			return Command{}, fmt.Errorf("%s needs one whole-number argument: %w", name, ErrInvalidParameter)
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil {
			return Command{}, fmt.Errorf("%s %q: whole numbers only: %w", name, fields[1], ErrInvalidParameter)
		}
		if kind == kindDist {
			cmd.Dist = n
		} else {
			cmd.Deg = n
		}
	case kindFlip:
		// Direction is optional; a bare flip goes forward.
		cmd.Flip = FlipForward
		if len(fields) > 2 {
			return Command{}, fmt.Errorf("flip takes a single direction: %w", ErrInvalidParameter)
		}
		if len(fields) == 2 {
			dir := FlipDirection(fields[1])
			switch dir {
			case FlipForward, FlipBack, FlipLeft, FlipRight:
				cmd.Flip = dir
			default:
				return Command{}, fmt.Errorf("flip direction must be f, b, r or l: %w", ErrInvalidParameter)
			}
		}
	}
	return cmd, nil
}

// FlightCommands filters a command log down to the entries that move
// the drone, dropping the SDK handshake.
func FlightCommands(cmds []Command) []Command {
	out := make([]Command, 0, len(cmds))
	for _, c := range cmds {
		if c.Name == CmdCommand {
			continue
		}
		out = append(out, c)
	}
	return out
}
