package sim

import (
	"fmt"
	"math"
)

// Bounds are the device limits on command arguments.
type Bounds struct {
	MinDist int `yaml:"min_dist" json:"min_dist"`
	MaxDist int `yaml:"max_dist" json:"max_dist"`
	MinDeg  int `yaml:"min_deg" json:"min_deg"`
	MaxDeg  int `yaml:"max_deg" json:"max_deg"`
}

// Tello SDK limits.
func DefaultBounds() Bounds {
	return Bounds{MinDist: 20, MaxDist: 500, MinDeg: 1, MaxDeg: 360}
}

const DefaultTakeoffAlt = 81

type Options struct {
	TakeoffAlt float64
	Bounds     Bounds
	Drift      DriftConfig
	Seed       int64
}

func DefaultOptions() Options {
	return Options{
		TakeoffAlt: DefaultTakeoffAlt,
		Bounds:     DefaultBounds(),
		Drift:      DriftConfig{Mode: DriftNone},
	}
}

// Simulator owns the drone state, the flight-path log and the command
// log for one session. It is not safe for concurrent use; one session
// owns one instance.
type Simulator struct {
	opts  Options
	drift *drift

	state     DroneState
	path      FlightPath
	commands  []Command
	flips     []FlipMark
	altitudes []float64
}

func New(opts Options) *Simulator {
	s := &Simulator{opts: opts}
	s.reset()
	return s
}

func (s *Simulator) reset() {
	s.drift = newDrift(s.opts.Drift, s.opts.Seed)
	s.state = DroneState{}
	s.path = nil
	s.flips = nil
	s.altitudes = nil
	// The real drone must be put into SDK mode before anything else, so
	// the command log always starts with it.
	s.commands = []Command{{Name: CmdCommand}}
}

// Reset returns the simulator to its initial landed state with empty logs.
func (s *Simulator) Reset() { s.reset() }

func (s *Simulator) State() DroneState     { return s.state }
func (s *Simulator) Path() FlightPath      { return s.path.Clone() }
func (s *Simulator) FlipMarks() []FlipMark { return append([]FlipMark(nil), s.flips...) }
func (s *Simulator) Altitudes() []float64  { return append([]float64(nil), s.altitudes...) }
func (s *Simulator) Commands() []Command   { return append([]Command(nil), s.commands...) }

// Apply validates and executes a single command. It either fully
// succeeds, appending exactly one snapshot to the flight path, or
// fails leaving all state untouched.
func (s *Simulator) Apply(cmd Command) (DroneState, error) {
	kind, ok := commandKinds[cmd.Name]
	if !ok {
		return s.state, &CommandError{Cmd: cmd, Wrapped: ErrInvalidCommand}
	}
	if err := s.validate(cmd, kind); err != nil {
		return s.state, &CommandError{Cmd: cmd, Wrapped: err}
	}

	next := s.state
	var newAlts []float64

	switch cmd.Name {
	case CmdCommand:
		// SDK-mode handshake; no simulated effect.
		s.commands = append(s.commands, cmd)
		return s.state, nil
	case CmdTakeoff:
		next.Airborne = true
		next.Z = s.opts.TakeoffAlt
		newAlts = []float64{0, next.Z}
	case CmdLand:
		next.Airborne = false
		next.Z = 0
		newAlts = []float64{0}
	case CmdUp, CmdDown:
		dist := float64(cmd.Dist)
		if cmd.Name == CmdDown {
			dist = -dist
		}
		dx, dy, dz := s.drift.perturb(0, 0, dist, float64(cmd.Dist))
		next.X += dx
		next.Y += dy
		next.Z += dz
		newAlts = []float64{next.Z}
	case CmdForward, CmdBack, CmdLeft, CmdRight:
		bearing := next.Yaw + headingOffset(cmd.Name)
		dist := float64(cmd.Dist)
		rad := bearing * math.Pi / 180
		dx, dy, dz := s.drift.perturb(math.Sin(rad)*dist, math.Cos(rad)*dist, 0, dist)
		next.X += dx
		next.Y += dy
		next.Z += dz
	case CmdCW:
		next.Yaw = math.Mod(next.Yaw+float64(cmd.Deg%360)+360, 360)
	case CmdCCW:
		next.Yaw = math.Mod(next.Yaw-float64(cmd.Deg%360)+360, 360)
	case CmdFlip:
		s.flips = append(s.flips, FlipMark{X: next.X, Y: next.Y})
	}

	s.state = next
	s.path = append(s.path, next)
	s.commands = append(s.commands, cmd)
	s.altitudes = append(s.altitudes, newAlts...)
	return next, nil
}

// headingOffset maps a horizontal movement to its bearing offset from
// the current yaw.
func headingOffset(name CommandName) float64 {
	switch name {
	case CmdBack:
		return 180
	case CmdLeft:
		return -90
	case CmdRight:
		return 90
	default:
		return 0
	}
}

func (s *Simulator) validate(cmd Command, kind commandKind) error {
	b := s.opts.Bounds
	switch kind {
	case kindDist:
		if cmd.Dist < b.MinDist || cmd.Dist > b.MaxDist {
			return fmt.Errorf("distance must be %d-%d cm, got %d: %w",
				b.MinDist, b.MaxDist, cmd.Dist, ErrInvalidParameter)
		}
	case kindDeg:
		if cmd.Deg < b.MinDeg || cmd.Deg > b.MaxDeg {
			return fmt.Errorf("rotation must be %d-%d degrees, got %d: %w",
				b.MinDeg, b.MaxDeg, cmd.Deg, ErrInvalidParameter)
		}
	case kindFlip:
		switch cmd.Flip {
		case FlipForward, FlipBack, FlipLeft, FlipRight:
		default:
			return fmt.Errorf("flip direction %q: %w", cmd.Flip, ErrInvalidParameter)
		}
	}

	switch cmd.Name {
	case CmdCommand:
	case CmdTakeoff:
		if s.state.Airborne {
			return fmt.Errorf("already airborne at %.0f cm: %w", s.state.Z, ErrInvalidState)
		}
	default:
		if !s.state.Airborne {
			return fmt.Errorf("takeoff first: %w", ErrInvalidState)
		}
	}
	return nil
}

// Replay applies a stored command sequence in order, stopping at the
// first failure. SDK-mode entries from saved logs are skipped.
func (s *Simulator) Replay(cmds []Command) error {
	for i, cmd := range cmds {
		if cmd.Name == CmdCommand {
			continue
		}
		if _, err := s.Apply(cmd); err != nil {
			return fmt.Errorf("replay stopped at command %d: %w", i+1, err)
		}
	}
	return nil
}
