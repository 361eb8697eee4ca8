package sim

import (
	"errors"
	"math"
	"testing"
)

func exactSim() *Simulator {
	return New(DefaultOptions())
}

func TestTakeoffLand(t *testing.T) {
	s := exactSim()

	st, err := s.Apply(Command{Name: CmdTakeoff})
	if err != nil {
		t.Fatalf("takeoff failed: %v", err)
	}
	if !st.Airborne {
		t.Error("expected airborne after takeoff")
	}
	if st.Z != DefaultTakeoffAlt {
		t.Errorf("expected altitude %d, got %f", DefaultTakeoffAlt, st.Z)
	}
	if len(s.Path()) != 1 {
		t.Errorf("expected path length 1, got %d", len(s.Path()))
	}

	st, err = s.Apply(Command{Name: CmdLand})
	if err != nil {
		t.Fatalf("land failed: %v", err)
	}
	if st.Airborne {
		t.Error("expected landed after land")
	}
	if st.Z != 0 {
		t.Errorf("expected altitude 0, got %f", st.Z)
	}
}

func TestDoubleTakeoff(t *testing.T) {
	s := exactSim()
	if _, err := s.Apply(Command{Name: CmdTakeoff}); err != nil {
		t.Fatalf("takeoff failed: %v", err)
	}
	_, err := s.Apply(Command{Name: CmdTakeoff})
	if !errors.Is(err, ErrInvalidState) {
		t.Errorf("expected ErrInvalidState, got %v", err)
	}
	if len(s.Path()) != 1 {
		t.Errorf("failed command must not grow the path, got %d", len(s.Path()))
	}
}

func TestMovementWhileLanded(t *testing.T) {
	s := exactSim()
	cmds := []Command{
		{Name: CmdForward, Dist: 100},
		{Name: CmdUp, Dist: 50},
		{Name: CmdCW, Deg: 90},
		{Name: CmdLand},
		{Name: CmdFlip, Flip: FlipForward},
	}
	for _, cmd := range cmds {
		_, err := s.Apply(cmd)
		if !errors.Is(err, ErrInvalidState) {
			t.Errorf("%s while landed: expected ErrInvalidState, got %v", cmd, err)
		}
	}
	if len(s.Path()) != 0 {
		t.Errorf("expected empty path, got %d entries", len(s.Path()))
	}
}

func TestParameterBounds(t *testing.T) {
	tests := []struct {
		name string
		cmd  Command
	}{
		{"forward too short", Command{Name: CmdForward, Dist: 19}},
		{"forward too far", Command{Name: CmdForward, Dist: 501}},
		{"up too short", Command{Name: CmdUp, Dist: 5}},
		{"down too far", Command{Name: CmdDown, Dist: 1000}},
		{"cw zero", Command{Name: CmdCW, Deg: 0}},
		{"cw too far", Command{Name: CmdCW, Deg: 361}},
		{"ccw negative", Command{Name: CmdCCW, Deg: -90}},
		{"flip bad direction", Command{Name: CmdFlip, Flip: "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := exactSim()
			if _, err := s.Apply(Command{Name: CmdTakeoff}); err != nil {
				t.Fatalf("takeoff failed: %v", err)
			}
			before := s.State()

			_, err := s.Apply(tt.cmd)
			if !errors.Is(err, ErrInvalidParameter) {
				t.Errorf("expected ErrInvalidParameter, got %v", err)
			}
			if s.State() != before {
				t.Error("failed command must not change state")
			}
			if len(s.Path()) != 1 {
				t.Errorf("failed command must not grow the path, got %d", len(s.Path()))
			}
		})
	}
}

func TestUnknownCommand(t *testing.T) {
	s := exactSim()
	_, err := s.Apply(Command{Name: "hover"})
	if !errors.Is(err, ErrInvalidCommand) {
		t.Errorf("expected ErrInvalidCommand, got %v", err)
	}
	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) {
		t.Errorf("expected CommandError, got %T", err)
	}
}

// The walkthrough from the README: takeoff, forward 100, cw 90, land.
func TestFlightScenario(t *testing.T) {
	s := exactSim()

	steps := []Command{
		{Name: CmdTakeoff},
		{Name: CmdForward, Dist: 100},
		{Name: CmdCW, Deg: 90},
		{Name: CmdLand},
	}
	for _, cmd := range steps {
		if _, err := s.Apply(cmd); err != nil {
			t.Fatalf("%s failed: %v", cmd, err)
		}
	}

	path := s.Path()
	if len(path) != 4 {
		t.Fatalf("expected 4 snapshots, got %d", len(path))
	}

	// forward 100 at yaw 0 moves along +Y.
	after := path[1]
	if math.Abs(after.X) > 1e-9 || math.Abs(after.Y-100) > 1e-9 {
		t.Errorf("expected (0, 100), got (%f, %f)", after.X, after.Y)
	}
	if path[2].Yaw != 90 {
		t.Errorf("expected yaw 90 after cw 90, got %f", path[2].Yaw)
	}
	final := path[3]
	if final.Airborne || final.Z != 0 {
		t.Errorf("expected landed final state, got %+v", final)
	}
}

func TestHeadingMath(t *testing.T) {
	tests := []struct {
		name     string
		setupYaw int
		cmd      Command
		wantX    float64
		wantY    float64
	}{
		{"right at yaw 0", 0, Command{Name: CmdRight, Dist: 100}, 100, 0},
		{"left at yaw 0", 0, Command{Name: CmdLeft, Dist: 100}, -100, 0},
		{"back at yaw 0", 0, Command{Name: CmdBack, Dist: 100}, 0, -100},
		{"forward at yaw 90", 90, Command{Name: CmdForward, Dist: 100}, 100, 0},
		{"forward at yaw 180", 180, Command{Name: CmdForward, Dist: 100}, 0, -100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := exactSim()
			if _, err := s.Apply(Command{Name: CmdTakeoff}); err != nil {
				t.Fatalf("takeoff failed: %v", err)
			}
			if tt.setupYaw != 0 {
				if _, err := s.Apply(Command{Name: CmdCW, Deg: tt.setupYaw}); err != nil {
					t.Fatalf("cw failed: %v", err)
				}
			}
			st, err := s.Apply(tt.cmd)
			if err != nil {
				t.Fatalf("%s failed: %v", tt.cmd, err)
			}
			if math.Abs(st.X-tt.wantX) > 1e-9 || math.Abs(st.Y-tt.wantY) > 1e-9 {
				t.Errorf("expected (%f, %f), got (%f, %f)", tt.wantX, tt.wantY, st.X, st.Y)
			}
		})
	}
}

func TestRotationWraps(t *testing.T) {
	s := exactSim()
	if _, err := s.Apply(Command{Name: CmdTakeoff}); err != nil {
		t.Fatalf("takeoff failed: %v", err)
	}

	for i := 0; i < 3; i++ {
		if _, err := s.Apply(Command{Name: CmdCW, Deg: 150}); err != nil {
			t.Fatalf("cw failed: %v", err)
		}
	}
	if got := s.State().Yaw; got != 90 {
		t.Errorf("expected yaw 90 after 3x cw 150, got %f", got)
	}

	if _, err := s.Apply(Command{Name: CmdCCW, Deg: 180}); err != nil {
		t.Fatalf("ccw failed: %v", err)
	}
	if got := s.State().Yaw; got != 270 {
		t.Errorf("expected yaw 270, got %f", got)
	}
}

func TestUniformDriftBounded(t *testing.T) {
	opts := DefaultOptions()
	opts.Drift = DriftConfig{Mode: DriftUniform, Margin: 0.05}
	opts.Seed = 42
	s := New(opts)

	if _, err := s.Apply(Command{Name: CmdTakeoff}); err != nil {
		t.Fatalf("takeoff failed: %v", err)
	}
	st, err := s.Apply(Command{Name: CmdForward, Dist: 100})
	if err != nil {
		t.Fatalf("forward failed: %v", err)
	}

	// Each axis may deviate by at most margin * dist.
	if math.Abs(st.X) > 5.0 {
		t.Errorf("x drift %f exceeds bound", st.X)
	}
	if math.Abs(st.Y-100) > 5.0 {
		t.Errorf("y drift %f exceeds bound", st.Y-100)
	}
	if math.Abs(st.Z-DefaultTakeoffAlt) > 5.0 {
		t.Errorf("z drift %f exceeds bound", st.Z-DefaultTakeoffAlt)
	}
}

func TestDriftReproducible(t *testing.T) {
	opts := DefaultOptions()
	opts.Drift = DriftConfig{Mode: DriftUniform, Margin: 0.1}
	opts.Seed = 7

	fly := func() DroneState {
		s := New(opts)
		s.Apply(Command{Name: CmdTakeoff})
		s.Apply(Command{Name: CmdForward, Dist: 200})
		s.Apply(Command{Name: CmdRight, Dist: 80})
		st, _ := s.Apply(Command{Name: CmdUp, Dist: 50})
		return st
	}

	if a, b := fly(), fly(); a != b {
		t.Errorf("same seed must reproduce the flight: %+v vs %+v", a, b)
	}
}

func TestFixedDrift(t *testing.T) {
	opts := DefaultOptions()
	opts.Drift = DriftConfig{Mode: DriftFixed, Margin: 0.1}
	s := New(opts)

	s.Apply(Command{Name: CmdTakeoff})
	st, err := s.Apply(Command{Name: CmdForward, Dist: 100})
	if err != nil {
		t.Fatalf("forward failed: %v", err)
	}
	if math.Abs(st.Y-110) > 1e-9 {
		t.Errorf("fixed drift should scale to 110, got %f", st.Y)
	}
}

func TestFlipRecordsMark(t *testing.T) {
	s := exactSim()
	s.Apply(Command{Name: CmdTakeoff})
	s.Apply(Command{Name: CmdForward, Dist: 100})

	before := s.State()
	st, err := s.Apply(Command{Name: CmdFlip, Flip: FlipBack})
	if err != nil {
		t.Fatalf("flip failed: %v", err)
	}
	if st != before {
		t.Error("flip must not move the drone")
	}

	marks := s.FlipMarks()
	if len(marks) != 1 {
		t.Fatalf("expected 1 flip mark, got %d", len(marks))
	}
	if marks[0].X != before.X || marks[0].Y != before.Y {
		t.Errorf("flip mark at (%f, %f), want (%f, %f)", marks[0].X, marks[0].Y, before.X, before.Y)
	}
	if len(s.Path()) != 3 {
		t.Errorf("flip should still log a snapshot, path length %d", len(s.Path()))
	}
}

func TestReset(t *testing.T) {
	s := exactSim()
	s.Apply(Command{Name: CmdTakeoff})
	s.Apply(Command{Name: CmdForward, Dist: 100})

	s.Reset()

	if got := s.State(); got != (DroneState{}) {
		t.Errorf("expected zero state after reset, got %+v", got)
	}
	if len(s.Path()) != 0 {
		t.Errorf("expected empty path after reset, got %d", len(s.Path()))
	}
	cmds := s.Commands()
	if len(cmds) != 1 || cmds[0].Name != CmdCommand {
		t.Errorf("command log should hold only the SDK handshake, got %v", cmds)
	}
}

func TestReplay(t *testing.T) {
	s := exactSim()
	script := []Command{
		{Name: CmdCommand},
		{Name: CmdTakeoff},
		{Name: CmdForward, Dist: 100},
		{Name: CmdCW, Deg: 90},
		{Name: CmdForward, Dist: 50},
		{Name: CmdLand},
	}
	if err := s.Replay(script); err != nil {
		t.Fatalf("replay failed: %v", err)
	}
	if len(s.Path()) != 5 {
		t.Errorf("expected 5 snapshots, got %d", len(s.Path()))
	}

	s2 := exactSim()
	if err := s2.Replay(s.Commands()); err != nil {
		t.Fatalf("replay of own log failed: %v", err)
	}
	if s2.State() != s.State() {
		t.Errorf("replayed flight diverged: %+v vs %+v", s2.State(), s.State())
	}
}

func TestReplayStopsAtFirstFailure(t *testing.T) {
	s := exactSim()
	err := s.Replay([]Command{
		{Name: CmdTakeoff},
		{Name: CmdForward, Dist: 9999},
		{Name: CmdLand},
	})
	if !errors.Is(err, ErrInvalidParameter) {
		t.Fatalf("expected ErrInvalidParameter, got %v", err)
	}
	// Only the takeoff landed in the log.
	if len(s.Path()) != 1 {
		t.Errorf("expected 1 snapshot, got %d", len(s.Path()))
	}
	if !s.State().Airborne {
		t.Error("drone should still be airborne after aborted replay")
	}
}

func TestAltitudeSeries(t *testing.T) {
	s := exactSim()
	s.Apply(Command{Name: CmdTakeoff})
	s.Apply(Command{Name: CmdUp, Dist: 50})
	s.Apply(Command{Name: CmdDown, Dist: 30})
	s.Apply(Command{Name: CmdLand})

	want := []float64{0, 81, 131, 101, 0}
	got := s.Altitudes()
	if len(got) != len(want) {
		t.Fatalf("expected %d altitude samples, got %d", len(want), len(got))
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Errorf("altitude[%d]: expected %f, got %f", i, want[i], got[i])
		}
	}
}
