// Package deploy forwards a simulated command log, unchanged, to a
// real Tello over WiFi using gobot's dji/tello driver. The drone's
// responses are surfaced to the caller but not interpreted.
package deploy

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gobot.io/x/gobot"
	dji "gobot.io/x/gobot/platforms/dji/tello"

	"github.com/dronelab/tellosim/internal/sim"
)

// DefaultPort is the local UDP port the Tello driver binds.
const DefaultPort = "8888"

// Driver is the subset of the gobot tello driver the deployer needs.
// Tests substitute a fake.
type Driver interface {
	TakeOff() error
	Land() error
	Up(val int) error
	Down(val int) error
	Left(val int) error
	Right(val int) error
	Forward(val int) error
	Backward(val int) error
	Clockwise(val int) error
	CounterClockwise(val int) error
	FrontFlip() error
	BackFlip() error
	LeftFlip() error
	RightFlip() error
}

type Deployer struct {
	driver Driver
	log    *zap.Logger

	// speed is the stick deflection used for timed moves, percent.
	speed int
	// pace converts centimeters (or degrees) into hold time.
	pace time.Duration
	// settle is the hover pause between commands.
	settle time.Duration
}

func New(driver Driver, log *zap.Logger) *Deployer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Deployer{
		driver: driver,
		log:    log,
		speed:  30,
		pace:   20 * time.Millisecond,
		settle: 2 * time.Second,
	}
}

// Deploy sends the commands in order. It stops at the first driver
// error, wrapping it with the offending command.
func (d *Deployer) Deploy(ctx context.Context, cmds []sim.Command) error {
	for _, cmd := range cmds {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if cmd.Name == sim.CmdCommand {
			// The driver performs its own SDK handshake on start.
			continue
		}

		d.log.Debug("sending command", zap.String("command", cmd.String()))
		if err := d.send(cmd); err != nil {
			d.log.Error("drone rejected command", zap.String("command", cmd.String()), zap.Error(err))
			return fmt.Errorf("deploy %s: %w", cmd, err)
		}
		d.sleep(ctx, d.settle)
	}
	return nil
}

func (d *Deployer) send(cmd sim.Command) error {
	switch cmd.Name {
	case sim.CmdTakeoff:
		return d.driver.TakeOff()
	case sim.CmdLand:
		return d.driver.Land()
	case sim.CmdUp:
		return d.timedMove(d.driver.Up, cmd.Dist)
	case sim.CmdDown:
		return d.timedMove(d.driver.Down, cmd.Dist)
	case sim.CmdLeft:
		return d.timedMove(d.driver.Left, cmd.Dist)
	case sim.CmdRight:
		return d.timedMove(d.driver.Right, cmd.Dist)
	case sim.CmdForward:
		return d.timedMove(d.driver.Forward, cmd.Dist)
	case sim.CmdBack:
		return d.timedMove(d.driver.Backward, cmd.Dist)
	case sim.CmdCW:
		return d.timedMove(d.driver.Clockwise, cmd.Deg)
	case sim.CmdCCW:
		return d.timedMove(d.driver.CounterClockwise, cmd.Deg)
	case sim.CmdFlip:
		switch cmd.Flip {
		case sim.FlipBack:
			return d.driver.BackFlip()
		case sim.FlipLeft:
			return d.driver.LeftFlip()
		case sim.FlipRight:
			return d.driver.RightFlip()
		default:
			return d.driver.FrontFlip()
		}
	default:
		return fmt.Errorf("%s: %w", cmd.Name, sim.ErrInvalidCommand)
	}
}

// timedMove holds a stick deflection long enough to cover the
// requested amount, then recenters.
func (d *Deployer) timedMove(move func(int) error, amount int) error {
	if err := move(d.speed); err != nil {
		return err
	}
	time.Sleep(time.Duration(amount) * d.pace)
	return move(0)
}

func (d *Deployer) sleep(ctx context.Context, dur time.Duration) {
	t := time.NewTimer(dur)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// Run connects to a real drone on the given port and replays the
// command log through it, blocking until the flight finishes.
func Run(ctx context.Context, port string, cmds []sim.Command, log *zap.Logger) error {
	if port == "" {
		port = DefaultPort
	}
	if log == nil {
		log = zap.NewNop()
	}

	driver := dji.NewDriver(port)
	var deployErr error

	work := func() {
		log.Info("connected to drone", zap.String("port", port))
		deployErr = New(driver, log).Deploy(ctx, cmds)
	}

	robot := gobot.NewRobot("tellosim",
		[]gobot.Connection{},
		[]gobot.Device{driver},
		work,
	)

	if err := startAndWait(robot); err != nil && deployErr == nil {
		return fmt.Errorf("drone connection: %w", err)
	}
	return deployErr
}

// startAndWait runs the robot's work function to completion. gobot
// launches Work on its own goroutine, so Start returning is not enough
// to know the flight is over; the driver must stay up until Deploy has
// sent everything.
func startAndWait(robot *gobot.Robot) error {
	done := make(chan struct{})
	work := robot.Work
	robot.Work = func() {
		defer close(done)
		if work != nil {
			work()
		}
	}
	robot.AutoRun = false

	if err := robot.Start(); err != nil {
		return err
	}
	<-done
	return robot.Stop()
}
