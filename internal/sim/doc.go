// Package sim implements the Tello flight simulator: a closed set of
// text commands, a single drone state, and an append-only flight-path
// log with a configurable movement error margin.
//
// Commands are applied one at a time and atomically. A command either
// fully succeeds, growing the flight path by exactly one snapshot, or
// fails with ErrInvalidCommand, ErrInvalidParameter or ErrInvalidState
// leaving the simulator untouched.
//
// The coordinate frame follows the drone's takeoff point: +Y is the
// initial heading, yaw is measured in degrees clockwise from it, and
// all distances are centimeters.
package sim
