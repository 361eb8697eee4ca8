package sim

import (
	"errors"
	"fmt"
)

// Domain errors for flight commands.
var (
	// ErrInvalidCommand indicates a command name outside the supported set.
	ErrInvalidCommand = errors.New("sim: unknown command")

	// ErrInvalidParameter indicates an argument outside its valid range.
	ErrInvalidParameter = errors.New("sim: parameter out of valid bounds")

	// ErrInvalidState indicates a command that is illegal in the current
	// airborne/landed state.
	ErrInvalidState = errors.New("sim: command not allowed in current state")
)

// CommandError wraps a domain error with the command that caused it.
type CommandError struct {
	Cmd     Command
	Wrapped error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %v", e.Cmd, e.Wrapped)
}

func (e *CommandError) Unwrap() error {
	return e.Wrapped
}
