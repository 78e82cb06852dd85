package command

import "fmt"

// State is the lifecycle position of a command.
type State int

const (
	// Created commands have never been executed.
	Created State = iota
	// Executed commands have their effect applied.
	Executed
	// Undone commands have been executed and reverted.
	Undone
)

func (s State) String() string {
	switch s {
	case Created:
		return "created"
	case Executed:
		return "executed"
	case Undone:
		return "undone"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}
