package command

import (
	"context"
	"log/slog"

	"github.com/specialistvlad/metagraph/internal/ctxlog"
	"github.com/specialistvlad/metagraph/internal/mgerr"
)

// Stack is a linear undo history.
type Stack struct {
	logger *slog.Logger
	limit  int
	done   []Command
	undone []Command
}

// StackOption configures a Stack.
type StackOption func(*Stack)

// WithLimit bounds the number of undoable commands; the oldest are dropped
// first. Zero or less means unbounded.
func WithLimit(n int) StackOption {
	return func(s *Stack) { s.limit = n }
}

// NewStack creates an empty history logging through ctx's logger.
func NewStack(ctx context.Context, opts ...StackOption) *Stack {
	s := &Stack{logger: ctxlog.FromContext(ctx)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Execute runs cmd and pushes it onto the history, discarding every command
// that had been undone. A command that fails without taking effect is not
// recorded; one that took effect and then failed, such as a compound
// stopping half way, is recorded and the error returned.
func (s *Stack) Execute(cmd Command) error {
	if err := cmd.CanExecute(); err != nil {
		s.logger.Debug("Command rejected.", "command", cmd.Label(), "error", err)
		return err
	}
	err := cmd.Execute()
	if cmd.State() != Executed {
		return err
	}
	s.done = append(s.done, cmd)
	s.undone = nil
	if s.limit > 0 && len(s.done) > s.limit {
		s.done = append([]Command(nil), s.done[len(s.done)-s.limit:]...)
	}
	s.logger.Debug("Command executed.", "command", cmd.Label(), "depth", len(s.done))
	return err
}

// Undo reverts the most recent executed command.
func (s *Stack) Undo() error {
	cmd := s.Top()
	if cmd == nil {
		return &mgerr.IllegalStateError{Command: "stack", Op: "undo", State: "empty"}
	}
	if err := cmd.CanUndo(); err != nil {
		return err
	}
	s.done = s.done[:len(s.done)-1]
	s.undone = append(s.undone, cmd)
	s.logger.Debug("Command undone.", "command", cmd.Label())
	return cmd.Undo()
}

// Redo re-applies the most recently undone command.
func (s *Stack) Redo() error {
	cmd := s.PeekRedo()
	if cmd == nil {
		return &mgerr.IllegalStateError{Command: "stack", Op: "redo", State: "nothing undone"}
	}
	if err := cmd.CanRedo(); err != nil {
		return err
	}
	s.undone = s.undone[:len(s.undone)-1]
	s.done = append(s.done, cmd)
	s.logger.Debug("Command redone.", "command", cmd.Label())
	return cmd.Redo()
}

// CanUndo reports whether Undo has a command to revert.
func (s *Stack) CanUndo() bool {
	cmd := s.Top()
	return cmd != nil && cmd.CanUndo() == nil
}

// CanRedo reports whether Redo has a command to re-apply.
func (s *Stack) CanRedo() bool {
	cmd := s.PeekRedo()
	return cmd != nil && cmd.CanRedo() == nil
}

// Top returns the command Undo would revert, or nil.
func (s *Stack) Top() Command {
	if len(s.done) == 0 {
		return nil
	}
	return s.done[len(s.done)-1]
}

// PeekRedo returns the command Redo would re-apply, or nil.
func (s *Stack) PeekRedo() Command {
	if len(s.undone) == 0 {
		return nil
	}
	return s.undone[len(s.undone)-1]
}

// Len returns the number of undoable commands.
func (s *Stack) Len() int { return len(s.done) }

// Clear forgets the whole history. The graph is left as it is.
func (s *Stack) Clear() {
	s.done, s.undone = nil, nil
}
