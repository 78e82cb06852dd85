package command

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/metagraph/internal/graph"
	"github.com/specialistvlad/metagraph/internal/mgerr"
)

// Compound runs several commands as one undoable step.
type Compound struct {
	label    string
	state    State
	commands []Command
	// done counts the sub-commands executed by the last Execute.
	done int
}

// NewCompound groups commands, executed in order and undone in reverse.
func NewCompound(label string, commands ...Command) *Compound {
	return &Compound{label: label, commands: commands}
}

func (c *Compound) Label() string { return c.label }
func (c *Compound) State() State  { return c.state }

// Commands returns the sub-commands.
func (c *Compound) Commands() []Command { return append([]Command(nil), c.commands...) }

func (c *Compound) illegal(op string) error {
	return &mgerr.IllegalStateError{Command: c.label, Op: op, State: c.state.String()}
}

// CanExecute requires every sub-command to pass its own CanExecute and
// reports all that do not.
func (c *Compound) CanExecute() error {
	if c.state == Executed {
		return c.illegal("execute")
	}
	if len(c.commands) == 0 {
		return fmt.Errorf("compound %q has no commands", c.label)
	}
	var errs []error
	for _, cmd := range c.commands {
		if err := cmd.CanExecute(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", cmd.Label(), err))
		}
	}
	return errors.Join(errs...)
}

// Execute runs the sub-commands in order once all of them are admitted.
func (c *Compound) Execute() error {
	if err := c.CanExecute(); err != nil {
		return err
	}
	c.done = 0
	for _, cmd := range c.commands {
		err := cmd.Execute()
		if cmd.State() == Executed {
			c.done++
		}
		if err != nil {
			if c.done > 0 {
				c.state = Executed
			}
			return fmt.Errorf("%s: %w", cmd.Label(), err)
		}
	}
	c.state = Executed
	return nil
}

// CanUndo checks the executed sub-commands as one sequence: a later
// sub-command may overwrite what an earlier one wrote.
func (c *Compound) CanUndo() error {
	if c.state != Executed {
		return c.illegal("undo")
	}
	j, ok := c.recorded(), c.allRecorded()
	if !ok {
		for i := c.done - 1; i >= 0; i-- {
			if err := c.commands[i].CanUndo(); err != nil {
				return err
			}
		}
		return nil
	}
	if err := j.CanRevert(); err != nil {
		return stale(c.label, "undo", c.state, err)
	}
	return nil
}

func (c *Compound) CanRedo() error {
	if c.state != Undone {
		return c.illegal("redo")
	}
	if !c.allRecorded() {
		for _, cmd := range c.commands[:c.done] {
			if err := cmd.CanRedo(); err != nil {
				return err
			}
		}
		return nil
	}
	if err := c.recorded().CanReplay(); err != nil {
		return stale(c.label, "redo", c.state, err)
	}
	return nil
}

// recorded joins the journals of the executed sub-commands.
func (c *Compound) recorded() *graph.Journal {
	js := make([]*graph.Journal, 0, c.done)
	for _, cmd := range c.commands[:c.done] {
		if r, ok := cmd.(recorder); ok {
			js = append(js, r.recorded())
		}
	}
	return graph.Join(js...)
}

func (c *Compound) allRecorded() bool {
	for _, cmd := range c.commands[:c.done] {
		if _, ok := cmd.(recorder); !ok {
			return false
		}
		if sub, ok := cmd.(*Compound); ok && !sub.allRecorded() {
			return false
		}
	}
	return true
}

// Undo reverts the executed sub-commands, last first.
func (c *Compound) Undo() error {
	if err := c.CanUndo(); err != nil {
		return err
	}
	c.state = Undone
	for i := c.done - 1; i >= 0; i-- {
		if err := c.commands[i].Undo(); err != nil {
			return err
		}
	}
	return nil
}

// Redo re-applies the sub-commands Undo reverted.
func (c *Compound) Redo() error {
	if err := c.CanRedo(); err != nil {
		return err
	}
	c.state = Executed
	for _, cmd := range c.commands[:c.done] {
		if err := cmd.Redo(); err != nil {
			return err
		}
	}
	return nil
}
