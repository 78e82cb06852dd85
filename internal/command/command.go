package command

import (
	"github.com/specialistvlad/metagraph/internal/graph"
	"github.com/specialistvlad/metagraph/internal/mgerr"
)

// Command is a reversible mutation.
type Command interface {
	// Label describes the command for logs and menus.
	Label() string
	State() State
	// CanExecute returns nil when Execute would succeed, or the error it
	// would fail with.
	CanExecute() error
	Execute() error
	// CanUndo returns nil when Undo would restore the graph exactly, which
	// also requires nothing to have changed what the command wrote.
	CanUndo() error
	Undo() error
	CanRedo() error
	Redo() error
}

// recorder is implemented by commands whose effect is a graph journal.
type recorder interface {
	recorded() *graph.Journal
}

// base holds the lifecycle shared by the single-mutation commands. apply is
// the mutation; check its validation.
type base struct {
	engine  *graph.Engine
	label   string
	state   State
	journal *graph.Journal

	check func() error
	apply func() error
}

func (b *base) Label() string { return b.label }
func (b *base) State() State  { return b.state }

func (b *base) illegal(op string) error {
	return &mgerr.IllegalStateError{Command: b.label, Op: op, State: b.state.String()}
}

func (b *base) recorded() *graph.Journal { return b.journal }

// stale wraps a journal conflict found while checking op.
func stale(label, op string, state State, err error) error {
	return &mgerr.IllegalStateError{Command: label, Op: op, State: state.String(), Err: err}
}

func (b *base) CanExecute() error {
	if b.state == Executed {
		return b.illegal("execute")
	}
	return b.check()
}

// Execute applies the mutation. An observer failing after the mutation took
// effect still leaves the command executed, so it can be undone.
func (b *base) Execute() error {
	if err := b.CanExecute(); err != nil {
		return err
	}
	j, err := b.engine.Record(b.apply)
	if err == nil || j.Len() > 0 {
		b.journal = j
		b.state = Executed
	}
	return err
}

func (b *base) CanUndo() error {
	if b.state != Executed || b.journal == nil {
		return b.illegal("undo")
	}
	if err := b.journal.CanRevert(); err != nil {
		return stale(b.label, "undo", b.state, err)
	}
	return nil
}

func (b *base) Undo() error {
	if err := b.CanUndo(); err != nil {
		return err
	}
	b.state = Undone
	return b.engine.Revert(b.journal)
}

func (b *base) CanRedo() error {
	if b.state != Undone || b.journal == nil {
		return b.illegal("redo")
	}
	if err := b.journal.CanReplay(); err != nil {
		return stale(b.label, "redo", b.state, err)
	}
	return nil
}

func (b *base) Redo() error {
	if err := b.CanRedo(); err != nil {
		return err
	}
	b.state = Executed
	return b.engine.Replay(b.journal)
}
