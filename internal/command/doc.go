// Package command provides reversible graph mutations and a linear undo
// history.
//
// # Why Command Exists
//
// The graph engine applies mutations immediately and keeps no history. Editors
// and tools need to take changes back, so this package wraps each mutation in
// a Command that records everything the mutation changed, including opposite
// mirroring, container moves and deletion cascades, and can revert or replay
// it as one step.
//
// # Lifecycle
//
// Every command moves through Created -> Executed -> Undone -> Executed ...
// Calling an operation out of order fails with mgerr.IllegalStateError:
// Execute twice without an Undo in between, Undo before Execute, Redo without
// a preceding Undo.
//
// CanExecute runs exactly the validation the mutation runs, so an Execute
// following a successful CanExecute does not fail on validation, as long as
// nothing else changed the graph in between.
//
// Undo and Redo are guarded against the graph itself. CanUndo walks the
// command's journal backwards over the live slots and fails with an
// IllegalStateError wrapping mgerr.ConflictError when a slot no longer holds
// what the command left in it, for example after a direct Move or Remove on
// the same feature. CanRedo does the same forwards. When the guard passes,
// Undo restores the graph exactly; when it fails, nothing is changed.
//
// # Compound
//
// A Compound is admitted only when every sub-command passes CanExecute
// against the current graph. Admission is all-or-nothing; execution is not.
// A sub-command failing after admission leaves the earlier ones applied, and
// the compound can still be undone over that prefix.
//
// # Stack
//
// Stack keeps a linear history. Executing a new command discards everything
// that had been undone.
package command
