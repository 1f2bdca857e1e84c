package command

import (
	"github.com/timewinder-dev/cmdqueue/exec"
)

// A Chain is one parsed command: the redirect steps of `execute` (or
// `return run`) followed by the leaf command. Exactly one of Command and
// Custom is set.
type Chain struct {
	Text    string
	Steps   []Step
	Command Command
	Custom  CustomCommand
}

// Modifier maps a source to the sources the rest of the chain runs as.
// Filters return zero or one source; forks may return any number.
type Modifier func(src *Source) ([]*Source, error)

type Step struct {
	Name string
	// Fork marks steps whose results run as independent queued branches.
	Fork bool
	// Return marks `return run`: the leaf result resolves the frame.
	Return   bool
	Modifier Modifier
}

// Command is a leaf that runs to completion and reports a result.
type Command interface {
	Execute(src *Source) (int, error)
}

type CommandFunc func(src *Source) (int, error)

func (f CommandFunc) Execute(src *Source) (int, error) {
	return f(src)
}

// CustomCommand is a leaf that drives the scheduler itself, queueing
// continuations or resolving the frame through ctl.
type CustomCommand interface {
	Run(src *Source, chain *Chain, mods exec.ChainModifiers, ctl *exec.Control) error
}
