package trace

import (
	"errors"

	"github.com/timewinder-dev/cmdqueue/exec"
)

type multi []exec.Tracer

// Multi fans events out to every non-nil tracer. It returns nil when there
// is nothing to trace to.
func Multi(tracers ...exec.Tracer) exec.Tracer {
	var m multi
	for _, t := range tracers {
		if t != nil {
			m = append(m, t)
		}
	}
	switch len(m) {
	case 0:
		return nil
	case 1:
		return m[0]
	}
	return m
}

func (m multi) OnCommand(depth int, command string) {
	for _, t := range m {
		t.OnCommand(depth, command)
	}
}

func (m multi) OnReturn(depth int, command string, result int) {
	for _, t := range m {
		t.OnReturn(depth, command, result)
	}
}

func (m multi) OnError(message string) {
	for _, t := range m {
		t.OnError(message)
	}
}

func (m multi) OnCall(depth int, function string, entries int) {
	for _, t := range m {
		t.OnCall(depth, function, entries)
	}
}

func (m multi) Close() error {
	var errs []error
	for _, t := range m {
		errs = append(errs, t.Close())
	}
	return errors.Join(errs...)
}
