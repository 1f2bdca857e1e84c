package command

import (
	"fmt"

	"github.com/timewinder-dev/cmdqueue/exec"
)

func sayCommand(msg string) Command {
	return CommandFunc(func(src *Source) (int, error) {
		src.SendMessage(msg)
		return 1, nil
	})
}

func scoreGet(objective string) Command {
	return CommandFunc(func(src *Source) (int, error) {
		v, ok := src.Scores()[objective]
		if !ok {
			return 0, fmt.Errorf("%w: %s for %s", ErrNoScore, objective, src.Name())
		}
		return v, nil
	})
}

func scoreUpdate(objective string, v int, add bool) Command {
	return CommandFunc(func(src *Source) (int, error) {
		table := src.Scores()
		result := v
		if add {
			result += table[objective]
		}
		table[objective] = result
		return result, nil
	})
}

func asModifier(sel Selector) Modifier {
	return func(src *Source) ([]*Source, error) {
		entities := sel.Select(src)
		out := make([]*Source, 0, len(entities))
		for _, e := range entities {
			out = append(out, src.WithEntity(e))
		}
		return out, nil
	}
}

func conditionModifier(cond *Condition, negate bool) Modifier {
	return func(src *Source) ([]*Source, error) {
		ok, err := cond.Eval(src)
		if err != nil {
			return nil, err
		}
		if ok == negate {
			return nil, nil
		}
		return []*Source{src}, nil
	}
}

// callFunction is `function <id>`. The function is resolved when the
// command runs so that functions may reference ones loaded later.
type callFunction struct {
	id string
}

func (c *callFunction) Run(src *Source, _ *Chain, mods exec.ChainModifiers, ctl *exec.Control) error {
	fn, ok := src.World.Function(c.id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownFunction, c.id)
	}
	call := &CallFunction{
		Function:     fn,
		Source:       src,
		ReturnParent: mods.IsReturn(),
	}
	if !mods.IsReturn() {
		call.Consumer = src.callback()
	}
	ctl.QueueNext(call)
	return nil
}

// returnValue is `return <value>` and `return fail`.
type returnValue struct {
	value int
	fail  bool
}

func (r *returnValue) Run(_ *Source, chain *Chain, _ exec.ChainModifiers, ctl *exec.Control) error {
	frame := ctl.CurrentFrame()
	if r.fail {
		frame.ReturnFailure()
	} else {
		if t := ctl.Tracer(); t != nil {
			t.OnReturn(frame.Depth, chain.Text, r.value)
		}
		frame.ReturnSuccess(r.value)
	}
	frame.Discard()
	return nil
}
