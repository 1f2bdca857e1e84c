package command

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/timewinder-dev/cmdqueue/exec"
)

// BuildContexts walks the steps of a chain for one source, starting at
// Start. Forking steps queue one continuation per resulting source; the
// last branch step runs the leaf command.
type BuildContexts struct {
	Source    *Source
	Chain     *Chain
	Text      string // Traced command text. Defaults to Chain.Text.
	Start     int
	Modifiers exec.ChainModifiers
}

func (b *BuildContexts) text() string {
	if b.Text != "" {
		return b.Text
	}
	return b.Chain.Text
}

func (b *BuildContexts) Execute(ctx *exec.Context, frame exec.Frame) {
	if b.Start == 0 {
		if t := ctx.Tracer(); t != nil {
			t.OnCommand(frame.Depth, b.text())
		}
	}
	src := b.Source
	mods := b.Modifiers
	for i := b.Start; i < len(b.Chain.Steps); i++ {
		step := b.Chain.Steps[i]
		if step.Return {
			mods = mods.SetReturn()
			continue
		}
		sources, err := step.Modifier(src)
		if err != nil {
			b.fail(ctx, frame, src, mods, err)
			return
		}
		if len(sources) == 0 {
			log.Trace().Str("step", step.Name).Str("command", b.text()).Msg("BuildContexts: no sources left")
			b.resolveFailure(frame, src, mods)
			return
		}
		if !step.Fork {
			src = sources[0]
			continue
		}
		if len(sources) > ctx.ForkLimit() {
			b.fail(ctx, frame, src, mods, fmt.Errorf("%w: %s selected %d sources, limit is %d",
				ErrForkLimit, step.Name, len(sources), ctx.ForkLimit()))
			return
		}
		ctl := exec.NewControl(ctx, frame)
		for _, s := range sources {
			ctl.QueueNext(&BuildContexts{
				Source:    s,
				Chain:     b.Chain,
				Text:      b.Text,
				Start:     i + 1,
				Modifiers: mods.SetForked(),
			})
		}
		return
	}
	b.runLeaf(ctx, frame, src, mods)
}

func (b *BuildContexts) runLeaf(ctx *exec.Context, frame exec.Frame, src *Source, mods exec.ChainModifiers) {
	ctx.IncrementCost()
	if b.Chain.Custom != nil {
		if err := b.Chain.Custom.Run(src, b.Chain, mods, exec.NewControl(ctx, frame)); err != nil {
			b.fail(ctx, frame, src, mods, err)
		}
		return
	}
	result, err := b.Chain.Command.Execute(src)
	if err != nil {
		b.fail(ctx, frame, src, mods, err)
		return
	}
	if t := ctx.Tracer(); t != nil {
		t.OnReturn(frame.Depth, b.text(), result)
	}
	if mods.IsReturn() {
		frame.ReturnSuccess(result)
		frame.Discard()
		return
	}
	src.callback().OnSuccess(result)
}

// fail reports a command failure to the source and tracer before resolving.
func (b *BuildContexts) fail(ctx *exec.Context, frame exec.Frame, src *Source, mods exec.ChainModifiers, err error) {
	msg := err.Error()
	log.Debug().Err(err).Str("command", b.text()).Int("depth", frame.Depth).Msg("command failed")
	src.SendFailure(msg)
	if t := ctx.Tracer(); t != nil {
		t.OnError(msg)
	}
	b.resolveFailure(frame, src, mods)
}

func (b *BuildContexts) resolveFailure(frame exec.Frame, src *Source, mods exec.ChainModifiers) {
	src.callback().OnFailure()
	if mods.IsReturn() {
		frame.ReturnFailure()
		frame.Discard()
	}
}

// CallFunction enters a function: it creates a child frame one level below
// the caller and queues every line of the function in it, followed by a
// Fallthrough for functions that end without returning.
type CallFunction struct {
	Function *Function
	Source   *Source
	// Consumer receives the function's result. When nil the result goes to
	// the calling frame's consumer.
	Consumer exec.ReturnValueConsumer
	// ReturnParent makes the function's result the caller's result: the
	// calling frame is resolved and discarded when the function returns.
	ReturnParent bool
}

func (c *CallFunction) Execute(ctx *exec.Context, frame exec.Frame) {
	consumer := c.Consumer
	if consumer == nil {
		consumer = frame.Consumer()
	}
	if c.ReturnParent {
		consumer = exec.ReturnFunc(func(success bool, value int) {
			if success {
				frame.ReturnSuccess(value)
			} else {
				frame.ReturnFailure()
			}
			frame.Discard()
		})
	}
	depth := frame.Depth + 1
	child := exec.NewFrame(depth, consumer, ctx.FrameControlForDepth(depth))
	if t := ctx.Tracer(); t != nil {
		t.OnCall(frame.Depth, c.Function.ID, len(c.Function.Lines))
	}
	log.Trace().Str("function", c.Function.ID).Int("depth", depth).Int("lines", len(c.Function.Lines)).Msg("CallFunction: entering")

	body := c.Source.WithCallback(exec.DiscardResult)
	ctl := exec.NewControl(ctx, child)
	for _, line := range c.Function.Lines {
		ctl.QueueNext(&BuildContexts{
			Source:    body,
			Chain:     line,
			Modifiers: exec.DefaultModifiers,
		})
	}
	ctl.QueueNext(Fallthrough{})
}

// Fallthrough resolves a function frame that ran out of lines.
type Fallthrough struct{}

func (Fallthrough) Execute(_ *exec.Context, frame exec.Frame) {
	frame.ReturnFailure()
	frame.Discard()
}

// QueueInitialFunctionCall seeds ctx with a call to fn. callback receives
// the function's result.
func QueueInitialFunctionCall(ctx *exec.Context, fn *Function, src *Source, callback exec.ReturnValueConsumer) {
	ctx.QueueNext(exec.NewQueueEntry(ctx.CreateFrame(callback), &CallFunction{
		Function: fn,
		Source:   src,
	}))
}

// QueueInitialCommandExecution seeds ctx with one parsed command. Per-branch
// results go to the source's callback; callback receives `return` results.
func QueueInitialCommandExecution(ctx *exec.Context, text string, chain *Chain, src *Source, callback exec.ReturnValueConsumer) {
	ctx.QueueNext(exec.NewQueueEntry(ctx.CreateFrame(callback), &BuildContexts{
		Source:    src,
		Chain:     chain,
		Text:      text,
		Modifiers: exec.DefaultModifiers,
	}))
}
