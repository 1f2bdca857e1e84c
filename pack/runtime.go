package pack

import (
	"bytes"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
	"github.com/timewinder-dev/cmdqueue/command"
	"github.com/timewinder-dev/cmdqueue/exec"
)

// Runtime runs commands against a built pack. Each invocation gets a fresh
// exec.Context; the world persists between invocations. A Runtime is not
// safe for concurrent use.
type Runtime struct {
	World  *command.World
	Parser *command.Parser
	Limits Limits
}

type RunOptions struct {
	Tracer   exec.Tracer
	Profiler exec.Profiler
	// Output also receives command messages as they are produced.
	Output io.Writer
	// CommandLimit and ForkLimit override the pack limits when positive.
	CommandLimit int
	ForkLimit    int
}

type Result struct {
	// Returns counts frame resolutions; a forked return may resolve more
	// than once. Value and Failed describe the first one.
	Returns int
	Value   int
	Failed  bool

	// Successes and Failures count per-branch results of a top-level
	// command.
	Successes int
	Failures  int

	CommandsRun    int
	QuotaExhausted bool
	Overflow       bool
	Pending        int
	Output         string
}

func (r *Runtime) RunFunction(id string, opts RunOptions) (*Result, error) {
	fn, ok := r.World.Function(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", command.ErrUnknownFunction, id)
	}
	return r.run(opts, func(ctx *exec.Context, src *command.Source, cb exec.ReturnValueConsumer) {
		command.QueueInitialFunctionCall(ctx, fn, src, cb)
	})
}

func (r *Runtime) RunCommand(text string, opts RunOptions) (*Result, error) {
	chain, err := r.Parser.Parse(text)
	if err != nil {
		return nil, err
	}
	return r.run(opts, func(ctx *exec.Context, src *command.Source, cb exec.ReturnValueConsumer) {
		command.QueueInitialCommandExecution(ctx, text, chain, src, cb)
	})
}

type seedFunc func(ctx *exec.Context, src *command.Source, cb exec.ReturnValueConsumer)

func (r *Runtime) run(opts RunOptions, seed seedFunc) (res *Result, err error) {
	limits := r.Limits
	if opts.CommandLimit > 0 {
		limits.CommandLimit = opts.CommandLimit
	}
	if opts.ForkLimit > 0 {
		limits.ForkLimit = opts.ForkLimit
	}
	ctx := exec.New(exec.Options{
		CommandLimit:  limits.CommandLimit,
		ForkLimit:     limits.ForkLimit,
		MaxQueueDepth: limits.MaxQueueDepth,
		Profiler:      opts.Profiler,
	})
	defer func() {
		if cerr := ctx.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("closing tracer: %w", cerr)
		}
	}()
	if opts.Tracer != nil {
		ctx.SetTracer(opts.Tracer)
	}

	var buf bytes.Buffer
	var out io.Writer = &buf
	if opts.Output != nil {
		out = io.MultiWriter(&buf, opts.Output)
	}
	res = &Result{}
	src := command.NewSource(r.World, out).WithCallback(exec.ReturnFunc(func(success bool, _ int) {
		if success {
			res.Successes++
		} else {
			res.Failures++
		}
	}))
	seed(ctx, src, exec.ReturnFunc(func(success bool, value int) {
		res.Returns++
		if res.Returns == 1 {
			res.Value = value
			res.Failed = !success
		}
	}))

	log.Debug().Str("run", ctx.ID().String()).Int("command_limit", limits.CommandLimit).Int("fork_limit", limits.ForkLimit).Msg("Running command queue")
	ctx.RunCommandQueue()

	res.CommandsRun = ctx.CommandLimit() - ctx.CommandQuota()
	res.QuotaExhausted = ctx.CommandQuota() <= 0
	res.Overflow = ctx.Overflowed()
	res.Pending = ctx.Pending()
	res.Output = buf.String()
	log.Debug().Str("run", ctx.ID().String()).Int("commands", res.CommandsRun).Int("pending", res.Pending).Msg("Command queue finished")
	return res, nil
}
