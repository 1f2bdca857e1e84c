package command

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/timewinder-dev/cmdqueue/exec"
)

type results struct {
	values   []int
	failures int
}

func (r *results) consumer() exec.ReturnValueConsumer {
	return exec.ReturnFunc(func(success bool, value int) {
		if success {
			r.values = append(r.values, value)
		} else {
			r.failures++
		}
	})
}

type event struct {
	Kind    string
	Depth   int
	Text    string
	Value   int
	Entries int
}

type fakeTracer struct {
	events []event
	closed bool
}

func (f *fakeTracer) OnCommand(depth int, cmd string) {
	f.events = append(f.events, event{Kind: "command", Depth: depth, Text: cmd})
}
func (f *fakeTracer) OnReturn(depth int, cmd string, result int) {
	f.events = append(f.events, event{Kind: "return", Depth: depth, Text: cmd, Value: result})
}
func (f *fakeTracer) OnError(msg string) {
	f.events = append(f.events, event{Kind: "error", Text: msg})
}
func (f *fakeTracer) OnCall(depth int, fn string, entries int) {
	f.events = append(f.events, event{Kind: "call", Depth: depth, Text: fn, Entries: entries})
}
func (f *fakeTracer) Close() error {
	f.closed = true
	return nil
}

type harness struct {
	world  *World
	parser *Parser
	out    bytes.Buffer
	tracer *fakeTracer
}

func newHarness(t *testing.T, functions map[string][]string, entities ...*Entity) *harness {
	h := &harness{
		world:  NewWorld(),
		parser: NewParser(0),
		tracer: &fakeTracer{},
	}
	for id, lines := range functions {
		fn, err := CompileFunction(h.parser, id, lines)
		require.NoError(t, err)
		h.world.AddFunction(fn)
	}
	for _, e := range entities {
		h.world.AddEntity(e)
	}
	return h
}

func (h *harness) source() *Source {
	return NewSource(h.world, &h.out)
}

func (h *harness) context(commandLimit, forkLimit int) *exec.Context {
	ctx := exec.NewContext(commandLimit, forkLimit, nil)
	ctx.SetTracer(h.tracer)
	return ctx
}

func (h *harness) callFunction(t *testing.T, id string, commandLimit int) (*results, *exec.Context) {
	fn, ok := h.world.Function(id)
	require.True(t, ok, "function %s", id)
	res := &results{}
	ctx := h.context(commandLimit, 100)
	QueueInitialFunctionCall(ctx, fn, h.source(), res.consumer())
	ctx.RunCommandQueue()
	require.NoError(t, ctx.Close())
	return res, ctx
}

func (h *harness) runCommand(t *testing.T, text string, src *Source, forkLimit int) *results {
	chain, err := h.parser.Parse(text)
	require.NoError(t, err)
	res := &results{}
	ctx := h.context(1000, forkLimit)
	defer ctx.Close()
	QueueInitialCommandExecution(ctx, text, chain, src, res.consumer())
	ctx.RunCommandQueue()
	return res
}
