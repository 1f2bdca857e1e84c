package command

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReturnPrunesRemainingLines(t *testing.T) {
	h := newHarness(t, map[string][]string{
		"demo:a": {"say one", "return 3", "say two"},
	})
	res, ctx := h.callFunction(t, "demo:a", 100)
	require.Equal(t, "[Server] one\n", h.out.String())
	require.Equal(t, []int{3}, res.values)
	require.Zero(t, res.failures)
	require.Equal(t, 0, ctx.Pending())
	require.True(t, h.tracer.closed)
}

func TestNestedCallsRunDepthFirst(t *testing.T) {
	h := newHarness(t, map[string][]string{
		"main": {"say start", "function b", "say end"},
		"b":    {"say b1", "function c", "say b2"},
		"c":    {"say c"},
	})
	res, _ := h.callFunction(t, "main", 100)
	require.Equal(t, "[Server] start\n[Server] b1\n[Server] c\n[Server] b2\n[Server] end\n", h.out.String())
	require.Empty(t, res.values)
	require.Equal(t, 1, res.failures, "main falls through without a return")
}

func TestReturnInChildLeavesCallerRunning(t *testing.T) {
	h := newHarness(t, map[string][]string{
		"main":  {"function child", "say after", "return 1"},
		"child": {"return 7", "say unreachable"},
	})
	res, _ := h.callFunction(t, "main", 100)
	require.Equal(t, "[Server] after\n", h.out.String())
	require.Equal(t, []int{1}, res.values)
}

func TestReturnRunFunctionPropagates(t *testing.T) {
	h := newHarness(t, map[string][]string{
		"main":  {"return run function child", "say unreachable"},
		"child": {"say in child", "return 9"},
	})
	res, _ := h.callFunction(t, "main", 100)
	require.Equal(t, "[Server] in child\n", h.out.String())
	require.Equal(t, []int{9}, res.values)
	require.Zero(t, res.failures)
}

func TestForkedCallbackFiresPerBranch(t *testing.T) {
	a := &Entity{Name: "a", Tags: []string{"t"}}
	b := &Entity{Name: "b", Tags: []string{"t"}}
	c := &Entity{Name: "c"}
	h := newHarness(t, nil, a, b, c)
	branch := &results{}
	src := h.source().WithCallback(branch.consumer())
	top := h.runCommand(t, "execute as @e[tag=t] run score add x 1", src, 10)
	require.Equal(t, []int{1, 1}, branch.values)
	require.Empty(t, top.values)
	require.Equal(t, 1, a.Scores["x"])
	require.Equal(t, 1, b.Scores["x"])
	require.Nil(t, c.Scores)
}

func TestForkLimitIsReported(t *testing.T) {
	h := newHarness(t, nil, &Entity{Name: "a"}, &Entity{Name: "b"}, &Entity{Name: "c"})
	branch := &results{}
	src := h.source().WithCallback(branch.consumer())
	h.runCommand(t, "execute as @e run say hi", src, 2)
	require.Contains(t, h.out.String(), "error: too many forks")
	require.NotContains(t, h.out.String(), "hi")
	require.Equal(t, 1, branch.failures)
	require.Equal(t, "error", h.tracer.events[len(h.tracer.events)-1].Kind)
}

func TestConditions(t *testing.T) {
	alice := &Entity{Name: "alice", Tags: []string{"player"}, Scores: map[string]int{"x": 3}}
	h := newHarness(t, nil, alice)

	branch := &results{}
	src := h.source().WithCallback(branch.consumer())
	h.runCommand(t, `execute as alice if "scores['x'] > 2 and 'player' in tags" run say big`, src, 10)
	require.Equal(t, "[alice] big\n", h.out.String())
	require.Equal(t, []int{1}, branch.values)

	h.out.Reset()
	h.runCommand(t, `execute as alice unless "scores['x'] > 2" run say small`, src, 10)
	require.Empty(t, h.out.String())
	require.Equal(t, 1, branch.failures)
}

func TestConditionRuntimeErrorIsReported(t *testing.T) {
	h := newHarness(t, nil, &Entity{Name: "alice"})
	branch := &results{}
	h.runCommand(t, `execute as alice if "scores['missing'] > 0" run say x`, h.source().WithCallback(branch.consumer()), 10)
	require.Contains(t, h.out.String(), "[alice] error: evaluating")
	require.Equal(t, 1, branch.failures)
}

func TestFirstForkedReturnDiscardsSiblings(t *testing.T) {
	a := &Entity{Name: "a", Scores: map[string]int{"x": 1}}
	b := &Entity{Name: "b", Scores: map[string]int{"x": 2}}
	h := newHarness(t, map[string][]string{
		"f": {"execute as @e run return run score get x", "say unreachable"},
	}, a, b)
	res, ctx := h.callFunction(t, "f", 100)
	require.Equal(t, []int{1}, res.values)
	require.Empty(t, h.out.String())
	require.Equal(t, 0, ctx.Pending())
}

func TestQuotaStopsRecursion(t *testing.T) {
	h := newHarness(t, map[string][]string{
		"loop": {"score add n 1", "function loop"},
	})
	res, ctx := h.callFunction(t, "loop", 50)
	require.Equal(t, 0, ctx.CommandQuota())
	require.Equal(t, 25, h.world.Scores["n"])
	require.Positive(t, ctx.Pending())
	require.Empty(t, res.values)
	require.Zero(t, res.failures)
}

func TestUnknownFunctionIsBranchLocal(t *testing.T) {
	h := newHarness(t, map[string][]string{
		"main": {"function nope", "say after"},
	})
	h.callFunction(t, "main", 100)
	require.Equal(t, "[Server] error: unknown function: nope\n[Server] after\n", h.out.String())
}

func TestReturnFail(t *testing.T) {
	h := newHarness(t, map[string][]string{
		"main": {"return fail", "say unreachable"},
	})
	res, _ := h.callFunction(t, "main", 100)
	require.Empty(t, res.values)
	require.Equal(t, 1, res.failures)
	require.Empty(t, h.out.String())
}

func TestTracerEvents(t *testing.T) {
	h := newHarness(t, map[string][]string{
		"main":  {"function child", "return 2"},
		"child": {"say hi"},
	})
	h.callFunction(t, "main", 100)
	require.Equal(t, []event{
		{Kind: "call", Depth: 0, Text: "main", Entries: 2},
		{Kind: "command", Depth: 1, Text: "function child"},
		{Kind: "call", Depth: 1, Text: "child", Entries: 1},
		{Kind: "command", Depth: 2, Text: "say hi"},
		{Kind: "return", Depth: 2, Text: "say hi", Value: 1},
		{Kind: "command", Depth: 1, Text: "return 2"},
		{Kind: "return", Depth: 1, Text: "return 2", Value: 2},
	}, h.tracer.events)
}

func TestTopLevelReturnRun(t *testing.T) {
	h := newHarness(t, nil)
	res := h.runCommand(t, "return run score set y 4", h.source(), 10)
	require.Equal(t, []int{4}, res.values)
	require.Equal(t, 4, h.world.Scores["y"])
}
