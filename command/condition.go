package command

import (
	"fmt"
	"sort"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Bounds the work a single condition may do, keeping tasks non-blocking.
const maxConditionSteps = 10_000

// Condition is a Starlark expression evaluated per source. It sees the
// predeclared names `name`, `tags` and `scores`.
type Condition struct {
	Text string
	expr syntax.Expr
}

func ParseCondition(src string) (*Condition, error) {
	opts := syntax.FileOptions{}
	expr, err := opts.ParseExpr("condition", src, 0)
	if err != nil {
		return nil, err
	}
	return &Condition{
		Text: src,
		expr: expr,
	}, nil
}

func (c *Condition) Eval(src *Source) (bool, error) {
	thread := &starlark.Thread{Name: "condition"}
	thread.SetMaxExecutionSteps(maxConditionSteps)
	opts := syntax.FileOptions{}
	v, err := starlark.EvalExprOptions(&opts, thread, c.expr, conditionEnv(src))
	if err != nil {
		return false, fmt.Errorf("evaluating `%s`: %w", c.Text, err)
	}
	return bool(v.Truth()), nil
}

func conditionEnv(src *Source) starlark.StringDict {
	var tags []starlark.Value
	if src.Entity != nil {
		for _, t := range src.Entity.Tags {
			tags = append(tags, starlark.String(t))
		}
	}
	table := src.Scores()
	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	scores := starlark.NewDict(len(keys))
	for _, k := range keys {
		scores.SetKey(starlark.String(k), starlark.MakeInt(table[k]))
	}
	return starlark.StringDict{
		"name":   starlark.String(src.Name()),
		"tags":   starlark.NewList(tags),
		"scores": scores,
	}
}
