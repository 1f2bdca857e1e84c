package command

import (
	"strings"
)

type selectorKind int

const (
	selectSelf selectorKind = iota
	selectAll
	selectName
)

// Selector picks entities: `@s`, `@e`, `@e[tag=<tag>]` or a plain name.
type Selector struct {
	Text string
	kind selectorKind
	tag  string
}

func ParseSelector(s string) (Selector, error) {
	switch {
	case s == "@s":
		return Selector{Text: s, kind: selectSelf}, nil
	case s == "@e":
		return Selector{Text: s, kind: selectAll}, nil
	case strings.HasPrefix(s, "@e[") && strings.HasSuffix(s, "]"):
		k, v, ok := strings.Cut(s[3:len(s)-1], "=")
		if !ok || k != "tag" || v == "" {
			return Selector{}, &SyntaxError{Input: s, Token: s[3 : len(s)-1], Msg: "expected tag=<name>"}
		}
		return Selector{Text: s, kind: selectAll, tag: v}, nil
	case strings.HasPrefix(s, "@"):
		return Selector{}, &SyntaxError{Input: s, Token: s, Msg: "unknown selector"}
	case s == "":
		return Selector{}, &SyntaxError{Input: s, Msg: "expected selector"}
	}
	return Selector{Text: s, kind: selectName}, nil
}

func (sel Selector) Select(src *Source) []*Entity {
	switch sel.kind {
	case selectSelf:
		if src.Entity == nil {
			return nil
		}
		return []*Entity{src.Entity}
	case selectName:
		if e, ok := src.World.Entity(sel.Text); ok {
			return []*Entity{e}
		}
		return nil
	}
	var out []*Entity
	for _, e := range src.World.Entities {
		if sel.tag == "" || e.HasTag(sel.tag) {
			out = append(out, e)
		}
	}
	return out
}
