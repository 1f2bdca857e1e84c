package command

import (
	"strconv"
	"strings"
)

// Parser turns command text into chains, caching by text.
type Parser struct {
	cache *chainCache
}

func NewParser(cacheSize int) *Parser {
	return &Parser{cache: newChainCache(cacheSize)}
}

func (p *Parser) Parse(text string) (*Chain, error) {
	text = strings.TrimSpace(text)
	if c, ok := p.cache.get(text); ok {
		return c, nil
	}
	c, err := Parse(text)
	if err != nil {
		return nil, err
	}
	p.cache.put(text, c)
	return c, nil
}

func (p *Parser) CacheStats() CacheStats {
	return p.cache.stats()
}

// Parse parses one command without caching.
func Parse(text string) (*Chain, error) {
	text = strings.TrimSpace(text)
	toks, err := tokenize(text)
	if err != nil {
		return nil, err
	}
	if len(toks) == 0 {
		return nil, &SyntaxError{Input: text, Msg: "empty command"}
	}
	ps := &parseState{input: text, toks: toks}
	steps, l, err := ps.command()
	if err != nil {
		return nil, err
	}
	return &Chain{
		Text:    text,
		Steps:   steps,
		Command: l.cmd,
		Custom:  l.custom,
	}, nil
}

type leaf struct {
	cmd    Command
	custom CustomCommand
}

type parseState struct {
	input string
	toks  []string
	pos   int
}

func (ps *parseState) errorf(tok, msg string) error {
	return &SyntaxError{Input: ps.input, Token: tok, Msg: msg}
}

func (ps *parseState) next() (string, bool) {
	if ps.pos >= len(ps.toks) {
		return "", false
	}
	t := ps.toks[ps.pos]
	ps.pos++
	return t, true
}

func (ps *parseState) expect(what string) (string, error) {
	t, ok := ps.next()
	if !ok {
		return "", ps.errorf("", "expected "+what)
	}
	return t, nil
}

func (ps *parseState) rest() []string {
	r := ps.toks[ps.pos:]
	ps.pos = len(ps.toks)
	return r
}

func (ps *parseState) done() error {
	if ps.pos < len(ps.toks) {
		return ps.errorf(ps.toks[ps.pos], "unexpected argument")
	}
	return nil
}

func (ps *parseState) integer() (int, error) {
	t, err := ps.expect("integer")
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(t)
	if err != nil {
		return 0, ps.errorf(t, "expected integer")
	}
	return v, nil
}

func (ps *parseState) command() ([]Step, leaf, error) {
	name, err := ps.expect("command")
	if err != nil {
		return nil, leaf{}, err
	}
	switch name {
	case "execute":
		return ps.execute()
	case "return":
		return ps.returnCommand()
	case "function":
		id, err := ps.expect("function id")
		if err != nil {
			return nil, leaf{}, err
		}
		return nil, leaf{custom: &callFunction{id: id}}, ps.done()
	case "say":
		words := ps.rest()
		if len(words) == 0 {
			return nil, leaf{}, ps.errorf(name, "expected message")
		}
		return nil, leaf{cmd: sayCommand(strings.Join(words, " "))}, nil
	case "score":
		cmd, err := ps.score()
		return nil, leaf{cmd: cmd}, err
	}
	return nil, leaf{}, ps.errorf(name, "unknown command")
}

func (ps *parseState) execute() ([]Step, leaf, error) {
	var steps []Step
	for {
		sub, err := ps.expect("execute subcommand")
		if err != nil {
			return nil, leaf{}, err
		}
		switch sub {
		case "as":
			t, err := ps.expect("selector")
			if err != nil {
				return nil, leaf{}, err
			}
			sel, err := ParseSelector(t)
			if err != nil {
				return nil, leaf{}, err
			}
			steps = append(steps, Step{Name: "as " + t, Fork: true, Modifier: asModifier(sel)})
		case "if", "unless":
			t, err := ps.expect("condition")
			if err != nil {
				return nil, leaf{}, err
			}
			cond, err := ParseCondition(t)
			if err != nil {
				return nil, leaf{}, ps.errorf(t, "invalid condition: "+err.Error())
			}
			steps = append(steps, Step{Name: sub + " " + t, Modifier: conditionModifier(cond, sub == "unless")})
		case "run":
			more, cmd, err := ps.command()
			if err != nil {
				return nil, leaf{}, err
			}
			return append(steps, more...), cmd, nil
		default:
			return nil, leaf{}, ps.errorf(sub, "unknown execute subcommand")
		}
	}
}

func (ps *parseState) returnCommand() ([]Step, leaf, error) {
	t, err := ps.expect("return value")
	if err != nil {
		return nil, leaf{}, err
	}
	switch t {
	case "run":
		more, cmd, err := ps.command()
		if err != nil {
			return nil, leaf{}, err
		}
		return append([]Step{{Name: "return run", Return: true}}, more...), cmd, nil
	case "fail":
		return nil, leaf{custom: &returnValue{fail: true}}, ps.done()
	}
	v, err := strconv.Atoi(t)
	if err != nil {
		return nil, leaf{}, ps.errorf(t, "expected integer, 'fail' or 'run'")
	}
	return nil, leaf{custom: &returnValue{value: v}}, ps.done()
}

func (ps *parseState) score() (Command, error) {
	op, err := ps.expect("score operation")
	if err != nil {
		return nil, err
	}
	objective, err := ps.expect("objective")
	if err != nil {
		return nil, err
	}
	switch op {
	case "get":
		return scoreGet(objective), ps.done()
	case "set", "add":
		v, err := ps.integer()
		if err != nil {
			return nil, err
		}
		return scoreUpdate(objective, v, op == "add"), ps.done()
	}
	return nil, ps.errorf(op, "expected get, set or add")
}

// tokenize splits on whitespace; double-quoted tokens use Go string escapes.
func tokenize(s string) ([]string, error) {
	var out []string
	i := 0
	for i < len(s) {
		switch {
		case s[i] == ' ' || s[i] == '\t':
			i++
		case s[i] == '"':
			j := i + 1
			for ; j < len(s) && s[j] != '"'; j++ {
				if s[j] == '\\' {
					j++
				}
			}
			if j >= len(s) {
				return nil, &SyntaxError{Input: s, Token: s[i:], Msg: "unterminated string"}
			}
			v, err := strconv.Unquote(s[i : j+1])
			if err != nil {
				return nil, &SyntaxError{Input: s, Token: s[i : j+1], Msg: "invalid string"}
			}
			out = append(out, v)
			i = j + 1
		default:
			j := i
			for j < len(s) && s[j] != ' ' && s[j] != '\t' {
				j++
			}
			out = append(out, s[i:j])
			i = j
		}
	}
	return out, nil
}
