package command

import (
	"fmt"
	"io"
	"slices"

	"github.com/timewinder-dev/cmdqueue/exec"
)

type Entity struct {
	Name   string
	Tags   []string
	Scores map[string]int
}

func (e *Entity) HasTag(tag string) bool {
	return slices.Contains(e.Tags, tag)
}

// World is everything commands can observe or change: entities, the server
// score table and the loaded functions.
type World struct {
	Entities  []*Entity
	Functions map[string]*Function
	Scores    map[string]int
}

func NewWorld() *World {
	return &World{
		Functions: make(map[string]*Function),
		Scores:    make(map[string]int),
	}
}

func (w *World) AddEntity(e *Entity) {
	w.Entities = append(w.Entities, e)
}

func (w *World) AddFunction(fn *Function) {
	w.Functions[fn.ID] = fn
}

func (w *World) Function(id string) (*Function, bool) {
	fn, ok := w.Functions[id]
	return fn, ok
}

func (w *World) Entity(name string) (*Entity, bool) {
	for _, e := range w.Entities {
		if e.Name == name {
			return e, true
		}
	}
	return nil, false
}

// Source is who a command runs as. Sources are immutable once built; the
// With* helpers return modified copies.
type Source struct {
	Entity   *Entity // nil means the server
	World    *World
	Output   io.Writer
	Callback exec.ReturnValueConsumer
}

func NewSource(w *World, out io.Writer) *Source {
	if out == nil {
		out = io.Discard
	}
	return &Source{
		World:  w,
		Output: out,
	}
}

func (s *Source) Name() string {
	if s.Entity == nil {
		return "Server"
	}
	return s.Entity.Name
}

func (s *Source) WithEntity(e *Entity) *Source {
	c := *s
	c.Entity = e
	return &c
}

func (s *Source) WithCallback(cb exec.ReturnValueConsumer) *Source {
	c := *s
	c.Callback = cb
	return &c
}

func (s *Source) callback() exec.ReturnValueConsumer {
	if s.Callback == nil {
		return exec.DiscardResult
	}
	return s.Callback
}

// Scores returns the score table commands from this source read and write.
func (s *Source) Scores() map[string]int {
	if s.Entity == nil {
		if s.World.Scores == nil {
			s.World.Scores = make(map[string]int)
		}
		return s.World.Scores
	}
	if s.Entity.Scores == nil {
		s.Entity.Scores = make(map[string]int)
	}
	return s.Entity.Scores
}

func (s *Source) SendMessage(msg string) {
	fmt.Fprintf(s.Output, "[%s] %s\n", s.Name(), msg)
}

func (s *Source) SendFailure(msg string) {
	fmt.Fprintf(s.Output, "[%s] error: %s\n", s.Name(), msg)
}
