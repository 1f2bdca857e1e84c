package trace

import (
	"fmt"
	"io"

	"github.com/shamaton/msgpack/v2"
	"github.com/timewinder-dev/cmdqueue/exec"
)

type EventKind uint8

const (
	CommandEvent EventKind = iota
	ReturnEvent
	ErrorEvent
	CallEvent
)

func (k EventKind) String() string {
	switch k {
	case CommandEvent:
		return "Command"
	case ReturnEvent:
		return "Return"
	case ErrorEvent:
		return "Error"
	case CallEvent:
		return "Call"
	default:
		return fmt.Sprintf("Unknown(%d)", k)
	}
}

// Event is one tracer callback. Value holds the result for ReturnEvent and
// the entry count for CallEvent.
type Event struct {
	Kind  EventKind
	Depth int
	Text  string
	Value int
}

type Recording struct {
	Run    string
	Events []Event
}

// Replay feeds the recorded events to t, in order. t is not closed.
func (r *Recording) Replay(t exec.Tracer) {
	for _, e := range r.Events {
		switch e.Kind {
		case CommandEvent:
			t.OnCommand(e.Depth, e.Text)
		case ReturnEvent:
			t.OnReturn(e.Depth, e.Text, e.Value)
		case ErrorEvent:
			t.OnError(e.Text)
		case CallEvent:
			t.OnCall(e.Depth, e.Text, e.Value)
		}
	}
}

// Recorder collects events in memory and writes them as one msgpack
// Recording when closed. If the writer is an io.Closer it is closed too.
type Recorder struct {
	w   io.Writer
	rec Recording
}

func NewRecorder(w io.Writer, run string) *Recorder {
	return &Recorder{
		w:   w,
		rec: Recording{Run: run},
	}
}

func (r *Recorder) add(e Event) {
	r.rec.Events = append(r.rec.Events, e)
}

func (r *Recorder) OnCommand(depth int, command string) {
	r.add(Event{Kind: CommandEvent, Depth: depth, Text: command})
}

func (r *Recorder) OnReturn(depth int, command string, result int) {
	r.add(Event{Kind: ReturnEvent, Depth: depth, Text: command, Value: result})
}

func (r *Recorder) OnError(message string) {
	r.add(Event{Kind: ErrorEvent, Text: message})
}

func (r *Recorder) OnCall(depth int, function string, entries int) {
	r.add(Event{Kind: CallEvent, Depth: depth, Text: function, Value: entries})
}

func (r *Recorder) Events() []Event {
	return r.rec.Events
}

func (r *Recorder) Close() error {
	err := msgpack.MarshalWrite(r.w, &r.rec)
	if c, ok := r.w.(io.Closer); ok {
		if cerr := c.Close(); err == nil {
			err = cerr
		}
	}
	if err != nil {
		return fmt.Errorf("writing trace recording: %w", err)
	}
	return nil
}

func ReadRecording(r io.Reader) (*Recording, error) {
	var rec Recording
	if err := msgpack.UnmarshalRead(r, &rec); err != nil {
		return nil, fmt.Errorf("reading trace recording: %w", err)
	}
	return &rec, nil
}
