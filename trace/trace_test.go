package trace

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/gookit/color"
	"github.com/stretchr/testify/require"
	"github.com/timewinder-dev/cmdqueue/exec"
)

func emit(t exec.Tracer) {
	t.OnCall(0, "demo:main", 2)
	t.OnCommand(1, "say hi")
	t.OnReturn(1, "say hi", 1)
	t.OnError("unknown function: nope")
}

var emitted = []Event{
	{Kind: CallEvent, Depth: 0, Text: "demo:main", Value: 2},
	{Kind: CommandEvent, Depth: 1, Text: "say hi"},
	{Kind: ReturnEvent, Depth: 1, Text: "say hi", Value: 1},
	{Kind: ErrorEvent, Text: "unknown function: nope"},
}

func TestRecorderRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	rec := NewRecorder(&buf, "run-1")
	emit(rec)
	if diff := cmp.Diff(emitted, rec.Events()); diff != "" {
		t.Errorf("recorded events mismatch (-want +got):\n%s", diff)
	}
	require.NoError(t, rec.Close())

	got, err := ReadRecording(&buf)
	require.NoError(t, err)
	require.Equal(t, "run-1", got.Run)
	if diff := cmp.Diff(emitted, got.Events); diff != "" {
		t.Errorf("decoded events mismatch (-want +got):\n%s", diff)
	}

	replayed := NewRecorder(&bytes.Buffer{}, "replay")
	got.Replay(replayed)
	if diff := cmp.Diff(emitted, replayed.Events()); diff != "" {
		t.Errorf("replayed events mismatch (-want +got):\n%s", diff)
	}
}

func TestReadRecordingRejectsGarbage(t *testing.T) {
	_, err := ReadRecording(bytes.NewReader([]byte{0xc1}))
	require.Error(t, err)
}

func TestConsole(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)
	emit(c)
	require.NoError(t, c.Close())
	want := "[F] demo:main (2 entries)\n" +
		"  [C] say hi\n" +
		"  [R] say hi -> 1\n" +
		"[E] unknown function: nope\n"
	require.Equal(t, want, color.ClearCode(buf.String()))
}

type failingTracer struct {
	Recorder
	err error
}

func (f *failingTracer) Close() error { return f.err }

func TestMulti(t *testing.T) {
	require.Nil(t, Multi())
	require.Nil(t, Multi(nil, nil))

	single := NewRecorder(&bytes.Buffer{}, "")
	require.Same(t, single, Multi(nil, single))

	a := &failingTracer{err: errors.New("a failed")}
	b := &failingTracer{err: errors.New("b failed")}
	m := Multi(a, b)
	emit(m)
	require.Len(t, a.Events(), 4)
	require.Len(t, b.Events(), 4)
	err := m.Close()
	require.ErrorContains(t, err, "a failed")
	require.ErrorContains(t, err, "b failed")
}

func TestSectionsProfiler(t *testing.T) {
	clock := time.Unix(0, 0)
	s := NewSections()
	s.now = func() time.Time { return clock }

	s.Push("commandQueue")
	clock = clock.Add(3 * time.Millisecond)
	s.Push("inner")
	clock = clock.Add(time.Millisecond)
	s.Pop()
	s.Pop()
	s.Pop() // unbalanced pops are ignored

	require.Equal(t, []SectionStats{
		{Name: "commandQueue", Count: 1, Total: 4 * time.Millisecond},
		{Name: "inner", Count: 1, Total: time.Millisecond},
	}, s.Report())
}

func TestSectionsWithContext(t *testing.T) {
	s := NewSections()
	ctx := exec.NewContext(10, 10, s)
	ctx.RunCommandQueue()
	ctx.RunCommandQueue()
	report := s.Report()
	require.Len(t, report, 1)
	require.Equal(t, 2, report[0].Count)
	s.LogSummary()
}
