package exec

import (
	"github.com/gammazero/deque"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// MaxQueueDepth caps the number of pending entries in one Context.
const MaxQueueDepth = 10_000_000

type Options struct {
	CommandLimit int
	ForkLimit    int
	// MaxQueueDepth overrides the pending-entry cap. Zero means MaxQueueDepth.
	MaxQueueDepth int
	Profiler      Profiler
}

// Context runs a chain of queued actions to completion using an explicit
// queue instead of recursion. Nested calls are pushed to the front of the
// queue, so work is evaluated depth first.
//
// A Context is single use and is not safe for concurrent use: it must be
// seeded, run and closed from one goroutine.
type Context struct {
	id            uuid.UUID
	commandLimit  int
	forkLimit     int
	maxQueueDepth int
	profiler      Profiler
	tracer        Tracer

	commandQuota      int
	queueOverflow     bool
	commandQueue      deque.Deque[QueueEntry]
	newTopCommands    []QueueEntry
	currentFrameDepth int
}

func NewContext(commandLimit, forkLimit int, profiler Profiler) *Context {
	return New(Options{
		CommandLimit: commandLimit,
		ForkLimit:    forkLimit,
		Profiler:     profiler,
	})
}

func New(opts Options) *Context {
	if opts.MaxQueueDepth <= 0 {
		opts.MaxQueueDepth = MaxQueueDepth
	}
	if opts.Profiler == nil {
		opts.Profiler = NopProfiler
	}
	return &Context{
		id:            uuid.New(),
		commandLimit:  opts.CommandLimit,
		forkLimit:     opts.ForkLimit,
		maxQueueDepth: opts.MaxQueueDepth,
		profiler:      opts.Profiler,
		commandQuota:  opts.CommandLimit,
	}
}

// CreateFrame builds the frame for a new top-level entry. Outside of a run
// (or at depth 0) the frame owns the whole queue; while an entry at depth k
// is executing, the frame sits at k+1 and only owns work at that depth or
// deeper.
func (c *Context) CreateFrame(consumer ReturnValueConsumer) Frame {
	if c.currentFrameDepth == 0 {
		return NewFrame(0, consumer, c.clearQueue)
	}
	depth := c.currentFrameDepth + 1
	return NewFrame(depth, consumer, c.FrameControlForDepth(depth))
}

// FrameControlForDepth returns a discard control pruning every queued entry
// at depth or deeper.
func (c *Context) FrameControlForDepth(depth int) func() {
	return func() {
		c.discardAtDepthOrHigher(depth)
	}
}

func (c *Context) clearQueue() {
	c.commandQueue.Clear()
	c.newTopCommands = nil
}

// QueueNext stages an entry to run after the currently executing one.
// Exceeding the queue cap drops all pending work and stops the run.
func (c *Context) QueueNext(entry QueueEntry) {
	if c.queueOverflow {
		return
	}
	if len(c.newTopCommands)+c.commandQueue.Len()+1 > c.maxQueueDepth {
		c.queueOverflow = true
		c.clearQueue()
		return
	}
	c.newTopCommands = append(c.newTopCommands, entry)
}

func (c *Context) pushNewCommands() {
	for i := len(c.newTopCommands) - 1; i >= 0; i-- {
		c.commandQueue.PushFront(c.newTopCommands[i])
	}
	clear(c.newTopCommands)
	c.newTopCommands = c.newTopCommands[:0]
}

// discardAtDepthOrHigher only scans the front: descendants of a frame are
// always contiguous there because new work is pushed to the front. Entries
// staged by the executing step have not reached the queue yet and are
// filtered separately.
func (c *Context) discardAtDepthOrHigher(depth int) {
	kept := c.newTopCommands[:0]
	for _, e := range c.newTopCommands {
		if e.Frame.Depth < depth {
			kept = append(kept, e)
		}
	}
	clear(c.newTopCommands[len(kept):])
	c.newTopCommands = kept

	for c.commandQueue.Len() > 0 && c.commandQueue.Front().Frame.Depth >= depth {
		c.commandQueue.PopFront()
	}
}

// RunCommandQueue executes queued entries until the queue is empty, the
// command quota is spent, or the queue overflows.
func (c *Context) RunCommandQueue() {
	c.profiler.Push("commandQueue")
	defer c.profiler.Pop()
	defer func() {
		c.currentFrameDepth = 0
	}()

	c.pushNewCommands()
	executed := 0
	for {
		if c.commandQuota <= 0 {
			log.Info().
				Str("run", c.id.String()).
				Int("limit", c.commandLimit).
				Int("pending", c.commandQueue.Len()).
				Msg("Command execution stopped due to limit")
			return
		}
		if c.commandQueue.Len() == 0 {
			log.Trace().Str("run", c.id.String()).Int("executed", executed).Msg("RunCommandQueue: queue drained")
			return
		}
		entry := c.commandQueue.PopFront()
		c.currentFrameDepth = entry.Frame.Depth
		executed++
		entry.Execute(c)
		if c.queueOverflow {
			log.Error().
				Str("run", c.id.String()).
				Int("max_queue_depth", c.maxQueueDepth).
				Msg("Command execution stopped due to queue overflow, all pending work discarded")
			return
		}
		c.pushNewCommands()
	}
}

// IncrementCost charges one command against the quota. Tasks call it once
// per command they actually perform, not once per queue entry.
func (c *Context) IncrementCost() {
	c.commandQuota--
}

func (c *Context) CommandQuota() int {
	return c.commandQuota
}

func (c *Context) CommandLimit() int {
	return c.commandLimit
}

// ForkLimit is advisory: tasks that fork consult it, the scheduler does not
// enforce it.
func (c *Context) ForkLimit() int {
	return c.forkLimit
}

// Overflowed reports whether the run hit the queue cap.
func (c *Context) Overflowed() bool {
	return c.queueOverflow
}

// Pending returns the number of entries queued or staged but not executed.
func (c *Context) Pending() int {
	return c.commandQueue.Len() + len(c.newTopCommands)
}

func (c *Context) ID() uuid.UUID {
	return c.id
}

func (c *Context) Tracer() Tracer {
	return c.tracer
}

func (c *Context) SetTracer(t Tracer) {
	c.tracer = t
}

// Close releases the tracer. It must be called once per Context, whether or
// not the queue was run.
func (c *Context) Close() error {
	if c.tracer == nil {
		return nil
	}
	return c.tracer.Close()
}
