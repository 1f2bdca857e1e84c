package exec

// An Action is a unit of work executed by the scheduler on behalf of a frame.
// Implementations run synchronously on the scheduler's goroutine and must not
// block; further work is expressed by queueing more actions.
type Action interface {
	Execute(ctx *Context, frame Frame)
}

type ActionFunc func(ctx *Context, frame Frame)

func (f ActionFunc) Execute(ctx *Context, frame Frame) {
	f(ctx, frame)
}

// QueueEntry binds an Action to the Frame it runs in.
type QueueEntry struct {
	Frame  Frame
	Action Action
}

func NewQueueEntry(frame Frame, action Action) QueueEntry {
	return QueueEntry{
		Frame:  frame,
		Action: action,
	}
}

func (e QueueEntry) Execute(ctx *Context) {
	e.Action.Execute(ctx, e.Frame)
}
