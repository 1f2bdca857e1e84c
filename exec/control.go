package exec

// Control is the handle a task uses to schedule continuations in its own
// frame without reaching into the Context.
type Control struct {
	ctx   *Context
	frame Frame
}

func NewControl(ctx *Context, frame Frame) *Control {
	return &Control{
		ctx:   ctx,
		frame: frame,
	}
}

func (c *Control) QueueNext(action Action) {
	c.ctx.QueueNext(NewQueueEntry(c.frame, action))
}

func (c *Control) Tracer() Tracer {
	return c.ctx.Tracer()
}

func (c *Control) SetTracer(t Tracer) {
	c.ctx.SetTracer(t)
}

func (c *Control) CurrentFrame() Frame {
	return c.frame
}

func (c *Control) Context() *Context {
	return c.ctx
}
