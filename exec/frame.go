package exec

// ReturnValueConsumer receives the outcome of a frame.
type ReturnValueConsumer interface {
	OnSuccess(value int)
	OnFailure()
}

// ReturnFunc adapts a function to ReturnValueConsumer. On failure value is 0.
type ReturnFunc func(success bool, value int)

func (f ReturnFunc) OnSuccess(value int) { f(true, value) }
func (f ReturnFunc) OnFailure()          { f(false, 0) }

type discardResult struct{}

func (discardResult) OnSuccess(int) {}
func (discardResult) OnFailure()    {}

// DiscardResult ignores every outcome.
var DiscardResult ReturnValueConsumer = discardResult{}

// A Frame is one logical call-stack level. Depth doubles as the blast radius
// of Discard: everything queued at this depth or deeper belongs to the frame.
type Frame struct {
	Depth    int
	consumer ReturnValueConsumer
	discard  func()
}

func NewFrame(depth int, consumer ReturnValueConsumer, discard func()) Frame {
	if consumer == nil {
		consumer = DiscardResult
	}
	return Frame{
		Depth:    depth,
		consumer: consumer,
		discard:  discard,
	}
}

// ReturnSuccess forwards to the frame's consumer. Calling it more than once
// (or together with ReturnFailure) is the caller's responsibility.
func (f Frame) ReturnSuccess(value int) {
	f.consumer.OnSuccess(value)
}

func (f Frame) ReturnFailure() {
	f.consumer.OnFailure()
}

// Discard drops all pending work belonging to this frame and its children.
func (f Frame) Discard() {
	if f.discard != nil {
		f.discard()
	}
}

func (f Frame) Consumer() ReturnValueConsumer {
	return f.consumer
}
