package exec

// Tracer observes command execution. All methods are optional in the sense
// that the scheduler behaves identically with or without a tracer attached.
type Tracer interface {
	OnCommand(depth int, command string)
	OnReturn(depth int, command string, result int)
	OnError(message string)
	// OnCall is reported when a function is entered; entries is the number
	// of lines queued for it.
	OnCall(depth int, function string, entries int)
	Close() error
}

// Profiler receives section markers. It is purely observational.
type Profiler interface {
	Push(section string)
	Pop()
}

type nopProfiler struct{}

func (nopProfiler) Push(string) {}
func (nopProfiler) Pop()        {}

var NopProfiler Profiler = nopProfiler{}
