package exec

// ChainModifiers is the set of flags threaded through the execution of one
// chain. It is a value type; setters return a copy.
type ChainModifiers uint8

const (
	forkedFlag ChainModifiers = 1 << iota
	returnFlag
)

// DefaultModifiers has every flag cleared.
const DefaultModifiers ChainModifiers = 0

// IsForked reports whether the chain has been split into several branches,
// in which case a source callback may fire once per branch.
func (m ChainModifiers) IsForked() bool {
	return m&forkedFlag != 0
}

// IsReturn reports whether the leaf command's result resolves the frame.
func (m ChainModifiers) IsReturn() bool {
	return m&returnFlag != 0
}

func (m ChainModifiers) SetForked() ChainModifiers {
	return m.with(forkedFlag)
}

func (m ChainModifiers) SetReturn() ChainModifiers {
	return m.with(returnFlag)
}

func (m ChainModifiers) with(flag ChainModifiers) ChainModifiers {
	if m&flag != 0 {
		return m
	}
	return m | flag
}

func (m ChainModifiers) String() string {
	switch {
	case m.IsForked() && m.IsReturn():
		return "forked|return"
	case m.IsForked():
		return "forked"
	case m.IsReturn():
		return "return"
	default:
		return "default"
	}
}
