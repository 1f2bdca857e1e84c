package command

import (
	"errors"
	"fmt"
)

var (
	ErrForkLimit       = errors.New("too many forks")
	ErrUnknownFunction = errors.New("unknown function")
	ErrNoScore         = errors.New("no score set")
)

// SyntaxError is returned by the parser for malformed command text.
type SyntaxError struct {
	Input string
	Token string
	Msg   string
}

func (e *SyntaxError) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("%s in `%s`", e.Msg, e.Input)
	}
	return fmt.Sprintf("%s at '%s' in `%s`", e.Msg, e.Token, e.Input)
}
