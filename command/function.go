package command

import (
	"fmt"
	"strings"
)

// Function is a named list of parsed commands run in one frame.
type Function struct {
	ID    string
	Lines []*Chain
}

// CompileFunction parses the body of a function. Blank lines and lines
// starting with '#' are skipped; errors carry the 1-based line number.
func CompileFunction(p *Parser, id string, lines []string) (*Function, error) {
	fn := &Function{ID: id}
	for i, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		c, err := p.Parse(line)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", id, i+1, err)
		}
		fn.Lines = append(fn.Lines, c)
	}
	return fn, nil
}
