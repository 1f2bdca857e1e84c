package trace

import (
	"fmt"
	"io"
	"strings"

	"github.com/gookit/color"
)

// Console prints trace events to a writer (typically stderr), indented by
// frame depth.
type Console struct {
	Writer io.Writer
}

func NewConsole(w io.Writer) *Console {
	return &Console{Writer: w}
}

func indent(depth int) string {
	return strings.Repeat("  ", depth)
}

func (c *Console) OnCommand(depth int, command string) {
	fmt.Fprintf(c.Writer, "%s%s %s\n", indent(depth), color.Cyan.Sprint("[C]"), command)
}

func (c *Console) OnReturn(depth int, command string, result int) {
	fmt.Fprintf(c.Writer, "%s%s %s -> %s\n", indent(depth), color.Green.Sprint("[R]"), command, color.Bold.Sprint(result))
}

func (c *Console) OnError(message string) {
	fmt.Fprintf(c.Writer, "%s %s\n", color.Red.Sprint("[E]"), message)
}

func (c *Console) OnCall(depth int, function string, entries int) {
	fmt.Fprintf(c.Writer, "%s%s %s (%d entries)\n", indent(depth), color.Yellow.Sprint("[F]"), function, entries)
}

// Close is a no-op; the writer belongs to the caller.
func (c *Console) Close() error {
	return nil
}
