package pack

import (
	"fmt"
	"strings"

	"github.com/gookit/color"
)

// FormatResult renders run statistics for the terminal.
func FormatResult(res *Result) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(color.Cyan.Sprint("=== Run statistics ==="))
	b.WriteString("\n")
	b.WriteString(color.Bold.Sprint("Commands executed: "))
	b.WriteString(fmt.Sprintf("%d\n", res.CommandsRun))

	b.WriteString(color.Bold.Sprint("Result: "))
	switch {
	case res.Returns == 0:
		b.WriteString("(none)\n")
	case res.Failed:
		b.WriteString(color.Red.Sprint("failed\n"))
	default:
		b.WriteString(color.Green.Sprintf("%d\n", res.Value))
	}
	if res.Returns > 1 {
		b.WriteString(color.Bold.Sprint("Returns: "))
		b.WriteString(fmt.Sprintf("%d (forked)\n", res.Returns))
	}
	if res.Successes+res.Failures > 0 {
		b.WriteString(color.Bold.Sprint("Branches: "))
		b.WriteString(fmt.Sprintf("%d succeeded, ", res.Successes))
		if res.Failures > 0 {
			b.WriteString(color.Red.Sprintf("%d failed\n", res.Failures))
		} else {
			b.WriteString("0 failed\n")
		}
	}

	if res.QuotaExhausted {
		b.WriteString(color.Yellow.Sprintf("Stopped at the command limit with %d entries pending\n", res.Pending))
	}
	if res.Overflow {
		b.WriteString(color.Red.Sprint("Queue overflow: pending work was discarded\n"))
	}
	return b.String()
}
