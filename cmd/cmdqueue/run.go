package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/gookit/color"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/timewinder-dev/cmdqueue/exec"
	"github.com/timewinder-dev/cmdqueue/pack"
	"github.com/timewinder-dev/cmdqueue/trace"
)

var (
	traceFlag    bool
	recordFile   string
	commandLimit int
	forkLimit    int
)

var runCmd = &cobra.Command{
	Use:   "run PACKFILE FUNCTION",
	Short: "Run a function from a pack",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		runPack(args[0], func(rt *pack.Runtime, opts pack.RunOptions) (*pack.Result, error) {
			return rt.RunFunction(args[1], opts)
		})
	},
}

var execCmd = &cobra.Command{
	Use:   "exec PACKFILE COMMAND...",
	Short: "Run a single command against a pack",
	Args:  cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		text := strings.Join(args[1:], " ")
		runPack(args[0], func(rt *pack.Runtime, opts pack.RunOptions) (*pack.Result, error) {
			return rt.RunCommand(text, opts)
		})
	},
}

func init() {
	for _, c := range []*cobra.Command{runCmd, execCmd} {
		c.Flags().BoolVar(&traceFlag, "trace", false, "Print every command, call and return to stderr")
		c.Flags().StringVar(&recordFile, "record", "", "Record the trace to FILE for later replay")
		c.Flags().IntVar(&commandLimit, "command-limit", 0, "Override the pack's command limit")
		c.Flags().IntVar(&forkLimit, "fork-limit", 0, "Override the pack's fork limit")
	}
}

type runFunc func(rt *pack.Runtime, opts pack.RunOptions) (*pack.Result, error)

func runPack(filename string, run runFunc) {
	p, err := pack.LoadPackFromFile(filename)
	if err != nil {
		log.Fatal().Err(err).Msg("Couldn't load pack")
	}
	rt, err := p.Build()
	if err != nil {
		log.Fatal().Err(err).Msg("Couldn't build pack")
	}

	var tracers []exec.Tracer
	if traceFlag {
		tracers = append(tracers, trace.NewConsole(os.Stderr))
	}
	if recordFile != "" {
		f, err := os.Create(recordFile)
		if err != nil {
			log.Fatal().Err(err).Msg("Couldn't create record file")
		}
		tracers = append(tracers, trace.NewRecorder(f, filename))
	}

	prof := trace.NewSections()
	res, err := run(rt, pack.RunOptions{
		Tracer:       trace.Multi(tracers...),
		Profiler:     prof,
		Output:       os.Stdout,
		CommandLimit: commandLimit,
		ForkLimit:    forkLimit,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Run failed")
	}
	prof.LogSummary()

	fmt.Fprint(os.Stderr, pack.FormatResult(res))
	if recordFile != "" {
		fmt.Fprintln(os.Stderr, color.Cyan.Sprintf("Trace recorded to %s", recordFile))
	}
	if res.Overflow {
		os.Exit(2)
	}
}
