package main

import (
	"fmt"
	"os"

	"github.com/gookit/color"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/timewinder-dev/cmdqueue/trace"
)

var replayCmd = &cobra.Command{
	Use:   "replay RECORDFILE",
	Short: "Print a recorded trace",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		f, err := os.Open(args[0])
		if err != nil {
			log.Fatal().Err(err).Msg("Couldn't open recording")
		}
		defer f.Close()
		rec, err := trace.ReadRecording(f)
		if err != nil {
			log.Fatal().Err(err).Msg("Couldn't read recording")
		}
		fmt.Fprintln(os.Stderr, color.Cyan.Sprintf("=== Replaying %s (%d events) ===", rec.Run, len(rec.Events)))
		rec.Replay(trace.NewConsole(os.Stdout))
	},
}
