// Command clammsim replays a JSON log of mint and swap transactions
// against a single in-memory pool, printing the resulting tick and
// liquidity after each step. It exists to exercise lib/pool end to
// end, not to model fees, multi-pool routing, or any of the backtest
// strategy machinery this module's teacher carried.
package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:          "clammsim",
		Short:        "Concentrated-liquidity pool simulator",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")

	replayCmd := &cobra.Command{
		Use:   "replay",
		Short: "Replay a simulation file's mint/swap transactions against a fresh pool",
		RunE:  runReplayCmd,
	}
	replayCmd.Flags().String("file", "", "path to the simulation JSON file")
	_ = replayCmd.MarkFlagRequired("file")

	root.AddCommand(replayCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func runReplayCmd(cmd *cobra.Command, _ []string) error {
	level, _ := cmd.Flags().GetString("log-level")
	if err := configureLogLevel(level); err != nil {
		return err
	}

	path, _ := cmd.Flags().GetString("file")
	return runReplay(path)
}

func configureLogLevel(level string) error {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(parsed)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	return nil
}
