package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/breezechen/abstreet/headless"
)

var simCmd = &cobra.Command{
	Use:   "sim",
	Short: "Control the simulation clock",
}

var simTimeCmd = &cobra.Command{
	Use:   "time",
	Short: "Print the current simulated time",
	RunE: func(cmd *cobra.Command, args []string) error {
		now, err := newClient().Time(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("🕐 Simulation time: %s\n", now)
		return nil
	},
}

var simResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Rewind the simulation to midnight",
	Long: `Rewind the simulation to midnight. This also discards every applied
signal edit, not just the clock: re-apply edits after resetting.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ack, err := newClient().Reset(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("✅ %s\n", ack)
		return nil
	},
}

var simGotoCmd = &cobra.Command{
	Use:   "goto [time]",
	Short: "Run the simulation forward to a clock time",
	Long: `Run the simulation forward until its clock reaches the given
HH:MM:SS time. The target must not be in the simulated past; reset first to
go backward. Expect this to block for as long as the server needs.

Examples:
  abstreet sim goto 08:00:00
  abstreet sim goto 26:00:00   # past midnight into the next day`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		target := args[0]
		if _, err := headless.ParseClock(target); err != nil {
			return err
		}
		fmt.Printf("⏱️  Simulating to %s...\n", target)
		ack, err := newClient().GotoTime(cmd.Context(), target)
		if err != nil {
			return err
		}
		fmt.Printf("✅ %s\n", ack)
		return nil
	},
}

func init() {
	simCmd.AddCommand(simTimeCmd)
	simCmd.AddCommand(simResetCmd)
	simCmd.AddCommand(simGotoCmd)

	AddCommand(simCmd)
}
