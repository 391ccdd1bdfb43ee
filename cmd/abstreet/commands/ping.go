package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check that the simulation server is reachable",
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newClient()
		now, err := client.Time(cmd.Context())
		if err != nil {
			fmt.Printf("❌ Cannot reach the headless server at %s\n\n", client.BaseURL())
			fmt.Printf("Start the simulation first:\n\n")
			fmt.Printf("   cargo run --release --bin headless -- --port=1234\n\n")
			fmt.Printf("Or point at a different server:\n\n")
			fmt.Printf("   export ABSTREET_API_URL=http://other-host:1234\n")
			fmt.Printf("   abstreet ping\n\n")
			return err
		}
		fmt.Printf("✅ Headless server at %s is up (simulation time %s)\n", client.BaseURL(), now)
		return nil
	},
}

func init() {
	AddCommand(pingCmd)
}
