package commands

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/breezechen/abstreet/metrics"
)

var agentsCmd = &cobra.Command{
	Use:   "agents",
	Short: "Inspect active agents in the simulation",
}

var agentsCentroidCmd = &cobra.Command{
	Use:   "centroid",
	Short: "Print the average position of all active pedestrians",
	RunE: func(cmd *cobra.Command, args []string) error {
		agents, err := newClient().AgentPositions(cmd.Context())
		if err != nil {
			return err
		}
		center, err := metrics.PedestrianCentroid(agents)
		if err != nil {
			return err
		}
		fmt.Printf("📍 Average position of all active pedestrians: %g, %g\n", center.Lon(), center.Lat())
		return nil
	},
}

var agentsCountCmd = &cobra.Command{
	Use:   "count",
	Short: "Count active agents by vehicle type",
	RunE: func(cmd *cobra.Command, args []string) error {
		agents, err := newClient().AgentPositions(cmd.Context())
		if err != nil {
			return err
		}

		counts := metrics.CountByVehicleType(agents)
		kinds := make([]string, 0, len(counts))
		for kind := range counts {
			kinds = append(kinds, kind)
		}
		sort.Strings(kinds)

		fmt.Printf("🚶 %d active agents\n", len(agents))
		fmt.Println(strings.Repeat("─", 30))
		for _, kind := range kinds {
			fmt.Printf("%-20s %9d\n", kind, counts[kind])
		}
		fmt.Println(strings.Repeat("─", 30))
		return nil
	},
}

func init() {
	agentsCmd.AddCommand(agentsCentroidCmd)
	agentsCmd.AddCommand(agentsCountCmd)

	AddCommand(agentsCmd)
}
