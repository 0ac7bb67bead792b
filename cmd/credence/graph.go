package main

import (
	"fmt"
	"os"

	"github.com/aretw0/credence/internal/presentation/graph"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the network visualization",
	Long:  `Inspects the network and outputs a Mermaid diagram (graph TD) of its structure.`,
	Run: func(cmd *cobra.Command, args []string) {
		net, err := loadNetwork(cmd)
		if err != nil {
			fmt.Printf("Error loading network: %v\n", err)
			os.Exit(1)
		}

		fmt.Print(graph.GenerateMermaid(net.Inspect(), nil))
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
