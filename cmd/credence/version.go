package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/credence"
	"github.com/aretw0/credence/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of credence",
	Run: func(cmd *cobra.Command, args []string) {
		tui.PrintBanner()
		fmt.Printf("credence version %s\n", strings.TrimSpace(credence.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
