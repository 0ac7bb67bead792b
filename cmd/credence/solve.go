package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/aretw0/credence"
	"github.com/aretw0/credence/internal/presentation/tui"
	"github.com/aretw0/credence/pkg/domain"
	"github.com/spf13/cobra"
)

var solveCmd = &cobra.Command{
	Use:   "solve TARGET",
	Short: "Compute the belief of a variable",
	Long:  `Solves the network for the target variable, optionally conditioned on evidence given as variable=outcome pairs.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		target := args[0]

		net, err := loadNetwork(cmd)
		if err != nil {
			fmt.Printf("Error loading network: %v\n", err)
			os.Exit(1)
		}

		pairs, _ := cmd.Flags().GetStringArray("evidence")
		observed := make(map[string]string, len(pairs))
		evs := make([]domain.Evidence, 0, len(pairs))
		for _, pair := range pairs {
			name, outcome, ok := strings.Cut(pair, "=")
			if !ok {
				fmt.Printf("Invalid evidence %q: expected variable=outcome\n", pair)
				os.Exit(1)
			}
			observed[name] = outcome
			evs = append(evs, domain.Value(name, outcome))
		}

		result, err := solve(net, target, evs)
		if err != nil {
			fmt.Printf("Error solving: %v\n", err)
			os.Exit(1)
		}
		if !result.OK {
			fmt.Printf("Variable %q could not be resolved\n", target)
			os.Exit(1)
		}

		if plain, _ := cmd.Flags().GetBool("plain"); plain {
			fmt.Println(result.Belief)
			return
		}

		render := tui.NewRenderer()
		out, err := render(tui.SolveReport(target, result.Belief, observed))
		if err != nil {
			fmt.Println(result.Belief)
			return
		}
		fmt.Print(out)
		fmt.Print(tui.Bars(result.Belief))
	},
}

func solve(net *credence.Network, target string, evs []domain.Evidence) (credence.Result, error) {
	if len(evs) == 0 {
		return net.Solve(target)
	}
	obs, err := net.Evidences(evs...)
	if err != nil {
		return credence.Result{}, err
	}
	return obs.Solve(target)
}

func init() {
	rootCmd.AddCommand(solveCmd)
	solveCmd.Flags().StringArrayP("evidence", "e", nil, "Observed evidence as variable=outcome (repeatable)")
	solveCmd.Flags().Bool("plain", false, "Print the raw distribution without markdown rendering")
}
