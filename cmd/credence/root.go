package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/credence"
	"github.com/aretw0/credence/internal/logging"
	fileAdapter "github.com/aretw0/credence/pkg/adapters/file"
	loamAdapter "github.com/aretw0/credence/pkg/adapters/loam"
	"github.com/aretw0/credence/pkg/ports"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "credence",
	Short: "Credence is an exact inference engine for Bayesian networks",
	Long:  `Credence loads declarative network descriptions and answers probabilistic queries, optionally stepping the network through time.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("file", "f", "", "Path to a YAML network document")
	rootCmd.PersistentFlags().String("dir", "", "Path to a Loam repository of variable documents")
	rootCmd.PersistentFlags().Bool("verbose", false, "Enable debug logging")
}

// newLogger builds the CLI logger from the persistent flags.
func newLogger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelInfo
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = slog.LevelDebug
	}
	return logging.New(level)
}

// loadNetwork assembles the network from whichever source flag is set.
func loadNetwork(cmd *cobra.Command) (*credence.Network, error) {
	file, _ := cmd.Flags().GetString("file")
	dir, _ := cmd.Flags().GetString("dir")

	var loader ports.NetworkLoader
	switch {
	case file != "" && dir != "":
		return nil, fmt.Errorf("--file and --dir are mutually exclusive")
	case file != "":
		loader = fileAdapter.New(file)
	case dir != "":
		l, err := loamAdapter.Open(dir)
		if err != nil {
			return nil, err
		}
		loader = l
	default:
		return nil, fmt.Errorf("a network source is required: pass --file or --dir")
	}

	present, future, err := loader.Load(context.Background())
	if err != nil {
		return nil, err
	}

	opts := []credence.Option{credence.WithLogger(newLogger(cmd))}
	if future != nil {
		opts = append(opts, credence.WithFuture(future))
	}
	return credence.New(present, opts...)
}
