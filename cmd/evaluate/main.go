package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rgmining/amazon-dataset/internal/util"
	"github.com/rgmining/amazon-dataset/pkg/logger"
	"github.com/rgmining/amazon-dataset/pkg/logger/console"
)

var (
	outputPath string
	loopCount  int
	threshold  float64
	paramPairs []string
	categories []string
)

var rootCmd = &cobra.Command{
	Use:   "evaluate <algorithm>",
	Short: "Evaluate a review graph mining algorithm with the Amazon dataset",
	Long: `Evaluate loads the Amazon review dataset into the graph of the given
algorithm and iterates it until convergence, writing the anomaly scores
and product summaries after every iteration as newline-delimited JSON.`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		params, err := parseParams(paramPairs)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if outputPath != "" {
			file, err := os.Create(outputPath)
			if err != nil {
				return fmt.Errorf("failed to create output file %s: %w", outputPath, err)
			}
			defer file.Close()
			out = file
		}

		return run(cmd.Context(), out, options{
			algorithm:  args[0],
			loop:       loopCount,
			threshold:  threshold,
			params:     params,
			categories: categories,
		})
	},
}

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON Schemas of the emitted report records",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return writeSchema(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.Flags().StringVar(&outputPath, "output", "", "file path to store results (default: stdout)")
	rootCmd.Flags().IntVar(&loopCount, "loop", 20, "maximum number of iterations")
	rootCmd.Flags().Float64Var(&threshold, "threshold", 1e-3, "threshold to judge an update is negligible")
	rootCmd.Flags().StringArrayVar(&paramPairs, "param", nil, "key and value pair connected with '=', may be repeated")
	rootCmd.Flags().StringArrayVar(&categories, "category", nil, "load only the given categories, may be repeated")
	rootCmd.AddCommand(schemaCmd)
}

func main() {
	util.LoadEnv()

	debug := util.GetEnvBool("DEBUG", false)
	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug: debug,
	})
	logger.Init(consoleLogger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logger.Fatal("Evaluation failed", "err", err)
	}
}
