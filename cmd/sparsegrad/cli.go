package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/born-ml/sparsegrad/internal/array"
	"github.com/born-ml/sparsegrad/internal/envconfig"
	"github.com/born-ml/sparsegrad/internal/logutil"
)

const version = "v0.1.0-dev"

// NewCLI returns the root command.
func NewCLI() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sparsegrad",
		Short: "Sparse Jacobians by forward-mode automatic differentiation",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Disable usage printing on errors
			cmd.SilenceUsage = true

			level := envconfig.LogLevel()
			if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
				level = logutil.LevelTrace
			}
			slog.SetDefault(logutil.NewLogger(cmd.ErrOrStderr(), level))
			array.SetParallelConfig(envconfig.Parallel())
		},
	}

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Trace every materialization of a factored Jacobian")

	cobra.EnableCommandSorting = false

	rootCmd.AddCommand(
		NewJacobianCmd(),
		NewFuncsCmd(),
		NewEnvCmd(),
		NewVersionCmd(),
	)
	return rootCmd
}
