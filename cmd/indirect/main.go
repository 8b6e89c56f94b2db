package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/tensorplex-labs/indirect/internal/utils/logger"
)

var (
	configPath string
	logOpts    logger.Options
)

var rootCmd = &cobra.Command{
	Use:   "indirect",
	Short: "Indirect inference estimation of an exponential-index model",
	Long: `Estimates theta in y = exp(X theta) + e by matching the OLS fit of the
observed sample to the average OLS fit of samples simulated at theta.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.Init(logOpts)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file overlaid on the environment")
	rootCmd.PersistentFlags().BoolVar(&logOpts.Debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&logOpts.Trace, "trace", false, "enable trace logging")
	rootCmd.PersistentFlags().BoolVar(&logOpts.Info, "info", false, "force info logging")

	rootCmd.AddCommand(estimateCmd)
	rootCmd.AddCommand(simulateCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		log.Fatal().Err(err).Msg("command failed")
	}
}
