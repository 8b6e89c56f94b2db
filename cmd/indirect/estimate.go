package main

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/tensorplex-labs/indirect/internal/config"
	"github.com/tensorplex-labs/indirect/internal/dataset"
	"github.com/tensorplex-labs/indirect/internal/estimation"
	"github.com/tensorplex-labs/indirect/internal/report"
)

var estimateCmd = &cobra.Command{
	Use:   "estimate",
	Short: "Estimate theta from an observed sample",
	Args:  cobra.NoArgs,
	RunE:  runEstimate,
}

var plotTrace bool

func init() {
	f := estimateCmd.Flags()
	f.Int("simulations", 0, "number of simulated samples M")
	f.Float64("noise-std", 0, "standard deviation of the simulation noise")
	f.Uint64("seed", 0, "seed of the simulation draws")
	f.Int("workers", 0, "concurrent simulations per evaluation (0 = GOMAXPROCS)")
	f.Float64("tolerance", 0, "absolute objective tolerance")
	f.Int("max-iterations", 0, "Nelder-Mead iteration budget")
	f.Int("max-evaluations", 0, "criterion evaluation budget (0 = unlimited)")
	f.String("data", "", "CSV or XLSX sample")
	f.StringSlice("covariates", nil, "covariate column names")
	f.String("response", "", "response column name")
	f.String("report", "", "write the report to this path (.zst compresses)")
	f.BoolVar(&plotTrace, "plot", false, "plot the objective trace")
}

func runEstimate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		log.Error().Err(err).Msg("failed to load configuration")
		return err
	}

	sample, err := dataset.Load(cfg.DataPath, cfg.Covariates, cfg.Response)
	if err != nil {
		log.Error().Err(err).Str("path", cfg.DataPath).Msg("failed to load sample")
		return err
	}

	run, err := estimation.NewRun(cfg, sample)
	if err != nil {
		log.Error().Stack().Err(err).Msg("failed to prepare estimation run")
		return err
	}

	rep, err := run.Estimate(cmd.Context())
	if err != nil {
		log.Error().Stack().Err(err).Str("run_id", run.ID).Msg("estimation failed")
		return err
	}

	if err := report.Print(os.Stdout, rep); err != nil {
		return err
	}
	if plotTrace {
		if err := report.PlotConvergenceTerminal(os.Stdout, rep.Trace, "Criterion"); err != nil {
			return err
		}
	}

	if cfg.ReportPath != "" {
		if err := report.Write(cfg.ReportPath, rep); err != nil {
			log.Error().Err(err).Str("path", cfg.ReportPath).Msg("failed to write report")
			return err
		}
	}
	return nil
}

// loadConfig applies flags set on the command line over the file and
// environment configuration.
func loadConfig(cmd *cobra.Command) (*config.AppConfig, error) {
	cfg, err := config.LoadConfigFile(configPath)
	if err != nil {
		return nil, err
	}

	f := cmd.Flags()
	if f.Changed("simulations") {
		cfg.Simulations, _ = f.GetInt("simulations")
	}
	if f.Changed("noise-std") {
		cfg.NoiseStd, _ = f.GetFloat64("noise-std")
	}
	if f.Changed("seed") {
		cfg.RandomSeed, _ = f.GetUint64("seed")
	}
	if f.Changed("workers") {
		cfg.Workers, _ = f.GetInt("workers")
	}
	if f.Changed("tolerance") {
		cfg.Tolerance, _ = f.GetFloat64("tolerance")
	}
	if f.Changed("max-iterations") {
		cfg.MaxIterations, _ = f.GetInt("max-iterations")
	}
	if f.Changed("max-evaluations") {
		cfg.MaxEvaluations, _ = f.GetInt("max-evaluations")
	}
	if f.Changed("data") {
		cfg.DataPath, _ = f.GetString("data")
	}
	if f.Changed("covariates") {
		cfg.Covariates, _ = f.GetStringSlice("covariates")
	}
	if f.Changed("response") {
		cfg.Response, _ = f.GetString("response")
	}
	if f.Changed("report") {
		cfg.ReportPath, _ = f.GetString("report")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
