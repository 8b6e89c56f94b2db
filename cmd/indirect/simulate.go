package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/tensorplex-labs/indirect/internal/dataset"
	"github.com/tensorplex-labs/indirect/internal/estimation"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Draw a synthetic sample from the structural model",
	Args:  cobra.NoArgs,
	RunE:  runSimulate,
}

var simulateParams struct {
	observations int
	theta        []float64
	noiseStd     float64
	seed         uint64
	covariates   []string
	response     string
	out          string
}

func init() {
	f := simulateCmd.Flags()
	f.IntVar(&simulateParams.observations, "observations", 1000, "sample size")
	f.Float64SliceVar(&simulateParams.theta, "theta", []float64{0.928, 0.241, 0.435}, "intercept followed by one slope per covariate")
	f.Float64Var(&simulateParams.noiseStd, "noise-std", 1.224744871391589, "standard deviation of the additive noise")
	f.Uint64Var(&simulateParams.seed, "seed", 42, "seed of covariates and noise")
	f.StringSliceVar(&simulateParams.covariates, "covariates", nil, "covariate column names (default x1..xk)")
	f.StringVar(&simulateParams.response, "response", "y", "response column name")
	f.StringVarP(&simulateParams.out, "out", "o", "", "output CSV path (default stdout)")
}

func runSimulate(cmd *cobra.Command, args []string) error {
	sample, err := estimation.Generate(estimation.GenerateParams{
		Observations: simulateParams.observations,
		Theta:        simulateParams.theta,
		NoiseStd:     simulateParams.noiseStd,
		Seed:         simulateParams.seed,
		Covariates:   simulateParams.covariates,
		Response:     simulateParams.response,
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to generate sample")
		return err
	}

	var w io.Writer = os.Stdout
	if simulateParams.out != "" {
		if dir := filepath.Dir(simulateParams.out); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create output directory: %w", err)
			}
		}
		file, err := os.Create(simulateParams.out)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer file.Close()
		w = file
	}

	if err := dataset.WriteCSV(w, sample); err != nil {
		log.Error().Err(err).Msg("failed to write sample")
		return err
	}

	log.Info().
		Int("observations", sample.Len()).
		Floats64("theta", simulateParams.theta).
		Str("out", simulateParams.out).
		Msg("sample generated")
	return nil
}
