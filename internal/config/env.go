// Package config defines environment configuration structs and loaders.
package config

import (
	"github.com/caarlos0/env/v11"
)

type AppConfig struct {
	EstimatorEnvConfig `yaml:"estimator"`
	OptimizerEnvConfig `yaml:"optimizer"`
	DataEnvConfig      `yaml:"data"`
	Environment        string `env:"ENVIRONMENT" envDefault:"prod" yaml:"environment" validate:"oneof=dev test prod"`
}

func LoadConfig() (*AppConfig, error) {
	return LoadConfigFile("")
}

func envParse(cfg *AppConfig) error {
	return env.Parse(cfg)
}

// EstimatorEnvConfig holds the simulation settings of the criterion.
type EstimatorEnvConfig struct {
	Simulations int     `env:"INDIRECT_SIMULATIONS" envDefault:"10" yaml:"simulations" validate:"min=1"`
	NoiseStd    float64 `env:"INDIRECT_NOISE_STD" envDefault:"1.224744871391589" yaml:"noise_std" validate:"gt=0"`
	RandomSeed  uint64  `env:"INDIRECT_RANDOM_SEED" envDefault:"1234" yaml:"random_seed"`
	Workers     int     `env:"INDIRECT_WORKERS" envDefault:"0" yaml:"workers" validate:"min=0"`
}

// OptimizerEnvConfig configures the Nelder-Mead search.
type OptimizerEnvConfig struct {
	Tolerance       float64 `env:"INDIRECT_OPTIMIZER_TOLERANCE" envDefault:"1e-8" yaml:"tolerance" validate:"gt=0"`
	MaxIterations   int     `env:"INDIRECT_OPTIMIZER_MAX_ITERATIONS" envDefault:"5000" yaml:"max_iterations" validate:"min=1"`
	MaxEvaluations  int     `env:"INDIRECT_OPTIMIZER_MAX_EVALUATIONS" envDefault:"0" yaml:"max_evaluations" validate:"min=0"`
	StallIterations int     `env:"INDIRECT_OPTIMIZER_STALL_ITERATIONS" envDefault:"100" yaml:"stall_iterations" validate:"min=1"`
	SimplexSize     float64 `env:"INDIRECT_OPTIMIZER_SIMPLEX_SIZE" envDefault:"0.05" yaml:"simplex_size" validate:"gt=0"`
}

// DataEnvConfig locates the observed sample and the report output.
type DataEnvConfig struct {
	DataPath   string   `env:"INDIRECT_DATA_PATH" envDefault:"data/sample.csv" yaml:"data_path" validate:"required"`
	Covariates []string `env:"INDIRECT_COVARIATES" envDefault:"x1,x2" envSeparator:"," yaml:"covariates" validate:"min=1,dive,required"`
	Response   string   `env:"INDIRECT_RESPONSE" envDefault:"y" yaml:"response" validate:"required"`
	ReportPath string   `env:"INDIRECT_REPORT_PATH" yaml:"report_path"`
}
