package estimation

import "time"

// Report is the outcome of one estimation run.
type Report struct {
	RunID          string    `json:"run_id"`
	CreatedAt      time.Time `json:"created_at"`
	ParameterNames []string  `json:"parameter_names"`
	Theta          []float64 `json:"theta"`
	ObservedAux    []float64 `json:"observed_aux"`
	SimulatedAux   []float64 `json:"simulated_aux"`
	StartTheta     []float64 `json:"start_theta"`

	Objective   float64 `json:"objective"`
	Iterations  int     `json:"iterations"`
	Evaluations int     `json:"evaluations"`
	Overflows   int64   `json:"overflows"`
	Success     bool    `json:"success"`
	Status      string  `json:"status"`

	Trace   []float64     `json:"trace"`
	Runtime time.Duration `json:"runtime"`

	Observations int     `json:"observations"`
	Simulations  int     `json:"simulations"`
	NoiseStd     float64 `json:"noise_std"`
	RandomSeed   uint64  `json:"random_seed"`
}

// GenerateParams describes a synthetic sample drawn from the structural model.
type GenerateParams struct {
	Observations int
	Theta        []float64 // intercept followed by one slope per covariate
	NoiseStd     float64
	Seed         uint64
	Covariates   []string // defaults to x1..xk
	Response     string   // defaults to "y"
}
