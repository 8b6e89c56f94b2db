package logger

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestInitLevels(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	cases := []struct {
		name        string
		environment string
		opts        Options
		want        zerolog.Level
	}{
		{"prod default", "", Options{}, zerolog.InfoLevel},
		{"dev enables trace", "dev", Options{}, zerolog.TraceLevel},
		{"unknown falls back to info", "staging", Options{}, zerolog.InfoLevel},
		{"debug flag overrides", "prod", Options{Debug: true}, zerolog.DebugLevel},
		{"trace flag overrides", "prod", Options{Trace: true}, zerolog.TraceLevel},
		{"info flag overrides dev", "dev", Options{Info: true}, zerolog.InfoLevel},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("ENVIRONMENT", tc.environment)
			Init(tc.opts)
			assert.Equal(t, tc.want, zerolog.GlobalLevel())
			assert.NotNil(t, Sugar())
		})
	}
}
