package config

import (
	"io"
	"testing"
	"time"

	"github.com/agbru/ratcalc/internal/rational"
)

func TestParseConfig(t *testing.T) {
	availableAlgos := []string{"best", "extended"}

	t.Run("DefaultValues", func(t *testing.T) {
		t.Parallel()
		args := []string{}
		cfg, err := ParseConfig("ratcalc", args, io.Discard, availableAlgos)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}

		if cfg.Target != "pi" {
			t.Errorf("Expected default Target 'pi', got %s", cfg.Target)
		}
		if cfg.Limit != 1000000 {
			t.Errorf("Expected default Limit 1000000, got %d", cfg.Limit)
		}
		if cfg.Algo != "best" {
			t.Errorf("Expected default Algo 'best', got %s", cfg.Algo)
		}
		if cfg.Timeout != 30*time.Second {
			t.Errorf("Expected default Timeout 30s, got %v", cfg.Timeout)
		}
		if cfg.Bound != "" {
			t.Errorf("Expected no default Bound, got %s", cfg.Bound)
		}
	})

	t.Run("ValidFlags", func(t *testing.T) {
		t.Parallel()
		args := []string{
			"-target", "3.14159265",
			"-limit", "1000",
			"-bound", "1e-6",
			"-precision", "256",
			"-algo", "extended",
			"-timeout", "10s",
			"-server",
			"-port", "9090",
		}
		cfg, err := ParseConfig("ratcalc", args, io.Discard, availableAlgos)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}

		if cfg.Target != "3.14159265" {
			t.Errorf("Expected Target '3.14159265', got %s", cfg.Target)
		}
		if cfg.Limit != 1000 {
			t.Errorf("Expected Limit 1000, got %d", cfg.Limit)
		}
		if cfg.Bound != "1e-6" {
			t.Errorf("Expected Bound '1e-6', got %s", cfg.Bound)
		}
		if cfg.Precision != 256 {
			t.Errorf("Expected Precision 256, got %d", cfg.Precision)
		}
		if cfg.Algo != "extended" {
			t.Errorf("Expected Algo 'extended', got %s", cfg.Algo)
		}
		if cfg.Timeout != 10*time.Second {
			t.Errorf("Expected Timeout 10s, got %v", cfg.Timeout)
		}
		if !cfg.ServerMode {
			t.Error("Expected ServerMode true")
		}
		if cfg.Port != "9090" {
			t.Errorf("Expected Port 9090, got %s", cfg.Port)
		}
	})

	t.Run("AlgoIsLowercased", func(t *testing.T) {
		t.Parallel()
		cfg, err := ParseConfig("ratcalc", []string{"-algo", "BEST"}, io.Discard, availableAlgos)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if cfg.Algo != "best" {
			t.Errorf("Expected lowercased algo 'best', got %s", cfg.Algo)
		}
	})

	t.Run("EnvOverrides", func(t *testing.T) {
		env := map[string]string{
			"RATCALC_TARGET":    "e",
			"RATCALC_LIMIT":     "500",
			"RATCALC_BOUND":     "1e-9",
			"RATCALC_PRECISION": "192",
			"RATCALC_ALGO":      "extended",
			"RATCALC_TIMEOUT":   "2m",
			"RATCALC_PORT":      "3000",
			"RATCALC_SERVER":    "true",
			"RATCALC_JSON":      "true",
			"RATCALC_QUIET":     "yes",
			"RATCALC_OUTPUT":    "out.txt",
		}
		for k, v := range env {
			t.Setenv(k, v)
		}

		cfg, err := ParseConfig("ratcalc", []string{}, io.Discard, availableAlgos)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}

		if cfg.Target != "e" {
			t.Errorf("Expected Target 'e' from env, got %s", cfg.Target)
		}
		if cfg.Limit != 500 {
			t.Errorf("Expected Limit 500 from env, got %d", cfg.Limit)
		}
		if cfg.Bound != "1e-9" {
			t.Errorf("Expected Bound '1e-9' from env, got %s", cfg.Bound)
		}
		if cfg.Precision != 192 {
			t.Errorf("Expected Precision 192 from env, got %d", cfg.Precision)
		}
		if cfg.Algo != "extended" {
			t.Errorf("Expected Algo 'extended' from env, got %s", cfg.Algo)
		}
		if cfg.Timeout != 2*time.Minute {
			t.Errorf("Expected Timeout 2m from env, got %v", cfg.Timeout)
		}
		if cfg.Port != "3000" {
			t.Errorf("Expected Port 3000 from env, got %s", cfg.Port)
		}
		if !cfg.ServerMode || !cfg.JSONOutput || !cfg.Quiet {
			t.Error("Expected boolean env overrides to apply")
		}
		if cfg.OutputFile != "out.txt" {
			t.Errorf("Expected OutputFile 'out.txt' from env, got %s", cfg.OutputFile)
		}
	})

	t.Run("FlagsTakePriorityOverEnv", func(t *testing.T) {
		t.Setenv("RATCALC_LIMIT", "500")

		cfg, err := ParseConfig("ratcalc", []string{"-limit", "42"}, io.Discard, availableAlgos)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if cfg.Limit != 42 {
			t.Errorf("Expected flag value 42 to win over env, got %d", cfg.Limit)
		}
	})

	t.Run("InvalidConfigurations", func(t *testing.T) {
		t.Parallel()
		tests := []struct {
			name string
			args []string
		}{
			{name: "unknown algorithm", args: []string{"-algo", "newton"}},
			{name: "zero limit", args: []string{"-limit", "0"}},
			{name: "zero timeout", args: []string{"-timeout", "0s"}},
			{name: "unparseable target", args: []string{"-target", "tau"}},
			{name: "negative bound", args: []string{"-bound", "-1e-6"}},
			{name: "unparseable bound", args: []string{"-bound", "tiny"}},
			{name: "precision below minimum", args: []string{"-precision", "16"}},
		}
		for _, tc := range tests {
			t.Run(tc.name, func(t *testing.T) {
				if _, err := ParseConfig("ratcalc", tc.args, io.Discard, availableAlgos); err == nil {
					t.Errorf("Expected an error for args %v", tc.args)
				}
			})
		}
	})
}

func TestAppConfig_ToCalculationOptions(t *testing.T) {
	cfg := AppConfig{Precision: 192}
	opts := cfg.ToCalculationOptions()
	if opts.Precision != 192 {
		t.Errorf("Expected Precision 192, got %d", opts.Precision)
	}
}

func TestAppConfig_ParseBound(t *testing.T) {
	t.Run("empty bound yields nil", func(t *testing.T) {
		cfg := AppConfig{Limit: 100}
		bound, err := cfg.ParseBound()
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if bound != nil {
			t.Errorf("Expected nil bound, got %v", bound)
		}
	})

	t.Run("bound parses at the derived precision", func(t *testing.T) {
		cfg := AppConfig{Limit: 1000000, Bound: "1e-6"}
		bound, err := cfg.ParseBound()
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if bound.Sign() <= 0 {
			t.Error("Expected a positive bound")
		}
		if bound.Prec() != rational.DefaultPrecisionForLimit(cfg.Limit) {
			t.Errorf("Expected precision %d, got %d", rational.DefaultPrecisionForLimit(cfg.Limit), bound.Prec())
		}
	})
}
