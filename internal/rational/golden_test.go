package rational

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"testing"
)

// goldenCase mirrors the schema written by cmd/generate-golden.
type goldenCase struct {
	Target      string `json:"target"`
	Limit       uint64 `json:"limit"`
	Numerator   string `json:"numerator"`
	Denominator string `json:"denominator"`
}

// TestBestConvergent_GoldenFile validates the search against fractions
// computed by an independent brute-force oracle (see cmd/generate-golden).
func TestBestConvergent_GoldenFile(t *testing.T) {
	raw, err := os.ReadFile(filepath.Join("testdata", "rational_golden.json"))
	if err != nil {
		t.Fatalf("reading golden file: %v", err)
	}
	var cases []goldenCase
	if err := json.Unmarshal(raw, &cases); err != nil {
		t.Fatalf("parsing golden file: %v", err)
	}
	if len(cases) == 0 {
		t.Fatal("golden file is empty; regenerate it with cmd/generate-golden")
	}

	approximator, err := NewDefaultFactory().Get("best")
	if err != nil {
		t.Fatalf("Get(best): %v", err)
	}

	for _, tc := range cases {
		t.Run(fmt.Sprintf("%s@%d", tc.Target, tc.Limit), func(t *testing.T) {
			target, _, err := big.ParseFloat(tc.Target, 10, 256, big.ToNearestEven)
			if err != nil {
				t.Fatalf("parsing target: %v", err)
			}

			res, err := approximator.Approximate(context.Background(), nil, 0, tc.Limit, target, Options{})
			if err != nil {
				t.Fatalf("Approximate: %v", err)
			}
			if res.Num.String() != tc.Numerator || res.Den.String() != tc.Denominator {
				t.Errorf("got %s/%s, oracle says %s/%s",
					res.Num, res.Den, tc.Numerator, tc.Denominator)
			}
		})
	}
}
