// Command generate-golden regenerates the golden file used by the rational
// package tests. It computes the best rational approximation for a set of
// interesting targets with an independent brute-force oracle: for every
// denominator up to the limit it rounds the numerator to the nearest
// integer and keeps the fraction with the smallest error magnitude.
//
// The oracle is O(limit) per case, so the limits stay small. That is the
// point: the golden data must not come from the continued-fraction code it
// validates.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
)

// GoldenCase represents a single test case in the golden file.
type GoldenCase struct {
	Target      string `json:"target"`
	Limit       uint64 `json:"limit"`
	Numerator   string `json:"numerator"`
	Denominator string `json:"denominator"`
}

// oraclePrecision is deliberately higher than anything the search uses.
const oraclePrecision = 512

func main() {
	outputDir := flag.String("out", "internal/rational/testdata", "Output directory for the golden file")
	flag.Parse()

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output directory: %v\n", err)
		os.Exit(1)
	}

	filename := filepath.Join(*outputDir, "rational_golden.json")
	file, err := os.Create(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output file: %v\n", err)
		os.Exit(1)
	}
	defer file.Close()

	// Targets chosen to cover the interesting regimes: irrational
	// constants at several limits, an exactly representable fraction,
	// and a limit of one (integer rounding).
	cases := []struct {
		target string
		limit  uint64
	}{
		{"3.14159265358979323846264338327950288419716939937510", 10},
		{"3.14159265358979323846264338327950288419716939937510", 100},
		{"3.14159265358979323846264338327950288419716939937510", 1000},
		{"2.71828182845904523536028747135266249775724709369995", 10},
		{"1.5", 10},
		{"0.375", 1000},
		{"2.7", 1},
	}

	var data []GoldenCase

	fmt.Println("Generating golden data...")

	for _, c := range cases {
		target, _, err := big.ParseFloat(c.target, 10, oraclePrecision, big.ToNearestEven)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing target %q: %v\n", c.target, err)
			os.Exit(1)
		}
		num, den := bestFractionBruteForce(target, c.limit)
		data = append(data, GoldenCase{
			Target:      c.target,
			Limit:       c.limit,
			Numerator:   num.String(),
			Denominator: den.String(),
		})
		fmt.Printf("Generated %s @ %d -> %s/%s\n", c.target, c.limit, num, den)
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Successfully generated golden file at %s\n", filename)
}

// bestFractionBruteForce scans every denominator from 1 to limit, rounds the
// numerator to the nearest integer, and returns the fraction with the
// smallest error magnitude in lowest terms. Ties keep the smallest
// denominator, which is already in lowest terms.
func bestFractionBruteForce(target *big.Float, limit uint64) (*big.Int, *big.Int) {
	var bestNum, bestDen *big.Int
	var bestErr *big.Float

	half := big.NewFloat(0.5).SetPrec(oraclePrecision)

	for d := uint64(1); d <= limit; d++ {
		den := new(big.Int).SetUint64(d)
		scaled := new(big.Float).SetPrec(oraclePrecision).SetInt(den)
		scaled.Mul(scaled, target)

		// Round to nearest by adding (or subtracting) one half before
		// truncating toward zero.
		if scaled.Signbit() {
			scaled.Sub(scaled, half)
		} else {
			scaled.Add(scaled, half)
		}
		num, _ := scaled.Int(nil)

		approx := new(big.Float).SetPrec(oraclePrecision).SetInt(num)
		approx.Quo(approx, new(big.Float).SetPrec(oraclePrecision).SetInt(den))
		errVal := new(big.Float).Sub(approx, target)
		errVal.Abs(errVal)

		if bestErr == nil || errVal.Cmp(bestErr) < 0 {
			bestNum, bestDen, bestErr = num, den, errVal
		}
	}
	return bestNum, bestDen
}
