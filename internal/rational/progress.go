// Package rational provides implementations for computing best rational
// approximations. This file contains progress reporting types used by the
// approximation algorithms.
package rational

import "math"

// ProgressUpdate is a data transfer object that encapsulates the progress
// state of an approximation run. It is sent over a channel from the
// approximator to the user interface to provide asynchronous updates.
type ProgressUpdate struct {
	// ApproximatorIndex is a unique identifier for the approximator
	// instance, allowing the UI to distinguish between multiple concurrent
	// runs.
	ApproximatorIndex int
	// Value represents the normalized progress of the run, ranging from
	// 0.0 to 1.0.
	Value float64
}

// ProgressReporter defines the functional type for a progress reporting
// callback. Core algorithms report through it without being coupled to the
// channel-based communication of the broader application.
//
// Parameters:
//   - progress: The normalized progress value (0.0 to 1.0).
type ProgressReporter func(progress float64)

// denominatorProgress maps the growth of the running denominator towards the
// limit onto [0, 1]. Convergent denominators grow geometrically, so a
// logarithmic scale gives a roughly linear progress curve over the loop.
//
// Parameters:
//   - den: The current convergent denominator (must be >= 1).
//   - limit: The denominator limit of the search.
//
// Returns:
//   - float64: The normalized progress value.
func denominatorProgress(den, limit uint64) float64 {
	if limit <= 1 || den <= 1 {
		return 0
	}
	p := math.Log(float64(den)) / math.Log(float64(limit))
	if p > 1 {
		p = 1
	}
	return p
}
