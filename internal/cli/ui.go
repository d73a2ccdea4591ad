// The cli package provides functions for building a command-line interface
// (CLI) for the rational approximation application. It handles the
// asynchronous display of search progress and formats the results for a clear
// and readable presentation.
package cli

import (
	"fmt"
	"io"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/briandowns/spinner"

	"github.com/agbru/ratcalc/internal/rational"
	"github.com/agbru/ratcalc/internal/ui"
	"github.com/agbru/ratcalc/pkg/models"
)

// FormatExecutionDuration formats a time.Duration for display.
// It shows microseconds for durations less than a millisecond, milliseconds
// for durations less than a second, and the default string representation
// otherwise. This approach provides a more human-readable output for short
// durations.
//
// Parameters:
//   - d: The duration to format.
//
// Returns:
//   - string: A formatted string representing the duration.
func FormatExecutionDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	} else if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return d.String()
}

const (
	// ProgressRefreshRate defines the refresh frequency of the progress bar.
	ProgressRefreshRate = 200 * time.Millisecond
	// ProgressBarWidth defines the width in characters of the progress bar.
	ProgressBarWidth = 40
	// targetDisplayDigits is the number of decimal digits used when echoing
	// the target value in the result line.
	targetDisplayDigits = 15
	// errDisplayDigits is the number of significant digits used for error
	// values in the result line.
	errDisplayDigits = 12
)

// Color functions return ANSI escape codes from the current theme.
// They delegate to the ui package to reduce coupling.

// ColorReset returns the reset escape code from the current theme.
func ColorReset() string { return ui.GetCurrentTheme().Reset }

// ColorRed returns the error color from the current theme.
func ColorRed() string { return ui.GetCurrentTheme().Error }

// ColorGreen returns the success color from the current theme.
func ColorGreen() string { return ui.GetCurrentTheme().Success }

// ColorYellow returns the warning color from the current theme.
func ColorYellow() string { return ui.GetCurrentTheme().Warning }

// ColorBlue returns the primary color from the current theme.
func ColorBlue() string { return ui.GetCurrentTheme().Primary }

// ColorMagenta returns the info color from the current theme.
func ColorMagenta() string { return ui.GetCurrentTheme().Info }

// ColorCyan returns the secondary color from the current theme.
func ColorCyan() string { return ui.GetCurrentTheme().Secondary }

// ColorBold returns the bold escape code from the current theme.
func ColorBold() string { return ui.GetCurrentTheme().Bold }

// ColorUnderline returns the underline escape code from the current theme.
func ColorUnderline() string { return ui.GetCurrentTheme().Underline }

// Spinner is an interface that abstracts the behavior of a terminal spinner.
// This allows for the decoupling of the `DisplayProgress` function from a
// specific spinner implementation, facilitating easier testing and
// maintenance. It defines the essential controls for a spinner: starting,
// stopping, and updating its status message.
type Spinner interface {
	// Start begins the spinner animation.
	Start()
	// Stop halts the spinner animation.
	Stop()
	// UpdateSuffix sets the text that is displayed after the spinner.
	//
	// Parameters:
	//   - suffix: The text string to display.
	UpdateSuffix(suffix string)
}

// realSpinner is a wrapper for the `spinner.Spinner` that implements the
// `Spinner` interface. This adapter allows the `spinner` library to be used
// within the application's CLI framework.
type realSpinner struct {
	s *spinner.Spinner
}

// Start begins the spinner animation.
func (rs *realSpinner) Start() {
	rs.s.Start()
}

// Stop halts the spinner animation.
func (rs *realSpinner) Stop() {
	rs.s.Stop()
}

// UpdateSuffix sets the text that is displayed after the spinner.
//
// Parameters:
//   - suffix: The string to display.
func (rs *realSpinner) UpdateSuffix(suffix string) {
	rs.s.Suffix = suffix
}

var newSpinner = func(options ...spinner.Option) Spinner {
	// Using the same interval as ProgressRefreshRate to synchronize
	s := spinner.New(spinner.CharSets[11], ProgressRefreshRate, options...)
	return &realSpinner{s}
}

// ProgressState encapsulates the aggregated progress of concurrent searches.
// It maintains the individual progress of each approximator and computes the
// average, which is essential for providing a consolidated progress view when
// multiple algorithms are running in parallel.
type ProgressState struct {
	progresses       []float64
	numApproximators int
}

// NewProgressState creates and initializes a new ProgressState.
// It sets up the internal storage for tracking the progress of a specified
// number of approximators.
//
// Parameters:
//   - numApproximators: The number of approximators to track.
//
// Returns:
//   - *ProgressState: A pointer to the new progress state object.
func NewProgressState(numApproximators int) *ProgressState {
	return &ProgressState{
		progresses:       make([]float64, numApproximators),
		numApproximators: numApproximators,
	}
}

// Update records a new progress value for a specific approximator.
// The method ensures that updates are only applied for valid indices.
//
// Parameters:
//   - index: The index of the approximator (0 to numApproximators-1).
//   - value: The progress value (0.0 to 1.0).
func (ps *ProgressState) Update(index int, value float64) {
	if index >= 0 && index < len(ps.progresses) {
		ps.progresses[index] = value
	}
}

// CalculateAverage computes the average progress across all tracked
// approximators. This is used to display a single, consolidated progress bar
// to the user, representing the overall progress of the application.
//
// Returns:
//   - float64: The average progress (0.0 to 1.0).
func (ps *ProgressState) CalculateAverage() float64 {
	var totalProgress float64
	for _, p := range ps.progresses {
		totalProgress += p
	}
	if ps.numApproximators == 0 {
		return 0.0
	}
	return totalProgress / float64(ps.numApproximators)
}

// progressBar generates a string representing a textual progress bar.
//
// Parameters:
//   - progress: The normalized progress value (0.0 to 1.0).
//   - length: The total character width of the progress bar.
//
// Returns:
//   - string: A string representation of the progress bar.
func progressBar(progress float64, length int) string {
	if progress > 1.0 {
		progress = 1.0
	}
	if progress < 0.0 {
		progress = 0.0
	}
	count := int(progress * float64(length))
	var builder strings.Builder
	builder.Grow(length)
	for i := 0; i < length; i++ {
		if i < count {
			builder.WriteRune('█')
		} else {
			builder.WriteRune('░')
		}
	}
	return builder.String()
}

// DisplayProgress manages the asynchronous display of a spinner and progress
// bar. It is designed to run in a dedicated goroutine and orchestrates the UI
// updates for the duration of the searches.
//
// The function's responsibilities include:
//   - Receiving progress updates from a channel.
//   - Aggregating these updates to calculate the average progress.
//   - Periodically refreshing the spinner and progress bar.
//   - Gracefully shutting down when the progress channel is closed.
//
// Parameters:
//   - wg: A WaitGroup to signal when the display routine is complete.
//   - progressChan: The channel receiving progress updates.
//   - numApproximators: The number of approximators contributing to the progress.
//   - out: The io.Writer to which the progress bar is rendered.
func DisplayProgress(wg *sync.WaitGroup, progressChan <-chan rational.ProgressUpdate, numApproximators int, out io.Writer) {
	defer wg.Done()
	if numApproximators <= 0 {
		for range progressChan { // Drain the channel
		}
		return
	}

	state := NewProgressState(numApproximators)
	s := newSpinner(spinner.WithWriter(out))
	s.Start()
	spinnerStopped := false
	defer func() {
		if !spinnerStopped {
			s.Stop()
		}
	}()

	ticker := time.NewTicker(ProgressRefreshRate)
	defer ticker.Stop()

	label := "Progress"
	if numApproximators > 1 {
		label = "Avg progress"
	}

	for {
		select {
		case update, ok := <-progressChan:
			if !ok {
				// Stop the spinner first to free the line
				if !spinnerStopped {
					s.Stop()
					spinnerStopped = true
				}

				// Display the final 100% progress permanently by printing
				// directly to the output
				bar := progressBar(1.0, ProgressBarWidth)
				fmt.Fprintf(out, "%s: %6.2f%% [%s]\n", label, 100.0, bar)
				return
			}
			state.Update(update.ApproximatorIndex, update.Value)
		case <-ticker.C:
			avgProgress := state.CalculateAverage()
			bar := progressBar(avgProgress, ProgressBarWidth)
			s.UpdateSuffix(fmt.Sprintf(" %s: %6.2f%% [%s]", label, avgProgress*100, bar))
		}
	}
}

// DisplayResult formats and prints the final approximation result in the
// classic single-line layout:
//
//	target= <t> best_rat= <num> / <den> max_denom= <limit> err= <e> abs_err= <|e|> niter= <n>
//
// Parameters:
//   - target: The numeric target value.
//   - m: The serialized result (fraction, errors, counters).
//   - out: The io.Writer for the output.
func DisplayResult(target *big.Float, m models.ApproximationResult, out io.Writer) {
	maxDenom := m.Limit
	if m.TrialLimit != 0 {
		maxDenom = m.TrialLimit
	}
	fmt.Fprintf(out, "target= %s%s%s best_rat= %s%s / %s%s max_denom= %s%d%s err= %s%s%s abs_err= %s%s%s niter= %s%d%s\n",
		ColorMagenta(), target.Text('f', targetDisplayDigits), ColorReset(),
		ColorGreen(), m.Numerator, m.Denominator, ColorReset(),
		ColorCyan(), maxDenom, ColorReset(),
		ColorYellow(), m.Error, ColorReset(),
		ColorYellow(), m.AbsError, ColorReset(),
		ColorCyan(), m.Iterations, ColorReset())

	if m.Bound != "" {
		fmt.Fprintf(out, "bound= %s%s%s status= %s%s%s rounds= %s%d%s trial_limit= %s%d%s\n",
			ColorYellow(), m.Bound, ColorReset(),
			ColorGreen(), m.Status, ColorReset(),
			ColorCyan(), m.Rounds, ColorReset(),
			ColorCyan(), m.TrialLimit, ColorReset())
	}
}
