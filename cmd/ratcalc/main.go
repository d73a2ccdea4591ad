// Command ratcalc searches for the best rational approximation of a real
// value under a denominator limit, from the command line or as an HTTP
// service.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/agbru/ratcalc/internal/app"
	apperrors "github.com/agbru/ratcalc/internal/errors"
)

func main() {
	os.Exit(run(os.Args, os.Stdout, os.Stderr))
}

// run contains the real entry point logic, kept separate from main so it
// can return an exit code instead of calling os.Exit directly.
func run(args []string, stdout, stderr *os.File) int {
	// Version flag works in any position and short-circuits everything else.
	if app.HasVersionFlag(args[1:]) {
		app.PrintVersion(stdout)
		return apperrors.ExitSuccess
	}

	application, err := app.New(args, stderr)
	if err != nil {
		if app.IsHelpError(err) {
			return apperrors.ExitSuccess
		}
		fmt.Fprintf(stderr, "Configuration error: %v\n", err)
		return apperrors.ExitErrorConfig
	}

	return application.Run(context.Background(), stdout)
}
