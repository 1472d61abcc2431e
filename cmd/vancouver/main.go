// Command vancouver assigns peer reviews and estimates grades from the scores.
//
// Usage:
//
//	vancouver assign --groups groups.csv --covered
//	vancouver estimate --reviews reviews.csv --truths truths.csv
//	vancouver simulate --runs 20
//
// Configuration is layered: built-in defaults, then the YAML file given with
// --config, then VANCOUVER_* environment variables (VANCOUVER_ESTIMATOR_MODE,
// VANCOUVER_ASSIGNMENT_REVIEWS_PER_PEER, ...).
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/arloliu/vancouver"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, vancouver.ErrConnectivity) {
			fmt.Fprintln(os.Stderr, "check --nats-url and that the server runs with JetStream enabled")
		}
		os.Exit(1)
	}
}
