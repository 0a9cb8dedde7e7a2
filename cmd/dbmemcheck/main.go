// Command dbmemcheck runs the in-memory store self-check and exits non-zero
// if any step fails.
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/MikhailWahib/dbmemory"
)

var verbose = flag.Bool("v", false, "log every check at debug level")

func main() {
	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger() (*zap.Logger, error) {
	if *verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func run() error {
	log, err := newLogger()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	if err := dbmemory.RunTests(log); err != nil {
		return fmt.Errorf("self-check failed: %w", err)
	}
	log.Info("self-check passed")
	return nil
}
