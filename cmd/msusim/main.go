// Command msusim drives a modular squaring unit model through reset and a
// series of squaring jobs over its ready/valid streaming interface.
//
// Usage:
//
//	go run ./cmd/msusim run [flags]
//	go run ./cmd/msusim config [file]
//
// Example:
//
//	# Square 0x1234 five times modulo the default 1024-bit modulus
//	go run ./cmd/msusim run --t-start 0 --t-final 5 --input 0x1234
//
//	# Run a job file with waveform and coverage output
//	go run ./cmd/msusim run --jobs jobs.yaml --trace dump.vcd --coverage cov.yaml
//
// Exit status is 0 on success, 1 for usage or job errors, 2 when the
// watchdog detects a protocol deadlock and 3 on a device contract violation.
package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/msusim/driver"
)

const (
	exitOK        = 0
	exitFailure   = 1
	exitDeadlock  = 2
	exitViolation = 3
)

func main() {
	cmd := newRootCmd()
	err := cmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	atexit.Exit(exitCode(err))
}

// exitCode maps a run error to the process exit status.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, driver.ErrProtocolDeadlock):
		return exitDeadlock
	case errors.Is(err, driver.ErrContractViolation):
		return exitViolation
	default:
		return exitFailure
	}
}
