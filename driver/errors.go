package driver

import "github.com/pkg/errors"

var (
	// ErrProtocolDeadlock means the watchdog limit was reached without any
	// handshake progress. It is fatal; the run cannot continue.
	ErrProtocolDeadlock = errors.New("protocol deadlock")

	// ErrContractViolation means the device drove an illegal signal
	// combination. Only reported with Config.StrictContract.
	ErrContractViolation = errors.New("device contract violation")

	// ErrFinalTimeMismatch means the device returned a different t_final
	// than the job asked for. Only reported with Config.CheckFinalTime.
	ErrFinalTimeMismatch = errors.New("final time mismatch")

	// ErrNotReset means a job was submitted before Reset.
	ErrNotReset = errors.New("device has not been reset")

	// ErrAlreadyReset means Reset was called more than once.
	ErrAlreadyReset = errors.New("device has already been reset")
)

// Fatal reports whether err leaves the clock unusable.
func Fatal(err error) bool {
	return errors.Is(err, ErrProtocolDeadlock) || errors.Is(err, ErrContractViolation)
}
