package driver

import "github.com/pkg/errors"

// Watchdog bounds the number of clock steps between progress events.
type Watchdog struct {
	limit uint64
	count uint64
}

// NewWatchdog creates a watchdog that trips on the limit-th step without
// an acknowledgment.
func NewWatchdog(limit uint64) *Watchdog {
	return &Watchdog{limit: limit}
}

// Tick counts one step. It returns ErrProtocolDeadlock when the count
// reaches the limit.
func (w *Watchdog) Tick() error {
	w.count++
	if w.count >= w.limit {
		return errors.Wrapf(ErrProtocolDeadlock, "no progress in %d steps", w.count)
	}
	return nil
}

// Acknowledge records forward progress.
func (w *Watchdog) Acknowledge() {
	w.count = 0
}

// Count returns the steps since the last acknowledgment.
func (w *Watchdog) Count() uint64 {
	return w.count
}

// Limit returns the configured limit.
func (w *Watchdog) Limit() uint64 {
	return w.limit
}
