package driver

import "github.com/sarchlab/msusim/device"

// Resetter brings a device to a known idle state.
type Resetter struct {
	clock    *Clock
	watchdog *Watchdog
	hold     int
	release  int
}

// NewResetter creates a resetter that holds reset for hold cycles and then
// steps release more cycles.
func NewResetter(clock *Clock, watchdog *Watchdog, hold, release int) *Resetter {
	return &Resetter{clock: clock, watchdog: watchdog, hold: hold, release: release}
}

// Reset drives all control and handshake lines idle with reset asserted,
// steps through the hold period, then releases reset.
func (r *Resetter) Reset() error {
	r.watchdog.Acknowledge()

	lines := r.clock.Lines()
	*lines = device.Inputs{Reset: true}

	r.clock.SetPhase("holding reset")
	for i := 0; i < r.hold; i++ {
		if err := r.clock.Step(); err != nil {
			return err
		}
	}

	lines.Reset = false
	r.clock.SetPhase("releasing reset")
	for i := 0; i < r.release; i++ {
		if err := r.clock.Step(); err != nil {
			return err
		}
	}

	r.clock.SetPhase("idle")
	return nil
}
