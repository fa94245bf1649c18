package driver

import (
	"github.com/pkg/errors"
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/msusim/device"
)

// HookPosHalfCycle marks the hook invoked after every device evaluation.
// The hook item is a Sample.
var HookPosHalfCycle = &sim.HookPos{Name: "HalfCycle"}

// Sample is the state of every line right after one evaluation.
type Sample struct {
	Time   uint64
	Clock  bool
	In     device.Inputs
	Out    device.Outputs
	Status device.Status
}

// Clock drives a device one clock period at a time. It is the only place
// the device is evaluated, and every wait in the driver is a loop over
// Step.
type Clock struct {
	*sim.HookableBase

	dev      device.Device
	watchdog *Watchdog
	width    uint
	strict   bool

	in     device.Inputs
	now    uint64
	cycles uint64
	phase  string
	err    error
}

// NewClock creates a clock for dev. Time starts at zero.
func NewClock(dev device.Device, watchdog *Watchdog, width uint, strict bool) *Clock {
	return &Clock{
		HookableBase: sim.NewHookableBase(),
		dev:          dev,
		watchdog:     watchdog,
		width:        width,
		strict:       strict,
		phase:        "idle",
	}
}

// Lines returns the input lines. Changes take effect on the next Step.
func (c *Clock) Lines() *device.Inputs {
	return &c.in
}

// Outputs returns the device outputs after the last Step.
func (c *Clock) Outputs() device.Outputs {
	return c.dev.Sample()
}

// Status returns the device status after the last Step.
func (c *Clock) Status() device.Status {
	return c.dev.Status()
}

// Now returns the simulation time in half-cycles.
func (c *Clock) Now() uint64 {
	return c.now
}

// Cycles returns the number of completed clock periods.
func (c *Clock) Cycles() uint64 {
	return c.cycles
}

// SetPhase names what the driver is waiting for, for diagnostics.
func (c *Clock) SetPhase(phase string) {
	c.phase = phase
}

// Phase returns the current phase name.
func (c *Clock) Phase() string {
	return c.phase
}

// Err returns the fatal error that stopped the clock, if any.
func (c *Clock) Err() error {
	return c.err
}

// Step advances the device by one clock period: a low half-cycle then a
// high half-cycle, each evaluated and published to hooks. Once the watchdog
// has tripped or a contract violation was seen, Step keeps returning that
// error without evaluating.
func (c *Clock) Step() error {
	if c.err != nil {
		return c.err
	}

	if err := c.watchdog.Tick(); err != nil {
		c.err = errors.Wrapf(err, "%s at time %d", c.phase, c.now)
		return c.err
	}

	c.half(false)
	c.half(true)
	c.cycles++

	if c.strict {
		c.err = c.check()
	}
	return c.err
}

func (c *Clock) half(clk bool) {
	c.dev.Drive(c.in)
	c.dev.Eval(clk, c.now)

	if c.NumHooks() > 0 {
		c.InvokeHook(sim.HookCtx{
			Domain: c,
			Pos:    HookPosHalfCycle,
			Item: Sample{
				Time:   c.now,
				Clock:  clk,
				In:     c.in,
				Out:    c.dev.Sample(),
				Status: c.dev.Status(),
			},
		})
	}

	c.now++
}

func (c *Clock) check() error {
	out := c.dev.Sample()
	st := c.dev.Status()

	if c.in.Reset && !device.Idle(out, st) {
		return errors.Wrapf(ErrContractViolation,
			"device not idle under reset at time %d (%+v, %+v)", c.now, out, st)
	}
	if out.OutValid && c.width < 64 && out.OutData>>c.width != 0 {
		return errors.Wrapf(ErrContractViolation,
			"output word %#x wider than %d bits at time %d", out.OutData, c.width, c.now)
	}
	return nil
}
