// Package device defines the signal boundary between the co-simulation driver
// and a clocked streaming device, plus a registered ready/valid shell that
// behavioral device models are built on.
package device

// Inputs are the lines the driver writes. They are sampled by the device on
// every evaluation.
type Inputs struct {
	Reset bool
	Start bool

	// Input stream (driver to device).
	InData  uint64
	InValid bool
	InLast  bool

	// Output stream back-pressure (driver to device).
	OutReady bool
}

// Outputs are the streaming lines the driver reads between steps.
type Outputs struct {
	// Input stream acceptance.
	InReady bool

	// Output stream (device to driver).
	OutData  uint64
	OutValid bool
}

// Status carries device state that is not part of either stream.
type Status struct {
	// TransferStarted is raised once the device begins returning a result.
	TransferStarted bool
}

// Device is the capability set of anything the driver can clock. Simulated
// models implement it directly; a hardware backend would adapt its register
// interface to the same four calls.
type Device interface {
	// Drive latches the input lines for the next evaluation.
	Drive(in Inputs)
	// Eval evaluates the device with the clock line at level clk. now is the
	// simulation time in half-cycles.
	Eval(clk bool, now uint64)
	// Sample returns the current output lines.
	Sample() Outputs
	// Status returns the current status bits.
	Status() Status
}

// Idle reports whether no stream or status line is asserted.
func Idle(out Outputs, st Status) bool {
	return !out.InReady && !out.OutValid && !st.TransferStarted
}
