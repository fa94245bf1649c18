// Package trace provides instrumentation sinks for the driver clock: a VCD
// waveform writer and a toggle coverage collector. Both are akita hooks and
// do nothing unless attached.
package trace

import (
	"github.com/sarchlab/msusim/driver"
)

type signal struct {
	name  string
	width uint
	value func(s driver.Sample) uint64
}

func bit(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

// signals lists the traced lines in declaration order. width is the data
// bus width.
func signals(width uint) []signal {
	return []signal{
		{"clk", 1, func(s driver.Sample) uint64 { return bit(s.Clock) }},
		{"reset", 1, func(s driver.Sample) uint64 { return bit(s.In.Reset) }},
		{"ap_start", 1, func(s driver.Sample) uint64 { return bit(s.In.Start) }},
		{"s_axis_tdata", width, func(s driver.Sample) uint64 { return s.In.InData }},
		{"s_axis_tvalid", 1, func(s driver.Sample) uint64 { return bit(s.In.InValid) }},
		{"s_axis_tready", 1, func(s driver.Sample) uint64 { return bit(s.Out.InReady) }},
		{"s_axis_tlast", 1, func(s driver.Sample) uint64 { return bit(s.In.InLast) }},
		{"m_axis_tdata", width, func(s driver.Sample) uint64 { return s.Out.OutData }},
		{"m_axis_tvalid", 1, func(s driver.Sample) uint64 { return bit(s.Out.OutValid) }},
		{"m_axis_tready", 1, func(s driver.Sample) uint64 { return bit(s.In.OutReady) }},
		{"start_xfer", 1, func(s driver.Sample) uint64 { return bit(s.Status.TransferStarted) }},
	}
}
