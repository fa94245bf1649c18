package trace

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/pkg/errors"
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/msusim/driver"
)

// Waveform writes every half-cycle sample to a VCD file. Only changed
// signals are emitted after the first sample.
type Waveform struct {
	out    *bufio.Writer
	closer io.Closer

	signals    []signal
	ids        []string
	prev       []uint64
	halfPeriod uint64
	started    bool
	err        error
}

// NewWaveform creates a waveform writer on w. freq sets the time scale: one
// half-cycle is half a clock period, in picoseconds.
func NewWaveform(w io.Writer, width uint, freq sim.Freq) *Waveform {
	sigs := signals(width)
	ids := make([]string, len(sigs))
	for i := range sigs {
		ids[i] = string(rune('!' + i))
	}

	half := uint64(1e12 / (2 * float64(freq)))
	if half == 0 {
		half = 1
	}

	v := &Waveform{
		out:        bufio.NewWriter(w),
		signals:    sigs,
		ids:        ids,
		prev:       make([]uint64, len(sigs)),
		halfPeriod: half,
	}
	if c, ok := w.(io.Closer); ok {
		v.closer = c
	}
	return v
}

// CreateWaveform creates a VCD file at path.
func CreateWaveform(path string, width uint, freq sim.Freq) (*Waveform, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create waveform file")
	}
	return NewWaveform(f, width, freq), nil
}

// Func records one sample.
func (v *Waveform) Func(ctx sim.HookCtx) {
	if ctx.Pos != driver.HookPosHalfCycle || v.err != nil {
		return
	}
	s, ok := ctx.Item.(driver.Sample)
	if !ok {
		return
	}

	if !v.started {
		v.header()
		v.started = true
		v.printf("#%d\n$dumpvars\n", s.Time*v.halfPeriod)
		for i, sig := range v.signals {
			v.prev[i] = sig.value(s)
			v.emit(i, v.prev[i])
		}
		v.printf("$end\n")
		return
	}

	stamped := false
	for i, sig := range v.signals {
		val := sig.value(s)
		if val == v.prev[i] {
			continue
		}
		if !stamped {
			v.printf("#%d\n", s.Time*v.halfPeriod)
			stamped = true
		}
		v.prev[i] = val
		v.emit(i, val)
	}
}

// Err returns the first write error.
func (v *Waveform) Err() error {
	return v.err
}

// Close flushes the file and closes it.
func (v *Waveform) Close() error {
	if err := v.out.Flush(); err != nil && v.err == nil {
		v.err = err
	}
	if v.closer != nil {
		if err := v.closer.Close(); err != nil && v.err == nil {
			v.err = err
		}
		v.closer = nil
	}
	return v.err
}

func (v *Waveform) header() {
	v.printf("$timescale 1ps $end\n")
	v.printf("$scope module tb $end\n")
	for i, sig := range v.signals {
		v.printf("$var wire %d %s %s $end\n", sig.width, v.ids[i], sig.name)
	}
	v.printf("$upscope $end\n")
	v.printf("$enddefinitions $end\n")
}

func (v *Waveform) emit(i int, val uint64) {
	if v.signals[i].width == 1 {
		v.printf("%d%s\n", val&1, v.ids[i])
		return
	}
	v.printf("b%s %s\n", strconv.FormatUint(val, 2), v.ids[i])
}

func (v *Waveform) printf(format string, args ...interface{}) {
	if v.err != nil {
		return
	}
	if _, err := fmt.Fprintf(v.out, format, args...); err != nil {
		v.err = errors.Wrap(err, "failed to write waveform")
	}
}
