// Package driver clocks a streaming device through reset and a sequence of
// jobs. Every wait is a bounded spin on Clock.Step, guarded by a watchdog.
package driver

import (
	"math/big"

	"github.com/go-logr/logr"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/msusim/codec"
	"github.com/sarchlab/msusim/device"
)

// Job is one computation request.
type Job struct {
	// ID tags log lines. A nil ID is replaced by a random one on Run.
	ID uuid.UUID

	TStart uint64
	TFinal uint64
	Input  *big.Int

	// Output and TFinalOut are filled in by a successful Run.
	Output    *big.Int
	TFinalOut uint64
}

// NewJob creates a job with a fresh ID.
func NewJob(tStart, tFinal uint64, input *big.Int) *Job {
	return &Job{ID: uuid.New(), TStart: tStart, TFinal: tFinal, Input: input}
}

// Statistics holds driver counters.
type Statistics struct {
	// Cycles is the number of clock periods stepped.
	Cycles uint64
	// Jobs is the number of completed jobs.
	Jobs uint64
	// WordsWritten is the number of input words transferred.
	WordsWritten uint64
	// WordsRead is the number of output words transferred.
	WordsRead uint64
	// WriteStalls is the number of cycles spent waiting for input ready.
	WriteStalls uint64
	// ReadStalls is the number of cycles spent waiting for output valid.
	ReadStalls uint64
	// ComputeCycles is the number of cycles spent waiting for the device
	// to start returning a result.
	ComputeCycles uint64
}

// SimTime returns the simulated time covered by Cycles at freq.
func (s Statistics) SimTime(freq sim.Freq) float64 {
	if freq <= 0 {
		return 0
	}
	return float64(s.Cycles) / float64(freq)
}

// Option is a functional option for configuring the Driver.
type Option func(*Driver)

// WithConfig sets the driver configuration.
func WithConfig(config *Config) Option {
	return func(d *Driver) {
		d.config = config.Clone()
	}
}

// WithLogger sets the logger.
func WithLogger(log logr.Logger) Option {
	return func(d *Driver) {
		d.log = log
	}
}

// WithHook attaches an instrumentation hook to the clock.
func WithHook(hook sim.Hook) Option {
	return func(d *Driver) {
		d.hooks = append(d.hooks, hook)
	}
}

// Driver owns the clock of one device and runs jobs on it.
type Driver struct {
	config *Config
	codec  codec.WordCodec
	log    logr.Logger
	hooks  []sim.Hook

	clock    *Clock
	watchdog *Watchdog
	resetter *Resetter
	writer   *Writer
	reader   *Reader

	stats Statistics
	reset bool
}

// New creates a driver for dev using the given word layout.
func New(dev device.Device, wc codec.WordCodec, opts ...Option) (*Driver, error) {
	if dev == nil {
		return nil, errors.New("driver needs a device")
	}
	if wc == nil {
		return nil, errors.New("driver needs a word codec")
	}

	d := &Driver{
		config: DefaultConfig(),
		codec:  wc,
		log:    logr.Discard(),
	}
	for _, opt := range opts {
		opt(d)
	}
	if err := d.config.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid driver config")
	}

	width := wc.WordWidth()
	d.watchdog = NewWatchdog(d.config.WatchdogLimit)
	d.clock = NewClock(dev, d.watchdog, width, d.config.StrictContract)
	for _, h := range d.hooks {
		d.clock.AcceptHook(h)
	}
	d.resetter = NewResetter(d.clock, d.watchdog, d.config.ResetCycles, d.config.ReleaseCycles)
	d.writer = NewWriter(d.clock, d.watchdog, width, &d.stats, d.log)
	d.reader = NewReader(d.clock, d.watchdog, width, &d.stats, d.log)

	return d, nil
}

// Config returns a copy of the driver configuration.
func (d *Driver) Config() *Config {
	return d.config.Clone()
}

// Clock returns the driver clock.
func (d *Driver) Clock() *Clock {
	return d.clock
}

// Watchdog returns the driver watchdog.
func (d *Driver) Watchdog() *Watchdog {
	return d.watchdog
}

// Writer returns the input stream writer.
func (d *Driver) Writer() *Writer {
	return d.writer
}

// Reader returns the output stream reader.
func (d *Driver) Reader() *Reader {
	return d.reader
}

// Stats returns driver statistics.
func (d *Driver) Stats() Statistics {
	s := d.stats
	s.Cycles = d.clock.Cycles()
	return s
}

// Reset runs the reset sequence. It must be called exactly once, before the
// first job.
func (d *Driver) Reset() error {
	if d.reset {
		return ErrAlreadyReset
	}
	d.reset = true

	if err := d.resetter.Reset(); err != nil {
		d.log.Error(err, "reset failed")
		return err
	}
	d.log.V(1).Info("device reset", "cycles", d.clock.Cycles())
	return nil
}
