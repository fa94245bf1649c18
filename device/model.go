package device

import (
	"github.com/sarchlab/msusim/codec"
)

// Kernel is the computation behind a Model. Work is spread over the
// compute cycles so a single evaluation stays bounded.
type Kernel interface {
	// InputWords is the number of words the kernel consumes per job.
	InputWords() int
	// Start begins a job on in and returns its latency in cycles.
	Start(in codec.WordStream) (cycles uint64)
	// Step is called once per compute cycle.
	Step()
	// Result returns the output stream once the latency has elapsed.
	Result() codec.WordStream
}

type modelState int

const (
	stateIdle modelState = iota
	stateReceive
	stateCompute
	stateTransfer
)

// ModelConfig tunes the handshake timing of a Model.
type ModelConfig struct {
	// ReadyDelay is the number of cycles after start before the input port
	// first raises ready.
	ReadyDelay int
	// ReadyGap is the number of cycles ready stays low after each accepted
	// word.
	ReadyGap int
	// ValidGap is the number of cycles valid stays low after each result
	// word is consumed.
	ValidGap int
}

// ModelStats counts handshake events observed by a Model.
type ModelStats struct {
	Jobs          uint64
	WordsIn       uint64
	WordsOut      uint64
	FramingErrors uint64
}

// Model is a registered streaming shell: all state changes on the rising
// edge, and outputs reflect the registers after the last edge.
//
// On start it accepts Kernel.InputWords words, computes for the cycles the
// kernel asks for, raises TransferStarted and streams the result out. A
// word whose last flag disagrees with its position counts as a framing
// error; an early last ends the input and zero-fills the rest.
type Model struct {
	kernel Kernel
	config ModelConfig

	in      Inputs
	prevClk bool

	state   modelState
	wait    int
	inbuf   codec.WordStream
	outbuf  codec.WordStream
	outIdx  int
	compute uint64

	out    Outputs
	status Status
	stats  ModelStats
}

// NewModel creates a Model around a kernel.
func NewModel(kernel Kernel, config ModelConfig) *Model {
	return &Model{kernel: kernel, config: config}
}

// Drive latches the input lines.
func (m *Model) Drive(in Inputs) {
	m.in = in
}

// Eval advances the registers on a rising clock edge.
func (m *Model) Eval(clk bool, _ uint64) {
	rising := clk && !m.prevClk
	m.prevClk = clk
	if rising {
		m.tick()
	}
}

// Sample returns the registered outputs.
func (m *Model) Sample() Outputs {
	return m.out
}

// Status returns the registered status bits.
func (m *Model) Status() Status {
	return m.status
}

// Stats returns handshake counters.
func (m *Model) Stats() ModelStats {
	return m.stats
}

// Busy reports whether a job is in progress.
func (m *Model) Busy() bool {
	return m.state != stateIdle
}

func (m *Model) tick() {
	if m.in.Reset {
		m.clear()
		return
	}

	switch m.state {
	case stateIdle:
		if m.in.Start {
			m.state = stateReceive
			m.inbuf = m.inbuf[:0]
			m.wait = m.config.ReadyDelay
		}
	case stateReceive:
		m.receive()
	case stateCompute:
		m.kernel.Step()
		if m.compute > 0 {
			m.compute--
		}
		if m.compute == 0 {
			m.beginTransfer()
		}
	case stateTransfer:
		m.transfer()
	}

	m.out.InReady = m.state == stateReceive && m.wait == 0
}

func (m *Model) receive() {
	if m.out.InReady && m.in.InValid {
		m.inbuf = append(m.inbuf, m.in.InData)
		m.stats.WordsIn++

		full := len(m.inbuf) == m.kernel.InputWords()
		if full != m.in.InLast {
			m.stats.FramingErrors++
		}
		if full || m.in.InLast {
			m.startCompute()
			return
		}
		m.wait = m.config.ReadyGap
		return
	}
	if m.wait > 0 {
		m.wait--
	}
}

func (m *Model) startCompute() {
	in := make(codec.WordStream, m.kernel.InputWords())
	copy(in, m.inbuf)

	m.compute = m.kernel.Start(in)
	m.state = stateCompute
	if m.compute == 0 {
		m.beginTransfer()
	}
}

func (m *Model) beginTransfer() {
	m.stats.Jobs++
	m.outbuf = m.kernel.Result()
	m.state = stateTransfer
	m.outIdx = 0
	m.wait = 0
	m.status.TransferStarted = true
	m.present()
}

func (m *Model) transfer() {
	if m.out.OutValid && m.in.OutReady {
		m.stats.WordsOut++
		m.outIdx++
		if m.outIdx == len(m.outbuf) {
			m.state = stateIdle
			m.out.OutValid = false
			m.out.OutData = 0
			m.status.TransferStarted = false
			return
		}
		m.wait = m.config.ValidGap
	} else if m.wait > 0 {
		m.wait--
	}
	m.present()
}

func (m *Model) present() {
	if m.outIdx >= len(m.outbuf) {
		// Empty result: nothing to stream.
		m.state = stateIdle
		m.out.OutValid = false
		m.status.TransferStarted = false
		return
	}
	m.out.OutValid = m.wait == 0
	m.out.OutData = m.outbuf[m.outIdx]
}

func (m *Model) clear() {
	m.state = stateIdle
	m.wait = 0
	m.inbuf = m.inbuf[:0]
	m.outbuf = nil
	m.outIdx = 0
	m.compute = 0
	m.out = Outputs{}
	m.status = Status{}
}
