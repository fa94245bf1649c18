// Package devicetest provides device doubles for driver tests.
package devicetest

import (
	"github.com/sarchlab/msusim/device"
)

// Edge is what a device saw on one rising clock edge.
type Edge struct {
	// Time is the simulation time of the edge.
	Time uint64
	// In are the inputs driven during the edge.
	In device.Inputs
	// Before are the outputs the device presented going into the edge.
	Before device.Outputs
}

// InTransfer reports whether an input word crossed on this edge.
func (e Edge) InTransfer() bool {
	return e.In.InValid && e.Before.InReady
}

// OutTransfer reports whether an output word crossed on this edge.
func (e Edge) OutTransfer() bool {
	return e.Before.OutValid && e.In.OutReady
}

// Recorder wraps a device and logs every rising edge.
type Recorder struct {
	device.Device

	in      device.Inputs
	prevClk bool
	evals   int
	edges   []Edge
}

// NewRecorder wraps d.
func NewRecorder(d device.Device) *Recorder {
	return &Recorder{Device: d}
}

// Drive records and forwards the inputs.
func (r *Recorder) Drive(in device.Inputs) {
	r.in = in
	r.Device.Drive(in)
}

// Eval records rising edges and forwards the evaluation.
func (r *Recorder) Eval(clk bool, now uint64) {
	r.evals++
	if clk && !r.prevClk {
		r.edges = append(r.edges, Edge{Time: now, In: r.in, Before: r.Device.Sample()})
	}
	r.prevClk = clk
	r.Device.Eval(clk, now)
}

// Edges returns every recorded rising edge.
func (r *Recorder) Edges() []Edge {
	return r.edges
}

// Evals returns the number of evaluations, both clock levels.
func (r *Recorder) Evals() int {
	return r.evals
}

// InWords returns the input words that crossed, in order.
func (r *Recorder) InWords() []uint64 {
	var words []uint64
	for _, e := range r.edges {
		if e.InTransfer() {
			words = append(words, e.In.InData)
		}
	}
	return words
}

// OutWords returns the output words that crossed, in order.
func (r *Recorder) OutWords() []uint64 {
	var words []uint64
	for _, e := range r.edges {
		if e.OutTransfer() {
			words = append(words, e.Before.OutData)
		}
	}
	return words
}

// LastEdges returns the edges on which last was driven.
func (r *Recorder) LastEdges() []Edge {
	var edges []Edge
	for _, e := range r.edges {
		if e.In.InLast {
			edges = append(edges, e)
		}
	}
	return edges
}

// Stalled never raises ready, valid or any status bit.
type Stalled struct {
	evals int
}

// Drive ignores the inputs.
func (s *Stalled) Drive(device.Inputs) {}

// Eval counts evaluations.
func (s *Stalled) Eval(bool, uint64) { s.evals++ }

// Sample returns idle outputs.
func (s *Stalled) Sample() device.Outputs { return device.Outputs{} }

// Status returns idle status.
func (s *Stalled) Status() device.Status { return device.Status{} }

// Evals returns the number of evaluations.
func (s *Stalled) Evals() int { return s.evals }

// Scripted presents fixed outputs chosen per rising edge by a function.
type Scripted struct {
	// Fn returns the outputs to present after rising edge n (0-based).
	Fn func(n int, in device.Inputs) (device.Outputs, device.Status)

	in      device.Inputs
	prevClk bool
	n       int
	out     device.Outputs
	st      device.Status
}

// Drive latches the inputs.
func (s *Scripted) Drive(in device.Inputs) { s.in = in }

// Eval calls Fn on each rising edge.
func (s *Scripted) Eval(clk bool, _ uint64) {
	if clk && !s.prevClk {
		s.out, s.st = s.Fn(s.n, s.in)
		s.n++
	}
	s.prevClk = clk
}

// Sample returns the scripted outputs.
func (s *Scripted) Sample() device.Outputs { return s.out }

// Status returns the scripted status.
func (s *Scripted) Status() device.Status { return s.st }
