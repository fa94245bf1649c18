package trace

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/pkg/errors"
	"github.com/sarchlab/akita/v4/sim"
	"go.yaml.in/yaml/v3"

	"github.com/sarchlab/msusim/driver"
)

// Toggle counts the transitions of one bit.
type Toggle struct {
	Rise uint64 `yaml:"rise"`
	Fall uint64 `yaml:"fall"`
}

// Covered reports whether the bit went both ways.
func (t Toggle) Covered() bool {
	return t.Rise > 0 && t.Fall > 0
}

// Report is the coverage written at shutdown.
type Report struct {
	Samples uint64            `yaml:"samples"`
	Bits    map[string]Toggle `yaml:"bits"`
}

// Coverage collects per-bit toggle counts of every traced line.
type Coverage struct {
	signals []signal
	prev    []uint64
	toggles [][]Toggle
	samples uint64
}

// NewCoverage creates a collector for a data bus of the given width.
func NewCoverage(width uint) *Coverage {
	sigs := signals(width)
	toggles := make([][]Toggle, len(sigs))
	for i, s := range sigs {
		toggles[i] = make([]Toggle, s.width)
	}
	return &Coverage{
		signals: sigs,
		prev:    make([]uint64, len(sigs)),
		toggles: toggles,
	}
}

// Func records one sample.
func (c *Coverage) Func(ctx sim.HookCtx) {
	if ctx.Pos != driver.HookPosHalfCycle {
		return
	}
	s, ok := ctx.Item.(driver.Sample)
	if !ok {
		return
	}

	for i, sig := range c.signals {
		val := sig.value(s)
		if c.samples > 0 {
			changed := val ^ c.prev[i]
			for b := uint(0); b < sig.width; b++ {
				if changed>>b&1 == 0 {
					continue
				}
				if val>>b&1 == 1 {
					c.toggles[i][b].Rise++
				} else {
					c.toggles[i][b].Fall++
				}
			}
		}
		c.prev[i] = val
	}
	c.samples++
}

// Report returns the toggle counts keyed by bit name.
func (c *Coverage) Report() Report {
	r := Report{Samples: c.samples, Bits: make(map[string]Toggle)}
	for i, sig := range c.signals {
		for b, t := range c.toggles[i] {
			r.Bits[bitName(sig, b)] = t
		}
	}
	return r
}

// Uncovered returns the bits that never toggled both ways, sorted.
func (c *Coverage) Uncovered() []string {
	var names []string
	for name, t := range c.Report().Bits {
		if !t.Covered() {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Write encodes the report as YAML.
func (c *Coverage) Write(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	if err := enc.Encode(c.Report()); err != nil {
		return errors.Wrap(err, "failed to encode coverage")
	}
	return errors.Wrap(enc.Close(), "failed to encode coverage")
}

// WriteFile writes the report to path.
func (c *Coverage) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "failed to create coverage file")
	}
	if err := c.Write(f); err != nil {
		f.Close()
		return err
	}
	return errors.Wrap(f.Close(), "failed to close coverage file")
}

func bitName(sig signal, b int) string {
	if sig.width == 1 {
		return sig.name
	}
	return fmt.Sprintf("%s[%d]", sig.name, b)
}
