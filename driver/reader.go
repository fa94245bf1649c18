package driver

import (
	"math/big"

	"github.com/go-logr/logr"

	"github.com/sarchlab/msusim/codec"
)

// Reader pulls word streams from the device output port.
type Reader struct {
	clock    *Clock
	watchdog *Watchdog
	width    uint
	stats    *Statistics
	log      logr.Logger
}

// NewReader creates a reader for words of the given width.
func NewReader(clock *Clock, watchdog *Watchdog, width uint, stats *Statistics, log logr.Logger) *Reader {
	return &Reader{clock: clock, watchdog: watchdog, width: width, stats: stats, log: log}
}

// Read accepts exactly count words in arrival order, least significant
// first. Ready stays asserted for the whole read and drops afterwards.
func (r *Reader) Read(count int) (codec.WordStream, error) {
	lines := r.clock.Lines()
	lines.OutReady = true

	words := make(codec.WordStream, 0, count)
	for len(words) < count {
		r.clock.SetPhase("waiting for output valid")
		for !r.clock.Outputs().OutValid {
			r.stats.ReadStalls++
			if err := r.clock.Step(); err != nil {
				return nil, err
			}
		}
		r.watchdog.Acknowledge()

		words = append(words, r.clock.Outputs().OutData&r.mask())

		r.clock.SetPhase("reading output word")
		if err := r.clock.Step(); err != nil {
			return nil, err
		}
		r.stats.WordsRead++
	}

	lines.OutReady = false
	r.log.V(2).Info("output stream received", "words", len(words))

	return words, nil
}

// ReadInt reads count words and reassembles them into one integer.
func (r *Reader) ReadInt(count int) (*big.Int, error) {
	words, err := r.Read(count)
	if err != nil {
		return nil, err
	}
	return words.Int(r.width), nil
}

func (r *Reader) mask() uint64 {
	if r.width >= 64 {
		return ^uint64(0)
	}
	return 1<<r.width - 1
}
