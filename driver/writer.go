package driver

import (
	"github.com/go-logr/logr"
	"github.com/pkg/errors"

	"github.com/sarchlab/msusim/codec"
)

// Writer pushes word streams into the device input port.
type Writer struct {
	clock    *Clock
	watchdog *Watchdog
	width    uint
	stats    *Statistics
	log      logr.Logger
}

// NewWriter creates a writer for words of the given width.
func NewWriter(clock *Clock, watchdog *Watchdog, width uint, stats *Statistics, log logr.Logger) *Writer {
	return &Writer{clock: clock, watchdog: watchdog, width: width, stats: stats, log: log}
}

// Write sends words least significant first. For each word it waits, with
// valid low, until the device is ready, then drives the word with valid (and
// last, for the final word) for exactly one cycle, the cycle on which it
// crosses. One more cycle after the final word lets the device register
// completion.
func (w *Writer) Write(words codec.WordStream) error {
	if !words.Fits(w.width) {
		return errors.Errorf("word stream %s does not fit %d-bit words", words, w.width)
	}

	lines := w.clock.Lines()
	for i, word := range words {
		w.clock.SetPhase("waiting for input ready")
		for !w.clock.Outputs().InReady {
			lines.InValid = false
			w.stats.WriteStalls++
			if err := w.clock.Step(); err != nil {
				return err
			}
		}
		w.watchdog.Acknowledge()

		lines.InData = word
		lines.InValid = true
		lines.InLast = i == len(words)-1

		w.clock.SetPhase("writing input word")
		if err := w.clock.Step(); err != nil {
			return err
		}
		w.stats.WordsWritten++
		lines.InLast = false
	}

	lines.InValid = false
	lines.InData = 0
	w.log.V(2).Info("input stream sent", "words", len(words))

	return w.clock.Step()
}
