// Package loopback provides a streaming device that returns its input.
package loopback

import (
	"github.com/sarchlab/msusim/codec"
	"github.com/sarchlab/msusim/device"
)

// Config configures a loopback device.
type Config struct {
	// Words is the length of every job, in and out.
	Words int
	// Latency is the number of cycles between the last input word and the
	// first output word.
	Latency uint64
	// Timing tunes the handshake.
	Timing device.ModelConfig
}

type kernel struct {
	words   int
	latency uint64
	out     codec.WordStream
}

func (k *kernel) InputWords() int { return k.words }

func (k *kernel) Start(in codec.WordStream) uint64 {
	k.out = make(codec.WordStream, len(in))
	copy(k.out, in)
	return k.latency
}

func (k *kernel) Step() {}

func (k *kernel) Result() codec.WordStream { return k.out }

// New creates a loopback device.
func New(config Config) *device.Model {
	return device.NewModel(&kernel{words: config.Words, latency: config.Latency}, config.Timing)
}
