package main

import (
	"github.com/pkg/errors"

	"github.com/sarchlab/msusim/codec"
	"github.com/sarchlab/msusim/device"
	"github.com/sarchlab/msusim/device/loopback"
	"github.com/sarchlab/msusim/device/squarer"
)

// deviceOptions selects and tunes the simulated device.
type deviceOptions struct {
	kind            string
	width           uint
	operandBits     uint
	words           int
	modulus         string
	cyclesPerSquare uint64
	latency         uint64
	timing          device.ModelConfig
}

// build creates the device and the codec that matches its word layout.
func (o deviceOptions) build() (device.Device, codec.WordCodec, error) {
	switch o.kind {
	case "squarer":
		wc, err := codec.NewTimed(o.width, o.operandBits)
		if err != nil {
			return nil, nil, err
		}
		n, err := squarer.ParseModulus(o.modulus)
		if err != nil {
			return nil, nil, err
		}
		dev, err := squarer.New(squarer.Config{
			Codec:           wc,
			Modulus:         n,
			CyclesPerSquare: o.cyclesPerSquare,
			Timing:          o.timing,
		})
		if err != nil {
			return nil, nil, err
		}
		return dev, wc, nil

	case "loopback":
		wc, err := codec.NewPlain(o.width, o.words, o.words)
		if err != nil {
			return nil, nil, err
		}
		dev := loopback.New(loopback.Config{
			Words:   o.words,
			Latency: o.latency,
			Timing:  o.timing,
		})
		return dev, wc, nil
	}

	return nil, nil, errors.Errorf("unknown device %q (want squarer or loopback)", o.kind)
}
