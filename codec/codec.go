// Package codec maps computation jobs onto the fixed-width word streams that
// travel across the device's streaming bus.
package codec

import (
	"math/big"

	"github.com/pkg/errors"
)

// ErrMalformedJob is returned when a job cannot be packed into the codec's
// word budget. The job is rejected before any signal is driven.
var ErrMalformedJob = errors.New("malformed job")

// WordCodec defines the bus word layout of a device.
type WordCodec interface {
	// WordWidth is the width of one bus word in bits.
	WordWidth() uint
	// InputWordCount is the number of words in every packed input.
	InputWordCount() int
	// OutputWordCount is the number of words in every device result.
	OutputWordCount() int
	// Pack serializes a job into exactly InputWordCount words.
	Pack(tStart, tFinal uint64, input *big.Int) (WordStream, error)
	// Unpack deserializes a device result of OutputWordCount words.
	Unpack(words WordStream) (tFinal uint64, output *big.Int, err error)
}

func checkWidth(width uint) error {
	if width == 0 || width > 64 {
		return errors.Errorf("word width %d out of range [1, 64]", width)
	}
	return nil
}

// checkOperand rejects values that are negative or wider than bits.
func checkOperand(x *big.Int, bits uint) error {
	if x == nil {
		return errors.Wrap(ErrMalformedJob, "missing operand")
	}
	if x.Sign() < 0 {
		return errors.Wrapf(ErrMalformedJob, "negative operand %s", x.String())
	}
	if uint(x.BitLen()) > bits {
		return errors.Wrapf(ErrMalformedJob,
			"operand is %d bits, budget is %d bits", x.BitLen(), bits)
	}
	return nil
}
