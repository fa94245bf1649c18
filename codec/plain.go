package codec

import (
	"math/big"

	"github.com/pkg/errors"
)

// Plain carries the operand alone. Time fields are not transferred, so
// Unpack always reports a final time of zero.
type Plain struct {
	width uint
	in    int
	out   int
}

// NewPlain creates a Plain codec with the given word width and input/output
// word counts.
func NewPlain(width uint, in, out int) (*Plain, error) {
	if err := checkWidth(width); err != nil {
		return nil, err
	}
	if in <= 0 || out <= 0 {
		return nil, errors.Errorf("word counts must be > 0, got in=%d out=%d", in, out)
	}
	return &Plain{width: width, in: in, out: out}, nil
}

// WordWidth returns the bus word width in bits.
func (c *Plain) WordWidth() uint { return c.width }

// InputWordCount returns the packed input length.
func (c *Plain) InputWordCount() int { return c.in }

// OutputWordCount returns the result length.
func (c *Plain) OutputWordCount() int { return c.out }

// Pack splits the operand into InputWordCount words.
func (c *Plain) Pack(_, _ uint64, input *big.Int) (WordStream, error) {
	return Split(input, c.width, c.in)
}

// Unpack joins the result words into one integer.
func (c *Plain) Unpack(words WordStream) (uint64, *big.Int, error) {
	if err := checkLen(words, c.out); err != nil {
		return 0, nil, err
	}
	return 0, words.Int(c.width), nil
}
