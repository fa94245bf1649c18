package codec

import (
	"math/big"

	"github.com/pkg/errors"
)

// TimeBits is the width of the t_start and t_final fields.
const TimeBits = 64

// Timed is the squaring unit layout. The input stream is
//
//	[t_start | t_final | operand]
//
// and the result stream is
//
//	[t_final | result]
//
// with each time field split into TimeBits/width words and every field
// stored least significant word first.
type Timed struct {
	width   uint
	operand int
}

// NewTimed creates a Timed codec for operands of operandBits bits. The word
// width must divide TimeBits.
func NewTimed(width, operandBits uint) (*Timed, error) {
	if err := checkWidth(width); err != nil {
		return nil, err
	}
	if TimeBits%width != 0 {
		return nil, errors.Errorf("word width %d does not divide %d", width, TimeBits)
	}
	if operandBits == 0 {
		return nil, errors.New("operand width must be > 0")
	}
	return &Timed{
		width:   width,
		operand: int((operandBits + width - 1) / width),
	}, nil
}

// WordWidth returns the bus word width in bits.
func (c *Timed) WordWidth() uint { return c.width }

// TimeWords is the number of words per time field.
func (c *Timed) TimeWords() int { return int(TimeBits / c.width) }

// OperandWords is the number of words per operand.
func (c *Timed) OperandWords() int { return c.operand }

// OperandBits is the operand budget in bits.
func (c *Timed) OperandBits() uint { return uint(c.operand) * c.width }

// InputWordCount returns the packed input length.
func (c *Timed) InputWordCount() int { return 2*c.TimeWords() + c.operand }

// OutputWordCount returns the result length.
func (c *Timed) OutputWordCount() int { return c.TimeWords() + c.operand }

// Pack serializes both time fields followed by the operand.
func (c *Timed) Pack(tStart, tFinal uint64, input *big.Int) (WordStream, error) {
	x, err := Split(input, c.width, c.operand)
	if err != nil {
		return nil, err
	}

	tw := c.TimeWords()
	words := make(WordStream, 0, c.InputWordCount())
	words = append(words, splitUint64(tStart, c.width, tw)...)
	words = append(words, splitUint64(tFinal, c.width, tw)...)
	return append(words, x...), nil
}

// Unpack reads the echoed final time and the result.
func (c *Timed) Unpack(words WordStream) (uint64, *big.Int, error) {
	if err := checkLen(words, c.OutputWordCount()); err != nil {
		return 0, nil, err
	}
	tw := c.TimeWords()
	return words[:tw].Uint64(c.width), words[tw:].Int(c.width), nil
}

// DecodeInput is the device side of Pack.
func (c *Timed) DecodeInput(words WordStream) (tStart, tFinal uint64, x *big.Int, err error) {
	if err := checkLen(words, c.InputWordCount()); err != nil {
		return 0, 0, nil, err
	}
	tw := c.TimeWords()
	tStart = words[:tw].Uint64(c.width)
	tFinal = words[tw : 2*tw].Uint64(c.width)
	return tStart, tFinal, words[2*tw:].Int(c.width), nil
}

// EncodeOutput is the device side of Unpack.
func (c *Timed) EncodeOutput(tFinal uint64, y *big.Int) (WordStream, error) {
	r, err := Split(y, c.width, c.operand)
	if err != nil {
		return nil, err
	}
	words := make(WordStream, 0, c.OutputWordCount())
	words = append(words, splitUint64(tFinal, c.width, c.TimeWords())...)
	return append(words, r...), nil
}
