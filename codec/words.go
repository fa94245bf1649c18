package codec

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/pkg/errors"
)

// WordStream is an ordered sequence of bus words, least significant first.
type WordStream []uint64

// Split cuts x into n words of the given width, least significant first.
// It fails with ErrMalformedJob if x does not fit.
func Split(x *big.Int, width uint, n int) (WordStream, error) {
	if err := checkWidth(width); err != nil {
		return nil, err
	}
	if n <= 0 {
		return nil, errors.Errorf("word count must be > 0, got %d", n)
	}
	if err := checkOperand(x, width*uint(n)); err != nil {
		return nil, err
	}

	mask := wordMask(width)
	words := make(WordStream, n)
	rest := new(big.Int).Set(x)
	w := new(big.Int)
	for i := range words {
		words[i] = w.And(rest, mask).Uint64()
		rest.Rsh(rest, width)
	}
	return words, nil
}

// Int reassembles the stream into an integer: word k occupies bits
// [k*width, (k+1)*width).
func (s WordStream) Int(width uint) *big.Int {
	x := new(big.Int)
	w := new(big.Int)
	for k := len(s) - 1; k >= 0; k-- {
		x.Lsh(x, width)
		x.Or(x, w.SetUint64(s[k]))
	}
	return x
}

// Uint64 reassembles a 64-bit field stored in the first words of the stream.
func (s WordStream) Uint64(width uint) uint64 {
	var v uint64
	for k := len(s) - 1; k >= 0; k-- {
		if width < 64 {
			v <<= width
		}
		v |= s[k]
	}
	return v
}

// Fits reports whether every word is below 2^width.
func (s WordStream) Fits(width uint) bool {
	if width >= 64 {
		return true
	}
	for _, w := range s {
		if w>>width != 0 {
			return false
		}
	}
	return true
}

// String renders the stream as hex words, least significant first.
func (s WordStream) String() string {
	parts := make([]string, len(s))
	for i, w := range s {
		parts[i] = fmt.Sprintf("0x%x", w)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func splitUint64(v uint64, width uint, n int) WordStream {
	words := make(WordStream, n)
	m := wordMask(width).Uint64()
	for i := range words {
		words[i] = v & m
		if width < 64 {
			v >>= width
		} else {
			v = 0
		}
	}
	return words
}

func wordMask(width uint) *big.Int {
	m := new(big.Int).Lsh(big.NewInt(1), width)
	return m.Sub(m, big.NewInt(1))
}

func checkLen(words WordStream, want int) error {
	if len(words) != want {
		return errors.Errorf("got %d words, want %d", len(words), want)
	}
	return nil
}
