package codec_test

import (
	"math/big"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/msusim/codec"
)

func hexInt(s string) *big.Int {
	x, ok := new(big.Int).SetString(s, 16)
	Expect(ok).To(BeTrue())
	return x
}

var _ = Describe("WordStream", func() {
	It("should split least significant word first", func() {
		words, err := codec.Split(hexInt("0000000100000002"), 32, 2)
		Expect(err).NotTo(HaveOccurred())
		Expect(words).To(Equal(codec.WordStream{0x00000002, 0x00000001}))
	})

	It("should zero-pad short values", func() {
		words, err := codec.Split(big.NewInt(0xAB), 8, 4)
		Expect(err).NotTo(HaveOccurred())
		Expect(words).To(Equal(codec.WordStream{0xAB, 0, 0, 0}))
	})

	It("should place word k at bit k*width", func() {
		ws := codec.WordStream{0x1, 0x2, 0x3}
		Expect(ws.Int(16).Cmp(hexInt("300020001"))).To(BeZero())
	})

	It("should handle 64-bit words", func() {
		x := hexInt("ffffffffffffffff0000000000000001")
		words, err := codec.Split(x, 64, 2)
		Expect(err).NotTo(HaveOccurred())
		Expect(words).To(Equal(codec.WordStream{1, 0xffffffffffffffff}))
		Expect(words.Int(64).Cmp(x)).To(BeZero())
	})

	It("should reject values wider than the budget", func() {
		_, err := codec.Split(hexInt("10000000000000000"), 32, 2)
		Expect(err).To(MatchError(codec.ErrMalformedJob))
	})

	It("should reject negative values", func() {
		_, err := codec.Split(big.NewInt(-1), 32, 2)
		Expect(err).To(MatchError(codec.ErrMalformedJob))
	})

	It("should reject a missing operand", func() {
		_, err := codec.Split(nil, 32, 2)
		Expect(err).To(MatchError(codec.ErrMalformedJob))
	})

	It("should reject invalid widths", func() {
		_, err := codec.Split(big.NewInt(1), 0, 2)
		Expect(err).To(HaveOccurred())
		_, err = codec.Split(big.NewInt(1), 65, 2)
		Expect(err).To(HaveOccurred())
	})

	It("should reject non-positive word counts", func() {
		_, err := codec.Split(big.NewInt(1), 32, -1)
		Expect(err).To(HaveOccurred())
		_, err = codec.Split(big.NewInt(0), 32, 0)
		Expect(err).To(HaveOccurred())
	})

	It("should report words that overflow the width", func() {
		Expect(codec.WordStream{0xff, 0x100}.Fits(8)).To(BeFalse())
		Expect(codec.WordStream{0xff, 0x01}.Fits(8)).To(BeTrue())
	})

	It("should format as hex", func() {
		Expect(codec.WordStream{0x2, 0x1}.String()).To(Equal("[0x2 0x1]"))
	})
})

var _ = Describe("Plain", func() {
	var c *codec.Plain

	BeforeEach(func() {
		var err error
		c, err = codec.NewPlain(32, 2, 2)
		Expect(err).NotTo(HaveOccurred())
	})

	It("should pack the 2-word scenario", func() {
		words, err := c.Pack(0, 10, hexInt("0000000100000002"))
		Expect(err).NotTo(HaveOccurred())
		Expect(words).To(Equal(codec.WordStream{0x00000002, 0x00000001}))

		tFinal, out, err := c.Unpack(words)
		Expect(err).NotTo(HaveOccurred())
		Expect(tFinal).To(BeZero())
		Expect(out.Cmp(hexInt("0000000100000002"))).To(BeZero())
	})

	It("should round-trip random values within the budget", func() {
		r := rand.New(rand.NewSource(1))
		for i := 0; i < 200; i++ {
			x := new(big.Int).Rand(r, new(big.Int).Lsh(big.NewInt(1), 64))
			words, err := c.Pack(0, 0, x)
			Expect(err).NotTo(HaveOccurred())
			Expect(words.Fits(32)).To(BeTrue())
			_, out, err := c.Unpack(words)
			Expect(err).NotTo(HaveOccurred())
			Expect(out.Cmp(x)).To(BeZero())
		}
	})

	It("should reject a result of the wrong length", func() {
		_, _, err := c.Unpack(codec.WordStream{1})
		Expect(err).To(HaveOccurred())
	})

	It("should reject zero word counts", func() {
		_, err := codec.NewPlain(32, 0, 2)
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Timed", func() {
	var c *codec.Timed

	BeforeEach(func() {
		var err error
		c, err = codec.NewTimed(32, 128)
		Expect(err).NotTo(HaveOccurred())
	})

	It("should size the streams from the time and operand fields", func() {
		Expect(c.TimeWords()).To(Equal(2))
		Expect(c.OperandWords()).To(Equal(4))
		Expect(c.InputWordCount()).To(Equal(8))
		Expect(c.OutputWordCount()).To(Equal(6))
	})

	It("should round up partial operand words", func() {
		c2, err := codec.NewTimed(32, 1024+1)
		Expect(err).NotTo(HaveOccurred())
		Expect(c2.OperandWords()).To(Equal(33))
	})

	It("should lay out time fields before the operand", func() {
		words, err := c.Pack(0x0000000300000004, 0x0000000500000006, big.NewInt(7))
		Expect(err).NotTo(HaveOccurred())
		Expect(words).To(Equal(codec.WordStream{4, 3, 6, 5, 7, 0, 0, 0}))
	})

	It("should decode what Pack produced", func() {
		x := hexInt("0123456789abcdef0011223344556677")
		words, err := c.Pack(12, 9000, x)
		Expect(err).NotTo(HaveOccurred())

		tStart, tFinal, got, err := c.DecodeInput(words)
		Expect(err).NotTo(HaveOccurred())
		Expect(tStart).To(Equal(uint64(12)))
		Expect(tFinal).To(Equal(uint64(9000)))
		Expect(got.Cmp(x)).To(BeZero())
	})

	It("should unpack what EncodeOutput produced", func() {
		y := hexInt("deadbeef")
		words, err := c.EncodeOutput(1<<40, y)
		Expect(err).NotTo(HaveOccurred())
		Expect(words).To(HaveLen(c.OutputWordCount()))

		tFinal, got, err := c.Unpack(words)
		Expect(err).NotTo(HaveOccurred())
		Expect(tFinal).To(Equal(uint64(1 << 40)))
		Expect(got.Cmp(y)).To(BeZero())
	})

	It("should reject operands over budget", func() {
		_, err := c.Pack(0, 1, new(big.Int).Lsh(big.NewInt(1), 128))
		Expect(err).To(MatchError(codec.ErrMalformedJob))
	})

	It("should reject widths that do not divide the time field", func() {
		_, err := codec.NewTimed(24, 128)
		Expect(err).To(HaveOccurred())
	})

	It("should support 64-bit words", func() {
		c64, err := codec.NewTimed(64, 128)
		Expect(err).NotTo(HaveOccurred())
		words, err := c64.Pack(1, 2, hexInt("ffffffffffffffffeeeeeeeeeeeeeeee"))
		Expect(err).NotTo(HaveOccurred())
		Expect(words).To(Equal(codec.WordStream{1, 2, 0xeeeeeeeeeeeeeeee, 0xffffffffffffffff}))
	})
})
