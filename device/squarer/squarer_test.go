package squarer_test

import (
	"math"
	"math/big"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/msusim/codec"
	"github.com/sarchlab/msusim/device"
	"github.com/sarchlab/msusim/device/squarer"
)

func cycle(d *squarer.Device, in device.Inputs) {
	d.Drive(in)
	d.Eval(false, 0)
	d.Eval(true, 1)
}

var _ = Describe("Squarer", func() {
	var wc *codec.Timed

	BeforeEach(func() {
		var err error
		wc, err = codec.NewTimed(32, 1024)
		Expect(err).NotTo(HaveOccurred())
	})

	It("should square repeatedly modulo n", func() {
		n := big.NewInt(1000003)
		Expect(squarer.Square(big.NewInt(2), n, 0).Int64()).To(Equal(int64(2)))
		Expect(squarer.Square(big.NewInt(2), n, 1).Int64()).To(Equal(int64(4)))
		Expect(squarer.Square(big.NewInt(2), n, 3).Int64()).To(Equal(int64(256)))

		want := new(big.Int).Exp(big.NewInt(7), big.NewInt(1<<10), n)
		Expect(squarer.Square(big.NewInt(7), n, 10).Cmp(want)).To(BeZero())
	})

	It("should accept the default modulus for a 1024-bit operand", func() {
		n, err := squarer.ParseModulus(squarer.DefaultModulus)
		Expect(err).NotTo(HaveOccurred())
		Expect(n.BitLen()).To(BeNumerically("<=", 1024))

		_, err = squarer.New(squarer.Config{Codec: wc, Modulus: n, CyclesPerSquare: 1})
		Expect(err).NotTo(HaveOccurred())
	})

	It("should parse hex moduli", func() {
		n, err := squarer.ParseModulus("0xff")
		Expect(err).NotTo(HaveOccurred())
		Expect(n.Int64()).To(Equal(int64(255)))

		_, err = squarer.ParseModulus("zz")
		Expect(err).To(HaveOccurred())
	})

	It("should reject unusable configurations", func() {
		_, err := squarer.New(squarer.Config{Modulus: big.NewInt(7)})
		Expect(err).To(HaveOccurred())

		_, err = squarer.New(squarer.Config{Codec: wc, Modulus: big.NewInt(1), CyclesPerSquare: 1})
		Expect(err).To(HaveOccurred())

		_, err = squarer.New(squarer.Config{Codec: wc, Modulus: big.NewInt(7)})
		Expect(err).To(HaveOccurred())

		small, err := codec.NewTimed(32, 32)
		Expect(err).NotTo(HaveOccurred())
		_, err = squarer.New(squarer.Config{
			Codec:           small,
			Modulus:         new(big.Int).Lsh(big.NewInt(1), 40),
			CyclesPerSquare: 1,
		})
		Expect(err).To(HaveOccurred())
	})

	It("should stream [t_final | result] after computing", func() {
		small, err := codec.NewTimed(32, 64)
		Expect(err).NotTo(HaveOccurred())
		n := big.NewInt(1000003)
		d, err := squarer.New(squarer.Config{Codec: small, Modulus: n, CyclesPerSquare: 3})
		Expect(err).NotTo(HaveOccurred())

		cycle(d, device.Inputs{Reset: true})
		cycle(d, device.Inputs{Start: true})

		words, err := small.Pack(1, 4, big.NewInt(12345))
		Expect(err).NotTo(HaveOccurred())
		for i, w := range words {
			Expect(d.Sample().InReady).To(BeTrue())
			cycle(d, device.Inputs{InValid: true, InData: w, InLast: i == len(words)-1})
		}

		waited := 0
		for !d.Status().TransferStarted {
			cycle(d, device.Inputs{})
			waited++
		}
		Expect(waited).To(Equal(3*3 + 1))

		var out codec.WordStream
		for d.Sample().OutValid {
			out = append(out, d.Sample().OutData)
			cycle(d, device.Inputs{OutReady: true})
		}

		tFinal, y, err := small.Unpack(out)
		Expect(err).NotTo(HaveOccurred())
		Expect(tFinal).To(Equal(uint64(4)))
		Expect(y.Cmp(squarer.Square(big.NewInt(12345), n, 3))).To(BeZero())
		Expect(d.DecodeErrors()).To(BeZero())
	})

	It("should saturate the compute latency", func() {
		Expect(squarer.Latency(0, 5)).To(Equal(uint64(1)))
		Expect(squarer.Latency(3, 3)).To(Equal(uint64(10)))
		Expect(squarer.Latency(2, 1<<63)).To(Equal(uint64(math.MaxUint64)))
		Expect(squarer.Latency(math.MaxUint64, 1)).To(Equal(uint64(math.MaxUint64)))
		Expect(squarer.Latency((math.MaxUint64-1)/2, 2)).To(Equal(uint64(math.MaxUint64)))
	})

	It("should spend cycles rather than evaluation time on long jobs", func() {
		n := big.NewInt(1000003)
		d, err := squarer.New(squarer.Config{Codec: wc, Modulus: n, CyclesPerSquare: 1})
		Expect(err).NotTo(HaveOccurred())

		cycle(d, device.Inputs{Reset: true})
		cycle(d, device.Inputs{Start: true})

		words, err := wc.Pack(0, 1<<40, big.NewInt(5))
		Expect(err).NotTo(HaveOccurred())
		for i, w := range words {
			cycle(d, device.Inputs{InValid: true, InData: w, InLast: i == len(words)-1})
		}

		for i := 0; i < 2000; i++ {
			cycle(d, device.Inputs{})
			Expect(d.Status().TransferStarted).To(BeFalse())
		}
		Expect(d.Busy()).To(BeTrue())
	})
})
