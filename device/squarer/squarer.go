// Package squarer provides a behavioral model of a modular squaring unit.
//
// Given the Timed codec input [t_start | t_final | x], the unit computes
//
//	y = x^(2^(t_final - t_start)) mod N
//
// and returns [t_final | y]. Each squaring costs CyclesPerSquare cycles.
package squarer

import (
	"math"
	"math/big"

	"github.com/pkg/errors"

	"github.com/sarchlab/msusim/codec"
	"github.com/sarchlab/msusim/device"
)

// DefaultModulus is the 1024-bit modulus of the VDF FPGA competition.
const DefaultModulus = "124066695684124741398798927404814432744698427125735684128131855064976895337309138910015071214657674309443149407457493434579063840841220334555160125016331040933690674569571217337630239191517205721310197608387239846364360850220896772964978569683229449266819903414117058030106528073928633017118689826625594484331"

// Config configures a squarer device.
type Config struct {
	// Codec is the word layout; its operand budget bounds the modulus.
	Codec *codec.Timed
	// Modulus is N. It must be > 1 and fit the operand budget.
	Modulus *big.Int
	// CyclesPerSquare is the pipeline latency of one modular squaring.
	CyclesPerSquare uint64
	// Timing tunes the handshake.
	Timing device.ModelConfig
}

// Device is a modular squaring unit.
type Device struct {
	*device.Model
	k *kernel
}

type kernel struct {
	codec   *codec.Timed
	modulus *big.Int
	cps     uint64
	errs    uint64

	tFinal uint64
	y      *big.Int
	left   uint64
	phase  uint64
	failed bool
}

// New creates a squarer device.
func New(config Config) (*Device, error) {
	if config.Codec == nil {
		return nil, errors.New("squarer needs a codec")
	}
	if config.CyclesPerSquare == 0 {
		return nil, errors.New("cycles per square must be positive")
	}
	if config.Modulus == nil || config.Modulus.Cmp(big.NewInt(1)) <= 0 {
		return nil, errors.New("modulus must be > 1")
	}
	if uint(config.Modulus.BitLen()) > config.Codec.OperandBits() {
		return nil, errors.Errorf("modulus is %d bits, operand budget is %d bits",
			config.Modulus.BitLen(), config.Codec.OperandBits())
	}

	k := &kernel{
		codec:   config.Codec,
		modulus: new(big.Int).Set(config.Modulus),
		cps:     config.CyclesPerSquare,
	}
	return &Device{Model: device.NewModel(k, config.Timing), k: k}, nil
}

// ParseModulus reads a decimal or 0x-prefixed hex modulus.
func ParseModulus(s string) (*big.Int, error) {
	n, ok := new(big.Int).SetString(s, 0)
	if !ok {
		return nil, errors.Errorf("invalid modulus %q", s)
	}
	return n, nil
}

// DecodeErrors counts jobs whose input could not be decoded.
func (d *Device) DecodeErrors() uint64 {
	return d.k.errs
}

// Square computes x^(2^t) mod n, the reference for the device result.
func Square(x, n *big.Int, t uint64) *big.Int {
	y := new(big.Int).Mod(x, n)
	for i := uint64(0); i < t; i++ {
		y.Mul(y, y)
		y.Mod(y, n)
	}
	return y
}

func (k *kernel) InputWords() int { return k.codec.InputWordCount() }

// Start latches the operand. The squarings themselves run in Step, one
// every cps cycles.
func (k *kernel) Start(in codec.WordStream) uint64 {
	k.phase = 0
	k.left = 0
	k.failed = false

	tStart, tFinal, x, err := k.codec.DecodeInput(in)
	if err != nil {
		k.errs++
		k.failed = true
		return 1
	}

	if tFinal > tStart {
		k.left = tFinal - tStart
	}
	k.tFinal = tFinal
	k.y = new(big.Int).Mod(x, k.modulus)
	return Latency(k.left, k.cps)
}

func (k *kernel) Step() {
	if k.left == 0 {
		return
	}
	k.phase++
	if k.phase < k.cps {
		return
	}
	k.phase = 0
	k.y.Mul(k.y, k.y)
	k.y.Mod(k.y, k.modulus)
	k.left--
}

func (k *kernel) Result() codec.WordStream {
	if k.failed {
		return make(codec.WordStream, k.codec.OutputWordCount())
	}
	out, err := k.codec.EncodeOutput(k.tFinal, k.y)
	if err != nil {
		k.errs++
		return make(codec.WordStream, k.codec.OutputWordCount())
	}
	return out
}

// Latency is the compute time of t squarings at cps cycles each, plus one
// cycle to register the result. It saturates at math.MaxUint64.
func Latency(t, cps uint64) uint64 {
	if cps != 0 && t > (math.MaxUint64-1)/cps {
		return math.MaxUint64
	}
	return t*cps + 1
}
