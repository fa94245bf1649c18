package loopback_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/msusim/device"
	"github.com/sarchlab/msusim/device/loopback"
)

var _ = Describe("Loopback", func() {
	cycle := func(m *device.Model, in device.Inputs) {
		m.Drive(in)
		m.Eval(false, 0)
		m.Eval(true, 1)
	}

	It("should return the input words in order after the latency", func() {
		m := loopback.New(loopback.Config{Words: 3, Latency: 4})
		cycle(m, device.Inputs{Reset: true})
		cycle(m, device.Inputs{Start: true})

		for i, w := range []uint64{10, 20, 30} {
			cycle(m, device.Inputs{InValid: true, InData: w, InLast: i == 2})
		}

		waited := 0
		for !m.Status().TransferStarted {
			cycle(m, device.Inputs{})
			waited++
		}
		Expect(waited).To(Equal(4))

		var out []uint64
		for m.Sample().OutValid {
			out = append(out, m.Sample().OutData)
			cycle(m, device.Inputs{OutReady: true})
		}
		Expect(out).To(Equal([]uint64{10, 20, 30}))
		Expect(m.Busy()).To(BeFalse())
	})
})
