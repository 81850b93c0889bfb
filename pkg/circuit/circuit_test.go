package circuit_test

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/geist/pkg/circuit"
	"github.com/papercomputeco/geist/pkg/logger"
)

var errUpstream = errors.New("upstream down")

var _ = Describe("Breaker", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	It("passes results through while closed", func() {
		b := circuit.New("test", circuit.DefaultConfig(), logger.Nop())
		got, err := circuit.Execute(ctx, b, func(context.Context) (string, error) {
			return "ok", nil
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(got).To(Equal("ok"))
		Expect(b.State()).To(Equal("closed"))
	})

	It("opens after consecutive failures and rejects calls", func() {
		b := circuit.New("test", circuit.Config{MaxFailures: 2, Timeout: time.Minute}, logger.Nop())
		calls := 0
		fail := func(context.Context) (int, error) {
			calls++
			return 0, errUpstream
		}

		_, err := circuit.Execute(ctx, b, fail)
		Expect(err).To(MatchError(errUpstream))
		_, err = circuit.Execute(ctx, b, fail)
		Expect(err).To(MatchError(errUpstream))

		_, err = circuit.Execute(ctx, b, fail)
		Expect(err).To(MatchError(circuit.ErrOpen))
		Expect(calls).To(Equal(2))
		Expect(b.State()).To(Equal("open"))
	})

	It("does not count cancelled calls as failures", func() {
		b := circuit.New("test", circuit.Config{MaxFailures: 1, Timeout: time.Minute}, nil)
		_, err := circuit.Execute(ctx, b, func(context.Context) (int, error) {
			return 0, context.Canceled
		})
		Expect(err).To(MatchError(context.Canceled))
		Expect(b.State()).To(Equal("closed"))
	})

	It("returns the context error without calling fn when already cancelled", func() {
		b := circuit.New("test", circuit.DefaultConfig(), nil)
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		called := false
		_, err := circuit.Execute(cctx, b, func(context.Context) (int, error) {
			called = true
			return 1, nil
		})
		Expect(err).To(MatchError(context.Canceled))
		Expect(called).To(BeFalse())
	})

	It("is a pass-through when disabled", func() {
		b := circuit.New("test", circuit.Config{}, nil)
		Expect(b.State()).To(Equal("disabled"))

		for range 10 {
			_, err := circuit.Execute(ctx, b, func(context.Context) (int, error) {
				return 0, errUpstream
			})
			Expect(err).To(MatchError(errUpstream))
		}
	})

	It("tolerates a nil breaker", func() {
		var b *circuit.Breaker
		got, err := circuit.Execute(ctx, b, func(context.Context) (int, error) { return 7, nil })
		Expect(err).NotTo(HaveOccurred())
		Expect(got).To(Equal(7))
	})
})
