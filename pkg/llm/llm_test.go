package llm_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/geist/pkg/llm"
	"github.com/papercomputeco/geist/pkg/logger"
)

var _ = Describe("Complete", func() {
	ctx := context.Background()

	It("returns generated text", func() {
		gen := llm.GeneratorFunc(func(_ context.Context, prompt string) (string, error) {
			return "echo: " + prompt, nil
		})
		Expect(llm.Complete(ctx, gen, "hi", logger.Nop())).To(Equal("echo: hi"))
	})

	It("downgrades failures to the sentinel and logs them", func() {
		var buf bytes.Buffer
		gen := llm.GeneratorFunc(func(context.Context, string) (string, error) {
			return "", fmt.Errorf("%w: boom", llm.ErrGeneration)
		})

		got := llm.Complete(ctx, gen, "hi", logger.New(logger.WithWriter(&buf)))
		Expect(got).To(Equal(llm.Sentinel))
		Expect(got).To(Equal("Error"))
		Expect(buf.String()).To(ContainSubstring("generation failed"))
	})

	It("tolerates a nil logger", func() {
		gen := llm.GeneratorFunc(func(context.Context, string) (string, error) {
			return "", errors.New("boom")
		})
		Expect(llm.Complete(ctx, gen, "hi", nil)).To(Equal(llm.Sentinel))
	})
})

var _ = Describe("Tier", func() {
	It("draws completion temperatures from [0.2, 0.6)", func() {
		rng := rand.New(rand.NewPCG(1, 2))
		for range 1000 {
			t := llm.TierCompletion.Temperature(rng)
			Expect(t).To(BeNumerically(">=", 0.2))
			Expect(t).To(BeNumerically("<", 0.6))
		}
	})

	It("draws chat temperatures from [0.2, 0.8)", func() {
		src := llm.NewTemperatureSource(llm.TierChat, rand.New(rand.NewPCG(3, 4)))
		sawHigh := false
		for range 1000 {
			t := src.Next()
			Expect(t).To(BeNumerically(">=", 0.2))
			Expect(t).To(BeNumerically("<", 0.8))
			if t >= 0.6 {
				sawHigh = true
			}
		}
		Expect(sawHigh).To(BeTrue())
	})

	It("names tiers", func() {
		Expect(llm.TierCompletion.String()).To(Equal("completion"))
		Expect(llm.TierChat.String()).To(Equal("chat"))
	})
})

var _ = Describe("NewRequest", func() {
	It("uses a bare prompt on the completion tier", func() {
		r := llm.NewRequest(llm.TierCompletion, "m", "p", 100, 0.3)
		Expect(r.Prompt).To(Equal("p"))
		Expect(r.Messages).To(BeEmpty())
		Expect(r.TopP).To(Equal(1.0))
		Expect(r.N).To(Equal(1))
		Expect(r.Text()).To(Equal("p"))
	})

	It("uses a single user message on the chat tier", func() {
		r := llm.NewRequest(llm.TierChat, "m", "p", 100, 0.3)
		Expect(r.Prompt).To(BeEmpty())
		Expect(r.Messages).To(Equal([]llm.Message{{Role: "user", Content: "p"}}))
		Expect(r.Text()).To(Equal("p"))
	})
})
