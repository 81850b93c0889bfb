package provider_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/geist/pkg/llm"
	"github.com/papercomputeco/geist/pkg/llm/provider"
)

var _ = Describe("Detect", func() {
	DescribeTable("maps target URLs to providers",
		func(target, want string) {
			Expect(provider.Detect(target)).To(Equal(want))
		},
		Entry("OpenAI", "https://api.openai.com/v1", provider.OpenAI),
		Entry("Anthropic", "https://api.anthropic.com", provider.Anthropic),
		Entry("Ollama default port", "http://localhost:11434", provider.Ollama),
		Entry("Ollama by host name", "http://ollama.internal:8080", provider.Ollama),
		Entry("other compatible API", "http://localhost:8000/v1", provider.OpenAI),
		Entry("empty", "", provider.OpenAI),
	)
})

var _ = Describe("NewGenerator", func() {
	It("builds each supported provider", func() {
		for _, name := range provider.SupportedProviders() {
			p, err := provider.NewGenerator(&provider.NewGeneratorOpts{
				ProviderType: name,
				TargetURL:    "http://localhost:9999",
				APIKey:       "k",
				Tier:         llm.TierChat,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Name()).To(Equal(name))
		}
	})

	It("detects the provider when none is named", func() {
		p, err := provider.NewGenerator(&provider.NewGeneratorOpts{TargetURL: "http://localhost:11434"})
		Expect(err).NotTo(HaveOccurred())
		Expect(p.Name()).To(Equal(provider.Ollama))
	})

	It("rejects unknown providers", func() {
		_, err := provider.NewGenerator(&provider.NewGeneratorOpts{ProviderType: "nope"})
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("unknown provider type"))
	})

	It("knows which providers need a key", func() {
		Expect(provider.NeedsAPIKey(provider.OpenAI)).To(BeTrue())
		Expect(provider.NeedsAPIKey(provider.Anthropic)).To(BeTrue())
		Expect(provider.NeedsAPIKey(provider.Ollama)).To(BeFalse())
	})
})
