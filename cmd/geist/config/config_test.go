package configcmder_test

import (
	"bytes"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	configcmder "github.com/papercomputeco/geist/cmd/geist/config"
)

var _ = Describe("NewConfigCmd", func() {
	It("creates a command with the correct use string", func() {
		cmd := configcmder.NewConfigCmd()
		Expect(cmd.Use).To(Equal("config"))
	})

	It("has set, get, and list subcommands", func() {
		cmd := configcmder.NewConfigCmd()
		cmds := cmd.Commands()
		subcommands := make([]string, 0, len(cmds))
		for _, sub := range cmds {
			subcommands = append(subcommands, sub.Name())
		}
		Expect(subcommands).To(ContainElements("set", "get", "list"))
	})
})

var _ = Describe("Config command execution", func() {
	var (
		tmpDir  string
		origDir string
		out     *bytes.Buffer
	)

	execute := func(args ...string) error {
		cmd := configcmder.NewConfigCmd()
		cmd.SetArgs(args)
		cmd.SetOut(out)
		cmd.SetErr(&bytes.Buffer{})
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return cmd.Execute()
	}

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "geist-config-test-*")
		Expect(err).NotTo(HaveOccurred())

		origDir, err = os.Getwd()
		Expect(err).NotTo(HaveOccurred())

		// Create a local .geist dir so the manager picks it up
		Expect(os.MkdirAll(filepath.Join(tmpDir, ".geist"), 0o755)).To(Succeed())
		Expect(os.Chdir(tmpDir)).To(Succeed())

		out = &bytes.Buffer{}
	})

	AfterEach(func() {
		Expect(os.Chdir(origDir)).To(Succeed())
		os.RemoveAll(tmpDir)
	})

	Describe("set subcommand", func() {
		It("sets a config value successfully", func() {
			Expect(execute("set", "generation.provider", "anthropic")).To(Succeed())

			data, err := os.ReadFile(filepath.Join(tmpDir, ".geist", "config.toml"))
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(ContainSubstring(`provider = "anthropic"`))
		})

		It("rejects unknown keys", func() {
			err := execute("set", "proxy.provider", "anthropic")
			Expect(err).To(MatchError(ContainSubstring("unknown config key")))
		})

		It("requires exactly two arguments", func() {
			Expect(execute("set", "generation.provider")).To(HaveOccurred())
			Expect(execute("set")).To(HaveOccurred())
		})

		It("rejects invalid integer values", func() {
			Expect(execute("set", "generation.max_tokens", "lots")).To(HaveOccurred())
			Expect(execute("set", "embedding.cache_size", "-3")).To(HaveOccurred())
		})

		It("masks API keys in its output", func() {
			Expect(execute("set", "generation.api_key", "sk-abcdefghijklmnop")).To(Succeed())
			Expect(out.String()).NotTo(ContainSubstring("sk-abcdefghijklmnop"))
			Expect(out.String()).To(ContainSubstring("sk-a...mnop"))
		})
	})

	Describe("get subcommand", func() {
		It("gets a previously set value", func() {
			Expect(execute("set", "notes.dir", "journal")).To(Succeed())
			out.Reset()

			Expect(execute("get", "notes.dir")).To(Succeed())
			Expect(out.String()).To(ContainSubstring("journal"))
		})

		It("shows defaults for keys not in the file", func() {
			Expect(execute("get", "embedding.model")).To(Succeed())
			Expect(out.String()).To(ContainSubstring("text-embedding-ada-002"))
		})

		It("rejects unknown keys", func() {
			Expect(execute("get", "invalid_key")).To(HaveOccurred())
		})

		It("requires exactly one argument", func() {
			Expect(execute("get")).To(HaveOccurred())
		})
	})

	Describe("list subcommand", func() {
		It("lists every key", func() {
			Expect(execute("list")).To(Succeed())
			Expect(out.String()).To(ContainSubstring("generation.completion_model"))
			Expect(out.String()).To(ContainSubstring("breaker.timeout_seconds"))
		})

		It("masks API keys", func() {
			Expect(execute("set", "embedding.api_key", "short")).To(Succeed())
			out.Reset()

			Expect(execute("list")).To(Succeed())
			Expect(out.String()).To(ContainSubstring(`"********"`))
			Expect(out.String()).NotTo(ContainSubstring(`"short"`))
		})

		It("rejects any arguments", func() {
			Expect(execute("list", "extra")).To(HaveOccurred())
		})
	})
})
