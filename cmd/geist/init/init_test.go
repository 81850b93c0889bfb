package initcmder_test

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	initcmder "github.com/papercomputeco/geist/cmd/geist/init"
	"github.com/papercomputeco/geist/pkg/config"
)

var _ = Describe("NewInitCmd", func() {
	It("creates a command with the correct use string", func() {
		cmd := initcmder.NewInitCmd()
		Expect(cmd.Use).To(Equal("init"))
	})

	It("rejects any arguments", func() {
		cmd := initcmder.NewInitCmd()
		Expect(cmd.Args(cmd, []string{})).To(Succeed())
		Expect(cmd.Args(cmd, []string{"extra"})).To(HaveOccurred())
	})

	It("has a --preset flag", func() {
		cmd := initcmder.NewInitCmd()
		f := cmd.Flags().Lookup("preset")
		Expect(f).NotTo(BeNil())
		Expect(f.DefValue).To(Equal(""))
	})
})

var _ = Describe("Init command execution", func() {
	var (
		tmpDir  string
		origDir string
		out     *bytes.Buffer
	)

	execute := func(args ...string) error {
		cmd := initcmder.NewInitCmd()
		cmd.SetArgs(args)
		cmd.SetOut(out)
		cmd.SetErr(&bytes.Buffer{})
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return cmd.Execute()
	}

	readConfig := func() *config.Config {
		data, err := os.ReadFile(filepath.Join(tmpDir, ".geist", "config.toml"))
		Expect(err).NotTo(HaveOccurred())
		var cfg config.Config
		_, err = toml.Decode(string(data), &cfg)
		Expect(err).NotTo(HaveOccurred())
		return &cfg
	}

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "geist-init-test-*")
		Expect(err).NotTo(HaveOccurred())

		// Resolve symlinks so paths printed by init compare equal.
		tmpDir, err = filepath.EvalSymlinks(tmpDir)
		Expect(err).NotTo(HaveOccurred())

		origDir, err = os.Getwd()
		Expect(err).NotTo(HaveOccurred())
		Expect(os.Chdir(tmpDir)).To(Succeed())

		out = &bytes.Buffer{}
	})

	AfterEach(func() {
		Expect(os.Chdir(origDir)).To(Succeed())
		os.RemoveAll(tmpDir)
	})

	It("creates a .geist directory with a default config.toml", func() {
		Expect(execute()).To(Succeed())

		info, err := os.Stat(filepath.Join(tmpDir, ".geist"))
		Expect(err).NotTo(HaveOccurred())
		Expect(info.IsDir()).To(BeTrue())

		cfg := readConfig()
		Expect(cfg.Generation.Provider).To(Equal("openai"))
		Expect(cfg.Embedding.Model).To(Equal("text-embedding-ada-002"))
		Expect(out.String()).To(ContainSubstring("Initialized .geist directory"))
	})

	It("keeps an existing config.toml when no preset is given", func() {
		Expect(os.MkdirAll(filepath.Join(tmpDir, ".geist"), 0o755)).To(Succeed())
		Expect(os.WriteFile(filepath.Join(tmpDir, ".geist", "config.toml"),
			[]byte("version = 0\n\n[notes]\ndir = \"journal\"\n"), 0o600)).To(Succeed())

		Expect(execute()).To(Succeed())
		Expect(out.String()).To(ContainSubstring("Already initialized"))
		Expect(readConfig().Notes.Dir).To(Equal("journal"))
	})

	It("writes a named preset over an existing config", func() {
		Expect(execute()).To(Succeed())
		Expect(execute("--preset", "ollama")).To(Succeed())

		cfg := readConfig()
		Expect(cfg.Generation.Provider).To(Equal("ollama"))
		Expect(cfg.Embedding.Provider).To(Equal("ollama"))
	})

	It("rejects an unknown preset", func() {
		err := execute("--preset", "bogus")
		Expect(err).To(MatchError(ContainSubstring("unknown preset")))
	})

	Context("with a preset URL", func() {
		var server *httptest.Server

		AfterEach(func() {
			if server != nil {
				server.Close()
			}
		})

		It("fetches and writes the remote config", func() {
			server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				fmt.Fprint(w, "version = 0\n\n[generation]\nprovider = \"anthropic\"\ntarget = \"https://api.anthropic.com\"\n")
			}))

			Expect(execute("--preset", server.URL+"/config.toml")).To(Succeed())
			cfg := readConfig()
			Expect(cfg.Generation.Provider).To(Equal("anthropic"))
		})

		It("fails on a non-200 response", func() {
			server = httptest.NewServer(http.NotFoundHandler())
			err := execute("--preset", server.URL)
			Expect(err).To(MatchError(ContainSubstring("returned status 404")))
		})

		It("fails on an unsupported config version", func() {
			server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				fmt.Fprint(w, "version = 9\n")
			}))
			err := execute("--preset", server.URL)
			Expect(err).To(MatchError(ContainSubstring("unsupported config version")))
		})
	})
})
