package loopcmder_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	loopcmder "github.com/papercomputeco/geist/cmd/geist/loop"
	"github.com/papercomputeco/geist/pkg/config"
)

var _ = Describe("NewLoopCmd", func() {
	It("creates a command with the correct use string", func() {
		cmd := loopcmder.NewLoopCmd()
		Expect(cmd.Use).To(Equal("loop"))
	})

	It("has --seed, --interval and --turns flags", func() {
		cmd := loopcmder.NewLoopCmd()
		Expect(cmd.Flags().Lookup("seed")).NotTo(BeNil())
		Expect(cmd.Flags().Lookup("interval").DefValue).To(Equal("0s"))
		Expect(cmd.Flags().Lookup("turns").DefValue).To(Equal("0"))
	})
})

var _ = Describe("Loop command execution", func() {
	var (
		tmpDir  string
		origDir string
		server  *httptest.Server
		out     *bytes.Buffer
	)

	execute := func(stdin string, args ...string) error {
		cmd := loopcmder.NewLoopCmd()
		cmd.SetArgs(append([]string{"--target", server.URL}, args...))
		cmd.SetIn(strings.NewReader(stdin))
		cmd.SetOut(out)
		cmd.SetErr(&bytes.Buffer{})
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return cmd.Execute()
	}

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "geist-loop-test-*")
		Expect(err).NotTo(HaveOccurred())

		origDir, err = os.Getwd()
		Expect(err).NotTo(HaveOccurred())

		Expect(os.MkdirAll(filepath.Join(tmpDir, ".geist"), 0o755)).To(Succeed())
		Expect(os.Chdir(tmpDir)).To(Succeed())

		cfger, err := config.NewConfiger("")
		Expect(err).NotTo(HaveOccurred())
		preset, err := config.PresetConfig("ollama")
		Expect(err).NotTo(HaveOccurred())
		Expect(cfger.SaveConfig(preset)).To(Succeed())

		// Answers both /api/generate and /api/chat.
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"model":"llama3.2","response":"loop text","message":{"role":"assistant","content":"loop text"},"done":true}`))
		}))

		out = &bytes.Buffer{}
	})

	AfterEach(func() {
		server.Close()
		Expect(os.Chdir(origDir)).To(Succeed())
		os.RemoveAll(tmpDir)
	})

	It("stops after --turns turns", func() {
		Expect(execute("", "--seed", "what is a note for?", "--turns", "2", "--interval", "1ms")).To(Succeed())
		Expect(out.String()).To(ContainSubstring("loop text"))
		Expect(out.String()).To(ContainSubstring("2 turns"))
	})

	It("waits for enter between turns and stops at end of input", func() {
		Expect(execute("\n", "--seed", "what is a note for?")).To(Succeed())
		Expect(strings.Count(out.String(), "Press enter to continue...")).To(Equal(2))
		Expect(out.String()).To(ContainSubstring("2 turns"))
	})

	It("starts from a random note without --seed", func() {
		notesDir := filepath.Join(tmpDir, "notes")
		Expect(os.MkdirAll(notesDir, 0o755)).To(Succeed())
		Expect(os.WriteFile(filepath.Join(notesDir, "garden.md"), []byte("title: Garden\n\ngardens grow slowly"), 0o600)).To(Succeed())

		Expect(execute("", "--turns", "1", "--notes-dir", notesDir)).To(Succeed())
		Expect(out.String()).To(ContainSubstring("garden"))
		Expect(out.String()).To(ContainSubstring("1 turns"))
	})

	It("rejects a negative interval", func() {
		err := execute("", "--interval", "-1s")
		Expect(err).To(MatchError(ContainSubstring("--interval must not be negative")))
	})
})
