package notecmder_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	notecmder "github.com/papercomputeco/geist/cmd/geist/note"
	"github.com/papercomputeco/geist/pkg/config"
	"github.com/papercomputeco/geist/pkg/notes"
)

var _ = Describe("NewNoteCmd", func() {
	It("creates a command with the correct use string", func() {
		cmd := notecmder.NewNoteCmd()
		Expect(cmd.Use).To(Equal("note"))
	})

	It("has a subcommand per note action", func() {
		cmd := notecmder.NewNoteCmd()
		names := make([]string, 0, len(cmd.Commands()))
		for _, sub := range cmd.Commands() {
			names = append(names, sub.Name())
		}
		Expect(names).To(ConsistOf(
			"critic", "actor", "four-actor", "compress",
			"question", "critique", "connect", "free-text",
		))
	})

	It("registers the provider flags on every action", func() {
		cmd := notecmder.NewNoteCmd()
		for _, sub := range cmd.Commands() {
			Expect(sub.Flags().Lookup("notes-dir")).NotTo(BeNil(), sub.Name())
			Expect(sub.Flags().Lookup("provider")).NotTo(BeNil(), sub.Name())
		}
	})
})

var _ = Describe("Note command execution", func() {
	var (
		tmpDir  string
		origDir string
		out     *bytes.Buffer
	)

	execute := func(stdin string, args ...string) error {
		cmd := notecmder.NewNoteCmd()
		cmd.SetArgs(args)
		cmd.SetIn(strings.NewReader(stdin))
		cmd.SetOut(out)
		cmd.SetErr(&bytes.Buffer{})
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return cmd.Execute()
	}

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "geist-note-test-*")
		Expect(err).NotTo(HaveOccurred())

		origDir, err = os.Getwd()
		Expect(err).NotTo(HaveOccurred())

		Expect(os.MkdirAll(filepath.Join(tmpDir, ".geist"), 0o755)).To(Succeed())
		Expect(os.Chdir(tmpDir)).To(Succeed())

		// ollama needs no API key, and nothing below reaches a provider.
		cfger, err := config.NewConfiger("")
		Expect(err).NotTo(HaveOccurred())
		preset, err := config.PresetConfig("ollama")
		Expect(err).NotTo(HaveOccurred())
		Expect(cfger.SaveConfig(preset)).To(Succeed())

		out = &bytes.Buffer{}
	})

	AfterEach(func() {
		Expect(os.Chdir(origDir)).To(Succeed())
		os.RemoveAll(tmpDir)
	})

	It("fails when the notes directory is missing", func() {
		err := execute("", "critic", "--notes-dir", filepath.Join(tmpDir, "missing"))
		Expect(err).To(MatchError(notes.ErrNoteSource))
	})

	It("fails when the notes directory is empty", func() {
		Expect(os.MkdirAll(filepath.Join(tmpDir, "empty"), 0o755)).To(Succeed())
		err := execute("", "compress", "--notes-dir", filepath.Join(tmpDir, "empty"))
		Expect(err).To(MatchError(ContainSubstring("no notes")))
	})

	It("requires text for free-text", func() {
		err := execute("   \n", "free-text")
		Expect(err).To(MatchError(ContainSubstring("no text given")))
	})

	It("rejects arguments on actions that take none", func() {
		err := execute("", "critic", "extra")
		Expect(err).To(HaveOccurred())
	})
})
