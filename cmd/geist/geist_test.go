package geistcmder_test

import (
	"bytes"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	geistcmder "github.com/papercomputeco/geist/cmd/geist"
)

var _ = Describe("NewGeistCmd", func() {
	It("registers every subcommand", func() {
		cmd := geistcmder.NewGeistCmd()
		names := make([]string, 0, len(cmd.Commands()))
		for _, sub := range cmd.Commands() {
			names = append(names, sub.Name())
		}
		Expect(names).To(ContainElements(
			"menu", "note", "chat", "loop", "init", "config", "auth", "version",
		))
	})

	It("has the global flags", func() {
		cmd := geistcmder.NewGeistCmd()
		Expect(cmd.PersistentFlags().Lookup("debug").Shorthand).To(Equal("d"))
		Expect(cmd.PersistentFlags().Lookup("config-dir")).NotTo(BeNil())
		Expect(cmd.PersistentFlags().Lookup("log-file")).NotTo(BeNil())
		Expect(cmd.PersistentFlags().Lookup("random-seed").DefValue).To(Equal("0"))
	})

	It("opens the menu by default", func() {
		cmd := geistcmder.NewGeistCmd()
		Expect(cmd.RunE).NotTo(BeNil())
		Expect(cmd.Flags().Lookup("notes-dir")).NotTo(BeNil())
	})

	It("passes the config dir through to subcommands", func() {
		tmpDir := GinkgoT().TempDir()

		out := &bytes.Buffer{}
		cmd := geistcmder.NewGeistCmd()
		cmd.SetOut(out)
		cmd.SetArgs([]string{"config", "set", "notes.dir", "journal", "--config-dir", tmpDir})
		Expect(cmd.Execute()).To(Succeed())

		out.Reset()
		cmd = geistcmder.NewGeistCmd()
		cmd.SetOut(out)
		cmd.SetArgs([]string{"config", "get", "notes.dir", "--config-dir", tmpDir})
		Expect(cmd.Execute()).To(Succeed())
		Expect(out.String()).To(ContainSubstring("journal"))
		Expect(out.String()).To(ContainSubstring(tmpDir))
	})
})
