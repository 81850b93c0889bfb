package menucmder_test

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing/fstest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/gbytes"

	menucmder "github.com/papercomputeco/geist/cmd/geist/menu"
	"github.com/papercomputeco/geist/pkg/app"
	"github.com/papercomputeco/geist/pkg/config"
	"github.com/papercomputeco/geist/pkg/llm"
	"github.com/papercomputeco/geist/pkg/notes"
	testutils "github.com/papercomputeco/geist/pkg/utils/test"
)

var _ = Describe("Run", func() {
	var (
		a          *app.App
		completion *testutils.MockGenerator
		chat       *testutils.MockGenerator
		out        *bytes.Buffer
	)

	run := func(input string) error {
		return menucmder.Run(context.Background(), a, strings.NewReader(input), out)
	}

	BeforeEach(func() {
		completion = testutils.NewMockGenerator()
		completion.Default = "a statement"
		chat = testutils.NewMockGenerator()
		chat.Default = "a reply"
		out = &bytes.Buffer{}

		source := notes.NewSourceFS(fstest.MapFS{
			"alpha.md": {Data: []byte("title: Alpha\n\nfeedback loops everywhere")},
			"beta.md":  {Data: []byte("title: Beta\n\ngardens grow slowly")},
			"gamma.md": {Data: []byte("title: Gamma\n\nmaps are not territories")},
			"delta.md": {Data: []byte("title: Delta\n\nwriting is thinking")},
		})

		var err error
		a, err = app.New(config.NewDefaultConfig(),
			app.WithSeed(11),
			app.WithNotes(source),
			app.WithEmbedder(testutils.NewMockEmbedder()),
			app.WithGenerators(completion, chat),
		)
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(a.Close)
	})

	It("lists the commands and quits", func() {
		Expect(run("11\n")).To(Succeed())
		Expect(out.String()).To(ContainSubstring("Commands:"))
		Expect(out.String()).To(ContainSubstring("[1] Load random note & analyse (critic)"))
		Expect(out.String()).To(ContainSubstring("[11] Quit"))
		Expect(completion.Calls()).To(BeZero())
	})

	It("ends at end of input", func() {
		Expect(run("")).To(Succeed())
	})

	It("rejects input that is not a command number", func() {
		Expect(run("abc\n0\n12\n11\n")).To(Succeed())
		Expect(strings.Count(out.String(), menucmder.InvalidCommand)).To(Equal(3))
	})

	It("runs a note action and prints its report", func() {
		Expect(run("1\n11\n")).To(Succeed())
		Expect(out.String()).To(ContainSubstring("@@@"))
		Expect(out.String()).To(ContainSubstring("a reply"))
		Expect(chat.Calls()).To(Equal(1))
	})

	It("runs the critic over free text", func() {
		Expect(run("8\nthe map is the territory\n11\n")).To(Succeed())
		Expect(out.String()).To(ContainSubstring("---"))
		Expect(out.String()).To(ContainSubstring("a statement"))

		Expect(completion.Prompts).To(ContainElement(ContainSubstring("the map is the territory")))
	})

	It("prints the sentinel when generation fails and stays in the menu", func() {
		chat.Fail = true
		Expect(run("2\n11\n")).To(Succeed())
		Expect(out.String()).To(ContainSubstring(llm.Sentinel))
		Expect(strings.Count(out.String(), "Commands:")).To(Equal(2))
	})

	It("holds a conversation until the exit command", func() {
		Expect(run("9\nwhat do gardens teach?\n" + app.ExitCommand + "\n11\n")).To(Succeed())
		Expect(out.String()).To(ContainSubstring("memorizing notes"))
		Expect(out.String()).To(ContainSubstring("a reply"))
		Expect(strings.Count(out.String(), "Commands:")).To(Equal(2))
	})

	It("runs the loop until the stop word", func() {
		Expect(run("10\n\n" + menucmder.StopWord + "\n11\n")).To(Succeed())
		Expect(strings.Count(out.String(), "Press enter to continue")).To(Equal(2))
		Expect(strings.Count(out.String(), "Commands:")).To(Equal(2))
	})

	It("returns to the menu when the loop is interrupted and reads the next command", func() {
		cancels := make(chan context.CancelFunc, 4)
		DeferCleanup(menucmder.SetCommandContext(func(ctx context.Context) (context.Context, context.CancelFunc) {
			ctx, cancel := context.WithCancel(ctx)
			cancels <- cancel
			return ctx, cancel
		}))

		pr, pw := io.Pipe()
		DeferCleanup(pw.Close)
		screen := gbytes.NewBuffer()

		done := make(chan error, 1)
		go func() { done <- menucmder.Run(context.Background(), a, pr, screen) }()

		_, err := pw.Write([]byte("10\n"))
		Expect(err).NotTo(HaveOccurred())
		Eventually(screen).Should(gbytes.Say("Press enter to continue"))

		var interrupt context.CancelFunc
		Expect(cancels).To(Receive(&interrupt))
		interrupt()
		Eventually(screen).Should(gbytes.Say("interrupted"))
		Eventually(screen).Should(gbytes.Say(`\[11\] Quit`))

		go func() { _, _ = pw.Write([]byte("11\n")) }()
		Eventually(done).Should(Receive(BeNil()))
	})
})
