package loop_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/geist/pkg/llm"
	"github.com/papercomputeco/geist/pkg/loop"
	testutils "github.com/papercomputeco/geist/pkg/utils/test"
)

// echoRunner returns "<strategy>#<n>" and records the inputs it saw.
type echoRunner struct {
	inputs []string
	err    error
}

func (r *echoRunner) Run(_ context.Context, s loop.Strategy, input string) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	r.inputs = append(r.inputs, input)
	return fmt.Sprintf("%s#%d", s, len(r.inputs)), nil
}

var _ = Describe("Turn", func() {
	var (
		ctx    context.Context
		rng    *rand.Rand
		runner *echoRunner
	)

	BeforeEach(func() {
		ctx = context.Background()
		rng = rand.New(rand.NewPCG(9, 9))
		runner = &echoRunner{}
	})

	It("joins the working set and appends the output", func() {
		state := loop.State{WorkingSet: []string{"one", "two"}}

		next, out, err := loop.Turn(ctx, state, rng, runner)
		Expect(err).NotTo(HaveOccurred())
		Expect(runner.inputs[0]).To(Equal("one" + loop.Separator + "two"))
		Expect(next.WorkingSet).To(Equal([]string{"one", "two", out.Text}))
		Expect(next.Turn).To(Equal(1))
		Expect(out.Turn).To(Equal(1))
		Expect(out.Strategy.Valid()).To(BeTrue())
	})

	It("keeps at most three entries, evicting the oldest", func() {
		state := loop.NewState("seed")
		var outputs []string

		for i := range 10 {
			var (
				out loop.Output
				err error
			)
			state, out, err = loop.Turn(ctx, state, rng, runner)
			Expect(err).NotTo(HaveOccurred())
			outputs = append(outputs, out.Text)

			Expect(len(state.WorkingSet)).To(BeNumerically("<=", loop.MaxWorkingSet))
			Expect(state.WorkingSet[len(state.WorkingSet)-1]).To(Equal(out.Text))
			if i >= 2 {
				Expect(state.WorkingSet).To(Equal(outputs[i-2 : i+1]))
			}
		}
		Expect(state.Turn).To(Equal(10))
		Expect(state.WorkingSet).NotTo(ContainElement("seed"))
	})

	It("does not modify the state it was given", func() {
		ws := make([]string, 3, 8)
		copy(ws, []string{"a", "b", "c"})
		state := loop.State{WorkingSet: ws}

		next, _, err := loop.Turn(ctx, state, rng, runner)
		Expect(err).NotTo(HaveOccurred())
		Expect(state.WorkingSet).To(Equal([]string{"a", "b", "c"}))
		Expect(state.Turn).To(BeZero())
		Expect(next.WorkingSet[:2]).To(Equal([]string{"b", "c"}))
	})

	It("is reproducible for a fixed seed", func() {
		run := func() []string {
			r := rand.New(rand.NewPCG(3, 4))
			state := loop.NewState("seed")
			var seen []string
			for range 20 {
				var out loop.Output
				state, out, _ = loop.Turn(ctx, state, r, &echoRunner{})
				seen = append(seen, string(out.Strategy))
			}
			return seen
		}
		Expect(run()).To(Equal(run()))
	})

	It("returns runner errors and leaves the state as it was", func() {
		runner.err = context.Canceled
		state := loop.NewState("seed")

		next, _, err := loop.Turn(ctx, state, rng, runner)
		Expect(err).To(MatchError(context.Canceled))
		Expect(next).To(Equal(state))
	})
})

var _ = Describe("Run", func() {
	var (
		ctx context.Context
		rng *rand.Rand
	)

	BeforeEach(func() {
		ctx = context.Background()
		rng = rand.New(rand.NewPCG(1, 2))
	})

	It("waits for the trigger between turns and stops when it closes", func() {
		ch := make(chan struct{}, 2)
		ch <- struct{}{}
		ch <- struct{}{}
		close(ch)

		var outs []loop.Output
		state, err := loop.Run(ctx, loop.NewState("seed"), rng, &echoRunner{}, loop.NewChannelTrigger(ch), func(o loop.Output) {
			outs = append(outs, o)
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(outs).To(HaveLen(3))
		Expect(state.Turn).To(Equal(3))
	})

	It("stops when the context is cancelled", func() {
		cctx, cancel := context.WithCancel(ctx)
		turns := 0
		_, err := loop.Run(cctx, loop.NewState("seed"), rng, &echoRunner{}, loop.NewChannelTrigger(make(chan struct{})), func(loop.Output) {
			turns++
			cancel()
		})
		Expect(err).To(MatchError(context.Canceled))
		Expect(turns).To(Equal(1))
	})

	It("advances on a ticker", func() {
		cctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		ticker := loop.NewTickerTrigger(time.Millisecond)
		defer ticker.Stop()

		turns := 0
		_, err := loop.Run(cctx, loop.NewState("seed"), rng, &echoRunner{}, ticker, func(loop.Output) {
			turns++
			if turns == 3 {
				cancel()
			}
		})
		Expect(err).To(MatchError(context.Canceled))
		Expect(turns).To(Equal(3))
	})
})

var _ = Describe("ReaderTrigger", func() {
	It("prints the prompt and returns after each line, then EOF", func() {
		var out strings.Builder
		t := loop.NewReaderTrigger(strings.NewReader("\nnext\n"), &out, loop.DefaultAdvancePrompt)

		Expect(t.Await(context.Background())).To(Succeed())
		Expect(t.Await(context.Background())).To(Succeed())
		Expect(t.Await(context.Background())).To(MatchError(io.EOF))
		Expect(out.String()).To(Equal(strings.Repeat(loop.DefaultAdvancePrompt, 3)))
	})

	It("returns immediately on a cancelled context", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		t := loop.NewReaderTrigger(strings.NewReader(""), nil, "")
		Expect(t.Await(ctx)).To(MatchError(context.Canceled))
	})

	It("ends Run cleanly at end of input", func() {
		t := loop.NewReaderTrigger(strings.NewReader("\n"), io.Discard, "")
		state, err := loop.Run(context.Background(), loop.NewState("s"), rand.New(rand.NewPCG(1, 1)), &echoRunner{}, t, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(state.Turn).To(Equal(2))
	})

	It("treats the stop word as end of input", func() {
		t := loop.NewReaderTrigger(strings.NewReader("\n q \nmore\n"), io.Discard, "").WithStop("q")
		state, err := loop.Run(context.Background(), loop.NewState("s"), rand.New(rand.NewPCG(1, 1)), &echoRunner{}, t, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(state.Turn).To(Equal(2))
	})
})

var _ = Describe("Lines", func() {
	It("returns lines in order, then the end of input", func() {
		lines := loop.NewLines(strings.NewReader("one\ntwo"))
		ctx := context.Background()

		text, err := lines.Next(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(text).To(Equal("one\n"))

		text, err = lines.Next(ctx)
		Expect(err).To(MatchError(io.EOF))
		Expect(text).To(Equal("two"))

		_, err = lines.Next(ctx)
		Expect(err).To(MatchError(io.EOF))
	})

	It("keeps the line an interrupted wait was expecting for the next reader", func() {
		pr, pw := io.Pipe()
		DeferCleanup(pw.Close)
		lines := loop.NewLines(pr)
		trigger := loop.NewLinesTrigger(lines, io.Discard, loop.DefaultAdvancePrompt)

		ctx, cancel := context.WithCancel(context.Background())
		waited := make(chan error, 1)
		go func() { waited <- trigger.Await(ctx) }()
		cancel()
		Eventually(waited).Should(Receive(MatchError(context.Canceled)))

		go func() { _, _ = pw.Write([]byte("5\n")) }()
		next := make(chan string, 1)
		go func() {
			text, _ := lines.Next(context.Background())
			next <- text
		}()
		Eventually(next).Should(Receive(Equal("5\n")))
	})
})

var _ = Describe("GenerationRunner", func() {
	var (
		ctx        context.Context
		completion *testutils.MockGenerator
		chat       *testutils.MockGenerator
		runner     *loop.GenerationRunner
	)

	BeforeEach(func() {
		ctx = context.Background()
		completion = testutils.NewMockGenerator()
		completion.Default = "statement"
		chat = testutils.NewMockGenerator()
		chat.Default = "chat reply"
		runner = loop.NewGenerationRunner(completion, chat, rand.New(rand.NewPCG(1, 1)), nil)
	})

	It("sends chatter on the completion tier", func() {
		got, err := runner.Run(ctx, loop.Chatter, "input")
		Expect(err).NotTo(HaveOccurred())
		Expect(got).To(Equal("statement"))
		Expect(completion.Calls()).To(Equal(1))
		Expect(completion.Prompts[0]).To(ContainSubstring("Question:"))
		Expect(chat.Calls()).To(BeZero())
	})

	It("sends compress on the completion tier", func() {
		_, err := runner.Run(ctx, loop.Compress, "input")
		Expect(err).NotTo(HaveOccurred())
		Expect(completion.Prompts[0]).To(ContainSubstring("metaphor"))
		Expect(chat.Calls()).To(BeZero())
	})

	It("builds critic statements by completion and answers on chat", func() {
		got, err := runner.Run(ctx, loop.Critic, "input")
		Expect(err).NotTo(HaveOccurred())
		Expect(got).To(Equal("chat reply"))
		Expect(completion.Calls()).To(Equal(3))
		Expect(chat.Calls()).To(Equal(1))
		Expect(chat.Prompts[0]).To(ContainSubstring("fierce critic"))
	})

	It("builds actor statements by completion and answers on chat", func() {
		_, err := runner.Run(ctx, loop.Actor, "input")
		Expect(err).NotTo(HaveOccurred())
		Expect(completion.Calls()).To(Equal(4))
		Expect(chat.Calls()).To(Equal(1))
	})

	It("passes the sentinel through as turn output", func() {
		chat.Fail = true
		got, err := runner.Run(ctx, loop.Actor, "input")
		Expect(err).NotTo(HaveOccurred())
		Expect(got).To(Equal(llm.Sentinel))
	})

	It("rejects unknown strategies", func() {
		_, err := runner.Run(ctx, loop.Strategy("dance"), "input")
		Expect(err).To(MatchError(loop.ErrInvalidPolicy))
	})

	It("reports cancellation", func() {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := runner.Run(cctx, loop.Chatter, "input")
		Expect(errors.Is(err, context.Canceled)).To(BeTrue())
	})
})
