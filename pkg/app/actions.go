package app

import (
	"context"
	"strings"

	"github.com/papercomputeco/geist/pkg/agent"
	"github.com/papercomputeco/geist/pkg/llm"
	"github.com/papercomputeco/geist/pkg/notes"
	"github.com/papercomputeco/geist/pkg/prompts"
)

// Report is the outcome of one note action: the notes it drew on, in draw
// order, and the generated text. Text is llm.Sentinel when generation failed.
type Report struct {
	Notes []string
	Text  string
}

// Critic analyses a random note with the critic meta-prompt on the chat tier.
func (a *App) Critic(ctx context.Context) (*Report, error) {
	note, err := a.Notes.LoadRandom(a.Rand)
	if err != nil {
		return nil, err
	}

	p, err := a.Strategy().Critic(ctx, note.Content)
	if err != nil {
		return nil, err
	}
	return a.report(ctx, a.Chat, p, note)
}

// Actor analyses a random note with the actor meta-prompt on the chat tier.
func (a *App) Actor(ctx context.Context) (*Report, error) {
	note, err := a.Notes.LoadRandom(a.Rand)
	if err != nil {
		return nil, err
	}

	p, err := a.Strategy().Actor(ctx, note.Content)
	if err != nil {
		return nil, err
	}
	return a.report(ctx, a.Chat, p, note)
}

// FourActor analyses a random note against three more with the giga actor
// meta-prompt. Only the first note is reported.
func (a *App) FourActor(ctx context.Context) (*Report, error) {
	ns, err := a.Notes.LoadRandomN(a.Rand, 4)
	if err != nil {
		return nil, err
	}

	p, err := a.Strategy().GigaActor(ctx, ns[0].Content, ns[1].Content, ns[2].Content, ns[3].Content)
	if err != nil {
		return nil, err
	}
	return a.report(ctx, a.Chat, p, ns[0])
}

// Compress compresses two random notes joined by a space.
func (a *App) Compress(ctx context.Context) (*Report, error) {
	ns, err := a.Notes.LoadRandomN(a.Rand, 2)
	if err != nil {
		return nil, err
	}

	combined := ns[0].Content + " " + ns[1].Content
	return a.report(ctx, a.Completion, prompts.Compressor(combined), ns...)
}

// Question asks one of the fixed questions of a random note.
func (a *App) Question(ctx context.Context) (*Report, error) {
	note, err := a.Notes.LoadRandom(a.Rand)
	if err != nil {
		return nil, err
	}
	return a.report(ctx, a.Completion, prompts.QuestionEverything(note.Content, a.Rand), note)
}

// Critique asks for a critique of a random note.
func (a *App) Critique(ctx context.Context) (*Report, error) {
	note, err := a.Notes.LoadRandom(a.Rand)
	if err != nil {
		return nil, err
	}
	return a.report(ctx, a.Completion, prompts.CriticalWriting(note.Content), note)
}

// Connect draws connections from a random note to three others on the chat
// tier. No note names are reported.
func (a *App) Connect(ctx context.Context) (*Report, error) {
	ns, err := a.Notes.LoadRandomN(a.Rand, 4)
	if err != nil {
		return nil, err
	}

	p := prompts.Connections(ns[0].Content, ns[1].Content, ns[2].Content, ns[3].Content)
	return a.report(ctx, a.Chat, p)
}

// FreeText runs the critic meta-prompt over text and sends it on the
// completion tier.
func (a *App) FreeText(ctx context.Context, text string) (*Report, error) {
	p, err := a.Strategy().Critic(ctx, text)
	if err != nil {
		return nil, err
	}
	return a.report(ctx, a.Completion, p)
}

// Seed returns loop seed text: text itself when set, otherwise a random note.
func (a *App) Seed(text string) (string, string, error) {
	if strings.TrimSpace(text) != "" {
		return "", text, nil
	}

	note, err := a.Notes.LoadRandom(a.Rand)
	if err != nil {
		return "", "", err
	}
	return note.Name, note.Content, nil
}

// NewAgent creates an agent with the app's persona and primes its bank:
// rounds batches of three random notes are memorized, then rounds
// connections across three fresh notes are generated on the chat tier and
// memorized under the first note's name. progress, if set, is called after
// every memorized entry.
func (a *App) NewAgent(ctx context.Context, rounds int, progress func()) (*agent.Agent, error) {
	ag := agent.New(a.Persona(), a.Embedder, a.Chat, agent.WithLogger(a.Logger))
	tick := func() {
		if progress != nil {
			progress()
		}
	}

	for range rounds {
		ns, err := a.Notes.LoadRandomN(a.Rand, 3)
		if err != nil {
			return nil, err
		}
		for _, n := range ns {
			if _, err := ag.Memorize(ctx, n.Name, n.Content); err != nil {
				return nil, err
			}
			tick()
		}
	}

	for range rounds {
		ns, err := a.Notes.LoadRandomN(a.Rand, 3)
		if err != nil {
			return nil, err
		}

		p := prompts.Connections(ns[0].Content, ns[1].Content, ns[2].Content, ns[2].Content)
		text := llm.Complete(ctx, a.Chat, p, a.Logger)
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if _, err := ag.Memorize(ctx, ns[0].Name, text); err != nil {
			return nil, err
		}
		tick()
	}

	a.Logger.Debug("agent primed", "memories", ag.Bank().Len())
	return ag, nil
}

func (a *App) report(ctx context.Context, gen llm.Generator, prompt string, drawn ...*notes.Note) (*Report, error) {
	text := llm.Complete(ctx, gen, prompt, a.Logger)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(drawn))
	for _, n := range drawn {
		names = append(names, n.Name)
	}
	return &Report{Notes: names, Text: text}, nil
}
