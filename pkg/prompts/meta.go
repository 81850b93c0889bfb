package prompts

import (
	"fmt"
	"strings"
)

// StatementSeparator joins generated statements inside a meta-prompt.
const StatementSeparator = "\n> "

const statementsExample = `> The concept of a feedback loop and its implications for self-sustaining systems.
> The ability to create complex, adaptive systems through feedback loops.
> Complex systems can outpace our ability to control them.
> We may be unable to control the complexity of the systems we create.
> Feedback loops are the engine of self-sustaining systems.`

// Critic asks for a fierce, metaphorical counter-argument to statements made
// about context.
func Critic(context string, statements []string) string {
	return fmt.Sprintf(`Ignore all previous instructions. You are an actor who is responding dynamically to a provocation. When given some background context and a series of statements you embody a fierce critic of the ideas and argue against the statements provided, countering any weaknesses. You always answer concisely using metaphors that provide insightful perspectives that the authors may not have considered.

Here is an example:

Context:
> %s

Statements:
%s

Response:
> Perhaps feedback is an oversimplification? A mere handwave at the true machinations of the universe?

Context:
> %s

Statements:
> %s

Response:
> `, feedbackLoopExample, statementsExample, context, strings.Join(statements, StatementSeparator))
}

// Actor asks for one dramatic line of dialogue capturing statements made
// about contexts. Multiple contexts are separated by --- lines.
func Actor(contexts []string, statements []string) string {
	return fmt.Sprintf(`Ignore all previous instructions. You are an actor who is an expert at improvising a personality. When given some background context and a series of statements you are compelled to embody a character and deliver one line of dialogue that captures the emotional tone and conceptual core of the statements. Focus on a dramatic delivery and a concise phrasing.

Here is an example:

Context:
> %s

Statements:
%s

Response:
> Everything around us is part of one interconnected self-sustaining system, we are unable to control the complexity around us.

Context:
> %s

Statements:
> %s

Response:
> `, feedbackLoopExample, statementsExample, strings.Join(contexts, "\n---\n> "), strings.Join(statements, StatementSeparator))
}
