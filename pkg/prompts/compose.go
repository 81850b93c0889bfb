// Package prompts builds the text prompts sent for generation.
package prompts

import "strings"

const (
	messageHeader  = "Message:"
	reminderHeader = "Reminding me of:"
)

// Compose appends a Message section holding input to basePrompt and, when ok
// is true, a Reminding me of section holding recalled. Both are copied
// verbatim. basePrompt itself is never modified.
func Compose(basePrompt, input, recalled string, ok bool) string {
	var b strings.Builder
	b.Grow(len(basePrompt) + len(input) + len(recalled) + 40)

	b.WriteString(basePrompt)
	b.WriteString("\n\n")
	b.WriteString(messageHeader)
	b.WriteString("\n")
	b.WriteString(input)

	if ok {
		b.WriteString("\n\n")
		b.WriteString(reminderHeader)
		b.WriteString("\n")
		b.WriteString(recalled)
	}

	return b.String()
}
