package testutils

import (
	"context"
	"fmt"
	"strings"

	"github.com/papercomputeco/geist/pkg/llm"
)

// MockGenerator is a test generator that records prompts and returns canned
// responses.
type MockGenerator struct {
	// Prompts accumulates every prompt passed to Generate, in order.
	Prompts []string

	// Responses maps a prompt substring to the text returned for it. The
	// first matching key in Keys order wins.
	Responses map[string]string
	Keys      []string

	// Default is returned when no response matches. Empty means echo the
	// call number as "response N".
	Default string

	// Fail causes every Generate call to return an error.
	Fail bool
}

func NewMockGenerator() *MockGenerator {
	return &MockGenerator{
		Responses: make(map[string]string),
	}
}

// On registers a canned response for prompts containing substr.
func (m *MockGenerator) On(substr, response string) *MockGenerator {
	m.Responses[substr] = response
	m.Keys = append(m.Keys, substr)
	return m
}

func (m *MockGenerator) Generate(_ context.Context, prompt string) (string, error) {
	m.Prompts = append(m.Prompts, prompt)

	if m.Fail {
		return "", fmt.Errorf("%w: mock generation failure", llm.ErrGeneration)
	}

	for _, k := range m.Keys {
		if strings.Contains(prompt, k) {
			return m.Responses[k], nil
		}
	}

	if m.Default != "" {
		return m.Default, nil
	}
	return fmt.Sprintf("response %d", len(m.Prompts)), nil
}

// Calls returns the number of Generate invocations.
func (m *MockGenerator) Calls() int {
	return len(m.Prompts)
}
