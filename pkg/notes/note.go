// Package notes reads the operator's notes directory.
//
// A note is a text file that may open with a header block of "key: value"
// lines. The block ends at the first blank line; everything after it is the
// note's content.
package notes

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrNoteSource is wrapped by every failure to list or read notes.
var ErrNoteSource = errors.New("note source")

// Header is one "key: value" line of a note's header block.
type Header struct {
	Key   string
	Value string
}

// Note is a parsed note file.
type Note struct {
	Name    string
	Headers []Header
	Content string
}

// Header returns the value of the first header named key.
func (n *Note) Header(key string) (string, bool) {
	for _, h := range n.Headers {
		if h.Key == key {
			return h.Value, true
		}
	}
	return "", false
}

// Parse reads a note from r. Header lines are split on their first colon and
// trimmed; a header line without a colon has an empty value. Content lines
// are joined with newlines.
func Parse(name string, r io.Reader) (*Note, error) {
	n := &Note{Name: name}

	var content []string
	inHeaders := true

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()

		if !inHeaders {
			content = append(content, line)
			continue
		}

		if strings.TrimSpace(line) == "" {
			inHeaders = false
			continue
		}

		key, value, _ := strings.Cut(line, ":")
		n.Headers = append(n.Headers, Header{
			Key:   strings.TrimSpace(key),
			Value: strings.TrimSpace(value),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", ErrNoteSource, name, err)
	}

	n.Content = strings.Join(content, "\n")
	return n, nil
}
