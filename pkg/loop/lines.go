package loop

import (
	"bufio"
	"context"
	"io"
	"sync"
)

type line struct {
	text string
	err  error
}

// Lines hands out lines read from one reader by a single goroutine. A Next
// call abandoned through its context leaves the line it was waiting for to
// the following Next, so nothing typed is lost and the reader is never read
// from two goroutines.
type Lines struct {
	r    *bufio.Reader
	ch   chan line
	once sync.Once

	// err is set before ch is closed.
	err error
}

// NewLines reads from r. Reading starts with the first call to Next.
func NewLines(r io.Reader) *Lines {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &Lines{r: br, ch: make(chan line)}
}

func (l *Lines) read() {
	for {
		text, err := l.r.ReadString('\n')
		if err != nil {
			if text != "" {
				l.ch <- line{text: text, err: err}
			}
			l.err = err
			close(l.ch)
			return
		}
		l.ch <- line{text: text}
	}
}

// Next returns the next line, including its newline, with the semantics of
// bufio.Reader.ReadString: a final unterminated line comes back with the
// read error. Once input ends every call returns that error.
func (l *Lines) Next(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	l.once.Do(func() { go l.read() })

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case ln, ok := <-l.ch:
		if !ok {
			return "", l.err
		}
		return ln.text, ln.err
	}
}
