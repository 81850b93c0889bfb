package notes

import (
	"errors"
	"fmt"
	"io/fs"
	"math/rand/v2"
	"os"
	"path"
	"strings"
)

// DefaultDir is the notes directory used when none is configured.
const DefaultDir = "notes"

// Source lists and loads notes from a directory.
type Source struct {
	Dir string

	fsys fs.FS
}

// NewSource reads notes from dir on disk.
func NewSource(dir string) *Source {
	if dir == "" {
		dir = DefaultDir
	}
	return &Source{Dir: dir, fsys: os.DirFS(dir)}
}

// NewSourceFS reads notes from the root of fsys. Used in tests.
func NewSourceFS(fsys fs.FS) *Source {
	return &Source{Dir: ".", fsys: fsys}
}

// List returns the names of the notes in the directory, sorted. Directories
// and dotfiles are ignored. An empty directory is an error.
func (s *Source) List() ([]string, error) {
	entries, err := fs.ReadDir(s.fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("%w: listing %s: %w", ErrNoteSource, s.Dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		names = append(names, e.Name())
	}

	if len(names) == 0 {
		return nil, fmt.Errorf("%w: no notes in %s", ErrNoteSource, s.Dir)
	}
	return names, nil
}

// Load reads and parses the named note.
func (s *Source) Load(name string) (*Note, error) {
	if !fs.ValidPath(name) || path.Base(name) != name {
		return nil, fmt.Errorf("%w: invalid note name %q", ErrNoteSource, name)
	}

	f, err := s.fsys.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: note %q not found in %s", ErrNoteSource, name, s.Dir)
		}
		return nil, fmt.Errorf("%w: opening %s: %w", ErrNoteSource, name, err)
	}
	defer f.Close()

	return Parse(name, f)
}

// LoadRandom loads a note chosen uniformly with rng.
func (s *Source) LoadRandom(rng *rand.Rand) (*Note, error) {
	names, err := s.List()
	if err != nil {
		return nil, err
	}
	return s.Load(names[rng.IntN(len(names))])
}

// LoadRandomN loads n notes chosen independently with rng. The same note can
// be drawn more than once.
func (s *Source) LoadRandomN(rng *rand.Rand, n int) ([]*Note, error) {
	names, err := s.List()
	if err != nil {
		return nil, err
	}

	out := make([]*Note, 0, n)
	for range n {
		note, err := s.Load(names[rng.IntN(len(names))])
		if err != nil {
			return nil, err
		}
		out = append(out, note)
	}
	return out, nil
}
