package runtime

import (
	"errors"
	"io"
	"os"
	"sync"
)

// StdinName is the input name that refers to standard input.
const StdinName = "-"

// Inputs manages the files a run reads from. Files stay open until
// CloseAll and are read back to back as one line stream.
type Inputs struct {
	mu sync.Mutex

	stdin   io.Reader
	readers []io.Reader
	files   []*os.File
}

// NewInputs creates an input set that reads StdinName from stdin.
func NewInputs(stdin io.Reader) *Inputs {
	return &Inputs{stdin: stdin}
}

// Open opens every named input in order. With no names, stdin is the
// only input. On failure, inputs opened so far are closed.
func (in *Inputs) Open(names ...string) error {
	if len(names) == 0 {
		names = []string{StdinName}
	}

	in.mu.Lock()
	defer in.mu.Unlock()

	for _, name := range names {
		if name == StdinName {
			in.readers = append(in.readers, &lineTerminated{r: in.stdin})
			continue
		}
		file, err := os.Open(name)
		if err != nil {
			in.closeLocked()
			return err
		}
		in.files = append(in.files, file)
		in.readers = append(in.readers, &lineTerminated{r: file})
	}
	return nil
}

// Reader returns the concatenation of all opened inputs. An input
// whose last line has no newline gets one, so lines never run together
// across files.
func (in *Inputs) Reader() io.Reader {
	in.mu.Lock()
	defer in.mu.Unlock()
	return io.MultiReader(in.readers...)
}

// Len returns the number of opened inputs.
func (in *Inputs) Len() int {
	in.mu.Lock()
	defer in.mu.Unlock()
	return len(in.readers)
}

// CloseAll closes every opened file. Stdin is left open.
func (in *Inputs) CloseAll() error {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.closeLocked()
}

func (in *Inputs) closeLocked() error {
	var errs []error
	for _, f := range in.files {
		if err := f.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	in.files = nil
	in.readers = nil
	return errors.Join(errs...)
}

// lineTerminated appends a final '\n' to a non-empty stream that does
// not already end with one.
type lineTerminated struct {
	r       io.Reader
	last    byte
	seen    bool
	pending bool // newline owed to the caller
	done    bool
}

func (l *lineTerminated) Read(p []byte) (int, error) {
	if l.pending {
		if len(p) == 0 {
			return 0, nil
		}
		p[0] = '\n'
		l.pending = false
		return 1, io.EOF
	}
	if l.done {
		return 0, io.EOF
	}

	n, err := l.r.Read(p)
	if n > 0 {
		l.last = p[n-1]
		l.seen = true
	}
	if err == io.EOF {
		l.done = true
		if l.seen && l.last != '\n' {
			if n < len(p) {
				p[n] = '\n'
				return n + 1, io.EOF
			}
			l.pending = true
			return n, nil
		}
	}
	return n, err
}
