// Package dimacs provides a bounded-memory DIMACS CNF clause sink used
// by the SAT encoder, plus a reader for parsing DIMACS CNF files back
// into memory (used by the inspect CLI subcommand and round-trip
// tests). Clauses are slices of signed integer literals; zero
// terminates a clause on the wire but is never stored in memory.
package dimacs

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// defaultWindow is the number of clauses the buffer holds in memory
// before spilling to its backing file (spec §4.3).
const defaultWindow = 5000

// ClauseBuffer streams clauses to a backing file as they are
// produced, so encodings with millions of clauses never need to live
// in memory at once. The backing file is truncated on creation.
type ClauseBuffer struct {
	path   string
	file   *os.File
	writer *bufio.Writer
	window [][]int
	limit  int
	count  int
}

// Open creates (truncating) the backing file and returns a ready
// buffer.
func Open(path string) (*ClauseBuffer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating dimacs buffer file %q: %w", path, err)
	}
	return &ClauseBuffer{
		path:   path,
		file:   f,
		writer: bufio.NewWriter(f),
		limit:  defaultWindow,
	}, nil
}

// Path returns the backing file path.
func (b *ClauseBuffer) Path() string {
	return b.path
}

// Len returns the total number of clauses appended so far.
func (b *ClauseBuffer) Len() int {
	return b.count
}

// Append adds one clause. literals must not contain a trailing 0; the
// terminator is added on render.
func (b *ClauseBuffer) Append(literals []int) error {
	cp := make([]int, len(literals))
	copy(cp, literals)
	b.window = append(b.window, cp)
	b.count++
	if len(b.window) >= b.limit {
		return b.spill()
	}
	return nil
}

func (b *ClauseBuffer) spill() error {
	for _, clause := range b.window {
		if err := renderClause(b.writer, clause); err != nil {
			return err
		}
	}
	b.window = b.window[:0]
	return nil
}

func renderClause(w *bufio.Writer, clause []int) error {
	var sb strings.Builder
	for _, lit := range clause {
		sb.WriteString(strconv.Itoa(lit))
		sb.WriteByte(' ')
	}
	sb.WriteString("0\n")
	_, err := w.WriteString(sb.String())
	return err
}

// Flush writes out any remaining buffered clauses and flushes the
// underlying writer, without closing the file.
func (b *ClauseBuffer) Flush() error {
	if err := b.spill(); err != nil {
		return err
	}
	return b.writer.Flush()
}

// Close flushes and closes the backing file.
func (b *ClauseBuffer) Close() error {
	if err := b.Flush(); err != nil {
		b.file.Close()
		return err
	}
	return b.file.Close()
}
