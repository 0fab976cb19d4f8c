// Package logfile opens auth logs as line streams, transparently
// decompressing gzip archives.
package logfile

import (
	"bufio"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotFound reports a missing input file.
var ErrNotFound = errors.New("log file not found")

// maxLineSize bounds a single log line; syslog lines are far smaller, but a
// corrupt archive should not abort the run. Anything past the bound is
// dropped and scanning continues on the next line.
const maxLineSize = 1024 * 1024

// Reader yields the lines of a plain or gzip-compressed log file. Invalid
// UTF-8 is replaced and over-long lines truncated, never fatal.
type Reader struct {
	f    *os.File
	gz   *gzip.Reader
	br   *bufio.Reader
	line string
	err  error
}

// Open opens path for line-by-line reading. Paths ending in ".gz" are
// decompressed on the fly. A missing file yields ErrNotFound.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	r := &Reader{f: f}

	var src io.Reader = f
	if filepath.Ext(path) == ".gz" {
		gz, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to open gzip stream: %w", err)
		}
		r.gz = gz
		src = gz
	}

	r.br = bufio.NewReaderSize(src, 64*1024)

	return r, nil
}

// Scan advances to the next line.
func (r *Reader) Scan() bool {
	if r.err != nil {
		return false
	}

	line, err := r.readLine()
	if err != nil {
		r.err = err
		// a final line without a trailing newline still counts
		return err == io.EOF && len(line) > 0 && r.setLine(line)
	}
	return r.setLine(line)
}

func (r *Reader) setLine(line []byte) bool {
	r.line = string(line)
	return true
}

// readLine accumulates one line up to maxLineSize, draining and discarding
// the remainder of lines that exceed the bound.
func (r *Reader) readLine() ([]byte, error) {
	var buf []byte
	for {
		chunk, isPrefix, err := r.br.ReadLine()
		if room := maxLineSize - len(buf); room > 0 {
			if len(chunk) > room {
				chunk = chunk[:room]
			}
			buf = append(buf, chunk...)
		}
		if err != nil {
			return buf, err
		}
		if !isPrefix {
			return buf, nil
		}
	}
}

// Text returns the current line with any invalid byte sequences replaced by
// the Unicode replacement character.
func (r *Reader) Text() string {
	return strings.ToValidUTF8(r.line, "�")
}

// Err returns the first non-EOF error hit while scanning.
func (r *Reader) Err() error {
	if r.err == io.EOF {
		return nil
	}
	return r.err
}

func (r *Reader) Close() error {
	if r.gz != nil {
		r.gz.Close()
	}
	return r.f.Close()
}
