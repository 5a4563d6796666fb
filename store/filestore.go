package store

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"iter"
	"os"
	"path/filepath"

	"github.com/tailored-agentic-units/worldbackup/core/record"
)

// MaxLineSize bounds a single persisted record. Appenders refuse longer
// records and readers skip longer lines.
const MaxLineSize = 16 << 20

type fileStore struct {
	path string
	mode record.Mode
}

// NewFileStore creates a Store backed by the file at path. mode selects how
// records are written; files written in either mode can be read back in
// either mode.
func NewFileStore(path string, mode record.Mode) Store {
	return &fileStore{path: path, mode: mode}
}

func (s *fileStore) Append(ctx context.Context, r record.Record) error {
	a, err := s.OpenAppender(ctx)
	if err != nil {
		return err
	}
	if err := a.Append(r); err != nil {
		a.Close()
		return err
	}
	return a.Close()
}

func (s *fileStore) OpenAppender(_ context.Context) (*Appender, error) {
	if s.path == "" {
		return nil, fmt.Errorf("%w: empty path", ErrSaveFailed)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrSaveFailed, s.path, err)
		}
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSaveFailed, s.path, err)
	}

	return &Appender{file: f, path: s.path, mode: s.mode}, nil
}

func (s *fileStore) Load(_ context.Context) (*Reader, error) {
	if s.path == "" {
		return nil, fmt.Errorf("%w: empty path", ErrLoadFailed)
	}

	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrLoadFailed, s.path, err)
	}

	return &Reader{file: f, path: s.path}, nil
}

// appendFile is the part of *os.File an Appender writes through.
type appendFile interface {
	io.WriteCloser
	io.Seeker
	Truncate(size int64) error
}

// Appender writes records to an open backup file, one line per call.
// Each line reaches the file before Append returns.
type Appender struct {
	file  appendFile
	path  string
	mode  record.Mode
	buf   []byte
	dirty bool // a failed write left an unterminated line behind
}

// Append encodes r and writes it followed by a newline. An encoding failure
// or a record longer than MaxLineSize leaves the file untouched. A write
// that fails partway is truncated away; if that is not possible the next
// line starts on a fresh line.
func (a *Appender) Append(r record.Record) error {
	if a.file == nil {
		return ErrClosed
	}

	line, err := record.Encode(r, a.mode)
	if err != nil {
		return err
	}
	if len(line) > MaxLineSize {
		return fmt.Errorf("%w: %d bytes", ErrLineTooLong, len(line))
	}

	a.buf = a.buf[:0]
	if a.dirty {
		a.buf = append(a.buf, '\n')
	}
	a.buf = append(a.buf, line...)
	a.buf = append(a.buf, '\n')

	n, err := a.file.Write(a.buf)
	if err != nil {
		if n > 0 {
			a.dirty = a.rollback(n) != nil
		}
		return fmt.Errorf("%w: %s: %v", ErrSaveFailed, a.path, err)
	}
	a.dirty = false
	return nil
}

// rollback removes the last n bytes written.
func (a *Appender) rollback(n int) error {
	end, err := a.file.Seek(0, io.SeekCurrent)
	if err != nil {
		return err
	}
	return a.file.Truncate(end - int64(n))
}

// Close releases the file handle. It is safe to call more than once.
func (a *Appender) Close() error {
	if a.file == nil {
		return nil
	}
	err := a.file.Close()
	a.file = nil
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrSaveFailed, a.path, err)
	}
	return nil
}

// Reader is a single-pass view over the records of a backup file.
type Reader struct {
	file *os.File
	path string
	used bool
}

// Records returns a lazy sequence over the file. Each step yields either a
// decoded record or a *LineError for a line that could not be decoded or
// is longer than MaxLineSize; blank lines are skipped. A read failure or
// context cancellation is yielded as a final non-LineError error. The file
// is closed when the sequence ends. A second call yields ErrClosed.
func (r *Reader) Records(ctx context.Context) iter.Seq2[record.Record, error] {
	return func(yield func(record.Record, error) bool) {
		if r.used || r.file == nil {
			yield(nil, ErrClosed)
			return
		}
		r.used = true
		defer r.Close()

		br := bufio.NewReaderSize(r.file, 64*1024)
		var buf []byte

		line := 0
		for {
			raw, tooLong, err := readLine(br, buf)
			buf = raw
			if err != nil && err != io.EOF {
				yield(nil, fmt.Errorf("%w: %s: line %d: %v", ErrLoadFailed, r.path, line+1, err))
				return
			}
			if err == io.EOF && len(raw) == 0 && !tooLong {
				return
			}
			line++

			if cerr := ctx.Err(); cerr != nil {
				yield(nil, cerr)
				return
			}

			switch {
			case tooLong:
				if !yield(nil, &LineError{Path: r.path, Line: line, Err: ErrLineTooLong}) {
					return
				}
			case len(bytes.TrimRight(raw, "\r\n")) == 0:
			default:
				rec, derr := record.Decode(raw)
				if derr != nil {
					if !yield(nil, &LineError{Path: r.path, Line: line, Err: derr}) {
						return
					}
				} else if !yield(rec, nil) {
					return
				}
			}

			if err == io.EOF {
				return
			}
		}
	}
}

// readLine reads the next line into buf, including its newline. A line
// whose content exceeds MaxLineSize is consumed in full but not kept, and
// tooLong is set.
func readLine(br *bufio.Reader, buf []byte) (line []byte, tooLong bool, err error) {
	buf = buf[:0]
	for {
		chunk, rerr := br.ReadSlice('\n')
		if !tooLong {
			if len(buf)+len(bytes.TrimSuffix(chunk, []byte("\n"))) > MaxLineSize {
				tooLong = true
				buf = buf[:0]
			} else {
				buf = append(buf, chunk...)
			}
		}
		if rerr == bufio.ErrBufferFull {
			continue
		}
		return buf, tooLong, rerr
	}
}

// Close releases the file handle. It is safe to call more than once.
func (r *Reader) Close() error {
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}
