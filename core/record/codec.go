package record

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"unicode/utf16"
	"unicode/utf8"
)

// Encode serializes r as a single JSON object without a trailing newline.
// Fields whose values have no JSON representation (channels, functions,
// NaN, values whose MarshalJSON fails) are dropped rather than failing the
// whole record. Keys are written in sorted order.
func Encode(r Record, mode Mode) ([]byte, error) {
	if r == nil {
		return nil, ErrEmptyRecord
	}

	fields := make(map[string]json.RawMessage, len(r))
	for k, v := range r {
		raw, err := marshal(v)
		if err != nil {
			continue
		}
		fields[k] = raw
	}

	line, err := marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}

	if mode == Text {
		line = escapeNonASCII(line)
	}
	return line, nil
}

// Decode parses one persisted line into a Record. Trailing line terminators
// are ignored. Numbers are kept as json.Number so integer identifiers and
// coordinates are not rounded through float64.
func Decode(line []byte) (Record, error) {
	line = bytes.TrimRight(line, "\r\n")
	if !utf8.Valid(line) {
		return nil, ErrInvalidUTF8
	}

	dec := json.NewDecoder(bytes.NewReader(line))
	dec.UseNumber()

	var r Record
	if err := dec.Decode(&r); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	if r == nil {
		return nil, ErrEmptyRecord
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, ErrTrailingData
	}

	return r, nil
}

func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// escapeNonASCII rewrites every rune >= 0x80 as a \uXXXX escape, using a
// UTF-16 surrogate pair outside the basic multilingual plane. Non-ASCII
// bytes only occur inside JSON strings, so the result is equivalent JSON.
func escapeNonASCII(b []byte) []byte {
	i := 0
	for i < len(b) && b[i] < utf8.RuneSelf {
		i++
	}
	if i == len(b) {
		return b
	}

	out := make([]byte, 0, len(b)+16)
	out = append(out, b[:i]...)
	for i < len(b) {
		if b[i] < utf8.RuneSelf {
			out = append(out, b[i])
			i++
			continue
		}
		r, size := utf8.DecodeRune(b[i:])
		i += size
		if r >= 0x10000 {
			hi, lo := utf16.EncodeRune(r)
			out = appendEscape(out, hi)
			out = appendEscape(out, lo)
			continue
		}
		out = appendEscape(out, r)
	}
	return out
}

func appendEscape(out []byte, r rune) []byte {
	hex := strconv.FormatInt(int64(r), 16)
	out = append(out, '\\', 'u')
	for n := len(hex); n < 4; n++ {
		out = append(out, '0')
	}
	return append(out, hex...)
}
