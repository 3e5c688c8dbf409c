package record

import (
	"bufio"
	"bytes"
	"context"
	"io"

	perrors "github.com/Aman-CERP/pulse/internal/errors"
)

// Line is the result of reading one physical line.
type Line struct {
	// Number is 1-based within the current file.
	Number  int
	Record  *Record
	Outcome perrors.Outcome
}

// Reader streams records from one file. Lines may be arbitrarily long.
type Reader struct {
	br   *bufio.Reader
	line int
	done bool
}

// NewReader wraps r for sequential line reads.
func NewReader(r io.Reader) *Reader {
	return &Reader{br: bufio.NewReaderSize(r, 64*1024)}
}

// Next returns the next line's result. A malformed line comes back as a
// Skipped outcome with a nil error so the caller keeps going. io.EOF marks
// the end of the stream; any other error comes from the underlying reader.
func (r *Reader) Next(ctx context.Context) (Line, error) {
	if err := ctx.Err(); err != nil {
		return Line{}, err
	}
	if r.done {
		return Line{}, io.EOF
	}

	raw, err := r.br.ReadBytes('\n')
	if err == io.EOF {
		r.done = true
		if len(raw) == 0 {
			return Line{}, io.EOF
		}
	} else if err != nil {
		return Line{}, err
	}

	r.line++
	raw = bytes.TrimSuffix(raw, []byte("\n"))
	raw = bytes.TrimSuffix(raw, []byte("\r"))

	rec, perr := Parse(raw)
	if perr != nil {
		return Line{Number: r.line, Outcome: perrors.Skip("", perr)}, nil
	}
	return Line{Number: r.line, Record: rec, Outcome: perrors.Succeeded()}, nil
}

// LineCount returns how many lines have been read so far.
func (r *Reader) LineCount() int {
	return r.line
}
