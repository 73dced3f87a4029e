// Copyright (C) 2022 Sneller, Inc.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package xsv reads and writes CSV (RFC 4180) and
// TSV tables as rows of raw byte fields, and keeps
// a row index that allows seeking to any data row.
package xsv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"
)

var (
	// ErrNotIndexed is returned when random access
	// is requested from a table without an index.
	ErrNotIndexed = errors.New("xsv: table has no row index")
	// ErrRowRange is returned for a row position
	// outside of the table.
	ErrRowRange = errors.New("xsv: row position out of range")
	// ErrColumnRange is returned for a column
	// selection that names no existing column.
	ErrColumnRange = errors.New("xsv: column out of range")
)

// Delim is a field separator.
type Delim rune

// ParseDelim accepts a single character
// or the word "tab".
func ParseDelim(s string) (Delim, error) {
	switch s {
	case "", ",":
		return ',', nil
	case "tab", `\t`:
		return '\t', nil
	}
	r, n := utf8.DecodeRuneInString(s)
	if n != len(s) || r == utf8.RuneError || r == '"' || r == '\r' || r == '\n' {
		return 0, fmt.Errorf("xsv: invalid delimiter %q", s)
	}
	return Delim(r), nil
}

// Options describe the layout of a table.
type Options struct {
	// Separator allows specifying a custom
	// separator (defaults to comma)
	Separator Delim
	// HasHeader is set when the first record
	// names the columns and is not a data row.
	HasHeader bool
}

// Source yields the data rows of a table in order.
type Source interface {
	// Next returns the fields of the next data
	// row, or io.EOF after the last one. The
	// returned fields are owned by the caller.
	Next() ([][]byte, error)
}

// IndexedSource is a Source that can be
// repositioned at any data row.
type IndexedSource interface {
	Source
	// Indexed reports whether Seek is available.
	Indexed() bool
	// Len returns the number of data rows.
	Len() int
	// Width returns the number of columns.
	Width() int
	// Seek positions the source so that the
	// next call to Next returns row pos.
	Seek(pos int) error
}

// Reader reads a table sequentially.
type Reader struct {
	cr     *csv.Reader
	header [][]byte
}

// NewReader returns a Reader for r. When opts.HasHeader
// is set the header record is consumed immediately.
func NewReader(r io.Reader, opts Options) (*Reader, error) {
	rd := &Reader{cr: newCSVReader(r, opts.Separator)}
	if opts.HasHeader {
		rec, err := rd.cr.Read()
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("xsv: reading header: %w", err)
		}
		rd.header = copyFields(rec)
	}
	return rd, nil
}

// Header returns the header fields, or nil
// when the table has no header.
func (r *Reader) Header() [][]byte { return r.header }

// Next implements Source.
func (r *Reader) Next() ([][]byte, error) {
	rec, err := r.cr.Read()
	if err != nil {
		return nil, err
	}
	return copyFields(rec), nil
}

// InputOffset returns the byte offset of the
// end of the last record read.
func (r *Reader) InputOffset() int64 { return r.cr.InputOffset() }

func newCSVReader(r io.Reader, sep Delim) *csv.Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true
	cr.LazyQuotes = true
	if sep != 0 {
		cr.Comma = rune(sep)
	}
	return cr
}

// copyFields copies a record into a single
// backing buffer.
func copyFields(rec []string) [][]byte {
	if rec == nil {
		return nil
	}
	size := 0
	for i := range rec {
		size += len(rec[i])
	}
	buf := make([]byte, 0, size)
	out := make([][]byte, len(rec))
	for i := range rec {
		start := len(buf)
		buf = append(buf, rec[i]...)
		out[i] = buf[start:len(buf):len(buf)]
	}
	return out
}
