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

package xsv

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
)

// IndexSuffix is appended to a table path
// to name its index file.
const IndexSuffix = ".idx"

// File is a seekable table, optionally
// backed by a row index.
type File struct {
	rs     io.ReadSeeker
	closer io.Closer
	opts   Options
	idx    *Index
	header [][]byte
	width  int
	pos    int   // position of the row Next returns
	cr     *csv.Reader
}

// NewFile wraps rs. The index may be nil,
// in which case only sequential access works.
func NewFile(rs io.ReadSeeker, opts Options, idx *Index) (*File, error) {
	f := &File{rs: rs, opts: opts, idx: idx}
	if err := f.reset(0); err != nil {
		return nil, err
	}
	if opts.HasHeader {
		rec, err := f.cr.Read()
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("xsv: reading header: %w", err)
		}
		f.header = copyFields(rec)
		f.width = len(rec)
		return f, nil
	}
	// without a header the widest indexed row
	// decides the width, or else the first row
	if idx != nil {
		f.width = idx.Width()
		return f, nil
	}
	rec, err := f.cr.Read()
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("xsv: reading first row: %w", err)
	}
	f.width = len(rec)
	if err := f.reset(0); err != nil {
		return nil, err
	}
	return f, nil
}

// Open opens the table at path. When a fresh index
// file exists next to it, the File is indexed. An
// index older than the table is ignored.
func Open(path string, opts Options) (*File, error) {
	fp, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	idx, err := loadIndex(fp, path+IndexSuffix)
	if err != nil {
		fp.Close()
		return nil, err
	}
	f, err := NewFile(fp, opts, idx)
	if err != nil {
		fp.Close()
		return nil, err
	}
	f.closer = fp
	return f, nil
}

func loadIndex(table *os.File, path string) (*Index, error) {
	ti, err := table.Stat()
	if err != nil {
		return nil, err
	}
	fp, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	defer fp.Close()
	ii, err := fp.Stat()
	if err != nil {
		return nil, err
	}
	if ii.ModTime().Before(ti.ModTime()) {
		return nil, nil
	}
	return ReadIndex(bufio.NewReader(fp))
}

// WriteIndexFile builds the index of the table
// at path and stores it next to the table.
func WriteIndexFile(path string, opts Options) (*Index, error) {
	fp, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fp.Close()
	idx, err := BuildIndex(bufio.NewReader(fp), opts)
	if err != nil {
		return nil, err
	}
	out, err := os.Create(path + IndexSuffix)
	if err != nil {
		return nil, err
	}
	if _, err := idx.WriteTo(out); err != nil {
		out.Close()
		return nil, err
	}
	return idx, out.Close()
}

func (f *File) reset(off int64) error {
	if _, err := f.rs.Seek(off, io.SeekStart); err != nil {
		return fmt.Errorf("xsv: seek to %d: %w", off, err)
	}
	f.cr = newCSVReader(bufio.NewReader(f.rs), f.opts.Separator)
	return nil
}

var _ IndexedSource = (*File)(nil)

// Header returns the header fields, or nil.
func (f *File) Header() [][]byte { return f.header }

// Width returns the number of columns, taken from
// the header or, without one, from the widest row of
// the index. An unindexed File without a header
// uses the first row.
func (f *File) Width() int { return f.width }

// Indexed reports whether the File supports Seek.
func (f *File) Indexed() bool { return f.idx != nil }

// Len returns the number of data rows.
// It is only known for indexed files.
func (f *File) Len() int {
	if f.idx == nil {
		return -1
	}
	return f.idx.Len()
}

// Seek positions the File so that the next call to
// Next returns row pos. Seeking to Len() is allowed
// and leaves the File at its end.
func (f *File) Seek(pos int) error {
	if f.idx == nil {
		return ErrNotIndexed
	}
	if pos == f.idx.Len() {
		if _, err := f.rs.Seek(0, io.SeekEnd); err != nil {
			return err
		}
		f.cr = newCSVReader(f.rs, f.opts.Separator)
		f.pos = pos
		return nil
	}
	off, err := f.idx.Offset(pos)
	if err != nil {
		return err
	}
	if err := f.reset(off); err != nil {
		return err
	}
	f.pos = pos
	return nil
}

// Next implements Source.
func (f *File) Next() ([][]byte, error) {
	rec, err := f.cr.Read()
	if err != nil {
		return nil, err
	}
	f.pos++
	return copyFields(rec), nil
}

// Row returns the fields of row pos.
func (f *File) Row(pos int) ([][]byte, error) {
	if pos != f.pos {
		if err := f.Seek(pos); err != nil {
			return nil, err
		}
	}
	row, err := f.Next()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %d", ErrRowRange, pos)
	}
	return row, err
}

// Close closes the underlying file, if
// the File was created by Open.
func (f *File) Close() error {
	if f.closer != nil {
		return f.closer.Close()
	}
	return nil
}
