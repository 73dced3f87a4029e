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
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Index maps data row positions to
// the byte offsets where the rows start.
//
// The serialized form is the list of offsets
// followed by the width of the widest row and the
// number of rows, every value an 8-byte big-endian
// integer.
type Index struct {
	offsets []int64
	width   int
}

// BuildIndex reads the whole table from r
// and records where every data row starts.
func BuildIndex(r io.Reader, opts Options) (*Index, error) {
	rd, err := NewReader(r, opts)
	if err != nil {
		return nil, err
	}
	idx := &Index{}
	for {
		off := rd.InputOffset()
		rec, err := rd.cr.Read()
		if errors.Is(err, io.EOF) {
			return idx, nil
		}
		if err != nil {
			return nil, fmt.Errorf("xsv: indexing row %d: %w", len(idx.offsets), err)
		}
		idx.offsets = append(idx.offsets, off)
		if len(rec) > idx.width {
			idx.width = len(rec)
		}
	}
}

// Len returns the number of data rows.
func (x *Index) Len() int { return len(x.offsets) }

// Width returns the number of fields
// of the widest data row.
func (x *Index) Width() int { return x.width }

// Offset returns the byte offset of row pos.
func (x *Index) Offset(pos int) (int64, error) {
	if pos < 0 || pos >= len(x.offsets) {
		return 0, fmt.Errorf("%w: %d of %d", ErrRowRange, pos, len(x.offsets))
	}
	return x.offsets[pos], nil
}

// WriteTo implements io.WriterTo
func (x *Index) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var buf [8]byte
	var n int64
	put := func(v uint64) error {
		binary.BigEndian.PutUint64(buf[:], v)
		m, err := bw.Write(buf[:])
		n += int64(m)
		return err
	}
	for _, off := range x.offsets {
		if err := put(uint64(off)); err != nil {
			return n, err
		}
	}
	if err := put(uint64(x.width)); err != nil {
		return n, err
	}
	if err := put(uint64(len(x.offsets))); err != nil {
		return n, err
	}
	return n, bw.Flush()
}

// ReadIndex decodes an index written by WriteTo.
func ReadIndex(r io.Reader) (*Index, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(data) < 16 || len(data)%8 != 0 {
		return nil, fmt.Errorf("xsv: corrupt index of %d bytes", len(data))
	}
	count := binary.BigEndian.Uint64(data[len(data)-8:])
	if count != uint64(len(data)/8-2) {
		return nil, fmt.Errorf("xsv: index claims %d rows but holds %d", count, len(data)/8-2)
	}
	idx := &Index{
		offsets: make([]int64, count),
		width:   int(binary.BigEndian.Uint64(data[len(data)-16:])),
	}
	for i := range idx.offsets {
		idx.offsets[i] = int64(binary.BigEndian.Uint64(data[i*8:]))
	}
	return idx, nil
}
