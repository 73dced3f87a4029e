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
	"encoding/csv"
	"io"
)

// Writer writes rows of byte fields as CSV.
type Writer struct {
	cw      *csv.Writer
	scratch []string
}

// NewWriter returns a Writer using sep as the
// field separator (comma when zero).
func NewWriter(w io.Writer, sep Delim) *Writer {
	cw := csv.NewWriter(w)
	if sep != 0 {
		cw.Comma = rune(sep)
	}
	return &Writer{cw: cw}
}

// WriteRow writes one row. Rows are written
// in the order WriteRow is called.
func (w *Writer) WriteRow(fields [][]byte) error {
	w.scratch = w.scratch[:0]
	for i := range fields {
		w.scratch = append(w.scratch, string(fields[i]))
	}
	return w.cw.Write(w.scratch)
}

// Flush writes any buffered data and
// returns the first error encountered.
func (w *Writer) Flush() error {
	w.cw.Flush()
	return w.cw.Error()
}
