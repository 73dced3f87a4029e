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

package sorting

import (
	"errors"
	"fmt"

	"github.com/SnellerInc/xsvsort/compare"
	"github.com/SnellerInc/xsvsort/shuffle"
	"github.com/SnellerInc/xsvsort/sortkey"
)

// ErrUniqueRandom is returned when unique output
// is requested together with a random order.
var ErrUniqueRandom = errors.New("sorting: unique cannot be combined with random order")

// Record is one data row of a table.
type Record struct {
	// Pos is the zero-based position of the
	// row among the data rows of the table.
	Pos int
	// Fields are the raw field values.
	Fields [][]byte
}

// Selection lists the columns forming a sort key,
// most significant first.
type Selection []int

// Clamp returns the columns of s that exist in
// a row of the given width, in the same order.
func (s Selection) Clamp(width int) Selection {
	out := s[:0:0]
	for _, c := range s {
		if c >= 0 && c < width {
			out = append(out, c)
		}
	}
	return out
}

// AppendKey appends the selected fields of row to dst.
// A nil Selection selects every field.
func (s Selection) AppendKey(dst [][]byte, row [][]byte) [][]byte {
	if s == nil {
		return append(dst, row...)
	}
	for _, c := range s {
		if c >= 0 && c < len(row) {
			dst = append(dst, row[c])
		}
	}
	return dst
}

// Order selects the comparison semantics of the key fields.
type Order uint8

const (
	Lexical           Order = iota // byte order
	Numeric                        // numeric value
	Natural                        // natural ("human") order
	NaturalTruncating              // natural order, overflowing digit runs are zero
	Spreadsheet                    // sortkey order
)

var orderNames = [...]string{
	Lexical:           "lexical",
	Numeric:           "numeric",
	Natural:           "natural",
	NaturalTruncating: "natural-truncating",
	Spreadsheet:       "spreadsheet",
}

func (o Order) String() string {
	if int(o) < len(orderNames) {
		return orderNames[o]
	}
	return fmt.Sprintf("Order(%d)", o)
}

// Comparator returns the comparator implementing o.
// ignoreCase only affects Lexical and the natural orders.
// Spreadsheet compares the encoded keys built by prepare.
func (o Order) Comparator(ignoreCase bool) compare.Func {
	switch o {
	case Numeric:
		return compare.Numeric
	case Natural:
		return compare.NaturalOrder{Fold: ignoreCase}.Compare
	case NaturalTruncating:
		return compare.NaturalOrder{Fold: ignoreCase, Truncate: true}.Compare
	case Spreadsheet:
		return compare.Lexical
	}
	if ignoreCase {
		return compare.LexicalFold
	}
	return compare.Lexical
}

// prepare converts the selected fields of a row into
// the form the comparator expects.
func (o Order) prepare(key [][]byte) [][]byte {
	if o == Spreadsheet {
		return [][]byte{sortkey.AppendComposite(nil, key)}
	}
	return key
}

// RandomMode requests a random permutation.
type RandomMode struct {
	Source shuffle.Kind
	// Seed makes the permutation reproducible
	// for the same Source; nil seeds from the OS.
	Seed *uint64
}

// Mode describes how to order rows.
type Mode struct {
	Order      Order
	IgnoreCase bool
	Reverse    bool
	// Unique keeps one row of every group of rows
	// with equal keys.
	Unique bool
	// Faster trades the stability of the sort
	// for speed and memory.
	Faster bool
	// Random, when set, shuffles the rows instead
	// of sorting them. The other fields are ignored.
	Random *RandomMode
}

func (m *Mode) comparator() compare.Func {
	f := m.Order.Comparator(m.IgnoreCase)
	if m.Reverse {
		f = compare.Reverse(f)
	}
	return f
}
