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
	"io"

	"github.com/SnellerInc/xsvsort/compare"
	"github.com/SnellerInc/xsvsort/xsv"
)

// SingleColumn configures SortIndices.
type SingleColumn struct {
	Numeric    bool
	Natural    bool // ignored when Numeric is set
	Reverse    bool
	IgnoreCase bool
	Faster     bool
	// Limit restricts the result to a page
	// of the sorted order; nil returns it all.
	Limit *Limit
}

func (s *SingleColumn) comparator() compare.Func {
	var f compare.Func
	switch {
	case s.Numeric:
		f = compare.Numeric
	case s.Natural:
		f = compare.NaturalOrder{Fold: s.IgnoreCase}.Compare
	case s.IgnoreCase:
		f = compare.LexicalFold
	default:
		f = compare.Lexical
	}
	if s.Reverse {
		f = compare.Reverse(f)
	}
	return f
}

// SortIndices reads src and returns the positions of its
// rows ordered by the value of one column. Only that
// column is kept in memory. Rows too short to have the
// column order before every row that has it.
func SortIndices(src xsv.Source, column int, opts SingleColumn, rp *RuntimeParameters) ([]int, error) {
	data := &sortData{cmp: opts.comparator()}
	for pos := 0; ; pos++ {
		row, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("sorting: reading row %d: %w", pos, err)
		}
		item := sortItem{rec: Record{Pos: pos}}
		if column >= 0 && column < len(row) {
			// copy, so the rest of the row can be released
			item.key = [][]byte{append([]byte(nil), row[column]...)}
		}
		data.items = append(data.items, item)
	}

	w := &collector{data: data}
	if err := run(data, opts.Faster, opts.Limit, w, rp); err != nil {
		return nil, err
	}
	positions := make([]int, len(w.out))
	for i := range w.out {
		positions[i] = w.out[i].rec.Pos
	}
	return positions, nil
}
