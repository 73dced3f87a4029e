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
	"github.com/SnellerInc/xsvsort/ints"
)

// LimitKind describes how to interpret the
// parameters of a Limit.
type LimitKind byte

const (
	// Use the first rows in range [0:limit]
	LimitToHeadRows LimitKind = iota

	// Use the last rows in range [len(collection) - limit:]
	LimitToTopRows

	// Use subrange of rows in range [offset:offset + limit]
	LimitToRange
)

// Limit selects a page of a sorted collection.
type Limit struct {
	Kind          LimitKind
	Limit, Offset int
}

// Page returns the Limit selecting size rows
// starting at row offset.
func Page(offset, size int) *Limit {
	return &Limit{Kind: LimitToRange, Offset: offset, Limit: size}
}

// FinalRange calculates the range of rows that has to be actually output.
//
// It takes into account the number of rows. The range is empty
// (end < start) when no row is selected.
func (l *Limit) FinalRange(rowsCount int) indicesRange {
	switch l.Kind {
	case LimitToHeadRows:
		return indicesRange{start: 0,
			end: ints.Min(rowsCount-1, l.Limit-1)}

	case LimitToTopRows:
		return indicesRange{start: ints.Max(rowsCount-l.Limit, 0),
			end: rowsCount - 1}

	case LimitToRange:
		if l.Offset >= rowsCount || l.Limit <= 0 {
			return indicesRange{start: rowsCount, end: rowsCount - 1}
		}

		return indicesRange{start: ints.Max(l.Offset, 0),
			end: ints.Min(l.Offset+l.Limit-1, rowsCount-1)}
	}

	return indicesRange{start: 0, end: -1}
}
