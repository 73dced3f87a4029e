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

package compare

import (
	"bytes"
	"math"
)

// NaturalOrder compares fields in "natural" order,
// where digit runs compare by their numeric value.
//
// When Truncate is false, digit runs of any length
// compare by their exact magnitude. When Truncate is
// set, a run that does not fit in an int64 evaluates
// to zero, which is what earlier releases did; use it
// only when output has to match those releases byte
// for byte.
type NaturalOrder struct {
	Fold     bool // fold ASCII case before comparing
	Truncate bool // overflowing digit runs evaluate to zero
}

// Natural compares the fields in natural order.
func Natural(a, b [][]byte) int {
	return NaturalOrder{}.Compare(a, b)
}

// NaturalFold compares the fields in natural order
// ignoring ASCII case.
func NaturalFold(a, b [][]byte) int {
	return NaturalOrder{Fold: true}.Compare(a, b)
}

// Compare implements Func.
func (o NaturalOrder) Compare(a, b [][]byte) int {
	n := minLen(a, b)
	for i := 0; i < n; i++ {
		if rel := o.CompareField(a[i], b[i]); rel != 0 {
			return rel
		}
	}
	return compareInts(len(a), len(b))
}

// CompareField compares two single fields.
func (o NaturalOrder) CompareField(a, b []byte) int {
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		ca, cb := a[i], b[j]
		da, db := isDigit(ca), isDigit(cb)
		switch {
		case da && db:
			ei := digitRunEnd(a, i)
			ej := digitRunEnd(b, j)
			if rel := o.compareRuns(a[i:ei], b[j:ej]); rel != 0 {
				return rel
			}
			i, j = ei, ej
		case da:
			return -1
		case db:
			return 1
		default:
			if o.Fold {
				ca, cb = lowerASCII(ca), lowerASCII(cb)
			}
			if ca != cb {
				return compareBytes(ca, cb)
			}
			i++
			j++
		}
	}
	return compareInts(len(a)-i, len(b)-j)
}

func (o NaturalOrder) compareRuns(a, b []byte) int {
	if o.Truncate {
		x, y := truncatedRun(a), truncatedRun(b)
		if x < y {
			return -1
		} else if x > y {
			return 1
		}
		return 0
	}
	a, b = trimZeros(a), trimZeros(b)
	if rel := compareInts(len(a), len(b)); rel != 0 {
		return rel
	}
	return bytes.Compare(a, b)
}

// truncatedRun parses a digit run, yielding
// zero when the value does not fit in an int64.
func truncatedRun(run []byte) int64 {
	var v int64
	for _, c := range run {
		d := int64(c - '0')
		if v > (math.MaxInt64-d)/10 {
			return 0
		}
		v = v*10 + d
	}
	return v
}

func trimZeros(run []byte) []byte {
	for len(run) > 1 && run[0] == '0' {
		run = run[1:]
	}
	return run
}

func digitRunEnd(b []byte, i int) int {
	for i < len(b) && isDigit(b[i]) {
		i++
	}
	return i
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
