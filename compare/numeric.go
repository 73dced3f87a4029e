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
	"errors"
	"math"
	"strconv"
	"unsafe"
)

// NumberKind tells which member of a Number is valid.
type NumberKind uint8

const (
	IntNumber   NumberKind = iota // Number.Int holds the value
	FloatNumber                   // Number.Float holds the value
)

// Number is a parsed numeric field.
type Number struct {
	Kind  NumberKind
	Int   int64
	Float float64
}

// Float64 returns the value of n widened to float64.
func (n Number) Float64() float64 {
	if n.Kind == IntNumber {
		return float64(n.Int)
	}
	return n.Float
}

// Compare returns -1, 0 or 1 when n is less than,
// equal to or greater than o. Two integers are
// compared exactly; otherwise both values are
// widened to float64. Comparisons involving NaN
// report equality.
func (n Number) Compare(o Number) int {
	if n.Kind == IntNumber && o.Kind == IntNumber {
		if n.Int < o.Int {
			return -1
		} else if n.Int > o.Int {
			return 1
		}
		return 0
	}
	x, y := n.Float64(), o.Float64()
	if x < y {
		return -1
	} else if x > y {
		return 1
	}
	return 0
}

// ParseNumber parses b as int64 and, if that fails,
// as float64. The second return value is false when
// b is neither.
func ParseNumber(b []byte) (Number, bool) {
	if len(b) == 0 {
		return Number{}, false
	}
	if i, ok := parseInt(b); ok {
		return Number{Kind: IntNumber, Int: i}, true
	}
	if !floatSyntax(b) {
		return Number{}, false
	}
	f, err := strconv.ParseFloat(unsafeString(b), 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return Number{}, false
	}
	return Number{Kind: FloatNumber, Float: f}, true
}

// floatSyntax reports whether b could be accepted by
// strconv.ParseFloat, so that text fields never reach
// its allocating error path. Decimal input is checked
// exactly; hexadecimal input is only screened.
func floatSyntax(b []byte) bool {
	if b[0] == '+' || b[0] == '-' {
		b = b[1:]
	}
	if len(b) == 0 {
		return false
	}
	if special(b) {
		return true
	}
	if len(b) > 2 && b[0] == '0' && (b[1] == 'x' || b[1] == 'X') {
		for _, c := range b[2:] {
			if !isHexFloatByte(c) {
				return false
			}
		}
		return true
	}
	digits := 0
	i := 0
	for i < len(b) && isDigit(b[i]) {
		i++
		digits++
	}
	if i < len(b) && b[i] == '.' {
		i++
		for i < len(b) && isDigit(b[i]) {
			i++
			digits++
		}
	}
	if digits == 0 {
		return false
	}
	if i < len(b) && (b[i] == 'e' || b[i] == 'E') {
		i++
		if i < len(b) && (b[i] == '+' || b[i] == '-') {
			i++
		}
		if i == len(b) {
			return false
		}
		for i < len(b) && isDigit(b[i]) {
			i++
		}
	}
	return i == len(b)
}

// special matches the spellings of infinity and NaN
// accepted by strconv.ParseFloat.
func special(b []byte) bool {
	for _, word := range [...]string{"inf", "infinity", "nan"} {
		if len(b) != len(word) {
			continue
		}
		match := true
		for i := range b {
			if lowerASCII(b[i]) != word[i] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

func isHexFloatByte(c byte) bool {
	switch {
	case isDigit(c), c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		return true
	}
	switch c {
	case '.', 'p', 'P', '+', '-', '_':
		return true
	}
	return false
}

// parseInt is strconv.ParseInt(s, 10, 64) without
// the allocation of the error value.
func parseInt(b []byte) (int64, bool) {
	neg := false
	switch b[0] {
	case '-':
		neg = true
		b = b[1:]
	case '+':
		b = b[1:]
	}
	if len(b) == 0 {
		return 0, false
	}
	var u uint64
	for _, c := range b {
		if c < '0' || c > '9' {
			return 0, false
		}
		if u > (1<<63)/10 {
			return 0, false
		}
		u = u*10 + uint64(c-'0')
		if u > 1<<63 {
			return 0, false
		}
	}
	if neg {
		return -int64(u), true
	}
	if u > math.MaxInt64 {
		return 0, false
	}
	return int64(u), true
}

// Numeric compares the fields by their numeric value.
// A field that is not a number orders before any
// field that is one.
func Numeric(a, b [][]byte) int {
	n := minLen(a, b)
	for i := 0; i < n; i++ {
		if rel := NumericField(a[i], b[i]); rel != 0 {
			return rel
		}
	}
	return compareInts(len(a), len(b))
}

// NumericField is Numeric for a single field.
func NumericField(a, b []byte) int {
	x, okx := ParseNumber(a)
	y, oky := ParseNumber(b)
	switch {
	case !okx && !oky:
		return 0
	case !okx:
		return -1
	case !oky:
		return 1
	}
	return x.Compare(y)
}

func unsafeString(b []byte) string {
	return *(*string)(unsafe.Pointer(&b))
}
