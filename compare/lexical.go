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
	"unicode"
	"unicode/utf8"
)

// Func is a three-way comparator of two
// sequences of fields.
type Func func(a, b [][]byte) int

// Reverse returns a comparator producing
// the opposite ordering of f.
func Reverse(f Func) Func {
	return func(a, b [][]byte) int {
		return f(b, a)
	}
}

// Lexical compares the fields by their bytes.
func Lexical(a, b [][]byte) int {
	n := minLen(a, b)
	for i := 0; i < n; i++ {
		if rel := bytes.Compare(a[i], b[i]); rel != 0 {
			return rel
		}
	}
	return compareInts(len(a), len(b))
}

// LexicalFold compares the fields by their bytes
// after converting them to lower case.
func LexicalFold(a, b [][]byte) int {
	n := minLen(a, b)
	for i := 0; i < n; i++ {
		if rel := FoldField(a[i], b[i]); rel != 0 {
			return rel
		}
	}
	return compareInts(len(a), len(b))
}

// FoldField compares two single fields
// case-insensitively. The fields are compared as
// the byte strings obtained by folding ASCII bytes
// directly and decoding everything else as UTF-8
// folded with unicode.ToLower. Bytes that are not
// valid UTF-8 are compared as they are.
func FoldField(a, b []byte) int {
	fa := folder{s: a}
	fb := folder{s: b}
	for {
		ca, oka := fa.next()
		cb, okb := fb.next()
		switch {
		case !oka && !okb:
			return 0
		case !oka:
			return -1
		case !okb:
			return 1
		case ca != cb:
			return compareBytes(ca, cb)
		}
	}
}

// folder yields the bytes of s folded to lower case.
type folder struct {
	s   []byte
	buf [utf8.UTFMax]byte
	n   int
	pos int
}

func (f *folder) next() (byte, bool) {
	if f.pos < f.n {
		c := f.buf[f.pos]
		f.pos++
		return c, true
	}
	if len(f.s) == 0 {
		return 0, false
	}
	c := f.s[0]
	if c < utf8.RuneSelf {
		f.s = f.s[1:]
		return lowerASCII(c), true
	}
	r, n := utf8.DecodeRune(f.s)
	f.s = f.s[n:]
	if r == utf8.RuneError && n == 1 {
		return c, true
	}
	f.n = utf8.EncodeRune(f.buf[:], unicode.ToLower(r))
	f.pos = 1
	return f.buf[0], true
}

func lowerASCII(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}

func compareBytes(a, b byte) int {
	if a < b {
		return -1
	}
	return 1
}

func compareInts(a, b int) int {
	if a < b {
		return -1
	} else if a > b {
		return 1
	}
	return 0
}

func minLen(a, b [][]byte) int {
	if len(a) < len(b) {
		return len(a)
	}
	return len(b)
}
