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

// Package sortkey encodes field values into byte strings
// whose plain byte order reproduces spreadsheet ordering:
// negative numbers, then non-negative numbers, then text
// compared without regard to case.
//
// The encoding lets an external sort compare keys as opaque
// bytes without knowing anything about the column types.
package sortkey

import (
	"bytes"
	"unicode"
	"unicode/utf8"
)

const (
	// MaxDigits is the longest digit run that is
	// still encoded as a number. Longer integers
	// are encoded as text.
	MaxDigits = 39

	// Separator joins the segments of a composite key.
	Separator = 0x1f

	negativeBucket = '0'
	numberBucket   = '1'
	textBucket     = '2'
)

// AppendField appends the key of one field to dst.
//
// Surrounding whitespace is ignored. An optional '-'
// followed by 1 to MaxDigits ASCII digits is a number:
// its magnitude is zero-padded to MaxDigits digits and
// stored as is for non-negative values, or as the nine's
// complement of every digit for negative ones, so a larger
// magnitude yields a smaller key. Anything else is text
// and is stored lower-cased.
func AppendField(dst, field []byte) []byte {
	s := bytes.TrimSpace(field)
	digits, neg := s, false
	if len(digits) > 0 && digits[0] == '-' {
		digits, neg = digits[1:], true
	}
	if len(digits) == 0 || len(digits) > MaxDigits || !allDigits(digits) {
		dst = append(dst, textBucket)
		return appendLower(dst, s)
	}
	pad := MaxDigits - len(digits)
	if !neg {
		dst = append(dst, numberBucket)
		for i := 0; i < pad; i++ {
			dst = append(dst, '0')
		}
		return append(dst, digits...)
	}
	dst = append(dst, negativeBucket)
	for i := 0; i < pad; i++ {
		dst = append(dst, '9')
	}
	for _, c := range digits {
		dst = append(dst, '9'-(c-'0'))
	}
	return dst
}

// Encode returns the key of a single field.
func Encode(field []byte) []byte {
	return AppendField(make([]byte, 0, MaxDigits+1), field)
}

// AppendComposite appends the key of a row
// restricted to the given fields. Segments are
// joined with Separator so that ("ab", "c") and
// ("a", "bc") produce different keys.
func AppendComposite(dst []byte, fields [][]byte) []byte {
	for i := range fields {
		if i > 0 {
			dst = append(dst, Separator)
		}
		dst = AppendField(dst, fields[i])
	}
	return dst
}

// Compare orders two rows the way their composite
// keys order. It allocates the keys on every call,
// so callers comparing the same rows repeatedly
// should encode them once instead.
func Compare(a, b [][]byte) int {
	return bytes.Compare(AppendComposite(nil, a), AppendComposite(nil, b))
}

func allDigits(b []byte) bool {
	for _, c := range b {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func appendLower(dst, s []byte) []byte {
	for len(s) > 0 {
		c := s[0]
		if c < utf8.RuneSelf {
			if c >= 'A' && c <= 'Z' {
				c += 'a' - 'A'
			}
			dst = append(dst, c)
			s = s[1:]
			continue
		}
		r, n := utf8.DecodeRune(s)
		if r == utf8.RuneError && n == 1 {
			dst = append(dst, c)
		} else {
			dst = utf8.AppendRune(dst, unicode.ToLower(r))
		}
		s = s[n:]
	}
	return dst
}
