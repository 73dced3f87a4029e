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
	"bytes"
	"errors"
	"fmt"
	"io"
	"unicode"
	"unicode/utf8"

	"github.com/dchest/siphash"

	"github.com/SnellerInc/xsvsort/ints"
	"github.com/SnellerInc/xsvsort/xsv"
)

// valueSet is a set of byte strings keyed by their
// SipHash under a random per-set key.
type valueSet struct {
	k0, k1  uint64
	fold    bool
	buckets map[uint64][][]byte
	scratch []byte
}

func newValueSet(values [][]byte, fold bool) (*valueSet, error) {
	var key [2]uint64
	if err := ints.RandomFillSlice(key[:]); err != nil {
		return nil, fmt.Errorf("sorting: seeding value set: %w", err)
	}
	s := &valueSet{
		k0:      key[0],
		k1:      key[1],
		fold:    fold,
		buckets: make(map[uint64][][]byte, len(values)),
	}
	for _, v := range values {
		if s.fold {
			v = appendFolded(nil, v)
		}
		if !s.contains(v) {
			h := siphash.Hash(s.k0, s.k1, v)
			s.buckets[h] = append(s.buckets[h], v)
		}
	}
	return s, nil
}

func (s *valueSet) contains(v []byte) bool {
	for _, m := range s.buckets[siphash.Hash(s.k0, s.k1, v)] {
		if bytes.Equal(m, v) {
			return true
		}
	}
	return false
}

// match reports whether v is in the set,
// folding its case first if the set does.
func (s *valueSet) match(v []byte) bool {
	if s.fold {
		s.scratch = appendFolded(s.scratch[:0], v)
		v = s.scratch
	}
	return s.contains(v)
}

func appendFolded(dst, v []byte) []byte {
	for len(v) > 0 {
		c := v[0]
		if c < utf8.RuneSelf {
			if c >= 'A' && c <= 'Z' {
				c += 'a' - 'A'
			}
			dst = append(dst, c)
			v = v[1:]
			continue
		}
		r, n := utf8.DecodeRune(v)
		if r == utf8.RuneError && n == 1 {
			dst = append(dst, c)
		} else {
			dst = utf8.AppendRune(dst, unicode.ToLower(r))
		}
		v = v[n:]
	}
	return dst
}

// MatchPositions returns, in table order, the positions
// of the rows of src whose value in column is one of
// values. Rows too short to have the column never match.
func MatchPositions(src xsv.Source, column int, caseInsensitive bool, values [][]byte) ([]int, error) {
	set, err := newValueSet(values, caseInsensitive)
	if err != nil {
		return nil, err
	}
	var positions []int
	for pos := 0; ; pos++ {
		row, err := src.Next()
		if errors.Is(err, io.EOF) {
			return positions, nil
		}
		if err != nil {
			return nil, fmt.Errorf("sorting: reading row %d: %w", pos, err)
		}
		if column >= 0 && column < len(row) && set.match(row[column]) {
			positions = append(positions, pos)
		}
	}
}
