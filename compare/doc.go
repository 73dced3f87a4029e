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

/*
Package compare implements three-way comparators over
rows of opaque byte fields.

Every comparator takes two sequences of fields, one
field per selected column, and returns a negative
number, zero or a positive number when the first
sequence orders before, together with or after the
second one. Fields are compared left to right and the
first field that is not equal decides; when one
sequence is a prefix of the other, the shorter one
is less.

The comparators do not allocate. They are safe to call
from many goroutines at once.

Semantics

Lexical and LexicalFold compare raw bytes (the latter
folding case first).

Numeric parses every field first as int64, then as float64.
A field that does not parse sorts before every field
that does. Integers and floats compare by value and
comparisons that involve NaN report equality.

Natural and NaturalFold implement "human" ordering:
runs of ASCII digits compare by their numeric value, so
"file2" < "file10". A digit always orders before a
non-digit at the same position. See NaturalOrder for the
treatment of digit runs that do not fit in 64 bits.
*/
package compare
