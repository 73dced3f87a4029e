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
	"math"
	"reflect"
	"sort"
	"testing"
)

func fields(s ...string) [][]byte {
	out := make([][]byte, len(s))
	for i := range s {
		out[i] = []byte(s[i])
	}
	return out
}

func sortStrings(in []string, f Func) []string {
	out := append([]string(nil), in...)
	sort.SliceStable(out, func(i, j int) bool {
		return f(fields(out[i]), fields(out[j])) < 0
	})
	return out
}

func sign(x int) int {
	if x < 0 {
		return -1
	} else if x > 0 {
		return 1
	}
	return 0
}

func TestLexical(t *testing.T) {
	testcases := []struct {
		a, b []string
		want int
	}{
		{[]string{"a"}, []string{"a"}, 0},
		{[]string{"a"}, []string{"b"}, -1},
		{[]string{"b"}, []string{"a"}, 1},
		{[]string{"a"}, []string{"a", "b"}, -1},
		{[]string{"a", "b"}, []string{"a"}, 1},
		{[]string{}, []string{}, 0},
		// per-field, not concatenated: "ab"+"c" vs "a"+"bc"
		{[]string{"ab", "c"}, []string{"a", "bc"}, 1},
		{[]string{"B"}, []string{"a"}, -1},
	}
	for _, tc := range testcases {
		got := sign(Lexical(fields(tc.a...), fields(tc.b...)))
		if got != tc.want {
			t.Errorf("Lexical(%q, %q) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestLexicalFold(t *testing.T) {
	testcases := []struct {
		a, b string
		want int
	}{
		{"ABC", "abc", 0},
		{"ABC", "abd", -1},
		{"B", "a", 1},
		{"Äb", "äa", 1},
		{"straße", "STRASSE", 1},
		{"abc", "ABCD", -1},
		{"\xff", "\xfe", 1},
		{"\xfe", "\xff", -1},
		{"A\xff", "a\xff", 0},
		{"\xf0a", "\U0001F600", -1},
		{"\xe9", "\u00e9", 1},
	}
	for _, tc := range testcases {
		got := sign(LexicalFold(fields(tc.a), fields(tc.b)))
		if got != tc.want {
			t.Errorf("LexicalFold(%q, %q) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestParseNumber(t *testing.T) {
	testcases := []struct {
		in   string
		ok   bool
		want Number
	}{
		{"", false, Number{}},
		{"-", false, Number{}},
		{"+", false, Number{}},
		{"abc", false, Number{}},
		{"12", true, Number{Kind: IntNumber, Int: 12}},
		{"-12", true, Number{Kind: IntNumber, Int: -12}},
		{"+7", true, Number{Kind: IntNumber, Int: 7}},
		{"9223372036854775807", true, Number{Kind: IntNumber, Int: 9223372036854775807}},
		{"-9223372036854775808", true, Number{Kind: IntNumber, Int: -9223372036854775808}},
		{"9223372036854775808", true, Number{Kind: FloatNumber, Float: 9223372036854775808}},
		{"1.5", true, Number{Kind: FloatNumber, Float: 1.5}},
		{"1e3", true, Number{Kind: FloatNumber, Float: 1000}},
		{" 1", false, Number{}},
		{"1.", true, Number{Kind: FloatNumber, Float: 1}},
		{".5", true, Number{Kind: FloatNumber, Float: 0.5}},
		{"1e", false, Number{}},
		{"1_000", false, Number{}},
		{"0x1p-2", true, Number{Kind: FloatNumber, Float: 0.25}},
		{"1e400", true, Number{Kind: FloatNumber, Float: math.Inf(1)}},
		{"-1e400", true, Number{Kind: FloatNumber, Float: math.Inf(-1)}},
		{"-Inf", true, Number{Kind: FloatNumber, Float: math.Inf(-1)}},
	}
	for _, tc := range testcases {
		got, ok := ParseNumber([]byte(tc.in))
		if ok != tc.ok {
			t.Errorf("ParseNumber(%q): ok = %v, want %v", tc.in, ok, tc.ok)
			continue
		}
		if ok && got != tc.want {
			t.Errorf("ParseNumber(%q) = %+v, want %+v", tc.in, got, tc.want)
		}
	}
}

func TestNumeric(t *testing.T) {
	got := sortStrings([]string{"10", "2", "-3", "abc"}, Numeric)
	want := []string{"abc", "-3", "2", "10"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}

	testcases := []struct {
		a, b string
		want int
	}{
		{"2", "2.5", -1},
		{"3", "2.5", 1},
		{"2", "2.0", 0},
		{"abc", "xyz", 0},
		{"", "-1000", -1},
		{"1e2", "99", 1},
		{"NaN", "1", 0},
		{"1", "NaN", 0},
		{"9223372036854775807", "9223372036854775806", 1},
		{"1e400", "5", 1},
		{"1e400", "abc", 1},
		{"-1e400", "-5", -1},
		{"-1e400", "abc", 1},
	}
	for _, tc := range testcases {
		got := sign(Numeric(fields(tc.a), fields(tc.b)))
		if got != tc.want {
			t.Errorf("Numeric(%q, %q) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestNatural(t *testing.T) {
	got := sortStrings([]string{"file10", "file2", "file1"}, Natural)
	want := []string{"file1", "file2", "file10"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}

	testcases := []struct {
		a, b string
		want int
	}{
		{"1", "a", -1},
		{"a", "1", 1},
		{"a1", "aa", -1},
		// a digit is less than a non-digit no matter what follows
		{"9zzz", "a", -1},
		{"file", "file1", -1},
		{"file1", "file", 1},
		{"x007", "x7", 0},
		{"x7y", "x007z", -1},
		{"a10b2", "a10b10", -1},
		{"B", "a", -1},
		{"", "", 0},
		{"a99999999999999999999", "a5", 1},
		{"a99999999999999999999", "a99999999999999999998", 1},
	}
	for _, tc := range testcases {
		got := sign(Natural(fields(tc.a), fields(tc.b)))
		if got != tc.want {
			t.Errorf("Natural(%q, %q) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestNaturalTruncate(t *testing.T) {
	o := NaturalOrder{Truncate: true}
	testcases := []struct {
		a, b string
		want int
	}{
		// 20 digits overflow and evaluate to zero
		{"a99999999999999999999", "a5", -1},
		{"a99999999999999999999", "a0", 0},
		{"a9223372036854775807", "a9223372036854775806", 1},
		{"a9223372036854775808", "a1", -1},
		{"file10", "file2", 1},
	}
	for _, tc := range testcases {
		got := sign(o.Compare(fields(tc.a), fields(tc.b)))
		if got != tc.want {
			t.Errorf("Truncate(%q, %q) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestNaturalFold(t *testing.T) {
	if rel := NaturalFold(fields("File10"), fields("file9")); rel <= 0 {
		t.Errorf("File10 should follow file9, got %d", rel)
	}
	if rel := NaturalFold(fields("ABC"), fields("abc")); rel != 0 {
		t.Errorf("ABC should equal abc, got %d", rel)
	}
	if rel := Natural(fields("ABC"), fields("abc")); rel >= 0 {
		t.Errorf("ABC should precede abc, got %d", rel)
	}
}

func TestReverse(t *testing.T) {
	in := []string{"b", "c", "a", "d"}
	asc := sortStrings(in, Lexical)
	desc := sortStrings(in, Reverse(Lexical))
	for i := range asc {
		if asc[i] != desc[len(desc)-1-i] {
			t.Fatalf("asc %q is not the reverse of desc %q", asc, desc)
		}
	}
}

func TestNoAllocations(t *testing.T) {
	words := [2][][]byte{fields("file10", "Straße"), fields("file9", "STRASSE")}
	numbers := [2][][]byte{fields("10", "2.5"), fields("10", "-3")}
	text := [2][][]byte{fields("abc", "1.5x"), fields("xyz", "e5")}
	invalid := [2][][]byte{fields("\xffA"), fields("\xfea")}
	testcases := []struct {
		name string
		f    Func
		in   [2][][]byte
	}{
		{"lexical", Lexical, words},
		{"lexicalFold", LexicalFold, words},
		{"natural", Natural, words},
		{"naturalFold", NaturalFold, words},
		{"numeric", Numeric, numbers},
		{"numericText", Numeric, text},
		{"lexicalFoldInvalid", LexicalFold, invalid},
	}
	for _, tc := range testcases {
		allocs := testing.AllocsPerRun(100, func() {
			tc.f(tc.in[0], tc.in[1])
		})
		if allocs != 0 {
			t.Errorf("%s: %v allocations per run", tc.name, allocs)
		}
	}
}
