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

package sortkey

import (
	"bytes"
	"math/big"
	"math/rand"
	"strings"
	"testing"
)

func TestEncodeBuckets(t *testing.T) {
	ordered := []string{
		"-1000",
		"-999",
		"-10",
		"-9",
		"-1",
		"0",
		"7",
		"10",
		"999999999999999999999999999999999999999", // 39 digits
		"",
		"-",
		"1000000000000000000000000000000000000000", // 40 digits, text
		"ABC",
		"abd",
		"b",
	}
	for i := 1; i < len(ordered); i++ {
		a, b := Encode([]byte(ordered[i-1])), Encode([]byte(ordered[i]))
		if bytes.Compare(a, b) >= 0 {
			t.Errorf("key(%q)=%q should be less than key(%q)=%q", ordered[i-1], a, ordered[i], b)
		}
	}
}

func TestEncodeExact(t *testing.T) {
	testcases := []struct {
		in, want string
	}{
		{"12", "1" + strings.Repeat("0", 37) + "12"},
		{" 12\t", "1" + strings.Repeat("0", 37) + "12"},
		{"-12", "0" + strings.Repeat("9", 37) + "87"},
		{"Hello World", "2hello world"},
		{"  MiXeD ", "2mixed"},
		{"ÄRGER", "2ärger"},
		{"1.5", "21.5"},
		{strings.Repeat("1", 40), "2" + strings.Repeat("1", 40)},
	}
	for _, tc := range testcases {
		got := string(Encode([]byte(tc.in)))
		if got != tc.want {
			t.Errorf("Encode(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func randomInteger(r *rand.Rand) *big.Int {
	n := 1 + r.Intn(MaxDigits)
	var sb strings.Builder
	for i := 0; i < n; i++ {
		sb.WriteByte(byte('0' + r.Intn(10)))
	}
	x, _ := new(big.Int).SetString(sb.String(), 10)
	if r.Intn(2) == 0 {
		x.Neg(x)
	}
	return x
}

func TestEncodeNumericOrder(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 5000; i++ {
		a, b := randomInteger(r), randomInteger(r)
		if i%10 == 0 {
			// same length, same sign
			b = new(big.Int).Add(a, big.NewInt(int64(r.Intn(3)-1)))
		}
		ka := Encode([]byte(a.String()))
		kb := Encode([]byte(b.String()))
		want := a.Cmp(b)
		got := bytes.Compare(ka, kb)
		if (got < 0) != (want < 0) || (got == 0) != (want == 0) {
			t.Fatalf("%s vs %s: key order %d, numeric order %d", a, b, got, want)
		}
	}
}

func TestEncodeTextOrder(t *testing.T) {
	const alphabet = "abcXYZ-_ .é"
	runes := []rune(alphabet)
	r := rand.New(rand.NewSource(2))
	word := func() string {
		var sb strings.Builder
		sb.WriteRune('q')
		for n := r.Intn(6); n > 0; n-- {
			sb.WriteRune(runes[r.Intn(len(runes))])
		}
		sb.WriteRune('k')
		return sb.String()
	}
	for i := 0; i < 5000; i++ {
		a, b := word(), word()
		want := strings.Compare(strings.ToLower(a), strings.ToLower(b))
		got := bytes.Compare(Encode([]byte(a)), Encode([]byte(b)))
		if got != want {
			t.Fatalf("%q vs %q: key order %d, text order %d", a, b, got, want)
		}
	}
}

func TestCompositeNoCollision(t *testing.T) {
	a := AppendComposite(nil, [][]byte{[]byte("ab"), []byte("c")})
	b := AppendComposite(nil, [][]byte{[]byte("a"), []byte("bc")})
	if bytes.Equal(a, b) {
		t.Fatalf("composite keys collide: %q", a)
	}
	if Compare([][]byte{[]byte("a"), []byte("bc")}, [][]byte{[]byte("ab"), []byte("c")}) >= 0 {
		t.Errorf("(a, bc) should order before (ab, c)")
	}
}

func TestCompositeOrder(t *testing.T) {
	rows := [][]string{
		{"-2", "z"},
		{"-2", "10"},
		{"1", "b"},
		{"1", "A"},
		{"x", "1"},
	}
	sorted := []int{1, 0, 3, 2, 4}
	for i := 1; i < len(sorted); i++ {
		prev, cur := rows[sorted[i-1]], rows[sorted[i]]
		pk := AppendComposite(nil, [][]byte{[]byte(prev[0]), []byte(prev[1])})
		ck := AppendComposite(nil, [][]byte{[]byte(cur[0]), []byte(cur[1])})
		if bytes.Compare(pk, ck) >= 0 {
			t.Errorf("%q should order before %q", prev, cur)
		}
	}
}
