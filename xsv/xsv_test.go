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

package xsv

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

const sample = `name,qty,note
apple,10,"red, sweet"
banana,2,
cherry,-3,"multi
line"

date,abc,x
`

func strs(row [][]byte) []string {
	out := make([]string, len(row))
	for i := range row {
		out[i] = string(row[i])
	}
	return out
}

func readAll(src Source) ([][][]byte, error) {
	var rows [][][]byte
	for {
		row, err := src.Next()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
}

func TestReader(t *testing.T) {
	rd, err := NewReader(strings.NewReader(sample), Options{HasHeader: true})
	if err != nil {
		t.Fatal(err)
	}
	if got := strs(rd.Header()); !reflect.DeepEqual(got, []string{"name", "qty", "note"}) {
		t.Errorf("header: got %q", got)
	}
	rows, err := readAll(rd)
	if err != nil {
		t.Fatal(err)
	}
	want := [][]string{
		{"apple", "10", "red, sweet"},
		{"banana", "2", ""},
		{"cherry", "-3", "multi\nline"},
		{"date", "abc", "x"},
	}
	if len(rows) != len(want) {
		t.Fatalf("got %d rows, want %d", len(rows), len(want))
	}
	for i := range rows {
		if got := strs(rows[i]); !reflect.DeepEqual(got, want[i]) {
			t.Errorf("row %d: got %q, want %q", i, got, want[i])
		}
	}
}

func TestReaderTab(t *testing.T) {
	rd, err := NewReader(strings.NewReader("a\tb\n1\t2\n"), Options{Separator: '\t'})
	if err != nil {
		t.Fatal(err)
	}
	row, err := rd.Next()
	if err != nil {
		t.Fatal(err)
	}
	if got := strs(row); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("got %q", got)
	}
}

func TestIndexSeek(t *testing.T) {
	for _, header := range []bool{true, false} {
		opts := Options{HasHeader: header}
		idx, err := BuildIndex(strings.NewReader(sample), opts)
		if err != nil {
			t.Fatal(err)
		}
		wantLen := 4
		if !header {
			wantLen = 5
		}
		if idx.Len() != wantLen {
			t.Fatalf("header=%v: index has %d rows, want %d", header, idx.Len(), wantLen)
		}
		f, err := NewFile(strings.NewReader(sample), opts, idx)
		if err != nil {
			t.Fatal(err)
		}
		if f.Width() != 3 {
			t.Errorf("width = %d", f.Width())
		}
		last := wantLen - 1
		row, err := f.Row(last)
		if err != nil {
			t.Fatal(err)
		}
		if row[0][0] != 'd' {
			t.Errorf("row %d: got %q", last, strs(row))
		}
		row, err = f.Row(last - 1)
		if err != nil {
			t.Fatal(err)
		}
		if got := string(row[2]); got != "multi\nline" {
			t.Errorf("row %d: got %q", last-1, strs(row))
		}
		if _, err := f.Row(wantLen); !errors.Is(err, ErrRowRange) {
			t.Errorf("reading past the end: got %v", err)
		}
		if err := f.Seek(wantLen); err != nil {
			t.Fatal(err)
		}
		if _, err := f.Next(); !errors.Is(err, io.EOF) {
			t.Errorf("Next at end: got %v", err)
		}
	}
}

func TestRaggedWidth(t *testing.T) {
	const ragged = "a\nb,c,d\ne,f\n"
	f, err := NewFile(strings.NewReader(ragged), Options{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if f.Width() != 1 {
		t.Errorf("unindexed width = %d, want 1", f.Width())
	}
	idx, err := BuildIndex(strings.NewReader(ragged), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if idx.Width() != 3 {
		t.Errorf("index width = %d, want 3", idx.Width())
	}
	f, err = NewFile(strings.NewReader(ragged), Options{}, idx)
	if err != nil {
		t.Fatal(err)
	}
	if f.Width() != 3 {
		t.Errorf("indexed width = %d, want 3", f.Width())
	}
	row, err := f.Row(0)
	if err != nil {
		t.Fatal(err)
	}
	if got := strs(row); !reflect.DeepEqual(got, []string{"a"}) {
		t.Errorf("row 0: got %q", got)
	}
}

func TestIndexRoundTrip(t *testing.T) {
	idx, err := BuildIndex(strings.NewReader(sample), Options{HasHeader: true})
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	n, err := idx.WriteTo(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if n != int64(8*(idx.Len()+2)) {
		t.Errorf("wrote %d bytes", n)
	}
	got, err := ReadIndex(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, idx) {
		t.Errorf("got %v, want %v", got, idx)
	}
	if _, err := ReadIndex(bytes.NewReader([]byte{1, 2, 3})); err == nil {
		t.Error("expected an error for a truncated index")
	}
}

func TestUnindexedSeek(t *testing.T) {
	f, err := NewFile(strings.NewReader(sample), Options{HasHeader: true}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if f.Indexed() || f.Len() != -1 {
		t.Error("file should not be indexed")
	}
	if err := f.Seek(1); !errors.Is(err, ErrNotIndexed) {
		t.Errorf("got %v", err)
	}
	rows, err := readAll(f)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 4 {
		t.Errorf("got %d rows", len(rows))
	}
}

func TestOpenIndexFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "t.csv")
	if err := os.WriteFile(path, []byte(sample), 0644); err != nil {
		t.Fatal(err)
	}
	opts := Options{HasHeader: true}

	f, err := Open(path, opts)
	if err != nil {
		t.Fatal(err)
	}
	if f.Indexed() {
		t.Error("no index file yet")
	}
	f.Close()

	if _, err := WriteIndexFile(path, opts); err != nil {
		t.Fatal(err)
	}
	f, err = Open(path, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !f.Indexed() || f.Len() != 4 {
		t.Errorf("indexed=%v len=%d", f.Indexed(), f.Len())
	}
	f.Close()

	// a table modified after indexing makes the index stale
	future := time.Now().Add(time.Hour)
	if err := os.Chtimes(path, future, future); err != nil {
		t.Fatal(err)
	}
	f, err = Open(path, opts)
	if err != nil {
		t.Fatal(err)
	}
	if f.Indexed() {
		t.Error("stale index should be ignored")
	}
	f.Close()
}

func TestWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, 0)
	rows := [][]string{{"a", "b,c"}, {"x\"y", ""}}
	for _, r := range rows {
		fields := make([][]byte, len(r))
		for i := range r {
			fields[i] = []byte(r[i])
		}
		if err := w.WriteRow(fields); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Flush(); err != nil {
		t.Fatal(err)
	}
	want := "a,\"b,c\"\n\"x\"\"y\",\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestParseSelection(t *testing.T) {
	header := [][]byte{[]byte("name"), []byte("qty"), []byte("first-seen")}
	testcases := []struct {
		list string
		want []int
	}{
		{"1", []int{0}},
		{"2,1", []int{1, 0}},
		{"1-3", []int{0, 1, 2}},
		{"3-1", []int{2, 1, 0}},
		{"qty,name", []int{1, 0}},
		{"first-seen", []int{2}},
		{" 2 , name ", []int{1, 0}},
		// out-of-width numbers are the caller's business
		{"9", []int{8}},
	}
	for _, tc := range testcases {
		got, err := ParseSelection(tc.list, header)
		if err != nil {
			t.Errorf("%q: %s", tc.list, err)
			continue
		}
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("%q: got %v, want %v", tc.list, got, tc.want)
		}
	}
	for _, list := range []string{"", "0", "missing", "0-2"} {
		if _, err := ParseSelection(list, header); !errors.Is(err, ErrColumnRange) {
			t.Errorf("%q: got %v", list, err)
		}
	}
}

func TestParseDelim(t *testing.T) {
	testcases := map[string]Delim{"": ',', ",": ',', "tab": '\t', ";": ';', "|": '|'}
	for in, want := range testcases {
		got, err := ParseDelim(in)
		if err != nil || got != want {
			t.Errorf("ParseDelim(%q) = %q, %v", in, got, err)
		}
	}
	for _, in := range []string{"ab", "\"", "\n"} {
		if _, err := ParseDelim(in); err == nil {
			t.Errorf("ParseDelim(%q) should fail", in)
		}
	}
}
