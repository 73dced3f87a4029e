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

package xsvsort

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"testing"

	"github.com/SnellerInc/xsvsort/compr"
	"github.com/SnellerInc/xsvsort/shuffle"
	"github.com/SnellerInc/xsvsort/xsv"
)

func TestParseSize(t *testing.T) {
	testcases := []struct {
		in   string
		want Size
	}{
		{"0", 0},
		{"1024", 1024},
		{"4K", 4 << 10},
		{"512M", 512 << 20},
		{"512MiB", 512 << 20},
		{"2g", 2 << 30},
		{" 1T ", 1 << 40},
		{"100B", 100},
	}
	for _, tc := range testcases {
		got, err := ParseSize(tc.in)
		if err != nil {
			t.Errorf("%q: %s", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("%q: got %d, want %d", tc.in, got, tc.want)
		}
	}
	for _, bad := range []string{"", "M", "-1", "1.5G", "12X", "99999999999T"} {
		if _, err := ParseSize(bad); !errors.Is(err, ErrBadSize) {
			t.Errorf("%q: got %v", bad, err)
		}
	}
}

func writeFile(t *testing.T, name, text string) string {
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	want := &Config{
		MaxJobs:        3,
		TmpDir:         "/var/tmp",
		Memory:         64 << 20,
		Compression:    "zstd",
		Delimiter:      "tab",
		NoHeaders:      true,
		SplitThreshold: 512,
		RandomSource:   "cryptosecure",
	}
	yml := `
jobs: 3
tmpdir: /var/tmp
memory: 64M
compression: zstd
delimiter: tab
no_headers: true
split_threshold: 512
random_source: cryptosecure
`
	js := `{"jobs": 3, "tmpdir": "/var/tmp", "memory": 67108864,
"compression": "zstd", "delimiter": "tab", "no_headers": true,
"split_threshold": 512, "random_source": "cryptosecure"}`
	for name, text := range map[string]string{"p.yaml": yml, "p.json": js} {
		got, err := LoadConfig(writeFile(t, name, text))
		if err != nil {
			t.Fatalf("%s: %s", name, err)
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("%s: got %+v, want %+v", name, got, want)
		}
	}

	opts, err := want.TableOptions()
	if err != nil {
		t.Fatal(err)
	}
	if opts != (xsv.Options{Separator: '\t'}) {
		t.Errorf("TableOptions: got %+v", opts)
	}
	eo := want.ExtsortOptions()
	if eo.Jobs != 3 || eo.MemoryLimit != 64<<20 || eo.HasHeader || eo.TmpDir != "/var/tmp" || eo.Compression != "zstd" {
		t.Errorf("ExtsortOptions: got %+v", eo)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	testcases := []struct {
		text string
		want error
	}{
		{"compression: lzma\n", compr.ErrUnknown},
		{"random_source: dice\n", shuffle.ErrUnknownKind},
		// the yaml decoder flattens these errors to text
		{"memory: lots\n", nil},
		{"memory: -5\n", nil},
		{"jobs: -1\n", nil},
		{"delimiter: '\"'\n", nil},
		{"colour: blue\n", nil},
	}
	for _, tc := range testcases {
		_, err := LoadConfig(writeFile(t, "p.yaml", tc.text))
		if err == nil {
			t.Errorf("%q: no error", tc.text)
			continue
		}
		if tc.want != nil && !errors.Is(err, tc.want) {
			t.Errorf("%q: got %v, want %v", tc.text, err, tc.want)
		}
	}
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file: got %v", err)
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvJobs:   "7",
		EnvTmpDir: "/scratch",
		EnvMemory: "1G",
	}
	c := &Config{MaxJobs: 2, TmpDir: "/tmp", Compression: "s2"}
	if err := c.ApplyEnv(func(k string) string { return env[k] }); err != nil {
		t.Fatal(err)
	}
	want := &Config{MaxJobs: 7, TmpDir: "/scratch", Memory: 1 << 30, Compression: "s2"}
	if !reflect.DeepEqual(c, want) {
		t.Errorf("got %+v, want %+v", c, want)
	}

	// unset variables leave the profile alone
	if err := c.ApplyEnv(func(string) string { return "" }); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(c, want) {
		t.Errorf("got %+v after empty environment", c)
	}

	for k, v := range map[string]string{EnvJobs: "many", EnvMemory: "big"} {
		c := new(Config)
		err := c.ApplyEnv(func(name string) string {
			if name == k {
				return v
			}
			return ""
		})
		if err == nil {
			t.Errorf("%s=%s: no error", k, v)
		}
	}
}

func TestDefaults(t *testing.T) {
	var c Config
	if err := c.Validate(); err != nil {
		t.Fatal(err)
	}
	if got := c.Jobs(); got != runtime.GOMAXPROCS(0) {
		t.Errorf("Jobs: got %d", got)
	}
	if got := c.MemoryLimit(); got <= 0 {
		t.Errorf("MemoryLimit: got %d", got)
	}
	if runtime.GOOS == "linux" && physicalMemory() <= 0 {
		t.Error("physical memory unknown on linux")
	}
	opts, err := c.TableOptions()
	if err != nil {
		t.Fatal(err)
	}
	if opts != (xsv.Options{Separator: ',', HasHeader: true}) {
		t.Errorf("TableOptions: got %+v", opts)
	}
}
