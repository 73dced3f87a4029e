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

// Package xsvsort holds the configuration
// shared by the xsvsort commands.
package xsvsort

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	"sigs.k8s.io/yaml"

	"github.com/SnellerInc/xsvsort/compr"
	"github.com/SnellerInc/xsvsort/extsort"
	"github.com/SnellerInc/xsvsort/shuffle"
	"github.com/SnellerInc/xsvsort/xsv"
)

// Environment variables overriding the profile.
const (
	EnvJobs   = "XSVSORT_JOBS"
	EnvTmpDir = "XSVSORT_TMPDIR"
	EnvMemory = "XSVSORT_MEMORY"
)

// ErrBadSize is returned for a malformed byte size.
var ErrBadSize = errors.New("xsvsort: invalid size")

// Size is a number of bytes. In a profile it is
// either a number or a string with an optional
// K, M, G or T suffix (powers of 1024).
type Size int64

// ParseSize parses a byte size such as "512M".
func ParseSize(s string) (Size, error) {
	t := strings.TrimSpace(s)
	t = strings.TrimSuffix(strings.TrimSuffix(t, "B"), "i")
	mult := int64(1)
	if t != "" {
		switch t[len(t)-1] {
		case 'k', 'K':
			mult = 1 << 10
		case 'm', 'M':
			mult = 1 << 20
		case 'g', 'G':
			mult = 1 << 30
		case 't', 'T':
			mult = 1 << 40
		}
		if mult != 1 {
			t = t[:len(t)-1]
		}
	}
	n, err := strconv.ParseInt(t, 10, 64)
	if err != nil || n < 0 || n > (1<<62)/mult {
		return 0, fmt.Errorf("%w: %q", ErrBadSize, s)
	}
	return Size(n * mult), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Size) UnmarshalJSON(b []byte) error {
	if bytes.HasPrefix(b, []byte{'"'}) {
		str, err := strconv.Unquote(string(b))
		if err != nil {
			return err
		}
		v, err := ParseSize(str)
		if err != nil {
			return err
		}
		*s = v
		return nil
	}
	n, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil || n < 0 {
		return fmt.Errorf("%w: %s", ErrBadSize, b)
	}
	*s = Size(n)
	return nil
}

// Config is a sort profile.
type Config struct {
	// MaxJobs is the number of worker goroutines;
	// zero means GOMAXPROCS.
	MaxJobs int `json:"jobs,omitempty"`
	// TmpDir holds external sort scratch files.
	TmpDir string `json:"tmpdir,omitempty"`
	// Memory bounds the memory used by the external
	// sort; zero means a quarter of physical memory.
	Memory Size `json:"memory,omitempty"`
	// Compression of scratch files, one of compr.Names.
	Compression string `json:"compression,omitempty"`
	// Delimiter is the field separator ("," or "tab" or
	// any single character).
	Delimiter string `json:"delimiter,omitempty"`
	// NoHeaders is set when tables have no header row.
	NoHeaders bool `json:"no_headers,omitempty"`
	// SplitThreshold is the size of the smallest
	// range the parallel quicksort splits further.
	SplitThreshold int `json:"split_threshold,omitempty"`
	// RandomSource is the default shuffle source.
	RandomSource string `json:"random_source,omitempty"`
}

// LoadConfig reads a YAML or JSON profile.
// Unknown fields are rejected.
func LoadConfig(path string) (*Config, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := new(Config)
	if err := yaml.UnmarshalStrict(buf, c); err != nil {
		return nil, fmt.Errorf("xsvsort: loading %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("xsvsort: loading %s: %w", path, err)
	}
	return c, nil
}

// ApplyEnv overrides c with the environment
// variables returned by getenv.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv(EnvJobs); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return fmt.Errorf("xsvsort: %s=%q: not a job count", EnvJobs, v)
		}
		c.MaxJobs = n
	}
	if v := getenv(EnvTmpDir); v != "" {
		c.TmpDir = v
	}
	if v := getenv(EnvMemory); v != "" {
		n, err := ParseSize(v)
		if err != nil {
			return fmt.Errorf("xsvsort: %s: %w", EnvMemory, err)
		}
		c.Memory = n
	}
	return nil
}

// Validate checks the enumerated settings.
func (c *Config) Validate() error {
	if c.MaxJobs < 0 {
		return fmt.Errorf("xsvsort: negative job count %d", c.MaxJobs)
	}
	if !compr.Valid(c.Compression) {
		return fmt.Errorf("%w %q", compr.ErrUnknown, c.Compression)
	}
	if _, err := xsv.ParseDelim(c.Delimiter); err != nil {
		return err
	}
	_, err := shuffle.ParseKind(c.RandomSource)
	return err
}

// Jobs returns the number of worker goroutines.
func (c *Config) Jobs() int {
	if c.MaxJobs > 0 {
		return c.MaxJobs
	}
	return runtime.GOMAXPROCS(0)
}

// MemoryLimit returns the memory budget of the
// external sort in bytes.
func (c *Config) MemoryLimit() int64 {
	if c.Memory > 0 {
		return int64(c.Memory)
	}
	if total := physicalMemory(); total > 0 {
		return total / 4
	}
	return extsort.DefaultMemoryLimit
}

// ExtsortOptions returns the external sort options
// described by c.
func (c *Config) ExtsortOptions() extsort.Options {
	return extsort.Options{
		TmpDir:      c.TmpDir,
		MemoryLimit: c.MemoryLimit(),
		Jobs:        c.Jobs(),
		HasHeader:   !c.NoHeaders,
		Compression: c.Compression,
	}
}

// TableOptions returns the table layout described by c.
func (c *Config) TableOptions() (xsv.Options, error) {
	d, err := xsv.ParseDelim(c.Delimiter)
	if err != nil {
		return xsv.Options{}, err
	}
	return xsv.Options{Separator: d, HasHeader: !c.NoHeaders}, nil
}
