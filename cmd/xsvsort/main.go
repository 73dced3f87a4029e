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

// Command xsvsort sorts, pages and searches
// CSV and TSV tables.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strconv"

	"github.com/SnellerInc/xsvsort"
	"github.com/SnellerInc/xsvsort/sorting"
	"github.com/SnellerInc/xsvsort/xsv"
)

var (
	dashv           bool
	dashh           bool
	dashd           string
	dashnoheaders   bool
	dashj           int
	dashprofile     string
	dasho           string
	dashs           string
	dashN           bool
	dashnatural     bool
	dashtruncate    bool
	dashspreadsheet bool
	dashi           bool
	dashR           bool
	dashu           bool
	dashfaster      bool
	dashrandom      bool
	dashrng         string
	dashseed        string
	dashtmp         string
	dashmem         string
	dashcompress    string
	dashoffset      int
	dashlimit       int
)

func init() {
	flag.BoolVar(&dashv, "v", false, "verbose")
	flag.BoolVar(&dashh, "h", false, "show usage help")
	flag.StringVar(&dashd, "d", ",", "field delimiter (a single character or \"tab\")")
	flag.BoolVar(&dashnoheaders, "no-headers", false, "the first row is data, not column names")
	flag.IntVar(&dashj, "j", 0, "number of worker threads (0 uses every CPU)")
	flag.StringVar(&dashprofile, "profile", "", "YAML or JSON profile with default settings")
	flag.StringVar(&dasho, "o", "-", "output file (or - for stdout)")
	flag.StringVar(&dashs, "s", "", "columns to sort or match by (1-based numbers, ranges a-b or names)")
	flag.BoolVar(&dashN, "N", false, "compare numerically")
	flag.BoolVar(&dashnatural, "natural", false, "compare in natural order (file2 < file10)")
	flag.BoolVar(&dashtruncate, "natural-truncate", false, "natural order treating overflowing digit runs as zero")
	flag.BoolVar(&dashspreadsheet, "spreadsheet", false, "numbers before text, text case-insensitively")
	flag.BoolVar(&dashi, "i", false, "ignore case")
	flag.BoolVar(&dashR, "R", false, "reverse the order")
	flag.BoolVar(&dashu, "u", false, "keep only the first row of rows with equal keys")
	flag.BoolVar(&dashfaster, "faster", false, "use an unstable sort")
	flag.BoolVar(&dashrandom, "random", false, "shuffle instead of sorting")
	flag.StringVar(&dashrng, "rng", "", "random source: standard, faster or cryptosecure")
	flag.StringVar(&dashseed, "seed", "", "random seed (default: from the operating system)")
	flag.StringVar(&dashtmp, "tmp", "", "directory for external sort scratch files")
	flag.StringVar(&dashmem, "mem", "", "external sort memory budget, e.g. 512M")
	flag.StringVar(&dashcompress, "compress", "", "scratch file compression: none, s2 or zstd")
	flag.IntVar(&dashoffset, "offset", 0, "first row of the page")
	flag.IntVar(&dashlimit, "limit", 10, "rows per page")
}

func exitf(f string, args ...interface{}) {
	if f[len(f)-1] != '\n' {
		f += "\n"
	}
	fmt.Fprintf(os.Stderr, f, args...)
	os.Exit(1)
}

func logf(f string, args ...interface{}) {
	if f[len(f)-1] != '\n' {
		f += "\n"
	}
	fmt.Fprintf(os.Stderr, f, args...)
}

type applet struct {
	name string
	help string
	desc string
	// run returns false when args are not valid
	run func(args []string) bool
}

var applets = map[string]applet{}

func addApplet(a applet) {
	if _, ok := applets[a.name]; ok {
		panic("duplicate applet " + a.name)
	}
	applets[a.name] = a
}

// config builds the settings from the profile, the
// environment and the flags, in increasing priority.
func config() *xsvsort.Config {
	c := new(xsvsort.Config)
	if dashprofile != "" {
		var err error
		c, err = xsvsort.LoadConfig(dashprofile)
		if err != nil {
			exitf("%s", err)
		}
	}
	if err := c.ApplyEnv(os.Getenv); err != nil {
		exitf("%s", err)
	}
	var err error
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "j":
			c.MaxJobs = dashj
		case "tmp":
			c.TmpDir = dashtmp
		case "mem":
			c.Memory, err = xsvsort.ParseSize(dashmem)
		case "compress":
			c.Compression = dashcompress
		case "d":
			c.Delimiter = dashd
		case "no-headers":
			c.NoHeaders = dashnoheaders
		case "rng":
			c.RandomSource = dashrng
		}
	})
	if err != nil {
		exitf("-mem: %s", err)
	}
	if err := c.Validate(); err != nil {
		exitf("%s", err)
	}
	return c
}

func logger() *log.Logger {
	if !dashv {
		return nil
	}
	return log.New(os.Stderr, "", log.Lshortfile)
}

func runtimeParameters(c *xsvsort.Config) *sorting.RuntimeParameters {
	return sorting.NewRuntimeParameters(c.Jobs(),
		sorting.WithSplitThreshold(c.SplitThreshold),
		sorting.WithLogger(logger()))
}

func tableOptions(c *xsvsort.Config) xsv.Options {
	opts, err := c.TableOptions()
	if err != nil {
		exitf("%s", err)
	}
	return opts
}

// input opens path for reading; "-" is stdin.
func input(path string) io.ReadCloser {
	if path == "-" {
		return io.NopCloser(bufio.NewReader(os.Stdin))
	}
	f, err := os.Open(path)
	if err != nil {
		exitf("%s", err)
	}
	return f
}

// output opens the -o file. The returned function
// closes it, exiting on error.
func output() (io.Writer, func()) {
	if dasho == "-" {
		return os.Stdout, func() {}
	}
	f, err := os.Create(dasho)
	if err != nil {
		exitf("creating output: %s", err)
	}
	return f, func() {
		if err := f.Close(); err != nil {
			exitf("closing output: %s", err)
		}
	}
}

// selection parses -s; an empty -s selects nothing.
func selection(header [][]byte) []int {
	if dashs == "" {
		return nil
	}
	cols, err := xsv.ParseSelection(dashs, header)
	if err != nil {
		exitf("-s: %s", err)
	}
	return cols
}

// positionRows writes the header and then the rows
// at positions of f, in that order.
func positionRows(f *xsv.File, sep xsv.Delim, positions []int) {
	out, done := output()
	defer done()
	w := xsv.NewWriter(out, sep)
	if h := f.Header(); h != nil {
		if err := w.WriteRow(h); err != nil {
			exitf("writing output: %s", err)
		}
	}
	for _, pos := range positions {
		row, err := f.Row(pos)
		if err != nil {
			exitf("reading row %d: %s", pos, err)
		}
		if err := w.WriteRow(row); err != nil {
			exitf("writing output: %s", err)
		}
	}
	if err := w.Flush(); err != nil {
		exitf("writing output: %s", err)
	}
}

func openIndexed(path string, opts xsv.Options) *xsv.File {
	f, err := xsv.Open(path, opts)
	if err != nil {
		exitf("%s", err)
	}
	if !f.Indexed() {
		exitf("%s has no up-to-date index; run %q first", path, "xsvsort index "+path)
	}
	return f
}

func usage() {
	fmt.Fprintf(os.Stderr, "usage:\n")
	names := make([]string, 0, len(applets))
	for name := range applets {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		a := applets[name]
		fmt.Fprintf(os.Stderr, "    %s [flags] %s %s\n", os.Args[0], a.name, a.help)
		if a.desc != "" {
			fmt.Fprintf(os.Stderr, "        %s\n", a.desc)
		}
	}
	fmt.Fprintf(os.Stderr, "flag usage:\n")
	flag.PrintDefaults()
}

func main() {
	flag.Parse()
	args := flag.Args()
	if len(args) == 0 || dashh {
		usage()
		os.Exit(1)
	}
	a, ok := applets[args[0]]
	if !ok {
		exitf("unknown command %q (try %s -h)", args[0], os.Args[0])
	}
	if !a.run(args) {
		exitf("usage: %s [flags] %s %s", os.Args[0], a.name, a.help)
	}
}

// human formats a byte count with binary units.
func human(size int64) string {
	const units = "KMGTPE"
	dec := int64(0)
	trail := -1
	for size >= 1024 {
		trail++
		dec = ((size%1024)*1000 + 512) / 1024
		size /= 1024
	}
	if trail < 0 {
		return strconv.FormatInt(size, 10)
	}
	return fmt.Sprintf("%d.%03d %ciB", size, dec, units[trail])
}
