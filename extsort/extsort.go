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

// Package extsort orders the rows of an indexed
// table whose sort keys do not fit in memory.
//
// The keys are written to a scratch file, sorted
// in memory-bounded runs which are spilled to disk
// and merged, and finally read back in order to
// obtain the permutation of row positions.
package extsort

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"
	"strconv"
	"sync"
	"time"

	"golang.org/x/exp/slices"
	"golang.org/x/sync/errgroup"

	"github.com/SnellerInc/xsvsort/ints"
	"github.com/SnellerInc/xsvsort/sorting"
	"github.com/SnellerInc/xsvsort/sortkey"
	"github.com/SnellerInc/xsvsort/xsv"
)

var (
	// ErrNoTmpDir is returned when the directory
	// for scratch files does not exist.
	ErrNoTmpDir = errors.New("extsort: temporary directory does not exist")
	// ErrNoIndex is returned for a table without a row index.
	ErrNoIndex = errors.New("extsort: table has no row index")
	// ErrNoColumns is returned when none of the
	// requested columns exists in the table.
	ErrNoColumns = errors.New("extsort: no sort column in range")
)

// DefaultMemoryLimit is used when Options.MemoryLimit is zero.
const DefaultMemoryLimit = 256 << 20

const (
	// mergeWays is the maximum number of runs
	// merged into one at a time.
	mergeWays = 16
	// lineOverhead approximates the memory used by
	// a buffered line besides its bytes.
	lineOverhead = 24
	// checkEvery is how often (in lines) long
	// loops look for cancellation.
	checkEvery = 4096
)

// Options configures RowPositions.
type Options struct {
	// Reverse orders the keys descending. Rows with
	// equal keys stay in ascending position order.
	Reverse bool
	// TmpDir holds the scratch files; empty means os.TempDir.
	TmpDir string
	// MemoryLimit bounds, in bytes, the keys held in
	// memory at once; zero means DefaultMemoryLimit.
	MemoryLimit int64
	// Jobs is the number of runs sorted or merged
	// concurrently; zero means GOMAXPROCS.
	Jobs int
	// HasHeader is set when the first line of the
	// table is a header. It changes the line numbers
	// recorded in the scratch files.
	HasHeader bool
	// Compression names the compr algorithm used for
	// the scratch files; empty stores them as is.
	Compression string
	// Logger, if set, receives progress messages.
	Logger *log.Logger
}

func (o *Options) logf(f string, args ...interface{}) {
	if o.Logger != nil {
		o.Logger.Printf(f, args...)
	}
}

// RowPositions returns the positions of the data rows
// of src ordered by the composite sort key of the
// columns cols (see sortkey.AppendComposite). Columns
// outside of the table are ignored.
//
// Scratch files are created in opts.TmpDir and are
// removed before RowPositions returns.
func RowPositions(ctx context.Context, src xsv.IndexedSource, cols []int, opts Options) ([]int, error) {
	dir, err := checkDir(opts.TmpDir)
	if err != nil {
		return nil, err
	}
	if !src.Indexed() {
		return nil, ErrNoIndex
	}
	sel := sorting.Selection(cols).Clamp(src.Width())
	if len(sel) == 0 {
		return nil, ErrNoColumns
	}
	n := src.Len()
	if n == 0 {
		return []int{}, nil
	}

	scratch, err := NewScratch(dir)
	if err != nil {
		return nil, err
	}
	defer scratch.Close()

	s := &sorter{
		opts:    opts,
		sel:     sel,
		scratch: scratch,
		rows:    n,
		offset:  1,
		jobs:    opts.Jobs,
		limit:   opts.MemoryLimit,
	}
	if opts.HasHeader {
		s.offset = 2
	}
	s.width = ints.Digits(n + s.offset)
	if s.jobs <= 0 {
		s.jobs = runtime.GOMAXPROCS(0)
	}
	if s.limit <= 0 {
		s.limit = DefaultMemoryLimit
	}

	start := time.Now()
	presort, err := s.presort(ctx, src)
	if err != nil {
		return nil, err
	}
	runs, err := s.runs(ctx, presort)
	if err != nil {
		return nil, err
	}
	scratch.Remove(presort)
	opts.logf("extsort: %d rows in %d runs (%s)", n, len(runs), time.Since(start))

	sorted, err := s.merge(ctx, runs)
	if err != nil {
		return nil, err
	}
	positions, err := s.positions(sorted)
	if err != nil {
		return nil, err
	}
	opts.logf("extsort: sorted %d rows in %s", n, time.Since(start))
	return positions, nil
}

type sorter struct {
	opts    Options
	sel     sorting.Selection
	scratch *Scratch
	rows    int
	offset  int // added to a position to get its line number
	width   int // digits of a recorded line number
	jobs    int
	limit   int64
}

// less orders lines by key, then by line number.
func (s *sorter) less(a, b []byte) bool {
	ka, pa := a[:len(a)-s.width-1], a[len(a)-s.width:]
	kb, pb := b[:len(b)-s.width-1], b[len(b)-s.width:]
	c := bytes.Compare(ka, kb)
	if s.opts.Reverse {
		c = -c
	}
	if c != 0 {
		return c < 0
	}
	return bytes.Compare(pa, pb) < 0
}

func appendPadded(dst []byte, v, width int) []byte {
	var tmp [20]byte
	digits := strconv.AppendInt(tmp[:0], int64(v), 10)
	for i := len(digits); i < width; i++ {
		dst = append(dst, '0')
	}
	return append(dst, digits...)
}

// presort writes one line per row, the sort key
// followed by '|' and the padded line number.
func (s *sorter) presort(ctx context.Context, src xsv.IndexedSource) (*os.File, error) {
	if err := src.Seek(0); err != nil {
		return nil, fmt.Errorf("extsort: rewinding table: %w", err)
	}
	f, err := s.scratch.Create("presort")
	if err != nil {
		return nil, err
	}
	w, err := newFrameWriter(f, s.opts.Compression)
	if err != nil {
		return nil, err
	}
	var (
		key  [][]byte
		line []byte
	)
	for pos := 0; ; pos++ {
		if pos%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				w.close()
				return nil, err
			}
		}
		row, err := src.Next()
		if errors.Is(err, io.EOF) {
			if pos != s.rows {
				w.close()
				return nil, fmt.Errorf("extsort: table has %d rows, index has %d", pos, s.rows)
			}
			break
		}
		if err != nil {
			w.close()
			return nil, fmt.Errorf("extsort: reading row %d: %w", pos, err)
		}
		if pos >= s.rows {
			w.close()
			return nil, fmt.Errorf("extsort: table has more rows than its index (%d)", s.rows)
		}
		key = s.sel.AppendKey(key[:0], row)
		line = sortkey.AppendComposite(line[:0], key)
		line = append(line, '|')
		line = appendPadded(line, pos+s.offset, s.width)
		if err := w.write(line); err != nil {
			w.close()
			return nil, fmt.Errorf("extsort: writing presort file: %w", err)
		}
	}
	if err := w.close(); err != nil {
		return nil, fmt.Errorf("extsort: writing presort file: %w", err)
	}
	return f, nil
}

// runs splits the presort file into sorted runs
// of at most s.limit/(s.jobs+1) bytes each.
func (s *sorter) runs(ctx context.Context, presort *os.File) ([]*os.File, error) {
	r, err := newFrameReader(presort, s.opts.Compression)
	if err != nil {
		return nil, fmt.Errorf("extsort: reading presort file: %w", err)
	}
	defer r.close()

	budget := ints.Max(s.limit/int64(s.jobs+1), 1)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.jobs)

	var (
		mu    sync.Mutex
		runs  []*os.File
		chunk [][]byte
		size  int64
	)
	spill := func() {
		lines := chunk
		chunk, size = nil, 0
		g.Go(func() error {
			f, err := s.spill(lines)
			if err != nil {
				return err
			}
			mu.Lock()
			runs = append(runs, f)
			mu.Unlock()
			return nil
		})
	}
	for i := 0; ; i++ {
		if i%checkEvery == 0 && gctx.Err() != nil {
			break
		}
		line, err := r.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			g.Wait()
			return nil, fmt.Errorf("extsort: reading presort file: %w", err)
		}
		chunk = append(chunk, slices.Clone(line))
		size += int64(len(line)) + lineOverhead
		if size >= budget {
			spill()
		}
	}
	if len(chunk) > 0 {
		spill()
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return runs, nil
}

func (s *sorter) spill(lines [][]byte) (*os.File, error) {
	slices.SortFunc(lines, s.less)
	f, err := s.scratch.Create("run")
	if err != nil {
		return nil, err
	}
	w, err := newFrameWriter(f, s.opts.Compression)
	if err != nil {
		return nil, err
	}
	for _, line := range lines {
		if err := w.write(line); err != nil {
			w.close()
			return nil, fmt.Errorf("extsort: writing run: %w", err)
		}
	}
	if err := w.close(); err != nil {
		return nil, fmt.Errorf("extsort: writing run: %w", err)
	}
	return f, nil
}

// positions reads back the sorted file.
func (s *sorter) positions(sorted *os.File) ([]int, error) {
	r, err := newFrameReader(sorted, s.opts.Compression)
	if err != nil {
		return nil, fmt.Errorf("extsort: reading sorted file: %w", err)
	}
	defer r.close()

	positions := make([]int, 0, s.rows)
	for {
		line, err := r.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("extsort: reading sorted file: %w", err)
		}
		if len(line) <= s.width {
			return nil, errCorrupt
		}
		num, err := strconv.Atoi(string(line[len(line)-s.width:]))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errCorrupt, err)
		}
		positions = append(positions, num-s.offset)
	}
	if len(positions) != s.rows {
		return nil, fmt.Errorf("%w: %d of %d rows", errCorrupt, len(positions), s.rows)
	}
	return positions, nil
}
