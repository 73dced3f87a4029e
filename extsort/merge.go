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

package extsort

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/SnellerInc/xsvsort/heap"
	"github.com/SnellerInc/xsvsort/ints"
)

// merge merges runs into a single sorted file.
// While there are more than mergeWays runs they are
// merged in groups, s.jobs groups at a time.
func (s *sorter) merge(ctx context.Context, runs []*os.File) (*os.File, error) {
	for len(runs) > mergeWays {
		next := make([]*os.File, (len(runs)+mergeWays-1)/mergeWays)
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(s.jobs)
		for i := range next {
			i := i
			group := runs[i*mergeWays : ints.Min((i+1)*mergeWays, len(runs))]
			g.Go(func() error {
				f, err := s.mergeRuns(gctx, group, "merge")
				next[i] = f
				return err
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		s.opts.logf("extsort: merged %d runs into %d", len(runs), len(next))
		runs = next
	}
	if len(runs) == 1 {
		return runs[0], nil
	}
	return s.mergeRuns(ctx, runs, "sorted")
}

// cursor is the head of one run during a merge.
type cursor struct {
	line []byte
	r    *frameReader
}

// mergeRuns performs a k-way merge of runs into a new
// file, removing the runs once they are consumed.
func (s *sorter) mergeRuns(ctx context.Context, runs []*os.File, kind string) (*os.File, error) {
	out, err := s.scratch.Create(kind)
	if err != nil {
		return nil, err
	}
	w, err := newFrameWriter(out, s.opts.Compression)
	if err != nil {
		return nil, err
	}

	cursors := make([]*cursor, 0, len(runs))
	defer func() {
		for _, c := range cursors {
			c.r.close()
		}
	}()
	for _, f := range runs {
		r, err := newFrameReader(f, s.opts.Compression)
		if err != nil {
			w.close()
			return nil, fmt.Errorf("extsort: reading run: %w", err)
		}
		c := &cursor{r: r}
		cursors = append(cursors, c)
		c.line, err = r.next()
		if errors.Is(err, io.EOF) {
			continue
		}
		if err != nil {
			w.close()
			return nil, fmt.Errorf("extsort: reading run: %w", err)
		}
	}

	live := make([]*cursor, 0, len(cursors))
	for _, c := range cursors {
		if c.line != nil {
			live = append(live, c)
		}
	}
	h := heap.New(live, func(x, y *cursor) bool {
		return s.less(x.line, y.line)
	})
	for i := 0; h.Len() > 0; i++ {
		if i%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				w.close()
				return nil, err
			}
		}
		c := h.Min()
		if err := w.write(c.line); err != nil {
			w.close()
			return nil, fmt.Errorf("extsort: writing %s file: %w", kind, err)
		}
		line, err := c.r.next()
		if errors.Is(err, io.EOF) {
			h.Pop()
			continue
		}
		if err != nil {
			w.close()
			return nil, fmt.Errorf("extsort: reading run: %w", err)
		}
		c.line = line
		h.ReplaceMin(c)
	}
	if err := w.close(); err != nil {
		return nil, fmt.Errorf("extsort: writing %s file: %w", kind, err)
	}
	for _, f := range runs {
		if err := s.scratch.Remove(f); err != nil {
			return nil, err
		}
	}
	return out, nil
}
