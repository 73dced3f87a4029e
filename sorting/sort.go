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
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/SnellerInc/xsvsort/shuffle"
	"github.com/SnellerInc/xsvsort/xsv"
)

// ReadRecords reads every row of src,
// numbering the rows from zero.
func ReadRecords(src xsv.Source) ([]Record, error) {
	var records []Record
	for {
		row, err := src.Next()
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return nil, fmt.Errorf("sorting: reading row %d: %w", len(records), err)
		}
		records = append(records, Record{Pos: len(records), Fields: row})
	}
}

// Sort orders records by the columns in sel according
// to mode and returns them. The result reuses the memory
// of records, which must not be used afterwards. A nil
// sel compares whole rows.
//
// With mode.Unique only the first row of every group
// of rows with equal keys is returned; which row is
// "first" among equal ones is only defined when
// mode.Faster is not set.
func Sort(records []Record, sel Selection, mode Mode, rp *RuntimeParameters) ([]Record, error) {
	if mode.Random != nil {
		if mode.Unique {
			return nil, ErrUniqueRandom
		}
		sh, err := shuffle.New(mode.Random.Source, mode.Random.Seed)
		if err != nil {
			return nil, err
		}
		sh.Shuffle(len(records), func(i, j int) {
			records[i], records[j] = records[j], records[i]
		})
		return records, nil
	}

	data := &sortData{
		items: make([]sortItem, len(records)),
		cmp:   mode.comparator(),
	}
	for i := range records {
		key := sel.AppendKey(nil, records[i].Fields)
		data.items[i] = sortItem{key: mode.Order.prepare(key), rec: records[i]}
	}

	w := &collector{data: data, unique: mode.Unique}
	if err := run(data, mode.Faster, nil, w, rp); err != nil {
		return nil, err
	}
	out := records[:0]
	for i := range w.out {
		out = append(out, w.out[i].rec)
	}
	return out, nil
}

// run sorts data and passes the part of the result
// selected by limit to w.
func run(data *sortData, faster bool, limit *Limit, w SortedDataWriter, rp *RuntimeParameters) error {
	n := len(data.items)
	data.limit = indicesRange{0, n - 1}
	if limit != nil {
		data.limit = limit.FinalRange(n)
	}
	if n == 0 {
		return nil
	}

	start := time.Now()
	defer func() {
		rp.logf("sorting: %d rows, faster=%v, %d threads, %s", n, faster, rp.Threads, time.Since(start))
	}()

	if !faster {
		stableSort(data, rp)
		return writeRange(w, data.limit, n)
	}
	if rp.sequential(n) {
		qsSortSubrange(data, 0, n-1)
		return writeRange(w, data.limit, n)
	}

	pool := NewThreadPool(rp.Threads)
	consumer := NewAsyncConsumer(w, 0, n-1, limit)
	consumer.Start(pool)
	quickSort(data, pool, consumer, rp.QuicksortSplitThreshold)
	return pool.Wait()
}

func writeRange(w SortedDataWriter, r indicesRange, n int) error {
	if r.start < 0 {
		r.start = 0
	}
	if r.end >= n {
		r.end = n - 1
	}
	if r.start > r.end {
		return nil
	}
	return w.Write(r.start, r.end)
}

// collector implements SortedDataWriter.
//
// It gathers the sorted items, dropping items equal
// to the previously kept one when unique is set.
type collector struct {
	data   *sortData
	unique bool
	out    []sortItem
}

func (c *collector) Write(start, end int) error {
	for i := start; i <= end; i++ {
		item := &c.data.items[i]
		if c.unique && len(c.out) > 0 && c.data.cmp(c.out[len(c.out)-1].key, item.key) == 0 {
			continue
		}
		c.out = append(c.out, *item)
	}
	return nil
}
