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
	"github.com/SnellerInc/xsvsort/heap"
	"github.com/SnellerInc/xsvsort/ints"
)

// SortedDataConsumer learns which ranges of the
// data are in their final order.
type SortedDataConsumer interface {
	// Notify reports that [start, end] is sorted.
	Notify(start, end int)

	// Start begins consuming on behalf of the pool.
	// The consumer closes the pool once every index
	// has been reported.
	Start(pool ThreadPool)
}

// SortedDataWriter receives sorted subranges of the
// input in ascending order of their indices.
type SortedDataWriter interface {
	Write(start, end int) error
}

// indicesRange is a closed interval of indices (both start and end are inclusive).
//
// There's an assumption that a valid range holds start <= end.
type indicesRange struct {
	start, end int
}

// disjoint checks if ranges don't have any common indices.
func (r *indicesRange) disjoint(r2 indicesRange) bool {
	return r.end < r2.start || r.start > r2.end
}

// AsyncConsumer collects the ranges reported by
// sorting tasks and hands them to a SortedDataWriter
// as soon as they form a prefix of the remaining data.
type AsyncConsumer struct {
	writer    SortedDataWriter
	pool      ThreadPool
	limit     indicesRange             // subrange of all indices to be written out
	remaining indicesRange             // tail of all indices not written yet
	queue     *heap.Heap[indicesRange] // sorted subranges waiting for their predecessors

	ready chan indicesRange
}

// NewAsyncConsumer returns a consumer of the indices
// [start, end]. Only the part selected by limit is
// passed to writer; a nil limit selects everything.
func NewAsyncConsumer(writer SortedDataWriter, start, end int, limit *Limit) *AsyncConsumer {
	consumer := &AsyncConsumer{
		writer:    writer,
		limit:     indicesRange{start, end},
		remaining: indicesRange{start, end},
		queue:     heap.New[indicesRange](nil, startsBefore),
		ready:     make(chan indicesRange),
	}

	if limit != nil {
		l := limit.FinalRange(end - start + 1)
		consumer.limit = indicesRange{start: start + l.start, end: start + l.end}
	}

	return consumer
}

// Notify implements SortedDataConsumer.
//
// The ranges reported over the whole sort must be
// disjoint and cover all the indices exactly once.
func (a *AsyncConsumer) Notify(start, end int) {
	a.ready <- indicesRange{start, end}
}

// Start implements SortedDataConsumer.
//
// A write error does not stop the consumer: it keeps
// accepting ranges until the sort is finished, so no
// sorting task is left blocked, and reports the error
// when closing the pool.
func (a *AsyncConsumer) Start(pool ThreadPool) {
	a.pool = pool

	go func() {
		var err error
		for a.remaining.start <= a.remaining.end {
			r := <-a.ready
			a.queue.Push(r)
			if werr := a.flush(err == nil); werr != nil {
				err = werr
			}
		}
		a.pool.Close(err)
	}()
}

// flush pops the queued ranges that extend the written
// prefix, passing the part inside the limit to the writer
// when write is set.
func (a *AsyncConsumer) flush(write bool) error {
	for a.queue.Len() > 0 && a.queue.Min().start == a.remaining.start {
		r := a.queue.Pop()
		a.remaining.start = r.end + 1
		if !write || r.disjoint(a.limit) {
			continue
		}
		start := ints.Max(r.start, a.limit.start)
		end := ints.Min(r.end, a.limit.end)
		if err := a.writer.Write(start, end); err != nil {
			return err
		}
	}
	return nil
}

func startsBefore(x, y indicesRange) bool { return x.start < y.start }
