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

// Package heap implements a generic binary min-heap.
package heap

// Heap is a min-heap of T ordered by Less.
// The zero value is not usable; use New.
type Heap[T any] struct {
	items []T
	less  func(x, y T) bool
}

// New returns a heap holding items, which
// it takes ownership of, ordered by less.
func New[T any](items []T, less func(x, y T) bool) *Heap[T] {
	h := &Heap[T]{items: items, less: less}
	for i := len(h.items)/2 - 1; i >= 0; i-- {
		h.down(i)
	}
	return h
}

// Len returns the number of items in h.
func (h *Heap[T]) Len() int { return len(h.items) }

// Min returns the smallest item without removing it.
// It panics if h is empty.
func (h *Heap[T]) Min() T { return h.items[0] }

// Push adds item to h.
func (h *Heap[T]) Push(item T) {
	h.items = append(h.items, item)
	h.up(len(h.items) - 1)
}

// Pop removes and returns the smallest item.
// It panics if h is empty.
func (h *Heap[T]) Pop() T {
	ret := h.items[0]
	last := len(h.items) - 1
	h.items[0] = h.items[last]
	var zero T
	h.items[last] = zero
	h.items = h.items[:last]
	if last > 0 {
		h.down(0)
	}
	return ret
}

// ReplaceMin overwrites the smallest item with item
// and restores the heap order. It is cheaper than
// a Pop followed by a Push.
func (h *Heap[T]) ReplaceMin(item T) {
	h.items[0] = item
	h.down(0)
}

func (h *Heap[T]) up(i int) {
	for i > 0 {
		p := (i - 1) / 2
		if !h.less(h.items[i], h.items[p]) {
			break
		}
		h.items[p], h.items[i] = h.items[i], h.items[p]
		i = p
	}
}

func (h *Heap[T]) down(i int) {
	x := h.items
	for {
		c := 2*i + 1
		if c >= len(x) {
			return
		}
		if r := c + 1; r < len(x) && h.less(x[r], x[c]) {
			c = r
		}
		if !h.less(x[c], x[i]) {
			return
		}
		x[c], x[i] = x[i], x[c]
		i = c
	}
}
