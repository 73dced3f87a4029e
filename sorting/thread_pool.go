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
	"sync"
)

// SortingFunction orders the inclusive range [start, end]
// of the data described by args. It either finishes the
// range and reports it to a SortedDataConsumer, or splits
// it and enqueues the parts on the pool.
type SortingFunction func(start, end int, args interface{}, pool ThreadPool)

// ThreadPool runs sorting tasks on a fixed set of goroutines.
//
// The pool cannot tell when a sort is complete; whoever
// tracks completion (a SortedDataConsumer) closes it.
type ThreadPool interface {
	Enqueue(start, end int, fun SortingFunction, args interface{})
	Close(error)
	Wait() error
}

type threadPool struct {
	wg       sync.WaitGroup
	requests chan sortRequest
	errMutex sync.Mutex
	err      error
}

type sortRequest struct {
	start, end int
	function   SortingFunction
	args       interface{}
}

// NewThreadPool starts a pool of the given number
// of goroutines. The pool lives until Close.
func NewThreadPool(threads int) ThreadPool {
	if threads < 1 {
		threads = 1
	}
	pool := &threadPool{requests: make(chan sortRequest)}
	pool.wg.Add(threads)
	for i := 0; i < threads; i++ {
		go pool.worker()
	}
	return pool
}

func (t *threadPool) worker() {
	defer t.wg.Done()
	for request := range t.requests {
		request.function(request.start, request.end, request.args, t)
	}
}

// Enqueue never blocks: the request is handed
// over to the workers from a new goroutine, so
// workers may enqueue follow-up tasks freely.
func (t *threadPool) Enqueue(start, end int, fun SortingFunction, args interface{}) {
	go func() {
		t.requests <- sortRequest{start, end, fun, args}
	}()
}

func (t *threadPool) Close(err error) {
	t.errMutex.Lock()
	defer t.errMutex.Unlock()
	t.err = err
	close(t.requests)
}

func (t *threadPool) Wait() error {
	t.wg.Wait()
	t.errMutex.Lock()
	defer t.errMutex.Unlock()
	return t.err
}
