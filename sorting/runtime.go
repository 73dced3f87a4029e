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
	"log"
	"runtime"
)

// RuntimeParameters bound the resources used by
// one sorting call. They replace any process-wide
// settings: every call uses only the threads given
// here, so callers sorting concurrently can give
// each sort its own budget.
type RuntimeParameters struct {
	// Threads is the number of worker goroutines.
	Threads int
	// QuicksortSplitThreshold is the size of a range
	// below which it is sorted on a single thread.
	QuicksortSplitThreshold int
	// UseStdlib disables the parallel algorithms.
	UseStdlib bool
	// Logger, if non-nil, receives diagnostics.
	Logger *log.Logger
}

// Option configures RuntimeParameters.
type Option func(*RuntimeParameters)

// WithSplitThreshold sets QuicksortSplitThreshold.
func WithSplitThreshold(n int) Option {
	return func(rp *RuntimeParameters) {
		rp.QuicksortSplitThreshold = n
	}
}

// WithStdlib sets UseStdlib.
func WithStdlib(b bool) Option {
	return func(rp *RuntimeParameters) {
		rp.UseStdlib = b
	}
}

// WithLogger sets Logger.
func WithLogger(l *log.Logger) Option {
	return func(rp *RuntimeParameters) {
		rp.Logger = l
	}
}

const defaultSplitThreshold = 2048

// NewRuntimeParameters returns parameters for
// the given number of threads. A non-positive
// count means runtime.GOMAXPROCS(0).
func NewRuntimeParameters(threads int, opts ...Option) *RuntimeParameters {
	if threads <= 0 {
		threads = runtime.GOMAXPROCS(0)
	}
	rp := &RuntimeParameters{
		Threads:                 threads,
		QuicksortSplitThreshold: defaultSplitThreshold,
	}
	for _, opt := range opts {
		opt(rp)
	}
	switch {
	case rp.QuicksortSplitThreshold <= 0:
		rp.QuicksortSplitThreshold = defaultSplitThreshold
	case rp.QuicksortSplitThreshold < 2:
		rp.QuicksortSplitThreshold = 2
	}
	return rp
}

func (rp *RuntimeParameters) logf(f string, args ...interface{}) {
	if rp.Logger != nil {
		rp.Logger.Printf(f, args...)
	}
}

func (rp *RuntimeParameters) sequential(n int) bool {
	return rp.UseStdlib || rp.Threads <= 1 || n < rp.QuicksortSplitThreshold
}
