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

// Package compr provides a unified streaming interface
// wrapping third-party compression libraries.
package compr

import (
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/zstd"
)

// ErrUnknown is returned for an unsupported
// compression name.
var ErrUnknown = errors.New("compr: unknown compression")

// Names lists the accepted compression names.
// The empty string and "none" store data as is.
var Names = []string{"none", "s2", "zstd"}

// Valid reports whether name denotes
// a supported compression.
func Valid(name string) bool {
	switch name {
	case "", "none", "s2", "zstd":
		return true
	}
	return false
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

// NewWriter returns a writer compressing into w.
// Closing the writer flushes the compressed stream
// but does not close w.
func NewWriter(name string, w io.Writer) (io.WriteCloser, error) {
	switch name {
	case "", "none":
		return nopWriteCloser{w}, nil
	case "s2":
		return s2.NewWriter(w, s2.WriterConcurrency(1)), nil
	case "zstd":
		// spill files are written once and read once;
		// favor speed over ratio
		z, err := zstd.NewWriter(w,
			zstd.WithEncoderLevel(zstd.SpeedFastest),
			zstd.WithEncoderConcurrency(1))
		if err != nil {
			return nil, fmt.Errorf("compr: zstd writer: %w", err)
		}
		return z, nil
	}
	return nil, fmt.Errorf("%w %q", ErrUnknown, name)
}

// NewReader returns a reader decompressing r.
// Closing the reader releases decoder resources
// but does not close r.
func NewReader(name string, r io.Reader) (io.ReadCloser, error) {
	switch name {
	case "", "none":
		return io.NopCloser(r), nil
	case "s2":
		return io.NopCloser(s2.NewReader(r)), nil
	case "zstd":
		z, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, fmt.Errorf("compr: zstd reader: %w", err)
		}
		return z.IOReadCloser(), nil
	}
	return nil, fmt.Errorf("%w %q", ErrUnknown, name)
}
