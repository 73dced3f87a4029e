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
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/SnellerInc/xsvsort/compr"
)

// Scratch files hold a sequence of frames, each
// a uvarint length followed by that many bytes,
// so a line may contain any byte.

// maxFrame bounds the length of a single frame.
const maxFrame = 1 << 30

var errCorrupt = errors.New("extsort: corrupt scratch file")

type frameWriter struct {
	zw  io.WriteCloser
	bw  *bufio.Writer
	hdr [binary.MaxVarintLen64]byte
}

func newFrameWriter(f *os.File, compression string) (*frameWriter, error) {
	zw, err := compr.NewWriter(compression, f)
	if err != nil {
		return nil, err
	}
	return &frameWriter{zw: zw, bw: bufio.NewWriterSize(zw, 64*1024)}, nil
}

func (w *frameWriter) write(line []byte) error {
	n := binary.PutUvarint(w.hdr[:], uint64(len(line)))
	if _, err := w.bw.Write(w.hdr[:n]); err != nil {
		return err
	}
	_, err := w.bw.Write(line)
	return err
}

// close flushes the frames written so far.
// The underlying file stays open.
func (w *frameWriter) close() error {
	if err := w.bw.Flush(); err != nil {
		w.zw.Close()
		return err
	}
	return w.zw.Close()
}

type frameReader struct {
	zr  io.ReadCloser
	br  *bufio.Reader
	buf []byte
}

// newFrameReader reads f from its beginning.
func newFrameReader(f *os.File, compression string) (*frameReader, error) {
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	zr, err := compr.NewReader(compression, bufio.NewReaderSize(f, 64*1024))
	if err != nil {
		return nil, err
	}
	return &frameReader{zr: zr, br: bufio.NewReader(zr)}, nil
}

// next returns the next frame, or io.EOF after the
// last one. The frame is only valid until the
// following call.
func (r *frameReader) next() ([]byte, error) {
	n, err := binary.ReadUvarint(r.br)
	if err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, errCorrupt
		}
		return nil, err
	}
	if n > maxFrame {
		return nil, fmt.Errorf("%w: frame of %d bytes", errCorrupt, n)
	}
	if uint64(cap(r.buf)) < n {
		r.buf = make([]byte, n)
	}
	r.buf = r.buf[:n]
	if _, err := io.ReadFull(r.br, r.buf); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, errCorrupt
		}
		return nil, err
	}
	return r.buf, nil
}

func (r *frameReader) close() error { return r.zr.Close() }
