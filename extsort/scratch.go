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
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

// Scratch owns the temporary files of one sort.
// Every file it creates is removed by Close, so a
// Scratch must be closed on every exit path.
type Scratch struct {
	dir string

	mu    sync.Mutex
	files map[string]*os.File
}

// NewScratch returns a Scratch creating its files
// in dir. An empty dir means os.TempDir.
func NewScratch(dir string) (*Scratch, error) {
	dir, err := checkDir(dir)
	if err != nil {
		return nil, err
	}
	return &Scratch{dir: dir, files: make(map[string]*os.File)}, nil
}

func checkDir(dir string) (string, error) {
	if dir == "" {
		dir = os.TempDir()
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrNoTmpDir, dir)
	}
	return dir, nil
}

// Create creates a new empty file open for
// reading and writing. kind only shows up in
// the file name.
func (s *Scratch) Create(kind string) (*os.File, error) {
	path := filepath.Join(s.dir, "xsvsort-"+kind+"-"+uuid.NewString())
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return nil, fmt.Errorf("extsort: creating scratch file: %w", err)
	}
	s.mu.Lock()
	s.files[path] = f
	s.mu.Unlock()
	return f, nil
}

// Remove closes and removes a file created by s
// before the Scratch itself is closed.
func (s *Scratch) Remove(f *os.File) error {
	s.mu.Lock()
	delete(s.files, f.Name())
	s.mu.Unlock()
	return release(f)
}

// Len returns the number of files not yet removed.
func (s *Scratch) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.files)
}

// Close removes every remaining file and
// returns the first error encountered.
func (s *Scratch) Close() error {
	s.mu.Lock()
	files := s.files
	s.files = make(map[string]*os.File)
	s.mu.Unlock()

	var first error
	for _, f := range files {
		if err := release(f); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func release(f *os.File) error {
	if err := f.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
		os.Remove(f.Name())
		return fmt.Errorf("extsort: closing scratch file: %w", err)
	}
	if err := os.Remove(f.Name()); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("extsort: removing scratch file: %w", err)
	}
	return nil
}
