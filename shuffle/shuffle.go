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

// Package shuffle produces random permutations with one
// of several interchangeable random sources.
//
// A permutation is reproducible when a seed is given,
// but only for the same source: the same seed fed to two
// different sources yields unrelated permutations.
package shuffle

import (
	"errors"
	"fmt"
	mathrand "math/rand"
	"strings"

	"golang.org/x/exp/rand"

	"github.com/SnellerInc/xsvsort/ints"
)

// ErrUnknownKind is returned by ParseKind
// for a name that does not denote a source.
var ErrUnknownKind = errors.New("shuffle: unknown random source")

// Kind selects a random source.
type Kind uint8

const (
	// Standard is the general-purpose math/rand source.
	Standard Kind = iota
	// Faster is a PCG generator; it is cheaper per
	// draw than Standard and not cryptographically secure.
	Faster
	// Cryptosecure is a ChaCha20 keystream.
	Cryptosecure
)

var kindNames = [...]string{
	Standard:     "standard",
	Faster:       "faster",
	Cryptosecure: "cryptosecure",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// ParseKind returns the Kind called name,
// ignoring case. The empty string selects Standard.
func ParseKind(name string) (Kind, error) {
	if name == "" {
		return Standard, nil
	}
	for k, n := range kindNames {
		if strings.EqualFold(n, name) {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("%w %q (want one of %s)", ErrUnknownKind, name, strings.Join(kindNames[:], ", "))
}

// Shuffler permutes n items through swap.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

// New returns a Shuffler drawing from the source k.
// A nil seed seeds the source from operating system
// entropy.
func New(k Kind, seed *uint64) (Shuffler, error) {
	switch k {
	case Standard:
		s, err := seedOrEntropy(seed)
		if err != nil {
			return nil, err
		}
		return mathrand.New(mathrand.NewSource(int64(s))), nil
	case Faster:
		s, err := seedOrEntropy(seed)
		if err != nil {
			return nil, err
		}
		src := new(rand.PCGSource)
		src.Seed(s)
		return rand.New(src), nil
	case Cryptosecure:
		src, err := newChaChaSource(seed)
		if err != nil {
			return nil, err
		}
		return rand.New(src), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownKind, k)
}

func seedOrEntropy(seed *uint64) (uint64, error) {
	if seed != nil {
		return *seed, nil
	}
	s, err := ints.RandomSeed()
	if err != nil {
		return 0, fmt.Errorf("shuffle: reading entropy: %w", err)
	}
	return s, nil
}
