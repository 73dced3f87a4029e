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

package shuffle

import (
	"encoding/binary"
	"fmt"

	"golang.org/x/crypto/chacha20"

	"github.com/SnellerInc/xsvsort/ints"
)

// chachaSource implements rand.Source on top
// of the ChaCha20 keystream.
type chachaSource struct {
	key    [chacha20.KeySize]byte
	cipher *chacha20.Cipher
	buf    [512]byte
	pos    int
}

// newChaChaSource keys the cipher with seed written
// little-endian and zero-padded to the key size, or
// with a random key when seed is nil.
func newChaChaSource(seed *uint64) (*chachaSource, error) {
	s := new(chachaSource)
	if seed != nil {
		binary.LittleEndian.PutUint64(s.key[:], *seed)
	} else if err := ints.RandomFillSlice(s.key[:]); err != nil {
		return nil, fmt.Errorf("shuffle: reading entropy: %w", err)
	}
	if err := s.rekey(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *chachaSource) rekey() error {
	var nonce [chacha20.NonceSize]byte
	c, err := chacha20.NewUnauthenticatedCipher(s.key[:], nonce[:])
	if err != nil {
		return fmt.Errorf("shuffle: chacha20: %w", err)
	}
	s.cipher = c
	s.pos = len(s.buf)
	return nil
}

// Uint64 implements rand.Source
func (s *chachaSource) Uint64() uint64 {
	if s.pos+8 > len(s.buf) {
		for i := range s.buf {
			s.buf[i] = 0
		}
		s.cipher.XORKeyStream(s.buf[:], s.buf[:])
		s.pos = 0
	}
	v := binary.LittleEndian.Uint64(s.buf[s.pos:])
	s.pos += 8
	return v
}

// Seed implements rand.Source
func (s *chachaSource) Seed(seed uint64) {
	s.key = [chacha20.KeySize]byte{}
	binary.LittleEndian.PutUint64(s.key[:], seed)
	if err := s.rekey(); err != nil {
		// a 32-byte key and a 12-byte nonce are always accepted
		panic(err)
	}
}
