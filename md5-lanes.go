// Copyright (c) 2020 MinIO Inc. All rights reserved.
// Use of this source code is governed by a license that can be
// found in the LICENSE file.

// Package md5lanes computes MD5 over eight short messages at once.
//
// Every message must fit a single 64 byte block (at most 55 bytes).
// The eight messages of a batch advance through the 64 MD5 rounds in
// lockstep, one lane each. Digests can be read raw, as conventional
// bytes or as lowercase hex, and can be expanded in place into the
// block that hashes their hex form, which makes iterated hashing
// (key-stretching) a loop of Compress and ExpandHex.
package md5lanes

import (
	"errors"
	"math/bits"
)

// Lanes is the number of messages processed per batch.
const Lanes = 8

// BlockSize is the MD5 block size in bytes.
const BlockSize = 64

// Size is the size of an MD5 checksum in bytes.
const Size = 16

// HexSize is the length of a digest in hex.
const HexSize = 2 * Size

// MaxMessageSize is the longest message that still fits a single
// block together with the padding byte and the bit length trailer.
const MaxMessageSize = BlockSize - 8 - 1

// ErrInputTooLong is returned when a message does not fit a single block.
var ErrInputTooLong = errors.New("md5lanes: message does not fit a single block")

// Block is a padded single-block MD5 message.
type Block [BlockSize]byte

// Blocks is a batch with one block per lane.
type Blocks [Lanes]Block

// State holds the final MD5 state words of every lane, in MD5's
// internal (little endian) byte order. Lane i of the batch is element
// i of every vector.
type State struct {
	V0, V1, V2, V3 [Lanes]uint32
}

// Words returns the raw state words of a lane.
func (s *State) Words(lane int) [4]uint32 {
	return [4]uint32{s.V0[lane], s.V1[lane], s.V2[lane], s.V3[lane]}
}

// Presented returns the state words of a lane byte-swapped, so that
// the high nibble of word 0 is the leftmost hex digit of the digest.
func (s *State) Presented(lane int) (w [4]uint32) {
	w[0] = bits.ReverseBytes32(s.V0[lane])
	w[1] = bits.ReverseBytes32(s.V1[lane])
	w[2] = bits.ReverseBytes32(s.V2[lane])
	w[3] = bits.ReverseBytes32(s.V3[lane])
	return
}

// Sum returns the conventional 16 byte digest of a lane.
func (s *State) Sum(lane int) (sum [Size]byte) {
	for i, w := range s.Words(lane) {
		sum[i*4] = byte(w)
		sum[i*4+1] = byte(w >> 8)
		sum[i*4+2] = byte(w >> 16)
		sum[i*4+3] = byte(w >> 24)
	}
	return
}

// ZeroPrefix reports whether the first k hex digits of the digest in
// lane are all '0'. k larger than HexSize is treated as HexSize.
func (s *State) ZeroPrefix(lane, k int) bool {
	for _, w := range s.Presented(lane) {
		if k <= 0 {
			return true
		}
		if k < 8 {
			return w>>(32-4*uint(k)) == 0
		}
		if w != 0 {
			return false
		}
		k -= 8
	}
	return true
}

// ZeroPrefixMask returns a bitmask with bit i set when lane i has at
// least k leading zero hex digits.
func (s *State) ZeroPrefixMask(k int) (mask uint8) {
	for i := 0; i < Lanes; i++ {
		if s.ZeroPrefix(i, k) {
			mask |= 1 << uint(i)
		}
	}
	return
}

// LeadingZeros returns the number of leading '0' hex digits of the
// digest in lane.
func (s *State) LeadingZeros(lane int) (n int) {
	for _, w := range s.Presented(lane) {
		z := bits.LeadingZeros32(w)
		n += z / 4
		if z < 32 {
			break
		}
	}
	return
}
