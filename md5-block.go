// Copyright (c) 2020 MinIO Inc. All rights reserved.
// Use of this source code is governed by a license that can be
// found in the LICENSE file.

package md5lanes

import (
	"encoding/binary"
	"fmt"
)

const hextable = "0123456789abcdef"

// BuildBlock pads msg into a single MD5 block.
func BuildBlock(msg []byte) (b Block, err error) {
	err = b.set(msg)
	return
}

// BuildBlocks pads one message per lane. A nil message hashes as the
// empty string.
func BuildBlocks(msgs [Lanes][]byte) (b Blocks, err error) {
	for i, msg := range msgs {
		if err = b.Set(i, msg); err != nil {
			return Blocks{}, err
		}
	}
	return
}

// Set replaces the message of a single lane. The lane is left
// untouched when msg is too long.
func (b *Blocks) Set(lane int, msg []byte) error {
	if err := b[lane].set(msg); err != nil {
		return fmt.Errorf("%w: lane %d", err, lane)
	}
	return nil
}

func (b *Block) set(msg []byte) error {
	if len(msg) > MaxMessageSize {
		return fmt.Errorf("%w: %d bytes, max %d", ErrInputTooLong, len(msg), MaxMessageSize)
	}
	n := copy(b[:], msg)
	b[n] = 0x80
	for i := n + 1; i < BlockSize-8; i++ {
		b[i] = 0
	}
	// Length in bits.
	binary.LittleEndian.PutUint64(b[BlockSize-8:], uint64(n)<<3)
	return nil
}

// ExpandHex returns, for every lane, the block that hashes the lowercase
// hex form of that lane's digest.
func ExpandHex(s *State) (b Blocks) {
	for i := range b {
		b.SetHex(i, s, i)
	}
	return
}

// SetHex replaces the message of lane with the lowercase hex form of
// the digest held in lane src of s.
func (b *Blocks) SetHex(lane int, s *State, src int) {
	blk := &b[lane]
	for i, w := range s.Presented(src) {
		for n := 0; n < 8; n++ {
			blk[i*8+n] = hextable[(w>>(28-4*uint(n)))&0xf]
		}
	}
	blk[HexSize] = 0x80
	for i := HexSize + 1; i < BlockSize; i++ {
		blk[i] = 0
	}
	// 32 bytes is 256 bits: 0x0100 little endian.
	blk[BlockSize-7] = 1
}

// Hex returns the lowercase hex form of the digest in lane.
func (s *State) Hex(lane int) (h [HexSize]byte) {
	s.AppendHex(h[:0], lane)
	return
}

// AppendHex appends the lowercase hex form of the digest in lane to dst.
func (s *State) AppendHex(dst []byte, lane int) []byte {
	for _, w := range s.Presented(lane) {
		for n := 0; n < 8; n++ {
			dst = append(dst, hextable[(w>>(28-4*uint(n)))&0xf])
		}
	}
	return dst
}
