// Copyright (c) 2020 MinIO Inc. All rights reserved.
// Use of this source code is governed by a license that can be
// found in the LICENSE file.

package md5lanes

import (
	"encoding/binary"
	"math/bits"
)

// Compress runs one MD5 compression over every lane of b, starting from
// the MD5 initial vector. The returned state is in internal byte order;
// use the State accessors for the presented form.
func Compress(b *Blocks) (s State) {
	// Transpose: lane j of m[i] is word i of block j.
	var m [16]vec8
	for j := range b {
		for i := range m {
			m[i][j] = binary.LittleEndian.Uint32(b[j][i*4:])
		}
	}

	regs := [4]vec8{splat(init0), splat(init1), splat(init2), splat(init3)}
	a, bb, c, d := &regs[0], &regs[1], &regs[2], &regs[3]

	r := 0
	for ; r < 16; r++ {
		k, x, sh := md5consts[r], &m[md5index[r]], int(md5shifts[r])
		for j := range a {
			f := (bb[j] & c[j]) | (^bb[j] & d[j])
			a[j] = bb[j] + bits.RotateLeft32(a[j]+f+k+x[j], sh)
		}
		a, bb, c, d = d, a, bb, c
	}
	for ; r < 32; r++ {
		k, x, sh := md5consts[r], &m[md5index[r]], int(md5shifts[r])
		for j := range a {
			f := (bb[j] & d[j]) | (c[j] &^ d[j])
			a[j] = bb[j] + bits.RotateLeft32(a[j]+f+k+x[j], sh)
		}
		a, bb, c, d = d, a, bb, c
	}
	for ; r < 48; r++ {
		k, x, sh := md5consts[r], &m[md5index[r]], int(md5shifts[r])
		for j := range a {
			f := bb[j] ^ c[j] ^ d[j]
			a[j] = bb[j] + bits.RotateLeft32(a[j]+f+k+x[j], sh)
		}
		a, bb, c, d = d, a, bb, c
	}
	for ; r < 64; r++ {
		k, x, sh := md5consts[r], &m[md5index[r]], int(md5shifts[r])
		for j := range a {
			f := c[j] ^ (bb[j] | ^d[j])
			a[j] = bb[j] + bits.RotateLeft32(a[j]+f+k+x[j], sh)
		}
		a, bb, c, d = d, a, bb, c
	}

	// 64 rotations bring a..d back onto regs[0..3].
	for j := 0; j < Lanes; j++ {
		s.V0[j] = regs[0][j] + init0
		s.V1[j] = regs[1][j] + init1
		s.V2[j] = regs[2][j] + init2
		s.V3[j] = regs[3][j] + init3
	}
	return
}

// Stretch compresses b and then re-hashes the hex form of every lane's
// digest rounds more times.
func Stretch(b *Blocks, rounds int) State {
	s := Compress(b)
	for i := 0; i < rounds; i++ {
		e := ExpandHex(&s)
		s = Compress(&e)
	}
	return s
}
