// Copyright (c) 2020 MinIO Inc. All rights reserved.
// Use of this source code is governed by a license that can be
// found in the LICENSE file.

package md5lanes

import (
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"math/rand"
	"testing"
)

func randomState(rng *rand.Rand) (s State) {
	for i := 0; i < Lanes; i++ {
		s.V0[i], s.V1[i], s.V2[i], s.V3[i] = rng.Uint32(), rng.Uint32(), rng.Uint32(), rng.Uint32()
	}
	return
}

func TestExpandHexLayout(t *testing.T) {
	rng := rand.New(rand.NewSource(0xabad1dea))
	for n := 0; n < 100; n++ {
		s := randomState(rng)
		blocks := ExpandHex(&s)
		for l := range blocks {
			sum := s.Sum(l)
			want := hex.EncodeToString(sum[:])
			if got := string(blocks[l][:HexSize]); got != want {
				t.Fatalf("lane %d, got %s, want %s", l, got, want)
			}
			if blocks[l][HexSize] != 0x80 {
				t.Fatalf("lane %d, got padding byte %#x", l, blocks[l][HexSize])
			}
			for i := HexSize + 1; i < BlockSize; i++ {
				want := byte(0)
				if i == 57 {
					want = 1
				}
				if blocks[l][i] != want {
					t.Fatalf("lane %d, byte %d is %#x, want %#x", l, i, blocks[l][i], want)
				}
			}
		}
	}
}

func TestExpandHexMatchesBuildBlock(t *testing.T) {
	rng := rand.New(rand.NewSource(0xabad1dea))
	s := randomState(rng)
	blocks := ExpandHex(&s)
	for l := range blocks {
		h := s.Hex(l)
		want, err := BuildBlock(h[:])
		if err != nil {
			t.Fatal(err)
		}
		if blocks[l] != want {
			t.Errorf("lane %d, expanded block differs from padded hex message", l)
		}
	}
}

func TestExpandHexRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(0xabad1dea))
	for n := 0; n < 100; n++ {
		s := randomState(rng)
		blocks := ExpandHex(&s)
		next := Compress(&blocks)
		for l := 0; l < Lanes; l++ {
			h := s.Hex(l)
			if want := md5.Sum(h[:]); next.Sum(l) != want {
				t.Fatalf("lane %d, got %x, want %x", l, next.Sum(l), want)
			}
		}
	}
}

func TestSetHexOverwrites(t *testing.T) {
	var blocks Blocks
	if err := blocks.Set(2, bytes.Repeat([]byte{'z'}, MaxMessageSize)); err != nil {
		t.Fatal(err)
	}
	var s State
	blocks.SetHex(2, &s, 0)
	want, _ := BuildBlock([]byte("00000000000000000000000000000000"))
	if blocks[2] != want {
		t.Errorf("got %x, want %x", blocks[2], want)
	}
}

func TestStretch(t *testing.T) {
	// MD5("abc") re-hashed as hex.
	checks := map[int]string{
		0:    "900150983cd24fb0d6963f7d28e17f72",
		1:    "ec0405c5aef93e771cd80e0db180b88b",
		2:    "beeac7b932b2d5e23b905c5e6aa5614d",
		10:   "70de9661cecce8a09d394ce6830541f5",
		100:  "84c6484c8b1ae416884f04d2d7d4c9a6",
		1000: "18e3091d06ba85d0320ac21348d2b906",
		2016: "ba5ca63557417827468d6a7cc594e432",
		2017: "ea2960e4201cecc5292b6def164bbad7",
	}

	var msgs [Lanes][]byte
	for i := range msgs {
		msgs[i] = []byte("abc")
	}
	blocks, err := BuildBlocks(msgs)
	if err != nil {
		t.Fatal(err)
	}

	state := Compress(&blocks)
	ref := md5.Sum([]byte("abc"))
	for n := 0; n <= 2017; n++ {
		if n > 0 {
			blocks = ExpandHex(&state)
			state = Compress(&blocks)
			ref = md5.Sum([]byte(hex.EncodeToString(ref[:])))
		}
		for l := 0; l < Lanes; l++ {
			if state.Sum(l) != ref {
				t.Fatalf("iteration %d lane %d, got %x, want %x", n, l, state.Sum(l), ref)
			}
		}
		if want, ok := checks[n]; ok {
			if got := string(state.AppendHex(nil, 0)); got != want {
				t.Errorf("iteration %d, got %s, want %s", n, got, want)
			}
		}
	}

	blocks, _ = BuildBlocks(msgs)
	stretched := Stretch(&blocks, 2017)
	if got := string(stretched.AppendHex(nil, 7)); got != checks[2017] {
		t.Errorf("Stretch(2017), got %s, want %s", got, checks[2017])
	}
}
