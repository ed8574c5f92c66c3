// Copyright (c) 2020 MinIO Inc. All rights reserved.
// Use of this source code is governed by a license that can be
// found in the LICENSE file.

package md5lanes

import (
	"context"
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"
)

// MinerOptions configures a Miner. Zero values select defaults.
type MinerOptions struct {
	// Workers is the number of concurrent workers.
	// Defaults to the number of logical cores.
	Workers int
	// BatchSize is the number of indexes a worker hashes per round.
	BatchSize int
}

// Hit is an index whose digest has the requested zero prefix.
type Hit struct {
	Index int
	Sum   [Size]byte
}

// Hex returns the digest of the hit as lowercase hex.
func (h Hit) Hex() string {
	return hex.EncodeToString(h.Sum[:])
}

// Miner searches for indexes i such that MD5(prefix || decimal(i))
// starts with a given number of zero hex digits.
type Miner struct {
	prefix    []byte
	workers   int
	batchSize int
}

// NewMiner returns a Miner for prefix.
func NewMiner(prefix []byte, opts MinerOptions) *Miner {
	m := &Miner{prefix: append([]byte(nil), prefix...)}
	m.workers, m.batchSize = workerOptions(opts.Workers, opts.BatchSize)
	return m
}

// FirstIndex returns the smallest index >= start whose digest starts
// with zeros zero hex digits.
func (m *Miner) FirstIndex(ctx context.Context, zeros, start int) (int, error) {
	hits, err := m.Find(ctx, zeros, start, 1)
	if err != nil {
		return -1, err
	}
	return hits[0].Index, nil
}

// Find returns the first n hits at or after start, in ascending index
// order. It only returns early on error or cancellation.
func (m *Miner) Find(ctx context.Context, zeros, start, n int) ([]Hit, error) {
	if start < 0 {
		return nil, fmt.Errorf("md5lanes: negative start index %d", start)
	}
	var found []Hit
	if n <= 0 {
		return found, nil
	}

	hits := make([][]Hit, m.workers)
	errs := make([]error, m.workers)
	for base := start; ; base += m.workers * m.batchSize {
		for w := range hits {
			hits[w], errs[w] = hits[w][:0], nil
		}
		err := runWorkers(ctx, m.workers, m.workers, func(w int) {
			from := base + w*m.batchSize
			hits[w], errs[w] = m.scan(ctx.Done(), zeros, from, from+m.batchSize, hits[w])
		})
		if err != nil {
			return nil, err
		}
		// Every index below base has been checked, so the hits of this
		// round only need sorting among themselves.
		round := len(found)
		for w := range hits {
			if errs[w] != nil {
				return nil, errs[w]
			}
			found = append(found, hits[w]...)
		}
		sort.Slice(found[round:], func(i, j int) bool {
			return found[round+i].Index < found[round+j].Index
		})
		if len(found) >= n {
			return found[:n], nil
		}
	}
}

// scan hashes the indexes [from, to) eight at a time and appends the
// hits to dst.
func (m *Miner) scan(done <-chan struct{}, zeros, from, to int, dst []Hit) ([]Hit, error) {
	var blocks Blocks
	msg := make([]byte, 0, BlockSize)
	for i := from; i < to; i += Lanes {
		if cancelled(done) {
			return dst, nil
		}
		for l := 0; l < Lanes; l++ {
			msg = strconv.AppendInt(append(msg[:0], m.prefix...), int64(i+l), 10)
			if err := blocks.Set(l, msg); err != nil {
				return dst, fmt.Errorf("index %d: %w", i+l, err)
			}
		}
		s := Compress(&blocks)
		mask := s.ZeroPrefixMask(zeros)
		for l := 0; mask != 0; l++ {
			if mask&1 != 0 && i+l < to {
				dst = append(dst, Hit{Index: i + l, Sum: s.Sum(l)})
			}
			mask >>= 1
		}
	}
	return dst, nil
}
