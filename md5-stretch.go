// Copyright (c) 2020 MinIO Inc. All rights reserved.
// Use of this source code is governed by a license that can be
// found in the LICENSE file.

package md5lanes

import (
	"context"
	"fmt"
	"strconv"
)

// StretcherOptions configures a Stretcher. Zero values select defaults.
type StretcherOptions struct {
	// Workers is the number of concurrent workers.
	// Defaults to the number of logical cores.
	Workers int
	// BatchSize is the number of indexes handed to a worker at once.
	BatchSize int
}

// Stretcher computes stretched keys: the hex digest of
// prefix || decimal(i), re-hashed as hex a fixed number of rounds.
type Stretcher struct {
	prefix    []byte
	rounds    int
	workers   int
	batchSize int
}

// NewStretcher returns a Stretcher that applies rounds extra hashes
// after the initial one.
func NewStretcher(prefix []byte, rounds int, opts StretcherOptions) *Stretcher {
	s := &Stretcher{prefix: append([]byte(nil), prefix...), rounds: rounds}
	if s.rounds < 0 {
		s.rounds = 0
	}
	s.workers, s.batchSize = workerOptions(opts.Workers, opts.BatchSize)
	return s
}

// Range returns the stretched keys of the indexes [start, start+count).
func (s *Stretcher) Range(ctx context.Context, start, count int) ([][HexSize]byte, error) {
	if start < 0 || count < 0 {
		return nil, fmt.Errorf("md5lanes: invalid range start %d count %d", start, count)
	}
	keys := make([][HexSize]byte, count)
	jobs := (count + s.batchSize - 1) / s.batchSize
	errs := make([]error, jobs)
	done := ctx.Done()

	err := runWorkers(ctx, s.workers, jobs, func(job int) {
		from := job * s.batchSize
		to := from + s.batchSize
		if to > count {
			to = count
		}
		errs[job] = s.fill(done, start, keys[from:to], from)
	})
	if err != nil {
		return nil, err
	}
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return keys, nil
}

// fill computes keys[k] for index start+offset+k. Lanes past the end of
// keys hash an empty message and are discarded.
func (s *Stretcher) fill(done <-chan struct{}, start int, keys [][HexSize]byte, offset int) error {
	var blocks Blocks
	msg := make([]byte, 0, BlockSize)
	for k := 0; k < len(keys); k += Lanes {
		if cancelled(done) {
			return nil
		}
		for l := 0; l < Lanes; l++ {
			msg = msg[:0]
			index := start + offset + k + l
			if k+l < len(keys) {
				msg = strconv.AppendInt(append(msg, s.prefix...), int64(index), 10)
			}
			if err := blocks.Set(l, msg); err != nil {
				return fmt.Errorf("index %d: %w", index, err)
			}
		}
		st := Stretch(&blocks, s.rounds)
		for l := 0; l < Lanes && k+l < len(keys); l++ {
			keys[k+l] = st.Hex(l)
		}
	}
	return nil
}
