// Copyright (c) 2020 MinIO Inc. All rights reserved.
// Use of this source code is governed by a license that can be
// found in the LICENSE file.

package md5lanes

import (
	"context"
	"runtime"

	"github.com/klauspost/cpuid"
	"github.com/remeh/sizedwaitgroup"
)

// Number of indexes a worker handles per round when not configured.
const defaultBatchSize = 1024

func defaultWorkers() int {
	if n := cpuid.CPU.LogicalCores; n > 0 {
		return n
	}
	return runtime.GOMAXPROCS(0)
}

// workerOptions normalizes a worker count and a per-worker batch size.
// Batch sizes are rounded up to a whole number of lane batches.
func workerOptions(workers, batchSize int) (int, int) {
	if workers <= 0 {
		workers = defaultWorkers()
	}
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	batchSize = (batchSize + Lanes - 1) &^ (Lanes - 1)
	return workers, batchSize
}

// runWorkers calls fn(w) for w in [0, n) on at most limit goroutines and
// waits for all of them. Scheduling stops early when ctx is done; the
// context error is returned in that case.
func runWorkers(ctx context.Context, limit, n int, fn func(w int)) error {
	swg := sizedwaitgroup.New(limit)
	var err error
	for w := 0; w < n; w++ {
		if err = swg.AddWithContext(ctx); err != nil {
			break
		}
		go func(w int) {
			defer swg.Done()
			fn(w)
		}(w)
	}
	swg.Wait()
	if err != nil {
		return err
	}
	return ctx.Err()
}

// cancelled reports whether done has been closed, without blocking.
func cancelled(done <-chan struct{}) bool {
	select {
	case <-done:
		return true
	default:
		return false
	}
}
