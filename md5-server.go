// Copyright (c) 2020 MinIO Inc. All rights reserved.
// Use of this source code is governed by a license that can be
// found in the LICENSE file.

package md5lanes

import (
	"errors"
	"sync"
	"time"
)

// ErrServerClosed is returned by Server.Sum after Close.
var ErrServerClosed = errors.New("md5lanes: server closed")

// Time a partially filled batch waits for more messages.
const flushTimeout = 10 * time.Microsecond

// Message to send across input channel
type blockInput struct {
	block Block
	sumCh chan [Size]byte
}

// laneInfo - Info for each lane
type laneInfo struct {
	outputCh chan [Size]byte // channel for output result, nil when lane is free
}

// Server gathers short messages from independent goroutines into the
// lanes of a batch. A batch is compressed as soon as all lanes are
// filled, or after a short timeout when no further messages arrive.
type Server struct {
	mu       sync.RWMutex
	blocksCh chan blockInput // Input channel, nil once closed
	closed   chan struct{}
	totalIn  int            // Number of lanes filled
	lanes    [Lanes]laneInfo
	blocks   Blocks
}

// NewServer - Create new object for parallel processing handling
func NewServer() *Server {
	s := &Server{
		blocksCh: make(chan blockInput),
		closed:   make(chan struct{}),
	}
	// Start a single thread for reading from the input channel
	go s.process(s.blocksCh)
	return s
}

// Sum returns the MD5 digest of msg.
func (s *Server) Sum(msg []byte) (sum [Size]byte, err error) {
	var in blockInput
	if err = in.block.set(msg); err != nil {
		return
	}
	in.sumCh = make(chan [Size]byte, 1)

	s.mu.RLock()
	if s.blocksCh == nil {
		s.mu.RUnlock()
		return sum, ErrServerClosed
	}
	s.blocksCh <- in
	s.mu.RUnlock()
	return <-in.sumCh, nil
}

// Close stops the server once pending messages have been hashed.
func (s *Server) Close() {
	s.mu.Lock()
	if s.blocksCh != nil {
		close(s.blocksCh)
		s.blocksCh = nil
	}
	s.mu.Unlock()
	<-s.closed
}

// process - Sole handler for reading from the input channel
func (s *Server) process(blocksCh chan blockInput) {
	defer close(s.closed)

	processBlock := func(in blockInput) {
		s.blocks[s.totalIn] = in.block
		s.lanes[s.totalIn] = laneInfo{outputCh: in.sumCh}
		s.totalIn++
		if s.totalIn == len(s.lanes) {
			// if all lanes are filled, process all lanes
			s.flush()
		}
	}

	for {
		in, ok := <-blocksCh
		if !ok {
			return
		}
		processBlock(in)

		for busy := true; busy; {
			select {
			case in, ok := <-blocksCh:
				if !ok {
					s.flush()
					return
				}
				processBlock(in)

			case <-time.After(flushTimeout):
				// no work arrived in time, process what we have and go
				// back to blocking on the input channel
				s.flush()
				busy = false
			}
		}
	}
}

// Compress the filled lanes and send back results
func (s *Server) flush() {
	if s.totalIn == 0 {
		return
	}
	// Lanes past totalIn still hold earlier blocks; their results are dropped.
	state := Compress(&s.blocks)

	for i := 0; i < s.totalIn; i++ {
		s.lanes[i].outputCh <- state.Sum(i)
		s.lanes[i] = laneInfo{}
	}
	s.totalIn = 0
}
