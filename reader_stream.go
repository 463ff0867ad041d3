// Copyright 2026 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package tiffmeta

import (
	"errors"
	"io"
)

const streamChunkSize = 2 * 1024

// streamSource buffers a non seekable stream in fixed size chunks.
// Chunks are read on demand, only up to the highest index requested,
// and kept for the lifetime of the source.
// Note that this is not thread safe.
type streamSource struct {
	r      io.Reader
	chunks [][]byte

	// Number of bytes buffered so far.
	n int64

	isEOF   bool
	readErr error
}

// fill reads chunks until at least upTo bytes are buffered or the stream ends.
// A read error is only returned if fewer than upTo bytes could be buffered.
func (s *streamSource) fill(upTo int64) error {
	for !s.isEOF && s.readErr == nil && s.n < upTo {
		chunk := make([]byte, streamChunkSize)
		n, err := io.ReadFull(s.r, chunk)
		if n > 0 {
			s.chunks = append(s.chunks, chunk[:n])
			s.n += int64(n)
		}
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				s.isEOF = true
			} else {
				s.readErr = err
			}
		}
	}
	if s.n < upTo && s.readErr != nil {
		return s.readErr
	}
	return nil
}

func (s *streamSource) available(i, n int64) (bool, error) {
	if i < 0 || n < 0 {
		return false, nil
	}
	if err := s.fill(i + n); err != nil {
		return false, err
	}
	return i+n <= s.n, nil
}

func (s *streamSource) slice(i, n int64) ([]byte, error) {
	ok, err := s.available(i, n)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &BoundsError{Index: i, Length: n, Available: s.n}
	}
	if n == 0 {
		return nil, nil
	}

	// All chunks but the last are full, so the chunk index is a division.
	first, last := i/streamChunkSize, (i+n-1)/streamChunkSize
	start := i % streamChunkSize
	if first == last {
		return s.chunks[first][start : start+n], nil
	}

	b := make([]byte, 0, n)
	for c := first; c <= last; c++ {
		chunk := s.chunks[c]
		if c == first {
			chunk = chunk[start:]
		}
		if remaining := n - int64(len(b)); int64(len(chunk)) > remaining {
			chunk = chunk[:remaining]
		}
		b = append(b, chunk...)
	}
	return b, nil
}

func (s *streamSource) size() (int64, error) {
	for !s.isEOF {
		if err := s.fill(s.n + streamChunkSize); err != nil {
			return 0, err
		}
	}
	return s.n, nil
}
