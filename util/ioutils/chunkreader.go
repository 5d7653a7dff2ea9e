/*
   Copyright The Pushflate Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package ioutils

import (
	"errors"
	"io"
)

// ChunkReader yields successive chunks of at most a fixed size from an
// underlying `io.Reader`. It is used to drive push-style consumers with a
// controlled feed granularity.
type ChunkReader struct {
	r    io.Reader
	buf  []byte
	done bool
}

// NewChunkReader creates a ChunkReader that yields chunks of at most
// chunkSize bytes. chunkSize must be positive.
func NewChunkReader(r io.Reader, chunkSize int) (*ChunkReader, error) {
	if chunkSize <= 0 {
		return nil, errors.New("chunk size must be positive")
	}
	return &ChunkReader{r: r, buf: make([]byte, chunkSize)}, nil
}

// Next returns the next chunk, or io.EOF when the underlying reader is
// exhausted. The returned slice is only valid until the next call to Next.
// A chunk may be shorter than the configured size; only the final chunk
// before io.EOF can be empty.
func (c *ChunkReader) Next() ([]byte, error) {
	if c.done {
		return nil, io.EOF
	}
	n, err := io.ReadFull(c.r, c.buf)
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		c.done = true
		if n == 0 {
			return nil, io.EOF
		}
		return c.buf[:n], nil
	}
	if err != nil {
		return nil, err
	}
	return c.buf[:n], nil
}
