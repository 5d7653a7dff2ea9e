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

package testutil

import (
	"hash/fnv"
	"math/rand/v2"
	"testing"
)

// Seed rand source
const TestRandomSeed = 1658503010463818386

// TestRand wraps rand/v2 Rand with helpers for generating test payloads.
// It is instantiated with NewTestRand, which seeds it with TestRandomSeed
// and the name of the test it is called from, so runs are deterministic
// per test but differ across tests. Not thread-safe.
type TestRand struct {
	*rand.Rand
}

// NewTestRand returns a deterministic random source derived from the test
// name.
func NewTestRand(t testing.TB) *TestRand {
	h := fnv.New64a()
	h.Write([]byte(t.Name()))

	return &TestRand{
		rand.New(rand.NewPCG(TestRandomSeed, h.Sum64())),
	}
}

func (r *TestRand) Read(b []byte) {
	for i := range b {
		b[i] = byte(r.Int64())
	}
}

// RandomByteData returns `size` bytes of incompressible random data.
func (r *TestRand) RandomByteData(size int64) []byte {
	b := make([]byte, size)
	r.Read(b)
	return b
}

// CompressibleData returns `size` bytes drawn from a small skewed alphabet,
// so DEFLATE encoders produce back-references and, at high levels, dynamic
// Huffman blocks.
func (r *TestRand) CompressibleData(size int64) []byte {
	const charset = "aaaaabbbbcccddeefg hh\n"
	b := make([]byte, size)
	for i := range b {
		b[i] = charset[r.IntN(len(charset))]
	}
	return b
}
