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

package flate

// bitReader turns byte chunks fed by the caller into bit-granular reads.
// DEFLATE packs everything LSB-first within each byte, so bits enter the
// low end of the accumulator and are consumed from the bottom.
//
// A read that cannot be satisfied from buffered bytes fails with
// errInsufficientInput and consumes nothing: bits already hoisted into the
// accumulator stay there, so retrying the same read after feed picks up
// exactly where it left off. That makes every read atomic with respect to
// suspension, which is what keeps decoding independent of how the input is
// chunked.
type bitReader struct {
	buf []byte // fed bytes not yet moved into the accumulator
	pos int    // next byte of buf to load

	b  uint64 // bit accumulator, oldest bit lowest
	nb uint   // valid bits in b

	loaded int64 // bytes moved out of buf since construction or reset
}

func (br *bitReader) feed(p []byte) {
	if br.pos > 0 {
		n := copy(br.buf, br.buf[br.pos:])
		br.buf = br.buf[:n]
		br.pos = 0
	}
	br.buf = append(br.buf, p...)
}

// load hoists one buffered byte into the accumulator.
func (br *bitReader) load() bool {
	if br.pos == len(br.buf) {
		return false
	}
	br.b |= uint64(br.buf[br.pos]) << (br.nb & 63)
	br.pos++
	br.loaded++
	br.nb += 8
	return true
}

// readBits consumes the next n bits, n <= 32.
func (br *bitReader) readBits(n uint) (uint32, error) {
	for br.nb < n {
		if !br.load() {
			return 0, errInsufficientInput
		}
	}
	v := uint32(br.b & (1<<n - 1))
	br.b >>= n
	br.nb -= n
	return v, nil
}

// alignToByte discards the unread bits of the current byte. The discarded
// bits count as consumed framing, per the stored-block padding rule.
func (br *bitReader) alignToByte() {
	drop := br.nb & 7
	br.b >>= drop
	br.nb -= drop
}

// readBytes copies up to len(dst) whole input bytes, bypassing bit
// accounting. Only valid when byte-aligned (nb a multiple of 8); bytes
// already hoisted into the accumulator are drained first.
func (br *bitReader) readBytes(dst []byte) int {
	n := 0
	for n < len(dst) && br.nb >= 8 {
		dst[n] = byte(br.b)
		br.b >>= 8
		br.nb -= 8
		n++
	}
	m := copy(dst[n:], br.buf[br.pos:])
	br.pos += m
	br.loaded += int64(m)
	return n + m
}

// bytesRead reports input bytes fully retired: a byte counts only once its
// last bit has been consumed.
func (br *bitReader) bytesRead() int64 {
	return br.loaded - int64((br.nb+7)/8)
}

// bitsRead reports the exact number of bits consumed, including alignment
// padding that was discarded.
func (br *bitReader) bitsRead() int64 {
	return br.loaded*8 - int64(br.nb)
}

// rest returns every buffered byte beyond the end of the stream, in input
// order, and empties the reader. The partial bits of the byte holding the
// final code are stream padding and count as consumed; whole bytes still
// sitting in the accumulator were never consumed and are handed back
// verbatim.
func (br *bitReader) rest() []byte {
	br.alignToByte()
	out := make([]byte, 0, int(br.nb/8)+len(br.buf)-br.pos)
	for br.nb >= 8 {
		out = append(out, byte(br.b))
		br.b >>= 8
		br.nb -= 8
		br.loaded--
	}
	out = append(out, br.buf[br.pos:]...)
	br.buf = br.buf[:0]
	br.pos = 0
	return out
}

func (br *bitReader) reset() {
	*br = bitReader{buf: br.buf[:0]}
}
