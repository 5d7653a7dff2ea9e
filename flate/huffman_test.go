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

import "testing"

func TestHuffmanInit(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		lengths []int
		ok      bool
	}{
		{"complete", []int{2, 2, 2, 2}, true},
		{"mixed-lengths", []int{1, 2, 3, 3}, true},
		{"empty", []int{0, 0, 0}, true},
		{"single-code", []int{1}, true},
		{"oversubscribed", []int{1, 1, 1}, false},
		{"incomplete", []int{2, 2, 2}, false},
		{"fixed-literal", nil, true}, // filled in below
	}
	fixed := make([]int, 288)
	for i := range fixed {
		switch {
		case i < 144:
			fixed[i] = 8
		case i < 256:
			fixed[i] = 9
		case i < 280:
			fixed[i] = 7
		default:
			fixed[i] = 8
		}
	}
	tests[len(tests)-1].lengths = fixed

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var h huffmanDecoder
			if got := h.init(tt.lengths); got != tt.ok {
				t.Fatalf("init(%v) = %v, want %v", tt.lengths, got, tt.ok)
			}
		})
	}
}

// feedBitsMSB packs Huffman codes MSB-first into a byte stream the way
// DEFLATE does, and returns the bytes.
func feedBitsMSB(codes []struct{ code, n int }) []byte {
	var out []byte
	var cur, nb int
	for _, c := range codes {
		for i := c.n - 1; i >= 0; i-- {
			cur |= ((c.code >> i) & 1) << nb
			nb++
			if nb == 8 {
				out = append(out, byte(cur))
				cur, nb = 0, 0
			}
		}
	}
	if nb > 0 {
		out = append(out, byte(cur))
	}
	return out
}

func TestHuffmanReadSym(t *testing.T) {
	t.Parallel()
	// Canonical code for lengths {1, 2, 3, 3}: symbol 0 -> 0, 1 -> 10,
	// 2 -> 110, 3 -> 111.
	var h huffmanDecoder
	if !h.init([]int{1, 2, 3, 3}) {
		t.Fatal("init failed")
	}

	stream := feedBitsMSB([]struct{ code, n int }{
		{0b0, 1}, {0b10, 2}, {0b110, 3}, {0b111, 3}, {0b10, 2},
	})

	var br bitReader
	br.feed(stream)
	want := []int{0, 1, 2, 3, 1}
	for i, w := range want {
		got, err := h.readSym(&br)
		if err != nil {
			t.Fatalf("readSym %d: %v", i, err)
		}
		if got != w {
			t.Fatalf("readSym %d = %d, want %d", i, got, w)
		}
	}
}

func TestHuffmanReadSymSuspends(t *testing.T) {
	t.Parallel()
	var h huffmanDecoder
	if !h.init([]int{1, 2, 3, 3}) {
		t.Fatal("init failed")
	}

	// Symbol 3 is code 111; deliver its three bits one byte-boundary at a
	// time by splitting a two-symbol stream mid-code.
	stream := feedBitsMSB([]struct{ code, n int }{
		{0b110, 3}, {0b111, 3}, {0b0, 1}, {0b0, 1},
	})

	var br bitReader
	br.feed(stream[:0])
	if _, err := h.readSym(&br); err != errInsufficientInput {
		t.Fatalf("readSym on empty input: %v, want suspension", err)
	}
	br.feed(stream)
	for i, w := range []int{2, 3, 0, 0} {
		got, err := h.readSym(&br)
		if err != nil {
			t.Fatalf("readSym %d: %v", i, err)
		}
		if got != w {
			t.Fatalf("readSym %d = %d, want %d", i, got, w)
		}
	}
}

func TestHuffmanLongCodes(t *testing.T) {
	t.Parallel()
	// Force codes past huffmanChunkBits so the link tables are exercised:
	// two 1-bit-and-up chains ending in 15-bit codes.
	lengths := make([]int, 16)
	lengths[0] = 1
	for i := 1; i < 15; i++ {
		lengths[i] = i + 1
	}
	lengths[15] = 15
	var h huffmanDecoder
	if !h.init(lengths) {
		t.Fatal("init failed for 15-bit code set")
	}

	// Deepest codes: symbol 14 -> 15 ones then 0 is not expressible; use
	// canonical values: symbol k (k>=1) has code of k+1 bits = k ones then
	// a zero, symbol 15 = 15 ones.
	stream := feedBitsMSB([]struct{ code, n int }{
		{0b111111111111110, 15}, // symbol 14
		{0b111111111111111, 15}, // symbol 15
		{0b0, 1},                // symbol 0
	})

	var br bitReader
	br.feed(stream)
	for i, w := range []int{14, 15, 0} {
		got, err := h.readSym(&br)
		if err != nil {
			t.Fatalf("readSym %d: %v", i, err)
		}
		if got != w {
			t.Fatalf("readSym %d = %d, want %d", i, got, w)
		}
	}
}

func TestHuffmanInvalidCode(t *testing.T) {
	t.Parallel()
	// Incomplete length sets are rejected at build time, so the only way
	// to observe an unassigned code is the empty table a dynamic block may
	// declare for its distance alphabet.
	var h huffmanDecoder
	if !h.init([]int{0, 0, 0}) {
		t.Fatal("init failed for empty table")
	}
	var br bitReader
	br.feed([]byte{0xFF})
	if _, err := h.readSym(&br); err != ErrInvalidCode {
		t.Fatalf("readSym on empty table: %v, want %v", err, ErrInvalidCode)
	}
}
