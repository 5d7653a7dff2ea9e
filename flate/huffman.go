// Copyright 2009 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Canonical Huffman decode tables, derived from Go stdlib
// compress/flate/inflate.go. Changes: symbol lookup reads from the push-mode
// bitReader and suspends losslessly when the code is not fully buffered.

package flate

import (
	"math/bits"
	"sync"
)

const (
	maxCodeLen = 16 // DEFLATE code lengths are 0-15 bits

	// Primary table covers codes up to huffmanChunkBits bits; longer codes
	// overflow into per-prefix link tables.
	huffmanChunkBits  = 9
	huffmanNumChunks  = 1 << huffmanChunkBits
	huffmanCountMask  = 15
	huffmanValueShift = 4
)

// huffmanDecoder maps canonical Huffman codes to symbols.
//
// Although the rest of a DEFLATE stream is LSB-first, Huffman codes are
// packed MSB-first, so each code is bit-reversed when installed in the
// tables and lookups can index directly with accumulator bits.
type huffmanDecoder struct {
	min      int // shortest assigned code length
	chunks   [huffmanNumChunks]uint32
	links    [][]uint32
	linkMask uint32
}

// init builds the decode tables from one code length per symbol, zero
// meaning unused. Codes of equal length are assigned consecutively in
// symbol order. Over- and under-subscribed length sets are rejected, with
// the single-code degenerate case allowed as in RFC 1951.
func (h *huffmanDecoder) init(lengths []int) bool {
	if h.min != 0 {
		*h = huffmanDecoder{}
	}

	var count [maxCodeLen]int
	var min, max int
	for _, n := range lengths {
		if n == 0 {
			continue
		}
		if min == 0 || n < min {
			min = n
		}
		if n > max {
			max = n
		}
		count[n]++
	}

	// Empty table. Permitted: a dynamic block may declare an unused
	// distance alphabet.
	if max == 0 {
		return true
	}

	code := 0
	var nextcode [maxCodeLen]int
	for i := min; i <= max; i++ {
		code <<= 1
		nextcode[i] = code
		code += count[i]
	}

	if code != 1<<uint(max) && !(code == 1 && max == 1) {
		return false
	}

	h.min = min
	if max > huffmanChunkBits {
		numLinks := 1 << (uint(max) - huffmanChunkBits)
		h.linkMask = uint32(numLinks - 1)

		// Reserve indirect chunks for every prefix at or past the first
		// long code.
		link := nextcode[huffmanChunkBits+1] >> 1
		h.links = make([][]uint32, huffmanNumChunks-link)
		for j := uint(link); j < huffmanNumChunks; j++ {
			reverse := int(bits.Reverse16(uint16(j)))
			reverse >>= uint(16 - huffmanChunkBits)
			off := j - uint(link)
			h.chunks[reverse] = uint32(off<<huffmanValueShift | (huffmanChunkBits + 1))
			h.links[off] = make([]uint32, numLinks)
		}
	}

	for i, n := range lengths {
		if n == 0 {
			continue
		}
		code := nextcode[n]
		nextcode[n]++
		chunk := uint32(i<<huffmanValueShift | n)
		reverse := int(bits.Reverse16(uint16(code)))
		reverse >>= uint(16 - n)
		if n <= huffmanChunkBits {
			for off := reverse; off < len(h.chunks); off += 1 << uint(n) {
				h.chunks[off] = chunk
			}
		} else {
			j := reverse & (huffmanNumChunks - 1)
			value := h.chunks[j] >> huffmanValueShift
			linktab := h.links[value]
			reverse >>= huffmanChunkBits
			for off := reverse; off < len(linktab); off += 1 << uint(n-huffmanChunkBits) {
				linktab[off] = chunk
			}
		}
	}

	return true
}

// readSym decodes the next symbol from br. If the code is not fully
// buffered it fails with errInsufficientInput without consuming anything;
// bits hoisted while probing stay in the accumulator, so the retry after
// more input resumes mid-code. An unassigned code is ErrInvalidCode.
func (h *huffmanDecoder) readSym(br *bitReader) (int, error) {
	n := uint(h.min)
	for {
		for br.nb < n {
			if !br.load() {
				return 0, errInsufficientInput
			}
		}
		chunk := h.chunks[uint32(br.b)&(huffmanNumChunks-1)]
		n = uint(chunk & huffmanCountMask)
		if n > huffmanChunkBits {
			chunk = h.links[chunk>>huffmanValueShift][uint32(br.b>>huffmanChunkBits)&h.linkMask]
			n = uint(chunk & huffmanCountMask)
		}
		if n <= br.nb {
			if n == 0 {
				return 0, ErrInvalidCode
			}
			br.b >>= n
			br.nb -= n
			return int(chunk >> huffmanValueShift), nil
		}
	}
}

// Fixed literal/length table per RFC 1951 3.2.6: 8-bit codes for 0-143,
// 9 for 144-255, 7 for 256-279, 8 for 280-287. The fixed distance table is
// all 5-bit codes and is decoded directly by bit reversal instead.
var (
	fixedOnce           sync.Once
	fixedHuffmanDecoder huffmanDecoder
)

func fixedHuffmanDecoderInit() {
	fixedOnce.Do(func() {
		var lengths [288]int
		for i := 0; i < 144; i++ {
			lengths[i] = 8
		}
		for i := 144; i < 256; i++ {
			lengths[i] = 9
		}
		for i := 256; i < 280; i++ {
			lengths[i] = 7
		}
		for i := 280; i < 288; i++ {
			lengths[i] = 8
		}
		fixedHuffmanDecoder.init(lengths[:])
	})
}
