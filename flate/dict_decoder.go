// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Derived from Go stdlib compress/flate/dict_decoder.go. Changes: total
// produced-byte accounting and a snapshot of the window in output order.

package flate

// WindowSize is the DEFLATE history limit: back-references may reach at
// most this many bytes behind the write position.
const WindowSize = 1 << 15

// dictDecoder is the LZ77 sliding window. It doubles as the output staging
// area: the state machine writes literals and match copies into it, and the
// drive loop drains hist[rdPos:wrPos] after every step.
type dictDecoder struct {
	hist []byte

	// Invariant: 0 <= rdPos <= wrPos <= len(hist)
	wrPos int  // next write position
	rdPos int  // hist[:rdPos] already drained
	full  bool // a full window has been written at least once

	totalWritten int64 // produced bytes across all wraps
}

// init (re)initializes the window, optionally preloading a preset
// dictionary of which at most the last WindowSize bytes are kept.
func (dd *dictDecoder) init(size int, dict []byte) {
	*dd = dictDecoder{hist: dd.hist}

	if cap(dd.hist) < size {
		dd.hist = make([]byte, size)
	}
	dd.hist = dd.hist[:size]

	if len(dict) > len(dd.hist) {
		dict = dict[len(dict)-len(dd.hist):]
	}
	dd.wrPos = copy(dd.hist, dict)
	if dd.wrPos == len(dd.hist) {
		dd.wrPos = 0
		dd.full = true
	}
	dd.rdPos = dd.wrPos
}

// histSize reports how far back a reference may legally reach.
func (dd *dictDecoder) histSize() int {
	if dd.full {
		return len(dd.hist)
	}
	return dd.wrPos
}

func (dd *dictDecoder) availRead() int {
	return dd.wrPos - dd.rdPos
}

func (dd *dictDecoder) availWrite() int {
	return len(dd.hist) - dd.wrPos
}

// writeSlice returns a slice of the available buffer to write data to.
// This invariant will be kept: len(s) <= availWrite()
func (dd *dictDecoder) writeSlice() []byte {
	return dd.hist[dd.wrPos:]
}

// writeMark advances the writer pointer by cnt bytes filled into the slice
// returned by writeSlice.
func (dd *dictDecoder) writeMark(cnt int) {
	dd.wrPos += cnt
	dd.totalWritten += int64(cnt)
}

func (dd *dictDecoder) writeByte(c byte) {
	dd.hist[dd.wrPos] = c
	dd.wrPos++
	dd.totalWritten++
}

// writeCopy copies a string at a given (dist, length) to the output.
// It returns the number of bytes copied and may be less than the requested
// length if the available space in the output buffer is too small.
func (dd *dictDecoder) writeCopy(dist, length int) int {
	dstBase := dd.wrPos
	dstPos := dstBase
	srcPos := dstPos - dist
	endPos := dstPos + length
	if endPos > len(dd.hist) {
		endPos = len(dd.hist)
	}

	// Copy possibly overlapping section before destination position.
	if srcPos < 0 {
		srcPos += len(dd.hist)
		dstPos += copy(dd.hist[dstPos:endPos], dd.hist[srcPos:])
		srcPos = 0
	}

	// The bytes copied so far are a valid source for the remainder; runs
	// shorter than dist replicate by repeated doubling.
	for dstPos < endPos {
		dstPos += copy(dd.hist[dstPos:endPos], dd.hist[srcPos:dstPos])
	}

	dd.wrPos = dstPos
	written := dstPos - dstBase
	dd.totalWritten += int64(written)
	return written
}

// tryWriteCopy is the fast path for writeCopy when the copy neither wraps
// the window nor reaches before its start.
func (dd *dictDecoder) tryWriteCopy(dist, length int) int {
	dstPos := dd.wrPos
	endPos := dstPos + length
	if dstPos < dist || endPos > len(dd.hist) {
		return 0
	}
	dstBase := dstPos
	srcPos := dstPos - dist

	for dstPos < endPos {
		dstPos += copy(dd.hist[dstPos:endPos], dd.hist[srcPos:dstPos])
	}

	dd.wrPos = dstPos
	written := dstPos - dstBase
	dd.totalWritten += int64(written)
	return written
}

// readFlush returns the undrained output and marks it read. The returned
// slice aliases the window; callers copy it out before the next write.
func (dd *dictDecoder) readFlush() []byte {
	toRead := dd.hist[dd.rdPos:dd.wrPos]
	dd.rdPos = dd.wrPos
	if dd.wrPos == len(dd.hist) {
		dd.wrPos, dd.rdPos = 0, 0
		dd.full = true
	}
	return toRead
}

// window returns a copy of the current history in output order: the oldest
// retained byte first, the most recent last.
func (dd *dictDecoder) window() []byte {
	if !dd.full {
		return append([]byte(nil), dd.hist[:dd.wrPos]...)
	}
	w := make([]byte, 0, len(dd.hist))
	w = append(w, dd.hist[dd.wrPos:]...)
	return append(w, dd.hist[:dd.wrPos]...)
}
