// Copyright 2009 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Derived from Go stdlib compress/flate/inflate.go, restructured from the
// pull (io.Reader) model into a push state machine: input arrives in caller
// chosen chunks via Decompress, every bit-level read suspends losslessly
// when under-buffered, and the decoder accounts for exactly which input
// bytes the stream consumed.

package flate

import "math/bits"

const (
	maxNumLit      = 286
	maxNumDist     = 30
	numCodes       = 19 // number of codes in the code-length alphabet
	endBlockMarker = 256
	maxMatchOffset = 1 << 15
)

// DecoderState identifies where in the stream the decompressor currently
// is. Suspension is orthogonal: a decoder waiting for input stays in the
// state it suspended in (see Decompressor.NeedsInput).
type DecoderState int

const (
	// StateBlockHeader: between blocks, or inside a dynamic block's
	// code-table header.
	StateBlockHeader DecoderState = iota
	// StateStoredBlock: copying a stored block's raw payload.
	StateStoredBlock
	// StateHuffmanBlock: inside the symbol loop of a fixed or dynamic
	// Huffman block.
	StateHuffmanBlock
	// StateDone: the final block completed. Terminal; later input is
	// recorded as unused data.
	StateDone
	// StateError: a fatal decode error occurred. Terminal.
	StateError
)

func (s DecoderState) String() string {
	switch s {
	case StateBlockHeader:
		return "block-header"
	case StateStoredBlock:
		return "stored-block"
	case StateHuffmanBlock:
		return "huffman-block"
	case StateDone:
		return "done"
	case StateError:
		return "error"
	}
	return "unknown"
}

// Sub-states of the Huffman symbol loop. A suspension in the middle of a
// symbol records which half-read field to resume at.
const (
	stateInit = iota
	stateLenExtra
	stateDist
	stateDistExtra
	stateDict
)

// Phases of the dynamic block header.
const (
	dynCounts = iota
	dynCodeLens
	dynLens
)

// dynHeaderParser carries the resumable parse state of a dynamic block
// header across suspensions.
type dynHeaderParser struct {
	phase int
	nlit  int
	ndist int
	nclen int
	cidx  int // next code-length-alphabet entry
	i     int // next literal/distance length slot

	// Pending repeat code waiting for its extra bits.
	pending bool
	repBase int
	repBits uint
	repVal  int
}

// Decompressor decodes a raw DEFLATE stream fed to it in chunks.
//
// It is a pure state machine: Decompress never blocks, drives decoding as
// far as buffered input allows and returns the newly produced bytes. The
// result is independent of how the input is partitioned, down to feeding
// one byte at a time. A Decompressor is not safe for concurrent use;
// independent instances share nothing.
type Decompressor struct {
	br bitReader

	// Huffman decoders for literal/length, distance.
	h1, h2 huffmanDecoder

	// Length arrays used to define Huffman codes.
	bits     *[maxNumLit + maxNumDist]int
	codebits *[numCodes]int

	// Output history and staging.
	dict dictDecoder

	// Next step in the decompression, and decompression state.
	step       func(*Decompressor)
	stepState  int
	state      DecoderState
	dyn        dynHeaderParser
	final      bool
	atBoundary bool // no bits of the next block header consumed yet
	wantMore   bool // last drive ended in suspension
	eof        bool
	err        error

	hl, hd   *huffmanDecoder
	copyLen  int
	copyDist int
	lenExtra uint
	distCode int

	unused []byte

	// OnBlockEnd, if set, is called at every block boundary with the
	// block's final flag. BytesConsumed, BitsConsumed and TotalOut are
	// exact at callback time, which is what makes the hook usable for
	// recording resume checkpoints.
	OnBlockEnd func(final bool)
}

// NewDecompressor returns a Decompressor positioned at the start of a raw
// DEFLATE stream.
func NewDecompressor() *Decompressor {
	return NewDecompressorDict(nil)
}

// NewDecompressorDict is like NewDecompressor but primes the sliding window
// with a preset dictionary, of which the last 32 KiB are retained.
func NewDecompressorDict(dict []byte) *Decompressor {
	fixedHuffmanDecoderInit()

	z := &Decompressor{
		bits:     new([maxNumLit + maxNumDist]int),
		codebits: new([numCodes]int),
	}
	z.step = (*Decompressor).nextBlock
	z.atBoundary = true
	z.dict.init(maxMatchOffset, dict)
	return z
}

// Reset returns the Decompressor to the start of a new stream, reusing its
// buffers. OnBlockEnd is preserved.
func (z *Decompressor) Reset(dict []byte) {
	onBlockEnd := z.OnBlockEnd
	br := z.br
	br.reset()
	*z = Decompressor{
		br:       br,
		bits:     z.bits,
		codebits: z.codebits,
		dict:     z.dict,
	}
	z.OnBlockEnd = onBlockEnd
	z.step = (*Decompressor).nextBlock
	z.atBoundary = true
	z.dict.init(maxMatchOffset, dict)
}

// Decompress feeds chunk to the decoder and returns the bytes it was able
// to produce. A nil error with no output means more input is needed. After
// the final block completes, fed bytes are collected verbatim in
// UnusedData and never consumed. A fatal decode error is terminal and is
// returned by every subsequent call.
func (z *Decompressor) Decompress(chunk []byte) ([]byte, error) {
	if z.err != nil {
		return nil, z.err
	}
	if z.eof {
		z.unused = append(z.unused, chunk...)
		return nil, nil
	}
	z.br.feed(chunk)
	return z.run()
}

// Flush reports any remaining output. It succeeds only when the stream is
// complete or stopped exactly between two blocks; a stream cut mid-block
// fails with ErrUnexpectedEOD, which is terminal.
func (z *Decompressor) Flush() ([]byte, error) {
	if z.err != nil {
		return nil, z.err
	}
	var out []byte
	if !z.eof {
		var err error
		if out, err = z.run(); err != nil {
			return out, err
		}
	}
	if z.eof || z.atBoundary {
		return out, nil
	}
	z.fail(ErrUnexpectedEOD)
	return out, z.err
}

// EOF reports whether the final block's end-of-block marker was reached.
func (z *Decompressor) EOF() bool { return z.eof }

// NeedsInput reports whether the decoder is suspended waiting for more
// input to make progress.
func (z *Decompressor) NeedsInput() bool { return z.wantMore }

// State reports the decoder's position in the stream.
func (z *Decompressor) State() DecoderState { return z.state }

// UnusedData returns the input bytes fed after the end of the stream,
// verbatim and in order.
func (z *Decompressor) UnusedData() []byte { return z.unused }

// BytesConsumed reports how many input bytes the stream used for output or
// block framing. Mid-stream a byte counts only once its last bit was read;
// the byte holding the final block's last code counts fully, its top bits
// being padding. Unused data is never counted.
func (z *Decompressor) BytesConsumed() int64 { return z.br.bytesRead() }

// BitsConsumed is BytesConsumed at bit precision, including discarded
// byte-alignment padding.
func (z *Decompressor) BitsConsumed() int64 { return z.br.bitsRead() }

// TotalOut reports the total number of decompressed bytes produced.
func (z *Decompressor) TotalOut() int64 { return z.dict.totalWritten }

// Window returns a copy of the current sliding window in output order,
// oldest byte first: the decompressed history a resumed decoder would need
// as its preset dictionary.
func (z *Decompressor) Window() []byte { return z.dict.window() }

// run steps the state machine until it suspends, errors or finishes,
// draining produced output after every step.
func (z *Decompressor) run() ([]byte, error) {
	var out []byte
	for {
		z.step(z)
		if b := z.dict.readFlush(); len(b) > 0 {
			out = append(out, b...)
		}
		if z.err == errInsufficientInput {
			z.err = nil
			z.wantMore = true
			return out, nil
		}
		z.wantMore = false
		if z.err != nil {
			return out, z.err
		}
		if z.eof {
			z.unused = append(z.unused, z.br.rest()...)
			return out, nil
		}
	}
}

// fail records a fatal error; the decoder is terminal afterwards.
func (z *Decompressor) fail(reason error) {
	z.err = &CorruptInputError{Offset: z.br.bytesRead(), Reason: reason}
	z.state = StateError
}

// symErr routes a readSym failure: suspension propagates, anything else is
// fatal.
func (z *Decompressor) symErr(err error) {
	if err == errInsufficientInput {
		z.err = err
		return
	}
	z.fail(err)
}

func (f *Decompressor) nextBlock() {
	f.state = StateBlockHeader
	v, err := f.br.readBits(3)
	if err != nil {
		f.err = err
		return
	}
	f.atBoundary = false
	f.final = v&1 == 1
	switch v >> 1 {
	case 0:
		f.state = StateStoredBlock
		f.step = (*Decompressor).storedHeader
		f.storedHeader()
	case 1:
		fixedHuffmanDecoderInit()
		f.hl = &fixedHuffmanDecoder
		f.hd = nil
		f.state = StateHuffmanBlock
		f.stepState = stateInit
		f.step = (*Decompressor).huffmanBlock
		f.huffmanBlock()
	case 2:
		f.dyn = dynHeaderParser{}
		f.step = (*Decompressor).dynamicHeader
		f.dynamicHeader()
	default:
		f.fail(ErrInvalidBlockType)
	}
}

// dynamicHeader parses HLIT/HDIST/HCLEN, the code-length code, and the
// run-length-encoded literal/distance code lengths, then builds both
// tables. Every field read is atomic under suspension, and the parser
// records its phase so a retry resumes exactly where it stopped.
func (f *Decompressor) dynamicHeader() {
	d := &f.dyn
	switch d.phase {
	case dynCounts:
		v, err := f.br.readBits(5 + 5 + 4)
		if err != nil {
			f.err = err
			return
		}
		d.nlit = int(v&0x1F) + 257
		d.ndist = int(v>>5&0x1F) + 1
		d.nclen = int(v>>10&0xF) + 4
		if d.nlit > maxNumLit || d.ndist > maxNumDist {
			f.fail(ErrInvalidDynamicHeader)
			return
		}
		d.phase = dynCodeLens
		fallthrough

	case dynCodeLens:
		for d.cidx < d.nclen {
			v, err := f.br.readBits(3)
			if err != nil {
				f.err = err
				return
			}
			f.codebits[codeOrder[d.cidx]] = int(v)
			d.cidx++
		}
		for i := d.nclen; i < numCodes; i++ {
			f.codebits[codeOrder[i]] = 0
		}
		if !f.h1.init(f.codebits[0:]) {
			f.fail(ErrInvalidDynamicHeader)
			return
		}
		d.phase = dynLens
		fallthrough

	case dynLens:
		n := d.nlit + d.ndist
		for d.i < n {
			if d.pending {
				v, err := f.br.readBits(d.repBits)
				if err != nil {
					f.err = err
					return
				}
				rep := d.repBase + int(v)
				if d.i+rep > n {
					f.fail(ErrInvalidDynamicHeader)
					return
				}
				for j := 0; j < rep; j++ {
					f.bits[d.i] = d.repVal
					d.i++
				}
				d.pending = false
				continue
			}
			x, err := f.h1.readSym(&f.br)
			if err != nil {
				f.symErr(err)
				return
			}
			if x < 16 {
				f.bits[d.i] = x
				d.i++
				continue
			}
			switch x {
			case 16:
				if d.i == 0 {
					f.fail(ErrInvalidDynamicHeader)
					return
				}
				d.pending, d.repBase, d.repBits, d.repVal = true, 3, 2, f.bits[d.i-1]
			case 17:
				d.pending, d.repBase, d.repBits, d.repVal = true, 3, 3, 0
			default: // 18
				d.pending, d.repBase, d.repBits, d.repVal = true, 11, 7, 0
			}
		}

		if !f.h1.init(f.bits[0:d.nlit]) || !f.h2.init(f.bits[d.nlit:d.nlit+d.ndist]) {
			f.fail(ErrInvalidDynamicHeader)
			return
		}

		// The end-of-block code must be decodable before the symbol loop
		// demands min bits beyond the end of the stream.
		if f.h1.min < f.bits[endBlockMarker] {
			f.h1.min = f.bits[endBlockMarker]
		}

		f.hl = &f.h1
		f.hd = &f.h2
		f.state = StateHuffmanBlock
		f.stepState = stateInit
		f.step = (*Decompressor).huffmanBlock
		f.huffmanBlock()
	}
}

// codeOrder is the fixed permutation in which the code-length alphabet's
// lengths appear in a dynamic header.
var codeOrder = [numCodes]int{16, 17, 18, 0, 8, 7, 9, 6, 10, 5, 11, 4, 12, 3, 13, 2, 14, 1, 15}

// huffmanBlock decodes the symbol loop of a fixed or dynamic block. It
// runs until end-of-block, a fatal error, a suspension (with stepState
// recording which half-read field to resume at), or a full window needing
// a drain.
func (f *Decompressor) huffmanBlock() {
	switch f.stepState {
	case stateInit:
		goto readLiteral
	case stateLenExtra:
		goto lenExtra
	case stateDist:
		goto readDistance
	case stateDistExtra:
		goto distExtra
	case stateDict:
		goto copyHistory
	}

readLiteral:
	{
		v, err := f.hl.readSym(&f.br)
		if err != nil {
			f.stepState = stateInit
			f.symErr(err)
			return
		}
		switch {
		case v < 256:
			f.dict.writeByte(byte(v))
			if f.dict.availWrite() == 0 {
				f.stepState = stateInit
				return
			}
			goto readLiteral
		case v == 256:
			f.finishBlock()
			return
		// Length bands, RFC 1951 3.2.5: base length and extra bits both
		// follow from the symbol arithmetically.
		case v < 265:
			f.copyLen = v - (257 - 3)
			f.lenExtra = 0
		case v < 269:
			f.copyLen = v*2 - (265*2 - 11)
			f.lenExtra = 1
		case v < 273:
			f.copyLen = v*4 - (269*4 - 19)
			f.lenExtra = 2
		case v < 277:
			f.copyLen = v*8 - (273*8 - 35)
			f.lenExtra = 3
		case v < 281:
			f.copyLen = v*16 - (277*16 - 67)
			f.lenExtra = 4
		case v < 285:
			f.copyLen = v*32 - (281*32 - 131)
			f.lenExtra = 5
		case v < maxNumLit:
			f.copyLen = 258
			f.lenExtra = 0
		default:
			f.fail(ErrInvalidCode)
			return
		}
	}

lenExtra:
	if f.lenExtra > 0 {
		v, err := f.br.readBits(f.lenExtra)
		if err != nil {
			f.stepState = stateLenExtra
			f.err = err
			return
		}
		f.copyLen += int(v)
		f.lenExtra = 0
	}

readDistance:
	{
		if f.hd == nil {
			// Fixed distance codes are all 5 bits, MSB-first.
			v, err := f.br.readBits(5)
			if err != nil {
				f.stepState = stateDist
				f.err = err
				return
			}
			f.distCode = int(bits.Reverse8(uint8(v << 3)))
		} else {
			v, err := f.hd.readSym(&f.br)
			if err != nil {
				f.stepState = stateDist
				f.symErr(err)
				return
			}
			f.distCode = v
		}
	}

distExtra:
	{
		switch dist := f.distCode; {
		case dist < 4:
			f.copyDist = dist + 1
		case dist < maxNumDist:
			nb := uint(dist-2) >> 1
			extra := (dist & 1) << nb
			v, err := f.br.readBits(nb)
			if err != nil {
				f.stepState = stateDistExtra
				f.err = err
				return
			}
			f.copyDist = 1<<(nb+1) + 1 + extra + int(v)
		default:
			f.fail(ErrInvalidCode)
			return
		}

		if f.copyDist > f.dict.histSize() {
			f.fail(ErrInvalidBackReference)
			return
		}
	}

copyHistory:
	{
		cnt := f.dict.tryWriteCopy(f.copyDist, f.copyLen)
		if cnt == 0 {
			cnt = f.dict.writeCopy(f.copyDist, f.copyLen)
		}
		f.copyLen -= cnt

		if f.dict.availWrite() == 0 || f.copyLen > 0 {
			f.stepState = stateDict
			return
		}
		goto readLiteral
	}
}

// storedHeader byte-aligns and checks LEN/NLEN. Both fields are read in
// one 32-bit pull so a suspension between them cannot occur.
func (f *Decompressor) storedHeader() {
	f.br.alignToByte()
	v, err := f.br.readBits(32)
	if err != nil {
		f.err = err
		return
	}
	n := uint16(v)
	if uint16(v>>16) != ^n {
		f.fail(ErrStoredLengthMismatch)
		return
	}
	f.copyLen = int(n)
	f.step = (*Decompressor).copyStored
	if n == 0 {
		f.finishBlock()
		return
	}
	f.copyStored()
}

// copyStored moves the stored block's raw payload into the window,
// resuming across both input shortage and window drains.
func (f *Decompressor) copyStored() {
	for f.copyLen > 0 {
		buf := f.dict.writeSlice()
		if len(buf) > f.copyLen {
			buf = buf[:f.copyLen]
		}
		n := f.br.readBytes(buf)
		if n == 0 {
			f.err = errInsufficientInput
			return
		}
		f.copyLen -= n
		f.dict.writeMark(n)
		if f.dict.availWrite() == 0 {
			return
		}
	}
	f.finishBlock()
}

func (f *Decompressor) finishBlock() {
	if f.OnBlockEnd != nil {
		f.OnBlockEnd(f.final)
	}
	if f.final {
		f.eof = true
		f.state = StateDone
		return
	}
	f.atBoundary = true
	f.state = StateBlockHeader
	f.step = (*Decompressor).nextBlock
}
