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

import (
	"errors"
	"fmt"
)

// Fatal decode errors. Once one of these is returned the decompressor is in
// a terminal error state and every later call returns the same error. They
// are always wrapped in a *CorruptInputError carrying the input offset, so
// match with errors.Is.
var (
	// ErrInvalidBlockType is returned for the reserved block type 0b11.
	ErrInvalidBlockType = errors.New("flate: invalid block type")

	// ErrStoredLengthMismatch is returned when a stored block's NLEN field
	// is not the one's complement of LEN.
	ErrStoredLengthMismatch = errors.New("flate: stored block length check failed")

	// ErrInvalidDynamicHeader is returned for malformed dynamic block
	// headers: symbol counts out of range, repeat codes running past the
	// declared lengths, a repeat-previous with no previous length, or code
	// lengths that do not form a valid Huffman code.
	ErrInvalidDynamicHeader = errors.New("flate: invalid dynamic block header")

	// ErrInvalidCode is returned when the bitstream contains a Huffman code
	// with no assigned symbol.
	ErrInvalidCode = errors.New("flate: invalid huffman code")

	// ErrInvalidBackReference is returned when a match distance reaches
	// before the start of the output produced so far.
	ErrInvalidBackReference = errors.New("flate: invalid back-reference distance")

	// ErrUnexpectedEOD is returned by Flush when the stream stopped in the
	// middle of a block or symbol rather than at the final block's end.
	ErrUnexpectedEOD = errors.New("flate: unexpected end of deflate data")
)

// errInsufficientInput suspends the state machine: the current step cannot
// make progress until more bytes are fed. It never escapes the package;
// Decompress translates it into a no-progress return.
var errInsufficientInput = errors.New("flate: insufficient input")

// CorruptInputError wraps a fatal decode error with the number of input
// bytes consumed when it was detected.
type CorruptInputError struct {
	Offset int64
	Reason error
}

func (e *CorruptInputError) Error() string {
	return fmt.Sprintf("%v before offset %d", e.Reason, e.Offset)
}

func (e *CorruptInputError) Unwrap() error { return e.Reason }
