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

// Package flate decompresses raw DEFLATE streams (RFC 1951, no zlib or
// gzip framing) in push mode.
//
// Unlike compress/flate, which pulls compressed bytes through an
// io.Reader, a Decompressor is handed input in chunks of whatever size the
// caller happens to have. Each Decompress call makes exactly as much
// progress as the buffered bits allow and returns the newly produced
// output; decoding results are identical for every partition of the same
// input, down to single-byte feeding.
//
// The decoder additionally accounts for precisely which input belonged to
// the stream: BytesConsumed and BitsConsumed report the consumed prefix,
// UnusedData returns any bytes fed past the final block, and OnBlockEnd
// exposes block boundaries for checkpointing.
package flate
