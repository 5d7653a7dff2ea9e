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
	"bytes"
	"testing"

	"github.com/klauspost/compress/flate"
)

// DeflateStream compresses data into a raw DEFLATE stream at the given
// level. Level flate.NoCompression yields stored blocks, higher levels
// fixed or dynamic Huffman blocks as the encoder sees fit.
func DeflateStream(t testing.TB, data []byte, level int) []byte {
	t.Helper()
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, level)
	if err != nil {
		t.Fatalf("flate.NewWriter(level=%d): %v", level, err)
	}
	if _, err := w.Write(data); err != nil {
		t.Fatalf("compress write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("compress close: %v", err)
	}
	return buf.Bytes()
}

// MultiBlockStream compresses each part and flushes between them, forcing
// a block boundary (an empty stored block) after every part except the
// last. The stream decompresses to the concatenation of the parts.
func MultiBlockStream(t testing.TB, parts [][]byte, level int) []byte {
	t.Helper()
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, level)
	if err != nil {
		t.Fatalf("flate.NewWriter(level=%d): %v", level, err)
	}
	for i, p := range parts {
		if _, err := w.Write(p); err != nil {
			t.Fatalf("compress write part %d: %v", i, err)
		}
		if i < len(parts)-1 {
			if err := w.Flush(); err != nil {
				t.Fatalf("compress flush part %d: %v", i, err)
			}
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("compress close: %v", err)
	}
	return buf.Bytes()
}
