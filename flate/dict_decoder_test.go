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
	"bytes"
	"strings"
	"testing"
)

// TestDictDecoder drives the window through literals and overlapping
// copies, draining as it fills, and checks the emitted stream against a
// straightforward reference simulation.
func TestDictDecoder(t *testing.T) {
	t.Parallel()

	var dd dictDecoder
	dd.init(1<<11, nil)

	var got bytes.Buffer
	var want []byte

	drain := func() {
		if dd.availWrite() == 0 {
			got.Write(dd.readFlush())
		}
	}
	writeString := func(str string) {
		for len(str) > 0 {
			cnt := copy(dd.writeSlice(), str)
			str = str[cnt:]
			dd.writeMark(cnt)
			drain()
		}
	}
	wantString := func(str string) { want = append(want, str...) }
	writeCopy := func(dist, length int) {
		for length > 0 {
			cnt := dd.tryWriteCopy(dist, length)
			if cnt == 0 {
				cnt = dd.writeCopy(dist, length)
			}
			length -= cnt
			drain()
		}
	}
	wantCopy := func(dist, length int) {
		for i := 0; i < length; i++ {
			want = append(want, want[len(want)-dist])
		}
	}

	const fox = "The quick brown fox jumped over the lazy dog!\n"

	writeString(fox)
	wantString(fox)

	// Overlapping copy shorter than the distance.
	writeCopy(len(fox), 10)
	wantCopy(len(fox), 10)

	// Run-length style copy: distance 1 replicates the last byte.
	writeCopy(1, 100)
	wantCopy(1, 100)

	// Distance 4 over a region written partly by the copy itself.
	writeCopy(4, 59)
	wantCopy(4, 59)

	// Push well past the window size to force wraps and mid-copy drains.
	writeString(strings.Repeat("x", 1<<10))
	wantString(strings.Repeat("x", 1<<10))
	hs := dd.histSize()
	writeCopy(hs, hs)
	wantCopy(hs, hs)
	writeString(fox)
	wantString(fox)
	writeCopy(2048, 500)
	wantCopy(2048, 500)

	got.Write(dd.readFlush())

	if !bytes.Equal(got.Bytes(), want) {
		t.Fatalf("emitted stream mismatch: got %d bytes, want %d", got.Len(), len(want))
	}
	if dd.totalWritten != int64(len(want)) {
		t.Fatalf("totalWritten = %d, want %d", dd.totalWritten, len(want))
	}
}

func TestDictDecoderWindow(t *testing.T) {
	t.Parallel()

	t.Run("partial", func(t *testing.T) {
		t.Parallel()
		var dd dictDecoder
		dd.init(16, nil)
		copy(dd.writeSlice(), "abcde")
		dd.writeMark(5)
		if got := dd.window(); string(got) != "abcde" {
			t.Fatalf("window() = %q, want %q", got, "abcde")
		}
		if dd.histSize() != 5 {
			t.Fatalf("histSize() = %d, want 5", dd.histSize())
		}
	})

	t.Run("wrapped", func(t *testing.T) {
		t.Parallel()
		var dd dictDecoder
		dd.init(8, nil)
		for _, s := range []string{"01234567", "89ab"} {
			for i := 0; i < len(s); i++ {
				dd.writeByte(s[i])
				if dd.availWrite() == 0 {
					dd.readFlush()
				}
			}
		}
		if got := dd.window(); string(got) != "456789ab" {
			t.Fatalf("window() = %q, want %q", got, "456789ab")
		}
		if dd.histSize() != 8 {
			t.Fatalf("histSize() = %d, want 8", dd.histSize())
		}
	})

	t.Run("preset-dict", func(t *testing.T) {
		t.Parallel()
		var dd dictDecoder
		dd.init(8, []byte("0123456789"))
		// Only the last 8 bytes of a longer dictionary are retained.
		if got := dd.window(); string(got) != "23456789" {
			t.Fatalf("window() = %q, want %q", got, "23456789")
		}
		if dd.histSize() != 8 {
			t.Fatalf("histSize() = %d, want 8", dd.histSize())
		}
	})
}
