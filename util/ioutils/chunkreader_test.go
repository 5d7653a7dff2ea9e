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

package ioutils

import (
	"bytes"
	"io"
	"testing"
)

func TestChunkReader(t *testing.T) {
	tests := []struct {
		name      string
		data      []byte
		chunkSize int
		expected  [][]byte
	}{
		{
			name:      "even split",
			data:      []byte("abcdef"),
			chunkSize: 3,
			expected:  [][]byte{[]byte("abc"), []byte("def")},
		},
		{
			name:      "short tail",
			data:      []byte("abcdefg"),
			chunkSize: 3,
			expected:  [][]byte{[]byte("abc"), []byte("def"), []byte("g")},
		},
		{
			name:      "single oversized chunk",
			data:      []byte("abc"),
			chunkSize: 16,
			expected:  [][]byte{[]byte("abc")},
		},
		{
			name:      "byte at a time",
			data:      []byte("ab"),
			chunkSize: 1,
			expected:  [][]byte{[]byte("a"), []byte("b")},
		},
		{
			name:      "empty input",
			data:      nil,
			chunkSize: 4,
			expected:  nil,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			cr, err := NewChunkReader(bytes.NewReader(tc.data), tc.chunkSize)
			if err != nil {
				t.Fatalf("NewChunkReader: %v", err)
			}
			var got [][]byte
			for {
				chunk, err := cr.Next()
				if err == io.EOF {
					break
				}
				if err != nil {
					t.Fatalf("Next: %v", err)
				}
				got = append(got, append([]byte(nil), chunk...))
			}
			if len(got) != len(tc.expected) {
				t.Fatalf("chunk count. Expected %d, Actual %d", len(tc.expected), len(got))
			}
			for i := range got {
				if !bytes.Equal(got[i], tc.expected[i]) {
					t.Fatalf("chunk %d. Expected %q, Actual %q", i, tc.expected[i], got[i])
				}
			}
		})
	}
}

func TestChunkReaderInvalidSize(t *testing.T) {
	if _, err := NewChunkReader(bytes.NewReader(nil), 0); err == nil {
		t.Fatal("expected error for zero chunk size")
	}
}
