/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: magic_test.go
Description: Tests for magic-signature detection and the bounded zlib probe.
*/

package gaps_test

import (
	"bytes"
	"compress/zlib"
	"testing"

	"github.com/kleascm/akaylee-ruleminer/pkg/gaps"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// zlibCompress deflates payload with default compression for probe tests.
func zlibCompress(t *testing.T, payload []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	_, err := w.Write(payload)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

// TestDetectMagic verifies signature matching at the buffer head.
func TestDetectMagic(t *testing.T) {
	assert.Equal(t, []string{"gzip"}, gaps.DetectMagic([]byte{0x1f, 0x8b, 0x08, 0x00}))
	assert.Equal(t, []string{"zlib (default)"}, gaps.DetectMagic([]byte{0x78, 0x9c, 0x01}))
	assert.Equal(t, []string{"zip"}, gaps.DetectMagic([]byte("PK\x03\x04rest")))
	assert.Equal(t, []string{"pdf"}, gaps.DetectMagic([]byte("%PDF-1.4")))
	assert.Empty(t, gaps.DetectMagic([]byte{0x00, 0x01, 0x02}))
	assert.Empty(t, gaps.DetectMagic(nil))
}

// TestIsZlibHeader verifies the CMF/FLG checksum rule.
func TestIsZlibHeader(t *testing.T) {
	assert.True(t, gaps.IsZlibHeader(0x78, 0x9c))
	assert.True(t, gaps.IsZlibHeader(0x78, 0x01))
	assert.True(t, gaps.IsZlibHeader(0x78, 0xda))
	assert.False(t, gaps.IsZlibHeader(0x78, 0x9d), "bad FLG checksum")
	assert.False(t, gaps.IsZlibHeader(0x79, 0x9c), "non-deflate method nibble")
}

// TestProbeZlib verifies that a real zlib stream decompresses to its full
// payload length.
func TestProbeZlib(t *testing.T) {
	payload := bytes.Repeat([]byte("rule-condition "), 100)
	stream := zlibCompress(t, payload)

	n := gaps.ProbeZlib(stream, 4096, 2_000_000)
	assert.Equal(t, len(payload), n)
}

// TestProbeZlibMaxOut verifies that decompressed output is capped at maxOut.
func TestProbeZlibMaxOut(t *testing.T) {
	payload := bytes.Repeat([]byte{0x41}, 10_000)
	stream := zlibCompress(t, payload)

	n := gaps.ProbeZlib(stream, 4096, 1024)
	assert.Equal(t, 1024, n)
}

// TestProbeZlibRejects verifies non-zlib buffers and short buffers return 0.
func TestProbeZlibRejects(t *testing.T) {
	assert.Equal(t, 0, gaps.ProbeZlib([]byte{0x00, 0x00, 0x00}, 4096, 1024))
	assert.Equal(t, 0, gaps.ProbeZlib([]byte{0x78}, 4096, 1024))
	assert.Equal(t, 0, gaps.ProbeZlib(nil, 4096, 1024))
}
