/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: magic.go
Description: Magic-signature and zlib-stream probes for gap contents. Identifies known
container/compression signatures at gap heads and attempts bounded decompression of
plausible zlib streams to surface hidden embedded payloads.
*/

package gaps

import (
	"bytes"
	"compress/zlib"
	"io"
)

// magicSignature is a known file/stream signature checked at gap heads
type magicSignature struct {
	prefix []byte
	name   string
}

var magicTable = []magicSignature{
	{[]byte{0x1f, 0x8b}, "gzip"},
	{[]byte{0x78, 0x01}, "zlib (no/low compression)"},
	{[]byte{0x78, 0x9c}, "zlib (default)"},
	{[]byte{0x78, 0xda}, "zlib (max)"},
	{[]byte("PK\x03\x04"), "zip"},
	{[]byte("Rar!\x1a\x07\x00"), "rar"},
	{[]byte("7z\xbc\xaf\x27\x1c"), "7z"},
	{[]byte("%PDF"), "pdf"},
	{[]byte("\x89PNG"), "png"},
	{[]byte("JFIF"), "jpeg (jfif)"},
	{[]byte("Exif"), "jpeg (exif)"},
}

// DetectMagic returns the names of all known signatures the buffer starts with
func DetectMagic(buf []byte) []string {
	var hits []string
	for _, sig := range magicTable {
		if bytes.HasPrefix(buf, sig.prefix) {
			hits = append(hits, sig.name)
		}
	}
	return hits
}

// IsZlibHeader checks the CMF/FLG pair of a candidate zlib stream: deflate
// method in the low CMF nibble and a (CMF<<8 | FLG) value divisible by 31
func IsZlibHeader(cmf, flg byte) bool {
	if cmf&0x0f != 8 {
		return false
	}
	return (uint32(cmf)<<8+uint32(flg))%31 == 0
}

// ProbeZlib attempts a best-effort decompression of the gap head and returns
// the number of decompressed bytes, or 0 if the probe fails. Output is capped
// at maxOut so an adversarial stream cannot balloon memory.
func ProbeZlib(buf []byte, window, maxOut int) int {
	if len(buf) < 2 || !IsZlibHeader(buf[0], buf[1]) {
		return 0
	}
	if window > 0 && len(buf) > window {
		buf = buf[:window]
	}
	r, err := zlib.NewReader(bytes.NewReader(buf))
	if err != nil {
		return 0
	}
	defer r.Close()

	// Truncated streams still yield their prefix; count whatever came out.
	n, _ := io.Copy(io.Discard, io.LimitReader(r, int64(maxOut)))
	return int(n)
}
