/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: lenpref.go
Description: Length-prefix scanner for the Akaylee RuleMiner. Scans for 2-byte
little-endian length values followed by that many mostly-printable text units in
UTF-16LE or ASCII. The prefix width and length unit are scan policies, not assumed
format truths - the container may use neither.
*/

package sizefields

import (
	"encoding/binary"

	"github.com/kleascm/akaylee-ruleminer/pkg/interfaces"
	"github.com/kleascm/akaylee-ruleminer/pkg/regions"
)

// ExtractLengthPrefixed runs both 2-byte prefix scans and returns the hits
// in offset order (UTF-16LE hits before ASCII hits at equal offsets)
func (e *Extractor) ExtractLengthPrefixed(data []byte) []interfaces.LengthPrefixedString {
	out := e.scanLenPrefUTF16LE(data)
	return append(out, e.scanLenPrefASCII(data)...)
}

// printableUTF16 reports whether a code unit is a printable BMP scalar value
func printableUTF16(unit uint16) bool {
	if unit == 0 {
		return false
	}
	if unit >= 0x20 && unit <= 0xd7ff {
		return true
	}
	return unit >= 0xe000 && unit <= 0xfffd
}

// scanLenPrefUTF16LE finds 2-byte lengths followed by length UTF-16LE units
// of which at least the configured ratio are printable
func (e *Extractor) scanLenPrefUTF16LE(data []byte) []interfaces.LengthPrefixedString {
	var out []interfaces.LengthPrefixedString
	for i := 0; i+2 < len(data); i += e.config.LenPrefixStep {
		length := int(binary.LittleEndian.Uint16(data[i : i+2]))
		if length < e.config.LenPrefixMin || length > e.config.LenPrefixMax {
			continue
		}
		start := i + 2
		end := start + length*2
		if end > len(data) {
			continue
		}
		ok := 0
		for j := start; j < end; j += 2 {
			if printableUTF16(binary.LittleEndian.Uint16(data[j : j+2])) {
				ok++
			}
		}
		ratio := float64(ok) / float64(length)
		if ratio < e.config.MinPrintableRatio {
			continue
		}
		out = append(out, interfaces.LengthPrefixedString{
			Offset:         i,
			Length:         length,
			Encoding:       interfaces.EncodingUTF16LE,
			PrintableRatio: ratio,
			Text:           regions.DecodeUTF16(data[start:end], interfaces.EncodingUTF16LE),
		})
	}
	return out
}

// scanLenPrefASCII is the single-byte-unit counterpart
func (e *Extractor) scanLenPrefASCII(data []byte) []interfaces.LengthPrefixedString {
	var out []interfaces.LengthPrefixedString
	for i := 0; i+2 < len(data); i += e.config.LenPrefixStep {
		length := int(binary.LittleEndian.Uint16(data[i : i+2]))
		if length < e.config.LenPrefixMin || length > e.config.LenPrefixMax {
			continue
		}
		start := i + 2
		end := start + length
		if end > len(data) {
			continue
		}
		ok := 0
		for _, b := range data[start:end] {
			if b >= 0x20 && b <= 0x7e {
				ok++
			}
		}
		ratio := float64(ok) / float64(length)
		if ratio < e.config.MinPrintableRatio {
			continue
		}
		out = append(out, interfaces.LengthPrefixedString{
			Offset:         i,
			Length:         length,
			Encoding:       interfaces.EncodingASCII,
			PrintableRatio: ratio,
			Text:           lossyUTF8(data[start:end]),
		})
	}
	return out
}
