/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: extractor.go
Description: Size-field string extractor for the Akaylee RuleMiner. Scans aligned dwords
for plausible length values, validates that the declared payload fits the buffer, and
recovers bounded string payloads with explicit UTF-8/UTF-16 validity and a confidence
score. Emits NUL-truncated prefixes as alternative candidates.
*/

package sizefields

import (
	"encoding/binary"
	"strings"
	"unicode/utf8"

	"github.com/kleascm/akaylee-ruleminer/pkg/interfaces"
	"github.com/kleascm/akaylee-ruleminer/pkg/regions"
)

// maxDecodedChars caps decoded text retained per candidate; the payload itself
// stays addressable through its offsets.
const maxDecodedChars = 200

// Extractor implements interfaces.SizeFieldExtractor
type Extractor struct {
	config *interfaces.AnalyzerConfig
}

// NewExtractor creates a size-field extractor with the given length policy
func NewExtractor(config *interfaces.AnalyzerConfig) *Extractor {
	return &Extractor{config: config}
}

// Extract scans every aligned dword for a plausible size value followed by a
// payload that fits the buffer. Oversize declared lengths are rejected
// outright; payloads are retained when they decode cleanly under UTF-8 or
// UTF-16LE, or when their null ratio is low enough to suggest content anyway.
func (e *Extractor) Extract(data []byte) []interfaces.SizeFieldCandidate {
	var out []interfaces.SizeFieldCandidate
	for offset := 0; offset+4 <= len(data); offset += 4 {
		value := int(binary.LittleEndian.Uint32(data[offset : offset+4]))
		if value <= e.config.MinDeclaredLength || value >= e.config.MaxDeclaredLength {
			continue
		}
		payloadStart := offset + 4
		if payloadStart+value > len(data) {
			continue
		}
		payload := data[payloadStart : payloadStart+value]

		utf8Valid := utf8.Valid(payload)
		utf16Valid := ValidUTF16LE(payload)
		nullRatio := nullRatioOf(payload)

		if !utf8Valid && !utf16Valid && nullRatio >= e.config.PayloadNullMax {
			continue
		}

		c := interfaces.SizeFieldCandidate{
			SizeOffset:     offset,
			DeclaredLength: value,
			PayloadOffset:  payloadStart,
			UTF8Valid:      utf8Valid,
			UTF16Valid:     utf16Valid,
			NullRatio:      nullRatio,
			Confidence:     confidence(utf8Valid, utf16Valid, nullRatio),
		}
		c.Strings = decodePayload(payload, utf8Valid, utf16Valid)
		out = append(out, c)
	}
	return out
}

// confidence combines decode validity with content density
func confidence(utf8Valid, utf16Valid bool, nullRatio float64) float64 {
	score := 0.0
	if utf8Valid {
		score += 0.5
	}
	if utf16Valid {
		score += 0.5
	}
	if nullRatio < 0.3 {
		score += 0.2
	}
	if score > 1.0 {
		score = 1.0
	}
	return score
}

// decodePayload collects every distinct plausible decoding of the payload:
// whole-payload UTF-8 and UTF-16LE when valid, plus NUL-truncated UTF-8
// prefixes for payloads with embedded terminators. Duplicate text is
// suppressed in first-seen order.
func decodePayload(payload []byte, utf8Valid, utf16Valid bool) []interfaces.DecodedString {
	var out []interfaces.DecodedString
	seen := make(map[string]bool)

	add := func(encoding, text string) {
		text = truncate(text, maxDecodedChars)
		if strings.TrimSpace(text) == "" || seen[text] {
			return
		}
		seen[text] = true
		out = append(out, interfaces.DecodedString{
			Encoding: encoding,
			Text:     text,
			Length:   len([]rune(text)),
		})
	}

	if utf8Valid {
		add("utf-8", string(payload))
	}
	if utf16Valid {
		add("utf-16le", regions.DecodeUTF16(payload, interfaces.EncodingUTF16LE))
	}

	truncations := 0
	for i, b := range payload {
		if b != 0 || i == 0 {
			continue
		}
		add("utf-8 (null-terminated)", lossyUTF8(payload[:i]))
		truncations++
		if truncations == 3 {
			break
		}
	}
	return out
}

// ValidUTF16LE reports whether the payload is well-formed UTF-16LE: even
// length with every surrogate correctly paired
func ValidUTF16LE(payload []byte) bool {
	if len(payload)%2 != 0 {
		return false
	}
	expectLow := false
	for i := 0; i+1 < len(payload); i += 2 {
		unit := uint16(payload[i]) | uint16(payload[i+1])<<8
		isHigh := unit >= 0xd800 && unit <= 0xdbff
		isLow := unit >= 0xdc00 && unit <= 0xdfff
		if expectLow {
			if !isLow {
				return false
			}
			expectLow = false
			continue
		}
		if isLow {
			return false
		}
		if isHigh {
			expectLow = true
		}
	}
	return !expectLow
}

// lossyUTF8 replaces invalid sequences instead of failing
func lossyUTF8(b []byte) string {
	return strings.ToValidUTF8(string(b), "�")
}

func truncate(s string, chars int) string {
	runes := []rune(s)
	if len(runes) <= chars {
		return s
	}
	return string(runes[:chars])
}

func nullRatioOf(payload []byte) float64 {
	if len(payload) == 0 {
		return 0
	}
	nulls := 0
	for _, b := range payload {
		if b == 0 {
			nulls++
		}
	}
	return float64(nulls) / float64(len(payload))
}
