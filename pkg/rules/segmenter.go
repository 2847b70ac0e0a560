/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: segmenter.go
Description: Rule segmenter for the Akaylee RuleMiner. Groups extracted text regions
into logical rule records anchored on bracket-delimited header markers, then derives
per-record email and keyword fields with OCR-noise normalization heuristics.
*/

package rules

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/kleascm/akaylee-ruleminer/pkg/interfaces"
)

var emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)

// Segmenter implements interfaces.RuleSegmenter
type Segmenter struct {
	config          *interfaces.AnalyzerConfig
	transportTokens map[string]bool
}

// NewSegmenter creates a rule segmenter with the given policy
func NewSegmenter(config *interfaces.AnalyzerConfig) *Segmenter {
	transport := make(map[string]bool, len(config.TransportTokens))
	for _, tok := range config.TransportTokens {
		transport[strings.ToUpper(tok)] = true
	}
	return &Segmenter{config: config, transportTokens: transport}
}

// IsHeader reports whether a decoded text opens a new rule record: it starts
// with '[' and closes the bracket within the configured prefix window. The
// window is a policy constant, not a format guarantee.
func (s *Segmenter) IsHeader(text string) bool {
	if !strings.HasPrefix(text, "[") {
		return false
	}
	close := strings.Index(text, "]")
	return close != -1 && close < s.config.HeaderWindow
}

// Segment walks regions in offset order. A header region closes the open
// record (if any) and opens a new one; regions before the first header form
// the preamble and attach to no record.
func (s *Segmenter) Segment(textRegions []interfaces.TextRegion) *interfaces.Segmentation {
	ordered := make([]interfaces.TextRegion, len(textRegions))
	copy(ordered, textRegions)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Start < ordered[j].Start
	})

	seg := &interfaces.Segmentation{}
	var open []interfaces.TextRegion
	var openTitle string

	closeRecord := func() {
		if openTitle == "" {
			return
		}
		seg.Records = append(seg.Records, s.buildRecord(openTitle, open))
		open = nil
		openTitle = ""
	}

	for _, region := range ordered {
		if s.IsHeader(region.Text) {
			closeRecord()
			openTitle = region.Text
			open = []interfaces.TextRegion{region}
			continue
		}
		if openTitle == "" {
			seg.Preamble = append(seg.Preamble, region)
			continue
		}
		open = append(open, region)
	}
	closeRecord()
	return seg
}

// buildRecord derives emails and keywords from the regions attached to one record
func (s *Segmenter) buildRecord(title string, attached []interfaces.TextRegion) interfaces.RuleRecord {
	record := interfaces.RuleRecord{
		Title:       title,
		StartOffset: attached[0].Start,
		EndOffset:   attached[len(attached)-1].End,
	}
	if s.config.IncludeStrings {
		record.Strings = attached
	}

	rawEmails := make(map[string]bool)
	for _, region := range attached {
		for _, e := range emailPattern.FindAllString(region.Text, -1) {
			rawEmails[e] = true
		}
	}
	known := make(map[string]bool, len(rawEmails))
	for e := range rawEmails {
		known[strings.ToLower(e)] = true
	}
	normalized := make(map[string]bool, len(rawEmails))
	for e := range rawEmails {
		normalized[NormalizeEmail(e, known)] = true
	}
	for e := range normalized {
		record.Emails = append(record.Emails, e)
	}
	sort.Strings(record.Emails)

	seen := make(map[string]bool)
	for _, region := range attached {
		text := strings.TrimSpace(region.Text)
		if !s.isKeyword(text, title) || seen[text] {
			continue
		}
		seen[text] = true
		record.Keywords = append(record.Keywords, text)
		if s.config.MaxKeywords > 0 && len(record.Keywords) >= s.config.MaxKeywords {
			break
		}
	}
	return record
}

// isKeyword filters out headers, transport tokens, emails (including the
// OCR leading-capital variant), and short fragments
func (s *Segmenter) isKeyword(text, title string) bool {
	if text == "" || text == title {
		return false
	}
	if s.transportTokens[strings.ToUpper(text)] {
		return false
	}
	if fullEmailMatch(text) {
		return false
	}
	if len(text) > 1 && leadingUpper(text) && fullEmailMatch(text[1:]) {
		return false
	}
	return len(text) >= s.config.MinKeywordLength
}

// NormalizeEmail lower-cases an address and strips a probable OCR artifact:
// a single leading uppercase letter whose remainder matches a known address
// case-insensitively
func NormalizeEmail(raw string, known map[string]bool) string {
	if len(raw) > 2 && leadingUpper(raw) {
		tail := strings.ToLower(raw[1:])
		if known[tail] {
			return tail
		}
	}
	return strings.ToLower(raw)
}

func leadingUpper(s string) bool {
	for _, r := range s {
		return unicode.IsUpper(r)
	}
	return false
}

func fullEmailMatch(s string) bool {
	loc := emailPattern.FindStringIndex(s)
	return loc != nil && loc[0] == 0 && loc[1] == len(s)
}
