/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: evidence.go
Description: Auxiliary evidence loader for the Akaylee RuleMiner. Parses the JSON
produced by the out-of-core OCR collaborator (per-image lines, tokens, and emails)
into evidence records segmented by bracket-header lines, with folder, sender/recipient,
and subject-keyword extraction for rules transcribed from Japanese Outlook dialogs.
*/

package rules

import (
	"encoding/json"
	"os"
	"regexp"
	"strings"

	"github.com/kleascm/akaylee-ruleminer/pkg/interfaces"
)

var (
	evidenceNamePattern  = regexp.MustCompile(`\[[^\]]+\][^\s]*`)
	evidenceShortPattern = regexp.MustCompile(`\[[^\]]+\]`)
	quotedPattern        = regexp.MustCompile(`["“”'‘’]([^"“”'‘’]{2,})["“”'‘’]`)
	folderPattern        = regexp.MustCompile(`フォルダー\s*[「'"“”‘’]?(.+?)\s*(?:にメッセージを移動する|にメッセージを移動|へ移動|に移動|$)`)
)

// fromMarkers and toMarkers are dialog phrases tying an address to a direction
var (
	fromMarkers = []string{"から受信", "差出人", "送信者"}
	toMarkers   = []string{"送信された", "宛先", "に送信"}
)

// ocrImage mirrors one entry of the OCR collaborator's JSON output
type ocrImage struct {
	File   string   `json:"file"`
	Error  string   `json:"error,omitempty"`
	Lines  []string `json:"lines"`
	Tokens []string `json:"tokens"`
	Emails []string `json:"emails"`
}

// ocrPayload mirrors the OCR collaborator's JSON document
type ocrPayload struct {
	Source string     `json:"source"`
	Images []ocrImage `json:"images"`
}

// LoadEvidenceFile reads and parses an OCR JSON file. Any failure (missing
// file, bad JSON, wrong shape) returns an error the caller may log; the
// pipeline treats it as "no evidence" and proceeds without correlation.
func LoadEvidenceFile(path string) (*interfaces.EvidenceSet, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseEvidence(raw)
}

// ParseEvidence builds an EvidenceSet from raw OCR JSON. Lines are segmented
// into records on bracket-header lines; loose tokens, lines, and emails are
// kept as extra strings for normalized-token cross-matching.
func ParseEvidence(raw []byte) (*interfaces.EvidenceSet, error) {
	var payload ocrPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, err
	}

	set := &interfaces.EvidenceSet{Source: payload.Source}

	var lines []string
	for _, img := range payload.Images {
		lines = append(lines, img.Lines...)
		for _, group := range [][]string{img.Tokens, img.Lines, img.Emails} {
			for _, s := range group {
				if t := strings.TrimSpace(s); t != "" {
					set.Extra = append(set.Extra, t)
				}
			}
		}
	}

	var current *interfaces.EvidenceRecord
	flush := func() {
		if current == nil {
			return
		}
		dedupRecord(current)
		set.Records = append(set.Records, *current)
		current = nil
	}

	for _, line := range lines {
		if name := extractRecordName(line); name != "" {
			flush()
			current = &interfaces.EvidenceRecord{Name: name}
		}
		if current == nil {
			continue
		}
		current.Lines = append(current.Lines, line)

		if emails := emailPattern.FindAllString(line, -1); len(emails) > 0 {
			current.Emails = append(current.Emails, emails...)
			if containsAny(line, fromMarkers) {
				current.FromEmails = append(current.FromEmails, emails...)
			}
			if containsAny(line, toMarkers) {
				current.ToEmails = append(current.ToEmails, emails...)
			}
		}
		if folder := extractFolder(line); folder != "" {
			current.Folders = append(current.Folders, folder)
		} else {
			// Quoted text on non-folder lines is a subject keyword; on a
			// folder line the quotes wrap the destination name instead.
			for _, m := range quotedPattern.FindAllStringSubmatch(line, -1) {
				if q := strings.TrimSpace(m[1]); q != "" {
					current.SubjectKeywords = append(current.SubjectKeywords, q)
				}
			}
		}
		if strings.Contains(line, "処理を停止") {
			current.StopProcessing = true
		}
	}
	flush()

	return set, nil
}

// extractRecordName pulls the bracket header out of an OCR line, tolerating
// trailing OCR junk glued to the closing bracket
func extractRecordName(line string) string {
	if m := evidenceNamePattern.FindString(line); m != "" {
		return m
	}
	return evidenceShortPattern.FindString(line)
}

// extractFolder recovers the destination folder from a move-to-folder line
func extractFolder(line string) string {
	if !strings.Contains(line, "フォルダー") || !strings.Contains(line, "移動") {
		return ""
	}
	m := folderPattern.FindStringSubmatch(line)
	if m == nil {
		return ""
	}
	return strings.Trim(m[1], " '\"“”‘’")
}

func containsAny(line string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(line, m) {
			return true
		}
	}
	return false
}

// dedupRecord de-duplicates every list field in first-seen order
func dedupRecord(r *interfaces.EvidenceRecord) {
	r.Emails = dedupStrings(r.Emails)
	r.FromEmails = dedupStrings(r.FromEmails)
	r.ToEmails = dedupStrings(r.ToEmails)
	r.Folders = dedupStrings(r.Folders)
	r.SubjectKeywords = dedupStrings(r.SubjectKeywords)
}

func dedupStrings(in []string) []string {
	seen := make(map[string]bool, len(in))
	var out []string
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
