/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: correlator.go
Description: Rule correlator for the Akaylee RuleMiner. Cross-references each recovered
rule record against independently derived evidence records by weighted overlap of
normalized titles, shared email addresses, and shared keyword tokens. A record gets its
single best-scoring evidence match; evidence no rule claims is reported separately.
*/

package rules

import (
	"regexp"
	"strings"

	"github.com/kleascm/akaylee-ruleminer/pkg/interfaces"
)

// Correlation weights: title identity dominates, shared addresses count double
// a shared keyword token.
const (
	titleWeight   = 10
	emailWeight   = 2
	keywordWeight = 1
)

// Unicode letter/number class: OCR evidence carries Japanese UI text, which
// must survive normalization alongside ASCII.
var nonAlnumPattern = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// NormalizeToken strips everything but letters and digits and lower-cases,
// making bracket styles, spacing, and OCR punctuation noise irrelevant
func NormalizeToken(s string) string {
	return strings.ToLower(nonAlnumPattern.ReplaceAllString(s, ""))
}

// Correlator implements interfaces.RuleCorrelator
type Correlator struct{}

// NewCorrelator creates a rule correlator
func NewCorrelator() *Correlator {
	return &Correlator{}
}

// Correlate assigns each rule record its best-scoring evidence record. A nil
// or empty evidence set yields zero matches, never an error - missing evidence
// is an expected condition, not a failure.
func (c *Correlator) Correlate(seg *interfaces.Segmentation, evidence *interfaces.EvidenceSet) *interfaces.CorrelationResult {
	result := &interfaces.CorrelationResult{}
	if seg == nil || evidence == nil || len(evidence.Records) == 0 {
		if seg != nil && evidence != nil {
			c.matchExtra(seg, evidence, result)
		}
		return result
	}

	evidenceNorms := make([]string, len(evidence.Records))
	for i, rec := range evidence.Records {
		evidenceNorms[i] = NormalizeToken(rec.Name)
	}

	unmatched := make(map[int]bool, len(evidence.Records))
	for i := range evidence.Records {
		unmatched[i] = true
	}

	for ruleIdx := range seg.Records {
		rule := &seg.Records[ruleIdx]
		bestIdx, bestScore := -1, 0
		for evIdx := range evidence.Records {
			score := matchScore(rule, &evidence.Records[evIdx], evidenceNorms[evIdx])
			if score > bestScore {
				bestScore = score
				bestIdx = evIdx
			}
		}
		if bestIdx < 0 {
			continue
		}
		result.Matches = append(result.Matches, interfaces.CorrelationMatch{
			RuleIndex:     ruleIdx,
			EvidenceIndex: bestIdx,
			Score:         bestScore,
		})
		delete(unmatched, bestIdx)
	}

	for i := range evidence.Records {
		if unmatched[i] {
			result.UnmatchedEvidence = append(result.UnmatchedEvidence, i)
		}
	}

	c.matchExtra(seg, evidence, result)
	return result
}

// matchScore computes the weighted overlap of one (rule, evidence) pair
func matchScore(rule *interfaces.RuleRecord, ev *interfaces.EvidenceRecord, evNorm string) int {
	score := 0

	ruleNorm := NormalizeToken(rule.Title)
	if ruleNorm != "" && evNorm != "" && (ruleNorm == evNorm ||
		strings.Contains(evNorm, ruleNorm) || strings.Contains(ruleNorm, evNorm)) {
		score += titleWeight
	}

	evEmails := make(map[string]bool, len(ev.Emails))
	for _, e := range ev.Emails {
		evEmails[strings.ToLower(e)] = true
	}
	for _, e := range rule.Emails {
		if evEmails[strings.ToLower(e)] {
			score += emailWeight
		}
	}

	evKeywords := make(map[string]bool, len(ev.SubjectKeywords))
	for _, k := range ev.SubjectKeywords {
		if n := NormalizeToken(k); n != "" {
			evKeywords[n] = true
		}
	}
	seen := make(map[string]bool, len(rule.Keywords))
	for _, k := range rule.Keywords {
		n := NormalizeToken(k)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		if evKeywords[n] {
			score += keywordWeight
		}
	}
	return score
}

// matchExtra cross-references loose evidence tokens against every rule's
// title, emails, and keywords by normalized-token identity. Tokens matching a
// rule attach to it; the rest are reported unmatched.
func (c *Correlator) matchExtra(seg *interfaces.Segmentation, evidence *interfaces.EvidenceSet, result *interfaces.CorrelationResult) {
	if len(evidence.Extra) == 0 {
		return
	}

	normToRules := make(map[string][]int)
	for idx := range seg.Records {
		rule := &seg.Records[idx]
		terms := make([]string, 0, len(rule.Keywords)+len(rule.Emails)+1)
		terms = append(terms, rule.Keywords...)
		terms = append(terms, rule.Emails...)
		terms = append(terms, rule.Title)
		for _, term := range terms {
			n := NormalizeToken(term)
			if n == "" {
				continue
			}
			if !containsInt(normToRules[n], idx) {
				normToRules[n] = append(normToRules[n], idx)
			}
		}
	}

	for _, token := range evidence.Extra {
		n := NormalizeToken(token)
		if n == "" {
			continue
		}
		ruleIdxs, ok := normToRules[n]
		if !ok {
			result.ExtraUnmatched = append(result.ExtraUnmatched, token)
			continue
		}
		for _, idx := range ruleIdxs {
			seg.Records[idx].ExtraMatches = append(seg.Records[idx].ExtraMatches, token)
		}
	}
}

func containsInt(xs []int, x int) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}
