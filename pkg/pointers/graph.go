/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: graph.go
Description: Pointer graph builder for the Akaylee RuleMiner. Interprets every 4-byte
aligned little-endian word as a candidate buffer offset, scores candidates from named
boolean signals, and builds a directed offset graph with chain and cycle detection,
cluster analysis, spacing statistics, and target classification.
*/

package pointers

import (
	"encoding/binary"
	"sort"

	"github.com/kleascm/akaylee-ruleminer/pkg/interfaces"
)

// Analyzer implements interfaces.PointerAnalyzer
type Analyzer struct {
	config *interfaces.AnalyzerConfig
}

// NewAnalyzer creates a pointer analyzer with the given scan policy
func NewAnalyzer(config *interfaces.AnalyzerConfig) *Analyzer {
	return &Analyzer{config: config}
}

// Analyze scans aligned words, scores candidates, and builds the full pointer
// graph. The walk depth bound and per-walk visited set guarantee termination
// even on a fully cyclic graph.
func (a *Analyzer) Analyze(data []byte) *interfaces.PointerGraph {
	candidates := a.scan(data)

	graph := &interfaces.PointerGraph{
		Candidates: candidates,
		Nodes:      make(map[int]*interfaces.PointerNode, len(candidates)),
	}

	for i := range candidates {
		c := &candidates[i]
		graph.Nodes[c.SourceOffset] = &interfaces.PointerNode{
			Offset:     c.SourceOffset,
			Target:     c.TargetOffset,
			Confidence: c.Confidence,
		}
	}
	for i := range candidates {
		c := &candidates[i]
		graph.EdgeCount++
		graph.Nodes[c.SourceOffset].OutDegree++
		if target, ok := graph.Nodes[c.TargetOffset]; ok {
			target.InDegree++
		}
	}
	graph.NodeCount = len(graph.Nodes)

	graph.Chains = a.detectChains(candidates)
	graph.Clusters = a.detectClusters(candidates)
	graph.Spacing = spacingStats(candidates)
	graph.Classification = a.classifyTargets(data, candidates)
	return graph
}

// scan collects every aligned word whose value is a valid in-bounds offset
func (a *Analyzer) scan(data []byte) []interfaces.PointerCandidate {
	var candidates []interfaces.PointerCandidate
	for offset := 0; offset+4 <= len(data); offset += 4 {
		value := int(binary.LittleEndian.Uint32(data[offset : offset+4]))
		if value >= len(data) {
			continue
		}
		signals := a.signalsAt(data, offset, value)
		candidates = append(candidates, interfaces.PointerCandidate{
			SourceOffset: offset,
			TargetOffset: value,
			Signals:      signals,
			Confidence:   Score(signals, a.config.Weights),
		})
	}
	if a.config.MinConfidence <= 0 {
		return candidates
	}
	kept := candidates[:0]
	for _, c := range candidates {
		if c.Confidence >= a.config.MinConfidence {
			kept = append(kept, c)
		}
	}
	return kept
}

// signalsAt evaluates the independent evidence for a word being a pointer
func (a *Analyzer) signalsAt(data []byte, offset, target int) interfaces.PointerSignals {
	var s interfaces.PointerSignals

	s.TargetAligned = target%4 == 0

	window := a.config.PrintableWindow
	if target+window < len(data) {
		for _, b := range data[target : target+window] {
			if b >= 0x20 && b <= 0x7e {
				s.TargetPrintable = true
				break
			}
		}
	}

	if offset >= 4 {
		prev := int(binary.LittleEndian.Uint32(data[offset-4 : offset]))
		if prev > a.config.SizeHintMin && prev < a.config.SizeHintMax {
			s.SizeFieldBefore = true
		}
	}

	// A run of 2-3 consecutive plausible offsets suggests a pointer table.
	if offset >= 8 && offset+8 <= len(data) {
		prev := int(binary.LittleEndian.Uint32(data[offset-4 : offset]))
		next := int(binary.LittleEndian.Uint32(data[offset+4 : offset+8]))
		if target > a.config.SizeHintMin &&
			prev >= a.config.SizeHintMin && prev < len(data) &&
			next >= a.config.SizeHintMin && next < len(data) {
			s.AdjacentRun = true
		}
	}

	return s
}

// Score converts signal flags into a confidence value. Pure function of its
// inputs so the weighting policy stays independently testable.
func Score(s interfaces.PointerSignals, w interfaces.PointerWeights) float64 {
	confidence := 0.0
	if s.TargetAligned {
		confidence += w.TargetAligned
	}
	if s.TargetPrintable {
		confidence += w.TargetPrintable
	}
	if s.SizeFieldBefore {
		confidence += w.SizeFieldBefore
	}
	if s.AdjacentRun {
		confidence += w.AdjacentRun
	}
	if confidence > 1.0 {
		confidence = 1.0
	}
	return confidence
}

// detectChains walks from each unvisited candidate, following targets that are
// themselves candidate source offsets. A walk records a cycle when the next
// node is already in the current walk - membership is checked against the
// walk's own visited set, not the whole graph, so graph-wide reuse of a
// popular target is not mistaken for a cycle. Interior nodes are marked
// visited globally to avoid re-walking from the middle of a known chain.
func (a *Analyzer) detectChains(candidates []interfaces.PointerCandidate) []interfaces.PointerChain {
	byOffset := make(map[int]*interfaces.PointerCandidate, len(candidates))
	for i := range candidates {
		byOffset[candidates[i].SourceOffset] = &candidates[i]
	}

	var chains []interfaces.PointerChain
	visited := make(map[int]bool, len(candidates))

	for i := range candidates {
		start := &candidates[i]
		if visited[start.SourceOffset] {
			continue
		}

		walk := []int{start.SourceOffset}
		inWalk := map[int]bool{start.SourceOffset: true}
		target := start.TargetOffset
		depth := 0
		done := false

		for depth < a.config.MaxChainDepth {
			next, ok := byOffset[target]
			if !ok {
				if depth > 0 {
					chains = append(chains, interfaces.PointerChain{
						Kind:        interfaces.ChainLinear,
						Offsets:     walk,
						Depth:       depth + 1,
						FinalTarget: target,
					})
				}
				done = true
				break
			}
			if inWalk[next.SourceOffset] {
				chains = append(chains, interfaces.PointerChain{
					Kind:    interfaces.ChainCycle,
					Offsets: walk,
					Depth:   depth,
				})
				done = true
				break
			}
			walk = append(walk, next.SourceOffset)
			inWalk[next.SourceOffset] = true
			target = next.TargetOffset
			depth++
		}

		// Depth bound hit: keep the truncated walk as a linear chain.
		if !done && depth == a.config.MaxChainDepth {
			chains = append(chains, interfaces.PointerChain{
				Kind:        interfaces.ChainLinear,
				Offsets:     walk,
				Depth:       depth,
				FinalTarget: target,
			})
		}

		for _, offset := range walk {
			visited[offset] = true
		}
	}

	sort.SliceStable(chains, func(i, j int) bool {
		return chains[i].Depth > chains[j].Depth
	})
	if len(chains) > a.config.TopChains {
		chains = chains[:a.config.TopChains]
	}
	return chains
}

// detectClusters groups candidates whose spacing stays under the cluster window
func (a *Analyzer) detectClusters(candidates []interfaces.PointerCandidate) []interfaces.PointerCluster {
	var clusters []interfaces.PointerCluster
	var cluster []int
	flush := func() {
		if len(cluster) >= a.config.ClusterMinCount {
			clusters = append(clusters, interfaces.PointerCluster{
				Start: cluster[0],
				End:   cluster[len(cluster)-1],
				Count: len(cluster),
			})
		}
		cluster = cluster[:0]
	}
	for _, c := range candidates {
		if len(cluster) > 0 && c.SourceOffset-cluster[len(cluster)-1] >= a.config.ClusterWindow {
			flush()
		}
		cluster = append(cluster, c.SourceOffset)
	}
	flush()
	return clusters
}

// spacingStats summarizes distances between consecutive candidate offsets
func spacingStats(candidates []interfaces.PointerCandidate) *interfaces.SpacingStats {
	if len(candidates) < 2 {
		return nil
	}
	stats := &interfaces.SpacingStats{Min: int(^uint(0) >> 1)}
	counts := make(map[int]int)
	total := 0
	for i := 1; i < len(candidates); i++ {
		spacing := candidates[i].SourceOffset - candidates[i-1].SourceOffset
		if spacing < stats.Min {
			stats.Min = spacing
		}
		if spacing > stats.Max {
			stats.Max = spacing
		}
		counts[spacing]++
		total += spacing
	}
	stats.Avg = float64(total) / float64(len(candidates)-1)
	best := 0
	for spacing, count := range counts {
		if count > best || (count == best && spacing < stats.Mode) {
			best = count
			stats.Mode = spacing
		}
	}
	return stats
}

// classifyTargets buckets candidates by what the window at their target looks like
func (a *Analyzer) classifyTargets(data []byte, candidates []interfaces.PointerCandidate) interfaces.TargetClassification {
	var cls interfaces.TargetClassification
	window := a.config.PrintableWindow
	for _, c := range candidates {
		target := c.TargetOffset
		switch {
		case target == 0:
			cls.Null++
		case target+window < len(data):
			printable, nulls := 0, 0
			for _, b := range data[target : target+window] {
				if b >= 0x20 && b <= 0x7e {
					printable++
				}
				if b == 0 {
					nulls++
				}
			}
			switch {
			case printable > window/2:
				cls.String++
			case nulls > window*3/4:
				cls.Data++
			default:
				cls.Unknown++
			}
		default:
			cls.Unknown++
		}
	}
	return cls
}
