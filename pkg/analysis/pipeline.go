/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: pipeline.go
Description: Structure-inference pipeline for the Akaylee RuleMiner. Runs the region
extractor, gap classifier, pointer graph builder, size-field extractor, and rule
segmenter/correlator in dependency order over one immutable buffer and assembles a
single analysis report. Every stage is a pure function of the buffer; the pipeline
always completes - a partial or empty result is a valid outcome, not a failure.
*/

package analysis

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/kleascm/akaylee-ruleminer/pkg/gaps"
	"github.com/kleascm/akaylee-ruleminer/pkg/interfaces"
	"github.com/kleascm/akaylee-ruleminer/pkg/pointers"
	"github.com/kleascm/akaylee-ruleminer/pkg/regions"
	"github.com/kleascm/akaylee-ruleminer/pkg/rules"
	"github.com/kleascm/akaylee-ruleminer/pkg/sizefields"
)

// Pipeline wires the five inference stages together. Construct once per
// configuration; Run is stateless and may be called for any number of buffers.
type Pipeline struct {
	config *interfaces.AnalyzerConfig
	log    *logrus.Logger

	regionExtractor interfaces.RegionExtractor
	gapClassifier   interfaces.GapClassifier
	pointerAnalyzer interfaces.PointerAnalyzer
	sizeExtractor   interfaces.SizeFieldExtractor
	segmenter       interfaces.RuleSegmenter
	correlator      interfaces.RuleCorrelator
}

// NewPipeline creates a pipeline with the default stage implementations.
// A nil logger disables progress logging.
func NewPipeline(config *interfaces.AnalyzerConfig, log *logrus.Logger) (*Pipeline, error) {
	if config == nil {
		config = interfaces.DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid analyzer config: %w", err)
	}
	return &Pipeline{
		config:          config,
		log:             log,
		regionExtractor: regions.NewExtractor(config),
		gapClassifier:   gaps.NewClassifier(config),
		pointerAnalyzer: pointers.NewAnalyzer(config),
		sizeExtractor:   sizefields.NewExtractor(config),
		segmenter:       rules.NewSegmenter(config),
		correlator:      rules.NewCorrelator(),
	}, nil
}

// Config returns the policy the pipeline was built with
func (p *Pipeline) Config() *interfaces.AnalyzerConfig {
	return p.config
}

// Run executes the full pipeline over one buffer. The buffer is never
// mutated; evidence may be nil, in which case the report carries a
// correlation result with zero matches.
func (p *Pipeline) Run(data []byte, evidence *interfaces.EvidenceSet) *interfaces.AnalysisReport {
	report := &interfaces.AnalysisReport{
		RunID:     uuid.New().String(),
		Size:      len(data),
		CreatedAt: time.Now().UTC(),
	}

	p.stage(report, "regions", func() {
		report.Regions = p.regionExtractor.Extract(data)
	})
	p.info("text regions extracted", logrus.Fields{
		"regions": len(report.Regions.Regions),
		"gaps":    len(report.Regions.Gaps),
	})

	p.stage(report, "gaps", func() {
		report.Gaps = p.gapClassifier.Classify(data, report.Regions.Gaps)
	})

	p.stage(report, "pointers", func() {
		report.Pointers = p.pointerAnalyzer.Analyze(data)
	})
	p.info("pointer graph built", logrus.Fields{
		"nodes":  report.Pointers.NodeCount,
		"edges":  report.Pointers.EdgeCount,
		"chains": len(report.Pointers.Chains),
	})

	p.stage(report, "size_fields", func() {
		report.SizeFields = p.sizeExtractor.Extract(data)
		report.LenPrefixed = p.sizeExtractor.ExtractLengthPrefixed(data)
	})

	p.stage(report, "rules", func() {
		report.Rules = p.segmenter.Segment(report.Regions.Regions)
		report.Correlation = p.correlator.Correlate(report.Rules, evidence)
	})
	p.info("rules segmented", logrus.Fields{
		"records": len(report.Rules.Records),
		"matches": len(report.Correlation.Matches),
	})

	return report
}

// stage runs one pipeline step and records its wall-clock duration
func (p *Pipeline) stage(report *interfaces.AnalysisReport, name string, fn func()) {
	start := time.Now()
	fn()
	report.Timings = append(report.Timings, interfaces.StageTiming{
		Stage:    name,
		Duration: time.Since(start),
	})
}

func (p *Pipeline) info(msg string, fields logrus.Fields) {
	if p.log != nil {
		p.log.WithFields(fields).Info(msg)
	}
}
