/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: config_test.go
Description: Tests for analyzer configuration defaults and validation.
*/

package interfaces_test

import (
	"testing"

	"github.com/kleascm/akaylee-ruleminer/pkg/interfaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDefaultConfigValid verifies that the shipped defaults pass validation.
func TestDefaultConfigValid(t *testing.T) {
	config := interfaces.DefaultConfig()
	require.NotNil(t, config)
	assert.NoError(t, config.Validate())

	assert.Equal(t, 4, config.MinRunChars)
	assert.InDelta(t, 1.0, config.Weights.Sum(), 1e-9)
}

// TestValidateRejections verifies each validation rule independently.
func TestValidateRejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*interfaces.AnalyzerConfig)
	}{
		{"zero min run chars", func(c *interfaces.AnalyzerConfig) { c.MinRunChars = 0 }},
		{"inverted null thresholds", func(c *interfaces.AnalyzerConfig) {
			c.PureNullThreshold = 0.4
			c.SparseThreshold = 0.5
		}},
		{"threshold above one", func(c *interfaces.AnalyzerConfig) { c.PureNullThreshold = 1.5 }},
		{"overweight signals", func(c *interfaces.AnalyzerConfig) {
			c.Weights = interfaces.PointerWeights{
				TargetAligned:   0.5,
				TargetPrintable: 0.5,
				SizeFieldBefore: 0.5,
				AdjacentRun:     0.5,
			}
		}},
		{"zero chain depth", func(c *interfaces.AnalyzerConfig) { c.MaxChainDepth = 0 }},
		{"inverted declared bounds", func(c *interfaces.AnalyzerConfig) {
			c.MinDeclaredLength = 100
			c.MaxDeclaredLength = 100
		}},
		{"inverted prefix bounds", func(c *interfaces.AnalyzerConfig) {
			c.LenPrefixMin = 10
			c.LenPrefixMax = 5
		}},
		{"zero prefix step", func(c *interfaces.AnalyzerConfig) { c.LenPrefixStep = 0 }},
		{"printable ratio above one", func(c *interfaces.AnalyzerConfig) { c.MinPrintableRatio = 1.1 }},
		{"tiny header window", func(c *interfaces.AnalyzerConfig) { c.HeaderWindow = 1 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			config := interfaces.DefaultConfig()
			tc.mutate(config)
			assert.Error(t, config.Validate())
		})
	}
}

// TestGapLen verifies the interval length helpers.
func TestGapLen(t *testing.T) {
	assert.Equal(t, 6, interfaces.Gap{Start: 2, End: 8}.Len())
	assert.Equal(t, 4, interfaces.Interval{Start: 0, End: 4}.Len())
}
