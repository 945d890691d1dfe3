package analysis

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"velar-backend/internal/dataset"
	"velar-backend/internal/models"
)

const (
	// LowCountThreshold is the largest category size reported as a gap.
	LowCountThreshold = 2

	RecommendBuild  = "Build AI tools for Bitcoin DeFi: AMM modeling, on-chain risk engine, Clarity contract interpreter, governance copilot"
	RecommendDeepen = "There is some DeFi/Bitcoin presence; focus on deep integration and risk engines."
)

var (
	textColumns     = []string{dataset.ColCompany, dataset.ColToolName, dataset.ColWebsite, dataset.ColSourceDomain}
	defiKeywords    = []string{"defi"}
	bitcoinKeywords = []string{"bitcoin", "sbtc", "stacks"}
)

// FindWhiteSpace scans the free-text columns for DeFi and Bitcoin mentions
// and lists sparsely populated categories.
func FindWhiteSpace(ds *dataset.Dataset) models.WhiteSpace {
	blob := textBlob(ds)
	hasDefi := containsAny(blob, defiKeywords)
	hasBitcoin := containsAny(blob, bitcoinKeywords)

	low := []string{}
	for _, c := range CountValues(ds, dataset.ColCategory) {
		if c.N <= LowCountThreshold {
			low = append(low, c.Value)
		}
	}

	rec := RecommendDeepen
	if !hasDefi && !hasBitcoin {
		rec = RecommendBuild
	}

	return models.WhiteSpace{
		HasDefi:                hasDefi,
		HasBitcoin:             hasBitcoin,
		LowCountCategories:     low,
		MajorGapRecommendation: rec,
	}
}

// textBlob joins every non-null text cell, column by column, lower-cased.
func textBlob(ds *dataset.Dataset) string {
	lower := cases.Lower(language.Und)
	var b strings.Builder
	for _, col := range textColumns {
		if !ds.Has(col) {
			continue
		}
		for i := 0; i < ds.Len(); i++ {
			v, _ := ds.Value(i, col)
			if v.IsNull() {
				continue
			}
			b.WriteString(lower.String(v.Text()))
			b.WriteByte(' ')
		}
	}
	return b.String()
}

func containsAny(s string, substrings []string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
