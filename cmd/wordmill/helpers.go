package main

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"wordmill/internal/classify"
)

var categoryCaser = cases.Title(language.English)

// categoryLabel renders a category identifier for human-facing output.
func categoryLabel(category string) string {
	return categoryCaser.String(strings.TrimSpace(category))
}

func formatPercent(value float64) string {
	return fmt.Sprintf("%.1f%%", value*100)
}

func formatEfficiency(value float64) string {
	return fmt.Sprintf("%.2f words/call", value)
}

func shortRunID(runID string) string {
	runID = strings.TrimSpace(runID)
	if len(runID) > 8 {
		return runID[:8]
	}
	return runID
}

type categoryCount struct {
	Category string
	Count    int
}

// categoryCounts tallies successful results per category, most frequent
// first with ties broken alphabetically.
func categoryCounts(results []classify.Result) []categoryCount {
	tally := make(map[string]int)
	for _, result := range results {
		tally[result.Category]++
	}
	counts := make([]categoryCount, 0, len(tally))
	for category, count := range tally {
		counts = append(counts, categoryCount{Category: category, Count: count})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Category < counts[j].Category
	})
	return counts
}
