package history

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

const millisPerDay = 24 * 60 * 60 * 1000

// Summary aggregates a history for display.
type Summary struct {
	Count            int            `json:"count"`
	MeanPercentage   float64        `json:"meanPercentage"`
	StdDevPercentage float64        `json:"stdDevPercentage"`
	MeanNeckLoadKg   float64        `json:"meanNeckLoadKg"`
	LevelCounts      map[string]int `json:"levelCounts"`
	Latest           *Entry         `json:"latest,omitempty"`
	// TrendPerDay is the least-squares slope of percentage over time, in
	// percentage points per day. Negative means improving.
	TrendPerDay float64 `json:"trendPerDay"`
}

// Summarize computes summary statistics over entries in any order.
func Summarize(entries []Entry) Summary {
	s := Summary{
		Count:       len(entries),
		LevelCounts: make(map[string]int),
	}
	if len(entries) == 0 {
		return s
	}

	days := make([]float64, len(entries))
	percentages := make([]float64, len(entries))
	loads := make([]float64, len(entries))

	first := entries[0].Timestamp
	for _, e := range entries {
		if e.Timestamp < first {
			first = e.Timestamp
		}
	}

	latest := entries[0]
	for i, e := range entries {
		days[i] = float64(e.Timestamp-first) / millisPerDay
		percentages[i] = e.Percentage
		loads[i] = e.NeckLoadKg
		s.LevelCounts[e.Level]++
		if e.Timestamp > latest.Timestamp {
			latest = e
		}
	}
	s.Latest = &latest

	s.MeanPercentage = stat.Mean(percentages, nil)
	s.MeanNeckLoadKg = stat.Mean(loads, nil)

	if len(entries) < 2 {
		return s
	}

	s.StdDevPercentage = stat.StdDev(percentages, nil)
	if stat.Variance(days, nil) > 0 {
		_, slope := stat.LinearRegression(days, percentages, nil, false)
		if !math.IsNaN(slope) {
			s.TrendPerDay = slope
		}
	}

	return s
}
