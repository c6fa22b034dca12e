package history

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)

	if s.Count != 0 || s.Latest != nil || s.MeanPercentage != 0 || s.TrendPerDay != 0 {
		t.Errorf("expected zero summary, got %+v", s)
	}
	if s.LevelCounts == nil {
		t.Error("expected non-nil level counts")
	}
}

func TestSummarize_SingleEntry(t *testing.T) {
	s := Summarize([]Entry{{Timestamp: 10, Percentage: 20, Level: "WARNING", NeckLoadKg: 14}})

	if s.Count != 1 || s.MeanPercentage != 20 || s.MeanNeckLoadKg != 14 {
		t.Errorf("unexpected summary %+v", s)
	}
	if s.StdDevPercentage != 0 || s.TrendPerDay != 0 {
		t.Errorf("expected zero spread and trend for one entry, got %+v", s)
	}
}

func TestSummarize_Trend(t *testing.T) {
	// One entry per day, dropping five points a day.
	entries := []Entry{
		{Timestamp: 2 * millisPerDay, Percentage: 20, Level: "WARNING", NeckLoadKg: 14},
		{Timestamp: 0, Percentage: 30, Level: "WARNING", NeckLoadKg: 18.5},
		{Timestamp: 1 * millisPerDay, Percentage: 25, Level: "WARNING", NeckLoadKg: 16.25},
		{Timestamp: 3 * millisPerDay, Percentage: 15, Level: "NORMAL", NeckLoadKg: 11.75},
	}

	s := Summarize(entries)

	if s.Count != 4 {
		t.Errorf("expected 4 entries, got %d", s.Count)
	}
	if math.Abs(s.MeanPercentage-22.5) > epsilon {
		t.Errorf("expected mean 22.5, got %f", s.MeanPercentage)
	}
	if math.Abs(s.TrendPerDay-(-5)) > epsilon {
		t.Errorf("expected trend -5/day, got %f", s.TrendPerDay)
	}
	if s.LevelCounts["WARNING"] != 3 || s.LevelCounts["NORMAL"] != 1 {
		t.Errorf("unexpected level counts %v", s.LevelCounts)
	}
	if s.Latest == nil || s.Latest.Timestamp != 3*millisPerDay {
		t.Errorf("expected latest entry at day 3, got %+v", s.Latest)
	}
	if s.StdDevPercentage <= 0 {
		t.Errorf("expected positive spread, got %f", s.StdDevPercentage)
	}
}

func TestSummarize_SameTimestamp(t *testing.T) {
	s := Summarize([]Entry{
		{Timestamp: 5, Percentage: 10, Level: "NORMAL"},
		{Timestamp: 5, Percentage: 20, Level: "WARNING"},
	})

	if s.TrendPerDay != 0 {
		t.Errorf("expected no trend without a time spread, got %f", s.TrendPerDay)
	}
}
