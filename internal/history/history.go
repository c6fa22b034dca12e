// Package history provides the persisted projection of analysis results and its JSON codec.
package history

import (
	"sort"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/ayusman/ergoguard/internal/posture"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// EmptyJSON is the encoded form of an empty history.
const EmptyJSON = "[]"

// Entry is one recorded analysis.
type Entry struct {
	Timestamp  int64   `json:"timestamp"` // epoch milliseconds
	Percentage float64 `json:"percentage"`
	Level      string  `json:"level"`
	NeckLoadKg float64 `json:"neckLoadKg"`
}

// FromResult projects an analysis result into an Entry recorded at the given time.
func FromResult(result posture.AnalysisResult, at time.Time) Entry {
	return Entry{
		Timestamp:  at.UnixMilli(),
		Percentage: result.DeviationPercent,
		Level:      result.Level.String(),
		NeckLoadKg: result.NeckLoadKg,
	}
}

// Time returns the entry timestamp as a time.Time.
func (e Entry) Time() time.Time {
	return time.UnixMilli(e.Timestamp)
}

// Encode serializes entries as a JSON array. A nil slice encodes as "[]".
func Encode(entries []Entry) (string, error) {
	if entries == nil {
		entries = []Entry{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// wireEntry detects missing keys, which invalidate the whole document.
// Timestamp is read as a float so exponent forms like 1.7e12 decode.
type wireEntry struct {
	Timestamp  *float64 `json:"timestamp"`
	Percentage *float64 `json:"percentage"`
	Level      *string  `json:"level"`
	NeckLoadKg *float64 `json:"neckLoadKg"`
}

// Decode parses a JSON array of entries. Empty input, malformed JSON, or an
// object missing any key yields an empty list.
func Decode(data string) []Entry {
	var wire []wireEntry
	if err := json.Unmarshal([]byte(data), &wire); err != nil {
		return []Entry{}
	}

	entries := make([]Entry, 0, len(wire))
	for _, w := range wire {
		if w.Timestamp == nil || w.Percentage == nil || w.Level == nil || w.NeckLoadKg == nil {
			return []Entry{}
		}
		entries = append(entries, Entry{
			Timestamp:  int64(*w.Timestamp),
			Percentage: *w.Percentage,
			Level:      *w.Level,
			NeckLoadKg: *w.NeckLoadKg,
		})
	}
	return entries
}

// SortNewestFirst returns a copy of entries in descending timestamp order.
// Entries sharing a timestamp keep reverse append order.
func SortNewestFirst(entries []Entry) []Entry {
	sorted := make([]Entry, len(entries))
	for i, e := range entries {
		sorted[len(entries)-1-i] = e
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp > sorted[j].Timestamp
	})
	return sorted
}
