package posture

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownViewMode is returned for a ViewMode value outside the declared set.
var ErrUnknownViewMode = errors.New("unknown view mode")

// ViewMode selects which analyzer and quality rule applies to a capture.
type ViewMode int

const (
	// SideView analyzes forward-head protrusion from a profile photo.
	SideView ViewMode = iota
	// FrontView analyzes shoulder imbalance and head tilt from a frontal photo.
	FrontView
)

// String returns "SIDE" or "FRONT".
func (m ViewMode) String() string {
	switch m {
	case SideView:
		return "SIDE"
	case FrontView:
		return "FRONT"
	default:
		return fmt.Sprintf("ViewMode(%d)", int(m))
	}
}

// ParseViewMode parses a view mode name, case-insensitively.
func ParseViewMode(s string) (ViewMode, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "SIDE":
		return SideView, nil
	case "FRONT":
		return FrontView, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownViewMode, s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m ViewMode) MarshalText() ([]byte, error) {
	if m != SideView && m != FrontView {
		return nil, fmt.Errorf("%w: %d", ErrUnknownViewMode, int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *ViewMode) UnmarshalText(text []byte) error {
	parsed, err := ParseViewMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// SeverityLevel classifies how far a posture deviates from neutral.
type SeverityLevel int

const (
	Normal SeverityLevel = iota
	Warning
	Danger
)

// Kapandji thresholds for side-view protrusion, in percent.
const (
	ProtrusionWarningThreshold = 15.0
	ProtrusionDangerThreshold  = 30.0
)

// SeverityFromPercentage classifies a protrusion percentage.
// Below 15 is Normal, 15 through 30 inclusive is Warning, above 30 is Danger.
func SeverityFromPercentage(percentage float64) SeverityLevel {
	switch {
	case percentage < ProtrusionWarningThreshold:
		return Normal
	case percentage <= ProtrusionDangerThreshold:
		return Warning
	default:
		return Danger
	}
}

// String returns the persisted name: "NORMAL", "WARNING" or "DANGER".
func (l SeverityLevel) String() string {
	switch l {
	case Normal:
		return "NORMAL"
	case Warning:
		return "WARNING"
	case Danger:
		return "DANGER"
	default:
		return fmt.Sprintf("SeverityLevel(%d)", int(l))
	}
}

// Label returns the short user-facing label.
func (l SeverityLevel) Label() string {
	switch l {
	case Warning:
		return SeverityWarningLabel
	case Danger:
		return SeverityDangerLabel
	default:
		return SeverityNormalLabel
	}
}

// Description returns the user-facing explanation of the level.
func (l SeverityLevel) Description() string {
	switch l {
	case Warning:
		return SeverityWarningDescription
	case Danger:
		return SeverityDangerDescription
	default:
		return SeverityNormalDescription
	}
}

// ParseSeverityLevel parses a level name, case-insensitively.
func ParseSeverityLevel(s string) (SeverityLevel, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "NORMAL":
		return Normal, nil
	case "WARNING":
		return Warning, nil
	case "DANGER":
		return Danger, nil
	default:
		return 0, fmt.Errorf("unknown severity level %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (l SeverityLevel) MarshalText() ([]byte, error) {
	if l < Normal || l > Danger {
		return nil, fmt.Errorf("unknown severity level %d", int(l))
	}
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *SeverityLevel) UnmarshalText(text []byte) error {
	parsed, err := ParseSeverityLevel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
