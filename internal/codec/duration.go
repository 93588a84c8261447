package codec

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidDuration indicates a duration field that is not a non-negative integer
var ErrInvalidDuration = errors.New("not a valid duration")

// DurationParts is an elapsed time split into hours, minutes and seconds
// (prep and cook times). Parts are not required to be normalized: 0h 70m and
// 1h 10m are Equal. Call Simplify for the canonical form.
type DurationParts struct {
	Hours   int
	Minutes int
	Seconds int
}

// FromSeconds decomposes a total number of seconds. Negative totals are treated as 0.
func FromSeconds(total int) DurationParts {
	if total < 0 {
		total = 0
	}
	return DurationParts{
		Hours:   total / 3600,
		Minutes: (total % 3600) / 60,
		Seconds: total % 60,
	}
}

// FromDuration decomposes a time.Duration, truncating to whole seconds.
func FromDuration(d time.Duration) DurationParts {
	return FromSeconds(int(d / time.Second))
}

// TotalSeconds returns hours*3600 + minutes*60 + seconds
func (d DurationParts) TotalSeconds() int {
	return d.Hours*3600 + d.Minutes*60 + d.Seconds
}

// Simplify returns the canonical decomposition (minutes and seconds below 60).
func (d DurationParts) Simplify() DurationParts {
	return FromSeconds(d.TotalSeconds())
}

// Equal compares total seconds, not fields.
func (d DurationParts) Equal(other DurationParts) bool {
	return d.TotalSeconds() == other.TotalSeconds()
}

// Duration converts to a time.Duration
func (d DurationParts) Duration() time.Duration {
	return time.Duration(d.TotalSeconds()) * time.Second
}

// String renders the simplified parts as "1h 5m 30s", omitting zero parts.
func (d DurationParts) String() string {
	s := d.Simplify()
	var parts []string
	if s.Hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", s.Hours))
	}
	if s.Minutes > 0 {
		parts = append(parts, fmt.Sprintf("%dm", s.Minutes))
	}
	if s.Seconds > 0 || len(parts) == 0 {
		parts = append(parts, fmt.Sprintf("%ds", s.Seconds))
	}
	return strings.Join(parts, " ")
}

// ParseDurationParts parses the three fields of an hours/minutes/seconds input.
// Blank fields count as zero. The result is not simplified.
func ParseDurationParts(hours, minutes, seconds string) (DurationParts, error) {
	var d DurationParts
	var err error
	if d.Hours, err = parsePart(hours); err != nil {
		return DurationParts{}, err
	}
	if d.Minutes, err = parsePart(minutes); err != nil {
		return DurationParts{}, err
	}
	if d.Seconds, err = parsePart(seconds); err != nil {
		return DurationParts{}, err
	}
	return d, nil
}

// ParseClock parses "H:MM:SS" or "M:SS". Parts may exceed 59; the result is not simplified.
func ParseClock(text string) (DurationParts, error) {
	fields := strings.Split(strings.TrimSpace(text), ":")
	switch len(fields) {
	case 3:
		return ParseDurationParts(fields[0], fields[1], fields[2])
	case 2:
		return ParseDurationParts("", fields[0], fields[1])
	default:
		return DurationParts{}, &ParseError{Input: text, Err: ErrInvalidDuration}
	}
}

func parsePart(text string) (int, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, &ParseError{Input: text, Err: ErrInvalidDuration}
	}
	return n, nil
}
