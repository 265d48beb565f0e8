package interval

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidInterval = errors.New("interval start must be before end")

// Interval is a half-open time range [Start, End). Two intervals that share
// an endpoint do not overlap, so back-to-back bookings are allowed.
type Interval struct {
	Start time.Time `json:"start_time" db:"start_time"`
	End   time.Time `json:"end_time" db:"end_time"`
}

func New(start, end time.Time) (Interval, error) {
	if start.IsZero() || end.IsZero() || !start.Before(end) {
		return Interval{}, ErrInvalidInterval
	}
	return Interval{Start: start, End: end}, nil
}

// Overlaps reports whether a and b share any instant.
func Overlaps(a, b Interval) bool {
	return a.Start.Before(b.End) && a.End.After(b.Start)
}

// Contains reports whether candidate lies entirely within window.
// Endpoint equality counts as contained.
func Contains(window, candidate Interval) bool {
	return !candidate.Start.Before(window.Start) && !candidate.End.After(window.End)
}

func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

func (i Interval) String() string {
	return fmt.Sprintf("[%s, %s)", i.Start.Format(time.RFC3339), i.End.Format(time.RFC3339))
}
