package postgres

import "time"

// SystemClock satisfies ports.Clock with UTC wall time.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}
