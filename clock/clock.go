package clock

import "time"

// Clock reports the current time. Components that compare against windows or calendar days take a
// Clock so tests can move time explicitly.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

// Real returns the wall clock.
func Real() Clock {
	return realClock{}
}

func (realClock) Now() time.Time {
	return time.Now()
}
