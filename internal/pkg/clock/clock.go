package clock

import "time"

// Clock provides the current time. Services take a Clock so tests can pin
// the business clock to a known instant.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

func System() Clock {
	return systemClock{}
}
