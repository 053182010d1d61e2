package clock

import "time"

// Clock abstracts time to keep timer arithmetic deterministic in tests.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// Since reports the elapsed duration from t on the given clock.
func Since(c Clock, t time.Time) time.Duration {
	return c.Now().Sub(t)
}
