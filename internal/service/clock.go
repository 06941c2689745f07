package service

import "time"

// Clock lets tests pin the registration window and paid-at timestamps.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }
