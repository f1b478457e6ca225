package clock

import "time"

// Clock is the time source for session timestamps, TTLs and auth expiry
type Clock interface {
	Now() time.Time
}

// System reads the wall clock. Times are returned in UTC so they survive a
// JSON round trip through storage unchanged.
type System struct{}

var _ Clock = System{}

// New creates a System clock
func New() System {
	return System{}
}

func (System) Now() time.Time {
	return time.Now().UTC()
}
