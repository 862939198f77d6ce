package services

import "time"

// Clock decides what "today" means for dated logs.
type Clock struct {
	Location *time.Location
	Now      func() time.Time
}

func NewClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.Local
	}
	return Clock{Location: loc, Now: time.Now}
}

// Today returns midnight of the current calendar day in the clock's location.
func (c Clock) Today() time.Time {
	now := c.Now().In(c.Location)
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, c.Location)
}
