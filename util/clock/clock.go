package clock

import "time"

// JST is the kiosk's zone. The festival runs in one place; a fixed offset
// beats shipping a tz database.
var JST = time.FixedZone("JST", 9*60*60)

type Clock interface {
	Now() time.Time
}

type systemClock struct{ loc *time.Location }

func System(loc *time.Location) Clock {
	if loc == nil {
		loc = JST
	}
	return &systemClock{loc: loc}
}

func (c *systemClock) Now() time.Time { return time.Now().In(c.loc) }

// Fixed returns a clock pinned to t, for tests.
func Fixed(t time.Time) Clock { return fixedClock{t: t} }

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }
