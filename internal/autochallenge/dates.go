package autochallenge

import (
	"time"

	"github.com/habitrack/habit-admin/internal/db/models"
)

// ChallengeDates returns the range of a challenge created at now: it starts
// on the calendar day after now, read in loc, and ends durationDays later.
func ChallengeDates(now time.Time, loc *time.Location, durationDays int) (start, end models.Date) {
	if loc == nil {
		loc = time.UTC
	}

	start = models.DateOf(now.In(loc)).AddDays(1)
	end = start.AddDays(durationDays)

	return start, end
}
