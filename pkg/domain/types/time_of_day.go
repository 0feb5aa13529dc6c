package types

import "time"

// TimeOfDay buckets an intake time into a part of the day
type TimeOfDay string

const (
	TimeOfDayMorning   TimeOfDay = "morning"
	TimeOfDayAfternoon TimeOfDay = "afternoon"
	TimeOfDayEvening   TimeOfDay = "evening"
	TimeOfDayNight     TimeOfDay = "night"
)

// TimeOfDayOf returns the bucket for t in t's own location.
// Morning is 06:00-12:00, afternoon 12:00-16:00, evening 16:00-22:00, night otherwise.
func TimeOfDayOf(t time.Time) TimeOfDay {
	hour := t.Hour()
	switch {
	case hour >= 6 && hour < 12:
		return TimeOfDayMorning
	case hour >= 12 && hour < 16:
		return TimeOfDayAfternoon
	case hour >= 16 && hour < 22:
		return TimeOfDayEvening
	default:
		return TimeOfDayNight
	}
}

// String returns the string representation of the time of day
func (t TimeOfDay) String() string {
	return string(t)
}
