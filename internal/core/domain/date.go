package domain

import "time"

// CivilDate is a calendar date stored as three integers with a 1-based
// month, matching the campaign_details endDate layout.
type CivilDate struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

// IsZero reports whether no date was set.
func (d CivilDate) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// Valid reports whether the fields form a plausible calendar date.
func (d CivilDate) Valid() bool {
	return d.Year > 0 && d.Month >= 1 && d.Month <= 12 && d.Day >= 1 && d.Day <= 31
}

// Time returns midnight UTC on the date.
func (d CivilDate) Time() time.Time {
	return time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC)
}

// Expired reports whether now falls strictly after the date. The comparison
// is date-only: the end day itself is not expired.
func (d CivilDate) Expired(now time.Time) bool {
	y, m, day := now.UTC().Date()
	today := time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
	return today.After(d.Time())
}
