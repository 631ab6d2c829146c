package core

import "time"

// Date is a calendar day in ISO 8601 form ("2006-01-02"). Dates are kept
// as strings and compared lexically; this is only correct because every
// Date entering the system goes through ParseDate, which re-renders the
// value zero-padded. Do not construct Dates from raw user input.
type Date string

const dateLayout = "2006-01-02"

// ParseDate normalizes s into a zero-padded ISO date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		// Accept unpadded input ("2024-1-5") and normalize it.
		t, err = time.Parse("2006-1-2", s)
		if err != nil {
			return "", ErrInvalidDate
		}
	}
	return Date(t.Format(dateLayout)), nil
}

// DateOf renders a time.Time as a Date in its own location.
func DateOf(t time.Time) Date {
	return Date(t.Format(dateLayout))
}

// Today returns the current local date.
func Today() Date {
	return DateOf(time.Now())
}

func (d Date) Validate() error {
	if _, err := time.Parse(dateLayout, string(d)); err != nil {
		return ErrInvalidDate
	}
	return nil
}

// InRange reports whether d falls within [start, end], boundaries
// included. Comparison is lexical, not calendar-aware.
func (d Date) InRange(start, end Date) bool {
	return d >= start && d <= end
}

// Time parses the date back into a time.Time at midnight UTC.
func (d Date) Time() (time.Time, error) {
	return time.Parse(dateLayout, string(d))
}

func (d Date) String() string {
	return string(d)
}
