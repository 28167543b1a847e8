package parsing

import (
	"fmt"
	"regexp"
	"time"
)

// dateLayouts are tried in order; the first layout that parses wins.
// Numeric fields accept one or two digits.
var dateLayouts = []string{
	"2006-1-2",        // 2024-02-01
	"1/2/2006",        // 02/01/2024, month first
	"2/1/2006",        // 01/02/2024, day first
	"1-2-2006",        // 02-01-2024
	"2-1-2006",        // 01-02-2024
	"January 2, 2006", // February 1, 2024
	"Jan 2, 2006",     // Feb 1, 2024
	"January 2 2006",  // February 1 2024
	"Jan 2 2006",      // Feb 1 2024
}

// timeLayouts are 24-hour only.
var timeLayouts = []string{
	"15:4",          // 14:30
	"15:4:5",        // 14:30:15
	"15:4:5.999999", // 14:30:15.123
	"1504",          // 1430
}

// timePattern bounds what time.Parse is allowed to see. time.Parse accepts
// a comma before fractional seconds and any number of fraction digits.
var timePattern = regexp.MustCompile(`^(\d{1,2}:\d{1,2}(:\d{1,2}(\.\d{1,6})?)?|\d{4})$`)

// Date is a calendar date without a time zone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// TimeOfDay is an offset from midnight with microsecond precision.
type TimeOfDay time.Duration

// NewTimeOfDay builds a TimeOfDay from clock fields.
func NewTimeOfDay(hour, minute, second, microsecond int) TimeOfDay {
	return TimeOfDay(time.Duration(hour)*time.Hour +
		time.Duration(minute)*time.Minute +
		time.Duration(second)*time.Second +
		time.Duration(microsecond)*time.Microsecond)
}

// Clock returns the hour, minute, second and microsecond fields.
func (t TimeOfDay) Clock() (hour, minute, second, microsecond int) {
	d := time.Duration(t)
	hour = int(d / time.Hour)
	minute = int(d % time.Hour / time.Minute)
	second = int(d % time.Minute / time.Second)
	microsecond = int(d % time.Second / time.Microsecond)
	return
}

// String formats the time as HH:MM:SS, followed by .ffffff when the
// sub-second part is non-zero.
func (t TimeOfDay) String() string {
	h, m, s, us := t.Clock()
	if us != 0 {
		return fmt.Sprintf("%02d:%02d:%02d.%06d", h, m, s, us)
	}
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// After reports whether t is strictly later than u.
func (t TimeOfDay) After(u TimeOfDay) bool { return t > u }

// Before reports whether t is strictly earlier than u.
func (t TimeOfDay) Before(u TimeOfDay) bool { return t < u }

// ParseDate tries each supported date format in order and returns the first
// successful parse. ok is false when no format matches.
func ParseDate(s string) (d Date, ok bool) {
	for _, layout := range dateLayouts {
		parsed, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		return Date{Year: parsed.Year(), Month: parsed.Month(), Day: parsed.Day()}, true
	}
	return Date{}, false
}

// ParseTime tries each supported 24-hour time format in order and returns the
// first successful parse. ok is false when no format matches.
func ParseTime(s string) (t TimeOfDay, ok bool) {
	if !timePattern.MatchString(s) {
		return 0, false
	}
	for _, layout := range timeLayouts {
		parsed, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		// time.Parse keeps nanoseconds; receipts only carry microseconds.
		return NewTimeOfDay(parsed.Hour(), parsed.Minute(), parsed.Second(), parsed.Nanosecond()/1000), true
	}
	return 0, false
}
