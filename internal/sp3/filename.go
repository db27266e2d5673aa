package sp3

import (
	"regexp"
	"strconv"
	"time"
)

// GPSEpoch is the origin of GPS time.
var GPSEpoch = time.Date(1980, time.January, 6, 0, 0, 0, 0, time.UTC)

var refName = regexp.MustCompile(`(?i)Ref(\d{4})(\d)\.sp3$`)

// ParseFilenameDate extracts the product date from a RefWWWWD.sp3 filename.
func ParseFilenameDate(name string) (time.Time, bool) {
	week, day, ok := ParseFilenameWeek(name)
	if !ok {
		return time.Time{}, false
	}
	return GPSDate(week, day), true
}

// ParseFilenameWeek returns the GPS week and day of week encoded in name.
func ParseFilenameWeek(name string) (week, day int, ok bool) {
	m := refName.FindStringSubmatch(name)
	if m == nil {
		return 0, 0, false
	}
	week, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, 0, false
	}
	day, err = strconv.Atoi(m[2])
	if err != nil {
		return 0, 0, false
	}
	return week, day, true
}

// GPSDate converts a GPS week and day of week to a UTC calendar date.
func GPSDate(week, day int) time.Time {
	return GPSEpoch.AddDate(0, 0, week*7+day)
}
