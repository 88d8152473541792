package api

import (
	"errors"
	"net/url"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

var errInvalidRangeBound = errors.New("invalid range bound")

// parseSessionRange accepts RFC3339 timestamps or calendar dates. A calendar
// end date covers the whole day in location.
func parseSessionRange(rawStart string, rawEnd string, location *time.Location) (time.Time, time.Time, error) {
	from, _, err := parseRangeBound(rawStart, location)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, dateOnly, err := parseRangeBound(rawEnd, location)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if dateOnly {
		to = to.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return from, to, nil
}

func parseRangeBound(raw string, location *time.Location) (time.Time, bool, error) {
	value := strings.TrimSpace(raw)
	if unescaped, err := url.PathUnescape(value); err == nil {
		value = unescaped
	}
	if value == "" {
		return time.Time{}, false, errInvalidRangeBound
	}
	if parsed, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return parsed, false, nil
	}
	if parsed, err := time.ParseInLocation(dateLayout, value, location); err == nil {
		return parsed, true, nil
	}
	return time.Time{}, false, errInvalidRangeBound
}
