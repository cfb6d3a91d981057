// Package dates converts the two date encodings used by the smotrim catalog
// into UTC instants, and formats instants the way RSS wants them.
package dates

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// rfc822Layout is the pubDate format required by the RSS specification.
const rfc822Layout = "Mon, 02 Jan 2006 15:04:05 -0700"

// moscow is the civil timezone all upstream dates are expressed in.
var moscow *time.Location

func init() {
	loc, err := time.LoadLocation("Europe/Moscow")
	if err != nil {
		panic("load Europe/Moscow: " + err.Error())
	}
	moscow = loc
}

// monthsRu maps the genitive-case Russian month names the catalog uses to
// month numbers.
var monthsRu = map[string]time.Month{
	"января":   time.January,
	"февраля":  time.February,
	"марта":    time.March,
	"апреля":   time.April,
	"мая":      time.May,
	"июня":     time.June,
	"июля":     time.July,
	"августа":  time.August,
	"сентября": time.September,
	"октября":  time.October,
	"ноября":   time.November,
	"декабря":  time.December,
}

// Parse converts an upstream publication date to a UTC instant. Recent
// episodes carry only a clock time ("10:06"), meaning today in Moscow;
// older ones carry a full date ("05 февраля 2025"), meaning midnight
// Moscow on that day.
//
// time.Date in a fixed location resolves DST gaps and overlaps by
// normalization, so the conversion is deterministic for every input.
func Parse(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if len(s) <= 5 && strings.Contains(s, ":") {
		return parseTimeOnly(s)
	}
	return parseFullDate(s)
}

func parseTimeOnly(s string) (time.Time, error) {
	clock, err := time.Parse("15:04", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time %q: %w", s, err)
	}
	// "Today" is today on the Moscow calendar, whatever timezone the
	// process happens to run in.
	now := time.Now().In(moscow)
	dt := time.Date(now.Year(), now.Month(), now.Day(), clock.Hour(), clock.Minute(), 0, 0, moscow)
	return dt.UTC(), nil
}

func parseFullDate(s string) (time.Time, error) {
	parts := strings.Fields(s)
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("unexpected date format %q", s)
	}

	day, err := strconv.Atoi(parts[0])
	if err != nil {
		return time.Time{}, fmt.Errorf("parse day in %q: %w", s, err)
	}
	month, ok := monthsRu[strings.ToLower(parts[1])]
	if !ok {
		return time.Time{}, fmt.Errorf("unknown month %q in %q", parts[1], s)
	}
	year, err := strconv.Atoi(parts[2])
	if err != nil {
		return time.Time{}, fmt.Errorf("parse year in %q: %w", s, err)
	}

	dt := time.Date(year, month, day, 0, 0, 0, 0, moscow)
	// time.Date normalizes out-of-range components ("32 января" becomes
	// February 1st); round-trip the fields to reject such input instead.
	if dt.Year() != year || dt.Month() != month || dt.Day() != day {
		return time.Time{}, fmt.Errorf("invalid calendar date %q", s)
	}
	return dt.UTC(), nil
}

// FormatRFC822 renders t as an RFC-822 date in UTC, e.g.
// "Sat, 01 Feb 2025 00:00:00 +0000".
func FormatRFC822(t time.Time) string {
	return t.UTC().Format(rfc822Layout)
}
