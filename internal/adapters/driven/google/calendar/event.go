package calendar

import (
	"fmt"
	"strconv"
	"strings"

	"google.golang.org/api/calendar/v3"

	"github.com/custodia-labs/calbridge/internal/core/domain"
)

// EventFromDetails converts caller-supplied event details into the Google
// Calendar wire representation.
//
// A usable start time makes this a timed event: start and end carry
// dateTime plus the configured timezone, and a missing or malformed end
// time defaults to start+1h, clipped to 23:59 when that would cross
// midnight rather than wrapped onto the next day. Without a start time the
// event is all-day: date only, no timeZone field on either end.
func EventFromDetails(details domain.EventDetails, timeZone string) *calendar.Event {
	event := &calendar.Event{
		Summary:     details.Title,
		Description: details.Description,
	}
	if event.Description == "" {
		event.Description = domain.DefaultDescription
	}

	if !details.IsTimed() {
		event.Start = &calendar.EventDateTime{Date: details.Date}
		event.End = &calendar.EventDateTime{Date: details.Date}
		return event
	}

	start := fmt.Sprintf("%sT%s:00", details.Date, details.StartTime)
	end := fmt.Sprintf("%sT%s:00", details.Date, endTimeFor(details))

	event.Start = &calendar.EventDateTime{DateTime: start, TimeZone: timeZone}
	event.End = &calendar.EventDateTime{DateTime: end, TimeZone: timeZone}
	return event
}

// endTimeFor picks the HH:MM end time for a timed event.
func endTimeFor(details domain.EventDetails) string {
	if isClockTime(details.EndTime) {
		return details.EndTime
	}

	hours, minutes := splitClockTime(details.StartTime)
	hours++
	if hours >= 24 {
		// Clip at the end of the day; the event stays on its own date.
		return "23:59"
	}
	return fmt.Sprintf("%02d:%02d", hours, minutes)
}

// isClockTime reports whether s is a well-formed HH:MM string.
func isClockTime(s string) bool {
	if len(s) != 5 || s[2] != ':' {
		return false
	}
	_, _, ok := parseClockTime(s)
	return ok
}

func splitClockTime(s string) (hours, minutes int) {
	hours, minutes, _ = parseClockTime(s)
	return hours, minutes
}

func parseClockTime(s string) (hours, minutes int, ok bool) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	h, herr := strconv.Atoi(parts[0])
	m, merr := strconv.Atoi(parts[1])
	if herr != nil || merr != nil || h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, 0, false
	}
	return h, m, true
}
