// Package calendar renders events as iCalendar documents so attendees can add
// them to their own calendars.
package calendar

import (
	"errors"
	"strings"
	"time"

	"github.com/Shivanand-hulikatti/virtual-events/internal/model"
	"github.com/Shivanand-hulikatti/virtual-events/internal/sanitize"
	ical "github.com/arran4/golang-ical"
)

const (
	productID = "-//virtual-events//calendar export//EN"
	uidDomain = "virtual-events"
)

// ContentType is the media type of Export's output.
const ContentType = "text/calendar; charset=utf-8"

var ErrIncomplete = errors.New("event has no id or start date")

// UID is the stable identifier of e in exported calendars.
func UID(e model.Event) string {
	return e.ID + "@" + uidDomain
}

// Export returns a VCALENDAR holding a single VEVENT for e. baseURL is the
// public address of the service and is used for the event link.
func Export(e model.Event, baseURL string) (string, error) {
	if e.ID == "" || e.StartDate.IsZero() {
		return "", ErrIncomplete
	}

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)

	ve := cal.AddEvent(UID(e))
	ve.SetDtStampTime(time.Now().UTC())
	ve.SetStartAt(e.StartDate.UTC())
	ve.SetEndAt(endOf(e).UTC())
	ve.SetSummary(e.Title)
	if desc := sanitize.Text(e.Description); desc != "" {
		ve.SetDescription(desc)
	}
	if loc := location(e); loc != "" {
		ve.SetLocation(loc)
	}
	if baseURL != "" {
		ve.SetURL(strings.TrimRight(baseURL, "/") + "/events/" + e.ID)
	}
	if e.Organizer.Name != "" {
		ve.SetOrganizer("urn:virtual-events:user:"+e.Organizer.ID, ical.WithCN(e.Organizer.Name))
	}
	// One CATEGORIES line per value; the library escapes commas inside each.
	for _, c := range categories(e) {
		ve.AddCategory(c)
	}

	return cal.Serialize(ical.WithNewLineWindows), nil
}

// endOf falls back to the duration, then to one hour, when no end is stored.
func endOf(e model.Event) time.Time {
	if !e.EndDate.IsZero() {
		return e.EndDate
	}
	if e.Duration != nil && *e.Duration > 0 {
		return e.StartDate.Add(time.Duration(*e.Duration) * time.Minute)
	}
	return e.StartDate.Add(time.Hour)
}

func location(e model.Event) string {
	if e.Location != "" {
		return e.Location
	}
	return e.HostURL
}

// categories lists the event's category followed by its tags, without blanks
// or repeats.
func categories(e model.Event) []string {
	seen := make(map[string]bool, len(e.Tags)+1)
	var out []string
	for _, c := range append([]string{e.Category}, e.Tags...) {
		c = strings.TrimSpace(c)
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}
