package calendar

import (
	"strings"
	"testing"
	"time"

	"github.com/Shivanand-hulikatti/virtual-events/internal/catalog"
	"github.com/Shivanand-hulikatti/virtual-events/internal/model"
	ical "github.com/arran4/golang-ical"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, doc string) *ical.VEvent {
	t.Helper()
	cal, err := ical.ParseCalendar(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, cal.Events(), 1)
	return cal.Events()[0]
}

func prop(ve *ical.VEvent, name ical.ComponentProperty) string {
	if p := ve.GetProperty(name); p != nil {
		return p.Value
	}
	return ""
}

func TestExportCatalogEvent(t *testing.T) {
	e := catalog.Events()[0]

	doc, err := Export(e, "https://events.example.com/")
	require.NoError(t, err)
	require.Contains(t, doc, "BEGIN:VCALENDAR")

	ve := parse(t, doc)
	require.Equal(t, "1@virtual-events", prop(ve, ical.ComponentPropertyUniqueId))
	require.Equal(t, "Web Development Masterclass", prop(ve, ical.ComponentPropertySummary))
	require.Equal(t, "https://events.example.com/events/1", prop(ve, ical.ComponentPropertyUrl))
	require.Equal(t, "https://zoom.us/j/example", prop(ve, ical.ComponentPropertyLocation))

	start, err := ve.GetStartAt()
	require.NoError(t, err)
	require.True(t, start.Equal(e.StartDate))
	end, err := ve.GetEndAt()
	require.NoError(t, err)
	require.True(t, end.Equal(e.EndDate))
}

func TestExportFallsBackToDuration(t *testing.T) {
	d := 45
	e := model.Event{
		ID:          "event_x",
		Title:       "Short talk",
		Description: "<p>Bring <b>questions</b></p>",
		Category:    "Webinar",
		StartDate:   time.Date(2025, 9, 1, 18, 0, 0, 0, time.UTC),
		Location:    "Online",
		Duration:    &d,
	}

	doc, err := Export(e, "")
	require.NoError(t, err)

	ve := parse(t, doc)
	end, err := ve.GetEndAt()
	require.NoError(t, err)
	require.True(t, end.Equal(e.StartDate.Add(45*time.Minute)))
	require.Equal(t, "Online", prop(ve, ical.ComponentPropertyLocation))
	require.Equal(t, "Bring questions", prop(ve, ical.ComponentPropertyDescription))
	require.Empty(t, prop(ve, ical.ComponentPropertyUrl))
}

func TestExportCategoriesKeepCommasInsideValues(t *testing.T) {
	e := model.Event{
		ID:        "event_y",
		Title:     "Open floor",
		Category:  "Technology",
		StartDate: time.Date(2025, 9, 2, 18, 0, 0, 0, time.UTC),
		Tags:      []string{"Q&A, live", "beginner", "Technology", " "},
	}

	doc, err := Export(e, "")
	require.NoError(t, err)
	require.Contains(t, doc, "CATEGORIES:Technology\r\n")
	require.Contains(t, doc, "CATEGORIES:Q&A\\, live\r\n")
	require.Contains(t, doc, "CATEGORIES:beginner\r\n")

	var n int
	for _, p := range parse(t, doc).Properties {
		if p.IANAToken == string(ical.ComponentPropertyCategories) {
			n++
		}
	}
	require.Equal(t, 3, n)
}

func TestExportIncomplete(t *testing.T) {
	_, err := Export(model.Event{ID: "1"}, "")
	require.ErrorIs(t, err, ErrIncomplete)
}
