package calendar_test

import (
	"testing"
	"time"

	"github.com/alejandrodnm/oddsdesk/internal/calendar"
	"github.com/alejandrodnm/oddsdesk/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func makeEvent(id, start string, allDay bool) domain.CalendarEvent {
	return domain.CalendarEvent{
		ID:       id,
		Slug:     id,
		Title:    "Event " + id,
		Desk:     "economy",
		Impact:   domain.ImpactMedium,
		StartsAt: at(start),
		AllDay:   allDay,
	}
}

func ids(events []domain.CalendarEvent) []string {
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.ID
	}
	return out
}

func TestDateKey_UsesUTC(t *testing.T) {
	// 22:00 en Nueva York es el día siguiente en UTC
	assert.Equal(t, "2026-11-05", calendar.DateKey(at("2026-11-04T22:00:00-05:00")))
	assert.Equal(t, "2026-11-04", calendar.DateKey(at("2026-11-04T12:00:00Z")))
}

func TestGroupByDay_SameInstantDifferentZones(t *testing.T) {
	events := []domain.CalendarEvent{
		makeEvent("ny", "2026-11-04T09:00:00-05:00", false),
		makeEvent("london", "2026-11-04T14:00:00Z", false),
	}
	groups := calendar.GroupByDay(events)
	require.Len(t, groups, 1)
	assert.Len(t, groups["2026-11-04"], 2)
}

func TestGroupByDay_AllDayFirstThenChronological(t *testing.T) {
	events := []domain.CalendarEvent{
		makeEvent("cpi", "2026-11-12T13:30:00Z", false),
		makeEvent("holiday", "2026-11-12T00:00:00Z", true),
		makeEvent("open", "2026-11-12T09:00:00Z", false),
		makeEvent("summit", "2026-11-12T00:00:00Z", true),
		makeEvent("late", "2026-11-12T20:00:00Z", false),
	}

	groups := calendar.GroupByDay(events)
	day := groups["2026-11-12"]
	// all-day en orden de entrada, luego timed por hora
	assert.Equal(t, []string{"holiday", "summit", "open", "cpi", "late"}, ids(day))
}

func TestGroupByDay_DoesNotMutateInput(t *testing.T) {
	events := []domain.CalendarEvent{
		makeEvent("b", "2026-11-12T13:30:00Z", false),
		makeEvent("a", "2026-11-12T09:00:00Z", false),
	}
	calendar.GroupByDay(events)
	assert.Equal(t, []string{"b", "a"}, ids(events))
}

func TestDays_FlattenIsPermutation(t *testing.T) {
	events := []domain.CalendarEvent{
		makeEvent("e1", "2026-11-14T10:00:00Z", false),
		makeEvent("e2", "2026-11-12T13:30:00Z", false),
		makeEvent("e3", "2026-11-12T00:00:00Z", true),
		makeEvent("e4", "2026-11-13T23:30:00-05:00", false), // 14 UTC
		makeEvent("e5", "2026-11-13T08:00:00Z", false),
	}

	days := calendar.Days(events)
	require.Len(t, days, 3)
	assert.Equal(t, "2026-11-12", days[0].Date)
	assert.Equal(t, "2026-11-13", days[1].Date)
	assert.Equal(t, "2026-11-14", days[2].Date)

	flat := calendar.Flatten(days)
	assert.ElementsMatch(t, ids(events), ids(flat))
	assert.Equal(t, []string{"e3", "e2", "e5", "e4", "e1"}, ids(flat))

	for _, d := range days {
		seenTimed := false
		for _, e := range d.Events {
			if !e.AllDay {
				seenTimed = true
				continue
			}
			assert.False(t, seenTimed, "all-day event after timed event on %s", d.Date)
		}
	}
}

func TestDays_Empty(t *testing.T) {
	assert.Empty(t, calendar.Days(nil))
	assert.Empty(t, calendar.Flatten(nil))
}
