package ics

import (
	"errors"
	"fmt"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"termplan/internal/model"
)

// ErrMissingBounds is the validation error for assignments without a
// start or end.
var ErrMissingBounds = errors.New("assignment start and end are required")

// Encode serializes a as an ICS document. Event instants are written in
// UTC; an event's original zone survives only as X-ORIGINAL-TZID.
func Encode(a *model.Assignment) (string, error) {
	if a == nil || a.Start.IsZero() || a.End.IsZero() {
		return "", ErrMissingBounds
	}

	cal := ical.NewCalendar()
	cal.SetProductId(productID)
	cal.SetVersion("2.0")
	cal.SetMethod(ical.MethodPublish)

	addCalendarProp(cal, propName, escapeText(a.Name))
	addCalendarProp(cal, propColor, a.Color)
	addCalendarProp(cal, propTypeID, escapeText(a.AssignmentTypeID))
	if a.UnitCode != "" {
		addCalendarProp(cal, propUnitCode, escapeText(a.UnitCode))
	}
	addCalendarProp(cal, propStart, a.Start.UTC().Format(time.RFC3339Nano))
	addCalendarProp(cal, propEnd, a.End.UTC().Format(time.RFC3339Nano))

	stamp := now().UTC()
	for _, ev := range a.Events {
		uid := ev.UID
		if uid == "" {
			uid = newUID()
		}
		ve := cal.AddEvent(uid)
		ve.SetDtStampTime(stamp)
		ve.SetProperty(ical.ComponentPropertySummary, escapeText(a.Name))
		if ev.Description != "" {
			ve.SetProperty(ical.ComponentPropertyDescription, escapeText(ev.Description))
		}
		if !ev.Start.IsZero() {
			ve.SetStartAt(ev.Start)
			setExact(ve, propExactStart, ev.Start)
		}
		if !ev.End.IsZero() {
			ve.SetEndAt(ev.End)
			setExact(ve, propExactEnd, ev.End)
		}
		if ev.Status.Valid() {
			ve.SetProperty(ical.ComponentPropertyStatus, string(ev.Status))
		}
		if ev.TZID != "" {
			ve.SetProperty(ical.ComponentProperty(propOriginalTZID), ev.TZID)
		}
	}

	return cal.Serialize(), nil
}

func setExact(ve *ical.VEvent, name string, t time.Time) {
	if t.Nanosecond() != 0 {
		ve.SetProperty(ical.ComponentProperty(name), t.UTC().Format(time.RFC3339Nano))
	}
}

func addCalendarProp(cal *ical.Calendar, name, value string) {
	cal.CalendarProperties = append(cal.CalendarProperties, ical.CalendarProperty{
		BaseProperty: ical.BaseProperty{
			IANAToken:      name,
			ICalParameters: map[string][]string{},
			Value:          value,
		},
	})
}

// newUID returns a per-call unique id: timestamp, random suffix, domain.
func newUID() string {
	return fmt.Sprintf("%d-%s@%s", time.Now().UnixNano(), uuid.NewString(), uidDomain)
}
