package ics

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	appLog "termplan/internal/log"
	"termplan/internal/model"
	"termplan/internal/palette"
)

// ErrEmptyBody is returned when there is nothing to decode.
var ErrEmptyBody = errors.New("empty ICS body")

// now is swapped in tests.
var now = time.Now

// Decode parses an ICS document into an assignment. filename is the last
// resort for the assignment name. Events keep their order in the source.
// A document without a usable color decodes to palette.Default.
func Decode(text, filename string) (*model.Assignment, error) {
	a, _, err := DecodeWithColor(text, filename)
	return a, err
}

// DecodeWithColor is Decode that also returns the palette color the
// document named, or "" when it named none. Callers that pick a color for
// a new group pass this instead of a.Color.
func DecodeWithColor(text, filename string) (*model.Assignment, string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, "", ErrEmptyBody
	}

	cal, err := ical.ParseCalendar(strings.NewReader(text))
	if err != nil {
		appLog.Error("ics parse failed", err, "filename", filename)
		return nil, "", fmt.Errorf("parse calendar: %w", err)
	}

	meta := calendarProps(cal)
	explicit := decodeColor(meta)

	a := &model.Assignment{
		Name:             firstNonEmpty(meta[propName], meta[propWRName], meta[propName7986], filenameStem(filename), defaultName),
		UnitCode:         strings.TrimSpace(meta[propUnitCode]),
		Color:            string(palette.OrDefault(string(explicit))),
		AssignmentTypeID: firstNonEmpty(meta[propTypeID], defaultTypeID),
	}

	vevents := cal.Events()
	a.Events = make([]model.MilestoneEvent, 0, len(vevents))
	for _, ve := range vevents {
		a.Events = append(a.Events, decodeEvent(ve))
	}

	a.Start, a.End = decodeBounds(meta, a.Events)
	if a.End.Before(a.Start) {
		return nil, "", fmt.Errorf("%w: %s", model.ErrReversedRange, a.Name)
	}

	appLog.Debug("ics decode completed", "name", a.Name, "unit", a.UnitCode, "event_count", len(a.Events))
	return a, string(explicit), nil
}

// DecodeSorted is the path for built-in sample calendars: like Decode, but
// events are ordered by start with start-less events last.
func DecodeSorted(text, filename string) (*model.Assignment, error) {
	a, err := Decode(text, filename)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(a.Events, func(i, j int) bool {
		si, sj := a.Events[i].Start, a.Events[j].Start
		if si.IsZero() || sj.IsZero() {
			return !si.IsZero() && sj.IsZero()
		}
		return si.Before(sj)
	})
	return a, nil
}

// calendarProps collects calendar-level properties; the first occurrence
// of a name wins.
func calendarProps(cal *ical.Calendar) map[string]string {
	out := make(map[string]string, len(cal.CalendarProperties))
	for _, p := range cal.CalendarProperties {
		key := strings.ToUpper(p.IANAToken)
		if _, seen := out[key]; seen {
			continue
		}
		out[key] = unescapeText(p.Value)
	}
	return out
}

// decodeColor returns the first recognized color, or "".
func decodeColor(meta map[string]string) palette.Token {
	for _, key := range []string{propColor, propAppleCol, propColor7986} {
		if t, ok := palette.Normalize(meta[key]); ok {
			return t
		}
	}
	return ""
}

// decodeBounds prefers the explicit metadata and otherwise spans the
// events. With neither, both bounds are "now".
func decodeBounds(meta map[string]string, events []model.MilestoneEvent) (time.Time, time.Time) {
	start, startOK := parseStamp(meta[propStart])
	end, endOK := parseStamp(meta[propEnd])
	if startOK && endOK {
		return start, end
	}

	var minStart, maxEnd time.Time
	for _, ev := range events {
		if !ev.Start.IsZero() && (minStart.IsZero() || ev.Start.Before(minStart)) {
			minStart = ev.Start
		}
		if !ev.End.IsZero() && (maxEnd.IsZero() || ev.End.After(maxEnd)) {
			maxEnd = ev.End
		}
	}

	n := now()
	if !startOK {
		start = minStart
		if start.IsZero() {
			start = n
		}
	}
	if !endOK {
		end = maxEnd
		if end.IsZero() {
			end = n
		}
	}
	return start, end
}

func parseStamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		appLog.Debug("ics: ignoring malformed timestamp", "value", s)
		return time.Time{}, false
	}
	return t, true
}

func decodeEvent(ve *ical.VEvent) model.MilestoneEvent {
	var ev model.MilestoneEvent

	if p := ve.GetProperty(ical.ComponentPropertyUniqueId); p != nil {
		ev.UID = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		ev.Summary = unescapeText(p.Value)
	}
	if p := ve.GetProperty(ical.ComponentPropertyDescription); p != nil {
		ev.Description = unescapeText(p.Value)
	}
	if p := ve.GetProperty(ical.ComponentPropertyStatus); p != nil {
		ev.Status = model.ParseStatus(strings.ToUpper(strings.TrimSpace(p.Value)))
	}

	// Missing or unparsable DTSTART/DTEND leave zero times.
	if start, err := ve.GetStartAt(); err == nil {
		ev.Start = exactInstant(ve, propExactStart, start.UTC())
		ev.TZID = startZone(ve, start)
	}
	if end, err := ve.GetEndAt(); err == nil {
		ev.End = exactInstant(ve, propExactEnd, end.UTC())
	}

	if p := ve.GetProperty(ical.ComponentProperty(propOriginalTZID)); p != nil && p.Value != "" {
		ev.TZID = p.Value
	}
	return ev
}

// exactInstant restores the sub-second instant stored under name. It is
// ignored unless it falls in the same second as the standard property,
// so an edit made by another client wins.
func exactInstant(ve *ical.VEvent, name string, stamp time.Time) time.Time {
	p := ve.GetProperty(ical.ComponentProperty(name))
	if p == nil {
		return stamp
	}
	exact, ok := parseStamp(p.Value)
	if !ok || !exact.Truncate(time.Second).Equal(stamp) {
		return stamp
	}
	return exact.UTC()
}

// startZone names the zone DTSTART was written in. UTC and floating times
// carry no useful zone.
func startZone(ve *ical.VEvent, start time.Time) string {
	if p := ve.GetProperty(ical.ComponentPropertyDtStart); p != nil {
		if tzs, ok := p.ICalParameters["TZID"]; ok && len(tzs) > 0 && tzs[0] != "" {
			return tzs[0]
		}
	}
	switch name := start.Location().String(); name {
	case "UTC", "Local", "":
		return ""
	default:
		return name
	}
}

func filenameStem(name string) string {
	base := filepath.Base(strings.TrimSpace(name))
	if base == "." || base == "/" {
		return ""
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
