package planner_test

import (
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"termplan/internal/catalog"
	"termplan/internal/ics"
	"termplan/internal/model"
	"termplan/internal/planner"
)

var now = time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

type recorder struct {
	mu   sync.Mutex
	msgs []planner.Level
}

func (r *recorder) Notify(level planner.Level, _ string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, level)
}

func newPlanner(t *testing.T) (*planner.Planner, *recorder) {
	t.Helper()
	cat, err := catalog.Parse([]byte(`
- id: essay
  title: Essay
  milestones:
    - {name: Research, effort_percent: 25}
    - {name: Outline, effort_percent: 25}
    - {name: Draft, effort_percent: 25}
    - {name: Polish, effort_percent: 25}
`))
	require.NoError(t, err)
	rec := &recorder{}
	p := planner.New(planner.Options{
		Term:     model.NewTerm(now, now.AddDate(0, 0, 30), "T1"),
		Catalog:  cat,
		TZID:     "Australia/Melbourne",
		Notifier: rec,
		Now:      func() time.Time { return now },
	})
	return p, rec
}

func req(name, unit, color string, days int) planner.CreateRequest {
	return planner.CreateRequest{
		Name: name, UnitCode: unit, Color: color, TypeID: "essay",
		Start: now, End: now.AddDate(0, 0, days),
	}
}

func TestCreateGroupsAndRanks(t *testing.T) {
	p, _ := newPlanner(t)

	a1, ok, err := p.Create(req("Essay 1", "HIST", "red", 20))
	require.NoError(t, err)
	require.True(t, ok)
	a2, ok, err := p.Create(req("Essay 2", "HIST", "green", 8))
	require.NoError(t, err)
	require.True(t, ok)

	assert.Len(t, a1.Events, 4)
	assert.Equal(t, "Australia/Melbourne", a1.Events[0].TZID)
	assert.Equal(t, "red", a2.Color)
	assert.Same(t, a2, p.Latest())

	groups := p.Groups()
	require.Len(t, groups, 1)
	assert.Equal(t, "red", groups[0].Color)

	urgent := p.Urgent()
	require.Len(t, urgent, 2)
	assert.Same(t, a2, urgent[0].Assignment)
	assert.Same(t, a1, urgent[1].Assignment)

	found, err := p.Find("HIST", 1)
	require.NoError(t, err)
	assert.Same(t, a2, found)
	_, err = p.Find("HIST", 2)
	assert.True(t, errors.Is(err, planner.ErrNotFound))
}

func TestCreateWithoutUnitIsDropped(t *testing.T) {
	p, rec := newPlanner(t)
	a, ok, err := p.Create(req("Loose", "", "red", 5))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NotNil(t, a)
	assert.Empty(t, p.Groups())
	assert.Empty(t, p.Urgent())
	assert.Equal(t, []planner.Level{planner.LevelWarning}, rec.msgs)
}

func TestCreateErrors(t *testing.T) {
	p, rec := newPlanner(t)
	_, _, err := p.Create(planner.CreateRequest{TypeID: "thesis", UnitCode: "U", Start: now, End: now})
	assert.True(t, errors.Is(err, catalog.ErrUnknownTemplate))

	r := req("Backwards", "U", "", 5)
	r.Start, r.End = r.End, r.Start
	_, _, err = p.Create(r)
	assert.True(t, errors.Is(err, model.ErrReversedRange))
	assert.Len(t, rec.msgs, 2)
}

func TestEditKeepsColorAndRequeues(t *testing.T) {
	p, _ := newPlanner(t)
	old, _, err := p.Create(req("Essay", "HIST", "amber", 20))
	require.NoError(t, err)
	other, _, err := p.Create(req("Quiz", "MATH", "teal", 10))
	require.NoError(t, err)

	edited, ok, err := p.Edit(old, req("Essay (extended)", "HIST", "pink", 3))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "amber", edited.Color)

	urgent := p.Urgent()
	require.Len(t, urgent, 2)
	assert.Same(t, edited, urgent[0].Assignment)
	assert.Same(t, other, urgent[1].Assignment)
}

func TestDelete(t *testing.T) {
	p, _ := newPlanner(t)
	a, _, err := p.Create(req("Essay", "HIST", "amber", 20))
	require.NoError(t, err)

	assert.True(t, p.Delete(a))
	assert.False(t, p.Delete(a))
	assert.Empty(t, p.Groups())
	assert.Empty(t, p.Urgent())
}

func TestImportExport(t *testing.T) {
	p, rec := newPlanner(t)
	a, _, err := p.Create(req("Essay", "HIST", "amber", 8))
	require.NoError(t, err)

	text, filename, err := p.Export(a)
	require.NoError(t, err)
	assert.Equal(t, "HIST-Essay.ics", filename)

	imported, ok, err := p.Import(text, filename)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "amber", imported.Color)
	assert.Len(t, p.Groups()[0].Assignments, 2)

	_, _, err = p.Import("", "broken.ics")
	assert.True(t, errors.Is(err, ics.ErrEmptyBody))
	assert.Len(t, p.Groups()[0].Assignments, 2)
	assert.Contains(t, rec.msgs, planner.LevelError)

	_, _, err = p.Export(&model.Assignment{Name: "No dates"})
	assert.True(t, errors.Is(err, ics.ErrMissingBounds))
}

func TestApplySampleReplacesPreviousVersion(t *testing.T) {
	p, _ := newPlanner(t)
	v1 := &model.Assignment{Name: "Sample", UnitCode: "DEMO", Color: "cyan", Start: now, End: now.AddDate(0, 0, 3)}
	v2 := &model.Assignment{Name: "Sample", UnitCode: "DEMO", Color: "rose", Start: now, End: now.AddDate(0, 0, 4)}

	require.True(t, p.ApplySample("demo", v1))
	require.True(t, p.ApplySample("demo", v2))

	groups := p.Groups()
	require.Len(t, groups, 1)
	assert.Equal(t, []*model.Assignment{v2}, groups[0].Assignments)
	assert.Equal(t, "cyan", v2.Color)
	assert.Len(t, p.Urgent(), 1)
}

func TestEditedSampleIsNotRestoredByRefresh(t *testing.T) {
	p, _ := newPlanner(t)
	v1 := &model.Assignment{Name: "Sample", UnitCode: "DEMO", Color: "cyan", Start: now, End: now.AddDate(0, 0, 3)}
	require.True(t, p.ApplySample("demo", v1))

	mine := &model.Assignment{Name: "Mine", UnitCode: "DEMO", Start: now, End: now.AddDate(0, 0, 5)}
	require.True(t, p.Replace(v1, mine))

	fresh := &model.Assignment{Name: "Sample", UnitCode: "DEMO", Start: now, End: now.AddDate(0, 0, 3)}
	assert.False(t, p.ApplySample("demo", fresh))

	groups := p.Groups()
	require.Len(t, groups, 1)
	assert.Equal(t, []*model.Assignment{mine}, groups[0].Assignments)
	assert.Len(t, p.Urgent(), 1)
}

func TestDeletedSampleStaysDeleted(t *testing.T) {
	p, _ := newPlanner(t)
	v1 := &model.Assignment{Name: "Sample", UnitCode: "DEMO", Start: now, End: now.AddDate(0, 0, 3)}
	require.True(t, p.ApplySample("demo", v1))
	require.True(t, p.Delete(v1))

	fresh := &model.Assignment{Name: "Sample", UnitCode: "DEMO", Start: now, End: now.AddDate(0, 0, 3)}
	assert.False(t, p.ApplySample("demo", fresh))
	assert.Empty(t, p.Groups())
	assert.Empty(t, p.Urgent())

	other := &model.Assignment{Name: "Other", UnitCode: "LAB", Start: now, End: now.AddDate(0, 0, 3)}
	assert.True(t, p.ApplySample("lab", other))
}

func TestImportWithoutColorPicksGroupColor(t *testing.T) {
	p, _ := newPlanner(t)
	colors := map[string]bool{}
	for i := range 30 {
		doc := "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:-//Other//EN\r\n" +
			"X-UNIT-CODE:U" + strconv.Itoa(i) + "\r\nEND:VCALENDAR\r\n"
		a, ok, err := p.Import(doc, "plain.ics")
		require.NoError(t, err)
		require.True(t, ok)
		colors[a.Color] = true
	}
	assert.Greater(t, len(colors), 1)
}

func TestGrid(t *testing.T) {
	p, _ := newPlanner(t)
	_, _, err := p.Create(req("Essay", "HIST", "amber", 8))
	require.NoError(t, err)

	days := p.Grid()
	require.Len(t, days, 35)
	require.Len(t, days[4].Cells, 1)
	assert.Equal(t, "Draft", days[4].Cells[0].Event.Summary)
}
