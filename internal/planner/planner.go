// Package planner is the coordinating context that owns the group store
// and the urgency queue. All mutations go through it.
package planner

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"termplan/internal/catalog"
	"termplan/internal/grid"
	"termplan/internal/ics"
	appLog "termplan/internal/log"
	"termplan/internal/model"
	"termplan/internal/schedule"
	"termplan/internal/store"
	"termplan/internal/urgency"
)

// ErrNotFound is returned by lookups for assignments not in the planner.
var ErrNotFound = errors.New("assignment not found")

// Options configures a Planner. Zero values get defaults.
type Options struct {
	Term     model.Term
	Catalog  *catalog.Catalog
	TZID     string
	Notifier Notifier
	Now      func() time.Time
}

// CreateRequest describes an assignment to schedule from a template.
type CreateRequest struct {
	Name     string
	UnitCode string
	Color    string
	TypeID   string
	Start    time.Time
	End      time.Time
}

// Group is a read-only view of one unit's assignments.
type Group struct {
	UnitCode    string
	Color       string
	Assignments []*model.Assignment
}

type Planner struct {
	mu sync.Mutex

	term     model.Term
	catalog  *catalog.Catalog
	tzid     string
	notifier Notifier
	now      func() time.Time

	store *store.Store
	queue *urgency.Queue
	// samples maps a sample id to its stored instance. A nil value marks a
	// sample the user edited or deleted; refreshes leave it alone.
	samples map[string]*model.Assignment
}

func New(opts Options) *Planner {
	if opts.Notifier == nil {
		opts.Notifier = LogNotifier{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Planner{
		term:     opts.Term,
		catalog:  opts.Catalog,
		tzid:     opts.TZID,
		notifier: opts.Notifier,
		now:      opts.Now,
		store:    store.New(),
		queue:    urgency.NewQueue(opts.Now),
		samples:  map[string]*model.Assignment{},
	}
}

func (p *Planner) Term() model.Term { return p.term }

func (p *Planner) Templates() []model.MilestoneTemplate { return p.catalog.List() }

// Build schedules a new, not yet stored assignment from its template.
func (p *Planner) Build(req CreateRequest) (*model.Assignment, error) {
	tpl, err := p.catalog.Get(req.TypeID)
	if err != nil {
		return nil, err
	}
	name := req.Name
	if name == "" {
		name = tpl.DisplayName
	}
	events := schedule.Milestones(tpl, req.Start, req.End, schedule.Options{TZID: p.tzid})
	return model.NewAssignment(name, req.UnitCode, req.Color, tpl.ID, req.Start, req.End, events)
}

// Create schedules and stores an assignment. The bool is false when the
// assignment was not stored because it has no unit code.
func (p *Planner) Create(req CreateRequest) (*model.Assignment, bool, error) {
	a, err := p.Build(req)
	if err != nil {
		p.notifier.Notify(LevelError, fmt.Sprintf("Could not create %q: %v", req.Name, err))
		return nil, false, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return a, p.addLocked(a, req.Color), nil
}

// Import decodes an ICS document and stores the result. Nothing changes
// when decoding fails.
func (p *Planner) Import(text, filename string) (*model.Assignment, bool, error) {
	a, color, err := ics.DecodeWithColor(text, filename)
	if err != nil {
		p.notifier.Notify(LevelError, fmt.Sprintf("Could not import %s: %v", filename, err))
		return nil, false, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return a, p.addLocked(a, color), nil
}

// Replace swaps old for updated, keeping the group color.
func (p *Planner) Replace(old, updated *model.Assignment) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	ok := p.replaceLocked(old, updated)
	if updated != nil {
		// old is out of the store even when updated was dropped.
		p.detachSampleLocked(old)
	}
	return ok
}

// Edit reschedules old from req and replaces it.
func (p *Planner) Edit(old *model.Assignment, req CreateRequest) (*model.Assignment, bool, error) {
	a, err := p.Build(req)
	if err != nil {
		return nil, false, err
	}
	return a, p.Replace(old, a), nil
}

func (p *Planner) Delete(a *model.Assignment) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.store.Remove(a) {
		return false
	}
	p.queue.Remove(a)
	p.detachSampleLocked(a)
	return true
}

// ApplySample stores a freshly loaded sample calendar, replacing the
// previous version loaded under the same id. A sample the user has edited
// or deleted is not touched again.
func (p *Planner) ApplySample(id string, a *model.Assignment) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	prev, tracked := p.samples[id]
	if tracked && prev == nil {
		appLog.Debug("sample detached, skipping refresh", "id", id)
		return false
	}
	var ok bool
	if prev != nil {
		ok = p.replaceLocked(prev, a)
	} else {
		ok = p.addLocked(a, a.Color)
	}
	if ok {
		p.samples[id] = a
	} else {
		delete(p.samples, id)
	}
	return ok
}

// Export encodes a and returns the document with a download filename.
func (p *Planner) Export(a *model.Assignment) (string, string, error) {
	text, err := ics.Encode(a)
	if err != nil {
		p.notifier.Notify(LevelError, fmt.Sprintf("Could not export: %v", err))
		return "", "", err
	}
	name := a.Name
	if a.UnitCode != "" {
		name = a.UnitCode + "-" + a.Name
	}
	return text, ics.SanitizeFilename(name), nil
}

// Find returns the index-th assignment of unit.
func (p *Planner) Find(unit string, index int) (*model.Assignment, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	members := p.store.Group(unit)
	if index < 0 || index >= len(members) {
		return nil, fmt.Errorf("%w: %s/%d", ErrNotFound, unit, index)
	}
	return members[index], nil
}

func (p *Planner) Groups() []Group {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Group, 0)
	for _, unit := range p.store.Units() {
		color, _ := p.store.Color(unit)
		out = append(out, Group{UnitCode: unit, Color: color, Assignments: p.store.Group(unit)})
	}
	return out
}

func (p *Planner) Latest() *model.Assignment {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.store.Latest()
}

func (p *Planner) Grid() []grid.Day {
	p.mu.Lock()
	all := p.store.All()
	p.mu.Unlock()
	return grid.Build(p.term, all)
}

func (p *Planner) Urgent() []urgency.Entry {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.queue.Entries()
}

func (p *Planner) detachSampleLocked(a *model.Assignment) {
	for id, s := range p.samples {
		if s == a {
			p.samples[id] = nil
		}
	}
}

func (p *Planner) addLocked(a *model.Assignment, color string) bool {
	if !p.store.Add(a, color) {
		p.notifier.Notify(LevelWarning, fmt.Sprintf("%q has no unit code and was not added", a.Name))
		return false
	}
	p.queue.Insert(p.store.Latest())
	appLog.Info("assignment added", "name", a.Name, "unit", a.UnitCode, "color", a.Color, "events", len(a.Events))
	return true
}

func (p *Planner) replaceLocked(old, updated *model.Assignment) bool {
	if updated == nil {
		return false
	}
	p.queue.Remove(old)
	if !p.store.Update(old, updated) {
		p.notifier.Notify(LevelWarning, fmt.Sprintf("%q has no unit code and was not added", updated.Name))
		return false
	}
	p.queue.Insert(updated)
	appLog.Info("assignment replaced", "name", updated.Name, "unit", updated.UnitCode, "color", updated.Color)
	return true
}
