package web

import (
	"time"

	"termplan/internal/model"
)

type termResponse struct {
	Start       time.Time   `json:"start"`
	End         time.Time   `json:"end"`
	LengthDays  int         `json:"length_days"`
	DayGridSize int         `json:"day_grid_size"`
	Detail      string      `json:"detail,omitempty"`
	WeekRows    []time.Time `json:"week_rows"`
}

type milestoneDTO struct {
	Name          string   `json:"name"`
	EffortPercent *float64 `json:"effort_percent,omitempty"`
	EffortText    string   `json:"effort_text,omitempty"`
	Instructions  []string `json:"instructions,omitempty"`
	Resources     []string `json:"resources,omitempty"`
}

type templateDTO struct {
	ID         string         `json:"id"`
	Title      string         `json:"title"`
	Icon       string         `json:"icon,omitempty"`
	Milestones []milestoneDTO `json:"milestones"`
}

type eventDTO struct {
	UID         string    `json:"uid,omitempty"`
	Summary     string    `json:"summary,omitempty"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status,omitempty"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	TZID        string    `json:"tzid,omitempty"`
}

type assignmentDTO struct {
	Index            int        `json:"index"`
	Name             string     `json:"name"`
	UnitCode         string     `json:"unit_code,omitempty"`
	Color            string     `json:"color"`
	AssignmentTypeID string     `json:"assignment_type_id"`
	Start            time.Time  `json:"start"`
	End              time.Time  `json:"end"`
	Events           []eventDTO `json:"events"`
}

type groupDTO struct {
	UnitCode    string          `json:"unit_code"`
	Color       string          `json:"color"`
	Assignments []assignmentDTO `json:"assignments"`
}

type createRequest struct {
	Name     string    `json:"name"`
	UnitCode string    `json:"unit_code"`
	Color    string    `json:"color"`
	TypeID   string    `json:"type_id"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
}

type createResponse struct {
	Added      bool          `json:"added"`
	Assignment assignmentDTO `json:"assignment"`
}

type cellDTO struct {
	Name       string `json:"name"`
	UnitCode   string `json:"unit_code"`
	Color      string `json:"color"`
	EventIndex int    `json:"event_index"`
	Milestone  string `json:"milestone"`
}

type dayDTO struct {
	Index  int       `json:"index"`
	Date   time.Time `json:"date"`
	InTerm bool      `json:"in_term"`
	Cells  []cellDTO `json:"cells"`
}

type urgencyDTO struct {
	Name         string    `json:"name"`
	UnitCode     string    `json:"unit_code"`
	Color        string    `json:"color"`
	End          time.Time `json:"end"`
	DaysUntilDue int       `json:"days_until_due"`
	Band         string    `json:"band"`
}

func toTemplateDTO(tpl model.MilestoneTemplate) templateDTO {
	out := templateDTO{ID: tpl.ID, Title: tpl.DisplayName, Icon: string(tpl.Icon)}
	out.Milestones = make([]milestoneDTO, 0, len(tpl.Milestones))
	for _, m := range tpl.Milestones {
		out.Milestones = append(out.Milestones, milestoneDTO{
			Name:          m.Name,
			EffortPercent: m.EffortPercent,
			EffortText:    m.EffortText(),
			Instructions:  m.Instructions,
			Resources:     m.Resources,
		})
	}
	return out
}

func toAssignmentDTO(a *model.Assignment, index int) assignmentDTO {
	out := assignmentDTO{
		Index:            index,
		Name:             a.Name,
		UnitCode:         a.UnitCode,
		Color:            a.Color,
		AssignmentTypeID: a.AssignmentTypeID,
		Start:            a.Start,
		End:              a.End,
		Events:           make([]eventDTO, 0, len(a.Events)),
	}
	for _, ev := range a.Events {
		out.Events = append(out.Events, eventDTO{
			UID:         ev.UID,
			Summary:     ev.Summary,
			Description: ev.Description,
			Status:      string(ev.Status),
			Start:       ev.Start,
			End:         ev.End,
			TZID:        ev.TZID,
		})
	}
	return out
}
