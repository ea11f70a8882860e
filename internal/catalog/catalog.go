// Package catalog loads assignment-type templates from the external
// catalog document. yaml.v3 accepts both the YAML and JSON forms.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	appLog "termplan/internal/log"
	"termplan/internal/model"
)

// ErrUnknownTemplate is returned by Get for ids not in the catalog.
var ErrUnknownTemplate = errors.New("unknown assignment type")

type milestoneDoc struct {
	Name          string   `yaml:"name" json:"name"`
	EffortPercent *float64 `yaml:"effort_percent" json:"effort_percent"`
	Description   string   `yaml:"description,omitempty" json:"description,omitempty"`
	Resources     []string `yaml:"resources,omitempty" json:"resources,omitempty"`
}

type templateDoc struct {
	ID         string         `yaml:"id" json:"id"`
	Title      string         `yaml:"title" json:"title"`
	Icon       string         `yaml:"icon,omitempty" json:"icon,omitempty"`
	Milestones []milestoneDoc `yaml:"milestones" json:"milestones"`
}

// Catalog is an immutable id -> template lookup.
type Catalog struct {
	byID map[string]model.MilestoneTemplate
}

// Load reads and parses the catalog file at path.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return nil, errors.New("catalog path is empty")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	appLog.Info("catalog loaded", "path", path, "template_count", len(c.byID))
	return c, nil
}

// Parse decodes a catalog document: a list of templates.
func Parse(data []byte) (*Catalog, error) {
	var docs []templateDoc
	if err := yaml.Unmarshal(data, &docs); err != nil {
		return nil, err
	}

	c := &Catalog{byID: make(map[string]model.MilestoneTemplate, len(docs))}
	for i, d := range docs {
		if strings.TrimSpace(d.ID) == "" {
			return nil, fmt.Errorf("template #%d has no id", i)
		}
		if _, dup := c.byID[d.ID]; dup {
			appLog.Info("catalog: duplicate template id, keeping last", "id", d.ID)
		}
		c.byID[d.ID] = toTemplate(d)
	}
	return c, nil
}

func toTemplate(d templateDoc) model.MilestoneTemplate {
	tpl := model.MilestoneTemplate{
		ID:          d.ID,
		DisplayName: d.Title,
		Icon:        model.IconKey(d.Icon),
		Milestones:  make([]model.TemplateMilestone, 0, len(d.Milestones)),
	}
	if tpl.DisplayName == "" {
		tpl.DisplayName = d.ID
	}
	for _, m := range d.Milestones {
		tpl.Milestones = append(tpl.Milestones, model.TemplateMilestone{
			Name:          m.Name,
			EffortPercent: m.EffortPercent,
			Instructions:  splitLines(m.Description),
			Resources:     m.Resources,
		})
	}
	return tpl
}

func splitLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// Get returns the template with the given id.
func (c *Catalog) Get(id string) (model.MilestoneTemplate, error) {
	if c != nil {
		if tpl, ok := c.byID[id]; ok {
			return tpl, nil
		}
	}
	return model.MilestoneTemplate{}, fmt.Errorf("%w: %q", ErrUnknownTemplate, id)
}

// List returns all templates ordered by id.
func (c *Catalog) List() []model.MilestoneTemplate {
	if c == nil {
		return nil
	}
	out := make([]model.MilestoneTemplate, 0, len(c.byID))
	for _, tpl := range c.byID {
		out = append(out, tpl)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.byID)
}
