package store_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"termplan/internal/model"
	"termplan/internal/palette"
	"termplan/internal/store"
)

func assignment(name, unit, color string) *model.Assignment {
	return &model.Assignment{Name: name, UnitCode: unit, Color: color}
}

func TestAddPropagatesGroupColor(t *testing.T) {
	s := store.New()
	a1 := assignment("Essay", "U", "red")
	a2 := assignment("Quiz", "U", "green")

	require.True(t, s.Add(a1, "orange"))
	require.True(t, s.Add(a2, "violet"))

	assert.Equal(t, "orange", a1.Color)
	assert.Equal(t, "orange", a2.Color)
	color, ok := s.Color("U")
	require.True(t, ok)
	assert.Equal(t, "orange", color)
	assert.Equal(t, []*model.Assignment{a1, a2}, s.Group("U"))
	assert.Same(t, a2, s.Latest())

	require.True(t, s.Remove(a1))
	require.True(t, s.Remove(a2))
	_, present := s.Groups()["U"]
	assert.False(t, present)
	assert.Equal(t, 0, s.Len())
}

func TestAddNewGroupFallsBackToRandomColor(t *testing.T) {
	s := store.New()
	a := assignment("Lab", "CHEM1", "")
	require.True(t, s.Add(a, "#ff00ff"))
	_, ok := palette.Normalize(a.Color)
	assert.True(t, ok, a.Color)
}

func TestAddWithoutUnitCodeIsDropped(t *testing.T) {
	s := store.New()
	assert.False(t, s.Add(assignment("Loose", "", "red"), "red"))
	assert.False(t, s.Add(nil, ""))
	assert.Equal(t, 0, s.Len())
	assert.Nil(t, s.Latest())
}

func TestRemoveKeepsOrderAndIgnoresStrangers(t *testing.T) {
	s := store.New()
	a := assignment("A", "U", "")
	b := assignment("B", "U", "")
	c := assignment("C", "U", "")
	s.Add(a, "red")
	s.Add(b, "")
	s.Add(c, "")

	twin := assignment("B", "U", "red")
	assert.False(t, s.Remove(twin), "removal is by identity")
	assert.False(t, s.Remove(assignment("X", "OTHER", "")))

	require.True(t, s.Remove(b))
	assert.Equal(t, []*model.Assignment{a, c}, s.Group("U"))
	assert.False(t, s.Remove(b))
}

func TestSnapshotsAreNotMutated(t *testing.T) {
	s := store.New()
	a := assignment("A", "U", "")
	s.Add(a, "red")
	before := s.Groups()
	beforeU := before["U"]

	b := assignment("B", "U", "")
	s.Add(b, "")
	s.Remove(a)

	assert.Len(t, beforeU, 1)
	assert.Same(t, a, before["U"][0])
	assert.Equal(t, []*model.Assignment{b}, s.Group("U"))
}

func TestUpdateKeepsColor(t *testing.T) {
	s := store.New()
	old := assignment("Essay", "HIST", "")
	s.Add(old, "amber")

	edited := assignment("Essay v2", "HIST", "pink")
	require.True(t, s.Update(old, edited))
	assert.Equal(t, "amber", edited.Color)
	assert.Equal(t, []*model.Assignment{edited}, s.Group("HIST"))

	// Not-present old still adds the new one.
	stranger := assignment("Ghost", "HIST", "")
	extra := assignment("Extra", "HIST", "")
	require.True(t, s.Update(stranger, extra))
	assert.Equal(t, "amber", extra.Color)
	assert.Equal(t, 2, s.Len())
}

func TestUnitsAndAll(t *testing.T) {
	s := store.New()
	z := assignment("Z", "ZOO1", "")
	a1 := assignment("A1", "ART1", "")
	a2 := assignment("A2", "ART1", "")
	s.Add(z, "")
	s.Add(a1, "")
	s.Add(a2, "")

	assert.Equal(t, []string{"ART1", "ZOO1"}, s.Units())
	assert.Equal(t, []*model.Assignment{a1, a2, z}, s.All())
}
