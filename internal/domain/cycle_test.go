package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cycle(id string, typ CycleType, parent string, start string) *TrainingCycle {
	s := day(start)
	return &TrainingCycle{
		ID:            id,
		Type:          typ,
		Name:          id,
		Phase:         PhaseBase,
		StartDate:     s,
		EndDate:       s.AddDate(0, 0, 27),
		ParentCycleID: parent,
	}
}

func TestBuildCycleTree(t *testing.T) {
	cycles := []*TrainingCycle{
		cycle("meso-2", CycleMeso, "macro", "2025-02-03"),
		cycle("micro-1", CycleMicro, "meso-1", "2025-01-06"),
		cycle("macro", CycleMacro, "", "2025-01-06"),
		cycle("meso-1", CycleMeso, "macro", "2025-01-06"),
		cycle("orphan", CycleMeso, "deleted-macro", "2024-10-01"),
	}

	roots := BuildCycleTree(cycles)

	require.Len(t, roots, 2)
	assert.Equal(t, "orphan", roots[0].ID)
	assert.Equal(t, "macro", roots[1].ID)

	macro := roots[1]
	require.Len(t, macro.Children, 2)
	assert.Equal(t, "meso-1", macro.Children[0].ID)
	assert.Equal(t, "meso-2", macro.Children[1].ID)
	require.Len(t, macro.Children[0].Children, 1)
	assert.Equal(t, "micro-1", macro.Children[0].Children[0].ID)
	assert.NotNil(t, macro.Children[1].Children)
}

func TestTrainingCycle_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *TrainingCycle)
		wantErr bool
	}{
		{"valid", func(c *TrainingCycle) {}, false},
		{"unknown type", func(c *TrainingCycle) { c.Type = "mega" }, true},
		{"blank name", func(c *TrainingCycle) { c.Name = " " }, true},
		{"unknown phase", func(c *TrainingCycle) { c.Phase = "offseason" }, true},
		{"end before start", func(c *TrainingCycle) { c.EndDate = c.StartDate.AddDate(0, 0, -1) }, true},
		{"single day", func(c *TrainingCycle) { c.EndDate = c.StartDate }, false},
		{"macro with parent", func(c *TrainingCycle) { c.ParentCycleID = "x" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := cycle("c", CycleMacro, "", "2025-01-06")
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsValidationError(err))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestTrainingCycle_ValidateParent(t *testing.T) {
	macro := cycle("macro", CycleMacro, "", "2025-01-06")
	meso := cycle("meso", CycleMeso, "macro", "2025-01-06")
	micro := cycle("micro", CycleMicro, "meso", "2025-01-06")

	assert.NoError(t, meso.ValidateParent(macro))
	assert.NoError(t, micro.ValidateParent(meso))
	assert.Error(t, micro.ValidateParent(macro))
	assert.Error(t, macro.ValidateParent(macro))
}

func TestTrainingCycle_IsActiveOn(t *testing.T) {
	c := cycle("c", CycleMeso, "", "2025-01-06") // through 2025-02-02

	assert.True(t, c.IsActiveOn(time.Date(2025, 1, 6, 7, 0, 0, 0, time.UTC)))
	assert.True(t, c.IsActiveOn(time.Date(2025, 2, 2, 23, 0, 0, 0, time.UTC)))
	assert.False(t, c.IsActiveOn(time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC)))
	assert.False(t, c.IsActiveOn(time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)))
}
