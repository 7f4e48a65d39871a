package domain

import (
	"context"
	"sort"
	"strings"
	"time"
)

var (
	ErrCycleNotFound = newNotFoundError("training cycle")
)

// CycleType is the periodization level of a cycle
type CycleType string

const (
	CycleMacro CycleType = "macro" // season-length block
	CycleMeso  CycleType = "meso"  // multi-week block
	CycleMicro CycleType = "micro" // weekly block
)

func (c CycleType) IsValid() bool {
	return c == CycleMacro || c == CycleMeso || c == CycleMicro
}

// ParentType returns the cycle type a cycle of this type may nest under
func (c CycleType) ParentType() (CycleType, bool) {
	switch c {
	case CycleMeso:
		return CycleMacro, true
	case CycleMicro:
		return CycleMeso, true
	default:
		return "", false
	}
}

// PhaseType is the training focus of a cycle
type PhaseType string

const (
	PhaseBase     PhaseType = "base"
	PhaseBuild    PhaseType = "build"
	PhasePeak     PhaseType = "peak"
	PhaseTaper    PhaseType = "taper"
	PhaseRecovery PhaseType = "recovery"
)

func (p PhaseType) IsValid() bool {
	switch p {
	case PhaseBase, PhaseBuild, PhasePeak, PhaseTaper, PhaseRecovery:
		return true
	default:
		return false
	}
}

// TrainingCycle is a periodization block
type TrainingCycle struct {
	ID            string    `json:"id" bson:"_id,omitempty"`
	UserID        string    `json:"user_id" bson:"user_id"`
	Type          CycleType `json:"type" bson:"type"`
	Name          string    `json:"name" bson:"name"`
	Phase         PhaseType `json:"phase" bson:"phase"`
	StartDate     time.Time `json:"start_date" bson:"start_date"`
	EndDate       time.Time `json:"end_date" bson:"end_date"`
	Goal          string    `json:"goal" bson:"goal"`
	ParentCycleID string    `json:"parent_cycle_id,omitempty" bson:"parent_cycle_id,omitempty"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" bson:"updated_at"`
}

// Validate checks the cycle's own fields. Parent rules need the parent record,
// see ValidateParent.
func (c *TrainingCycle) Validate() error {
	if !c.Type.IsValid() {
		return NewValidationError("type", "unknown cycle type %q", c.Type)
	}
	if strings.TrimSpace(c.Name) == "" {
		return NewValidationError("name", "is required")
	}
	if !c.Phase.IsValid() {
		return NewValidationError("phase", "unknown phase %q", c.Phase)
	}
	if c.StartDate.IsZero() || c.EndDate.IsZero() {
		return NewValidationError("start_date", "start and end dates are required")
	}
	if DateOf(c.EndDate).Before(DateOf(c.StartDate)) {
		return NewValidationError("end_date", "must not be before start_date")
	}
	if c.Type == CycleMacro && c.ParentCycleID != "" {
		return NewValidationError("parent_cycle_id", "macro cycles cannot have a parent")
	}
	return nil
}

// ValidateParent checks that parent is a legal container for c
func (c *TrainingCycle) ValidateParent(parent *TrainingCycle) error {
	want, ok := c.Type.ParentType()
	if !ok {
		return NewValidationError("parent_cycle_id", "%s cycles cannot have a parent", c.Type)
	}
	if parent.Type != want {
		return NewValidationError("parent_cycle_id", "a %s cycle must belong to a %s cycle, got %s", c.Type, want, parent.Type)
	}
	return nil
}

// IsActiveOn reports whether the cycle covers the calendar date of day
func (c *TrainingCycle) IsActiveOn(day time.Time) bool {
	d := DateOf(day)
	return !d.Before(DateOf(c.StartDate)) && !d.After(DateOf(c.EndDate))
}

// CycleNode is a cycle with its nested children
type CycleNode struct {
	*TrainingCycle
	Children []*CycleNode `json:"children"`
}

// BuildCycleTree nests cycles under their parents. Cycles whose parent is not in
// the input are returned as roots. Siblings are ordered by start date.
func BuildCycleTree(cycles []*TrainingCycle) []*CycleNode {
	nodes := make(map[string]*CycleNode, len(cycles))
	for _, c := range cycles {
		nodes[c.ID] = &CycleNode{TrainingCycle: c, Children: []*CycleNode{}}
	}

	roots := []*CycleNode{}
	for _, c := range cycles {
		node := nodes[c.ID]
		if parent, ok := nodes[c.ParentCycleID]; ok && c.ParentCycleID != "" && c.ParentCycleID != c.ID {
			parent.Children = append(parent.Children, node)
			continue
		}
		roots = append(roots, node)
	}

	sortCycleNodes(roots)
	return roots
}

func sortCycleNodes(nodes []*CycleNode) {
	sort.SliceStable(nodes, func(i, j int) bool {
		return nodes[i].StartDate.Before(nodes[j].StartDate)
	})
	for _, n := range nodes {
		sortCycleNodes(n.Children)
	}
}

// CycleRepository handles the training_cycles collection
type CycleRepository interface {
	Create(ctx context.Context, cycle *TrainingCycle) error
	GetByID(ctx context.Context, userID, id string) (*TrainingCycle, error)
	// List returns the user's cycles newest start first, optionally filtered by type
	List(ctx context.Context, userID string, cycleType CycleType) ([]*TrainingCycle, error)
	// GetActive returns the most recently created cycle of the type covering day, or nil
	GetActive(ctx context.Context, userID string, cycleType CycleType, day time.Time) (*TrainingCycle, error)
	Delete(ctx context.Context, userID, id string) error
}
