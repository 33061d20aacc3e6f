package domain

import (
	"context"
	"strings"
	"time"
)

// Skill is a named competency area. Name is the normalized catalog key,
// DisplayName the spelling it was first registered with.
type Skill struct {
	Name        string
	DisplayName string
	CreatedAt   time.Time
}

// NormalizeSkillName trims, collapses inner whitespace and lower-cases a
// skill name so that "  Go  Basics" and "go basics" are the same skill.
func NormalizeSkillName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// NewSkill creates a Skill from a user-supplied name.
func NewSkill(name string) (*Skill, error) {
	normalized := NormalizeSkillName(name)
	if normalized == "" {
		return nil, NewInvalidInputError("skill name is required")
	}
	if len(normalized) > 100 {
		return nil, NewInvalidInputError("skill name must be at most 100 characters")
	}
	return &Skill{
		Name:        normalized,
		DisplayName: strings.Join(strings.Fields(name), " "),
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// SkillCatalog is the read/insert lookup of known skills.
type SkillCatalog interface {
	// List returns every skill ordered by name.
	List(ctx context.Context) ([]*Skill, error)

	// Ensure registers the skill if it is not known yet and returns the
	// stored entry. Existing entries are never modified.
	Ensure(ctx context.Context, skill *Skill) (*Skill, error)
}
