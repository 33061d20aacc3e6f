package service

import (
	"context"

	"skillcheck/internal/domain"
)

// SkillService exposes the skill catalog.
type SkillService interface {
	List(ctx context.Context) ([]*domain.Skill, error)
	Register(ctx context.Context, name string) (*domain.Skill, error)
}

type skillService struct {
	catalog domain.SkillCatalog
}

func NewSkillService(catalog domain.SkillCatalog) SkillService {
	return &skillService{catalog: catalog}
}

func (s *skillService) List(ctx context.Context) ([]*domain.Skill, error) {
	skills, err := s.catalog.List(ctx)
	if err != nil {
		return nil, domain.NewInternalError("failed to list skills", err)
	}
	return skills, nil
}

// Register adds the skill to the catalog, or returns the existing entry when
// the normalized name is already known.
func (s *skillService) Register(ctx context.Context, name string) (*domain.Skill, error) {
	skill, err := domain.NewSkill(name)
	if err != nil {
		return nil, err
	}
	stored, err := s.catalog.Ensure(ctx, skill)
	if err != nil {
		return nil, domain.NewInternalError("failed to register skill", err)
	}
	return stored, nil
}
