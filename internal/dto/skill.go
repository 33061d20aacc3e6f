package dto

import (
	"time"

	"skillcheck/internal/domain"
)

type CreateSkillRequest struct {
	Name string `json:"name"`
}

type SkillResponse struct {
	Name        string    `json:"name"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
}

func NewSkillResponse(s *domain.Skill) SkillResponse {
	return SkillResponse{Name: s.Name, DisplayName: s.DisplayName, CreatedAt: s.CreatedAt}
}

func NewSkillListResponse(skills []*domain.Skill) []SkillResponse {
	out := make([]SkillResponse, 0, len(skills))
	for _, s := range skills {
		out = append(out, NewSkillResponse(s))
	}
	return out
}
