package service

import (
	"context"
	"errors"
	"testing"

	"skillcheck/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSkillService_Register(t *testing.T) {
	ctx := context.Background()
	catalog := new(MockSkillCatalog)
	existing := &domain.Skill{Name: "go basics", DisplayName: "Go Basics"}
	catalog.On("Ensure", ctx, mock.MatchedBy(func(s *domain.Skill) bool { return s.Name == "go basics" })).
		Return(existing, nil).Once()

	got, err := NewSkillService(catalog).Register(ctx, "GO   basics")
	require.NoError(t, err)
	assert.Same(t, existing, got)
	catalog.AssertExpectations(t)
}

func TestSkillService_List(t *testing.T) {
	ctx := context.Background()
	catalog := new(MockSkillCatalog)
	catalog.On("List", ctx).Return(nil, errors.New("db down")).Once()

	_, err := NewSkillService(catalog).List(ctx)
	var derr *domain.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, domain.ErrInternal, derr.Code)
}
