package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"skillcheck/internal/domain"
	"skillcheck/internal/repository/models"

	"github.com/jmoiron/sqlx"
)

// SkillRepository is the relational domain.SkillCatalog.
type SkillRepository struct {
	db *sqlx.DB
}

func NewSkillRepository(db *sqlx.DB) *SkillRepository {
	return &SkillRepository{db: db}
}

func toDomainSkill(m *models.Skill) *domain.Skill {
	return &domain.Skill{Name: m.Name, DisplayName: m.DisplayName, CreatedAt: m.CreatedAt.UTC()}
}

func (r *SkillRepository) List(ctx context.Context) ([]*domain.Skill, error) {
	var rows []models.Skill
	query := `SELECT name, display_name, created_at FROM skills ORDER BY name`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list skills: %w", err)
	}
	skills := make([]*domain.Skill, len(rows))
	for i := range rows {
		skills[i] = toDomainSkill(&rows[i])
	}
	return skills, nil
}

// Ensure inserts skill unless its name is already present, and returns the
// stored row either way.
func (r *SkillRepository) Ensure(ctx context.Context, skill *domain.Skill) (*domain.Skill, error) {
	var stored *domain.Skill
	err := withTransaction(ctx, r.db, func(ctx context.Context) error {
		exec := executor(ctx, r.db)

		var row models.Skill
		query := r.db.Rebind(`SELECT name, display_name, created_at FROM skills WHERE name = ?`)
		err := exec.GetContext(ctx, &row, query, skill.Name)
		if err == nil {
			stored = toDomainSkill(&row)
			return nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("failed to look up skill %q: %w", skill.Name, err)
		}

		insert := r.db.Rebind(`INSERT INTO skills (name, display_name, created_at) VALUES (?, ?, ?)`)
		if _, err := exec.ExecContext(ctx, insert, skill.Name, skill.DisplayName, skill.CreatedAt.UTC()); err != nil {
			return fmt.Errorf("failed to insert skill %q: %w", skill.Name, err)
		}
		stored = skill
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stored, nil
}
