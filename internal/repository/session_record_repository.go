package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"skillcheck/internal/domain"
	"skillcheck/internal/repository/models"

	"github.com/jmoiron/sqlx"
)

const sessionRecordColumns = `id, user_id, skill, recorded_at, difficulty, overall_score, questions, answers, results, feedback, strengths, weaknesses, recommendations`

// SessionRecordRepository is the relational domain.HistoryStore.
type SessionRecordRepository struct {
	db *sqlx.DB
}

func NewSessionRecordRepository(db *sqlx.DB) *SessionRecordRepository {
	return &SessionRecordRepository{db: db}
}

func toSessionRecordModel(r *domain.SessionRecord) (*models.SessionRecord, error) {
	questions, err := json.Marshal(r.Questions)
	if err != nil {
		return nil, fmt.Errorf("encode questions: %w", err)
	}
	answers, err := json.Marshal(r.Answers)
	if err != nil {
		return nil, fmt.Errorf("encode answers: %w", err)
	}
	results, err := json.Marshal(r.Results)
	if err != nil {
		return nil, fmt.Errorf("encode results: %w", err)
	}
	return &models.SessionRecord{
		ID:              r.ID,
		UserID:          r.UserID,
		Skill:           r.Skill,
		RecordedAt:      r.Timestamp.UTC(),
		Difficulty:      string(r.Difficulty),
		OverallScore:    r.OverallScore,
		Questions:       string(questions),
		Answers:         string(answers),
		Results:         string(results),
		Feedback:        sql.NullString{String: r.Feedback, Valid: r.Feedback != ""},
		Strengths:       r.Strengths,
		Weaknesses:      r.Weaknesses,
		Recommendations: r.Recommendations,
	}, nil
}

func toDomainSessionRecord(m *models.SessionRecord) (*domain.SessionRecord, error) {
	r := &domain.SessionRecord{
		ID:              m.ID,
		UserID:          m.UserID,
		Skill:           m.Skill,
		Timestamp:       m.RecordedAt.UTC(),
		Difficulty:      domain.Difficulty(m.Difficulty),
		OverallScore:    m.OverallScore,
		Feedback:        m.Feedback.String,
		Strengths:       []string(m.Strengths),
		Weaknesses:      []string(m.Weaknesses),
		Recommendations: []string(m.Recommendations),
	}
	if err := json.Unmarshal([]byte(m.Questions), &r.Questions); err != nil {
		return nil, fmt.Errorf("decode questions of record %s: %w", m.ID, err)
	}
	if err := json.Unmarshal([]byte(m.Answers), &r.Answers); err != nil {
		return nil, fmt.Errorf("decode answers of record %s: %w", m.ID, err)
	}
	if err := json.Unmarshal([]byte(m.Results), &r.Results); err != nil {
		return nil, fmt.Errorf("decode results of record %s: %w", m.ID, err)
	}
	return r, nil
}

// Append inserts the record. A duplicate id or timestamp fails; records are
// never updated.
func (r *SessionRecordRepository) Append(ctx context.Context, record *domain.SessionRecord) error {
	m, err := toSessionRecordModel(record)
	if err != nil {
		return &domain.PersistenceError{Op: "append", Err: err}
	}

	query := r.db.Rebind(`INSERT INTO session_records (` + sessionRecordColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err = executor(ctx, r.db).ExecContext(ctx, query,
		m.ID, m.UserID, m.Skill, m.RecordedAt, m.Difficulty, m.OverallScore,
		m.Questions, m.Answers, m.Results, m.Feedback,
		m.Strengths, m.Weaknesses, m.Recommendations,
	)
	if err != nil {
		return &domain.PersistenceError{Op: "append", Err: fmt.Errorf("insert session record %s: %w", m.ID, err)}
	}
	return nil
}

// Read returns the (user, skill) history, oldest first.
func (r *SessionRecordRepository) Read(ctx context.Context, userID, skill string) ([]*domain.SessionRecord, error) {
	query := r.db.Rebind(`SELECT ` + sessionRecordColumns + ` FROM session_records
		WHERE user_id = ? AND skill = ? ORDER BY recorded_at ASC, id ASC`)
	return r.selectRecords(ctx, "read", query, userID, skill)
}

// ListByUser returns every record of the user, newest first.
func (r *SessionRecordRepository) ListByUser(ctx context.Context, userID string) ([]*domain.SessionRecord, error) {
	query := r.db.Rebind(`SELECT ` + sessionRecordColumns + ` FROM session_records
		WHERE user_id = ? ORDER BY recorded_at DESC, id DESC`)
	return r.selectRecords(ctx, "list", query, userID)
}

func (r *SessionRecordRepository) selectRecords(ctx context.Context, op, query string, args ...interface{}) ([]*domain.SessionRecord, error) {
	var rows []models.SessionRecord
	if err := executor(ctx, r.db).SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, &domain.PersistenceError{Op: op, Err: err}
	}

	records := make([]*domain.SessionRecord, 0, len(rows))
	for i := range rows {
		rec, err := toDomainSessionRecord(&rows[i])
		if err != nil {
			return nil, &domain.PersistenceError{Op: op, Err: err}
		}
		records = append(records, rec)
	}
	return records, nil
}
