package models

import (
	"database/sql"
	"time"
)

// SessionRecord is a row of session_records. Questions, answers and results
// are JSON documents.
type SessionRecord struct {
	ID              string         `db:"id"`
	UserID          string         `db:"user_id"`
	Skill           string         `db:"skill"`
	RecordedAt      time.Time      `db:"recorded_at"`
	Difficulty      string         `db:"difficulty"`
	OverallScore    float64        `db:"overall_score"`
	Questions       string         `db:"questions"`
	Answers         string         `db:"answers"`
	Results         string         `db:"results"`
	Feedback        sql.NullString `db:"feedback"`
	Strengths       StringSlice    `db:"strengths"`
	Weaknesses      StringSlice    `db:"weaknesses"`
	Recommendations StringSlice    `db:"recommendations"`
}

// Skill is a row of skills.
type Skill struct {
	Name        string    `db:"name"`
	DisplayName string    `db:"display_name"`
	CreatedAt   time.Time `db:"created_at"`
}
