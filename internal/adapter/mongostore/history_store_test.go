package mongostore

import (
	"context"
	"testing"
	"time"

	"skillcheck/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func record(id string, ts time.Time, score float64) *domain.SessionRecord {
	return &domain.SessionRecord{
		ID:           id,
		UserID:       "u-1",
		Skill:        "go",
		Timestamp:    ts,
		Difficulty:   domain.DifficultyEasy,
		Questions:    []domain.Question{{Kind: domain.KindShortAnswer, Prompt: "why?"}},
		Answers:      domain.AnswerSet{domain.Written("because")},
		OverallScore: score,
		Results:      []domain.QuestionResult{{Index: 0, Kind: domain.KindShortAnswer, Score: score}},
		Strengths:    []string{"clarity"},
	}
}

func toDoc(t *testing.T, r *domain.SessionRecord) bson.D {
	t.Helper()
	raw, err := bson.Marshal(r)
	require.NoError(t, err)
	var doc bson.D
	require.NoError(t, bson.Unmarshal(raw, &doc))
	return doc
}

func TestHistoryStore(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ts := time.Date(2026, 7, 1, 9, 30, 0, 0, time.UTC)

	mt.Run("append", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		err := NewHistoryStore(mt.Coll).Append(context.Background(), record("01A", ts, 70))
		assert.NoError(mt, err)
	})

	mt.Run("append duplicate", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index: 0, Code: 11000, Message: "duplicate key error",
		}))

		err := NewHistoryStore(mt.Coll).Append(context.Background(), record("01A", ts, 70))
		var perr *domain.PersistenceError
		require.ErrorAs(mt, err, &perr)
		assert.Equal(mt, "append", perr.Op)
	})

	mt.Run("read", func(mt *mtest.T) {
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			toDoc(mt.T, record("01A", ts, 40)),
			toDoc(mt.T, record("01B", ts.Add(time.Hour), 90)),
		))

		got, err := NewHistoryStore(mt.Coll).Read(context.Background(), "u-1", "go")
		require.NoError(mt, err)
		require.Len(mt, got, 2)
		assert.Equal(mt, "01A", got[0].ID)
		assert.Equal(mt, ts, got[0].Timestamp)
		assert.Equal(mt, 90.0, got[1].OverallScore)
		assert.Equal(mt, "because", got[1].Answers[0].Text)
	})

	mt.Run("read empty", func(mt *mtest.T) {
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		got, err := NewHistoryStore(mt.Coll).Read(context.Background(), "u-1", "rust")
		require.NoError(mt, err)
		assert.NotNil(mt, got)
		assert.Empty(mt, got)
	})

	mt.Run("read failure", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code: 13, Name: "Unauthorized", Message: "not authorized",
		}))

		_, err := NewHistoryStore(mt.Coll).ListByUser(context.Background(), "u-1")
		var perr *domain.PersistenceError
		require.ErrorAs(mt, err, &perr)
		assert.Equal(mt, "list", perr.Op)
	})
}
