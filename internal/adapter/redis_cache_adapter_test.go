package adapter

import (
	"context"
	"errors"
	"testing"
	"time"

	"skillcheck/internal/domain"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ domain.Cache = (*RedisCache)(nil)

func TestRedisCache_Get(t *testing.T) {
	ctx := context.Background()
	key := "skillcheck:history:records:u1:go"
	boom := errors.New("connection reset")

	tests := []struct {
		name    string
		setup   func(m redismock.ClientMock)
		want    string
		wantErr error
	}{
		{
			name:  "hit",
			setup: func(m redismock.ClientMock) { m.ExpectGet(key).SetVal(`[{"id":"01"}]`) },
			want:  `[{"id":"01"}]`,
		},
		{
			name:    "miss",
			setup:   func(m redismock.ClientMock) { m.ExpectGet(key).SetErr(redis.Nil) },
			wantErr: domain.ErrCacheMiss,
		},
		{
			name:    "server error",
			setup:   func(m redismock.ClientMock) { m.ExpectGet(key).SetErr(boom) },
			wantErr: boom,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := redismock.NewClientMock()
			tt.setup(mock)

			got, err := NewRedisCache(db).Get(ctx, key)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, got)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRedisCache_SetWithTTL(t *testing.T) {
	db, mock := redismock.NewClientMock()
	c := NewRedisCache(db)
	ctx := context.Background()

	mock.ExpectSet("k", "v", 2*time.Hour).SetVal("OK")
	require.NoError(t, c.Set(ctx, "k", "v", 2*time.Hour))

	boom := errors.New("readonly replica")
	mock.ExpectSet("k", "v", 0).SetErr(boom)
	assert.ErrorIs(t, c.Set(ctx, "k", "v", 0), boom)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCache_Delete(t *testing.T) {
	db, mock := redismock.NewClientMock()
	c := NewRedisCache(db)
	ctx := context.Background()

	mock.ExpectDel("k").SetVal(1)
	assert.NoError(t, c.Delete(ctx, "k"))

	// absent key is not an error
	mock.ExpectDel("k").SetVal(0)
	assert.NoError(t, c.Delete(ctx, "k"))

	boom := errors.New("timeout")
	mock.ExpectDel("k").SetErr(boom)
	assert.ErrorIs(t, c.Delete(ctx, "k"), boom)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCache_Ping(t *testing.T) {
	db, mock := redismock.NewClientMock()
	c := NewRedisCache(db)

	mock.ExpectPing().SetVal("PONG")
	assert.NoError(t, c.Ping(context.Background()))

	mock.ExpectPing().SetErr(errors.New("down"))
	assert.Error(t, c.Ping(context.Background()))

	assert.NoError(t, mock.ExpectationsWereMet())
}
