package repository

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/taskflow/internal/models"
)

func newTestMemoryStore() *MemoryAccountStore {
	s := NewMemoryAccountStore()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	s.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}
	return s
}

func TestMemoryStore_CreateAssignsIDs(t *testing.T) {
	ctx := context.Background()
	s := newTestMemoryStore()

	a := &models.Account{Email: "a@b.com"}
	b := &models.Account{Email: "c@d.com"}
	require.NoError(t, s.Create(ctx, a))
	require.NoError(t, s.Create(ctx, b))

	assert.Equal(t, uint(1), a.ID)
	assert.Equal(t, uint(2), b.ID)
	assert.False(t, a.CreatedAt.IsZero())
}

func TestMemoryStore_DuplicateEmailLooksLikePostgres(t *testing.T) {
	ctx := context.Background()
	s := newTestMemoryStore()

	require.NoError(t, s.Create(ctx, &models.Account{Email: "a@b.com"}))
	err := s.Create(ctx, &models.Account{Email: "a@b.com"})

	var pgErr *pgconn.PgError
	require.True(t, errors.As(err, &pgErr))
	assert.Equal(t, "23505", pgErr.Code)
	assert.Equal(t, "accounts", pgErr.TableName)
}

func TestMemoryStore_FindAndSave(t *testing.T) {
	ctx := context.Background()
	s := newTestMemoryStore()

	a := &models.Account{Email: "a@b.com", Name: "A"}
	require.NoError(t, s.Create(ctx, a))

	_, err := s.FindByEmail(ctx, "missing@b.com")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.FindByID(ctx, 99)
	assert.ErrorIs(t, err, ErrNotFound)

	found, err := s.FindByEmail(ctx, "a@b.com")
	require.NoError(t, err)
	found.SetOTP("123456", time.Now())
	found.IsVerified = true

	// Not persisted until Save.
	again, err := s.FindByID(ctx, a.ID)
	require.NoError(t, err)
	assert.False(t, again.IsVerified)
	assert.Nil(t, again.OTP)

	require.NoError(t, s.Save(ctx, found))
	again, err = s.FindByID(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, again.IsVerified)
	require.NotNil(t, again.OTP)
	assert.Equal(t, "123456", *again.OTP)

	err = s.Save(ctx, &models.Account{BaseModel: models.BaseModel{ID: 42}})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_List(t *testing.T) {
	ctx := context.Background()
	s := newTestMemoryStore()

	for _, a := range []*models.Account{
		{Email: "alice@x.com", Name: "Alice", IsActive: true, IsVerified: true},
		{Email: "bob@x.com", Name: "Bob", IsActive: true},
		{Email: "carol@y.com", Name: "Carol", IsActive: false, IsVerified: true},
	} {
		require.NoError(t, s.Create(ctx, a))
	}

	verified := true
	got, total, err := s.List(ctx, AccountFilter{Verified: &verified})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, "alice@x.com", got[0].Email)
	assert.Equal(t, "carol@y.com", got[1].Email)

	got, total, err = s.List(ctx, AccountFilter{Search: "X.COM", SortDesc: true})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, "bob@x.com", got[0].Email)

	got, total, err = s.List(ctx, AccountFilter{Offset: 2, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, got, 1)
	assert.Equal(t, "carol@y.com", got[0].Email)

	got, _, err = s.List(ctx, AccountFilter{Offset: 10, Limit: 2})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMemoryStore_List_OutOfRangeWindow(t *testing.T) {
	ctx := context.Background()
	s := newTestMemoryStore()
	require.NoError(t, s.Create(ctx, &models.Account{Email: "a@x.com", IsActive: true}))
	require.NoError(t, s.Create(ctx, &models.Account{Email: "b@x.com", IsActive: true}))

	got, total, err := s.List(ctx, AccountFilter{Offset: math.MinInt + 100, Limit: 100})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, got, 2)

	got, _, err = s.List(ctx, AccountFilter{Offset: 1, Limit: math.MaxInt})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "b@x.com", got[0].Email)
}
