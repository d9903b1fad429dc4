package services

import (
	"context"
	"testing"
	"time"

	"nutrilog/models"
	"nutrilog/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestUserService_GetMissingProfile(t *testing.T) {
	fx := newFixture(t)
	got, err := fx.users.Get(context.Background(), "nobody")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestUserService_UpsertTwice(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	first := fx.clock.Now()

	_, err := fx.users.Upsert(ctx, models.UserProfile{
		UID: "u1", Email: "a@example.com", Age: ptr(31), Height: ptr(180.0), Goal: "lose",
	})
	require.NoError(t, err)

	second := fx.clock.Advance(24 * time.Hour)
	saved, err := fx.users.Upsert(ctx, models.UserProfile{
		UID: "u1", Email: "a@example.com", CurrentWeight: ptr(82.5), Premium: ptr(true),
	})
	require.NoError(t, err)
	assert.Equal(t, "u1", saved.UID)

	got, err := fx.users.Get(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.NotNil(t, got.CreatedAt)
	require.NotNil(t, got.UpdatedAt)
	assert.Equal(t, first, *got.CreatedAt)
	assert.Equal(t, second, *got.UpdatedAt)
	assert.Equal(t, ptr(31), got.Age)
	assert.Equal(t, ptr(180.0), got.Height)
	assert.Equal(t, ptr(82.5), got.CurrentWeight)
	assert.Equal(t, ptr(true), got.Premium)
	assert.Equal(t, "lose", got.Goal)
}

func TestUserService_UpdateWithoutEmailKeepsIt(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	_, err := fx.users.Upsert(ctx, models.UserProfile{UID: "u1", Email: "a@example.com"})
	require.NoError(t, err)
	_, err = fx.users.Upsert(ctx, models.UserProfile{UID: "u1", Goal: "maintain"})
	require.NoError(t, err)

	got, err := fx.users.Get(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "a@example.com", got.Email)
	assert.Equal(t, "maintain", got.Goal)
}

func TestUserService_UpsertRequiresUID(t *testing.T) {
	fx := newFixture(t)
	_, err := fx.users.Upsert(context.Background(), models.UserProfile{Email: "x@example.com"})
	assert.Error(t, err)
}

// blindGetStore hides existing documents from Get, reproducing two upserts
// that both checked for the profile before either wrote it.
type blindGetStore struct {
	store.Store
}

func (blindGetStore) Get(context.Context, store.DocRef) (*store.Snapshot, error) {
	return nil, store.ErrNotFound
}

func TestUserService_UpsertRaceLastCreateWins(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	racing := NewUserService(blindGetStore{Store: fx.db}, zap.NewNop())

	_, err := racing.Upsert(ctx, models.UserProfile{UID: "u1", Email: "first@example.com", Gender: "f"})
	require.NoError(t, err)
	second := fx.clock.Advance(time.Second)
	_, err = racing.Upsert(ctx, models.UserProfile{UID: "u1", Email: "second@example.com"})
	require.NoError(t, err)

	// the existence check is not atomic with the write: the second create
	// replaced the first document wholesale
	got, err := fx.users.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "second@example.com", got.Email)
	assert.Empty(t, got.Gender)
	assert.Equal(t, second, *got.CreatedAt)
}
