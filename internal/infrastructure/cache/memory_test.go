package cache

import (
	"context"
	"testing"
	"time"

	domainRepo "github.com/sangkips/invoice-console/internal/domain/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type draftDoc struct {
	Name  string `json:"name"`
	Items []int  `json:"items"`
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	var out draftDoc
	found, err := store.GetObject(ctx, "missing", &out)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.SetObject(ctx, "draft", draftDoc{Name: "a", Items: []int{1, 2}}, time.Minute))
	found, err = store.GetObject(ctx, "draft", &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, draftDoc{Name: "a", Items: []int{1, 2}}, out)

	require.NoError(t, store.Delete(ctx, "draft"))
	found, err = store.GetObject(ctx, "draft", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore()
	now := time.Now()
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.SetObject(ctx, "k", draftDoc{Name: "x"}, time.Second))
	now = now.Add(2 * time.Second)

	var out draftDoc
	found, err := store.GetObject(ctx, "k", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryStoreCopiesValues(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	doc := draftDoc{Items: []int{1}}

	require.NoError(t, store.SetObject(ctx, "k", doc, 0))
	doc.Items[0] = 99

	var out draftDoc
	_, err := store.GetObject(ctx, "k", &out)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, out.Items)
}

func TestMemoryLockerExclusive(t *testing.T) {
	locker := NewMemoryLocker()
	ctx := context.Background()

	release, err := locker.Obtain(ctx, "session", time.Minute)
	require.NoError(t, err)

	_, err = locker.Obtain(ctx, "session", time.Minute)
	assert.ErrorIs(t, err, domainRepo.ErrLockNotObtained)

	other, err := locker.Obtain(ctx, "other", time.Minute)
	require.NoError(t, err)
	require.NoError(t, other(ctx))

	require.NoError(t, release(ctx))
	again, err := locker.Obtain(ctx, "session", time.Minute)
	require.NoError(t, err)
	require.NoError(t, again(ctx))
}

func TestMemoryLockerExpiredLockCanBeTaken(t *testing.T) {
	locker := NewMemoryLocker()
	now := time.Now()
	locker.now = func() time.Time { return now }
	ctx := context.Background()

	stale, err := locker.Obtain(ctx, "session", time.Second)
	require.NoError(t, err)

	now = now.Add(2 * time.Second)
	fresh, err := locker.Obtain(ctx, "session", time.Minute)
	require.NoError(t, err)

	// releasing the expired holder must not free the new one
	require.NoError(t, stale(ctx))
	_, err = locker.Obtain(ctx, "session", time.Minute)
	assert.ErrorIs(t, err, domainRepo.ErrLockNotObtained)
	require.NoError(t, fresh(ctx))
}
