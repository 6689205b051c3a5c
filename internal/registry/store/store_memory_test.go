package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workledger/internal/registry/models"
	"workledger/internal/sentinel"
	"workledger/pkg/testutil"
)

func newRecord(owner string) *models.WorkRecord {
	return &models.WorkRecord{
		Owner:        owner,
		EmployerName: "Acme",
		Title:        "Engineer",
		Description:  "Built the anvils pipeline",
		StartDate:    "2020-01-01",
		EndDate:      "2021-01-01",
		CreatedAt:    time.Now().UTC(),
	}
}

func TestAddAssignsSequentialIDs(t *testing.T) {
	s := New()
	ctx := context.Background()

	for want := uint64(0); want < 5; want++ {
		id, err := s.Add(ctx, newRecord("alice"))
		require.NoError(t, err)
		assert.Equal(t, want, id)
	}

	total, err := s.Total(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), total)
}

func TestAddStoresUnverified(t *testing.T) {
	s := New()
	ctx := context.Background()

	record := newRecord("alice")
	// Callers cannot smuggle a pre-verified record in.
	record.Verified = true
	record.Verifier = "mallory"

	id, err := s.Add(ctx, record)
	require.NoError(t, err)

	stored, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.False(t, stored.Verified)
	assert.Empty(t, stored.Verifier)
	assert.Nil(t, stored.VerifiedAt)
}

func TestGetUnknownIDReturnsNotFound(t *testing.T) {
	s := New()
	ctx := context.Background()

	_, err := s.Get(ctx, 999)
	require.ErrorIs(t, err, sentinel.ErrNotFound)

	id, err := s.Add(ctx, newRecord("alice"))
	require.NoError(t, err)

	_, err = s.Get(ctx, id+1)
	require.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestGetReturnsCopy(t *testing.T) {
	s := New()
	ctx := context.Background()

	id, err := s.Add(ctx, newRecord("alice"))
	require.NoError(t, err)

	fetched, err := s.Get(ctx, id)
	require.NoError(t, err)
	fetched.EmployerName = "Globex"

	again, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Acme", again.EmployerName)
}

func TestVerifyTransitionsOnce(t *testing.T) {
	s := New()
	ctx := context.Background()
	now := time.Now().UTC()

	id, err := s.Add(ctx, newRecord("alice"))
	require.NoError(t, err)

	verified, err := s.Verify(ctx, id, "acme-hr", now)
	require.NoError(t, err)
	assert.True(t, verified.Verified)
	assert.Equal(t, "acme-hr", verified.Verifier)
	require.NotNil(t, verified.VerifiedAt)
	assert.Equal(t, now, *verified.VerifiedAt)

	_, err = s.Verify(ctx, id, "acme-hr", now)
	require.ErrorIs(t, err, sentinel.ErrAlreadyVerified)

	// The lost attempt leaves the record unchanged.
	stored, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "acme-hr", stored.Verifier)
}

func TestVerifyUnknownIDReturnsNotFound(t *testing.T) {
	s := New()
	_, err := s.Verify(context.Background(), 42, "acme-hr", time.Now())
	require.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestVerifyPreservesCreationFields(t *testing.T) {
	s := New()
	ctx := context.Background()

	original := newRecord("alice")
	id, err := s.Add(ctx, original)
	require.NoError(t, err)

	before, err := s.Get(ctx, id)
	require.NoError(t, err)

	_, err = s.Verify(ctx, id, "acme-hr", time.Now())
	require.NoError(t, err)

	after, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, before.Owner, after.Owner)
	assert.Equal(t, before.EmployerName, after.EmployerName)
	assert.Equal(t, before.Title, after.Title)
	assert.Equal(t, before.Description, after.Description)
	assert.Equal(t, before.StartDate, after.StartDate)
	assert.Equal(t, before.EndDate, after.EndDate)
	assert.Equal(t, before.CreatedAt, after.CreatedAt)
}

func TestConcurrentAddsAllocateUniqueGapFreeIDs(t *testing.T) {
	s := New()
	ctx := context.Background()
	const goroutines = 64

	seen := make(chan uint64, goroutines)
	result := testutil.RunConcurrent(goroutines, func(idx int) error {
		id, err := s.Add(ctx, newRecord("owner"))
		if err != nil {
			return err
		}
		seen <- id
		return nil
	})
	close(seen)

	require.Equal(t, int32(goroutines), result.Successes)

	ids := make(map[uint64]bool, goroutines)
	for id := range seen {
		assert.False(t, ids[id], "id %d allocated twice", id)
		assert.Less(t, id, uint64(goroutines), "id %d leaves a gap", id)
		ids[id] = true
	}
	assert.Len(t, ids, goroutines)

	total, err := s.Total(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(goroutines), total)
}

func TestConcurrentVerifyExactlyOneWins(t *testing.T) {
	s := New()
	ctx := context.Background()

	id, err := s.Add(ctx, newRecord("alice"))
	require.NoError(t, err)

	result := testutil.RunConcurrent(16, func(idx int) error {
		_, err := s.Verify(ctx, id, "acme-hr", time.Now())
		return err
	})

	assert.Equal(t, int32(1), result.Successes)
	assert.Equal(t, int32(15), result.AlreadyVerified)
	assert.Zero(t, result.Errors)
	assert.Zero(t, result.NotFounds)
}
