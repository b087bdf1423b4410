package staging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drelephant/garmadon-transfer/internal/testhelpers"
)

func TestRepository_ListResults_ReadyOnlyInIDOrder(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	testhelpers.NewStagedResultBuilder().WithID(3).ForApp("app-1").WithName("third").Insert(t, db)
	testhelpers.NewStagedResultBuilder().WithID(1).ForApp("app-1").WithName("first").Insert(t, db)
	testhelpers.NewStagedResultBuilder().WithID(2).ForApp("app-1").NotReady().Insert(t, db)
	testhelpers.NewStagedResultBuilder().WithID(4).ForApp("app-2").Insert(t, db)

	rows, err := repo.ListResults(ctx, "app-1")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "first", rows[0].HeuristicName)
	assert.Equal(t, "third", rows[1].HeuristicName)
}

func TestRepository_ListDetails(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	repo := NewRepository(db)

	row := testhelpers.NewStagedResultBuilder().
		WithDetail("Heap", "1Go", "").
		WithDetail("GC time", "12%", "young generation").
		Insert(t, db)
	other := testhelpers.NewStagedResultBuilder().WithDetail("Other", "x", "").Insert(t, db)

	details, err := repo.ListDetails(context.Background(), row.ID)
	require.NoError(t, err)
	require.Len(t, details, 2)
	assert.Equal(t, "Heap", details[0].Name)
	assert.Equal(t, "young generation", details[1].Details)
	assert.Equal(t, int64(1), testhelpers.CountStagedDetails(t, db, other.ID))
}

func TestRepository_DeleteDetails(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	repo := NewRepository(db)

	row := testhelpers.NewStagedResultBuilder().
		WithDetail("a", "1", "").
		WithDetail("b", "2", "").
		Insert(t, db)

	deleted, err := repo.DeleteDetails(context.Background(), row.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)
	assert.Equal(t, int64(0), testhelpers.CountStagedDetails(t, db, row.ID))
}

func TestRepository_DeleteResults_OnlyGivenIDs(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	a := testhelpers.NewStagedResultBuilder().ForApp("app-1").Insert(t, db)
	b := testhelpers.NewStagedResultBuilder().ForApp("app-1").Insert(t, db)
	testhelpers.NewStagedResultBuilder().ForApp("app-1").NotReady().Insert(t, db)
	foreign := testhelpers.NewStagedResultBuilder().ForApp("app-2").Insert(t, db)

	deleted, err := repo.DeleteResults(ctx, "app-1", []uint{a.ID, b.ID, foreign.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted, "rows of another application must not be deleted")

	assert.Equal(t, int64(1), testhelpers.CountStagedRows(t, db, "app-1"))
	assert.Equal(t, int64(1), testhelpers.CountStagedRows(t, db, "app-2"))

	rows, err := repo.ListResults(ctx, "app-1")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestRepository_DeleteResults_NoIDs(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	repo := NewRepository(db)

	deleted, err := repo.DeleteResults(context.Background(), "app-1", nil)
	require.NoError(t, err)
	assert.Zero(t, deleted)
}
