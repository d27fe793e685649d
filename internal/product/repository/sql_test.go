package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/fekuna/stockmanager/internal/model"
	"github.com/fekuna/stockmanager/internal/product"
	"github.com/fekuna/stockmanager/pkg/database"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := database.Open(context.Background(), &database.Config{
		Driver:     database.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "test.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSQLRepository_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLRepository(newTestDB(t))

	p := &model.Product{Name: "Shampoo X", Category: model.Ptr("Higiene")}
	require.NoError(t, repo.Create(ctx, p))
	assert.Positive(t, p.ID)

	got, err := repo.FindByName(ctx, "Shampoo X")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, p.ID, got.ID)
	assert.Equal(t, "Higiene", *got.Category)

	byID, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, got, byID)
}

func TestSQLRepository_FindMissingReturnsNil(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLRepository(newTestDB(t))

	got, err := repo.FindByName(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, got)

	byID, err := repo.FindByID(ctx, 99)
	require.NoError(t, err)
	assert.Nil(t, byID)
}

func TestSQLRepository_NameIsCaseSensitive(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLRepository(newTestDB(t))

	require.NoError(t, repo.Create(ctx, &model.Product{Name: "Shampoo X"}))

	got, err := repo.FindByName(ctx, "shampoo x")
	require.NoError(t, err)
	assert.Nil(t, got)
	require.NoError(t, repo.Create(ctx, &model.Product{Name: "shampoo x"}))
}

func TestSQLRepository_DuplicateName(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLRepository(newTestDB(t))

	require.NoError(t, repo.Create(ctx, &model.Product{Name: "Shampoo X"}))
	err := repo.Create(ctx, &model.Product{Name: "Shampoo X", Category: model.Ptr("Other")})
	assert.ErrorIs(t, err, product.ErrDuplicateName)
}

func TestSQLRepository_FindAllOrderedByName(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLRepository(newTestDB(t))

	empty, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)
	assert.NotNil(t, empty)

	for _, n := range []string{"Zinco", "Alface", "Maçã"} {
		require.NoError(t, repo.Create(ctx, &model.Product{Name: n}))
	}
	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Alface", all[0].Name)
	assert.Equal(t, "Zinco", all[2].Name)
}

func TestSQLRepository_DeleteCascades(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewSQLRepository(db)

	p := &model.Product{Name: "Shampoo X"}
	require.NoError(t, repo.Create(ctx, p))
	_, err := db.ExecContext(ctx, `INSERT INTO subproducts (product_id, brand) VALUES (?, ?), (?, ?)`, p.ID, "A", p.ID, "B")
	require.NoError(t, err)

	deleted, err := repo.Delete(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	var n int
	require.NoError(t, db.GetContext(ctx, &n, `SELECT count(*) FROM subproducts`))
	assert.Zero(t, n)

	deleted, err = repo.Delete(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}
