package repository

import (
	"context"
	"testing"

	"github.com/ikkim/bookshelf-backend/internal/app/model"
	"github.com/ikkim/bookshelf-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupBookTest(t *testing.T) BookRepository {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	return NewBookRepository(testDB)
}

func newTestBook(title string) *model.Book {
	return &model.Book{
		Title:            title,
		Author:           "Author",
		Description:      "Description",
		Year:             1999,
		Ratings:          4.2,
		ImagePlaceholder: "https://example.com/cover.png",
	}
}

func TestBookRepository_CRUD(t *testing.T) {
	repo := setupBookTest(t)
	ctx := context.Background()

	book := newTestBook("Dune")
	require.NoError(t, repo.Create(ctx, book))
	require.NotZero(t, book.ID)

	found, err := repo.FindByID(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dune", found.Title)

	found.Title = "Dune Messiah"
	require.NoError(t, repo.Update(ctx, found))

	updated, err := repo.FindByID(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dune Messiah", updated.Title)

	require.NoError(t, repo.Delete(ctx, book.ID))
	_, err = repo.FindByID(ctx, book.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, book.ID), gorm.ErrRecordNotFound)
}

func TestBookRepository_FindAll(t *testing.T) {
	repo := setupBookTest(t)
	ctx := context.Background()

	books, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, books)

	require.NoError(t, repo.CreateBatch(ctx, []model.Book{*newTestBook("A"), *newTestBook("B")}))
	require.NoError(t, repo.Create(ctx, newTestBook("C")))

	books, err = repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, books, 3)
	assert.Equal(t, "A", books[0].Title)
	assert.Equal(t, "C", books[2].Title)
}
