package service

import (
	"context"
	"testing"

	"github.com/ikkim/bookshelf-backend/internal/app/model"
	"github.com/ikkim/bookshelf-backend/internal/db"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })
	return testDB
}

type MockSender struct {
	mock.Mock
}

func (m *MockSender) SendPasswordReset(ctx context.Context, to, resetLink string) error {
	args := m.Called(ctx, to, resetLink)
	return args.Error(0)
}

type MockBookCache struct {
	mock.Mock
}

func (m *MockBookCache) GetBooks(ctx context.Context) ([]model.Book, bool, error) {
	args := m.Called(ctx)
	books, _ := args.Get(0).([]model.Book)
	return books, args.Bool(1), args.Error(2)
}

func (m *MockBookCache) SetBooks(ctx context.Context, books []model.Book) error {
	args := m.Called(ctx, books)
	return args.Error(0)
}

func (m *MockBookCache) InvalidateBooks(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
