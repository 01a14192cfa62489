package repository

import (
	"context"

	"github.com/ikkim/bookshelf-backend/internal/app/model"
	"github.com/ikkim/bookshelf-backend/pkg/logger"
	"gorm.io/gorm"
)

type BookRepository interface {
	Create(ctx context.Context, book *model.Book) error
	CreateBatch(ctx context.Context, books []model.Book) error
	FindAll(ctx context.Context) ([]model.Book, error)
	FindByID(ctx context.Context, id uint) (*model.Book, error)
	Update(ctx context.Context, book *model.Book) error
	Delete(ctx context.Context, id uint) error
}

type bookRepository struct {
	db *gorm.DB
}

func NewBookRepository(db *gorm.DB) BookRepository {
	return &bookRepository{db: db}
}

func (r *bookRepository) Create(ctx context.Context, book *model.Book) error {
	logger.Debug("Creating book in database", map[string]interface{}{
		"title":  book.Title,
		"author": book.Author,
	})

	if err := r.db.WithContext(ctx).Create(book).Error; err != nil {
		logger.Error("Failed to create book in database", err, map[string]interface{}{
			"title": book.Title,
		})
		return err
	}

	logger.Debug("Book created in database", map[string]interface{}{
		"book_id": book.ID,
	})
	return nil
}

func (r *bookRepository) CreateBatch(ctx context.Context, books []model.Book) error {
	if len(books) == 0 {
		return nil
	}

	logger.Debug("Creating books in database", map[string]interface{}{
		"count": len(books),
	})

	if err := r.db.WithContext(ctx).CreateInBatches(books, 100).Error; err != nil {
		logger.Error("Failed to create books in database", err, map[string]interface{}{
			"count": len(books),
		})
		return err
	}
	return nil
}

func (r *bookRepository) FindAll(ctx context.Context) ([]model.Book, error) {
	logger.Debug("Finding all books in database")

	var books []model.Book
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&books).Error; err != nil {
		logger.Error("Failed to find books in database", err, nil)
		return nil, err
	}

	logger.Debug("Books found in database", map[string]interface{}{
		"count": len(books),
	})
	return books, nil
}

func (r *bookRepository) FindByID(ctx context.Context, id uint) (*model.Book, error) {
	logger.Debug("Finding book by ID in database", map[string]interface{}{
		"book_id": id,
	})

	var book model.Book
	if err := r.db.WithContext(ctx).First(&book, id).Error; err != nil {
		return nil, err
	}
	return &book, nil
}

func (r *bookRepository) Update(ctx context.Context, book *model.Book) error {
	logger.Debug("Updating book in database", map[string]interface{}{
		"book_id": book.ID,
	})

	if err := r.db.WithContext(ctx).Save(book).Error; err != nil {
		logger.Error("Failed to update book in database", err, map[string]interface{}{
			"book_id": book.ID,
		})
		return err
	}
	return nil
}

func (r *bookRepository) Delete(ctx context.Context, id uint) error {
	logger.Debug("Deleting book from database", map[string]interface{}{
		"book_id": id,
	})

	result := r.db.WithContext(ctx).Delete(&model.Book{}, id)
	if result.Error != nil {
		logger.Error("Failed to delete book from database", result.Error, map[string]interface{}{
			"book_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	logger.Debug("Book deleted from database", map[string]interface{}{
		"book_id": id,
	})
	return nil
}
