package service

import (
	"context"
	"errors"

	"github.com/ikkim/bookshelf-backend/internal/app/model"
	"github.com/ikkim/bookshelf-backend/internal/app/repository"
	"github.com/ikkim/bookshelf-backend/internal/metrics"
	"github.com/ikkim/bookshelf-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrBookNotFound = errors.New("book not found")
	ErrInvalidBook  = errors.New("title, author, description and image_placeholder are required")
)

// BookCache holds the full catalog listing. A nil BookCache disables caching.
type BookCache interface {
	GetBooks(ctx context.Context) ([]model.Book, bool, error)
	SetBooks(ctx context.Context, books []model.Book) error
	InvalidateBooks(ctx context.Context) error
}

// BookInput carries create and update fields. Nil pointers and empty strings
// are treated as "not provided".
type BookInput struct {
	Title            string
	Author           string
	Description      string
	Year             *int
	Ratings          *float64
	ImagePlaceholder string
}

type BookService interface {
	ListBooks(ctx context.Context) ([]model.Book, error)
	GetBook(ctx context.Context, id uint) (*model.Book, error)
	CreateBook(ctx context.Context, input BookInput) (*model.Book, error)
	ImportBooks(ctx context.Context, inputs []BookInput) (int, error)
	UpdateBook(ctx context.Context, id uint, input BookInput) (*model.Book, error)
	DeleteBook(ctx context.Context, id uint) error
}

type bookService struct {
	bookRepo repository.BookRepository
	cache    BookCache
	metrics  *metrics.Metrics
}

func NewBookService(bookRepo repository.BookRepository, cache BookCache, m *metrics.Metrics) BookService {
	return &bookService{
		bookRepo: bookRepo,
		cache:    cache,
		metrics:  m,
	}
}

func (s *bookService) ListBooks(ctx context.Context) ([]model.Book, error) {
	if s.cache != nil {
		books, ok, err := s.cache.GetBooks(ctx)
		if err != nil {
			logger.Warn("Book cache read failed, falling back to database", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			s.metrics.RecordBookCache(ok)
			if ok {
				return books, nil
			}
		}
	}

	books, err := s.bookRepo.FindAll(ctx)
	if err != nil {
		logger.Error("Failed to list books", err)
		return nil, err
	}

	// A write that lands between FindAll and SetBooks can be overwritten by this
	// stale listing; it stays cached until the TTL expires.
	if s.cache != nil {
		if err := s.cache.SetBooks(ctx, books); err != nil {
			logger.Warn("Failed to populate book cache", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
	return books, nil
}

func (s *bookService) GetBook(ctx context.Context, id uint) (*model.Book, error) {
	book, err := s.bookRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		logger.Error("Failed to fetch book", err, map[string]interface{}{
			"book_id": id,
		})
		return nil, err
	}
	return book, nil
}

func (s *bookService) CreateBook(ctx context.Context, input BookInput) (*model.Book, error) {
	book, err := newBookFromInput(input)
	if err != nil {
		return nil, err
	}

	if err := s.bookRepo.Create(ctx, book); err != nil {
		return nil, err
	}
	s.invalidateCache(ctx)

	logger.Info("Book created", map[string]interface{}{
		"book_id": book.ID,
		"title":   book.Title,
	})
	return book, nil
}

// ImportBooks validates every row before inserting any of them.
func (s *bookService) ImportBooks(ctx context.Context, inputs []BookInput) (int, error) {
	books := make([]model.Book, 0, len(inputs))
	for _, input := range inputs {
		book, err := newBookFromInput(input)
		if err != nil {
			return 0, err
		}
		books = append(books, *book)
	}

	if err := s.bookRepo.CreateBatch(ctx, books); err != nil {
		return 0, err
	}
	s.invalidateCache(ctx)

	logger.Info("Books imported", map[string]interface{}{
		"count": len(books),
	})
	return len(books), nil
}

func (s *bookService) UpdateBook(ctx context.Context, id uint, input BookInput) (*model.Book, error) {
	book, err := s.GetBook(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Title != "" {
		book.Title = input.Title
	}
	if input.Author != "" {
		book.Author = input.Author
	}
	if input.Description != "" {
		book.Description = input.Description
	}
	if input.Year != nil {
		book.Year = *input.Year
	}
	if input.Ratings != nil {
		book.Ratings = *input.Ratings
	}
	if input.ImagePlaceholder != "" {
		book.ImagePlaceholder = input.ImagePlaceholder
	}

	if err := s.bookRepo.Update(ctx, book); err != nil {
		return nil, err
	}
	s.invalidateCache(ctx)

	logger.Info("Book updated", map[string]interface{}{
		"book_id": book.ID,
	})
	return book, nil
}

func (s *bookService) DeleteBook(ctx context.Context, id uint) error {
	if err := s.bookRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBookNotFound
		}
		return err
	}
	s.invalidateCache(ctx)

	logger.Info("Book deleted", map[string]interface{}{
		"book_id": id,
	})
	return nil
}

func (s *bookService) invalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateBooks(ctx); err != nil {
		logger.Warn("Failed to invalidate book cache", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func newBookFromInput(input BookInput) (*model.Book, error) {
	if input.Title == "" || input.Author == "" || input.Description == "" || input.ImagePlaceholder == "" {
		return nil, ErrInvalidBook
	}

	book := &model.Book{
		Title:            input.Title,
		Author:           input.Author,
		Description:      input.Description,
		Year:             model.DefaultBookYear,
		Ratings:          model.DefaultBookRatings,
		ImagePlaceholder: input.ImagePlaceholder,
	}
	if input.Year != nil {
		book.Year = *input.Year
	}
	if input.Ratings != nil {
		book.Ratings = *input.Ratings
	}
	return book, nil
}
