package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/bookshelf-backend/internal/app/service"
	apperrors "github.com/ikkim/bookshelf-backend/internal/errors"
	"github.com/ikkim/bookshelf-backend/internal/middleware"
)

type BookController struct {
	bookService service.BookService
}

func NewBookController(bookService service.BookService) *BookController {
	return &BookController{
		bookService: bookService,
	}
}

// BookRequest accepts image_placeholder and, for older clients, image.
type BookRequest struct {
	Title            string   `json:"title"`
	Author           string   `json:"author"`
	Description      string   `json:"description"`
	Year             *int     `json:"year"`
	Ratings          *float64 `json:"ratings"`
	ImagePlaceholder string   `json:"image_placeholder"`
	Image            string   `json:"image"`
}

func (r BookRequest) toInput() service.BookInput {
	image := r.ImagePlaceholder
	if image == "" {
		image = r.Image
	}
	return service.BookInput{
		Title:            r.Title,
		Author:           r.Author,
		Description:      r.Description,
		Year:             r.Year,
		Ratings:          r.Ratings,
		ImagePlaceholder: image,
	}
}

// ListBooks returns every book
// GET /books
func (ctrl *BookController) ListBooks(c *gin.Context) {
	books, err := ctrl.bookService.ListBooks(c.Request.Context())
	if err != nil {
		apperrors.ParseAndRespond(c, err, "list books")
		return
	}
	c.JSON(http.StatusOK, books)
}

// GetBook returns a single book
// GET /books/:id
func (ctrl *BookController) GetBook(c *gin.Context) {
	id, ok := parseBookID(c)
	if !ok {
		return
	}

	book, err := ctrl.bookService.GetBook(c.Request.Context(), id)
	if err != nil {
		ctrl.respondBookError(c, err, "get book")
		return
	}
	c.JSON(http.StatusOK, book)
}

// CreateBook adds a book to the catalog
// POST /books (alias: POST /book)
func (ctrl *BookController) CreateBook(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid create book request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, msgInvalidRequestBody)
		return
	}

	book, err := ctrl.bookService.CreateBook(c.Request.Context(), req.toInput())
	if err != nil {
		ctrl.respondBookError(c, err, "create book")
		return
	}
	c.JSON(http.StatusCreated, book)
}

// UpdateBook changes the provided fields of a book
// PUT /books/:id
func (ctrl *BookController) UpdateBook(c *gin.Context) {
	id, ok := parseBookID(c)
	if !ok {
		return
	}

	var req BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, msgInvalidRequestBody)
		return
	}

	book, err := ctrl.bookService.UpdateBook(c.Request.Context(), id, req.toInput())
	if err != nil {
		ctrl.respondBookError(c, err, "update book")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Book Updated!",
		"book":    book,
	})
}

// DeleteBook removes a book
// DELETE /books/:id
func (ctrl *BookController) DeleteBook(c *gin.Context) {
	id, ok := parseBookID(c)
	if !ok {
		return
	}

	if err := ctrl.bookService.DeleteBook(c.Request.Context(), id); err != nil {
		ctrl.respondBookError(c, err, "delete book")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Book deleted",
	})
}

func (ctrl *BookController) respondBookError(c *gin.Context, err error, context string) {
	switch {
	case errors.Is(err, service.ErrBookNotFound):
		apperrors.NotFound(c, apperrors.ResourceNotFound, "Book not found.")
	case errors.Is(err, service.ErrInvalidBook):
		apperrors.BadRequest(c, apperrors.ValidationRequired, "Provide title, author, description, and image_placeholder")
	default:
		middleware.GetLoggerFromContext(c).Error("Book operation failed", err, map[string]interface{}{
			"operation": context,
		})
		apperrors.ParseAndRespond(c, err, context)
	}
}

func parseBookID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid book ID")
		return 0, false
	}
	return uint(id), true
}
