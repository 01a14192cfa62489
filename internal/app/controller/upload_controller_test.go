package controller

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	apperrors "github.com/ikkim/bookshelf-backend/internal/errors"
	"github.com/ikkim/bookshelf-backend/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockCoverUploader struct {
	mock.Mock
}

func (m *MockCoverUploader) PresignCoverUpload(ctx context.Context, filename, contentType string) (*storage.PresignedURLResponse, error) {
	args := m.Called(ctx, filename, contentType)
	resp, _ := args.Get(0).(*storage.PresignedURLResponse)
	return resp, args.Error(1)
}

func setupUploadControllerTest(uploader CoverUploader) *gin.Engine {
	gin.SetMode(gin.TestMode)
	ctrl := NewUploadController(uploader)

	router := gin.New()
	router.POST("/books/cover-upload-url", ctrl.CreateCoverUploadURL)
	return router
}

func TestUploadController_CreateCoverUploadURL(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		uploader := new(MockCoverUploader)
		uploader.On("PresignCoverUpload", mock.Anything, "dune.png", "image/png").Return(&storage.PresignedURLResponse{
			UploadURL: "https://bucket.s3.amazonaws.com/covers/x.png?X-Amz-Signature=abc",
			FileURL:   "https://bucket.s3.amazonaws.com/covers/x.png",
			Key:       "covers/x.png",
		}, nil)

		w := performJSON(setupUploadControllerTest(uploader), http.MethodPost, "/books/cover-upload-url", CoverUploadRequest{
			Filename:    "dune.png",
			ContentType: "image/png",
		})

		assert.Equal(t, http.StatusOK, w.Code)
		response := decodeBody(t, w)
		assert.Equal(t, "covers/x.png", response["key"])
		assert.Contains(t, response["upload_url"], "X-Amz-Signature")
		uploader.AssertExpectations(t)
	})

	t.Run("Unsupported content type", func(t *testing.T) {
		uploader := new(MockCoverUploader)
		uploader.On("PresignCoverUpload", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, fmt.Errorf("%w: application/pdf", storage.ErrUnsupportedContentType))

		w := performJSON(setupUploadControllerTest(uploader), http.MethodPost, "/books/cover-upload-url", CoverUploadRequest{
			Filename:    "notes.pdf",
			ContentType: "application/pdf",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, apperrors.UploadInvalidFileType, decodeBody(t, w)["error"])
	})

	t.Run("Storage failure", func(t *testing.T) {
		uploader := new(MockCoverUploader)
		uploader.On("PresignCoverUpload", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, errors.New("credentials unavailable"))

		w := performJSON(setupUploadControllerTest(uploader), http.MethodPost, "/books/cover-upload-url", CoverUploadRequest{
			Filename:    "dune.png",
			ContentType: "image/png",
		})

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, apperrors.UploadFailed, decodeBody(t, w)["error"])
	})

	t.Run("Missing fields", func(t *testing.T) {
		uploader := new(MockCoverUploader)

		w := performJSON(setupUploadControllerTest(uploader), http.MethodPost, "/books/cover-upload-url", CoverUploadRequest{Filename: "dune.png"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		uploader.AssertNotCalled(t, "PresignCoverUpload", mock.Anything, mock.Anything, mock.Anything)
	})
}
