package controller

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/ikkim/bookshelf-backend/internal/errors"
	"github.com/ikkim/bookshelf-backend/internal/middleware"
	"github.com/ikkim/bookshelf-backend/internal/storage"
)

// CoverUploader issues presigned upload URLs for book covers.
type CoverUploader interface {
	PresignCoverUpload(ctx context.Context, filename, contentType string) (*storage.PresignedURLResponse, error)
}

type UploadController struct {
	storage CoverUploader
}

func NewUploadController(storage CoverUploader) *UploadController {
	return &UploadController{
		storage: storage,
	}
}

type CoverUploadRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
}

// CreateCoverUploadURL generates a presigned URL for uploading a cover image to S3
// POST /books/cover-upload-url
func (ctrl *UploadController) CreateCoverUploadURL(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CoverUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid cover upload request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationRequired, "Provide filename and content_type")
		return
	}

	response, err := ctrl.storage.PresignCoverUpload(c.Request.Context(), req.Filename, req.ContentType)
	if err != nil {
		if errors.Is(err, storage.ErrUnsupportedContentType) {
			apperrors.BadRequest(c, apperrors.UploadInvalidFileType, "Only image files are allowed (JPEG, PNG, GIF, WEBP)")
			return
		}
		log.Error("Failed to generate presigned URL", err, map[string]interface{}{
			"filename":     req.Filename,
			"content_type": req.ContentType,
		})
		apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.UploadFailed, "Failed to generate upload URL")
		return
	}

	userID, _ := middleware.GetUserID(c)
	log.Info("Cover upload URL generated", map[string]interface{}{
		"user_id": userID,
		"key":     response.Key,
	})

	c.JSON(http.StatusOK, response)
}
