package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestParseError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		context  string
		wantCode string
		wantMsg  string
	}{
		{
			name:     "Nil error",
			err:      nil,
			wantCode: InternalServerError,
		},
		{
			name:     "Book not found",
			err:      fmt.Errorf("find: %w", gorm.ErrRecordNotFound),
			context:  "get book",
			wantCode: ResourceNotFound,
			wantMsg:  "Book not found.",
		},
		{
			name:     "Postgres duplicate email",
			err:      errors.New(`ERROR: duplicate key value violates unique constraint "idx_users_email" (SQLSTATE 23505)`),
			context:  "signup user",
			wantCode: AuthEmailAlreadyExists,
		},
		{
			name:     "SQLite duplicate email",
			err:      errors.New("UNIQUE constraint failed: users.email"),
			context:  "signup user",
			wantCode: AuthEmailAlreadyExists,
		},
		{
			name:     "Gorm duplicated key",
			err:      gorm.ErrDuplicatedKey,
			wantCode: ResourceAlreadyExists,
		},
		{
			name:     "Not null title",
			err:      errors.New("NOT NULL constraint failed: books.title"),
			context:  "create book",
			wantCode: ValidationRequired,
			wantMsg:  "Field title is required.",
		},
		{
			name:     "Unknown error on update",
			err:      errors.New("connection reset"),
			context:  "update book",
			wantCode: InternalServerError,
			wantMsg:  "Failed to update. Please try again later.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := ParseError(tt.err, tt.context)
			assert.Equal(t, tt.wantCode, info.Code)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, info.Message)
			}
		})
	}
}

func TestStatusForCode(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, StatusForCode(AuthEmailAlreadyExists))
	assert.Equal(t, http.StatusBadRequest, StatusForCode(AuthResetTokenInvalid))
	assert.Equal(t, http.StatusUnauthorized, StatusForCode(AuthUserNotFound))
	assert.Equal(t, http.StatusNotFound, StatusForCode(ResourceNotFound))
	assert.Equal(t, http.StatusInternalServerError, StatusForCode(InternalServerError))
}

func TestParseAndRespond(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	ParseAndRespond(c, gorm.ErrRecordNotFound, "delete book")

	assert.Equal(t, http.StatusNotFound, w.Code)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, ResourceNotFound, body.Error)
	assert.Equal(t, "Book not found.", body.Message)
}
