package errors

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ErrorInfo 에러 정보 구조
type ErrorInfo struct {
	Code    string // 에러 코드 (codes.go 참조)
	Message string // 사용자 친화적 메시지
}

// ParseError turns a storage error into a code and a message that is safe to
// show to the client. context names the failing operation, e.g. "create book".
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Code:    InternalServerError,
			Message: "Internal server error.",
		}
	}

	errLower := strings.ToLower(err.Error())

	// 1. GORM 기본 에러
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: getNotFoundMessage(context),
		}
	}

	// 2. 제약 조건 위반 (PostgreSQL / SQLite)
	if errors.Is(err, gorm.ErrDuplicatedKey) ||
		strings.Contains(errLower, "duplicate key") ||
		strings.Contains(errLower, "unique constraint") {
		return parseDuplicateKeyError(errLower)
	}

	if strings.Contains(errLower, "violates not-null constraint") ||
		strings.Contains(errLower, "not null constraint failed") {
		return parseNotNullError(errLower)
	}

	// 3. 기본 내부 서버 오류
	return ErrorInfo{
		Code:    InternalServerError,
		Message: getDefaultErrorMessage(context),
	}
}

func parseDuplicateKeyError(errLower string) ErrorInfo {
	if strings.Contains(errLower, "email") {
		return ErrorInfo{
			Code:    AuthEmailAlreadyExists,
			Message: "User already exists.",
		}
	}

	return ErrorInfo{
		Code:    ResourceAlreadyExists,
		Message: "Resource already exists.",
	}
}

func parseNotNullError(errLower string) ErrorInfo {
	for _, field := range []string{"title", "author", "description", "image_placeholder", "email", "name"} {
		if strings.Contains(errLower, field) {
			return ErrorInfo{Code: ValidationRequired, Message: "Field " + field + " is required."}
		}
	}

	return ErrorInfo{
		Code:    ValidationRequired,
		Message: "A required field is missing.",
	}
}

func getNotFoundMessage(context string) string {
	contextLower := strings.ToLower(context)

	if strings.Contains(contextLower, "book") {
		return "Book not found."
	}
	if strings.Contains(contextLower, "user") {
		return "User not found."
	}

	return "Resource not found."
}

func getDefaultErrorMessage(context string) string {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "create"):
		return "Failed to create. Please try again later."
	case strings.Contains(contextLower, "update"):
		return "Failed to update. Please try again later."
	case strings.Contains(contextLower, "delete"):
		return "Failed to delete. Please try again later."
	}

	return "Internal server error."
}

// ParseAndRespond writes the parsed error with the status implied by its code.
func ParseAndRespond(c *gin.Context, err error, context string) {
	info := ParseError(err, context)
	RespondWithError(c, StatusForCode(info.Code), info.Code, info.Message)
}
