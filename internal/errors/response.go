package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse 표준 에러 응답 구조
type ErrorResponse struct {
	Error   string `json:"error"`   // 에러 코드 (프론트엔드에서 매핑용)
	Message string `json:"message"` // 사용자에게 보여질 메시지
}

// RespondWithError 에러 응답 헬퍼
// statusCode: HTTP 상태 코드
// errorCode: 에러 코드 상수 (codes.go 참조)
func RespondWithError(c *gin.Context, statusCode int, errorCode string, message string) {
	c.JSON(statusCode, ErrorResponse{
		Error:   errorCode,
		Message: message,
	})
}

// 자주 사용하는 에러 응답 단축 함수들

func Unauthorized(c *gin.Context, errorCode string, message string) {
	if errorCode == "" {
		errorCode = AuthUnauthorized
	}
	if message == "" {
		message = "Authentication required"
	}
	RespondWithError(c, http.StatusUnauthorized, errorCode, message)
}

func BadRequest(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusBadRequest, errorCode, message)
}

func NotFound(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusNotFound, errorCode, message)
}

func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "Internal server error."
	}
	RespondWithError(c, http.StatusInternalServerError, InternalServerError, message)
}

// StatusForCode maps an error code to its HTTP status. Conflicts are reported
// as 400 to match the published API.
func StatusForCode(code string) int {
	switch code {
	case AuthUnauthorized, AuthUserNotFound, AuthInvalidCredentials, AuthTokenExpired, AuthTokenInvalid:
		return http.StatusUnauthorized
	case ResourceNotFound:
		return http.StatusNotFound
	case InternalServerError, InternalDatabaseError, InternalConfigError, UploadFailed:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}
