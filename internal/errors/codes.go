package errors

// 에러 코드 상수 정의
// 형식: CATEGORY_SPECIFIC_DETAIL
// 프론트엔드에서 이 코드를 기반으로 메시지를 매핑함

const (
	// ==================== 인증 (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"        // 로그인 필요
	AuthUserNotFound       = "AUTH_USER_NOT_FOUND"      // 가입되지 않은 이메일
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS" // 잘못된 비밀번호
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"       // 토큰 만료
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"       // 잘못된 토큰
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"        // 이메일 중복
	AuthResetTokenInvalid  = "AUTH_RESET_TOKEN_INVALID" // 재설정 토큰 무효/만료

	// ==================== 검증 (VALIDATION_) ====================
	ValidationInvalidInput  = "VALIDATION_INVALID_INPUT"  // 잘못된 입력
	ValidationInvalidID     = "VALIDATION_INVALID_ID"     // 잘못된 ID
	ValidationInvalidFormat = "VALIDATION_INVALID_FORMAT" // 잘못된 형식
	ValidationWeakPassword  = "VALIDATION_WEAK_PASSWORD"  // 비밀번호 정책 미달
	ValidationRequired      = "VALIDATION_REQUIRED"       // 필수 항목

	// ==================== 리소스 (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"      // 리소스 없음
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS" // 이미 존재

	// ==================== 업로드 (UPLOAD_) ====================
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE" // 잘못된 파일 형식
	UploadFailed          = "UPLOAD_FAILED"            // 업로드 실패

	// ==================== 내부 오류 (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"   // 서버 오류
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR" // DB 오류
	InternalConfigError   = "INTERNAL_CONFIG_ERROR"   // 설정 오류
)
