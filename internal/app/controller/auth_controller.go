package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/bookshelf-backend/internal/app/service"
	apperrors "github.com/ikkim/bookshelf-backend/internal/errors"
	"github.com/ikkim/bookshelf-backend/internal/middleware"
)

const (
	msgSignupMissingFields = "Provide email, password, and name"
	msgLoginMissingFields  = "Provide email and password."
	msgInvalidEmail        = "Provide a valid email address."
	msgWeakPassword        = "Password must have at least 6 characters and contain at least one number, one lowercase, and one uppercase letter."
	msgUserExists          = "User already exists."
	msgUserNotFound        = "User not found."
	msgInvalidCredentials  = "Unable to authenticate the user"
	msgInvalidResetToken   = "Invalid or expired reset token."
	msgInvalidRequestBody  = "Request body must be valid JSON"
)

type AuthController struct {
	authService          service.AuthService
	passwordResetService service.PasswordResetService
}

func NewAuthController(authService service.AuthService, passwordResetService service.PasswordResetService) *AuthController {
	return &AuthController{
		authService:          authService,
		passwordResetService: passwordResetService,
	}
}

type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	NewPassword string `json:"newPassword"`
}

// Signup handles user registration
// POST /auth/signup
func (ctrl *AuthController) Signup(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid signup request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, msgInvalidRequestBody)
		return
	}

	user, err := ctrl.authService.Signup(c.Request.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingFields):
			apperrors.BadRequest(c, apperrors.ValidationRequired, msgSignupMissingFields)
		case errors.Is(err, service.ErrInvalidEmail):
			apperrors.BadRequest(c, apperrors.ValidationInvalidFormat, msgInvalidEmail)
		case errors.Is(err, service.ErrWeakPassword):
			apperrors.BadRequest(c, apperrors.ValidationWeakPassword, msgWeakPassword)
		case errors.Is(err, service.ErrEmailAlreadyExists):
			apperrors.BadRequest(c, apperrors.AuthEmailAlreadyExists, msgUserExists)
		default:
			log.Error("Signup failed", err, map[string]interface{}{
				"email": req.Email,
			})
			apperrors.ParseAndRespond(c, err, "create user")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user": gin.H{
			"id":    user.ID,
			"email": user.Email,
			"name":  user.Name,
		},
	})
}

// Login handles user login
// POST /auth/login
func (ctrl *AuthController) Login(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid login request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, msgInvalidRequestBody)
		return
	}

	token, err := ctrl.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingFields):
			apperrors.BadRequest(c, apperrors.ValidationRequired, msgLoginMissingFields)
		case errors.Is(err, service.ErrUserNotFound):
			apperrors.Unauthorized(c, apperrors.AuthUserNotFound, msgUserNotFound)
		case errors.Is(err, service.ErrInvalidCredentials):
			apperrors.Unauthorized(c, apperrors.AuthInvalidCredentials, msgInvalidCredentials)
		default:
			log.Error("Login failed", err, map[string]interface{}{
				"email": req.Email,
			})
			apperrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"authToken": token,
	})
}

// ForgotPassword issues a reset token and mails the link
// POST /auth/forgot-password
func (ctrl *AuthController) ForgotPassword(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, msgInvalidRequestBody)
		return
	}

	if err := ctrl.passwordResetService.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		switch {
		case errors.Is(err, service.ErrMissingFields):
			apperrors.BadRequest(c, apperrors.ValidationRequired, msgInvalidEmail)
		case errors.Is(err, service.ErrUserNotFound):
			apperrors.NotFound(c, apperrors.ResourceNotFound, msgUserNotFound)
		default:
			log.Error("Forgot password failed", err, nil)
			apperrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Password reset instructions sent to your email.",
	})
}

// VerifyResetToken reports whether a reset token is still usable
// GET /auth/reset-password/:token
func (ctrl *AuthController) VerifyResetToken(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	token := c.Param("token")

	if err := ctrl.passwordResetService.VerifyResetToken(c.Request.Context(), token); err != nil {
		if errors.Is(err, service.ErrInvalidResetToken) {
			apperrors.BadRequest(c, apperrors.AuthResetTokenInvalid, msgInvalidResetToken)
			return
		}
		log.Error("Reset token verification failed", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"valid": true,
		"token": token,
	})
}

// ResetPassword sets a new password using a reset token
// POST /auth/reset-password/:token
func (ctrl *AuthController) ResetPassword(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, msgInvalidRequestBody)
		return
	}

	err := ctrl.passwordResetService.ResetPassword(c.Request.Context(), c.Param("token"), req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidResetToken):
			apperrors.BadRequest(c, apperrors.AuthResetTokenInvalid, msgInvalidResetToken)
		case errors.Is(err, service.ErrMissingFields):
			apperrors.BadRequest(c, apperrors.ValidationRequired, "Provide a new password.")
		case errors.Is(err, service.ErrWeakPassword):
			apperrors.BadRequest(c, apperrors.ValidationWeakPassword, msgWeakPassword)
		default:
			log.Error("Password reset failed", err, nil)
			apperrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Password successfully reset.",
	})
}

// Verify echoes the session claims decoded by the auth middleware
// GET /auth/verify
func (ctrl *AuthController) Verify(c *gin.Context) {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		apperrors.Unauthorized(c, "", "")
		return
	}
	c.JSON(http.StatusOK, claims)
}
