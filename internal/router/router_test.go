package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ikkim/bookshelf-backend/config"
	"github.com/ikkim/bookshelf-backend/internal/app/controller"
	"github.com/ikkim/bookshelf-backend/internal/app/repository"
	"github.com/ikkim/bookshelf-backend/internal/app/service"
	"github.com/ikkim/bookshelf-backend/internal/db"
	"github.com/ikkim/bookshelf-backend/internal/metrics"
	"github.com/ikkim/bookshelf-backend/internal/middleware"
	"github.com/ikkim/bookshelf-backend/pkg/mailer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouterTest(t *testing.T, origins []string) http.Handler {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	cfg := &config.Config{
		Server: config.ServerConfig{GinMode: "test"},
		JWT:    config.JWTConfig{Secret: "router-secret", TokenExpiry: time.Hour},
		CORS:   config.CORSConfig{AllowedOrigins: origins},
	}

	userRepo := repository.NewUserRepository(testDB)
	m := metrics.New()
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.TokenExpiry)
	resetService := service.NewPasswordResetService(userRepo, mailer.NewLogSender(), "http://localhost:5173", m)
	bookService := service.NewBookService(repository.NewBookRepository(testDB), nil, m)

	r := NewRouter(
		controller.NewAuthController(authService, resetService),
		controller.NewBookController(bookService),
		controller.NewUploadController(nil),
		middleware.NewAuthMiddleware(cfg.JWT.Secret),
		m,
		cfg,
	)
	return r.Setup()
}

func serve(h http.Handler, method, path string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestRouter_Routes(t *testing.T) {
	h := setupRouterTest(t, []string{"http://localhost:5173"})

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
	}{
		{name: "Health", method: http.MethodGet, path: "/health", wantStatus: http.StatusOK},
		{name: "Book list", method: http.MethodGet, path: "/books", wantStatus: http.StatusOK},
		{name: "Unknown book", method: http.MethodGet, path: "/books/99", wantStatus: http.StatusNotFound},
		{name: "Verify without token", method: http.MethodGet, path: "/auth/verify", wantStatus: http.StatusUnauthorized},
		{name: "Reset probe with unknown token", method: http.MethodGet, path: "/auth/reset-password/nope", wantStatus: http.StatusBadRequest},
		{name: "Cover upload requires auth", method: http.MethodPost, path: "/books/cover-upload-url", wantStatus: http.StatusUnauthorized},
		{name: "Metrics", method: http.MethodGet, path: "/metrics", wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(h, tt.method, tt.path)
			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
		})
	}

	w := serve(h, http.MethodGet, "/metrics")
	assert.Contains(t, w.Body.String(), `route="/health"`)
}

func TestRouter_CORS(t *testing.T) {
	h := setupRouterTest(t, []string{"http://localhost:5173"})

	w := serve(h, http.MethodOptions, "/books",
		"Origin", "http://localhost:5173",
		"Access-Control-Request-Method", http.MethodPost,
	)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))

	w = serve(h, http.MethodGet, "/books", "Origin", "http://evil.example.com")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCorsConfig(t *testing.T) {
	assert.True(t, corsConfig(nil).AllowAllOrigins)
	assert.True(t, corsConfig([]string{"*"}).AllowAllOrigins)

	cfg := corsConfig([]string{"https://books.example.com"})
	assert.False(t, cfg.AllowAllOrigins)
	assert.True(t, cfg.AllowCredentials)
	assert.Equal(t, []string{"https://books.example.com"}, cfg.AllowOrigins)
}
