package v1

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/uptrack-app/uptrack/internal/models"
	"github.com/uptrack-app/uptrack/internal/realtime"
	"github.com/uptrack-app/uptrack/internal/services"
)

// stubAuthService resolves a single known token and rejects
// everything else.
type stubAuthService struct {
	token     string
	principal models.Profile
}

func (s *stubAuthService) Register(context.Context, services.RegisterParams) (*models.User, error) {
	panic("not implemented")
}

func (s *stubAuthService) Confirm(context.Context, string) error {
	panic("not implemented")
}

func (s *stubAuthService) Login(context.Context, services.LoginParams) (*services.LoginResult, error) {
	panic("not implemented")
}

func (s *stubAuthService) ForgotPassword(context.Context, string) error {
	panic("not implemented")
}

func (s *stubAuthService) CheckResetToken(context.Context, string) error {
	panic("not implemented")
}

func (s *stubAuthService) ResetPassword(context.Context, string, string) error {
	panic("not implemented")
}

func (s *stubAuthService) Resolve(_ context.Context, token string) (*models.Profile, error) {
	if token != s.token {
		return nil, services.ErrTokenInvalid
	}
	principal := s.principal
	return &principal, nil
}

func newTestRouter(auth services.AuthService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := zerolog.Nop()
	handler := New(logger, auth, nil, nil, nil, realtime.NewHub(logger))

	router := gin.New()
	router.GET("/protected", handler.HandleAuthMiddleware, func(c *gin.Context) {
		principal, ok := principalFromContext(c)
		if !ok {
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": principal.ID, "name": principal.Name})
	})
	return router
}

func TestAuthMiddleware(t *testing.T) {
	auth := &stubAuthService{
		token: "good-token",
		principal: models.Profile{
			ID:    "u1",
			Name:  "Alice",
			Email: "alice@example.com",
		},
	}
	router := newTestRouter(auth)

	tests := []struct {
		name       string
		authHeader string
		wantCode   int
		wantBody   string
	}{
		{
			name:     "missing header",
			wantCode: http.StatusUnauthorized,
			wantBody: `{"msg":"the token was not sent"}`,
		},
		{
			name:       "wrong scheme",
			authHeader: "Basic abc",
			wantCode:   http.StatusUnauthorized,
			wantBody:   `{"msg":"the token was not sent"}`,
		},
		{
			name:       "unknown token",
			authHeader: "Bearer bad-token",
			wantCode:   http.StatusUnauthorized,
			wantBody:   `{"msg":"the token is not valid"}`,
		},
		{
			name:       "valid token",
			authHeader: "Bearer good-token",
			wantCode:   http.StatusOK,
			wantBody:   `{"id":"u1","name":"Alice"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}
