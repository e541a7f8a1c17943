package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"finance-tracker/internal/repository"
	"finance-tracker/internal/service"
)

// testHasher evita el costo de bcrypt en tests HTTP.
type testHasher struct{}

func (testHasher) Hash(p string) (string, error) { return "h:" + p, nil }

func (testHasher) Verify(p, hash string) bool { return hash == "h:"+p }

type testAPI struct {
	t      *testing.T
	router *gin.Engine
	jwt    *service.JWTService
	users  *repository.MemoryUserRepository
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()

	users := repository.NewMemoryUserRepository()
	jwtSvc := service.NewJWTServiceWithStore("secret", 15*time.Minute, time.Hour, service.NewMemoryRefreshTokenStore())
	userSvc := service.NewUserService(logger, users, testHasher{}, service.NewMemoryRateLimiter(time.Minute, 100))
	expenseSvc := service.NewExpenseService(logger, repository.NewMemoryExpenseRepository(), nil)
	groupSvc := service.NewGroupService(logger, users, repository.NewMemoryGroupRepository())

	router := NewRouter(
		logger,
		[]string{"*"},
		jwtSvc,
		NewUserHandler(logger, userSvc, jwtSvc),
		NewExpenseHandler(logger, expenseSvc),
		NewGroupHandler(logger, groupSvc),
		nil,
	)
	return &testAPI{t: t, router: router, jwt: jwtSvc, users: users}
}

func (a *testAPI) do(method, path, token string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

type registered struct {
	ID           string
	Email        string
	AccessToken  string
	RefreshToken string
}

func (a *testAPI) register(email, name string) registered {
	a.t.Helper()
	rec := a.do(http.MethodPost, "/api/auth/register", "", map[string]any{
		"email": email, "name": name, "password": "pw-" + name,
	})
	require.Equal(a.t, http.StatusOK, rec.Code, rec.Body.String())
	var resp struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		User         struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	decode(a.t, rec, &resp)
	return registered{ID: resp.User.ID, Email: email, AccessToken: resp.AccessToken, RefreshToken: resp.RefreshToken}
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out), rec.Body.String())
}
