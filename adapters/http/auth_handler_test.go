package http

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	authUC "github.com/khoahotran/duo-site/internal/application/usecase/auth"
	"github.com/khoahotran/duo-site/internal/domain/user"
	"github.com/khoahotran/duo-site/pkg/apperror"
	"github.com/khoahotran/duo-site/pkg/auth"
	"github.com/khoahotran/duo-site/pkg/logger"
)

type UserRepoMock struct {
	mock.Mock
}

func (m *UserRepoMock) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	args := m.Called(ctx, email)
	if v := args.Get(0); v != nil {
		return v.(*user.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *UserRepoMock) Upsert(ctx context.Context, u *user.User) error {
	return m.Called(ctx, u).Error(0)
}

func TestAuthHandler_LoginSetsSessionCookie(t *testing.T) {
	jwtSvc := testJWT()
	repo := new(UserRepoMock)
	hash, err := auth.HashPassword("correct horse")
	require.NoError(t, err)
	repo.On("FindByEmail", mock.Anything, adminEmail).
		Return(&user.User{ID: uuid.New(), Email: adminEmail, PasswordHash: hash}, nil)
	repo.On("FindByEmail", mock.Anything, "nobody@example.com").
		Return(nil, apperror.NewNotFound("user", "nobody@example.com"))

	loginUC := authUC.NewLoginUseCase(repo, jwtSvc, []string{adminEmail}, logger.NewNop())
	router := NewRouter(Handlers{Auth: NewAuthHandler(loginUC, jwtSvc, true)}, testRouterConfig(jwtSvc))

	w := doJSON(router, http.MethodPost, "/api/auth/login", map[string]string{"email": adminEmail, "password": "correct horse"}, "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["is_admin"])

	var session *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == SessionCookie {
			session = c
		}
	}
	require.NotNil(t, session)
	assert.Equal(t, body["access_token"], session.Value)
	assert.True(t, session.HttpOnly)
	assert.True(t, session.Secure)
	assert.Equal(t, 3600, session.MaxAge)

	claims, err := jwtSvc.ValidateToken(session.Value)
	require.NoError(t, err)
	assert.Equal(t, adminEmail, claims.Email)

	w = doJSON(router, http.MethodPost, "/api/auth/login", map[string]string{"email": adminEmail, "password": "wrong"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(router, http.MethodPost, "/api/auth/login", map[string]string{"email": "nobody@example.com", "password": "x"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(router, http.MethodPost, "/api/auth/login", map[string]string{"email": adminEmail}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_LogoutClearsCookie(t *testing.T) {
	jwtSvc := testJWT()
	router := NewRouter(Handlers{Auth: NewAuthHandler(nil, jwtSvc, false)}, testRouterConfig(jwtSvc))

	w := doJSON(router, http.MethodPost, "/api/auth/logout", nil, "whatever")

	assert.Equal(t, http.StatusNoContent, w.Code)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionCookie, cookies[0].Name)
	assert.Equal(t, "", cookies[0].Value)
	assert.True(t, cookies[0].MaxAge < 0)
}
