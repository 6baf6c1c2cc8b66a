package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

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

func newLogin(repo *UserRepoMock) (*LoginUseCase, *auth.JWTService) {
	jwtSvc := auth.NewJWTService("test-secret", time.Hour)
	return NewLoginUseCase(repo, jwtSvc, []string{"band@example.com"}, logger.NewNop()), jwtSvc
}

func TestLogin_IssuesTokenForAdmin(t *testing.T) {
	repo := new(UserRepoMock)
	uc, jwtSvc := newLogin(repo)
	hash, err := auth.HashPassword("s3cret!")
	require.NoError(t, err)
	u := &user.User{ID: uuid.New(), Email: "band@example.com", PasswordHash: hash}
	repo.On("FindByEmail", mock.Anything, "band@example.com").Return(u, nil).Once()

	out, err := uc.Execute(context.Background(), LoginInput{Email: " Band@Example.com ", Password: "s3cret!"})
	require.NoError(t, err)
	assert.True(t, out.IsAdmin)

	claims, err := jwtSvc.ValidateToken(out.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, "band@example.com", claims.Email)
}

func TestLogin_WrongPasswordOrUnknownEmail(t *testing.T) {
	repo := new(UserRepoMock)
	uc, _ := newLogin(repo)
	hash, err := auth.HashPassword("right")
	require.NoError(t, err)
	repo.On("FindByEmail", mock.Anything, "fan@example.com").Return(&user.User{ID: uuid.New(), Email: "fan@example.com", PasswordHash: hash}, nil).Once()
	repo.On("FindByEmail", mock.Anything, "ghost@example.com").Return(nil, apperror.NewNotFound("user", "ghost@example.com")).Once()

	_, err = uc.Execute(context.Background(), LoginInput{Email: "fan@example.com", Password: "wrong"})
	require.ErrorIs(t, err, apperror.ErrUnauthorized)

	_, err = uc.Execute(context.Background(), LoginInput{Email: "ghost@example.com", Password: "x"})
	require.ErrorIs(t, err, apperror.ErrUnauthorized)

	_, err = uc.Execute(context.Background(), LoginInput{Email: "", Password: "x"})
	require.ErrorIs(t, err, apperror.ErrInvalidInput)
}
