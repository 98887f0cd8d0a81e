package service

import (
	"context"
	"testing"
	"time"

	"github.com/gonzalopetosa/control-ingreso-reconocimiento-facial/internal/logger"
	"github.com/gonzalopetosa/control-ingreso-reconocimiento-facial/internal/store"
	"github.com/gonzalopetosa/control-ingreso-reconocimiento-facial/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestAuthService(userRepository *mockUserRepository) *authService {
	return &authService{
		userRepository: userRepository,
		tokenSignKey:   "test-sign-key",
		tokenIssuer:    "control-ingreso-test",
		tokenDuration:  time.Hour,
		logger:         logger.Nop(),
	}
}

func hashFor(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

// ─────────────────────────────────────────────
// RegisterUser
// ─────────────────────────────────────────────

func TestAuthService_RegisterUser_Success(t *testing.T) {
	var persisted models.User
	repo := &mockUserRepository{
		createUserFn: func(_ context.Context, user models.User) (models.User, error) {
			persisted = user
			user.UserID = 1
			return user, nil
		},
	}
	svc := newTestAuthService(repo)

	created, err := svc.RegisterUser(context.Background(), models.User{
		Username: "marta",
		Password: "s3cret",
		Email:    "marta@planta.local",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(1), created.UserID)
	assert.Equal(t, models.RoleOperator, created.Role, "role defaults to operator")
	assert.Empty(t, persisted.Password, "plain password must not reach the store")
	require.NotEmpty(t, persisted.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(persisted.PasswordHash), []byte("s3cret")))
}

func TestAuthService_RegisterUser_EmptyFields(t *testing.T) {
	svc := newTestAuthService(&mockUserRepository{})

	_, err := svc.RegisterUser(context.Background(), models.User{Username: "marta"})
	require.ErrorIs(t, err, ErrInvalidDataProvided)

	_, err = svc.RegisterUser(context.Background(), models.User{Password: "s3cret"})
	require.ErrorIs(t, err, ErrInvalidDataProvided)
}

func TestAuthService_RegisterUser_UnknownRole(t *testing.T) {
	svc := newTestAuthService(&mockUserRepository{})

	_, err := svc.RegisterUser(context.Background(), models.User{
		Username: "marta",
		Password: "s3cret",
		Role:     "superuser",
	})

	require.ErrorIs(t, err, ErrInvalidDataProvided)
}

func TestAuthService_RegisterUser_UsernameTaken(t *testing.T) {
	repo := &mockUserRepository{
		createUserFn: func(_ context.Context, _ models.User) (models.User, error) {
			return models.User{}, store.ErrUsernameTaken
		},
	}
	svc := newTestAuthService(repo)

	_, err := svc.RegisterUser(context.Background(), models.User{Username: "marta", Password: "s3cret"})

	require.ErrorIs(t, err, store.ErrUsernameTaken)
}

// ─────────────────────────────────────────────
// VerifyCredentials
// ─────────────────────────────────────────────

func TestAuthService_VerifyCredentials_Success(t *testing.T) {
	repo := &mockUserRepository{
		findUserByUsernameFn: func(_ context.Context, username string) (models.User, error) {
			return models.User{
				UserID:       1,
				Username:     username,
				PasswordHash: hashFor(t, "s3cret"),
				Role:         models.RoleOperator,
			}, nil
		},
	}
	svc := newTestAuthService(repo)

	user, err := svc.VerifyCredentials(context.Background(), "marta", "s3cret")

	require.NoError(t, err)
	assert.Equal(t, int64(1), user.UserID)
}

func TestAuthService_VerifyCredentials_WrongPassword(t *testing.T) {
	repo := &mockUserRepository{
		findUserByUsernameFn: func(_ context.Context, username string) (models.User, error) {
			return models.User{UserID: 1, Username: username, PasswordHash: hashFor(t, "s3cret")}, nil
		},
	}
	svc := newTestAuthService(repo)

	_, err := svc.VerifyCredentials(context.Background(), "marta", "wrong")

	require.ErrorIs(t, err, ErrWrongPassword)
}

func TestAuthService_VerifyCredentials_UnknownUserLooksLikeWrongPassword(t *testing.T) {
	repo := &mockUserRepository{
		findUserByUsernameFn: func(_ context.Context, _ string) (models.User, error) {
			return models.User{}, store.ErrUserNotFound
		},
	}
	svc := newTestAuthService(repo)

	_, err := svc.VerifyCredentials(context.Background(), "ghost", "whatever")

	require.ErrorIs(t, err, ErrWrongPassword)
}

func TestAuthService_VerifyCredentials_EmptyInput(t *testing.T) {
	svc := newTestAuthService(&mockUserRepository{})

	_, err := svc.VerifyCredentials(context.Background(), "", "s3cret")
	require.ErrorIs(t, err, ErrInvalidDataProvided)

	_, err = svc.VerifyCredentials(context.Background(), "marta", "")
	require.ErrorIs(t, err, ErrInvalidDataProvided)
}

// ─────────────────────────────────────────────
// Token lifecycle
// ─────────────────────────────────────────────

func TestAuthService_CreateAndParseToken_RoundTrip(t *testing.T) {
	svc := newTestAuthService(&mockUserRepository{})
	principal := models.Principal{UserID: 42, Username: "marta", Role: models.RoleAdmin}

	token, err := svc.CreateToken(context.Background(), principal)
	require.NoError(t, err)
	require.NotEmpty(t, token.String())

	parsed, err := svc.ParseToken(context.Background(), token.String())
	require.NoError(t, err)
	assert.Equal(t, int64(42), parsed.UserID)
	assert.Equal(t, models.RoleAdmin, parsed.Role)
}

func TestAuthService_ParseToken_WrongIssuer(t *testing.T) {
	issuing := newTestAuthService(&mockUserRepository{})
	issuing.tokenIssuer = "someone-else"

	token, err := issuing.CreateToken(context.Background(), models.Principal{UserID: 1})
	require.NoError(t, err)

	parsing := newTestAuthService(&mockUserRepository{})
	_, err = parsing.ParseToken(context.Background(), token.String())

	require.ErrorIs(t, err, ErrTokenIsExpiredOrInvalid)
}

func TestAuthService_ParseToken_Garbage(t *testing.T) {
	svc := newTestAuthService(&mockUserRepository{})

	_, err := svc.ParseToken(context.Background(), "not.a.token")

	require.ErrorIs(t, err, ErrTokenIsExpiredOrInvalid)
}
