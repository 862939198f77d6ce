package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/AnshRaj112/fittrack-backend/internal/models"
	"github.com/AnshRaj112/fittrack-backend/internal/repository"
	"github.com/AnshRaj112/fittrack-backend/pkg/apierrors"
	"github.com/AnshRaj112/fittrack-backend/pkg/utils"
)

func validRegistration() RegisterInput {
	return RegisterInput{
		Username:      "Alice_01",
		Email:         "Alice@Example.com",
		Password:      "secret1",
		Name:          "Alice",
		Age:           31,
		Gender:        "female",
		Height:        168,
		CurrentWeight: 64.5,
		FitnessGoal:   "endurance",
	}
}

func newAuth(t *testing.T) (*AuthService, *MockUserRepository, *SessionStore) {
	_, rdb := newRedis(t)
	users := new(MockUserRepository)
	sessions := NewSessionStore(rdb, time.Hour)
	return NewAuthService(users, sessions), users, sessions
}

func TestRegister_Success(t *testing.T) {
	auth, users, sessions := newAuth(t)
	ctx := context.Background()

	users.On("ExistsUsername", ctx, "alice_01").Return(false, nil)
	users.On("ExistsEmail", ctx, "alice@example.com").Return(false, nil)
	users.On("Create", ctx, mock.MatchedBy(func(u *models.User) bool {
		ok, _ := utils.VerifyPassword("secret1", u.PasswordHash)
		return ok && u.Username == "alice_01" && u.PasswordHash != "secret1"
	})).Return(nil)

	user, token, err := auth.Register(ctx, validRegistration())
	require.NoError(t, err)
	assert.Equal(t, "alice_01", user.Username)

	sess, ok, err := sessions.Get(ctx, token)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, user.ID, sess.UserID)
	users.AssertExpectations(t)
}

func TestRegister_Conflicts(t *testing.T) {
	ctx := context.Background()

	t.Run("username", func(t *testing.T) {
		auth, users, _ := newAuth(t)
		users.On("ExistsUsername", ctx, "alice_01").Return(true, nil)

		_, _, err := auth.Register(ctx, validRegistration())
		assert.ErrorIs(t, err, apierrors.ErrConflict)
		assert.Equal(t, "Username already exists", err.Error())
		users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("email", func(t *testing.T) {
		auth, users, _ := newAuth(t)
		users.On("ExistsUsername", ctx, "alice_01").Return(false, nil)
		users.On("ExistsEmail", ctx, "alice@example.com").Return(true, nil)

		_, _, err := auth.Register(ctx, validRegistration())
		assert.Equal(t, "Email already exists", err.Error())
	})

	t.Run("race caught by constraint", func(t *testing.T) {
		auth, users, _ := newAuth(t)
		users.On("ExistsUsername", ctx, mock.Anything).Return(false, nil)
		users.On("ExistsEmail", ctx, mock.Anything).Return(false, nil)
		users.On("Create", ctx, mock.Anything).Return(repository.ErrDuplicateEmail)

		_, token, err := auth.Register(ctx, validRegistration())
		assert.ErrorIs(t, err, apierrors.ErrConflict)
		assert.Empty(t, token)
	})
}

func TestRegister_Validation(t *testing.T) {
	auth, users, _ := newAuth(t)
	ctx := context.Background()
	users.On("ExistsUsername", ctx, mock.Anything).Return(false, nil)
	users.On("ExistsEmail", ctx, mock.Anything).Return(false, nil)

	in := validRegistration()
	in.Password = "12345"
	_, _, err := auth.Register(ctx, in)
	assert.ErrorIs(t, err, apierrors.ErrValidation)

	in = validRegistration()
	in.Email = "not-an-email"
	_, _, err = auth.Register(ctx, in)
	assert.ErrorIs(t, err, apierrors.ErrValidation)

	in = validRegistration()
	in.Username = "_x"
	_, _, err = auth.Register(ctx, in)
	assert.ErrorIs(t, err, apierrors.ErrValidation)

	in = validRegistration()
	in.FieldErrors = map[string]string{"age": "Age must be a whole number"}
	_, _, err = auth.Register(ctx, in)
	assert.ErrorIs(t, err, apierrors.ErrValidation)
	assert.Equal(t, "Age must be a whole number", err.Error())

	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegister_ConflictWinsOverInvalidFields(t *testing.T) {
	ctx := context.Background()

	t.Run("username", func(t *testing.T) {
		auth, users, _ := newAuth(t)
		users.On("ExistsUsername", ctx, "alice_01").Return(true, nil)

		_, _, err := auth.Register(ctx, RegisterInput{
			Username:    " Alice_01",
			Password:    "x",
			FieldErrors: map[string]string{"age": "Age must be a whole number"},
		})
		assert.ErrorIs(t, err, apierrors.ErrConflict)
		assert.Equal(t, "Username already exists", err.Error())
		users.AssertNotCalled(t, "ExistsEmail", mock.Anything, mock.Anything)
	})

	t.Run("email", func(t *testing.T) {
		auth, users, _ := newAuth(t)
		users.On("ExistsEmail", ctx, "alice@example.com").Return(true, nil)

		_, _, err := auth.Register(ctx, RegisterInput{Email: "ALICE@example.com", Age: -4})
		assert.ErrorIs(t, err, apierrors.ErrConflict)
		assert.Equal(t, "Email already exists", err.Error())
		users.AssertNotCalled(t, "ExistsUsername", mock.Anything, mock.Anything)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	hash, err := utils.HashPassword("secret1")
	require.NoError(t, err)
	stored := &models.User{ID: uuid.New(), Username: "alice", PasswordHash: hash}

	t.Run("unknown user", func(t *testing.T) {
		auth, users, _ := newAuth(t)
		users.On("GetByUsername", ctx, "ghost").Return(nil, repository.ErrNotFound)

		_, _, err := auth.Login(ctx, LoginInput{Username: "ghost", Password: "secret1"})
		assert.ErrorIs(t, err, apierrors.ErrAuth)
		assert.Equal(t, "Invalid username or password", err.Error())
	})

	t.Run("wrong password", func(t *testing.T) {
		auth, users, _ := newAuth(t)
		users.On("GetByUsername", ctx, "alice").Return(stored, nil)

		_, _, err := auth.Login(ctx, LoginInput{Username: "alice", Password: "secret2"})
		assert.ErrorIs(t, err, apierrors.ErrAuth)
	})

	t.Run("success is case-insensitive on username", func(t *testing.T) {
		auth, users, sessions := newAuth(t)
		users.On("GetByUsername", ctx, "alice").Return(stored, nil)

		_, token, err := auth.Login(ctx, LoginInput{Username: " Alice", Password: "secret1"})
		require.NoError(t, err)
		_, ok, _ := sessions.Get(ctx, token)
		assert.True(t, ok)

		require.NoError(t, auth.Logout(ctx, token))
		_, ok, _ = sessions.Get(ctx, token)
		assert.False(t, ok)
	})

	t.Run("empty credentials", func(t *testing.T) {
		auth, _, _ := newAuth(t)
		_, _, err := auth.Login(ctx, LoginInput{})
		assert.ErrorIs(t, err, apierrors.ErrAuth)
	})
}

func TestLogout_UnknownTokenSucceeds(t *testing.T) {
	auth, _, _ := newAuth(t)
	assert.NoError(t, auth.Logout(context.Background(), "nope"))
	assert.NoError(t, auth.Logout(context.Background(), ""))
}
