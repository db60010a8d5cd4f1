package user

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/exp/slog"
	"passvault/internal/domain/vaulterr"
)

// MockRepository is a mock implementation of the Repository interface for testing
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, login, email, passwordHash string) (int, error) {
	args := m.Called(ctx, login, email, passwordHash)
	return args.Int(0), args.Error(1)
}

func (m *MockRepository) FindByID(ctx context.Context, id int) (User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(User), args.Error(1)
}

func (m *MockRepository) FindByLogin(ctx context.Context, login string) (User, error) {
	args := m.Called(ctx, login)
	return args.Get(0).(User), args.Error(1)
}

func (m *MockRepository) FindByEmail(ctx context.Context, email string) (User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(User), args.Error(1)
}

func newTestService(repo Repository) *Service {
	return NewService(repo, NewPasswordValidator(), slog.Default())
}

func TestService_Register(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newTestService(mockRepo)

	login := "testuser"
	password := "P@ssw0rd123"

	mockRepo.On("Create", mock.Anything, login, "test@example.com", mock.MatchedBy(func(hash string) bool {
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
	})).Return(123, nil)

	userID, err := service.Register(context.Background(), login, "test@example.com", password)
	assert.NoError(t, err)
	assert.Equal(t, 123, userID)

	mockRepo.AssertExpectations(t)
}

func TestService_Register_RepositoryError(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newTestService(mockRepo)

	mockRepo.On("Create", mock.Anything, "testuser", "", mock.AnythingOfType("string")).Return(0, errors.New("database error"))

	_, err := service.Register(context.Background(), "testuser", "", "P@ssw0rd123")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "database error")

	mockRepo.AssertExpectations(t)
}

func TestService_Register_Taken(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newTestService(mockRepo)

	mockRepo.On("Create", mock.Anything, "testuser", "", mock.AnythingOfType("string")).Return(0, ErrLoginTaken)

	_, err := service.Register(context.Background(), "testuser", "", "P@ssw0rd123")
	assert.ErrorIs(t, err, vaulterr.ErrConflict)
}

func TestService_Register_Validation(t *testing.T) {
	tests := []struct {
		name     string
		login    string
		email    string
		password string
	}{
		{name: "empty login", login: "", password: "P@ssw0rd123"},
		{name: "weak password", login: "testuser", password: "password"},
		{name: "empty password", login: "testuser", password: ""},
		{name: "bad email", login: "testuser", email: "not-an-email", password: "P@ssw0rd123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockRepository)
			service := newTestService(mockRepo)

			_, err := service.Register(context.Background(), tt.login, tt.email, tt.password)
			assert.ErrorIs(t, err, vaulterr.ErrValidation)
			mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestService_Authenticate_Success(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newTestService(mockRepo)

	password := "P@ssw0rd123"
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	user := User{ID: 123, Login: "testuser", Password: string(hash)}
	mockRepo.On("FindByLogin", mock.Anything, "testuser").Return(user, nil)

	authUser, err := service.Authenticate(context.Background(), "testuser", password)
	assert.NoError(t, err)
	assert.Equal(t, user, authUser)

	mockRepo.AssertExpectations(t)
}

func TestService_Authenticate_Failures(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correctpassword"), bcrypt.MinCost)
	require.NoError(t, err)

	tests := []struct {
		name     string
		login    string
		password string
		user     User
		findErr  error
		callRepo bool
	}{
		{name: "invalid login", login: "", password: "x"},
		{name: "user not found", login: "nobody", password: "x", findErr: ErrNotFound, callRepo: true},
		{name: "wrong password", login: "testuser", password: "wrongpassword", user: User{ID: 1, Password: string(hash)}, callRepo: true},
		{name: "invalid hash", login: "testuser", password: "correctpassword", user: User{ID: 1, Password: "invalidhash"}, callRepo: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockRepository)
			service := newTestService(mockRepo)

			if tt.callRepo {
				mockRepo.On("FindByLogin", mock.Anything, tt.login).Return(tt.user, tt.findErr)
			}

			_, err := service.Authenticate(context.Background(), tt.login, tt.password)
			assert.Equal(t, ErrInvalidAuth, err)
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestService_Resolve(t *testing.T) {
	bob := User{ID: 2, Login: "bob", Email: "bob@example.com"}

	t.Run("by login", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockRepo.On("FindByLogin", mock.Anything, "bob").Return(bob, nil)

		got, err := newTestService(mockRepo).Resolve(context.Background(), " bob ")
		require.NoError(t, err)
		assert.Equal(t, bob, got)
		mockRepo.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything)
	})

	t.Run("by email", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockRepo.On("FindByLogin", mock.Anything, "bob@example.com").Return(User{}, ErrNotFound)
		mockRepo.On("FindByEmail", mock.Anything, "bob@example.com").Return(bob, nil)

		got, err := newTestService(mockRepo).Resolve(context.Background(), "bob@example.com")
		require.NoError(t, err)
		assert.Equal(t, 2, got.ID)
	})

	t.Run("unknown login is not tried as email", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockRepo.On("FindByLogin", mock.Anything, "carol").Return(User{}, ErrNotFound)

		_, err := newTestService(mockRepo).Resolve(context.Background(), "carol")
		assert.ErrorIs(t, err, vaulterr.ErrNotFound)
		mockRepo.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything)
	})

	t.Run("blank", func(t *testing.T) {
		_, err := newTestService(new(MockRepository)).Resolve(context.Background(), "  ")
		assert.ErrorIs(t, err, vaulterr.ErrNotFound)
	})

	t.Run("store failure is passed through", func(t *testing.T) {
		mockRepo := new(MockRepository)
		dbErr := errors.New("db down")
		mockRepo.On("FindByLogin", mock.Anything, "bob").Return(User{}, dbErr)

		_, err := newTestService(mockRepo).Resolve(context.Background(), "bob")
		assert.ErrorIs(t, err, dbErr)
	})
}
