package auth

import (
	"context"
	"testing"

	"tourbook/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	if u != nil && args.Error(0) == nil {
		u.ID = 42
	}
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

type fakeJWT struct{}

func (fakeJWT) GenerateToken(userID int64, role string) (string, error) {
	return "test-token", nil
}

func TestRegister_Success(t *testing.T) {
	users := new(MockUserRepository)
	svc := NewService(users, fakeJWT{})

	users.On("ExistsByEmail", mock.Anything, "alice@example.com").Return(false, nil)
	users.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil)

	res, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "Alice@Example.com",
		Password: "password123",
		Name:     "Alice",
	})
	require.NoError(t, err)
	assert.Equal(t, "test-token", res.Token)
	assert.Equal(t, int64(42), res.User.ID)
	assert.Equal(t, domain.RoleTraveler, res.User.Role)
	assert.NotEqual(t, "password123", res.User.PasswordHash)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	users := new(MockUserRepository)
	svc := NewService(users, fakeJWT{})

	users.On("ExistsByEmail", mock.Anything, "alice@example.com").Return(true, nil)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "alice@example.com",
		Password: "password123",
		Name:     "Alice",
	})
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
}

func TestLogin_Success(t *testing.T) {
	users := new(MockUserRepository)
	svc := NewService(users, fakeJWT{})

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	users.On("GetByEmail", mock.Anything, "alice@example.com").Return(&domain.User{
		ID:           42,
		Email:        "alice@example.com",
		PasswordHash: string(hash),
		Role:         domain.RoleTraveler,
	}, nil)

	res, err := svc.Login(context.Background(), LoginRequest{Email: "alice@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, "test-token", res.Token)
}

func TestLogin_WrongPassword(t *testing.T) {
	users := new(MockUserRepository)
	svc := NewService(users, fakeJWT{})

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	users.On("GetByEmail", mock.Anything, "alice@example.com").Return(&domain.User{
		PasswordHash: string(hash),
	}, nil)

	_, err = svc.Login(context.Background(), LoginRequest{Email: "alice@example.com", Password: "nope"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownEmail(t *testing.T) {
	users := new(MockUserRepository)
	svc := NewService(users, fakeJWT{})

	users.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.Login(context.Background(), LoginRequest{Email: "ghost@example.com", Password: "password123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
