package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/umelife/marketplace/internal/domain"
	"github.com/umelife/marketplace/internal/repository"
)

func TestRegister_NewUser(t *testing.T) {
	userRepo := new(repository.MockUserRepository)
	svc := NewAuthService(userRepo, "test-secret")

	userRepo.On("GetByEmail", mock.Anything, "sam@stanford.edu").Return(nil, nil)
	userRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil)

	resp, err := svc.Register(context.Background(), RegisterInput{
		Email:       "sam@stanford.edu",
		DisplayName: "Sam",
		Password:    "Secret123",
	})
	require.NoError(t, err)
	require.NotNil(t, resp.User)

	assert.Equal(t, "stanford.edu", resp.User.UniversityDomain)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEqual(t, "Secret123", resp.User.PasswordHash)
}

func TestRegister_EmailTaken(t *testing.T) {
	userRepo := new(repository.MockUserRepository)
	svc := NewAuthService(userRepo, "test-secret")

	userRepo.On("GetByEmail", mock.Anything, "sam@stanford.edu").
		Return(&domain.User{Email: "sam@stanford.edu"}, nil)

	_, err := svc.Register(context.Background(), RegisterInput{
		Email:    "sam@stanford.edu",
		Password: "Secret123",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)
	userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestLogin_WrongPassword(t *testing.T) {
	userRepo := new(repository.MockUserRepository)
	svc := NewAuthService(userRepo, "test-secret")

	hash, err := hashPassword("Correct123")
	require.NoError(t, err)

	userRepo.On("GetByEmail", mock.Anything, "sam@stanford.edu").
		Return(&domain.User{Email: "sam@stanford.edu", PasswordHash: hash}, nil)

	_, err = svc.Login(context.Background(), LoginInput{Email: "sam@stanford.edu", Password: "Wrong456"})
	assert.ErrorIs(t, err, ErrInvalidCreds)
}

func TestLogin_UnknownEmail(t *testing.T) {
	userRepo := new(repository.MockUserRepository)
	svc := NewAuthService(userRepo, "test-secret")

	userRepo.On("GetByEmail", mock.Anything, "nobody@nowhere.edu").Return(nil, nil)

	_, err := svc.Login(context.Background(), LoginInput{Email: "nobody@nowhere.edu", Password: "whatever"})
	assert.ErrorIs(t, err, ErrInvalidCreds)
}

func TestPasswordHashRoundtrip(t *testing.T) {
	hash, err := hashPassword("Hunter2hunter")
	require.NoError(t, err)

	assert.True(t, verifyPassword("Hunter2hunter", hash))
	assert.False(t, verifyPassword("hunter2hunter", hash))
	assert.False(t, verifyPassword("Hunter2hunter", "garbage"))
}

func TestUniversityDomain(t *testing.T) {
	assert.Equal(t, "mit.edu", UniversityDomain("alice@MIT.edu"))
	assert.Equal(t, "unknown", UniversityDomain("not-an-email"))
	assert.Equal(t, "unknown", UniversityDomain("trailing@"))
}
