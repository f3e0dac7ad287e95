package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"country_explorer/internal/feature/auth/domain/entity"
)

// mockUserRepository is a mock implementation of UserRepository.
type mockUserRepository struct {
	CreateFunc         func(ctx context.Context, user *entity.User) error
	FindByEmailFunc    func(ctx context.Context, email string) (*entity.User, error)
	FindByUsernameFunc func(ctx context.Context, username string) (*entity.User, error)
	FindByIDFunc       func(ctx context.Context, id string) (*entity.User, error)
}

func (m *mockUserRepository) Create(ctx context.Context, user *entity.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	return nil
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, email)
	}
	return nil, ErrUserNotFound
}

func (m *mockUserRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	if m.FindByUsernameFunc != nil {
		return m.FindByUsernameFunc(ctx, username)
	}
	return nil, ErrUserNotFound
}

func (m *mockUserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, ErrUserNotFound
}

// mockTokenGenerator is a mock implementation of TokenGenerator.
type mockTokenGenerator struct {
	GenerateTokenFunc func(userID string) (string, error)
}

func (m *mockTokenGenerator) GenerateToken(userID string) (string, error) {
	if m.GenerateTokenFunc != nil {
		return m.GenerateTokenFunc(userID)
	}
	return "mock-jwt-token", nil
}

func newTestUsecase(repo UserRepository, tokens TokenGenerator) *AuthUsecase {
	fixed := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	return NewAuthUsecase(repo, tokens, WithBcryptCost(bcrypt.MinCost), WithClock(func() time.Time { return fixed }))
}

func TestAuthUsecase_Register(t *testing.T) {
	t.Run("successful register", func(t *testing.T) {
		var stored *entity.User
		mockRepo := &mockUserRepository{
			CreateFunc: func(ctx context.Context, user *entity.User) error {
				if user.PasswordHash == "password123" {
					t.Errorf("password is not hashed")
				}
				if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("password123")); err != nil {
					t.Errorf("invalid bcrypt hash: %v", err)
				}
				stored = user
				return nil
			},
		}
		var tokenFor string
		mockTokens := &mockTokenGenerator{
			GenerateTokenFunc: func(userID string) (string, error) {
				tokenFor = userID
				return "signed", nil
			},
		}

		uc := newTestUsecase(mockRepo, mockTokens)
		token, user, err := uc.Register(context.Background(), " alice ", "  Alice@Example.COM ", "password123")

		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if token != "signed" {
			t.Errorf("expected token 'signed', got %q", token)
		}
		if user != stored {
			t.Error("expected returned user to be the stored user")
		}
		if user.Username != "alice" {
			t.Errorf("expected trimmed username, got %q", user.Username)
		}
		if user.Email != "alice@example.com" {
			t.Errorf("expected normalized email, got %q", user.Email)
		}
		if user.ID == "" || tokenFor != user.ID {
			t.Errorf("expected token subject %q, got %q", user.ID, tokenFor)
		}
		if !user.CreatedAt.Equal(time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)) {
			t.Errorf("unexpected CreatedAt %v", user.CreatedAt)
		}
	})

	t.Run("short password rejected before storage", func(t *testing.T) {
		mockRepo := &mockUserRepository{
			CreateFunc: func(ctx context.Context, user *entity.User) error {
				t.Error("Create should not be called")
				return nil
			},
		}

		uc := newTestUsecase(mockRepo, &mockTokenGenerator{})
		_, _, err := uc.Register(context.Background(), "alice", "a@example.com", "short")

		if !errors.Is(err, ErrWeakPassword) {
			t.Errorf("expected ErrWeakPassword, got %v", err)
		}
	})

	rejected := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{"password over 72 bytes", "alice", strings.Repeat("a", 80), ErrPasswordTooLong},
		{"multibyte password over 72 bytes", "alice", strings.Repeat("パ", 25), ErrPasswordTooLong},
		{"username short after trimming", "  ab  ", "password123", ErrInvalidUsername},
		{"username too long", strings.Repeat("a", 31), "password123", ErrInvalidUsername},
		{"username with at sign", "alice@home", "password123", ErrInvalidUsername},
	}
	for _, tt := range rejected {
		t.Run(tt.name+" rejected before storage", func(t *testing.T) {
			mockRepo := &mockUserRepository{
				CreateFunc: func(ctx context.Context, user *entity.User) error {
					t.Error("Create should not be called")
					return nil
				},
			}

			uc := newTestUsecase(mockRepo, &mockTokenGenerator{})
			_, _, err := uc.Register(context.Background(), tt.username, "a@example.com", tt.password)

			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}

	t.Run("password of exactly 72 bytes accepted", func(t *testing.T) {
		uc := newTestUsecase(&mockUserRepository{}, &mockTokenGenerator{
			GenerateTokenFunc: func(userID string) (string, error) { return "signed", nil },
		})
		_, _, err := uc.Register(context.Background(), "alice", "a@example.com", strings.Repeat("a", MaxPasswordBytes))

		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("duplicate user", func(t *testing.T) {
		mockRepo := &mockUserRepository{
			CreateFunc: func(ctx context.Context, user *entity.User) error {
				return ErrUserAlreadyExists
			},
		}

		uc := newTestUsecase(mockRepo, &mockTokenGenerator{})
		_, _, err := uc.Register(context.Background(), "alice", "a@example.com", "password123")

		if !errors.Is(err, ErrUserAlreadyExists) {
			t.Errorf("expected ErrUserAlreadyExists, got %v", err)
		}
	})

	t.Run("token generation failure", func(t *testing.T) {
		mockTokens := &mockTokenGenerator{
			GenerateTokenFunc: func(userID string) (string, error) {
				return "", errors.New("failed to sign token")
			},
		}

		uc := newTestUsecase(&mockUserRepository{}, mockTokens)
		_, _, err := uc.Register(context.Background(), "alice", "a@example.com", "password123")

		if err == nil || err.Error() != "failed to generate token: failed to sign token" {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

func TestAuthUsecase_Login(t *testing.T) {
	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	testUser := &entity.User{
		ID:           "0190a8f2-0000-7000-8000-000000000001",
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: string(hashed),
	}

	byEmail := func(ctx context.Context, email string) (*entity.User, error) {
		if email == testUser.Email {
			return testUser, nil
		}
		return nil, ErrUserNotFound
	}
	byUsername := func(ctx context.Context, username string) (*entity.User, error) {
		if username == testUser.Username {
			return testUser, nil
		}
		return nil, ErrUserNotFound
	}

	tests := []struct {
		name       string
		identifier string
		password   string
		wantErr    error
	}{
		{"login by email", "alice@example.com", "password123", nil},
		{"login by email is case insensitive", " ALICE@example.com ", "password123", nil},
		{"login by username", "alice", "password123", nil},
		{"unknown email", "bob@example.com", "password123", ErrInvalidCredentials},
		{"unknown username", "bob", "password123", ErrInvalidCredentials},
		{"wrong password", "alice", "wrong-password", ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &mockUserRepository{FindByEmailFunc: byEmail, FindByUsernameFunc: byUsername}
			uc := newTestUsecase(mockRepo, &mockTokenGenerator{})

			token, user, err := uc.Login(context.Background(), tt.identifier, tt.password)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				if token != "" || user != nil {
					t.Error("expected no token or user on failure")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if token != "mock-jwt-token" {
				t.Errorf("expected token 'mock-jwt-token', got %q", token)
			}
			if user.ID != testUser.ID {
				t.Errorf("expected user %q, got %q", testUser.ID, user.ID)
			}
		})
	}

	t.Run("repository failure is not masked", func(t *testing.T) {
		dbErr := errors.New("database error")
		mockRepo := &mockUserRepository{
			FindByUsernameFunc: func(ctx context.Context, username string) (*entity.User, error) {
				return nil, dbErr
			},
		}

		uc := newTestUsecase(mockRepo, &mockTokenGenerator{})
		_, _, err := uc.Login(context.Background(), "alice", "password123")

		if !errors.Is(err, dbErr) {
			t.Errorf("expected database error, got %v", err)
		}
	})
}

func TestAuthUsecase_Me(t *testing.T) {
	want := &entity.User{ID: "u1", Username: "alice"}
	mockRepo := &mockUserRepository{
		FindByIDFunc: func(ctx context.Context, id string) (*entity.User, error) {
			if id == "u1" {
				return want, nil
			}
			return nil, ErrUserNotFound
		},
	}
	uc := newTestUsecase(mockRepo, &mockTokenGenerator{})

	got, err := uc.Me(context.Background(), "u1")
	if err != nil || got != want {
		t.Fatalf("expected user, got %v, %v", got, err)
	}

	if _, err := uc.Me(context.Background(), "missing"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}
