package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/dastan/goshop/internal/config"
	"golang.org/x/crypto/bcrypt"
)

func testConfig() config.AuthConfig {
	return config.AuthConfig{BcryptCost: bcrypt.MinCost}
}

func TestRegisterSuccess(t *testing.T) {
	store := newMemoryStore()
	service := NewService(store, testConfig())

	user, err := service.Register(context.Background(), RegisterInput{
		Name:     "Arman",
		Email:    "User@Example.com",
		Password: "StrongPass1!",
	})
	if err != nil {
		t.Fatalf("register returned error: %v", err)
	}

	if user.PasswordHash != "" {
		t.Fatalf("expected password hash to be stripped from response")
	}
	if user.Email != "user@example.com" {
		t.Fatalf("expected email lowered, got %q", user.Email)
	}

	stored, ok := store.users["user@example.com"]
	if !ok {
		t.Fatalf("expected user stored")
	}
	if stored.PasswordHash == "StrongPass1!" || stored.PasswordHash == "" {
		t.Fatalf("expected password stored hashed")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	store := newMemoryStore()
	service := NewService(store, testConfig())

	input := RegisterInput{Email: "user@example.com", Password: "StrongPass1!"}
	if _, err := service.Register(context.Background(), input); err != nil {
		t.Fatalf("first register returned error: %v", err)
	}

	_, err := service.Register(context.Background(), input)
	if !errors.Is(err, ErrEmailAlreadyExists) {
		t.Fatalf("expected ErrEmailAlreadyExists, got %v", err)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	service := NewService(newMemoryStore(), testConfig())

	_, err := service.Login(context.Background(), LoginInput{
		Email:    "nobody@example.com",
		Password: "whatever123",
	})
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	store := newMemoryStore()
	service := NewService(store, testConfig())

	_, err := service.Register(context.Background(), RegisterInput{
		Email:    "user@example.com",
		Password: "StrongPass1!",
	})
	if err != nil {
		t.Fatalf("register returned error: %v", err)
	}

	_, err = service.Login(context.Background(), LoginInput{
		Email:    "user@example.com",
		Password: "wrong-password",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginSuccessStripsHash(t *testing.T) {
	store := newMemoryStore()
	service := NewService(store, testConfig())

	_, err := service.Register(context.Background(), RegisterInput{
		Email:    "user@example.com",
		Password: "StrongPass1!",
	})
	if err != nil {
		t.Fatalf("register returned error: %v", err)
	}

	user, err := service.Login(context.Background(), LoginInput{
		Email:    "user@example.com",
		Password: "StrongPass1!",
	})
	if err != nil {
		t.Fatalf("login returned error: %v", err)
	}
	if user.PasswordHash != "" {
		t.Fatalf("expected password hash stripped from login result")
	}
}

// --- fakes ---

type memoryStore struct {
	users map[string]User
}

func newMemoryStore() *memoryStore {
	return &memoryStore{users: make(map[string]User)}
}

func (m *memoryStore) CreateUser(_ context.Context, user User) (User, error) {
	if _, exists := m.users[user.Email]; exists {
		return User{}, ErrEmailAlreadyExists
	}
	m.users[user.Email] = user
	return user, nil
}

func (m *memoryStore) FindUserByEmail(_ context.Context, email string) (User, error) {
	user, ok := m.users[email]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return user, nil
}
