package service

import (
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/bloodlink-dev/bloodlink/shared/domain"
	internal_errors "github.com/bloodlink-dev/bloodlink/shared/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// --- Mocks ---

type MockAuthStorage struct {
	SaveUserFunc       func(user domain.User) (domain.UserId, error)
	UserByEmailFunc    func(email domain.Email) (domain.User, error)
	UserFunc           func(id domain.UserId) (domain.User, error)
	UpdatePasswordFunc func(id domain.UserId, passHash string) error
	LiftSuspensionFunc func(id domain.UserId) error
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func (m *MockAuthStorage) SaveUser(user domain.User) (domain.UserId, error) {
	if m.SaveUserFunc != nil {
		return m.SaveUserFunc(user)
	}
	return 1, nil
}

func (m *MockAuthStorage) UserByEmail(email domain.Email) (domain.User, error) {
	if m.UserByEmailFunc != nil {
		return m.UserByEmailFunc(email)
	}
	return domain.User{}, internal_errors.NotFound("User not found")
}

func (m *MockAuthStorage) User(id domain.UserId) (domain.User, error) {
	if m.UserFunc != nil {
		return m.UserFunc(id)
	}
	return domain.User{Id: id, Role: domain.RoleUser}, nil
}

func (m *MockAuthStorage) UpdatePassword(id domain.UserId, passHash string) error {
	if m.UpdatePasswordFunc != nil {
		return m.UpdatePasswordFunc(id, passHash)
	}
	return nil
}

func (m *MockAuthStorage) LiftSuspension(id domain.UserId) error {
	if m.LiftSuspensionFunc != nil {
		return m.LiftSuspensionFunc(id)
	}
	return nil
}

type MockEmail struct {
	SendFunc      func(recipientEmail, subject, body string) error
	IsCorrectFunc func(email domain.Email) error
}

func (m *MockEmail) Send(recipientEmail, subject, body string) error {
	if m.SendFunc != nil {
		return m.SendFunc(recipientEmail, subject, body)
	}
	return nil
}

func (m *MockEmail) IsCorrect(email domain.Email) error {
	if m.IsCorrectFunc != nil {
		return m.IsCorrectFunc(email)
	}
	if !strings.Contains(email, "@") {
		return internal_errors.BadRequest("invalid email format")
	}
	return nil
}

type MockJwt struct {
	NewTokenFunc func(user domain.User) (string, error)
}

func (m *MockJwt) NewToken(user domain.User) (string, error) {
	if m.NewTokenFunc != nil {
		return m.NewTokenFunc(user)
	}
	return "test_token", nil
}

// --- Tests ---

func TestRegister(t *testing.T) {
	newUser := func() domain.User {
		return domain.User{Name: " Asha ", Email: "Asha@Example.COM", Phone: "9876543210", Role: domain.RoleDonor, EmergencyContact: "9000000000"}
	}

	t.Run("Successful registration", func(t *testing.T) {
		storage := &MockAuthStorage{}
		var saved domain.User
		storage.SaveUserFunc = func(user domain.User) (domain.UserId, error) {
			saved = user
			return 7, nil
		}
		storage.UserFunc = func(id domain.UserId) (domain.User, error) {
			assert.Equal(t, domain.UserId(7), id)
			return domain.User{Id: id, Email: saved.Email, Role: saved.Role}, nil
		}
		service := NewAuth(storage, &MockEmail{}, &MockJwt{})

		user, err := service.Register(newUser(), "password123")
		require.NoError(t, err)
		assert.Equal(t, domain.UserId(7), user.Id)
		assert.Equal(t, "asha@example.com", saved.Email)
		assert.Equal(t, "Asha", saved.Name)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(saved.PassHash), []byte("password123")))
	})

	t.Run("Password equal to emergency contact", func(t *testing.T) {
		service := NewAuth(&MockAuthStorage{}, &MockEmail{}, &MockJwt{})
		_, err := service.Register(newUser(), "9000000000")
		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, internal_errors.StatusCode(err))
	})

	t.Run("Admin cannot self-register", func(t *testing.T) {
		storage := &MockAuthStorage{SaveUserFunc: func(user domain.User) (domain.UserId, error) {
			t.Fatal("SaveUser must not be called")
			return 0, nil
		}}
		service := NewAuth(storage, &MockEmail{}, &MockJwt{})
		u := newUser()
		u.Role = domain.RoleAdmin
		_, err := service.Register(u, "password123")
		assert.Equal(t, http.StatusBadRequest, internal_errors.StatusCode(err))
	})

	t.Run("Duplicate email", func(t *testing.T) {
		storage := &MockAuthStorage{SaveUserFunc: func(user domain.User) (domain.UserId, error) {
			return 0, internal_errors.Conflict("User with this email already exists")
		}}
		service := NewAuth(storage, &MockEmail{}, &MockJwt{})
		_, err := service.Register(newUser(), "password123")
		assert.True(t, internal_errors.IsConflict(err))
	})

	t.Run("Invalid email", func(t *testing.T) {
		service := NewAuth(&MockAuthStorage{}, &MockEmail{}, &MockJwt{})
		u := newUser()
		u.Email = "not-an-email"
		_, err := service.Register(u, "password123")
		assert.Equal(t, http.StatusBadRequest, internal_errors.StatusCode(err))
	})
}

func TestProvision(t *testing.T) {
	t.Run("Staff account", func(t *testing.T) {
		var saved domain.User
		storage := &MockAuthStorage{SaveUserFunc: func(user domain.User) (domain.UserId, error) {
			saved = user
			return 2, nil
		}}
		service := NewAuth(storage, &MockEmail{}, &MockJwt{})

		_, err := service.Provision(domain.User{Name: "Desk", Email: "Desk@BloodLink.test", Role: domain.RoleStaff}, "password123")

		require.NoError(t, err)
		assert.Equal(t, domain.RoleStaff, saved.Role)
		assert.Equal(t, "desk@bloodlink.test", saved.Email)
	})

	t.Run("Donor is not provisioned", func(t *testing.T) {
		service := NewAuth(&MockAuthStorage{}, &MockEmail{}, &MockJwt{})
		_, err := service.Provision(domain.User{Email: "d@bloodlink.test", Role: domain.RoleDonor}, "password123")
		assert.Equal(t, http.StatusBadRequest, internal_errors.StatusCode(err))
	})
}

func TestLogin(t *testing.T) {
	creds := domain.Credentials{Email: "Donor@Example.com", Password: "password123"}

	t.Run("Successful login", func(t *testing.T) {
		storage := &MockAuthStorage{UserByEmailFunc: func(email domain.Email) (domain.User, error) {
			assert.Equal(t, "donor@example.com", email)
			return domain.User{Id: 3, PassHash: hashPassword(t, "password123"), Role: domain.RoleDonor}, nil
		}}
		service := NewAuth(storage, &MockEmail{}, &MockJwt{})

		token, user, err := service.Login(creds)
		require.NoError(t, err)
		assert.Equal(t, "test_token", token)
		assert.Equal(t, domain.UserId(3), user.Id)
	})

	t.Run("Unknown user", func(t *testing.T) {
		service := NewAuth(&MockAuthStorage{}, &MockEmail{}, &MockJwt{})
		_, _, err := service.Login(creds)
		assert.Equal(t, http.StatusUnauthorized, internal_errors.StatusCode(err))
	})

	t.Run("Wrong password", func(t *testing.T) {
		storage := &MockAuthStorage{UserByEmailFunc: func(email domain.Email) (domain.User, error) {
			return domain.User{Id: 3, PassHash: hashPassword(t, "other")}, nil
		}}
		service := NewAuth(storage, &MockEmail{}, &MockJwt{})
		_, _, err := service.Login(creds)
		assert.Equal(t, http.StatusUnauthorized, internal_errors.StatusCode(err))
	})

	t.Run("Blocked user", func(t *testing.T) {
		storage := &MockAuthStorage{UserByEmailFunc: func(email domain.Email) (domain.User, error) {
			u := domain.User{Id: 3, PassHash: hashPassword(t, "password123")}
			u.IsBlocked = true
			u.BlockMessage = "spam"
			return u, nil
		}}
		service := NewAuth(storage, &MockEmail{}, &MockJwt{})
		_, _, err := service.Login(creds)
		assert.Equal(t, http.StatusForbidden, internal_errors.StatusCode(err))
		assert.Contains(t, err.Error(), "spam")
	})

	t.Run("Active suspension", func(t *testing.T) {
		until := time.Now().Add(time.Hour)
		storage := &MockAuthStorage{UserByEmailFunc: func(email domain.Email) (domain.User, error) {
			u := domain.User{Id: 3, PassHash: hashPassword(t, "password123")}
			u.IsSuspended = true
			u.SuspendedUntil = &until
			return u, nil
		}}
		service := NewAuth(storage, &MockEmail{}, &MockJwt{})
		_, _, err := service.Login(creds)
		assert.Equal(t, http.StatusForbidden, internal_errors.StatusCode(err))
	})

	t.Run("Expired suspension is lifted", func(t *testing.T) {
		until := time.Now().Add(-time.Hour)
		lifted := false
		storage := &MockAuthStorage{
			UserByEmailFunc: func(email domain.Email) (domain.User, error) {
				u := domain.User{Id: 3, PassHash: hashPassword(t, "password123")}
				u.IsSuspended = true
				u.SuspendedUntil = &until
				return u, nil
			},
			LiftSuspensionFunc: func(id domain.UserId) error {
				lifted = true
				assert.Equal(t, domain.UserId(3), id)
				return nil
			},
		}
		service := NewAuth(storage, &MockEmail{}, &MockJwt{})
		token, user, err := service.Login(creds)
		require.NoError(t, err)
		assert.True(t, lifted)
		assert.NotEmpty(t, token)
		assert.False(t, user.IsSuspended)
	})

	t.Run("Jwt error", func(t *testing.T) {
		mockErr := errors.New("signing failed")
		storage := &MockAuthStorage{UserByEmailFunc: func(email domain.Email) (domain.User, error) {
			return domain.User{Id: 3, PassHash: hashPassword(t, "password123")}, nil
		}}
		service := NewAuth(storage, &MockEmail{}, &MockJwt{NewTokenFunc: func(user domain.User) (string, error) {
			return "", mockErr
		}})
		_, _, err := service.Login(creds)
		assert.ErrorIs(t, err, mockErr)
	})
}

func TestChangePassword(t *testing.T) {
	storage := &MockAuthStorage{UserFunc: func(id domain.UserId) (domain.User, error) {
		return domain.User{Id: id, PassHash: hashPassword(t, "old-password"), EmergencyContact: "9000000000"}, nil
	}}

	t.Run("Success", func(t *testing.T) {
		var newHash string
		storage.UpdatePasswordFunc = func(id domain.UserId, passHash string) error {
			newHash = passHash
			return nil
		}
		defer func() { storage.UpdatePasswordFunc = nil }()

		service := NewAuth(storage, &MockEmail{}, &MockJwt{})
		require.NoError(t, service.ChangePassword(1, "old-password", "new-password"))
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(newHash), []byte("new-password")))
	})

	t.Run("Wrong old password", func(t *testing.T) {
		service := NewAuth(storage, &MockEmail{}, &MockJwt{})
		err := service.ChangePassword(1, "nope", "new-password")
		assert.Equal(t, http.StatusUnauthorized, internal_errors.StatusCode(err))
	})

	t.Run("New password equals emergency contact", func(t *testing.T) {
		service := NewAuth(storage, &MockEmail{}, &MockJwt{})
		err := service.ChangePassword(1, "old-password", "9000000000")
		assert.Equal(t, http.StatusBadRequest, internal_errors.StatusCode(err))
	})
}
