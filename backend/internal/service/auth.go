package service

import (
	"strings"
	"time"

	"github.com/bloodlink-dev/bloodlink/shared/domain"
	"github.com/bloodlink-dev/bloodlink/shared/errors"
	"github.com/bloodlink-dev/bloodlink/shared/logger"
	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	Register(user domain.User, password domain.Password) (domain.User, error)
	Login(creds domain.Credentials) (string, domain.User, error)
	Me(userId domain.UserId) (domain.User, error)
	ChangePassword(userId domain.UserId, oldPassword, newPassword domain.Password) error
}

type Auth struct {
	storage AuthStorage
	email   Email
	jwt     Jwt
	now     func() time.Time
}

type AuthStorage interface {
	SaveUser(user domain.User) (domain.UserId, error)
	UserByEmail(email domain.Email) (domain.User, error)
	User(id domain.UserId) (domain.User, error)
	UpdatePassword(id domain.UserId, passHash string) error
	LiftSuspension(id domain.UserId) error
}

type Jwt interface {
	NewToken(user domain.User) (string, error)
}

func NewAuth(storage AuthStorage, email Email, jwt Jwt) *Auth {
	return &Auth{
		storage: storage,
		email:   email,
		jwt:     jwt,
		now:     time.Now,
	}
}

// Register creates an account with one of the self-registrable roles.
func (a *Auth) Register(user domain.User, password domain.Password) (domain.User, error) {
	if !user.Role.SelfRegistrable() {
		return domain.User{}, errors.BadRequest("Role %q cannot be chosen at registration", user.Role)
	}
	return a.createUser(user, password)
}

// Provision creates admin and staff accounts. It is only reachable from the
// create-admin tool, never over HTTP.
func (a *Auth) Provision(user domain.User, password domain.Password) (domain.User, error) {
	if user.Role != domain.RoleAdmin && user.Role != domain.RoleStaff {
		return domain.User{}, errors.BadRequest("Only admin and staff accounts are provisioned, got %q", user.Role)
	}
	return a.createUser(user, password)
}

func (a *Auth) createUser(user domain.User, password domain.Password) (domain.User, error) {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	user.Name = strings.TrimSpace(user.Name)

	if err := a.email.IsCorrect(user.Email); err != nil {
		return domain.User{}, err
	}
	if user.EmergencyContact != "" && password == user.EmergencyContact {
		return domain.User{}, errors.BadRequest("Password must differ from the emergency contact")
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Error("failed to hash password", "error", err)
		return domain.User{}, err
	}
	user.PassHash = string(passHash)

	id, err := a.storage.SaveUser(user)
	if err != nil {
		return domain.User{}, err
	}
	logger.Log.Info("user created", "user_id", id, "role", user.Role)
	return a.storage.User(id)
}

// Login checks credentials and account status and returns an access token.
// An expired suspension is lifted here rather than rejected.
func (a *Auth) Login(creds domain.Credentials) (string, domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(creds.Email))

	if err := a.email.IsCorrect(email); err != nil {
		return "", domain.User{}, err
	}

	user, err := a.storage.UserByEmail(email)
	if err != nil {
		// to not leak existing users
		if errors.IsNotFound(err) {
			return "", domain.User{}, errors.Unauthorized("Invalid credentials")
		}
		return "", domain.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PassHash), []byte(creds.Password)); err != nil {
		logger.Log.Debug("password verification failed", "user_id", user.Id)
		return "", domain.User{}, errors.Unauthorized("Invalid credentials")
	}

	if user.IsBlocked {
		if user.BlockMessage != "" {
			return "", domain.User{}, errors.Forbidden("Account blocked: %s", user.BlockMessage)
		}
		return "", domain.User{}, errors.Forbidden("Account blocked")
	}
	if user.IsSuspended {
		if !user.SuspensionExpired(a.now()) {
			if user.SuspendedUntil != nil {
				return "", domain.User{}, errors.Forbidden("Account suspended until %s", user.SuspendedUntil.UTC().Format(time.RFC3339))
			}
			return "", domain.User{}, errors.Forbidden("Account suspended")
		}
		if err := a.storage.LiftSuspension(user.Id); err != nil {
			logger.Log.Error("failed to lift expired suspension", "user_id", user.Id, "error", err)
			return "", domain.User{}, err
		}
		user.AccountStatus = domain.AccountStatus{}
		logger.Log.Info("expired suspension lifted on login", "user_id", user.Id)
	}

	token, err := a.jwt.NewToken(user)
	if err != nil {
		logger.Log.Error("failed to create jwt token", "user_id", user.Id, "error", err)
		return "", domain.User{}, err
	}

	return token, user, nil
}

func (a *Auth) Me(userId domain.UserId) (domain.User, error) {
	return a.storage.User(userId)
}

func (a *Auth) ChangePassword(userId domain.UserId, oldPassword, newPassword domain.Password) error {
	user, err := a.storage.User(userId)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PassHash), []byte(oldPassword)); err != nil {
		return errors.Unauthorized("Current password is incorrect")
	}
	if user.EmergencyContact != "" && newPassword == user.EmergencyContact {
		return errors.BadRequest("Password must differ from the emergency contact")
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Error("failed to hash password", "error", err)
		return err
	}
	return a.storage.UpdatePassword(userId, string(passHash))
}
