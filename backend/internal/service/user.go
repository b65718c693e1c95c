package service

import (
	"io"
	"time"

	"github.com/bloodlink-dev/bloodlink/backend/internal/service/utils"
	"github.com/bloodlink-dev/bloodlink/backend/internal/utils/email"
	"github.com/bloodlink-dev/bloodlink/shared/domain"
	"github.com/bloodlink-dev/bloodlink/shared/errors"
	"github.com/bloodlink-dev/bloodlink/shared/logger"
)

// maxDecodedAvatarSize bounds width*height*4 of an uploaded avatar.
const maxDecodedAvatarSize = 64 << 20

type UserService interface {
	UpdateProfile(userId domain.UserId, upd domain.UserProfileUpdate) (domain.User, error)
	SetAvatar(userId domain.UserId, pending *domain.PendingImage) (domain.User, error)
	Avatar(userId domain.UserId) (io.ReadSeekCloser, string, error)
	Get(userId domain.UserId) (domain.User, error)
	List(filter domain.UserFilter, page domain.Page) ([]domain.User, int, error)
	Block(adminId, userId domain.UserId, message string) error
	Unblock(adminId, userId domain.UserId) error
	Suspend(adminId, userId domain.UserId, until *time.Time, message string) error
	Unsuspend(adminId, userId domain.UserId) error
}

type UserStorage interface {
	User(id domain.UserId) (domain.User, error)
	UpdateProfile(id domain.UserId, upd domain.UserProfileUpdate) (domain.User, error)
	SetProfileImage(id domain.UserId, path string) error
	ListUsers(f domain.UserFilter, page domain.Page) ([]domain.User, int, error)
	BlockUser(id domain.UserId, message string) error
	UnblockUser(id domain.UserId) error
	SuspendUser(id domain.UserId, until *time.Time, message string) error
	LiftSuspension(id domain.UserId) error
}

// AccountCache is refreshed right after an administrative status change so
// the auth middleware sees it on the next request.
type AccountCache interface {
	Update() error
}

type Users struct {
	storage  UserStorage
	media    MediaStorage
	accounts AccountCache
	notifier *Notifier
	now      func() time.Time
}

func NewUsers(storage UserStorage, media MediaStorage, accounts AccountCache, notifier *Notifier) *Users {
	return &Users{
		storage:  storage,
		media:    media,
		accounts: accounts,
		notifier: notifier,
		now:      time.Now,
	}
}

func (s *Users) UpdateProfile(userId domain.UserId, upd domain.UserProfileUpdate) (domain.User, error) {
	if upd.Name != nil {
		name := utils.SanitizeText(*upd.Name)
		if name == "" {
			return domain.User{}, errors.BadRequest("Name cannot be empty")
		}
		upd.Name = &name
	}
	return s.storage.UpdateProfile(userId, upd)
}

// SetAvatar re-encodes the upload, stores it and replaces the previous image.
func (s *Users) SetAvatar(userId domain.UserId, pending *domain.PendingImage) (domain.User, error) {
	user, err := s.storage.User(userId)
	if err != nil {
		return domain.User{}, err
	}

	img, err := utils.SanitizeImage(pending, maxDecodedAvatarSize)
	if err != nil {
		logger.Log.Warn("avatar rejected", "user_id", userId, "error", err)
		return domain.User{}, errors.BadRequest("Invalid image: %s", err.Error())
	}

	path, err := s.media.SaveAvatar(img.Data, userId, img.Extension)
	if err != nil {
		return domain.User{}, err
	}
	if err := s.storage.SetProfileImage(userId, path); err != nil {
		if delErr := s.media.DeleteFile(path); delErr != nil {
			logger.Log.Error("failed to clean up avatar", "path", path, "error", delErr)
		}
		return domain.User{}, err
	}

	if user.ProfileImage != "" {
		if err := s.media.DeleteFile(user.ProfileImage); err != nil {
			logger.Log.Warn("failed to delete previous avatar", "path", user.ProfileImage, "error", err)
		}
	}
	user.ProfileImage = path
	return user, nil
}

// Avatar opens the stored profile image. The returned name carries the
// extension so callers can pick a content type.
func (s *Users) Avatar(userId domain.UserId) (io.ReadSeekCloser, string, error) {
	user, err := s.storage.User(userId)
	if err != nil {
		return nil, "", err
	}
	if user.ProfileImage == "" {
		return nil, "", errors.NotFound("User has no profile image")
	}
	f, err := s.media.Read(user.ProfileImage)
	if err != nil {
		return nil, "", err
	}
	return f, user.ProfileImage, nil
}

func (s *Users) Get(userId domain.UserId) (domain.User, error) {
	return s.storage.User(userId)
}

func (s *Users) List(filter domain.UserFilter, page domain.Page) ([]domain.User, int, error) {
	if filter.Role != "" && !filter.Role.Valid() {
		return nil, 0, errors.BadRequest("Invalid role %q", filter.Role)
	}
	return s.storage.ListUsers(filter, page)
}

func (s *Users) Block(adminId, userId domain.UserId, message string) error {
	if err := s.notSelf(adminId, userId); err != nil {
		return err
	}
	if err := s.storage.BlockUser(userId, utils.SanitizeText(message)); err != nil {
		return err
	}
	s.statusChanged(userId, "blocked", message)
	return nil
}

func (s *Users) Unblock(adminId, userId domain.UserId) error {
	if err := s.notSelf(adminId, userId); err != nil {
		return err
	}
	if err := s.storage.UnblockUser(userId); err != nil {
		return err
	}
	s.statusChanged(userId, "unblocked", "")
	return nil
}

// Suspend with a nil until suspends indefinitely.
func (s *Users) Suspend(adminId, userId domain.UserId, until *time.Time, message string) error {
	if err := s.notSelf(adminId, userId); err != nil {
		return err
	}
	if until != nil && !until.After(s.now()) {
		return errors.BadRequest("Suspension end must be in the future")
	}
	if err := s.storage.SuspendUser(userId, until, utils.SanitizeText(message)); err != nil {
		return err
	}
	s.statusChanged(userId, "suspended", message)
	return nil
}

func (s *Users) Unsuspend(adminId, userId domain.UserId) error {
	if err := s.notSelf(adminId, userId); err != nil {
		return err
	}
	if err := s.storage.LiftSuspension(userId); err != nil {
		return err
	}
	s.statusChanged(userId, "reinstated", "")
	return nil
}

func (s *Users) notSelf(adminId, userId domain.UserId) error {
	if adminId == userId {
		return errors.BadRequest("You cannot change your own account status")
	}
	return nil
}

func (s *Users) statusChanged(userId domain.UserId, action, reason string) {
	if err := s.accounts.Update(); err != nil {
		// the background refresh picks the change up later
		logger.Log.Warn("account status changed but cache update failed",
			"user_id", userId,
			"action", action,
			"error", err)
	}
	logger.Log.Info("account status changed", "user_id", userId, "action", action)

	user, err := s.storage.User(userId)
	if err != nil {
		logger.Log.Error("failed to load user for status notification", "user_id", userId, "error", err)
		return
	}
	msg := email.AccountStatusMessage(user.Name, action, reason)
	s.notifier.Notify(userId, domain.NotificationAccount, msg.Subject, "Your account has been "+action+".", "")
	s.notifier.Mail(user.Email, msg)
}
