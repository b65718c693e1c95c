package domain

import (
	"io"
	"time"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleDonor     Role = "donor"
	RoleBloodBank Role = "bloodbank"
	RoleAdmin     Role = "admin"
	RoleStaff     Role = "staff"
)

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleDonor, RoleBloodBank, RoleAdmin, RoleStaff:
		return true
	}
	return false
}

// SelfRegistrable reports whether a role may be chosen at sign-up.
func (r Role) SelfRegistrable() bool {
	return r == RoleUser || r == RoleDonor || r == RoleBloodBank
}

func (r Role) IsAdmin() bool { return r == RoleAdmin }

// AccountStatus holds the block/suspend flags shared by users and blood banks.
type AccountStatus struct {
	IsBlocked      bool
	BlockMessage   string
	IsSuspended    bool
	SuspendedUntil *time.Time // nil means suspended until lifted manually
	SuspendMessage string
}

// SuspensionExpired is true for a suspension whose end date is in the past.
func (s AccountStatus) SuspensionExpired(now time.Time) bool {
	return s.IsSuspended && s.SuspendedUntil != nil && !now.Before(*s.SuspendedUntil)
}

// Restricted reports whether the account is currently not allowed to act.
func (s AccountStatus) Restricted(now time.Time) bool {
	return s.IsBlocked || (s.IsSuspended && !s.SuspensionExpired(now))
}

type User struct {
	Id               UserId
	Name             string
	Email            Email
	PassHash         string
	Phone            string
	EmergencyContact string
	Role             Role
	ProfileImage     string
	AccountStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Credentials struct {
	Email    Email
	Password Password
}

// UserProfileUpdate carries optional profile fields; nil means unchanged.
type UserProfileUpdate struct {
	Name             *string
	Phone            *string
	EmergencyContact *string
}

type UserFilter struct {
	Role Role
}

// PendingImage is a validated upload that has not been written to disk yet.
type PendingImage struct {
	Filename  string
	Extension string
	MimeType  string
	SizeBytes int64
	Width     int
	Height    int
	Data      io.ReadSeekCloser
}
