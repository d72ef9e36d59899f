package entity

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	UserRoleGuest UserRole = "GUEST"
	UserRoleUser  UserRole = "USER"
	UserRoleAdmin UserRole = "ADMIN"
)

type User struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	FirstName string    `gorm:"type:varchar(50);not null"`
	LastName  string    `gorm:"type:varchar(50);not null"`
	Email     string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	Role      UserRole  `gorm:"type:varchar(10);default:'GUEST';not null"`

	CountryCode *string `gorm:"type:varchar(8)"`
	PhoneNumber *string `gorm:"type:varchar(20);index"`

	PasswordHash      string `gorm:"type:text;not null"`
	PasswordChangedAt *time.Time

	PasswordResetTokenHash *string `gorm:"type:text;index"`
	PasswordResetExpiresAt *time.Time

	LastOTPCode    *string `gorm:"type:varchar(6)"`
	LastOTPSession *string `gorm:"type:text"`

	IsActive bool `gorm:"default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// PasswordChangedAfter reports whether the password was changed after the
// given token issue time. Comparison is at second precision because JWT iat
// claims carry no sub-second component.
func (u *User) PasswordChangedAfter(issuedAt time.Time) bool {
	if u.PasswordChangedAt == nil {
		return false
	}
	return issuedAt.Unix() < u.PasswordChangedAt.Unix()
}
