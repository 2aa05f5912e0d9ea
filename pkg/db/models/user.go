package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/onix-commerce/onix-backend/pkg/enums"
)

// DefaultCountry is applied to new accounts that do not state one.
const DefaultCountry = "España"

// User represents the canonical identity entity.
type User struct {
	ID            uuid.UUID      `gorm:"column:id;type:uuid;primaryKey"`
	Email         string         `gorm:"column:email;type:varchar(120);not null;uniqueIndex"`
	PasswordHash  string         `gorm:"column:password_hash;not null"`
	FirstName     string         `gorm:"column:first_name;type:varchar(50);not null"`
	LastName      string         `gorm:"column:last_name;type:varchar(50);not null"`
	Phone         *string        `gorm:"column:phone;type:varchar(20)"`
	AvatarURL     *string        `gorm:"column:avatar_url;type:varchar(500)"`
	Role          enums.UserRole `gorm:"column:role;type:varchar(20);not null"`
	EmailVerified bool           `gorm:"column:email_verified;not null"`
	IsActive      bool           `gorm:"column:is_active;not null"`
	Address       *string        `gorm:"column:address"`
	City          *string        `gorm:"column:city;type:varchar(100)"`
	PostalCode    *string        `gorm:"column:postal_code;type:varchar(20)"`
	Country       string         `gorm:"column:country;type:varchar(100);not null"`
	LastLoginAt   *time.Time     `gorm:"column:last_login_at"`
	CreatedAt     time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

func (User) TableName() string { return "users" }

// BeforeCreate assigns identifiers and defaults the database would otherwise own.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if u.Role == "" {
		u.Role = enums.UserRoleCustomer
	}
	if u.Country == "" {
		u.Country = DefaultCountry
	}
	return nil
}

// FullName joins first and last name.
func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// IsAdmin reports whether the user carries the admin role.
func (u User) IsAdmin() bool {
	return u.Role == enums.UserRoleAdmin
}
