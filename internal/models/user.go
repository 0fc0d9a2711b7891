package models

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserRole string

const (
	UserRoleGuest UserRole = "guest"
	UserRoleAdmin UserRole = "admin"
)

// User is an optional registered account. The guest rental flow never
// requires one; admins use accounts for the ops API.
type User struct {
	ID           string   `json:"id" gorm:"type:uuid;primaryKey"`
	Email        string   `json:"email" gorm:"unique;not null"`
	FullName     string   `json:"full_name"`
	Password     string   `json:"-" gorm:"-:migration;-"`
	PasswordHash string   `json:"-" gorm:"column:password_hash"`
	Role         UserRole `json:"role" gorm:"not null;default:'guest'"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

func (u *User) HashPassword() error {
	if u.Password == "" {
		return nil
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}
