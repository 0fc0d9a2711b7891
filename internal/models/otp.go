package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OTPExpiration is how long an issued code stays valid.
const OTPExpiration = 10 * time.Minute

// OTPCode is an ephemeral verification record scoped to a guest email.
// Guests check out without an account, so codes are keyed by
// case-normalized email rather than a user id.
type OTPCode struct {
	ID        string    `json:"id" gorm:"type:uuid;primaryKey"`
	Email     string    `json:"email" gorm:"not null;index"`
	Code      string    `json:"code" gorm:"not null"`
	ExpiresAt time.Time `json:"expires_at" gorm:"not null"`
	Used      bool      `json:"used" gorm:"default:false"`
	CreatedAt time.Time `json:"created_at"`
}

func (OTPCode) TableName() string {
	return "otp_codes"
}

func (o *OTPCode) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

// IsValid checks if the code can still be redeemed (not expired and not used).
func (o *OTPCode) IsValid(now time.Time) bool {
	return !o.Used && now.Before(o.ExpiresAt)
}

// Matches checks the record against a submitted email/code pair.
// Email comparison is case-insensitive; the code must match exactly.
func (o *OTPCode) Matches(email, code string) bool {
	return strings.EqualFold(o.Email, email) && o.Code == code
}

// MarkAsUsed marks the code as redeemed so it cannot be replayed.
func (o *OTPCode) MarkAsUsed(db *gorm.DB) error {
	o.Used = true
	return db.Model(&OTPCode{}).Where("id = ?", o.ID).Update("used", true).Error
}

// NormalizeEmail lower-cases an email for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
