package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
)

type DepositStatus string

const (
	DepositStatusPending  DepositStatus = "pending"
	DepositStatusReleased DepositStatus = "released"
)

// Metadata keys for derived booking fields that are not promoted to columns.
const (
	MetaAccessToken    = "access_token"
	MetaTokenCreatedAt = "token_created_at"
)

// ExitPhotoPrefix tags exit-inspection photos in the shared photo sequence.
// Entry and exit photos live in the same ordered array; provenance is
// distinguished by this filename marker.
const ExitPhotoPrefix = "exit-"

var (
	ErrNoGuestEmail       = errors.New("guest email not found for this booking")
	ErrInvalidToken       = errors.New("invalid access token")
	ErrIncompletePhotoSet = errors.New("all 4 exit photos are required")
)

// StringArray stores an ordered list of strings as a JSONB column.
type StringArray []string

func (a StringArray) Value() (driver.Value, error) {
	if a == nil {
		return "[]", nil
	}
	b, err := json.Marshal(a)
	return string(b), err
}

func (a *StringArray) Scan(value interface{}) error {
	if value == nil {
		*a = StringArray{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, a)
	case string:
		return json.Unmarshal([]byte(v), a)
	default:
		return fmt.Errorf("unsupported type for StringArray: %T", value)
	}
}

// JSONMap is a free-form key/value extension bag stored as JSONB.
type JSONMap map[string]interface{}

func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	b, err := json.Marshal(m)
	return string(b), err
}

func (m *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*m = JSONMap{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return fmt.Errorf("unsupported type for JSONMap: %T", value)
	}
}

// Booking represents one rental contract. Guests book without an account, so
// UserID may be null. Monetary values are exact to two decimal places and
// satisfy total_price == round2(subtotal + tax_amount + security_deposit).
type Booking struct {
	ID     string  `json:"id" gorm:"type:uuid;primaryKey"`
	CarID  string  `json:"car_id" gorm:"type:uuid;not null"`
	Car    *Car    `json:"cars,omitempty" gorm:"foreignKey:CarID"`
	UserID *string `json:"user_id" gorm:"type:uuid"`

	StartTime time.Time  `json:"start_time" gorm:"not null"`
	EndTime   *time.Time `json:"end_time"`

	Subtotal        float64 `json:"subtotal" gorm:"type:numeric(10,2);not null"`
	TaxAmount       float64 `json:"tax_amount" gorm:"type:numeric(10,2);not null"`
	TotalPrice      float64 `json:"total_price" gorm:"type:numeric(10,2);not null"`
	SecurityDeposit float64 `json:"security_deposit" gorm:"type:numeric(10,2);not null"`

	PaymentStatus PaymentStatus `json:"payment_status" gorm:"not null;default:'pending'"`
	DepositStatus DepositStatus `json:"deposit_status" gorm:"not null;default:'pending'"`

	GuestName            string  `json:"guest_name"`
	GuestEmail           string  `json:"guest_email"`
	GuestPhone           string  `json:"guest_phone"`
	GuestAddress         string  `json:"guest_address"`
	GuestLicenseNumber   string  `json:"guest_license_number"`
	GuestLicenseImageURL *string `json:"guest_license_image_url"`

	StripePaymentIntentID string `json:"stripe_payment_intent_id"`

	PhotosURLs StringArray `json:"photos_urls" gorm:"type:jsonb;default:'[]'"`
	Metadata   JSONMap     `json:"metadata" gorm:"type:jsonb;default:'{}'"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Booking) TableName() string {
	return "bookings"
}

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

// AccessToken returns the current access token from metadata, if any.
func (b *Booking) AccessToken() string {
	if b.Metadata == nil {
		return ""
	}
	token, _ := b.Metadata[MetaAccessToken].(string)
	return token
}

// SetAccessToken overwrites the access token and its issuance timestamp.
// Any previous token becomes permanently invalid.
func (b *Booking) SetAccessToken(token string, issuedAt time.Time) {
	if b.Metadata == nil {
		b.Metadata = JSONMap{}
	}
	b.Metadata[MetaAccessToken] = token
	b.Metadata[MetaTokenCreatedAt] = issuedAt.UTC().Format(time.RFC3339)
}

// ValidateAccessToken authorizes link-based access to the booking.
// No token supplied means the caller sees the booking without the valid flag.
// A supplied token must match the stored one byte-for-byte.
func (b *Booking) ValidateAccessToken(token string) (tokenValid bool, err error) {
	if token == "" {
		return false, nil
	}
	stored := b.AccessToken()
	if stored == "" || stored != token {
		return false, ErrInvalidToken
	}
	return true, nil
}

// HasLicenseImage reports whether a license photo is on file, which is the
// unlock gate's notion of "license verified".
func (b *Booking) HasLicenseImage() bool {
	return b.GuestLicenseImageURL != nil && *b.GuestLicenseImageURL != ""
}

// AppendExitPhotos appends exactly four exit-inspection photo URLs to the
// photo history. Entry photos already present are never truncated.
func (b *Booking) AppendExitPhotos(exitPhotos []string) error {
	if len(exitPhotos) != 4 {
		return ErrIncompletePhotoSet
	}
	b.PhotosURLs = append(b.PhotosURLs, exitPhotos...)
	return nil
}

// ExitPhotos returns the subset of the photo history tagged as exit photos.
func (b *Booking) ExitPhotos() []string {
	var exit []string
	for _, url := range b.PhotosURLs {
		if IsExitPhoto(url) {
			exit = append(exit, url)
		}
	}
	return exit
}

// IsExitPhoto reports whether a stored photo URL came from the exit
// inspection, by the exit- filename marker.
func IsExitPhoto(url string) bool {
	base := url
	if idx := strings.LastIndex(url, "/"); idx >= 0 {
		base = url[idx+1:]
	}
	return strings.HasPrefix(base, ExitPhotoPrefix)
}
