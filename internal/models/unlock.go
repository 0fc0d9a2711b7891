package models

import (
	"errors"
	"time"
)

// UnlockState is the session-level state of the vehicle unlock gate.
type UnlockState string

const (
	UnlockStateLocked    UnlockState = "locked"
	UnlockStateUnlocking UnlockState = "unlocking"
	UnlockStateUnlocked  UnlockState = "unlocked"
	UnlockStateFailed    UnlockState = "unlock_failed"
)

// SlotState is the per-photo-slot upload state.
type SlotState string

const (
	SlotStateEmpty        SlotState = "empty"
	SlotStateUploading    SlotState = "uploading"
	SlotStateUploaded     SlotState = "uploaded"
	SlotStateUploadFailed SlotState = "upload_failed"
)

// PhotoSide identifies one of the four required inspection angles.
type PhotoSide string

const (
	SideFront PhotoSide = "front"
	SideBack  PhotoSide = "back"
	SideLeft  PhotoSide = "left"
	SideRight PhotoSide = "right"
)

// PhotoSides lists the four required sides in display order.
var PhotoSides = []PhotoSide{SideFront, SideBack, SideLeft, SideRight}

var (
	ErrLicenseMissing   = errors.New("license photo is required before unlocking")
	ErrPhotosIncomplete = errors.New("all 4 photos are required before unlocking")
	ErrUnlockInProgress = errors.New("unlock already in progress")
	ErrAlreadyUnlocked  = errors.New("vehicle already unlocked")
	ErrInvalidSide      = errors.New("invalid side, must be: front, back, left, or right")
)

// ValidSide reports whether s names one of the four inspection angles.
func ValidSide(s string) bool {
	switch PhotoSide(s) {
	case SideFront, SideBack, SideLeft, SideRight:
		return true
	}
	return false
}

// PhotoSlot tracks one inspection photo through its upload lifecycle.
type PhotoSlot struct {
	State     SlotState `json:"state"`
	URL       string    `json:"url,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UnlockSession is the server-side record of one guest's unlock attempt.
// The unlock action is enabled only once the license photo is on file and
// all four exterior photos are uploaded and confirmed.
type UnlockSession struct {
	BookingID       string                   `json:"booking_id"`
	LicenseVerified bool                     `json:"license_verified"`
	Slots           map[PhotoSide]*PhotoSlot `json:"slots"`
	State           UnlockState              `json:"state"`
	FailureReason   string                   `json:"failure_reason,omitempty"`
	UpdatedAt       time.Time                `json:"updated_at"`
}

// NewUnlockSession starts a locked session with all slots empty.
func NewUnlockSession(bookingID string) *UnlockSession {
	slots := make(map[PhotoSide]*PhotoSlot, len(PhotoSides))
	for _, side := range PhotoSides {
		slots[side] = &PhotoSlot{State: SlotStateEmpty}
	}
	return &UnlockSession{
		BookingID: bookingID,
		Slots:     slots,
		State:     UnlockStateLocked,
		UpdatedAt: time.Now().UTC(),
	}
}

func (s *UnlockSession) slot(side PhotoSide) *PhotoSlot {
	if s.Slots == nil {
		s.Slots = make(map[PhotoSide]*PhotoSlot, len(PhotoSides))
	}
	slot, ok := s.Slots[side]
	if !ok {
		slot = &PhotoSlot{State: SlotStateEmpty}
		s.Slots[side] = slot
	}
	return slot
}

func (s *UnlockSession) touch() {
	s.UpdatedAt = time.Now().UTC()
}

// StartUpload moves a slot to uploading. A retry after a failed upload
// starts from a clean slate; there is no automatic retry.
func (s *UnlockSession) StartUpload(side PhotoSide) error {
	if !ValidSide(string(side)) {
		return ErrInvalidSide
	}
	slot := s.slot(side)
	slot.State = SlotStateUploading
	slot.URL = ""
	slot.UpdatedAt = time.Now().UTC()
	s.touch()
	return nil
}

// FinishUpload confirms a slot's photo with its stored URL.
func (s *UnlockSession) FinishUpload(side PhotoSide, url string) error {
	if !ValidSide(string(side)) {
		return ErrInvalidSide
	}
	slot := s.slot(side)
	slot.State = SlotStateUploaded
	slot.URL = url
	slot.UpdatedAt = time.Now().UTC()
	s.touch()
	return nil
}

// FailUpload marks a slot's upload as failed. The slot returns to empty
// when the guest retries via StartUpload.
func (s *UnlockSession) FailUpload(side PhotoSide) error {
	if !ValidSide(string(side)) {
		return ErrInvalidSide
	}
	slot := s.slot(side)
	slot.State = SlotStateUploadFailed
	slot.URL = ""
	slot.UpdatedAt = time.Now().UTC()
	s.touch()
	return nil
}

// ClearSlot removes a captured photo so the guest can recapture it.
func (s *UnlockSession) ClearSlot(side PhotoSide) error {
	if !ValidSide(string(side)) {
		return ErrInvalidSide
	}
	slot := s.slot(side)
	slot.State = SlotStateEmpty
	slot.URL = ""
	slot.UpdatedAt = time.Now().UTC()
	s.touch()
	return nil
}

// AllPhotosUploaded reports whether all four slots are confirmed.
func (s *UnlockSession) AllPhotosUploaded() bool {
	for _, side := range PhotoSides {
		if s.slot(side).State != SlotStateUploaded {
			return false
		}
	}
	return true
}

// CanUnlock reports whether the unlock action is enabled: license on file
// AND all four photos uploaded.
func (s *UnlockSession) CanUnlock() bool {
	return s.LicenseVerified && s.AllPhotosUploaded()
}

// GuardError returns the reason unlocking is currently rejected, or nil.
// License is checked before photos, matching the guest-facing flow.
func (s *UnlockSession) GuardError() error {
	if !s.LicenseVerified {
		return ErrLicenseMissing
	}
	if !s.AllPhotosUploaded() {
		return ErrPhotosIncomplete
	}
	return nil
}

// BeginUnlock transitions the session to unlocking. Prerequisite failures
// are rejected synchronously with no state change. A failed unlock may be
// retried; an unlock already underway or completed may not.
func (s *UnlockSession) BeginUnlock() error {
	switch s.State {
	case UnlockStateUnlocking:
		return ErrUnlockInProgress
	case UnlockStateUnlocked:
		return ErrAlreadyUnlocked
	}
	if err := s.GuardError(); err != nil {
		return err
	}
	s.State = UnlockStateUnlocking
	s.FailureReason = ""
	s.touch()
	return nil
}

// CompleteUnlock marks the vehicle unlocked. Unlock is authoritative over
// any follow-up notification: nothing reverts this state.
func (s *UnlockSession) CompleteUnlock() {
	s.State = UnlockStateUnlocked
	s.FailureReason = ""
	s.touch()
}

// FailUnlock records a failed unlock attempt with its reason.
func (s *UnlockSession) FailUnlock(reason string) {
	s.State = UnlockStateFailed
	s.FailureReason = reason
	s.touch()
}
