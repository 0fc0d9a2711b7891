package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uploadedSession(t *testing.T, license bool, sides ...PhotoSide) *UnlockSession {
	t.Helper()
	s := NewUnlockSession("booking-1")
	s.LicenseVerified = license
	for _, side := range sides {
		require.NoError(t, s.StartUpload(side))
		require.NoError(t, s.FinishUpload(side, "https://cdn.example.com/"+string(side)+".jpg"))
	}
	return s
}

func TestNewUnlockSessionStartsLocked(t *testing.T) {
	s := NewUnlockSession("booking-1")

	assert.Equal(t, UnlockStateLocked, s.State)
	assert.False(t, s.LicenseVerified)
	assert.Len(t, s.Slots, 4)
	for _, side := range PhotoSides {
		assert.Equal(t, SlotStateEmpty, s.Slots[side].State)
	}
	assert.False(t, s.CanUnlock())
}

func TestCanUnlockRequiresLicenseAndAllPhotos(t *testing.T) {
	// Neither prerequisite
	assert.False(t, uploadedSession(t, false).CanUnlock())

	// License only
	assert.False(t, uploadedSession(t, true).CanUnlock())

	// Photos only
	assert.False(t, uploadedSession(t, false, PhotoSides...).CanUnlock())

	// Three of four photos
	assert.False(t, uploadedSession(t, true, SideFront, SideBack, SideLeft).CanUnlock())

	// Everything
	assert.True(t, uploadedSession(t, true, PhotoSides...).CanUnlock())
}

func TestGuardErrorChecksLicenseBeforePhotos(t *testing.T) {
	s := uploadedSession(t, false)
	assert.ErrorIs(t, s.GuardError(), ErrLicenseMissing)

	s.LicenseVerified = true
	assert.ErrorIs(t, s.GuardError(), ErrPhotosIncomplete)

	s = uploadedSession(t, true, PhotoSides...)
	assert.NoError(t, s.GuardError())
}

func TestSlotLifecycle(t *testing.T) {
	s := NewUnlockSession("booking-1")

	require.NoError(t, s.StartUpload(SideFront))
	assert.Equal(t, SlotStateUploading, s.Slots[SideFront].State)

	require.NoError(t, s.FailUpload(SideFront))
	assert.Equal(t, SlotStateUploadFailed, s.Slots[SideFront].State)
	assert.Empty(t, s.Slots[SideFront].URL)

	// Retry after failure starts clean
	require.NoError(t, s.StartUpload(SideFront))
	require.NoError(t, s.FinishUpload(SideFront, "https://cdn.example.com/front.jpg"))
	assert.Equal(t, SlotStateUploaded, s.Slots[SideFront].State)
	assert.Equal(t, "https://cdn.example.com/front.jpg", s.Slots[SideFront].URL)

	require.NoError(t, s.ClearSlot(SideFront))
	assert.Equal(t, SlotStateEmpty, s.Slots[SideFront].State)
	assert.Empty(t, s.Slots[SideFront].URL)
}

func TestSlotRejectsInvalidSide(t *testing.T) {
	s := NewUnlockSession("booking-1")

	assert.ErrorIs(t, s.StartUpload("top"), ErrInvalidSide)
	assert.ErrorIs(t, s.FinishUpload("top", "url"), ErrInvalidSide)
	assert.ErrorIs(t, s.FailUpload("top"), ErrInvalidSide)
	assert.ErrorIs(t, s.ClearSlot("top"), ErrInvalidSide)
}

func TestBeginUnlockGuardsPrerequisites(t *testing.T) {
	s := uploadedSession(t, false, PhotoSides...)

	err := s.BeginUnlock()
	assert.ErrorIs(t, err, ErrLicenseMissing)
	assert.Equal(t, UnlockStateLocked, s.State, "rejected guard must not transition")
}

func TestUnlockTransitions(t *testing.T) {
	s := uploadedSession(t, true, PhotoSides...)

	require.NoError(t, s.BeginUnlock())
	assert.Equal(t, UnlockStateUnlocking, s.State)

	// A second attempt while in flight is rejected
	assert.ErrorIs(t, s.BeginUnlock(), ErrUnlockInProgress)

	s.CompleteUnlock()
	assert.Equal(t, UnlockStateUnlocked, s.State)

	// Unlocked is terminal
	assert.ErrorIs(t, s.BeginUnlock(), ErrAlreadyUnlocked)
}

func TestFailedUnlockIsRetryable(t *testing.T) {
	s := uploadedSession(t, true, PhotoSides...)

	require.NoError(t, s.BeginUnlock())
	s.FailUnlock("vehicle control API error: HTTP 502")

	assert.Equal(t, UnlockStateFailed, s.State)
	assert.Equal(t, "vehicle control API error: HTTP 502", s.FailureReason)

	require.NoError(t, s.BeginUnlock())
	assert.Equal(t, UnlockStateUnlocking, s.State)
	assert.Empty(t, s.FailureReason)
}

func TestCompleteUnlockIsNeverReverted(t *testing.T) {
	s := uploadedSession(t, true, PhotoSides...)

	require.NoError(t, s.BeginUnlock())
	s.CompleteUnlock()

	// A failed follow-up (token email, notification) must not touch the
	// unlocked state.
	assert.Equal(t, UnlockStateUnlocked, s.State)
	assert.ErrorIs(t, s.BeginUnlock(), ErrAlreadyUnlocked)
	assert.Equal(t, UnlockStateUnlocked, s.State)
}

func TestValidSide(t *testing.T) {
	assert.True(t, ValidSide("front"))
	assert.True(t, ValidSide("back"))
	assert.True(t, ValidSide("left"))
	assert.True(t, ValidSide("right"))

	assert.False(t, ValidSide("top"))
	assert.False(t, ValidSide("Front"))
	assert.False(t, ValidSide(""))
}
