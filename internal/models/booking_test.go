package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	b := Booking{}
	assert.Empty(t, b.AccessToken())

	issuedAt := time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)
	b.SetAccessToken("token-abc", issuedAt)

	assert.Equal(t, "token-abc", b.AccessToken())
	assert.Equal(t, "2026-03-14T10:30:00Z", b.Metadata[MetaTokenCreatedAt])
}

func TestSetAccessTokenOverwritesPrevious(t *testing.T) {
	b := Booking{}
	b.SetAccessToken("first", time.Now())
	b.SetAccessToken("second", time.Now())

	valid, err := b.ValidateAccessToken("second")
	require.NoError(t, err)
	assert.True(t, valid)

	_, err = b.ValidateAccessToken("first")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateAccessToken(t *testing.T) {
	b := Booking{}
	b.SetAccessToken("token-abc", time.Now())

	// Matching token
	valid, err := b.ValidateAccessToken("token-abc")
	require.NoError(t, err)
	assert.True(t, valid)

	// No token supplied: readable, but not validated
	valid, err = b.ValidateAccessToken("")
	require.NoError(t, err)
	assert.False(t, valid)

	// Wrong token is rejected
	_, err = b.ValidateAccessToken("token-xyz")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateAccessTokenWithNoneStored(t *testing.T) {
	b := Booking{}

	valid, err := b.ValidateAccessToken("")
	require.NoError(t, err)
	assert.False(t, valid)

	_, err = b.ValidateAccessToken("anything")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAppendExitPhotos(t *testing.T) {
	b := Booking{PhotosURLs: StringArray{
		"https://cdn.example.com/inspections/b1/front-1.jpg",
		"https://cdn.example.com/inspections/b1/back-1.jpg",
		"https://cdn.example.com/inspections/b1/left-1.jpg",
		"https://cdn.example.com/inspections/b1/right-1.jpg",
	}}

	exit := []string{
		"https://cdn.example.com/inspections/b1/exit-front-2.jpg",
		"https://cdn.example.com/inspections/b1/exit-back-2.jpg",
		"https://cdn.example.com/inspections/b1/exit-left-2.jpg",
		"https://cdn.example.com/inspections/b1/exit-right-2.jpg",
	}

	require.NoError(t, b.AppendExitPhotos(exit))

	// Entry photos are never truncated; exit photos land after them
	assert.Len(t, b.PhotosURLs, 8)
	assert.Equal(t, "https://cdn.example.com/inspections/b1/front-1.jpg", b.PhotosURLs[0])
	assert.Equal(t, exit[0], b.PhotosURLs[4])

	assert.Equal(t, exit, b.ExitPhotos())
}

func TestAppendExitPhotosRequiresExactlyFour(t *testing.T) {
	b := Booking{PhotosURLs: StringArray{"entry-1.jpg"}}

	assert.ErrorIs(t, b.AppendExitPhotos([]string{"a", "b", "c"}), ErrIncompletePhotoSet)
	assert.ErrorIs(t, b.AppendExitPhotos([]string{"a", "b", "c", "d", "e"}), ErrIncompletePhotoSet)
	assert.ErrorIs(t, b.AppendExitPhotos(nil), ErrIncompletePhotoSet)

	// Rejected appends leave the history untouched
	assert.Len(t, b.PhotosURLs, 1)
}

func TestIsExitPhoto(t *testing.T) {
	assert.True(t, IsExitPhoto("https://cdn.example.com/inspections/b1/exit-front-2.jpg"))
	assert.True(t, IsExitPhoto("exit-left-9.jpg"))

	assert.False(t, IsExitPhoto("https://cdn.example.com/inspections/b1/front-1.jpg"))
	// The marker counts only at the start of the filename
	assert.False(t, IsExitPhoto("https://cdn.example.com/exit-bucket/front-1.jpg"))
}

func TestHasLicenseImage(t *testing.T) {
	b := Booking{}
	assert.False(t, b.HasLicenseImage())

	empty := ""
	b.GuestLicenseImageURL = &empty
	assert.False(t, b.HasLicenseImage())

	url := "https://cdn.example.com/inspections/licenses/b1/license-1.jpg"
	b.GuestLicenseImageURL = &url
	assert.True(t, b.HasLicenseImage())
}
