package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulatedUnlockSucceedsAfterDelay(t *testing.T) {
	c := &simulatedVehicleController{delay: 10 * time.Millisecond}

	err := c.Unlock(context.Background(), "vehicle-1")
	assert.NoError(t, err)
}

func TestSimulatedUnlockHonorsContextCancellation(t *testing.T) {
	c := &simulatedVehicleController{delay: time.Minute}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := c.Unlock(ctx, "vehicle-1")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestHTTPUnlock(t *testing.T) {
	var gotAuth, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	c := &httpVehicleController{
		apiURL: server.URL,
		apiKey: "test-key",
		client: server.Client(),
	}

	require.NoError(t, c.Unlock(context.Background(), "vehicle-1"))
	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "/unlock", gotPath)
}

func TestHTTPUnlockSurfacesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	c := &httpVehicleController{
		apiURL: server.URL,
		apiKey: "test-key",
		client: server.Client(),
	}

	err := c.Unlock(context.Background(), "vehicle-1")
	assert.ErrorContains(t, err, "HTTP 502")
}
