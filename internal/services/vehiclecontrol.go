package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"
)

// VehicleController is the boundary to the physical vehicle-control
// integration. Unlocking a vehicle always crosses this port.
type VehicleController interface {
	Unlock(ctx context.Context, vehicleID string) error
}

// NewVehicleController returns the HTTP vehicle-control client when the
// integration is configured, or the simulated controller otherwise.
func NewVehicleController() VehicleController {
	apiURL := os.Getenv("VEHICLE_CONTROL_API_URL")
	apiKey := os.Getenv("VEHICLE_CONTROL_API_KEY")

	if apiURL != "" && apiKey != "" {
		return &httpVehicleController{
			apiURL: apiURL,
			apiKey: apiKey,
			client: &http.Client{Timeout: 30 * time.Second},
		}
	}

	log.Println("⚠️ Vehicle control API not configured. Using simulated unlock.")
	return &simulatedVehicleController{delay: 2 * time.Second}
}

type httpVehicleController struct {
	apiURL string
	apiKey string
	client *http.Client
}

func (c *httpVehicleController) Unlock(ctx context.Context, vehicleID string) error {
	payload, err := json.Marshal(map[string]string{"vehicle_id": vehicleID})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+"/unlock", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("vehicle control request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("vehicle control API error: HTTP %d", resp.StatusCode)
	}

	return nil
}

// simulatedVehicleController stands in for the real integration: a fixed
// unlock latency and an unconditional success.
type simulatedVehicleController struct {
	delay time.Duration
}

func (c *simulatedVehicleController) Unlock(ctx context.Context, vehicleID string) error {
	select {
	case <-time.After(c.delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
