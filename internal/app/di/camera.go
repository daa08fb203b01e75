package di

import (
	"fmt"
	"os"
	"strconv"

	"calorie_backend/internal/feature/capture/usecase"
)

// NewCameraConfig reads CAMERA_DEVICE (device index) on top of the defaults.
func NewCameraConfig() (usecase.CameraConfig, error) {
	cfg := usecase.DefaultCameraConfig()
	if v := os.Getenv("CAMERA_DEVICE"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil || id < 0 {
			return cfg, fmt.Errorf("invalid CAMERA_DEVICE %q", v)
		}
		cfg.DeviceID = id
	}
	return cfg, nil
}
