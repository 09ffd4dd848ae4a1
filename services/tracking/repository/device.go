package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/safeyatra/safeyatra/internal/pkg/constants"
	"github.com/safeyatra/safeyatra/internal/pkg/database"
	"github.com/safeyatra/safeyatra/internal/pkg/models"
)

const (
	// DeviceStateTTL bounds how long stale device state lingers in Redis.
	// Live "who is online" truth is the dispatcher directory, not Redis.
	DeviceStateTTL = 24 * time.Hour
)

type deviceRepo struct {
	redisClient *database.RedisClient
}

// NewDeviceRepository creates the Redis-backed live device state repository.
func NewDeviceRepository(redisClient *database.RedisClient) *deviceRepo {
	return &deviceRepo{
		redisClient: redisClient,
	}
}

// StoreLastFix stores the latest fix for a device and indexes it in the
// geo set.
func (r *deviceRepo) StoreLastFix(ctx context.Context, userID string, fix models.Fix) error {
	fixKey := fmt.Sprintf(constants.KeyDeviceLastFix, userID)

	fields := map[string]interface{}{
		constants.FieldLatitude:  strconv.FormatFloat(fix.Latitude, 'f', -1, 64),
		constants.FieldLongitude: strconv.FormatFloat(fix.Longitude, 'f', -1, 64),
		constants.FieldTimestamp: strconv.FormatInt(fix.CapturedAt.Unix(), 10),
	}
	if fix.Battery != nil {
		fields[constants.FieldBattery] = strconv.Itoa(*fix.Battery)
	}
	if fix.TourID != "" {
		fields[constants.FieldTourID] = fix.TourID
	}

	if err := r.redisClient.HSet(ctx, fixKey, fields); err != nil {
		return fmt.Errorf("failed to store last fix: %w", err)
	}
	if err := r.redisClient.Expire(ctx, fixKey, DeviceStateTTL); err != nil {
		return fmt.Errorf("failed to set fix TTL: %w", err)
	}

	if err := r.redisClient.GeoAdd(ctx, constants.KeyDeviceGeo, fix.Longitude, fix.Latitude, userID); err != nil {
		return fmt.Errorf("failed to index device position: %w", err)
	}

	return nil
}

// GetLastFix returns the last stored fix for a device.
func (r *deviceRepo) GetLastFix(ctx context.Context, userID string) (*models.Fix, error) {
	fixKey := fmt.Sprintf(constants.KeyDeviceLastFix, userID)

	values, err := r.redisClient.HGetAll(ctx, fixKey)
	if err != nil {
		return nil, fmt.Errorf("failed to get fix data: %w", err)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("no fix found for device %s", userID)
	}

	lat, err := strconv.ParseFloat(values[constants.FieldLatitude], 64)
	if err != nil {
		return nil, fmt.Errorf("invalid latitude: %w", err)
	}
	lng, err := strconv.ParseFloat(values[constants.FieldLongitude], 64)
	if err != nil {
		return nil, fmt.Errorf("invalid longitude: %w", err)
	}
	ts, err := strconv.ParseInt(values[constants.FieldTimestamp], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid timestamp: %w", err)
	}

	fix := &models.Fix{
		Latitude:   lat,
		Longitude:  lng,
		CapturedAt: time.Unix(ts, 0),
		TourID:     values[constants.FieldTourID],
	}
	if raw, ok := values[constants.FieldBattery]; ok {
		if battery, err := strconv.Atoi(raw); err == nil {
			fix.Battery = &battery
		}
	}

	return fix, nil
}

// SetDeviceStatus stores the device status.
func (r *deviceRepo) SetDeviceStatus(ctx context.Context, userID string, status models.DeviceStatus) error {
	statusKey := fmt.Sprintf(constants.KeyDeviceStatus, userID)
	if err := r.redisClient.Set(ctx, statusKey, string(status), DeviceStateTTL); err != nil {
		return fmt.Errorf("failed to set device status: %w", err)
	}
	return nil
}

// GetDeviceStatus returns the stored device status.
func (r *deviceRepo) GetDeviceStatus(ctx context.Context, userID string) (models.DeviceStatus, error) {
	statusKey := fmt.Sprintf(constants.KeyDeviceStatus, userID)
	value, err := r.redisClient.Get(ctx, statusKey)
	if err != nil {
		return "", fmt.Errorf("failed to get device status: %w", err)
	}
	return models.DeviceStatus(value), nil
}

// RemoveDevice removes all live state for a device.
func (r *deviceRepo) RemoveDevice(ctx context.Context, userID string) error {
	if err := r.redisClient.Delete(ctx, fmt.Sprintf(constants.KeyDeviceLastFix, userID)); err != nil {
		return fmt.Errorf("failed to remove last fix: %w", err)
	}
	if err := r.redisClient.Delete(ctx, fmt.Sprintf(constants.KeyDeviceStatus, userID)); err != nil {
		return fmt.Errorf("failed to remove device status: %w", err)
	}
	if err := r.redisClient.GeoRemove(ctx, constants.KeyDeviceGeo, userID); err != nil {
		return fmt.Errorf("failed to remove device from geo index: %w", err)
	}
	return nil
}
