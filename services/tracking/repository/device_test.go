package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safeyatra/safeyatra/internal/pkg/constants"
	"github.com/safeyatra/safeyatra/internal/pkg/database"
	"github.com/safeyatra/safeyatra/internal/pkg/models"
)

func setupMiniredis(t *testing.T) (*database.RedisClient, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	return &database.RedisClient{Client: client}, mr
}

func TestStoreAndGetLastFix(t *testing.T) {
	redisClient, _ := setupMiniredis(t)
	repo := NewDeviceRepository(redisClient)

	battery := 72
	captured := time.Now().Truncate(time.Second)
	fix := models.Fix{
		Latitude:   27.7154,
		Longitude:  85.3123,
		Battery:    &battery,
		CapturedAt: captured,
		TourID:     "tour-1",
	}

	require.NoError(t, repo.StoreLastFix(context.Background(), "user-1", fix))

	got, err := repo.GetLastFix(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, fix.Latitude, got.Latitude)
	assert.Equal(t, fix.Longitude, got.Longitude)
	assert.Equal(t, captured.Unix(), got.CapturedAt.Unix())
	assert.Equal(t, "tour-1", got.TourID)
	require.NotNil(t, got.Battery)
	assert.Equal(t, battery, *got.Battery)
}

func TestStoreLastFix_SetsTTL(t *testing.T) {
	redisClient, mr := setupMiniredis(t)
	repo := NewDeviceRepository(redisClient)

	fix := models.Fix{Latitude: 27.7, Longitude: 85.3, CapturedAt: time.Now()}
	require.NoError(t, repo.StoreLastFix(context.Background(), "user-1", fix))

	key := fmt.Sprintf(constants.KeyDeviceLastFix, "user-1")
	assert.Greater(t, mr.TTL(key), time.Duration(0))
}

func TestGetLastFix_NotFound(t *testing.T) {
	redisClient, _ := setupMiniredis(t)
	repo := NewDeviceRepository(redisClient)

	_, err := repo.GetLastFix(context.Background(), "ghost")
	assert.Error(t, err)
}

func TestSetAndGetDeviceStatus(t *testing.T) {
	redisClient, _ := setupMiniredis(t)
	repo := NewDeviceRepository(redisClient)

	require.NoError(t, repo.SetDeviceStatus(context.Background(), "user-1", models.StatusSOS))

	status, err := repo.GetDeviceStatus(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusSOS, status)
}

func TestRemoveDevice(t *testing.T) {
	redisClient, mr := setupMiniredis(t)
	repo := NewDeviceRepository(redisClient)

	fix := models.Fix{Latitude: 27.7, Longitude: 85.3, CapturedAt: time.Now()}
	require.NoError(t, repo.StoreLastFix(context.Background(), "user-1", fix))
	require.NoError(t, repo.SetDeviceStatus(context.Background(), "user-1", models.StatusActive))

	require.NoError(t, repo.RemoveDevice(context.Background(), "user-1"))

	assert.False(t, mr.Exists(fmt.Sprintf(constants.KeyDeviceLastFix, "user-1")))
	assert.False(t, mr.Exists(fmt.Sprintf(constants.KeyDeviceStatus, "user-1")))
	_, err := repo.GetLastFix(context.Background(), "user-1")
	assert.Error(t, err)
}
