package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safeyatra/safeyatra/internal/pkg/models"
	"github.com/safeyatra/safeyatra/services/tracking/mocks"
)

func testConfig() *models.Config {
	return &models.Config{
		Tracking: models.TrackingConfig{
			LowBatteryThreshold: 15,
			CriticalRiskScore:   0.8,
		},
	}
}

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func TestRecordFix_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockTrackingRepo(ctrl)
	history := mocks.NewMockHistoryRepo(ctrl)
	gw := mocks.NewMockTrackingGW(ctrl)
	uc := NewTrackingUC(repo, history, gw, testConfig())

	fix := models.Fix{
		Latitude:   27.7154,
		Longitude:  85.3123,
		Battery:    intPtr(85),
		CapturedAt: time.Now(),
	}

	archived := make(chan struct{}, 1)

	repo.EXPECT().StoreLastFix(gomock.Any(), "user-1", fix).Return(nil)
	repo.EXPECT().SetDeviceStatus(gomock.Any(), "user-1", models.StatusActive).Return(nil)
	history.EXPECT().AppendFix(gomock.Any(), "user-1", gomock.Any(), fix).
		DoAndReturn(func(ctx context.Context, userID, area string, f models.Fix) error {
			archived <- struct{}{}
			return nil
		})
	gw.EXPECT().PublishLocationAnalyze(gomock.Any(), gomock.Any()).Return(nil)

	status, area, err := uc.RecordFix(context.Background(), "user-1", "Asha", fix)

	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, status)
	assert.NotEmpty(t, area)

	select {
	case <-archived:
	case <-time.After(2 * time.Second):
		t.Fatal("fix was not archived")
	}
}

func TestRecordFix_LowBattery(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockTrackingRepo(ctrl)
	history := mocks.NewMockHistoryRepo(ctrl)
	gw := mocks.NewMockTrackingGW(ctrl)
	uc := NewTrackingUC(repo, history, gw, testConfig())

	fix := models.Fix{
		Latitude:   27.7154,
		Longitude:  85.3123,
		Battery:    intPtr(10),
		CapturedAt: time.Now(),
	}

	repo.EXPECT().StoreLastFix(gomock.Any(), "user-1", fix).Return(nil)
	repo.EXPECT().SetDeviceStatus(gomock.Any(), "user-1", models.StatusLowBattery).Return(nil)
	history.EXPECT().AppendFix(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	gw.EXPECT().PublishLocationAnalyze(gomock.Any(), gomock.Any()).Return(nil)

	status, _, err := uc.RecordFix(context.Background(), "user-1", "Asha", fix)

	require.NoError(t, err)
	assert.Equal(t, models.StatusLowBattery, status)
}

func TestRecordFix_InvalidCoordinates(t *testing.T) {
	tests := []struct {
		name string
		fix  models.Fix
		want error
	}{
		{
			name: "latitude out of range",
			fix:  models.Fix{Latitude: 91, Longitude: 85},
			want: ErrInvalidCoordinates,
		},
		{
			name: "longitude out of range",
			fix:  models.Fix{Latitude: 27, Longitude: -181},
			want: ErrInvalidCoordinates,
		},
		{
			name: "negative speed",
			fix:  models.Fix{Latitude: 27, Longitude: 85, Speed: floatPtr(-1)},
			want: ErrInvalidSpeed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := mocks.NewMockTrackingRepo(ctrl)
			history := mocks.NewMockHistoryRepo(ctrl)
			gw := mocks.NewMockTrackingGW(ctrl)
			uc := NewTrackingUC(repo, history, gw, testConfig())

			_, _, err := uc.RecordFix(context.Background(), "user-1", "Asha", tt.fix)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestRecordFix_AnalysisFailureDoesNotBlock(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockTrackingRepo(ctrl)
	history := mocks.NewMockHistoryRepo(ctrl)
	gw := mocks.NewMockTrackingGW(ctrl)
	uc := NewTrackingUC(repo, history, gw, testConfig())

	fix := models.Fix{Latitude: 27.7154, Longitude: 85.3123, CapturedAt: time.Now()}

	repo.EXPECT().StoreLastFix(gomock.Any(), "user-1", fix).Return(nil)
	repo.EXPECT().SetDeviceStatus(gomock.Any(), "user-1", models.StatusActive).Return(nil)
	history.EXPECT().AppendFix(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	gw.EXPECT().PublishLocationAnalyze(gomock.Any(), gomock.Any()).Return(assert.AnError)

	status, _, err := uc.RecordFix(context.Background(), "user-1", "Asha", fix)

	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, status)
}

func TestRecordFix_StoreOutageDoesNotFailCall(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockTrackingRepo(ctrl)
	history := mocks.NewMockHistoryRepo(ctrl)
	gw := mocks.NewMockTrackingGW(ctrl)
	uc := NewTrackingUC(repo, history, gw, testConfig())

	fix := models.Fix{Latitude: 27.7154, Longitude: 85.3123, CapturedAt: time.Now()}

	// The stores only mirror the dispatcher directory; both failing must
	// not take down the broadcast path.
	repo.EXPECT().StoreLastFix(gomock.Any(), "user-1", fix).Return(assert.AnError)
	repo.EXPECT().SetDeviceStatus(gomock.Any(), "user-1", models.StatusActive).Return(assert.AnError)
	history.EXPECT().AppendFix(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	gw.EXPECT().PublishLocationAnalyze(gomock.Any(), gomock.Any()).Return(nil)

	status, area, err := uc.RecordFix(context.Background(), "user-1", "Asha", fix)

	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, status)
	assert.NotEmpty(t, area)
}

func TestLastKnown(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockTrackingRepo(ctrl)
	uc := NewTrackingUC(repo, mocks.NewMockHistoryRepo(ctrl), mocks.NewMockTrackingGW(ctrl), testConfig())

	mirrored := &models.Fix{Latitude: 27.7, Longitude: 85.3, CapturedAt: time.Now()}
	repo.EXPECT().GetLastFix(gomock.Any(), "user-1").Return(mirrored, nil)
	repo.EXPECT().GetDeviceStatus(gomock.Any(), "user-1").Return(models.StatusSOS, nil)

	fix, status := uc.LastKnown(context.Background(), "user-1")

	require.NotNil(t, fix)
	assert.Equal(t, mirrored.Latitude, fix.Latitude)
	assert.Equal(t, models.StatusSOS, status)
}

func TestLastKnown_NothingMirrored(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockTrackingRepo(ctrl)
	uc := NewTrackingUC(repo, mocks.NewMockHistoryRepo(ctrl), mocks.NewMockTrackingGW(ctrl), testConfig())

	repo.EXPECT().GetLastFix(gomock.Any(), "ghost").Return(nil, assert.AnError)
	repo.EXPECT().GetDeviceStatus(gomock.Any(), "ghost").Return(models.DeviceStatus(""), assert.AnError)

	fix, status := uc.LastKnown(context.Background(), "ghost")

	assert.Nil(t, fix)
	assert.Equal(t, models.DeviceStatus(""), status)
}

func TestRecordSOS(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockTrackingRepo(ctrl)
	gw := mocks.NewMockTrackingGW(ctrl)
	uc := NewTrackingUC(repo, mocks.NewMockHistoryRepo(ctrl), gw, testConfig())

	sos := models.SOSPayload{
		Message:   "help",
		Latitude:  27.7154,
		Longitude: 85.3123,
		UserName:  "Asha",
	}

	repo.EXPECT().SetDeviceStatus(gomock.Any(), "user-1", models.StatusSOS).Return(nil)
	gw.EXPECT().PublishSOS(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, event *models.SOSEvent) error {
			assert.Equal(t, "user-1", event.UserID)
			assert.Equal(t, "help", event.Message)
			assert.False(t, event.RaisedAt.IsZero())
			return nil
		})

	require.NoError(t, uc.RecordSOS(context.Background(), "user-1", sos))
}

func TestDeviceOffline(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockTrackingRepo(ctrl)
	gw := mocks.NewMockTrackingGW(ctrl)
	uc := NewTrackingUC(repo, mocks.NewMockHistoryRepo(ctrl), gw, testConfig())

	repo.EXPECT().RemoveDevice(gomock.Any(), "user-1").Return(nil)
	gw.EXPECT().PublishDeviceOffline(gomock.Any(), gomock.Any()).Return(nil)

	require.NoError(t, uc.DeviceOffline(context.Background(), "user-1"))
}

func TestDeviceOffline_PublishFailureIgnored(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockTrackingRepo(ctrl)
	gw := mocks.NewMockTrackingGW(ctrl)
	uc := NewTrackingUC(repo, mocks.NewMockHistoryRepo(ctrl), gw, testConfig())

	repo.EXPECT().RemoveDevice(gomock.Any(), "user-1").Return(nil)
	gw.EXPECT().PublishDeviceOffline(gomock.Any(), gomock.Any()).Return(assert.AnError)

	require.NoError(t, uc.DeviceOffline(context.Background(), "user-1"))
}

func TestLocationHistory_LimitClamped(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	history := mocks.NewMockHistoryRepo(ctrl)
	uc := NewTrackingUC(mocks.NewMockTrackingRepo(ctrl), history, mocks.NewMockTrackingGW(ctrl), testConfig())

	history.EXPECT().RecentFixes(gomock.Any(), "user-1", 100).Return(nil, nil)
	_, err := uc.LocationHistory(context.Background(), "user-1", 0)
	require.NoError(t, err)

	history.EXPECT().RecentFixes(gomock.Any(), "user-1", 100).Return(nil, nil)
	_, err = uc.LocationHistory(context.Background(), "user-1", 9999)
	require.NoError(t, err)

	history.EXPECT().RecentFixes(gomock.Any(), "user-1", 25).Return(nil, nil)
	_, err = uc.LocationHistory(context.Background(), "user-1", 25)
	require.NoError(t, err)
}
