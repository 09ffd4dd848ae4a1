package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/safeyatra/safeyatra/internal/pkg/config"
	"github.com/safeyatra/safeyatra/internal/pkg/jwt"
	"github.com/safeyatra/safeyatra/internal/pkg/logger"
	"github.com/safeyatra/safeyatra/internal/pkg/models"
	"github.com/safeyatra/safeyatra/trackclient"
	"github.com/safeyatra/safeyatra/trackclient/queue"
)

// maxStepDegrees bounds how far a simulated device moves per sample,
// roughly 30 meters at the equator.
const maxStepDegrees = 0.0003

// walkingSource random-walks around a starting coordinate.
type walkingSource struct {
	mu  sync.Mutex
	rng *rand.Rand
	lat float64
	lng float64
}

func newWalkingSource(lat, lng float64) *walkingSource {
	return &walkingSource{
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
		lat: lat,
		lng: lng,
	}
}

func (s *walkingSource) Current(ctx context.Context) (models.Fix, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	angle := s.rng.Float64() * 2 * math.Pi
	step := s.rng.Float64() * maxStepDegrees
	s.lat += step * math.Sin(angle)
	s.lng += step * math.Cos(angle)

	accuracy := 5 + s.rng.Float64()*15
	speed := s.rng.Float64() * 6

	return models.Fix{
		Latitude:   s.lat,
		Longitude:  s.lng,
		Accuracy:   &accuracy,
		Speed:      &speed,
		CapturedAt: time.Now(),
	}, nil
}

// drainingBattery loses one percent per read, floored at 5.
type drainingBattery struct {
	mu    sync.Mutex
	level int
}

func (b *drainingBattery) Level(ctx context.Context) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.level > 5 {
		b.level--
	}
	return b.level, nil
}

func main() {
	// Session timings come from the same env config the tracker reads;
	// flags override the operational knobs per run.
	configs := config.InitConfig(os.Getenv("CONFIG_PATH"))
	trackingCfg := configs.Tracking

	serverURL := flag.String("server", "ws://localhost:8080/ws/tracking", "Tracking websocket endpoint")
	count := flag.Int("count", 3, "Number of simulated devices")
	tourID := flag.String("tour", "tour-sim", "Tour correlation id for all devices")
	secret := flag.String("secret", configs.JWT.Secret, "JWT secret shared with the tracker service")
	interval := flag.Duration("interval", time.Duration(trackingCfg.SampleIntervalMs)*time.Millisecond, "Location sample interval")
	sosEvery := flag.Duration("sos-every", 0, "Raise a simulated SOS from a random device at this interval (0 disables)")
	queueDir := flag.String("queue-dir", filepath.Dir(trackingCfg.QueuePath), "Directory for offline queue files")
	flag.Parse()

	log.SetFlags(log.Ldate | log.Ltime)

	if *secret == "" {
		log.Fatal("A JWT secret is required (-secret or JWT_SECRET)")
	}

	zapLogger, err := logger.NewZapLogger(models.LoggerConfig{Level: "info"})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zapLogger.Close()
	logger.SetGlobalLogger(zapLogger)

	jwtCfg := configs.JWT
	jwtCfg.Secret = *secret
	if jwtCfg.Expiration <= 0 {
		jwtCfg.Expiration = 60
	}
	if jwtCfg.Issuer == "" {
		jwtCfg.Issuer = "devicesim"
	}

	// Devices start scattered around Thamel, Kathmandu.
	baseLat, baseLng := 27.7154, 85.3123

	transports := make([]*trackclient.Transport, 0, *count)
	for i := 0; i < *count; i++ {
		userID := uuid.New().String()
		userName := fmt.Sprintf("sim-device-%d", i+1)

		token, _, err := jwt.GenerateToken(userID, userName, "tourist", jwtCfg)
		if err != nil {
			log.Fatalf("Failed to generate token for %s: %v", userName, err)
		}

		store, err := queue.NewFileStore(filepath.Join(*queueDir, userID+".json"))
		if err != nil {
			log.Fatalf("Failed to create queue store for %s: %v", userName, err)
		}

		cfg := trackclient.Config{
			ServerURL:           *serverURL,
			Token:               token,
			UserName:            userName,
			UserType:            "tourist",
			TourID:              *tourID,
			SampleInterval:      *interval,
			PingInterval:        time.Duration(trackingCfg.PingIntervalMs) * time.Millisecond,
			ReconnectDelay:      time.Duration(trackingCfg.ReconnectDelayMs) * time.Millisecond,
			MaxReconnectRetries: trackingCfg.MaxReconnectRetries,
			DialTimeout:         time.Duration(trackingCfg.DialTimeoutMs) * time.Millisecond,
			SOSMaxSyncAttempts:  trackingCfg.SOSMaxSyncAttempts,
			Callbacks: trackclient.Callbacks{
				OnAlert: func(alert models.AlertPayload) {
					log.Printf("[%s] ALERT %s (%s)", userName, alert.Title, alert.Severity)
				},
				OnCommand: func(cmd models.CommandMessage) {
					log.Printf("[%s] COMMAND %s", userName, cmd.Command)
				},
				OnConnectionChange: func(connected bool) {
					log.Printf("[%s] connected=%v", userName, connected)
				},
			},
		}

		source := newWalkingSource(
			baseLat+rand.Float64()*0.01,
			baseLng+rand.Float64()*0.01,
		)
		battery := &drainingBattery{level: 60 + rand.Intn(40)}

		tr, err := trackclient.New(cfg, store, source, battery)
		if err != nil {
			log.Fatalf("Failed to create transport for %s: %v", userName, err)
		}

		if err := tr.StartTracking(context.Background()); err != nil {
			log.Printf("[%s] failed to start tracking: %v", userName, err)
			continue
		}
		transports = append(transports, tr)
	}

	if len(transports) == 0 {
		log.Fatal("No simulated device could connect")
	}
	log.Printf("Simulating %d devices against %s", len(transports), *serverURL)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	var sosTicker *time.Ticker
	var sosC <-chan time.Time
	if *sosEvery > 0 {
		sosTicker = time.NewTicker(*sosEvery)
		sosC = sosTicker.C
		defer sosTicker.Stop()
	}

	for {
		select {
		case <-sosC:
			tr := transports[rand.Intn(len(transports))]
			if err := tr.SendSOS(context.Background(), "simulated emergency"); err != nil {
				log.Printf("Failed to raise simulated SOS: %v", err)
			}
		case <-stop:
			log.Println("Shutting down simulated devices...")
			for _, tr := range transports {
				tr.StopTracking()
			}
			return
		}
	}
}
