package models

// Config represents application configuration
type Config struct {
	App      AppConfig
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	NATS     NATSConfig
	JWT      JWTConfig
	Tracking TrackingConfig
	Logger   LoggerConfig
}

// AppConfig contains application-specific configuration
type AppConfig struct {
	Name        string
	Environment string
	Debug       bool
	Version     string
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     int
	WriteTimeout    int
	ShutdownTimeout int
}

// DatabaseConfig contains database connection configuration
type DatabaseConfig struct {
	Driver    string
	Host      string
	Port      int
	Username  string
	Password  string
	Database  string
	SSLMode   string
	MaxConns  int
	IdleConns int
}

// RedisConfig contains Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	PoolSize int
}

// NATSConfig contains NATS connection configuration
type NATSConfig struct {
	URL string
}

// JWTConfig contains JWT authentication configuration
type JWTConfig struct {
	Secret     string
	Expiration int // in minutes
	Issuer     string
}

// TrackingConfig contains tracking transport and queue tuning.
// The retry ceilings are deliberate knobs rather than constants: the mobile
// clients shipped with sample=10s, ping=30s, reconnect=3s x 10 and an SOS
// sync ceiling of 3, and operators may need to tune them per deployment.
type TrackingConfig struct {
	SampleIntervalMs    int     `json:"sample_interval_ms"`
	PingIntervalMs      int     `json:"ping_interval_ms"`
	ReconnectDelayMs    int     `json:"reconnect_delay_ms"`
	MaxReconnectRetries int     `json:"max_reconnect_retries"`
	SOSMaxSyncAttempts  int     `json:"sos_max_sync_attempts"`
	DialTimeoutMs       int     `json:"dial_timeout_ms"`
	QueuePath           string  `json:"queue_path"`
	LowBatteryThreshold int     `json:"low_battery_threshold"`
	CriticalRiskScore   float64 `json:"critical_risk_score"`
}

// LoggerConfig contains logger configuration
type LoggerConfig struct {
	Level    string `json:"level"`
	FilePath string `json:"file_path"`
}
