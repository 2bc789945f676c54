// internal/config/config.go
package config

import (
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig
	Simulation SimulationConfig
	Alerts     AlertsConfig
	Database   DatabaseConfig
	Cache      CacheConfig
	Storage    StorageConfig
	Export     ExportConfig
	Drive      DriveConfig
	Telemetry  TelemetryConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	LogLevel       string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

type SimulationConfig struct {
	DefaultDays     int
	MaxDays         int
	PickingCapacity int
	Seed            int64
	CatalogDir      string
	EfficiencyMin   float64
	EfficiencyMax   float64
	ErrorRate       float64
}

// AlertsConfig overrides the default alert thresholds.
type AlertsConfig struct {
	OTIFMinimum                float64
	FillRateMinimum            float64
	FleetUtilizationMaximum    float64
	BacklogRateMaximum         float64
	PickingProductivityMinimum float64
}

type DatabaseConfig struct {
	Enabled         bool
	URL             string
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxConcurrentTx int
}

type CacheConfig struct {
	Enabled       bool
	RedisURL      string
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RunTTLSeconds int
}

type StorageConfig struct {
	Enabled   bool
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
	Prefix    string
}

type ExportConfig struct {
	Dir            string
	CSVEnabled     bool
	TimeoutSeconds int
}

type DriveConfig struct {
	CredentialsFile string
	FolderID        string
	FolderPath      string
	DownloadDir     string
}

type TelemetryConfig struct {
	Enabled      bool
	ServiceName  string
	OTLPEndpoint string
	Insecure     bool
}

var (
	once     sync.Once
	instance *Config
)

// Load reads the process configuration once from .env and the environment.
func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		v := viper.New()
		SetDefaults(v)
		v.AutomaticEnv()

		instance = FromViper(v)
	})

	return instance
}

// SetDefaults registers every known key with its default value.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_MODE", "debug")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("SERVER_READ_TIMEOUT", 30)
	v.SetDefault("SERVER_WRITE_TIMEOUT", 60)
	v.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})

	v.SetDefault("SIM_DEFAULT_DAYS", 7)
	v.SetDefault("SIM_MAX_DAYS", 365)
	v.SetDefault("SIM_PICKING_CAPACITY", 1500)
	v.SetDefault("SIM_SEED", 0)
	v.SetDefault("SIM_CATALOG_DIR", "")
	v.SetDefault("SIM_EFFICIENCY_MIN", 0.90)
	v.SetDefault("SIM_EFFICIENCY_MAX", 1.10)
	v.SetDefault("SIM_ERROR_RATE", 0.02)

	v.SetDefault("ALERT_OTIF_MINIMUM", 95.0)
	v.SetDefault("ALERT_FILL_RATE_MINIMUM", 98.0)
	v.SetDefault("ALERT_FLEET_UTILIZATION_MAXIMUM", 85.0)
	v.SetDefault("ALERT_BACKLOG_RATE_MAXIMUM", 5.0)
	v.SetDefault("ALERT_PICKING_PRODUCTIVITY_MINIMUM", 150.0)

	v.SetDefault("DB_ENABLED", false)
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "logisim")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_CONCURRENT_TX", 4)

	v.SetDefault("CACHE_ENABLED", false)
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("REDIS_HOST", "127.0.0.1")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CACHE_RUN_TTL_SECONDS", 86400)

	v.SetDefault("STORAGE_ENABLED", false)
	v.SetDefault("STORAGE_ENDPOINT", "")
	v.SetDefault("STORAGE_ACCESS_KEY", "")
	v.SetDefault("STORAGE_SECRET_KEY", "")
	v.SetDefault("STORAGE_BUCKET", "logisim")
	v.SetDefault("STORAGE_REGION", "us-east-1")
	v.SetDefault("STORAGE_USE_SSL", true)
	v.SetDefault("STORAGE_PREFIX", "runs")

	v.SetDefault("EXPORT_DIR", "./data/exports")
	v.SetDefault("EXPORT_CSV_ENABLED", false)
	v.SetDefault("EXPORT_TIMEOUT_SECONDS", 60)

	v.SetDefault("DRIVE_CREDENTIALS_FILE", "")
	v.SetDefault("DRIVE_FOLDER_ID", "")
	v.SetDefault("DRIVE_FOLDER_PATH", "")
	v.SetDefault("DRIVE_DOWNLOAD_DIR", "./data/catalog")

	v.SetDefault("OTEL_ENABLED", false)
	v.SetDefault("OTEL_SERVICE_NAME", "logisim")
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318")
	v.SetDefault("OTEL_EXPORTER_OTLP_INSECURE", true)
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) *Config {
	return &Config{
		Server: ServerConfig{
			Port:           v.GetString("SERVER_PORT"),
			Mode:           v.GetString("SERVER_MODE"),
			LogLevel:       v.GetString("LOG_LEVEL"),
			ReadTimeout:    v.GetInt("SERVER_READ_TIMEOUT"),
			WriteTimeout:   v.GetInt("SERVER_WRITE_TIMEOUT"),
			AllowedOrigins: v.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
		},
		Simulation: SimulationConfig{
			DefaultDays:     v.GetInt("SIM_DEFAULT_DAYS"),
			MaxDays:         v.GetInt("SIM_MAX_DAYS"),
			PickingCapacity: v.GetInt("SIM_PICKING_CAPACITY"),
			Seed:            v.GetInt64("SIM_SEED"),
			CatalogDir:      v.GetString("SIM_CATALOG_DIR"),
			EfficiencyMin:   v.GetFloat64("SIM_EFFICIENCY_MIN"),
			EfficiencyMax:   v.GetFloat64("SIM_EFFICIENCY_MAX"),
			ErrorRate:       v.GetFloat64("SIM_ERROR_RATE"),
		},
		Alerts: AlertsConfig{
			OTIFMinimum:                v.GetFloat64("ALERT_OTIF_MINIMUM"),
			FillRateMinimum:            v.GetFloat64("ALERT_FILL_RATE_MINIMUM"),
			FleetUtilizationMaximum:    v.GetFloat64("ALERT_FLEET_UTILIZATION_MAXIMUM"),
			BacklogRateMaximum:         v.GetFloat64("ALERT_BACKLOG_RATE_MAXIMUM"),
			PickingProductivityMinimum: v.GetFloat64("ALERT_PICKING_PRODUCTIVITY_MINIMUM"),
		},
		Database: DatabaseConfig{
			Enabled:         v.GetBool("DB_ENABLED"),
			URL:             v.GetString("DATABASE_URL"),
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetString("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			DBName:          v.GetString("DB_NAME"),
			SSLMode:         v.GetString("DB_SSLMODE"),
			MaxConcurrentTx: v.GetInt("DB_MAX_CONCURRENT_TX"),
		},
		Cache: CacheConfig{
			Enabled:       v.GetBool("CACHE_ENABLED"),
			RedisURL:      v.GetString("REDIS_URL"),
			RedisHost:     v.GetString("REDIS_HOST"),
			RedisPort:     v.GetString("REDIS_PORT"),
			RedisPassword: v.GetString("REDIS_PASSWORD"),
			RedisDB:       v.GetInt("REDIS_DB"),
			RunTTLSeconds: v.GetInt("CACHE_RUN_TTL_SECONDS"),
		},
		Storage: StorageConfig{
			Enabled:   v.GetBool("STORAGE_ENABLED"),
			Endpoint:  v.GetString("STORAGE_ENDPOINT"),
			AccessKey: v.GetString("STORAGE_ACCESS_KEY"),
			SecretKey: v.GetString("STORAGE_SECRET_KEY"),
			Bucket:    v.GetString("STORAGE_BUCKET"),
			Region:    v.GetString("STORAGE_REGION"),
			UseSSL:    v.GetBool("STORAGE_USE_SSL"),
			Prefix:    v.GetString("STORAGE_PREFIX"),
		},
		Export: ExportConfig{
			Dir:            v.GetString("EXPORT_DIR"),
			CSVEnabled:     v.GetBool("EXPORT_CSV_ENABLED"),
			TimeoutSeconds: v.GetInt("EXPORT_TIMEOUT_SECONDS"),
		},
		Drive: DriveConfig{
			CredentialsFile: v.GetString("DRIVE_CREDENTIALS_FILE"),
			FolderID:        v.GetString("DRIVE_FOLDER_ID"),
			FolderPath:      v.GetString("DRIVE_FOLDER_PATH"),
			DownloadDir:     v.GetString("DRIVE_DOWNLOAD_DIR"),
		},
		Telemetry: TelemetryConfig{
			Enabled:      v.GetBool("OTEL_ENABLED"),
			ServiceName:  v.GetString("OTEL_SERVICE_NAME"),
			OTLPEndpoint: v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT"),
			Insecure:     v.GetBool("OTEL_EXPORTER_OTLP_INSECURE"),
		},
	}
}

// Thresholds returns the alert options in the form pipeline.ParseThresholds
// accepts.
func (a AlertsConfig) Thresholds() map[string]float64 {
	return map[string]float64{
		"OTIF_minimum":                a.OTIFMinimum,
		"FillRate_minimum":            a.FillRateMinimum,
		"FleetUtilization_maximum":    a.FleetUtilizationMaximum,
		"BacklogRate_maximum":         a.BacklogRateMaximum,
		"PickingProductivity_minimum": a.PickingProductivityMinimum,
	}
}
