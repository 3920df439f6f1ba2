// internal/config/config.go
package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	App       AppConfig
	Inventory InventoryConfig
	Forecast  ForecastConfig
	Cost      CostConfig
	Cache     CacheConfig
	Source    SourceConfig
	Sim       SimConfig
}

type ServerConfig struct {
	Port           string
	AdminPort      string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

type AppConfig struct {
	DataDir   string
	UsageDir  string
	ExportDir string
	LogLevel  string
}

type InventoryConfig struct {
	SafetyStockDays float64
	OverstockDays   float64
}

type ForecastConfig struct {
	Window  int
	Alpha   float64
	Weights []float64
	Horizon int
	Holdout int
}

type CostConfig struct {
	OrderingCost    float64
	HoldingRate     float64
	DefaultUnitCost float64
}

type CacheConfig struct {
	Enabled       bool
	RedisURL      string
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	TTLSeconds    int
}

type SourceConfig struct {
	Endpoint        string
	AccessKey       string
	SecretKey       string
	Bucket          string
	Prefix          string
	Region          string
	UseSSL          bool
	DriveFolderID   string
	DriveCredsJSON  string
	SyncConcurrency int
}

type SimConfig struct {
	Enabled bool
	Seed    int64
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		// Set default values
		viper.SetDefault("SERVER_PORT", "8080")
		viper.SetDefault("SERVER_ADMIN_PORT", "9091")
		viper.SetDefault("SERVER_MODE", "debug")
		viper.SetDefault("SERVER_READ_TIMEOUT", 15)
		viper.SetDefault("SERVER_WRITE_TIMEOUT", 30)
		viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
		viper.SetDefault("APP_DATA_DIR", "./data")
		viper.SetDefault("APP_USAGE_DIR", "./data/usage")
		viper.SetDefault("APP_EXPORT_DIR", "./data/exports")
		viper.SetDefault("LOG_LEVEL", "info")
		viper.SetDefault("INVENTORY_SAFETY_STOCK_DAYS", 7.0)
		viper.SetDefault("INVENTORY_OVERSTOCK_DAYS", 60.0)
		viper.SetDefault("FORECAST_WINDOW", 3)
		viper.SetDefault("FORECAST_ALPHA", 0.3)
		viper.SetDefault("FORECAST_WEIGHTS", "0.5,0.3,0.2")
		viper.SetDefault("FORECAST_HORIZON", 3)
		viper.SetDefault("FORECAST_HOLDOUT", 0)
		viper.SetDefault("COST_ORDERING_COST", 50.0)
		viper.SetDefault("COST_HOLDING_RATE", 0.25)
		viper.SetDefault("COST_DEFAULT_UNIT_COST", 5.0)
		viper.SetDefault("CACHE_ENABLED", false)
		viper.SetDefault("REDIS_URL", "")
		viper.SetDefault("REDIS_HOST", "127.0.0.1")
		viper.SetDefault("REDIS_PORT", "6379")
		viper.SetDefault("REDIS_PASSWORD", "")
		viper.SetDefault("REDIS_DB", 0)
		viper.SetDefault("CACHE_TTL_SECONDS", 60)
		viper.SetDefault("SOURCE_ENDPOINT", "")
		viper.SetDefault("SOURCE_ACCESS_KEY", "")
		viper.SetDefault("SOURCE_SECRET_KEY", "")
		viper.SetDefault("SOURCE_BUCKET", "")
		viper.SetDefault("SOURCE_PREFIX", "")
		viper.SetDefault("SOURCE_REGION", "")
		viper.SetDefault("SOURCE_USE_SSL", true)
		viper.SetDefault("SOURCE_DRIVE_FOLDER_ID", "")
		viper.SetDefault("SOURCE_DRIVE_CREDENTIALS_JSON", "")
		viper.SetDefault("SOURCE_SYNC_CONCURRENCY", 4)
		viper.SetDefault("SIM_ENABLED", true)
		viper.SetDefault("SIM_SEED", int64(42))

		// Read from environment variables
		viper.AutomaticEnv()

		// Ensure data and export directories exist
		ensureDir(viper.GetString("APP_DATA_DIR"))
		ensureDir(viper.GetString("APP_USAGE_DIR"))
		ensureDir(viper.GetString("APP_EXPORT_DIR"))

		instance = &Config{
			Server: ServerConfig{
				Port:           viper.GetString("SERVER_PORT"),
				AdminPort:      viper.GetString("SERVER_ADMIN_PORT"),
				Mode:           viper.GetString("SERVER_MODE"),
				ReadTimeout:    viper.GetInt("SERVER_READ_TIMEOUT"),
				WriteTimeout:   viper.GetInt("SERVER_WRITE_TIMEOUT"),
				AllowedOrigins: viper.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
			},
			App: AppConfig{
				DataDir:   viper.GetString("APP_DATA_DIR"),
				UsageDir:  viper.GetString("APP_USAGE_DIR"),
				ExportDir: viper.GetString("APP_EXPORT_DIR"),
				LogLevel:  viper.GetString("LOG_LEVEL"),
			},
			Inventory: InventoryConfig{
				SafetyStockDays: viper.GetFloat64("INVENTORY_SAFETY_STOCK_DAYS"),
				OverstockDays:   viper.GetFloat64("INVENTORY_OVERSTOCK_DAYS"),
			},
			Forecast: ForecastConfig{
				Window:  viper.GetInt("FORECAST_WINDOW"),
				Alpha:   viper.GetFloat64("FORECAST_ALPHA"),
				Weights: getFloatSlice("FORECAST_WEIGHTS"),
				Horizon: viper.GetInt("FORECAST_HORIZON"),
				Holdout: viper.GetInt("FORECAST_HOLDOUT"),
			},
			Cost: CostConfig{
				OrderingCost:    viper.GetFloat64("COST_ORDERING_COST"),
				HoldingRate:     viper.GetFloat64("COST_HOLDING_RATE"),
				DefaultUnitCost: viper.GetFloat64("COST_DEFAULT_UNIT_COST"),
			},
			Cache: CacheConfig{
				Enabled:       viper.GetBool("CACHE_ENABLED"),
				RedisURL:      viper.GetString("REDIS_URL"),
				RedisHost:     viper.GetString("REDIS_HOST"),
				RedisPort:     viper.GetString("REDIS_PORT"),
				RedisPassword: viper.GetString("REDIS_PASSWORD"),
				RedisDB:       viper.GetInt("REDIS_DB"),
				TTLSeconds:    viper.GetInt("CACHE_TTL_SECONDS"),
			},
			Source: SourceConfig{
				Endpoint:        viper.GetString("SOURCE_ENDPOINT"),
				AccessKey:       viper.GetString("SOURCE_ACCESS_KEY"),
				SecretKey:       viper.GetString("SOURCE_SECRET_KEY"),
				Bucket:          viper.GetString("SOURCE_BUCKET"),
				Prefix:          viper.GetString("SOURCE_PREFIX"),
				Region:          viper.GetString("SOURCE_REGION"),
				UseSSL:          viper.GetBool("SOURCE_USE_SSL"),
				DriveFolderID:   viper.GetString("SOURCE_DRIVE_FOLDER_ID"),
				DriveCredsJSON:  viper.GetString("SOURCE_DRIVE_CREDENTIALS_JSON"),
				SyncConcurrency: viper.GetInt("SOURCE_SYNC_CONCURRENCY"),
			},
			Sim: SimConfig{
				Enabled: viper.GetBool("SIM_ENABLED"),
				Seed:    viper.GetInt64("SIM_SEED"),
			},
		}
	})

	return instance
}

// getFloatSlice reads a comma-separated viper key like "0.5,0.3,0.2" as []float64.
// Malformed entries are skipped; an empty result falls back to the default weights.
func getFloatSlice(key string) []float64 {
	raw := viper.GetString(key)
	var out []float64
	for _, part := range strings.Split(raw, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			continue
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return []float64{0.5, 0.3, 0.2}
	}
	return out
}

func ensureDir(dir string) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("Failed to create directory %s: %v", dir, err)
		}
	}
}
