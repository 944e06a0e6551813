package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/shoplens/shoplens-backend/internal/logger"
	"github.com/shoplens/shoplens-backend/internal/utils"
)

// Analytics holds the tunable thresholds shared by the computators and the
// rule engine. Values are configuration constants, never derived from data.
type Analytics struct {
	VelocityHighThreshold float64 `yaml:"velocity_high_threshold"`
	VelocityLowThreshold  float64 `yaml:"velocity_low_threshold"`
	DeadStockDays         int     `yaml:"dead_stock_days"`
	TrendStabilityBandPct float64 `yaml:"trend_stability_band_pct"`
	MinSeasonalityScore   float64 `yaml:"min_seasonality_score"`
}

type Explain struct {
	// Tolerance for matching generated numbers against the allow-list.
	RelativeTolerance float64 `yaml:"relative_tolerance"`
	AbsoluteTolerance float64 `yaml:"absolute_tolerance"`
	TimeoutSeconds    int     `yaml:"timeout_seconds"`
}

type Cache struct {
	TTLSeconds int    `yaml:"ttl_seconds"`
	Backend    string `yaml:"backend"` // "redis" or "file"
	FileDir    string `yaml:"file_dir"`
}

type Worker struct {
	Concurrency int `yaml:"concurrency"`
	QueueSize   int `yaml:"queue_size"`
}

type Config struct {
	Analytics Analytics `yaml:"analytics"`
	Explain   Explain   `yaml:"explain"`
	Cache     Cache     `yaml:"cache"`
	Worker    Worker    `yaml:"worker"`
}

func defaults() Config {
	return Config{
		Analytics: Analytics{
			VelocityHighThreshold: 12,
			VelocityLowThreshold:  6,
			DeadStockDays:         90,
			TrendStabilityBandPct: 2,
			MinSeasonalityScore:   0.3,
		},
		Explain: Explain{
			RelativeTolerance: 0.01,
			AbsoluteTolerance: 0.5,
			TimeoutSeconds:    60,
		},
		Cache: Cache{
			TTLSeconds: 0, // 0 = no expiry; fingerprint changes invalidate
			Backend:    "file",
			FileDir:    "data/cache",
		},
		Worker: Worker{
			Concurrency: 4,
			QueueSize:   256,
		},
	}
}

// Load reads the optional YAML config file and applies env overrides on top.
// A missing file is not an error; a malformed one is.
func Load(log *logger.Logger) (Config, error) {
	cfg := defaults()

	path := utils.GetEnv("SHOPLENS_CONFIG", "config.yaml", log)
	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		if uErr := yaml.Unmarshal(raw, &cfg); uErr != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, uErr)
		}
		if log != nil {
			log.Info("Loaded config file", "path", path)
		}
	case os.IsNotExist(err):
		if log != nil {
			log.Debug("No config file, using defaults", "path", path)
		}
	default:
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg.Analytics.DeadStockDays = utils.GetEnvAsInt("DEAD_STOCK_DAYS", cfg.Analytics.DeadStockDays, log)
	cfg.Analytics.TrendStabilityBandPct = utils.GetEnvAsFloat("TREND_STABILITY_BAND_PCT", cfg.Analytics.TrendStabilityBandPct, log)
	cfg.Analytics.MinSeasonalityScore = utils.GetEnvAsFloat("MIN_SEASONALITY_SCORE", cfg.Analytics.MinSeasonalityScore, log)
	cfg.Cache.Backend = utils.GetEnv("CACHE_BACKEND", cfg.Cache.Backend, log)
	cfg.Cache.FileDir = utils.GetEnv("CACHE_FILE_DIR", cfg.Cache.FileDir, log)
	cfg.Cache.TTLSeconds = utils.GetEnvAsInt("CACHE_TTL_SECONDS", cfg.Cache.TTLSeconds, log)
	cfg.Worker.Concurrency = utils.GetEnvAsInt("WORKER_CONCURRENCY", cfg.Worker.Concurrency, log)
	cfg.Worker.QueueSize = utils.GetEnvAsInt("WORKER_QUEUE_SIZE", cfg.Worker.QueueSize, log)
	cfg.Explain.TimeoutSeconds = utils.GetEnvAsInt("EXPLAIN_TIMEOUT_SECONDS", cfg.Explain.TimeoutSeconds, log)

	return cfg, nil
}
