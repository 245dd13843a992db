package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config es la configuración completa del desk.
type Config struct {
	Dataset  DatasetConfig  `yaml:"dataset"  toml:"dataset"`
	Ranking  RankingConfig  `yaml:"ranking"  toml:"ranking"`
	Calendar CalendarConfig `yaml:"calendar" toml:"calendar"`
	HTTP     HTTPConfig     `yaml:"http"     toml:"http"`
	Storage  StorageConfig  `yaml:"storage"  toml:"storage"`
	Log      LogConfig      `yaml:"log"      toml:"log"`
}

// DatasetConfig elige de dónde sale el snapshot. Prioridad: sqlite > url > paths > sample embebido.
type DatasetConfig struct {
	Paths  []string `yaml:"paths"  toml:"paths"`  // uno o varios JSON locales
	URL    string   `yaml:"url"    toml:"url"`    // snapshot publicado por HTTP
	SQLite bool     `yaml:"sqlite" toml:"sqlite"` // leer lo importado en storage.dsn
}

// RankingConfig son los defaults de la vista de mercados.
type RankingConfig struct {
	Sort     string `yaml:"sort"     toml:"sort"`
	Coverage string `yaml:"coverage" toml:"coverage"`
	Limit    int    `yaml:"limit"    toml:"limit"`
}

const defaultHorizonDays = 30

// CalendarConfig son los defaults de la vista de calendario.
type CalendarConfig struct {
	Desks       []string `yaml:"desks"        toml:"desks"`
	MinImpact   string   `yaml:"min_impact"   toml:"min_impact"` // high | medium | low
	HorizonDays *int     `yaml:"horizon_days" toml:"horizon_days"` // nil = 30; 0 o negativo = sin ventana
}

// HTTPConfig controla el cliente del snapshot remoto.
type HTTPConfig struct {
	TimeoutSeconds int     `yaml:"timeout_seconds" toml:"timeout_seconds"`
	RatePerSec     float64 `yaml:"rate_per_sec"    toml:"rate_per_sec"`
}

// StorageConfig controla dónde se importa el dataset.
type StorageConfig struct {
	DSN string `yaml:"dsn" toml:"dsn"` // ruta al archivo SQLite, o ":memory:"
}

// LogConfig controla el formato y nivel de logging.
type LogConfig struct {
	Level  string `yaml:"level"  toml:"level"`  // debug | info | warn | error
	Format string `yaml:"format" toml:"format"` // text | json
}

// Load carga la configuración desde el archivo (YAML, o TOML si la extensión es
// .toml) y el archivo .env si existe. Con path vacío solo aplica env y defaults.
func Load(path string) (*Config, error) {
	// Cargar .env si existe (silencia error si no hay archivo)
	_ = godotenv.Load()

	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
		}
		if err := decode(path, data, &cfg); err != nil {
			return nil, fmt.Errorf("config.Load: %w", err)
		}
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	return &cfg, nil
}

func decode(path string, data []byte, cfg *Config) error {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return fmt.Errorf("parse TOML: %w", err)
		}
		return nil
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse YAML: %w", err)
	}
	return nil
}

// HTTPTimeout devuelve el timeout del cliente como time.Duration.
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTP.TimeoutSeconds) * time.Second
}

// CalendarHorizonDays devuelve la ventana del calendario en días; 0 la desactiva.
func (c *Config) CalendarHorizonDays() int {
	if c.Calendar.HorizonDays == nil {
		return defaultHorizonDays
	}
	return max(0, *c.Calendar.HorizonDays)
}

// applyEnvOverrides sobreescribe valores con variables de entorno si están presentes.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("ODDSDESK_DATASET_URL"); v != "" {
		cfg.Dataset.URL = v
	}
	if v := os.Getenv("ODDSDESK_DB"); v != "" {
		cfg.Storage.DSN = v
	}
}

// setDefaults asegura que los valores requeridos tengan valores sensatos.
func setDefaults(cfg *Config) {
	if cfg.Ranking.Sort == "" {
		cfg.Ranking.Sort = "relevance"
	}
	if cfg.Ranking.Coverage == "" {
		cfg.Ranking.Coverage = "all"
	}
	if cfg.Ranking.Limit <= 0 {
		cfg.Ranking.Limit = 25
	}
	if cfg.Calendar.HorizonDays == nil {
		days := defaultHorizonDays
		cfg.Calendar.HorizonDays = &days
	}
	if cfg.HTTP.TimeoutSeconds <= 0 {
		cfg.HTTP.TimeoutSeconds = 10
	}
	if cfg.HTTP.RatePerSec <= 0 {
		cfg.HTTP.RatePerSec = 2
	}
	if cfg.Storage.DSN == "" {
		cfg.Storage.DSN = "oddsdesk.db"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}
