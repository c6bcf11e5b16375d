package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"pasture-rotation/internal/domain/forage"
	"pasture-rotation/internal/domain/paddocks"
	"pasture-rotation/internal/domain/permanence"
	"pasture-rotation/internal/platform/validation"
)

// ConfigPathEnvVar permite apuntar a un YAML fuera de las rutas por defecto.
const ConfigPathEnvVar = "CONFIG_PATH"

var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
}

type Config struct {
	Server   ServerConfig   `koanf:"server" validate:"required"`
	Database DatabaseConfig `koanf:"database"`
	Logging  LoggingConfig  `koanf:"logging"`
	Auth     AuthConfig     `koanf:"auth"`
	Grazing  GrazingConfig  `koanf:"grazing" validate:"required"`
}

type ServerConfig struct {
	Port            int           `koanf:"port" validate:"gte=1,lte=65535"`
	ReadTimeout     time.Duration `koanf:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `koanf:"write_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
}

func (s ServerConfig) Addr() string { return fmt.Sprintf(":%d", s.Port) }

// DatabaseConfig: DSN vacío = store en memoria.
type DatabaseConfig struct {
	DSN string `koanf:"dsn"`
	// AutoMigrate corre el schema embebido al arrancar.
	AutoMigrate bool `koanf:"auto_migrate"`
}

type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=debug info warn warning error"`
	Format string `koanf:"format" validate:"oneof=text json"`
	App    string `koanf:"app"`
}

// AuthConfig: sin IntrospectURL se acepta X-Debug-User-ID (modo dev).
type AuthConfig struct {
	IntrospectURL string        `koanf:"introspect_url" validate:"omitempty,url"`
	APIKey        string        `koanf:"api_key"`
	Timeout       time.Duration `koanf:"timeout"`
}

// GrazingConfig agrupa las constantes agronómicas ajustables.
type GrazingConfig struct {
	DMYieldPerHaPerCm          float64 `koanf:"dm_yield_per_ha_per_cm" validate:"gt=0"`
	DailyIntakePerAnimalUnitKg float64 `koanf:"daily_intake_per_ua_kg" validate:"gt=0"`
	IntakeFraction             float64 `koanf:"intake_fraction" validate:"gt=0,lt=1"`
	DefaultEfficiency          float64 `koanf:"default_efficiency" validate:"gt=0,lte=1"`
	RecoveryDays               int     `koanf:"recovery_days" validate:"gte=0,lte=365"`
}

func (g GrazingConfig) ForageParams() forage.Params {
	return forage.Params{
		DMYieldPerHaPerCm:          g.DMYieldPerHaPerCm,
		DailyIntakePerAnimalUnitKg: g.DailyIntakePerAnimalUnitKg,
	}
}

func Defaults() *Config {
	fp := forage.DefaultParams()
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     5 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{AutoMigrate: true},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			App:    "pasture-rotation",
		},
		Auth: AuthConfig{Timeout: 5 * time.Second},
		Grazing: GrazingConfig{
			DMYieldPerHaPerCm:          fp.DMYieldPerHaPerCm,
			DailyIntakePerAnimalUnitKg: fp.DailyIntakePerAnimalUnitKg,
			IntakeFraction:             permanence.DefaultIntakeFraction,
			DefaultEfficiency:          forage.DefaultGrazingEfficiency,
			RecoveryDays:               paddocks.DefaultRecoveryDays,
		},
	}
}

// Load aplica en orden: defaults, YAML opcional, variables de entorno.
func Load() (*Config, error) {
	return load(findConfigFile())
}

func load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Defaults(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	if err := validation.Struct(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// envMappings: solo estas variables entran a la configuración.
var envMappings = map[string]string{
	"port":             "server.port",
	"read_timeout":     "server.read_timeout",
	"write_timeout":    "server.write_timeout",
	"shutdown_timeout": "server.shutdown_timeout",

	"db_dsn":          "database.dsn",
	"db_auto_migrate": "database.auto_migrate",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"app_name":   "logging.app",

	"auth_introspect_url": "auth.introspect_url",
	"auth_api_key":        "auth.api_key",
	"auth_timeout":        "auth.timeout",

	"grazing_dm_yield_per_ha_per_cm": "grazing.dm_yield_per_ha_per_cm",
	"grazing_daily_intake_per_ua_kg": "grazing.daily_intake_per_ua_kg",
	"grazing_intake_fraction":        "grazing.intake_fraction",
	"grazing_default_efficiency":     "grazing.default_efficiency",
	"grazing_recovery_days":          "grazing.recovery_days",
}

func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}
