package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	ClientSQL  = "sql"
	ClientGorm = "gorm"
)

type Database struct {
	Driver   string `yaml:"driver"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
	// Path solo aplica a sqlite
	Path string `yaml:"path"`

	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

// Config contiene toda la configuración de la API
type Config struct {
	Server struct {
		Port         string   `yaml:"port"`
		Mode         string   `yaml:"mode"`
		AllowOrigins []string `yaml:"allow_origins"`
	} `yaml:"server"`
	Database Database `yaml:"database"`
	Store    struct {
		Client       string        `yaml:"client"`
		QueryTimeout time.Duration `yaml:"query_timeout"`
		InsiderLimit int           `yaml:"insider_limit"`
	} `yaml:"store"`
	Metrics struct {
		Enabled  bool   `yaml:"enabled"`
		AdminKey string `yaml:"admin_key"`
	} `yaml:"metrics"`
	Tracing struct {
		Enabled bool `yaml:"enabled"`
	} `yaml:"tracing"`
}

// Load lee el YAML (si existe), aplica las variables de entorno y completa los valores por defecto.
// Las variables de .env ya deben estar cargadas por godotenv.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if len(data) > 0 {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	applyDefaults(cfg)

	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("PORT"); v != "" {
		cfg.Server.Port = v
	}
	if v := os.Getenv("GIN_MODE"); v != "" {
		cfg.Server.Mode = v
	}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		cfg.Server.AllowOrigins = splitList(v)
	}

	if v := os.Getenv("DB_DRIVER"); v != "" {
		cfg.Database.Driver = strings.ToLower(v)
	}
	if v := os.Getenv("DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("DB_PORT"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("DB_PORT inválido: %w", err)
		}
		cfg.Database.Port = p
	}
	if v := os.Getenv("DB_NAME"); v != "" {
		cfg.Database.Name = v
	}
	if v := os.Getenv("DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("DB_SSLMODE"); v != "" {
		cfg.Database.SSLMode = v
	}
	if v := os.Getenv("DB_PATH"); v != "" {
		cfg.Database.Path = v
	}

	if v := os.Getenv("STORE_CLIENT"); v != "" {
		cfg.Store.Client = strings.ToLower(v)
	}
	if v := os.Getenv("QUERY_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("QUERY_TIMEOUT inválido: %w", err)
		}
		cfg.Store.QueryTimeout = d
	}
	if v := os.Getenv("INSIDER_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("INSIDER_LIMIT inválido: %w", err)
		}
		cfg.Store.InsiderLimit = n
	}

	if v := os.Getenv("METRICS_ENABLED"); v != "" {
		cfg.Metrics.Enabled = parseBool(v)
	}
	if v := os.Getenv("ADMIN_SECRET_KEY"); v != "" {
		cfg.Metrics.AdminKey = v
	}
	if v := os.Getenv("TRACING_ENABLED"); v != "" {
		cfg.Tracing.Enabled = parseBool(v)
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
	}
	if len(cfg.Server.AllowOrigins) == 0 {
		cfg.Server.AllowOrigins = []string{"http://localhost:3000"}
	}

	if cfg.Database.Driver == "" {
		cfg.Database.Driver = DriverPostgres
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.Name == "" {
		cfg.Database.Name = "insider_trades"
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "postgres"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "database/insider_trades.db"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 10
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 30 * time.Minute
	}

	if cfg.Store.Client == "" {
		cfg.Store.Client = ClientSQL
	}
	if cfg.Store.QueryTimeout == 0 {
		cfg.Store.QueryTimeout = 5 * time.Second
	}
	if cfg.Store.InsiderLimit == 0 {
		cfg.Store.InsiderLimit = 200
	}
}

// Validate revisa que la configuración tenga sentido antes de abrir conexiones
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.Host == "" || c.Database.Name == "" {
			return fmt.Errorf("database.host y database.name son obligatorios para postgres")
		}
	case DriverSQLite:
		if c.Database.Path == "" {
			return fmt.Errorf("database.path es obligatorio para sqlite")
		}
	default:
		return fmt.Errorf("database.driver desconocido: %q", c.Database.Driver)
	}

	if c.Store.Client != ClientSQL && c.Store.Client != ClientGorm {
		return fmt.Errorf("store.client desconocido: %q", c.Store.Client)
	}
	if c.Store.QueryTimeout <= 0 {
		return fmt.Errorf("store.query_timeout debe ser positivo")
	}
	if c.Store.InsiderLimit <= 0 {
		return fmt.Errorf("store.insider_limit debe ser positivo")
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseBool(v string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	return v == "1" || v == "true" || v == "yes"
}
