package config

import (
	"fmt"
	"github.com/ilyakaznacheev/cleanenv"
	"log"
	"os"
	"time"
)

const defaultConfigPath = "./config/local.yaml"

type Config struct {
	Env        string `yaml:"env" env:"ENV" env-default:"prod"`
	HTTPServer `yaml:"http_server"`
	DB         `yaml:"db"`

	Location     string        `yaml:"location" env:"DISPLAY_LOCATION" env-default:"Local"`
	ErrorLog     string        `yaml:"error_log" env-default:"errors.log"`
	CORSOrigins  []string      `yaml:"cors_origins" env-default:"http://localhost:8081,http://localhost:5173"`
	LoadOnStart  bool          `yaml:"load_on_start" env-default:"true"`
	QueryTimeout time.Duration `yaml:"query_timeout" env-default:"30s"`

	AdminLogin string `yaml:"admin_login" env:"ADMIN_LOGIN"`
	AdminPass  string `yaml:"admin_pass" env:"ADMIN_PASS"`
}

type HTTPServer struct {
	Address     string        `yaml:"address" env:"HTTP_ADDRESS" env-default:"localhost:8050"`
	Timeout     time.Duration `yaml:"timeout"  env-default:"10s"`
	IdleTimeout time.Duration `yaml:"idle_timeout"  env-default:"60s"`
}

type DB struct {
	User         string        `yaml:"user" env:"DB_USER" env-required:"true"`
	Password     string        `yaml:"password" env:"DB_PASSWORD"`
	Host         string        `yaml:"host" env:"DB_HOST" env-default:"localhost"`
	Port         int           `yaml:"port" env:"DB_PORT" env-default:"3306"`
	Name         string        `yaml:"name" env:"DB_NAME" env-required:"true"`
	MaxOpenConns int           `yaml:"max_open_conns" env-default:"4"`
	MaxIdleConns int           `yaml:"max_idle_conns" env-default:"2"`
	ConnMaxLife  time.Duration `yaml:"conn_max_lifetime" env-default:"30m"`
}

// Load reads the yaml file at path and applies environment overrides.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		path = defaultConfigPath
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", path)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("cannot read config %s: %w", path, err)
	}

	if _, err := cfg.DisplayLocation(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func MustConfig() *Config {
	cfg, err := Load("")
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}

	return cfg
}

// DisplayLocation is the zone timestamps are shown in. The database stores UTC.
func (c Config) DisplayLocation() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Location)
	if err != nil {
		return nil, fmt.Errorf("invalid location %q: %w", c.Location, err)
	}
	return loc, nil
}
