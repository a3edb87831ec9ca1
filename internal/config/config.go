package config

import (
	"flag"
	"os"
	"path/filepath"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env         string   `yaml:"env" env:"ENVBOOT_ENV" env-default:"local"`
	StoragePath string   `yaml:"storage_path" env:"ENVBOOT_STORAGE_PATH"`
	Required    []string `yaml:"required" env:"ENVBOOT_REQUIRED" env-separator:"," env-default:"REACT_APP_BACKEND_SERVICE_URL,REACT_APP_WEBSOCKET_SERVICE_URL"`
	EnvFile     `yaml:"env_file"`
	HTTPServer  `yaml:"http_server"`
	Cache       `yaml:"cache"`
}

// EnvFile describes where the definition file lives
// and which keys are propagated from it.
type EnvFile struct {
	BaseDir string `yaml:"base_dir" env:"ENVBOOT_BASE_DIR" env-default:"."`
	Name    string `yaml:"name" env:"ENVBOOT_FILE_NAME" env-default:".env"`
	Prefix  string `yaml:"prefix" env:"ENVBOOT_PREFIX" env-default:"REACT_APP_"`
}

type HTTPServer struct {
	Address     string        `yaml:"address" env:"ENVBOOT_ADDRESS" env-default:"localhost:8080"`
	Timeout     time.Duration `yaml:"timeout" env-default:"4s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

type Cache struct {
	Size int           `yaml:"size" env-default:"16"`
	TTL  time.Duration `yaml:"ttl" env-default:"5m"`
}

// Path returns location of the definition file.
// Relative base directory is resolved against working directory.
func (e EnvFile) Path() string {
	return filepath.Join(e.BaseDir, e.Name)
}

func MustLoad() *Config {
	configPath := fetchConfigPath()
	if configPath == "" {
		return MustLoadEnv()
	}

	return MustLoadPath(configPath)
}

func MustLoadPath(configPath string) *Config {
	cfg, err := LoadPath(configPath)
	if err != nil {
		panic(err.Error())
	}

	return cfg
}

// MustLoadEnv builds config from environment variables and defaults only.
func MustLoadEnv() *Config {
	var cfg Config

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		panic("cannot read config from env: " + err.Error())
	}

	return &cfg
}

// LoadPath reads yaml config, environment variables override file values.
func LoadPath(configPath string) (*Config, error) {
	// check if file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, &ErrNoConfig{Path: configPath}
	}

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, &ErrBadConfig{Err: err}
	}

	return &cfg, nil
}

type ErrNoConfig struct {
	Path string
}

func (e *ErrNoConfig) Error() string {
	return "config file does not exist: " + e.Path
}

type ErrBadConfig struct {
	Err error
}

func (e *ErrBadConfig) Error() string {
	return "cannot read config: " + e.Err.Error()
}

func (e *ErrBadConfig) Unwrap() error {
	return e.Err
}

// fetchConfigPath fetches config path from command line flag or environment variable.
// Priority: flag > env > default.
// Default value is empty string.
func fetchConfigPath() string {
	var res string

	if f := flag.Lookup("config"); f != nil {
		res = f.Value.String()
	}

	if res == "" {
		res = os.Getenv("CONFIG_PATH")
	}

	return res
}
