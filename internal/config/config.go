package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// PasswordEnv overrides database.password when set.
const PasswordEnv = "OLIST_DB_PASSWORD"

type Config struct {
	Database Database `yaml:"database"`
	LoadTest LoadTest `yaml:"load_test"`
	Explorer Explorer `yaml:"explorer"`
	Charts   Charts   `yaml:"charts"`
}

type Database struct {
	Driver   string `yaml:"driver"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
	// DSN, when set, is handed to the driver verbatim and the fields above
	// are ignored except Driver and Name.
	DSN string `yaml:"dsn"`
}

type LoadTest struct {
	ThreadCounts []int         `yaml:"thread_counts"`
	Iterations   int           `yaml:"iterations"`
	SettleDelay  time.Duration `yaml:"settle_delay"`
	Queries      []string      `yaml:"queries"`
}

type Explorer struct {
	DataPath string `yaml:"data_path"`
}

type Charts struct {
	OutputDir string `yaml:"output_dir"`
}

// Default returns the settings used when no config file is given.
func Default() *Config {
	return &Config{
		Database: Database{
			Driver:  "postgres",
			Host:    "localhost",
			Port:    5432,
			Name:    "ecommerce_olist",
			User:    "postgres",
			SSLMode: "disable",
		},
		LoadTest: LoadTest{
			ThreadCounts: []int{1, 5, 10, 20, 50},
			Iterations:   5,
			SettleDelay:  time.Second,
		},
		Explorer: Explorer{DataPath: "data/raw"},
		Charts:   Charts{OutputDir: "results/charts"},
	}
}

func LoadConfig(path string) (*Config, error) {
	config := Default()

	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Fields absent from the file keep their defaults.
	err = yaml.Unmarshal(file, config)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	config.ApplyEnv()

	return config, nil
}

func (c *Config) ApplyEnv() {
	if pw := os.Getenv(PasswordEnv); pw != "" {
		c.Database.Password = pw
	}
}

func (c *Config) Validate() error {
	var errs []error

	switch c.Database.Driver {
	case "postgres", "mysql", "mongo":
	default:
		errs = append(errs, fmt.Errorf("unsupported database driver %q", c.Database.Driver))
	}
	if c.Database.DSN == "" {
		if c.Database.Host == "" {
			errs = append(errs, errors.New("database host is required"))
		}
		if c.Database.Port <= 0 || c.Database.Port > 65535 {
			errs = append(errs, fmt.Errorf("database port %d out of range", c.Database.Port))
		}
	}
	if c.Database.Name == "" {
		errs = append(errs, errors.New("database name is required"))
	}

	if len(c.LoadTest.ThreadCounts) == 0 {
		errs = append(errs, errors.New("at least one thread count is required"))
	}
	for _, n := range c.LoadTest.ThreadCounts {
		if n < 1 {
			errs = append(errs, fmt.Errorf("thread count %d must be at least 1", n))
		}
	}
	if c.LoadTest.Iterations < 1 {
		errs = append(errs, fmt.Errorf("iterations %d must be at least 1", c.LoadTest.Iterations))
	}
	if c.LoadTest.SettleDelay < 0 {
		errs = append(errs, errors.New("settle delay cannot be negative"))
	}

	return errors.Join(errs...)
}
