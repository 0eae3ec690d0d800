package config

import (
	"net"
	"net/url"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Source   Source   `yaml:"source"`
	Sink     Sink     `yaml:"sink"`
	Pipeline Pipeline `yaml:"pipeline"`
	Logging  Logging  `yaml:"logging"`
}

// Source is the document store the records are extracted from. URI wins
// over the individual parts when both are set.
type Source struct {
	URI         string      `yaml:"uri"`
	Host        string      `yaml:"host" validate:"required_without=URI"`
	Port        string      `yaml:"port"`
	User        string      `yaml:"user"`
	Password    string      `yaml:"password"`
	Database    string      `yaml:"database" validate:"required"`
	Collections Collections `yaml:"collections"`
}

type Collections struct {
	Users    string `yaml:"users" validate:"required"`
	Products string `yaml:"products" validate:"required"`
	Carts    string `yaml:"carts" validate:"required"`
}

type Sink struct {
	Driver    string   `yaml:"driver" validate:"oneof=postgres mysql"`
	Postgres  Postgres `yaml:"postgres"`
	MySQL     string   `yaml:"mysql" validate:"required_if=Driver mysql"`
	BatchSize int      `yaml:"batch_size" validate:"gt=0"`
}

type Postgres struct {
	DSN      string `yaml:"dsn"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

type Pipeline struct {
	ParallelClean bool `yaml:"parallel_clean"`
}

type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format" validate:"omitempty,oneof=text json"`
}

func Default() *Config {
	return &Config{
		Source: Source{
			Host:     "localhost",
			Port:     "27017",
			Database: "ecommerce",
			Collections: Collections{
				Users:    "users",
				Products: "products",
				Carts:    "carts",
			},
		},
		Sink: Sink{
			Driver: "postgres",
			Postgres: Postgres{
				Host: "localhost",
				Port: "5432",
				Name: "ecommerce",
			},
			BatchSize: 1000,
		},
		Logging: Logging{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoadConfig starts from the defaults, applies the yaml file at path when
// it exists, then the environment (a .env file included).
func LoadConfig(path string) (*Config, error) {
	config := Default()

	if path != "" {
		file, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(file, config); err != nil {
				return nil, errors.Wrapf(err, "parse %s", path)
			}
		case !os.IsNotExist(err):
			return nil, errors.Wrapf(err, "read %s", path)
		}
	}

	// A missing .env is normal outside development.
	_ = godotenv.Load()
	config.applyEnv()

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) applyEnv() {
	c.Source.URI = getEnv("MONGO_URI", c.Source.URI)
	c.Source.Host = getEnv("MONGO_HOST", c.Source.Host)
	c.Source.Port = getEnv("MONGO_PORT", c.Source.Port)
	c.Source.User = getEnv("MONGO_USER", c.Source.User)
	c.Source.Password = getEnv("MONGO_PASSWORD", c.Source.Password)
	c.Source.Database = getEnv("MONGO_DB", c.Source.Database)

	c.Sink.Driver = getEnv("SINK_DRIVER", c.Sink.Driver)
	c.Sink.Postgres.DSN = getEnv("PG_DSN", c.Sink.Postgres.DSN)
	c.Sink.Postgres.Host = getEnv("PG_HOST", c.Sink.Postgres.Host)
	c.Sink.Postgres.Port = getEnv("PG_PORT", c.Sink.Postgres.Port)
	c.Sink.Postgres.Name = getEnv("PG_DB", c.Sink.Postgres.Name)
	c.Sink.Postgres.User = getEnv("PG_USER", c.Sink.Postgres.User)
	c.Sink.Postgres.Password = getEnv("PG_PASSWORD", c.Sink.Postgres.Password)
	c.Sink.MySQL = getEnv("MYSQL_DSN", c.Sink.MySQL)
	c.Sink.BatchSize = getEnvAsInt("SINK_BATCH_SIZE", c.Sink.BatchSize)

	c.Pipeline.ParallelClean = getEnvAsBool("PARALLEL_CLEAN", c.Pipeline.ParallelClean)

	c.Logging.Level = getEnv("LOG_LEVEL", c.Logging.Level)
	c.Logging.Format = getEnv("LOG_FORMAT", c.Logging.Format)
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(err, "invalid config")
	}
	if c.Sink.Driver == "postgres" && c.Sink.Postgres.DSN == "" && c.Sink.Postgres.Host == "" {
		return errors.New("invalid config: postgres sink needs PG_DSN or PG_HOST")
	}
	return nil
}

// MongoURI returns the source connection string, authenticating against
// the admin database when credentials are set.
func (c *Config) MongoURI() string {
	if c.Source.URI != "" {
		return c.Source.URI
	}
	u := url.URL{
		Scheme: "mongodb",
		Host:   hostPort(c.Source.Host, c.Source.Port),
		Path:   "/" + c.Source.Database,
	}
	if c.Source.User != "" {
		u.User = url.UserPassword(c.Source.User, c.Source.Password)
		u.RawQuery = "authSource=admin"
	}
	return u.String()
}

// SinkDSN returns the connection string of the selected sink.
func (c *Config) SinkDSN() string {
	if c.Sink.Driver == "mysql" {
		return c.Sink.MySQL
	}
	pg := c.Sink.Postgres
	if pg.DSN != "" {
		return pg.DSN
	}
	u := url.URL{
		Scheme: "postgres",
		Host:   hostPort(pg.Host, pg.Port),
		Path:   "/" + pg.Name,
	}
	if pg.User != "" {
		u.User = url.UserPassword(pg.User, pg.Password)
	}
	return u.String()
}

func hostPort(host, port string) string {
	if port == "" {
		return host
	}
	return net.JoinHostPort(host, port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
