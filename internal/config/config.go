package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/multierr"
)

// Database drivers understood by the server.
const (
	DriverJSON   = "json"
	DriverSQLite = "sqlite"
	DriverS3     = "s3"
)

// Config holds application level configuration aggregated from env/config files.
type Config struct {
	Server struct {
		Addr string
	}
	Log struct {
		Level  string
		Format string
	}
	Database struct {
		Driver string
		Dir    string
		Path   string
		Seed   bool
	}
	Storage struct {
		Bucket    string
		KeyPrefix string
		Region    string
		Endpoint  string
	}
	AWS struct {
		Profile string
	}
}

// Load reads configuration from environment variables and optional config files.
func Load() (Config, error) {
	// .env is optional; variables already set in the environment win.
	_ = godotenv.Load(".env")

	v := viper.New()
	v.SetEnvPrefix("PORTAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	v.SetConfigName("config")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional file

	return decode(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", "0.0.0.0:8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("database.driver", DriverJSON)
	v.SetDefault("database.dir", "database")
	v.SetDefault("database.path", "data/portal.db")
	v.SetDefault("database.seed", true)
	v.SetDefault("storage.bucket", "")
	v.SetDefault("storage.keyprefix", "course-portal")
	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("storage.endpoint", "")
	v.SetDefault("aws.profile", "")
}

func decode(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Database.Driver = strings.ToLower(strings.TrimSpace(cfg.Database.Driver))
	return cfg, nil
}

// Validate reports every configuration problem at once.
func (c Config) Validate() error {
	var err error
	if strings.TrimSpace(c.Server.Addr) == "" {
		err = multierr.Append(err, fmt.Errorf("server.addr is required"))
	}
	if strings.TrimSpace(c.Database.Dir) == "" {
		err = multierr.Append(err, fmt.Errorf("database.dir is required"))
	}

	switch c.Database.Driver {
	case DriverJSON:
	case DriverSQLite:
		if strings.TrimSpace(c.Database.Path) == "" {
			err = multierr.Append(err, fmt.Errorf("database.path is required for the sqlite driver"))
		}
	case DriverS3:
		if strings.TrimSpace(c.Storage.Bucket) == "" {
			err = multierr.Append(err, fmt.Errorf("storage.bucket is required for the s3 driver"))
		}
	default:
		err = multierr.Append(err, fmt.Errorf("unknown database.driver %q", c.Database.Driver))
	}

	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		err = multierr.Append(err, fmt.Errorf("unknown log.format %q", c.Log.Format))
	}
	return err
}
