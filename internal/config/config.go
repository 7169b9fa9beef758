// Package config loads the graft command configuration from the environment,
// an optional .env file and the `default` struct tags.
package config

import (
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable, e.g. GRAFT_STORE_REDIS_ADDR.
const EnvPrefix = "GRAFT"

// Config holds the configuration of the graft commands.
type Config struct {
	Log   LogConfig   `mapstructure:"log"`
	Store StoreConfig `mapstructure:"store"`
	HTTP  HTTPConfig  `mapstructure:"http"`
}

// LogConfig configures the slog logger.
type LogConfig struct {
	Level string `mapstructure:"level" default:"info"`
}

// StoreConfig selects the snapshot store.
type StoreConfig struct {
	// Driver is "memory", "file" or "redis".
	Driver string `mapstructure:"driver" default:"memory"`

	// Dir is the snapshot directory of the file driver.
	Dir string `mapstructure:"dir" default:".graft/snapshots"`

	// Redact lists prop key patterns whose values are masked before a snapshot is stored.
	Redact []string `mapstructure:"redact" default:""`

	// EncryptionKey is a base64 AES-256 key. When set, snapshots are stored encrypted.
	EncryptionKey string `mapstructure:"encryption_key" default:""`

	// TTL expires snapshots in backends that support it. Zero keeps them.
	TTL time.Duration `mapstructure:"ttl" default:"0s"`

	Redis RedisConfig `mapstructure:"redis"`
}

// RedisConfig configures the redis snapshot store and locker.
type RedisConfig struct {
	Addr     string `mapstructure:"addr" default:"localhost:6379"`
	Password string `mapstructure:"password" default:""`
	DB       int    `mapstructure:"db" default:"0"`
	Prefix   string `mapstructure:"prefix" default:"graft:snapshot:"`

	// Lock serializes commits across processes with a redis lock.
	Lock bool `mapstructure:"lock" default:"false"`

	// LockTTL bounds how long a crashed holder can block a container.
	LockTTL time.Duration `mapstructure:"lock_ttl" default:"30s"`
}

// HTTPConfig configures the inspector server.
type HTTPConfig struct {
	Port int `mapstructure:"port" default:"8080"`
}

// Load reads the configuration. A .env file in dir, when present, overrides the process environment.
func Load(dir string) (*Config, error) {
	_ = godotenv.Overload(filepath.Join(dir, ".env"))

	v := viper.New()
	bindValues(v, Config{}, "")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// bindValues registers every mapstructure key with its `default` tag so AutomaticEnv can see it.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		v.SetDefault(key, field.Tag.Get("default"))
	}
}
