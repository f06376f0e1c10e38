package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	configFileEnvName = "PROEXPLORE_CONFIG_FILE"
	envPrefix         = "PROEXPLORE"
)

// Favorites storage backends.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

var backends = []string{BackendMemory, BackendFile, BackendRedis, BackendPostgres}

type catalog struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
	CAFile  string        `mapstructure:"ca_file"`
}

type redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type favorites struct {
	Backend     string `mapstructure:"backend"`
	Key         string `mapstructure:"key"`
	FilePath    string `mapstructure:"file_path"`
	Redis       redis  `mapstructure:"redis"`
	PostgresDSN string `mapstructure:"postgres_dsn"`
}

type topics struct {
	FavoriteEvents string `mapstructure:"favorite_events"`
}

type broker struct {
	SeedBrokers        []string `mapstructure:"seed_brokers"`
	SchemaRegistryURLs []string `mapstructure:"schema_registry_urls"`
	Topics             topics   `mapstructure:"topics"`
}

// Enabled reports whether favorite events are published.
func (b broker) Enabled() bool {
	return len(b.SeedBrokers) != 0
}

type Config struct {
	LogLevel           slog.Level    `mapstructure:"log_level"`
	HTTPServerAddr     string        `mapstructure:"http_server_addr"`
	HTTPHandlerTimeout time.Duration `mapstructure:"http_handler_timeout"`
	Catalog            catalog       `mapstructure:"catalog"`
	Favorites          favorites     `mapstructure:"favorites"`
	Broker             broker        `mapstructure:"broker"`
}

func Load() Config {
	cfg, err := LoadFile(getConfigFilepath())
	if err != nil {
		die(err)
	}
	return cfg
}

// LoadFile reads the config file at path on top of the defaults. Empty path
// means defaults only. Environment variables prefixed with PROEXPLORE_
// override both, e.g. PROEXPLORE_FAVORITES_BACKEND.
func LoadFile(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	}

	var cfg Config
	err := v.UnmarshalExact(&cfg, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.TextUnmarshallerHookFunc(),
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return Config{}, err
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("http_server_addr", ":8080")
	v.SetDefault("http_handler_timeout", 30*time.Second)

	v.SetDefault("catalog.base_url", "https://fakestoreapi.com")
	v.SetDefault("catalog.timeout", time.Duration(0))
	v.SetDefault("catalog.ca_file", "")

	v.SetDefault("favorites.backend", BackendFile)
	v.SetDefault("favorites.key", "favorites")
	v.SetDefault("favorites.file_path", "data/favorites.json")
	v.SetDefault("favorites.redis.addr", "localhost:6379")
	v.SetDefault("favorites.redis.password", "")
	v.SetDefault("favorites.redis.db", 0)
	v.SetDefault("favorites.postgres_dsn", "")

	v.SetDefault("broker.seed_brokers", []string{})
	v.SetDefault("broker.schema_registry_urls", []string{})
	v.SetDefault("broker.topics.favorite_events", "favorite-events")
}

func (c Config) validate() error {
	var errs []error

	if c.HTTPServerAddr == "" {
		errs = append(errs, errors.New("http_server_addr: required"))
	}
	if c.Catalog.BaseURL == "" {
		errs = append(errs, errors.New("catalog.base_url: required"))
	}
	if c.Catalog.Timeout < 0 {
		errs = append(errs, errors.New("catalog.timeout: must not be negative"))
	}

	if c.Favorites.Key == "" {
		errs = append(errs, errors.New("favorites.key: required"))
	}

	switch c.Favorites.Backend {
	case BackendFile:
		if c.Favorites.FilePath == "" {
			errs = append(errs, errors.New("favorites.file_path: required"))
		}
	case BackendRedis:
		if c.Favorites.Redis.Addr == "" {
			errs = append(errs, errors.New("favorites.redis.addr: required"))
		}
	case BackendPostgres:
		if c.Favorites.PostgresDSN == "" {
			errs = append(errs, errors.New("favorites.postgres_dsn: required"))
		}
	}
	if !slices.Contains(backends, c.Favorites.Backend) {
		errs = append(errs, fmt.Errorf(
			"favorites.backend: %q is not one of %q",
			c.Favorites.Backend, backends,
		))
	}

	if c.Broker.Enabled() {
		if len(c.Broker.SchemaRegistryURLs) == 0 {
			errs = append(errs, errors.New("broker.schema_registry_urls: required"))
		}
		if c.Broker.Topics.FavoriteEvents == "" {
			errs = append(errs, errors.New("broker.topics.favorite_events: required"))
		}
	}

	return errors.Join(errs...)
}

func getConfigFilepath() string {
	cmdLine := pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
	arg := cmdLine.String("config", "", "config file")
	_ = cmdLine.Parse(os.Args[1:])
	env, ok := os.LookupEnv(configFileEnvName)
	if ok {
		return env
	}
	return *arg
}

func die(err error) {
	fmt.Printf("failed to load config: %v\n", err)
	os.Exit(2)
}

func (c Config) Print() {
	tamplate := `
	General:
	LogLevel=%q
	HTTPServerAddr=%q
	HTTPHandlerTimeout=%q

	Catalog:
	BaseURL=%q
	Timeout=%q
	CAFile=%q

	Favorites:
	Backend=%q
	Key=%q
	FilePath=%q
	RedisAddr=%q
	RedisDB=%d

	BrokerConfig:
	SeedBrokers=%q
	SchemaRegistryURLs=%q
	Topics:
		FavoriteEvents=%q

`
	fmt.Println("Loaded config:")
	fmt.Printf(
		strings.TrimLeft(tamplate, "\n"),
		c.LogLevel,
		c.HTTPServerAddr,
		c.HTTPHandlerTimeout,
		c.Catalog.BaseURL,
		c.Catalog.Timeout,
		c.Catalog.CAFile,
		c.Favorites.Backend,
		c.Favorites.Key,
		c.Favorites.FilePath,
		c.Favorites.Redis.Addr,
		c.Favorites.Redis.DB,
		c.Broker.SeedBrokers,
		c.Broker.SchemaRegistryURLs,
		c.Broker.Topics.FavoriteEvents,
	)
}
