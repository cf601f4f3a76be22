package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/niksmo/storefront/internal/adapter"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const configFileEnvName = "STOREFRONT_CONFIG_FILE"

const (
	SnapshotDriverFile   = "file"
	SnapshotDriverMemory = "memory"
	SnapshotDriverRedis  = "redis"
)

type consumers struct {
	StorefrontGroup string `mapstructure:"storefront_group"`
}

type topics struct {
	CatalogEvents string `mapstructure:"catalog_events"`
}

type broker struct {
	SeedBrokers        []string         `mapstructure:"seed_brokers"`
	SchemaRegistryURLs []string         `mapstructure:"schema_registry_urls"`
	TLS                adapter.TLSFiles `mapstructure:"tls"`
	Topics             topics           `mapstructure:"topics"`
	Consumers          consumers        `mapstructure:"consumers"`
}

// Enabled reports whether catalog events flow through a broker.
func (b broker) Enabled() bool {
	return len(b.SeedBrokers) != 0
}

type snapshot struct {
	Driver   string `mapstructure:"driver"`
	Dir      string `mapstructure:"dir"`
	RedisURL string `mapstructure:"redis_url"`
}

type storefront struct {
	BackendURL     string        `mapstructure:"backend_url"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	Locale         string        `mapstructure:"locale"`
	TimeZone       string        `mapstructure:"timezone"`
	CODCountries   []string      `mapstructure:"cod_countries"`
	DefaultCountry string        `mapstructure:"default_country"`
	Snapshot       snapshot      `mapstructure:"snapshot"`
}

type Config struct {
	LogLevel       slog.Level    `mapstructure:"log_level"`
	HTTPServerAddr string        `mapstructure:"http_server_addr"`
	HTTPTimeout    time.Duration `mapstructure:"http_timeout"`
	SQLDB          string        `mapstructure:"sql_db"`
	Broker         broker        `mapstructure:"broker"`
	Storefront     storefront    `mapstructure:"storefront"`
}

func Load() Config {
	cfg, err := LoadFile(getConfigFilepath())
	if err != nil {
		die(err)
	}
	return cfg
}

// LoadFile reads the config file over the defaults. Unknown keys are an
// error.
func LoadFile(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, err
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
	v.SetDefault("http_timeout", "35s")
	v.SetDefault("storefront.request_timeout", "30s")
	v.SetDefault("storefront.cod_countries", []string{"IN"})
	v.SetDefault("storefront.default_country", "US")
	v.SetDefault("storefront.snapshot.driver", SnapshotDriverFile)
	v.SetDefault("storefront.snapshot.dir", "./data")
}

func (c Config) validate() error {
	switch c.Storefront.Snapshot.Driver {
	case SnapshotDriverFile, SnapshotDriverMemory:
	case SnapshotDriverRedis:
		if c.Storefront.Snapshot.RedisURL == "" {
			return fmt.Errorf("storefront.snapshot.redis_url: required for %q driver",
				SnapshotDriverRedis)
		}
	default:
		return fmt.Errorf("storefront.snapshot.driver: unknown %q",
			c.Storefront.Snapshot.Driver)
	}
	if c.Broker.Enabled() && c.Broker.Topics.CatalogEvents == "" {
		return fmt.Errorf("broker.topics.catalog_events: required")
	}
	return nil
}

func getConfigFilepath() string {
	cmdLine := pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
	arg := cmdLine.String("config", "/config.yaml", "config file")
	_ = cmdLine.Parse(os.Args[1:])
	env, ok := os.LookupEnv(configFileEnvName)
	if ok {
		return env
	}
	return *arg
}

func die(err error) {
	fmt.Printf("failed to load config file: %v\n", err)
	os.Exit(2)
}

func (c Config) Print() {
	tamplate := `
	General:
	LogLevel=%q
	HTTPServerAddr=%q
	HTTPTimeout=%q
	SQLDB=%q

	BrokerConfig:
	SeedBrokers=%q
	SchemaRegistryURLs=%q
	TLS=%t
	Topics:
		CatalogEvents=%q
	Consumers:
		StorefrontGroup=%q

	Storefront:
	BackendURL=%q
	RequestTimeout=%q
	Locale=%q
	TimeZone=%q
	CODCountries=%q
	DefaultCountry=%q
	Snapshot:
		Driver=%q
		Dir=%q

`
	fmt.Println("Loaded config:")
	fmt.Printf(
		strings.TrimLeft(tamplate, "\n"),
		c.LogLevel,
		c.HTTPServerAddr,
		c.HTTPTimeout,
		redactDSN(c.SQLDB),
		c.Broker.SeedBrokers,
		c.Broker.SchemaRegistryURLs,
		c.Broker.TLS.Enabled(),
		c.Broker.Topics.CatalogEvents,
		c.Broker.Consumers.StorefrontGroup,
		c.Storefront.BackendURL,
		c.Storefront.RequestTimeout,
		c.Storefront.Locale,
		c.Storefront.TimeZone,
		c.Storefront.CODCountries,
		c.Storefront.DefaultCountry,
		c.Storefront.Snapshot.Driver,
		c.Storefront.Snapshot.Dir,
	)
}

// redactDSN hides the password of a postgres URL.
func redactDSN(dsn string) string {
	at := strings.LastIndex(dsn, "@")
	scheme := strings.Index(dsn, "://")
	if at < 0 || scheme < 0 {
		return dsn
	}
	userinfo := dsn[scheme+3 : at]
	if i := strings.Index(userinfo, ":"); i >= 0 {
		return dsn[:scheme+3] + userinfo[:i] + ":***" + dsn[at:]
	}
	return dsn
}
